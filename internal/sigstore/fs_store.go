package sigstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrexox/godsync/internal/hash"
	"github.com/mrexox/godsync/internal/signature"
)

// FSStore caches signatures as files under a directory, one file per
// key, named by the key's content hash so arbitrary keys (paths
// containing slashes, etc.) never collide with the filesystem's own
// structure.
type FSStore struct {
	dir string
}

// NewFSStore returns a Store backed by dir, creating it if necessary.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("sigstore: creating cache directory: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) path(key string) string {
	digest := hash.Sum([]byte(key))
	return filepath.Join(s.dir, fmt.Sprintf("%x.sig", digest))
}

func (s *FSStore) Get(ctx context.Context, key string) (*signature.Signature, bool, error) {
	f, err := os.Open(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sigstore: opening cache entry: %w", err)
	}
	defer f.Close()

	sig, err := signature.Load(f)
	if err != nil {
		return nil, false, fmt.Errorf("sigstore: loading cache entry: %w", err)
	}
	return sig, true, nil
}

func (s *FSStore) Put(ctx context.Context, key string, sig *signature.Signature) error {
	var buf bytes.Buffer
	if err := signature.Write(&buf, sig); err != nil {
		return fmt.Errorf("sigstore: encoding cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "sigstore-*.tmp")
	if err != nil {
		return fmt.Errorf("sigstore: creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, &buf); err != nil {
		tmp.Close()
		return fmt.Errorf("sigstore: writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("sigstore: closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("sigstore: committing cache entry: %w", err)
	}
	return nil
}

func (s *FSStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
