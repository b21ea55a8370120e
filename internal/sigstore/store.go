// Package sigstore caches built Signatures keyed by a caller-supplied
// identity (typically a file path plus mtime/size), so repeated diffs
// against an unchanged source don't re-chunk and re-hash it every time.
package sigstore

import (
	"context"

	"github.com/mrexox/godsync/internal/signature"
)

// Store caches serialized signatures by key. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get returns the cached signature for key, or ok=false if absent or
	// expired.
	Get(ctx context.Context, key string) (sig *signature.Signature, ok bool, err error)

	// Put caches sig under key.
	Put(ctx context.Context, key string, sig *signature.Signature) error

	// Delete removes any cached entry for key. Deleting an absent key is
	// not an error.
	Delete(ctx context.Context, key string) error
}
