// Package signature builds and represents the chunk-list summary of a
// file (spec.md §3, §4.3): an ordered sequence of content-defined chunks,
// each identified by a 256-bit hash, tagged with the CDC parameters used
// to produce them.
package signature

import (
	"fmt"
	"io"

	"github.com/mrexox/godsync/internal/chunker"
	"github.com/mrexox/godsync/internal/hash"
)

// CurrentVersion is the only signature format version this build
// understands. Any other value on load is a hard VersionMismatch error.
const CurrentVersion uint8 = 0

// Chunk is a contiguous byte range of a file, identified by its content
// hash. Two chunks are equal iff both Hash and Length match; Offset is
// not part of chunk identity.
type Chunk struct {
	Hash   hash.Digest
	Offset uint64
	Length uint64
}

// Signature is the ordered chunk sequence produced from one file, plus
// the CDC parameters used to build it. Immutable once built.
type Signature struct {
	Version uint8
	Params  chunker.Params
	Chunks  []Chunk
}

// Build streams r through a Chunker configured with params and returns
// the resulting Signature. Linear in the size of r, single pass.
func Build(r io.Reader, params chunker.Params) (*Signature, error) {
	ck, err := chunker.New(params)
	if err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}

	sig := &Signature{
		Version: CurrentVersion,
		Params:  params,
		Chunks:  make([]Chunk, 0, 64),
	}

	err = ck.Each(r, func(rec chunker.Record) error {
		sig.Chunks = append(sig.Chunks, Chunk{
			Hash:   hash.Sum(rec.Data),
			Offset: rec.Offset,
			Length: rec.Length(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("signature: building from stream: %w", err)
	}

	return sig, nil
}

// Size returns the total byte length the signature's chunks cover.
func (s *Signature) Size() uint64 {
	if len(s.Chunks) == 0 {
		return 0
	}
	last := s.Chunks[len(s.Chunks)-1]
	return last.Offset + last.Length
}

// Equal reports whether two signatures have identical version, params,
// and chunk sequences. Used by the serialization round-trip property.
func (s *Signature) Equal(o *Signature) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Version != o.Version || s.Params != o.Params {
		return false
	}
	if len(s.Chunks) != len(o.Chunks) {
		return false
	}
	for i := range s.Chunks {
		if s.Chunks[i] != o.Chunks[i] {
			return false
		}
	}
	return true
}
