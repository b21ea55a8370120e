// Package hash computes the 256-bit cryptographic fingerprint used to
// identify chunks. The core treats the digest as an opaque 32-byte value.
package hash

import (
	"hash"

	"github.com/zeebo/blake3"
)

// Size is the digest length in bytes.
const Size = 32

// Digest is a 256-bit chunk fingerprint.
type Digest [Size]byte

// Sum returns the BLAKE3-256 digest of data.
func Sum(data []byte) Digest {
	return Digest(blake3.Sum256(data))
}

// Hasher incrementally hashes a stream of bytes, for callers that want to
// feed data in pieces rather than holding the whole chunk in memory. It
// wraps blake3.New(), which satisfies the standard hash.Hash interface.
type Hasher struct {
	h hash.Hash
}

// New returns a fresh incremental Hasher.
func New() *Hasher {
	return &Hasher{h: blake3.New()}
}

// Write implements io.Writer; it never returns an error.
func (h *Hasher) Write(p []byte) (int, error) {
	return h.h.Write(p)
}

// Sum256 finalizes the hash and returns the digest.
func (h *Hasher) Sum256() Digest {
	var d Digest
	copy(d[:], h.h.Sum(nil))
	return d
}
