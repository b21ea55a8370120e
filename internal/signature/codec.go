package signature

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mrexox/godsync/internal/chunker"
)

// ErrVersionMismatch carries both the version read off the wire and the
// version this build understands.
type ErrVersionMismatch struct {
	Got, Want uint8
}

func (e *ErrVersionMismatch) Error() string {
	return fmt.Sprintf("signature: version mismatch: got %d, want %d", e.Got, e.Want)
}

// ErrChunkInvariant reports a structural violation found while loading a
// signature: a chunk length exceeding max_size, or a chunk offset that
// does not start exactly where the previous chunk ended.
type ErrChunkInvariant struct {
	Reason string
}

func (e *ErrChunkInvariant) Error() string {
	return "signature: chunk invariant violated: " + e.Reason
}

// Write serializes s per spec.md §4.3:
//
//	VERSION     u8
//	MIN_SIZE    u32
//	AVG_SIZE    u32
//	MAX_SIZE    u32
//	CHUNK_COUNT u64
//	repeated CHUNK_COUNT times: HASH(32) OFFSET(u64) LENGTH(u64)
//
// All integers big-endian.
func Write(w io.Writer, s *Signature) error {
	bw := bufio.NewWriter(w)

	if err := bw.WriteByte(s.Version); err != nil {
		return fmt.Errorf("signature: writing version: %w", err)
	}

	var minMax [12]byte
	binary.BigEndian.PutUint32(minMax[0:4], s.Params.MinSize)
	binary.BigEndian.PutUint32(minMax[4:8], s.Params.AvgSize)
	binary.BigEndian.PutUint32(minMax[8:12], s.Params.MaxSize)
	if _, err := bw.Write(minMax[:]); err != nil {
		return fmt.Errorf("signature: writing params: %w", err)
	}

	var countBuf [8]byte
	binary.BigEndian.PutUint64(countBuf[:], uint64(len(s.Chunks)))
	if _, err := bw.Write(countBuf[:]); err != nil {
		return fmt.Errorf("signature: writing chunk count: %w", err)
	}

	var rec [48]byte
	for _, c := range s.Chunks {
		copy(rec[0:32], c.Hash[:])
		binary.BigEndian.PutUint64(rec[32:40], c.Offset)
		binary.BigEndian.PutUint64(rec[40:48], c.Length)
		if _, err := bw.Write(rec[:]); err != nil {
			return fmt.Errorf("signature: writing chunk: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("signature: flushing: %w", err)
	}
	return nil
}

// Load deserializes a Signature from r. VERSION must equal CurrentVersion
// or the read fails with *ErrVersionMismatch. Reading fewer bytes than
// CHUNK_COUNT advertises is a structural error. Chunk lengths exceeding
// max_size (checked when max_size is nonzero), or an offset that is not
// contiguous with the previous chunk's end, fail with *ErrChunkInvariant.
func Load(r io.Reader) (*Signature, error) {
	br := bufio.NewReader(r)

	versionByte, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("signature: reading version: %w", err)
	}
	if versionByte != CurrentVersion {
		return nil, &ErrVersionMismatch{Got: versionByte, Want: CurrentVersion}
	}

	var minMax [12]byte
	if _, err := io.ReadFull(br, minMax[:]); err != nil {
		return nil, fmt.Errorf("signature: reading params: %w", err)
	}
	params := chunker.Params{
		MinSize: binary.BigEndian.Uint32(minMax[0:4]),
		AvgSize: binary.BigEndian.Uint32(minMax[4:8]),
		MaxSize: binary.BigEndian.Uint32(minMax[8:12]),
	}

	var countBuf [8]byte
	if _, err := io.ReadFull(br, countBuf[:]); err != nil {
		return nil, fmt.Errorf("signature: reading chunk count: %w", err)
	}
	count := binary.BigEndian.Uint64(countBuf[:])

	// Cap the initial allocation regardless of what CHUNK_COUNT claims;
	// a corrupt or adversarial header should not drive an unbounded alloc.
	prealloc := count
	if prealloc > 1<<20 {
		prealloc = 1 << 20
	}
	sig := &Signature{
		Version: versionByte,
		Params:  params,
		Chunks:  make([]Chunk, 0, prealloc),
	}

	var rec [48]byte
	var prevEnd uint64
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(br, rec[:]); err != nil {
			return nil, fmt.Errorf("signature: reading chunk %d of %d: %w", i, count, err)
		}

		var c Chunk
		copy(c.Hash[:], rec[0:32])
		c.Offset = binary.BigEndian.Uint64(rec[32:40])
		c.Length = binary.BigEndian.Uint64(rec[40:48])

		if params.MaxSize > 0 && c.Length > uint64(params.MaxSize) {
			return nil, &ErrChunkInvariant{Reason: fmt.Sprintf("chunk %d length %d exceeds max_size %d", i, c.Length, params.MaxSize)}
		}
		if i > 0 && c.Offset != prevEnd {
			return nil, &ErrChunkInvariant{Reason: fmt.Sprintf("chunk %d offset %d is not contiguous with previous end %d", i, c.Offset, prevEnd)}
		}
		prevEnd = c.Offset + c.Length

		sig.Chunks = append(sig.Chunks, c)
	}

	return sig, nil
}
