// Package apply executes a patch against a local source stream (spec.md
// §4.6) or, in pull mode, against a local source plus HTTP byte-range
// fetches of the target (spec.md §4.7).
package apply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mrexox/godsync/internal/delta"
)

// Local reads a patch stream from patch and reconstructs the target into
// dest, copying Copy-operation bytes from source. source must support
// seeking (it is seeked per-Copy); patch is only read forward, so a plain
// io.Reader suffices.
//
// Reading VERSION happens first; a mismatch fails immediately with
// *delta.ErrVersionMismatch and nothing is written to dest. Truncation
// mid-record is a fatal *delta.ErrFraming error; reaching EOF exactly at
// a record boundary is normal termination.
func Local(patch io.Reader, source io.ReadSeeker, dest io.Writer) error {
	br := bufio.NewReader(patch)

	versionByte, err := br.ReadByte()
	if err != nil {
		return fmt.Errorf("apply: reading patch version: %w", err)
	}
	if versionByte != delta.CurrentVersion {
		return &delta.ErrVersionMismatch{Got: versionByte, Want: delta.CurrentVersion}
	}

	for {
		tag, err := br.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("apply: reading tag: %w", err)
		}

		switch delta.Kind(tag) {
		case delta.Copy:
			var rec [16]byte
			if _, err := io.ReadFull(br, rec[:]); err != nil {
				return framingOrIO("copy record", err)
			}
			offset := binary.BigEndian.Uint64(rec[0:8])
			size := binary.BigEndian.Uint64(rec[8:16])

			if _, err := source.Seek(int64(offset), io.SeekStart); err != nil {
				return fmt.Errorf("apply: seeking source to %d: %w", offset, err)
			}
			if _, err := io.CopyN(dest, source, int64(size)); err != nil {
				return fmt.Errorf("apply: copying %d bytes from source: %w", size, err)
			}

		case delta.Insert:
			var sizeBuf [8]byte
			if _, err := io.ReadFull(br, sizeBuf[:]); err != nil {
				return framingOrIO("insert size", err)
			}
			size := binary.BigEndian.Uint64(sizeBuf[:])

			if _, err := io.CopyN(dest, br, int64(size)); err != nil {
				return framingOrIO("insert payload", err)
			}

		default:
			return &delta.ErrFraming{Reason: fmt.Sprintf("unknown operation tag %d", tag)}
		}
	}
}

func framingOrIO(what string, err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return &delta.ErrFraming{Reason: fmt.Sprintf("truncated %s", what)}
	}
	return fmt.Errorf("apply: reading %s: %w", what, err)
}
