package delta

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// CurrentVersion is the only patch format version this build understands.
const CurrentVersion uint8 = 0

// ErrVersionMismatch carries both the version read off the wire and the
// version this build understands.
type ErrVersionMismatch struct {
	Got, Want uint8
}

func (e *ErrVersionMismatch) Error() string {
	return fmt.Sprintf("delta: version mismatch: got %d, want %d", e.Got, e.Want)
}

// ErrFraming reports an unknown operation tag or a truncated record —
// both fatal per spec.md §4.5/§7.
type ErrFraming struct {
	Reason string
}

func (e *ErrFraming) Error() string {
	return "delta: framing error: " + e.Reason
}

// WritePatch serializes ops as a patch stream per spec.md §4.5:
//
//	VERSION u8
//	repeated until EOF:
//	  TAG u8   // 0 = Copy, 1 = Insert
//	  Copy:   OFFSET u64, SIZE u64
//	  Insert: SIZE u64, DATA SIZE bytes, read from target at op.Offset
//
// target must be seekable; it supplies the raw bytes embedded for each
// Insert operation.
func WritePatch(w io.Writer, ops []Operation, target io.ReadSeeker) error {
	bw := bufio.NewWriter(w)

	if err := bw.WriteByte(CurrentVersion); err != nil {
		return fmt.Errorf("delta: writing version: %w", err)
	}

	for _, op := range ops {
		switch op.Kind {
		case Copy:
			if err := writeCopyRecord(bw, op); err != nil {
				return err
			}
		case Insert:
			if err := writeInsertRecord(bw, op, target); err != nil {
				return err
			}
		default:
			return fmt.Errorf("delta: writing patch: unknown operation kind %v", op.Kind)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("delta: flushing patch: %w", err)
	}
	return nil
}

func writeCopyRecord(w *bufio.Writer, op Operation) error {
	var rec [17]byte
	rec[0] = byte(Copy)
	binary.BigEndian.PutUint64(rec[1:9], op.Offset)
	binary.BigEndian.PutUint64(rec[9:17], op.Size)
	if _, err := w.Write(rec[:]); err != nil {
		return fmt.Errorf("delta: writing copy record: %w", err)
	}
	return nil
}

func writeInsertRecord(w *bufio.Writer, op Operation, target io.ReadSeeker) error {
	var hdr [9]byte
	hdr[0] = byte(Insert)
	binary.BigEndian.PutUint64(hdr[1:9], op.Size)
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("delta: writing insert header: %w", err)
	}

	if _, err := target.Seek(int64(op.Offset), io.SeekStart); err != nil {
		return fmt.Errorf("delta: seeking target for insert: %w", err)
	}
	if _, err := io.CopyN(w, target, int64(op.Size)); err != nil {
		return fmt.Errorf("delta: reading insert payload from target: %w", err)
	}
	return nil
}

// ReadPatch reads a full patch stream from r and returns its operation
// list. Insert operations' Offset field is left zero since the embedded
// format does not carry target offsets. Insert payload bytes are read
// past and discarded, not returned; callers that need the payload bytes
// applied should use apply.Local instead of ReadPatch.
func ReadPatch(r io.Reader) ([]Operation, error) {
	br := bufio.NewReader(r)

	versionByte, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("delta: reading version: %w", err)
	}
	if versionByte != CurrentVersion {
		return nil, &ErrVersionMismatch{Got: versionByte, Want: CurrentVersion}
	}

	var ops []Operation
	for {
		tag, err := br.ReadByte()
		if err == io.EOF {
			return ops, nil
		}
		if err != nil {
			return nil, fmt.Errorf("delta: reading tag: %w", err)
		}

		switch Kind(tag) {
		case Copy:
			var rec [16]byte
			if _, err := io.ReadFull(br, rec[:]); err != nil {
				return nil, framingOrIO("copy record", err)
			}
			ops = append(ops, Operation{
				Kind:   Copy,
				Offset: binary.BigEndian.Uint64(rec[0:8]),
				Size:   binary.BigEndian.Uint64(rec[8:16]),
			})

		case Insert:
			var sizeBuf [8]byte
			if _, err := io.ReadFull(br, sizeBuf[:]); err != nil {
				return nil, framingOrIO("insert size", err)
			}
			size := binary.BigEndian.Uint64(sizeBuf[:])
			if _, err := io.CopyN(io.Discard, br, int64(size)); err != nil {
				return nil, framingOrIO("insert payload", err)
			}
			ops = append(ops, Operation{Kind: Insert, Size: size})

		default:
			return nil, &ErrFraming{Reason: fmt.Sprintf("unknown operation tag %d", tag)}
		}
	}
}

func framingOrIO(what string, err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return &ErrFraming{Reason: fmt.Sprintf("truncated %s", what)}
	}
	return fmt.Errorf("delta: reading %s: %w", what, err)
}
