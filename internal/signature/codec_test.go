package signature

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mrexox/godsync/internal/chunker"
	"github.com/mrexox/godsync/internal/hash"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	sig := &Signature{
		Version: CurrentVersion,
		Params:  chunker.Params{MinSize: 4096, AvgSize: 16384, MaxSize: 65535},
		Chunks: []Chunk{
			{Hash: hash.Sum([]byte("a")), Offset: 0, Length: 16},
			{Hash: hash.Sum([]byte("b")), Offset: 16, Length: 256},
			{Hash: hash.Sum([]byte("c")), Offset: 272, Length: 18},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, sig); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !sig.Equal(got) {
		t.Fatalf("round trip mismatch:\n got=%+v\nwant=%+v", got, sig)
	}
}

func TestLoadEmptySignature(t *testing.T) {
	sig := &Signature{Version: CurrentVersion, Params: chunker.DefaultParams()}

	var buf bytes.Buffer
	if err := Write(&buf, sig); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(got.Chunks))
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0xFF)

	_, err := Load(&buf)
	var vm *ErrVersionMismatch
	if !errors.As(err, &vm) {
		t.Fatalf("expected *ErrVersionMismatch, got %T: %v", err, err)
	}
	if vm.Got != 0xFF || vm.Want != CurrentVersion {
		t.Fatalf("unexpected error fields: %+v", vm)
	}
}

func TestLoadRejectsTruncatedChunks(t *testing.T) {
	sig := &Signature{
		Version: CurrentVersion,
		Params:  chunker.DefaultParams(),
		Chunks: []Chunk{
			{Hash: hash.Sum([]byte("a")), Offset: 0, Length: 16},
			{Hash: hash.Sum([]byte("b")), Offset: 16, Length: 256},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, sig); err != nil {
		t.Fatalf("Write: %v", err)
	}

	truncated := buf.Bytes()[:buf.Len()-10]
	_, err := Load(bytes.NewReader(truncated))
	if err == nil {
		t.Fatal("expected an error reading a truncated signature")
	}
}

func TestLoadRejectsNonContiguousOffsets(t *testing.T) {
	sig := &Signature{
		Version: CurrentVersion,
		Params:  chunker.DefaultParams(),
		Chunks: []Chunk{
			{Hash: hash.Sum([]byte("a")), Offset: 0, Length: 16},
			{Hash: hash.Sum([]byte("b")), Offset: 100, Length: 8}, // gap
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, sig); err != nil {
		t.Fatalf("Write: %v", err)
	}

	_, err := Load(&buf)
	var inv *ErrChunkInvariant
	if !errors.As(err, &inv) {
		t.Fatalf("expected *ErrChunkInvariant, got %T: %v", err, err)
	}
}
