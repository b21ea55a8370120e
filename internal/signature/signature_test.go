package signature

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/mrexox/godsync/internal/chunker"
)

func TestBuildCoversWholeFile(t *testing.T) {
	data := make([]byte, 300000)
	if _, err := rand.Read(data); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}

	params := chunker.Params{MinSize: 4096, AvgSize: 16384, MaxSize: 65535}
	sig, err := Build(bytes.NewReader(data), params)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if sig.Size() != uint64(len(data)) {
		t.Fatalf("Size() = %d, want %d", sig.Size(), len(data))
	}

	var offset uint64
	for i, c := range sig.Chunks {
		if c.Offset != offset {
			t.Fatalf("chunk %d offset %d, want %d", i, c.Offset, offset)
		}
		offset += c.Length
	}
}

func TestBuildEmptyFile(t *testing.T) {
	sig, err := Build(bytes.NewReader(nil), chunker.DefaultParams())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(sig.Chunks) != 0 {
		t.Fatalf("expected no chunks for empty file, got %d", len(sig.Chunks))
	}
	if sig.Size() != 0 {
		t.Fatalf("expected Size() 0, got %d", sig.Size())
	}
}

func TestBuildDeterministic(t *testing.T) {
	data := make([]byte, 150000)
	if _, err := rand.Read(data); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	params := chunker.Params{MinSize: 2048, AvgSize: 8192, MaxSize: 32768}

	sig1, err := Build(bytes.NewReader(data), params)
	if err != nil {
		t.Fatalf("Build #1: %v", err)
	}
	sig2, err := Build(bytes.NewReader(data), params)
	if err != nil {
		t.Fatalf("Build #2: %v", err)
	}

	if !sig1.Equal(sig2) {
		t.Fatal("Build is not deterministic for identical input")
	}
}
