// Package chunker splits a byte stream into content-defined chunks using
// the FastCDC algorithm. Boundaries depend only on content, not position,
// so an insertion or deletion only perturbs the chunks near it.
package chunker

import (
	"fmt"
	"io"

	fastcdc "github.com/jotfs/fastcdc-go"
)

// Params are the three FastCDC size bounds. MinSize <= AvgSize <= MaxSize
// is required; the final chunk of a stream may be shorter than MinSize.
type Params struct {
	MinSize uint32
	AvgSize uint32
	MaxSize uint32
}

// Validate checks the ordering invariant on the size bounds.
func (p Params) Validate() error {
	if p.MinSize > p.AvgSize || p.AvgSize > p.MaxSize {
		return fmt.Errorf("chunker: invalid params: need min(%d) <= avg(%d) <= max(%d)", p.MinSize, p.AvgSize, p.MaxSize)
	}
	return nil
}

// DefaultParams are the recommended defaults from the size-budget table:
// 4 KiB minimum, 16 KiB average, 65535 byte maximum.
func DefaultParams() Params {
	return Params{MinSize: 4096, AvgSize: 16384, MaxSize: 65535}
}

// Record is one content-defined chunk as produced in stream order: its
// byte offset within the input, its data, and its length (== len(Data)).
type Record struct {
	Offset uint64
	Data   []byte
}

// Length returns the chunk's byte length.
func (r Record) Length() uint64 {
	return uint64(len(r.Data))
}

// Chunker cuts an input stream into Records according to Params.
type Chunker struct {
	params Params
}

// New creates a Chunker for the given size bounds.
func New(params Params) (*Chunker, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{params: params}, nil
}

// Each streams r through FastCDC, invoking fn once per chunk in order.
// An I/O error from r is surfaced verbatim (wrapped with location
// context); truncation mid-chunk is not an error, the final chunk is
// emitted with whatever bytes were read. fn's own error aborts the walk
// and is returned unwrapped.
func (c *Chunker) Each(r io.Reader, fn func(Record) error) error {
	opts := fastcdc.Options{
		MinSize:     int(c.params.MinSize),
		AverageSize: int(c.params.AvgSize),
		MaxSize:     int(c.params.MaxSize),
	}

	ck, err := fastcdc.NewChunker(r, opts)
	if err != nil {
		return fmt.Errorf("chunker: initializing fastcdc: %w", err)
	}

	var offset uint64
	for {
		fc, err := ck.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("chunker: reading input: %w", err)
		}

		data := make([]byte, len(fc.Data))
		copy(data, fc.Data)

		rec := Record{Offset: offset, Data: data}
		offset += rec.Length()

		if err := fn(rec); err != nil {
			return err
		}
	}
}

// Split collects the whole stream into a slice of Records. Convenience
// wrapper over Each for small inputs and tests; Each should be preferred
// for large files since it never retains more than one chunk at a time.
func (c *Chunker) Split(r io.Reader) ([]Record, error) {
	recs := make([]Record, 0, 8)
	err := c.Each(r, func(rec Record) error {
		recs = append(recs, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// Params returns the chunker's configured size bounds.
func (c *Chunker) Params() Params {
	return c.params
}
