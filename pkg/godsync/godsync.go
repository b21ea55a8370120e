// Package godsync is the public API of the content-defined delta-sync
// engine: build signatures, diff them into an operation plan, serialize
// that plan as a patch, and apply the patch either against a local
// source file or, in pull mode, a remote target reachable only via
// byte-range HTTP (or S3) requests.
package godsync

import (
	"context"
	"fmt"
	"io"

	"github.com/mrexox/godsync/internal/apply"
	"github.com/mrexox/godsync/internal/chunker"
	"github.com/mrexox/godsync/internal/delta"
	"github.com/mrexox/godsync/internal/signature"
)

// Params are the FastCDC size bounds used to build a Signature. Callers
// that don't need custom chunk sizing should use DefaultParams.
type Params = chunker.Params

// DefaultParams returns the recommended 4 KiB/16 KiB/65535-byte size bounds.
func DefaultParams() Params { return chunker.DefaultParams() }

// Signature is the ordered chunk-list summary of a file.
type Signature = signature.Signature

// Operation is one step of a delta plan: Copy from the source at a given
// offset, or Insert literal bytes.
type Operation = delta.Operation

// Stats summarizes a Diff in terms of chunks and bytes copied versus
// inserted.
type Stats = delta.Stats

// RangeFetcher is the capability Pull needs to retrieve Insert payload
// bytes from a remote target: HTTPRangeFetcher and S3RangeFetcher are
// the two implementations this package ships.
type RangeFetcher = apply.RangeFetcher

// HTTPRangeFetcher fetches Insert ranges via plain HTTP Range requests.
type HTTPRangeFetcher = apply.HTTPRangeFetcher

// NewHTTPRangeFetcher returns an HTTPRangeFetcher using client, or
// http.DefaultClient if client is nil.
var NewHTTPRangeFetcher = apply.NewHTTPRangeFetcher

// S3RangeFetcher fetches Insert ranges via S3 GetObject Range requests.
type S3RangeFetcher = apply.S3RangeFetcher

// NewS3RangeFetcher returns an S3RangeFetcher using client.
var NewS3RangeFetcher = apply.NewS3RangeFetcher

// PullOptions configures Pull's concurrent range-fetch phase.
type PullOptions = apply.RemoteOptions

// BuildSignature chunks r with params and returns its Signature. cb may
// be nil; when non-nil it receives EventSignatureStart/Progress/Complete
// events keyed on bytes read so far (total is unknown up front for an
// io.Reader and is reported as -1 until EventSignatureComplete).
func BuildSignature(r io.Reader, params Params, cb ProgressCallback) (*Signature, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	notify(cb, ProgressEvent{Type: EventSignatureStart, Total: -1})

	var read int64
	pr := &ProgressReader{Reader: r, OnRead: func(n int) {
		read += int64(n)
		notify(cb, ProgressEvent{Type: EventSignatureProgress, Current: read, Total: -1})
	}}

	sig, err := signature.Build(pr, params)
	if err != nil {
		return nil, err
	}

	notify(cb, ProgressEvent{Type: EventSignatureComplete, Current: read, Total: read})
	return sig, nil
}

// WriteSignature serializes sig to w per the binary signature format.
func WriteSignature(w io.Writer, sig *Signature) error {
	return signature.Write(w, sig)
}

// ReadSignature deserializes a Signature previously written by
// WriteSignature.
func ReadSignature(r io.Reader) (*Signature, error) {
	return signature.Load(r)
}

// Diff computes the greedy Copy/Insert operation plan that turns source
// into target, given their signatures. The source signature supplies the
// byte ranges Copy operations reference; the target signature is walked
// in order to produce the plan.
func Diff(source, target *Signature) ([]Operation, Stats) {
	return delta.Plan(source, target)
}

// DiffBounded is Diff with a bounded hash index over the source
// signature: once capacity chunks have been indexed, each further
// distinct source chunk evicts the earliest-indexed entry still present
// instead of growing the index further. Useful when the source signature
// is too large to index in full.
func DiffBounded(source, target *Signature, capacity int) ([]Operation, Stats) {
	return delta.PlanBounded(source, target, capacity)
}

// WritePatch serializes ops as a patch stream, embedding Insert payload
// bytes read from target.
func WritePatch(w io.Writer, ops []Operation, target io.ReadSeeker) error {
	return delta.WritePatch(w, ops, target)
}

// ReadPatch parses a full patch stream back into its operation list.
// Insert operations' Offset field is left zero; use Apply directly when
// you need the payload bytes applied rather than just enumerated.
func ReadPatch(r io.Reader) ([]Operation, error) {
	return delta.ReadPatch(r)
}

// Apply reconstructs the target into dest by reading a patch stream from
// patch, copying Copy-operation bytes from the seekable source.
func Apply(patch io.Reader, source io.ReadSeeker, dest io.Writer) error {
	return apply.Local(patch, source, dest)
}

// Pull reconstructs the target into dest from an unserialized operation
// plan (as returned by Diff/DiffBounded against a remote target's
// signature): Copy bytes come from the local source, Insert bytes are
// fetched from targetURI over fetcher's byte-range requests. Fetches run
// concurrently but are written to dest in target order.
func Pull(ctx context.Context, ops []Operation, source io.ReadSeeker, targetURI string, fetcher RangeFetcher, dest io.Writer, opts PullOptions) error {
	return apply.Remote(ctx, ops, source, targetURI, fetcher, dest, opts)
}
