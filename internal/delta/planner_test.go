package delta

import (
	"testing"

	"github.com/mrexox/godsync/internal/hash"
	"github.com/mrexox/godsync/internal/signature"
)

func h(b byte) hash.Digest {
	var d hash.Digest
	for i := range d {
		d[i] = b
	}
	return d
}

func TestPlanMatchesReferenceTrace(t *testing.T) {
	// Same fixture as the original implementation's diff_signatures test
	// (original_source/src/diff.rs), translated to this package's types.
	a := &signature.Signature{Chunks: []signature.Chunk{
		{Hash: h(4), Offset: 0, Length: 16},
		{Hash: h(0), Offset: 16, Length: 256},
		{Hash: h(2), Offset: 272, Length: 18},
	}}
	b := &signature.Signature{Chunks: []signature.Chunk{
		{Hash: h(0), Offset: 0, Length: 256},
		{Hash: h(4), Offset: 256, Length: 16},
		{Hash: h(5), Offset: 272, Length: 28},
		{Hash: h(6), Offset: 300, Length: 12},
		{Hash: h(2), Offset: 312, Length: 18},
		{Hash: h(17), Offset: 330, Length: 10},
	}}

	ops, _ := Plan(a, b)

	want := []Operation{
		{Kind: Copy, Offset: 16, Size: 256},
		{Kind: Copy, Offset: 0, Size: 16},
		{Kind: Insert, Offset: 272, Size: 40},
		{Kind: Copy, Offset: 272, Size: 18},
		{Kind: Insert, Offset: 330, Size: 10},
	}

	if len(ops) != len(want) {
		t.Fatalf("got %d ops, want %d: %+v", len(ops), len(want), ops)
	}
	for i := range ops {
		if ops[i] != want[i] {
			t.Fatalf("op %d: got %+v, want %+v", i, ops[i], want[i])
		}
	}
}

func TestPlanIdenticalSignaturesYieldsSingleCopy(t *testing.T) {
	sig := &signature.Signature{Chunks: []signature.Chunk{
		{Hash: h(1), Offset: 0, Length: 10},
		{Hash: h(2), Offset: 10, Length: 20},
		{Hash: h(3), Offset: 30, Length: 5},
	}}

	ops, stats := Plan(sig, sig)

	if len(ops) != 1 {
		t.Fatalf("expected a single coalesced Copy run, got %d: %+v", len(ops), ops)
	}
	if ops[0] != (Operation{Kind: Copy, Offset: 0, Size: 35}) {
		t.Fatalf("unexpected op: %+v", ops[0])
	}
	if stats.ChunksInserted != 0 || stats.ChunksCopied != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPlanDisjointFilesYieldsSingleInsert(t *testing.T) {
	a := &signature.Signature{Chunks: []signature.Chunk{{Hash: h(1), Offset: 0, Length: 10}}}
	b := &signature.Signature{Chunks: []signature.Chunk{
		{Hash: h(9), Offset: 0, Length: 7},
		{Hash: h(8), Offset: 7, Length: 9},
	}}

	ops, stats := Plan(a, b)

	if len(ops) != 1 || ops[0] != (Operation{Kind: Insert, Offset: 0, Size: 16}) {
		t.Fatalf("expected single Insert{0,16}, got %+v", ops)
	}
	if stats.ChunksCopied != 0 || stats.ChunksInserted != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPlanEmptySignaturesYieldsNoOps(t *testing.T) {
	empty := &signature.Signature{}
	ops, stats := Plan(empty, empty)
	if len(ops) != 0 {
		t.Fatalf("expected no ops for empty/empty, got %+v", ops)
	}
	if stats.ChunksTotal != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPlanHashCollisionWithDifferentLengthIsNotACopy(t *testing.T) {
	a := &signature.Signature{Chunks: []signature.Chunk{{Hash: h(1), Offset: 0, Length: 10}}}
	b := &signature.Signature{Chunks: []signature.Chunk{{Hash: h(1), Offset: 0, Length: 20}}}

	ops, _ := Plan(a, b)

	if len(ops) != 1 || ops[0].Kind != Insert {
		t.Fatalf("expected an Insert when hash matches but length differs, got %+v", ops)
	}
}

func TestPlanBoundedIndexCanDegradeToInsert(t *testing.T) {
	a := &signature.Signature{Chunks: []signature.Chunk{
		{Hash: h(1), Offset: 0, Length: 10},
		{Hash: h(2), Offset: 10, Length: 10},
		{Hash: h(3), Offset: 20, Length: 10},
	}}
	b := &signature.Signature{Chunks: []signature.Chunk{
		{Hash: h(1), Offset: 0, Length: 10},
	}}

	// Capacity 1 evicts h(1) from the index before it's ever looked up
	// because inserting h(2) and h(3) pushes it out first.
	ops, stats := PlanBounded(a, b, 1)

	if len(ops) != 1 {
		t.Fatalf("expected one op, got %+v", ops)
	}
	if ops[0].Kind != Insert {
		t.Fatalf("expected eviction to force an Insert, got %+v", ops[0])
	}
	if stats.ChunksCopied != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
