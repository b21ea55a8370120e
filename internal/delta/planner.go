package delta

import "github.com/mrexox/godsync/internal/signature"

// Stats summarizes a planning run: how much of the target was found in
// the source (and so became Copy operations) versus how much had to be
// inserted fresh. Adapted from the teacher's chunkstore.Store dedup
// counters (internal/chunkstore/store.go), repurposed from an
// archive-dedup index to the planner's source/target comparison.
type Stats struct {
	ChunksTotal    uint64
	ChunksCopied   uint64
	ChunksInserted uint64
	BytesCopied    uint64
	BytesInserted  uint64
}

// DedupRatio returns the fraction of target chunks that were found in
// the source, as a percentage.
func (s Stats) DedupRatio() float64 {
	if s.ChunksTotal == 0 {
		return 0
	}
	return float64(s.ChunksCopied) / float64(s.ChunksTotal) * 100
}

// Plan compares source signature a against target signature b and
// returns the ordered Copy/Insert operation list that reconstructs b's
// file from a's, per spec.md §4.4. Deterministic: the same (a, b) always
// yields the same operation list and Stats.
func Plan(a, b *signature.Signature) ([]Operation, Stats) {
	return planWithIndex(NewIndex(a), b)
}

// PlanBounded is Plan using a capacity-bounded source index (see Index),
// for diffing against a source signature too large to index in full.
func PlanBounded(a, b *signature.Signature, capacity int) ([]Operation, Stats) {
	return planWithIndex(NewBoundedIndex(a, capacity), b)
}

func planWithIndex(idx *Index, b *signature.Signature) ([]Operation, Stats) {
	var (
		ops     []Operation
		stats   Stats
		current Operation
		active  bool
	)

	flush := func() {
		if active && current.Size > 0 {
			ops = append(ops, current)
		}
		active = false
	}

	for _, chunk := range b.Chunks {
		stats.ChunksTotal++

		if src, found := idx.Lookup(chunk.Hash); found && src.Length == chunk.Length {
			stats.ChunksCopied++
			stats.BytesCopied += chunk.Length

			if active && current.Kind == Copy && current.Offset+current.Size == src.Offset {
				current.Size += chunk.Length
				continue
			}
			flush()
			current = Operation{Kind: Copy, Offset: src.Offset, Size: chunk.Length}
			active = true
			continue
		}

		stats.ChunksInserted++
		stats.BytesInserted += chunk.Length

		if active && current.Kind == Insert && current.Offset+current.Size == chunk.Offset {
			current.Size += chunk.Length
			continue
		}
		flush()
		current = Operation{Kind: Insert, Offset: chunk.Offset, Size: chunk.Length}
		active = true
	}
	flush()

	return ops, stats
}
