package delta

import (
	"container/list"

	"github.com/mrexox/godsync/internal/hash"
	"github.com/mrexox/godsync/internal/signature"
)

// Index maps a chunk hash to its first occurrence in a source signature,
// per spec.md §4.4: "A's chunks are indexed into a mapping hash ->
// first-occurrence-chunk-in-A. Ties within A resolve to the first
// occurrence." First-writer-wins is what makes the index, and therefore
// the planner, deterministic.
//
// By default the index is unbounded (O(|A|) memory, as spec.md §4.4
// requires). Index also supports an optional bounded-memory mode,
// adapted from the teacher's chunkstore.Store LRU design, for callers
// diffing against a source signature too large to index in full; in
// that mode entries may be evicted, trading planner optimality (an
// evicted chunk reappears as an Insert instead of a Copy) for a capped
// memory footprint. Bounded mode is opt-in and off by default so the
// default planner behavior matches spec.md's complexity invariant
// exactly.
type Index struct {
	entries   map[hash.Digest]signature.Chunk
	lru       *list.List // of hash.Digest, front = most recently used; nil when unbounded
	lruNodes  map[hash.Digest]*list.Element
	capacity  int // 0 = unbounded
	evictions uint64
}

// NewIndex builds an unbounded index over sig's chunks.
func NewIndex(sig *signature.Signature) *Index {
	return NewBoundedIndex(sig, 0)
}

// NewBoundedIndex builds an index over sig's chunks, keeping at most
// capacity entries in memory (0 = unbounded). When capacity is exceeded,
// the entry at the back of the LRU list is evicted. Eviction only happens
// here, while the index is built and before any Lookup, so the evicted
// entry is the earliest-indexed one still present.
func NewBoundedIndex(sig *signature.Signature, capacity int) *Index {
	idx := &Index{
		entries:  make(map[hash.Digest]signature.Chunk, len(sig.Chunks)),
		capacity: capacity,
	}
	if capacity > 0 {
		idx.lru = list.New()
		idx.lruNodes = make(map[hash.Digest]*list.Element)
	}

	for _, c := range sig.Chunks {
		idx.insertFirstOccurrence(c)
	}
	return idx
}

func (idx *Index) insertFirstOccurrence(c signature.Chunk) {
	if _, exists := idx.entries[c.Hash]; exists {
		return // first-writer-wins
	}

	if idx.lru != nil && idx.capacity > 0 && len(idx.entries) >= idx.capacity {
		idx.evictLRU()
	}

	idx.entries[c.Hash] = c
	if idx.lru != nil {
		idx.lruNodes[c.Hash] = idx.lru.PushFront(c.Hash)
	}
}

func (idx *Index) evictLRU() {
	back := idx.lru.Back()
	if back == nil {
		return
	}
	h := back.Value.(hash.Digest)
	delete(idx.entries, h)
	delete(idx.lruNodes, h)
	idx.lru.Remove(back)
	idx.evictions++
}

// Lookup returns the indexed chunk for hash h, if present. A lookup
// touches the entry's LRU recency in bounded mode.
func (idx *Index) Lookup(h hash.Digest) (signature.Chunk, bool) {
	c, ok := idx.entries[h]
	if ok && idx.lru != nil {
		if node, exists := idx.lruNodes[h]; exists {
			idx.lru.MoveToFront(node)
		}
	}
	return c, ok
}

// Evictions returns how many entries have been evicted from a bounded
// index (always 0 for an unbounded index).
func (idx *Index) Evictions() uint64 {
	return idx.evictions
}
