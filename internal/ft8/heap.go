package ft8

import "container/heap"

// Candidate is a scored (time, frequency) sync hit from the Costas search
// (spec §3). It is a plain value; no references into the Waterfall it was
// found in survive past one buffer's decode pass.
type Candidate struct {
	Score      int16 // non-negative Costas sync score; higher is better
	TimeOffset int16 // block index (may be negative near slot boundaries)
	FreqOffset int16 // bin index
	TimeSub    uint8
	FreqSub    uint8
	seq        uint32 // discovery order, for the tie-break rule below
}

// candidateHeap is a bounded min-heap of up to N candidates: §9's "bounded
// heap rather than sort-then-truncate" design note, letting the search
// retain the top N scores in O(G log N) instead of collecting every grid
// position into an unbounded slice. The root (index 0) is always the
// weakest kept candidate.
type candidateHeap []Candidate

func (h candidateHeap) Len() int { return len(h) }
func (h candidateHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	// Later-discovered candidates sort as "weaker" on a score tie, so
	// among equal scores the latest one sits at the root and is the first
	// to be replaced by a strictly better candidate. An equal-scoring
	// newcomer never replaces the root at all, since insert() only
	// replaces on strict improvement: on equal scores the
	// earlier-discovered candidate is kept.
	return h[i].seq > h[j].seq
}
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(Candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// boundedHeap wraps candidateHeap with a fixed capacity and the insertion
// policy spec §4.2 describes.
type boundedHeap struct {
	h        candidateHeap
	capacity int
	minScore int
	nextSeq  uint32
}

func newBoundedHeap(capacity, minScore int) *boundedHeap {
	return &boundedHeap{h: make(candidateHeap, 0, capacity), capacity: capacity, minScore: minScore}
}

// insert offers a candidate to the heap. Scores below minScore are rejected
// before ever reaching the heap (§4.2, §7's LowScore classification).
func (b *boundedHeap) insert(c Candidate) {
	if int(c.Score) < b.minScore {
		return
	}
	c.seq = b.nextSeq
	b.nextSeq++

	if b.h.Len() < b.capacity {
		heap.Push(&b.h, c)
		return
	}
	if c.Score > b.h[0].Score {
		b.h[0] = c
		heap.Fix(&b.h, 0)
	}
	// Equal or lower score than the current root: drop, keeping the
	// earlier-discovered candidate per the documented tie-break.
}

// candidates returns the heap's contents with no guaranteed ordering, per
// spec §4.2 ("no particular ordering exported").
func (b *boundedHeap) candidates() []Candidate {
	out := make([]Candidate, len(b.h))
	copy(out, b.h)
	return out
}

func (b *boundedHeap) len() int { return b.h.Len() }

// minScoreInHeap reports the weakest score currently retained; used only by
// tests verifying §8 invariant 3 ("minimum over heap >= min_score once
// fully populated").
func (b *boundedHeap) minScoreInHeap() (int16, bool) {
	if b.h.Len() == 0 {
		return 0, false
	}
	return b.h[0].Score, true
}
