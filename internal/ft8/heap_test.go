package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundedHeap_RejectsBelowMinScore(t *testing.T) {
	h := newBoundedHeap(4, 10)
	h.insert(Candidate{Score: 5})
	assert.Equal(t, 0, h.len())
}

func TestBoundedHeap_KeepsTopNByScore(t *testing.T) {
	h := newBoundedHeap(3, 0)
	scores := []int16{10, 50, 30, 5, 90, 20}
	for _, s := range scores {
		h.insert(Candidate{Score: s})
	}

	assert.Equal(t, 3, h.len())
	kept := map[int16]bool{}
	for _, c := range h.candidates() {
		kept[c.Score] = true
	}
	assert.True(t, kept[90])
	assert.True(t, kept[50])
	assert.True(t, kept[30])
}

func TestBoundedHeap_TieBreakKeepsEarlierCandidate(t *testing.T) {
	h := newBoundedHeap(1, 0)
	h.insert(Candidate{Score: 10, FreqOffset: 1}) // discovered first
	h.insert(Candidate{Score: 10, FreqOffset: 2}) // same score, discovered second

	cands := h.candidates()
	assert.Len(t, cands, 1)
	assert.Equal(t, int16(1), cands[0].FreqOffset, "first-discovered candidate should survive a score tie")
}

func TestBoundedHeap_MinScoreInHeapTracksWeakestKept(t *testing.T) {
	h := newBoundedHeap(2, 0)
	h.insert(Candidate{Score: 10})
	h.insert(Candidate{Score: 20})
	h.insert(Candidate{Score: 15})

	min, ok := h.minScoreInHeap()
	assert.True(t, ok)
	assert.Equal(t, int16(15), min)
}

func TestBoundedHeap_EmptyHasNoMinScore(t *testing.T) {
	h := newBoundedHeap(2, 0)
	_, ok := h.minScoreInHeap()
	assert.False(t, ok)
}
