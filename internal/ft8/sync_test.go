package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ka9q/ft8-lib/internal/tables"
)

// plantedWaterfall builds a synthetic waterfall with a perfect FT8 Costas
// pattern at timeOffset 0, freqOffset freqOffset0, subsampled indices 0.
func plantedWaterfall(freqOffset0 int) *Waterfall {
	numBins := 16
	numBlocks := 80
	wf := &Waterfall{
		NumBlocks:   numBlocks,
		NumBins:     numBins,
		TimeOSR:     2,
		FreqOSR:     2,
		BlockStride: 2 * 2 * numBins,
		Mag:         make([]uint8, numBlocks*2*2*numBins),
		Protocol:    ProtocolFT8,
	}

	set := func(block, bin int, v uint8) {
		idx := block*wf.BlockStride + 0*wf.FreqOSR*wf.NumBins + 0*wf.NumBins + bin
		if idx >= 0 && idx < len(wf.Mag) {
			wf.Mag[idx] = v
		}
	}

	for g := 0; g < 3; g++ {
		start := 36 * g
		for k := 0; k < 7; k++ {
			tone := int(tables.FT8Costas[k])
			set(start+k, freqOffset0+tone, 255)
		}
	}
	return wf
}

func TestFindCandidates_LocatesPlantedCostasPattern(t *testing.T) {
	wf := plantedWaterfall(4)
	cands := FindCandidates(wf, 5, 0)
	assert.NotEmpty(t, cands)

	best := cands[0]
	for _, c := range cands {
		if c.Score > best.Score {
			best = c
		}
	}
	assert.Equal(t, int16(4), best.FreqOffset)
	assert.Equal(t, int16(0), best.TimeOffset)
}

func TestSyncGroupFor_FT8HasThreeGroupsOfSeven(t *testing.T) {
	sg := syncGroupFor(ProtocolFT8)
	assert.Equal(t, 3, sg.numGroups)
	assert.Equal(t, 7, sg.groupLen)
	assert.Equal(t, 0, sg.groupStart(0))
	assert.Equal(t, 72, sg.groupStart(2))
}

func TestSyncGroupFor_FT4HasFourGroupsOfFour(t *testing.T) {
	sg := syncGroupFor(ProtocolFT4)
	assert.Equal(t, 4, sg.numGroups)
	assert.Equal(t, 4, sg.groupLen)
	assert.Equal(t, 1, sg.groupStart(0))
	assert.Equal(t, 100, sg.groupStart(3))
}

func TestCandidateFrequency_UsesWaterfallOrigin(t *testing.T) {
	wf := &Waterfall{MinBin: 10, FreqOSR: 2}
	c := &Candidate{FreqOffset: 5, FreqSub: 1}
	got := CandidateFrequency(wf, c, 0.16)
	want := (10.0 + 5.0 + 0.5) / 0.16
	assert.InDelta(t, want, got, 1e-9)
}

func TestCandidateTime_UsesTimeOffsetAndSub(t *testing.T) {
	wf := &Waterfall{TimeOSR: 2}
	c := &Candidate{TimeOffset: 3, TimeSub: 1}
	got := CandidateTime(wf, c, 0.16)
	want := (3.0 + 0.5) * 0.16
	assert.InDelta(t, want, got, 1e-9)
}
