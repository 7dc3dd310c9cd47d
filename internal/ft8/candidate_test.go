package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeCandidate_FailsCleanlyOnUnsyncedNoise(t *testing.T) {
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
	cand := &Candidate{TimeOffset: 0, FreqOffset: 2}

	frame, status, ok := DecodeCandidate(wf, cand, ProtocolFT8, 10)
	assert.False(t, ok)
	assert.Nil(t, frame)
	assert.GreaterOrEqual(t, status.LDPCErrors, 0)
}

func TestDecodeCandidate_PopulatesFrequencyAndTimeRegardlessOfOutcome(t *testing.T) {
	numBins := 16
	numBlocks := 80
	wf := &Waterfall{
		NumBlocks:   numBlocks,
		NumBins:     numBins,
		MinBin:      10,
		TimeOSR:     2,
		FreqOSR:     2,
		BlockStride: 2 * 2 * numBins,
		Mag:         make([]uint8, numBlocks*2*2*numBins),
		Protocol:    ProtocolFT8,
	}
	cand := &Candidate{TimeOffset: 5, FreqOffset: 3}

	_, status, _ := DecodeCandidate(wf, cand, ProtocolFT8, 10)
	assert.Greater(t, status.Frequency, float32(0))
	assert.Greater(t, status.Time, float32(0))
}
