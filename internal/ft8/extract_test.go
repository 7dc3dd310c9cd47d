package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ka9q/ft8-lib/internal/tables"
)

func TestExtractLikelihood_ReturnsNormalizedVectorOfCorrectLength(t *testing.T) {
	numBins := 32
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
	// Fill with a varying, non-constant pattern so normalization has
	// nonzero variance to work with.
	for i := range wf.Mag {
		wf.Mag[i] = uint8(i % 200)
	}

	cand := &Candidate{TimeOffset: 0, FreqOffset: 5}
	log174 := ExtractLikelihood(wf, cand, ProtocolFT8)

	assert.Len(t, log174, tables.LDPCN)
}

func TestExtractLikelihood_ConstantMagnitudeYieldsZeroVector(t *testing.T) {
	numBins := 32
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
	for i := range wf.Mag {
		wf.Mag[i] = 128
	}

	cand := &Candidate{TimeOffset: 0, FreqOffset: 5}
	log174 := ExtractLikelihood(wf, cand, ProtocolFT8)

	// Every tone reads the same magnitude, so every max(on)-max(off) term
	// is exactly zero and normalization (division by zero variance) must
	// leave the all-zero vector untouched rather than producing NaN/Inf.
	for _, v := range log174 {
		assert.Equal(t, float32(0), v)
	}
}

func TestExtractLikelihood_FT4UsesShorterVectorLayout(t *testing.T) {
	numBins := 16
	numBlocks := 110
	wf := &Waterfall{
		NumBlocks:   numBlocks,
		NumBins:     numBins,
		TimeOSR:     2,
		FreqOSR:     2,
		BlockStride: 2 * 2 * numBins,
		Mag:         make([]uint8, numBlocks*2*2*numBins),
		Protocol:    ProtocolFT4,
	}
	for i := range wf.Mag {
		wf.Mag[i] = uint8(i % 150)
	}

	cand := &Candidate{TimeOffset: 0, FreqOffset: 2}
	log174 := ExtractLikelihood(wf, cand, ProtocolFT4)
	assert.Len(t, log174, tables.LDPCN)
}
