package ft8

import (
	"math"

	"github.com/ka9q/ft8-lib/internal/tables"
)

// ExtractLikelihood produces the 174 log-likelihood ratios LDPC decoding
// needs from one candidate's waterfall neighborhood (spec §4.3): walk the
// data symbols in channel order, read the Gray-mapped tone magnitudes, turn
// each group of bits into a max(on)-max(off) soft value, then normalize the
// whole vector to a fixed variance so the LDPC belief-propagation step sees
// a consistent scale regardless of recording level.
func ExtractLikelihood(wf *Waterfall, cand *Candidate, protocol Protocol) []float32 {
	log174 := make([]float32, tables.LDPCN)

	if protocol == ProtocolFT4 {
		extractLikelihoodFT4(wf, cand, log174)
	} else {
		extractLikelihoodFT8(wf, cand, log174)
	}

	normalizeLikelihood(log174)
	return log174
}

// FT8 channel layout: 7 sync, 29 data, 7 sync, 29 data, 7 sync.
func extractLikelihoodFT8(wf *Waterfall, cand *Candidate, log174 []float32) {
	const dataSymbols = 58
	for k := 0; k < dataSymbols; k++ {
		var symIdx int
		if k < 29 {
			symIdx = k + 7
		} else {
			symIdx = k + 14
		}
		extractSymbolFT8(wf, cand, symIdx, log174[3*k:3*k+3])
	}
}

// FT4 channel layout: ramp, 4 sync, 29 data, 4 sync, 29 data, 4 sync, 29 data, 4 sync, ramp.
func extractLikelihoodFT4(wf *Waterfall, cand *Candidate, log174 []float32) {
	const dataSymbols = 87
	for k := 0; k < dataSymbols; k++ {
		var symIdx int
		switch {
		case k < 29:
			symIdx = k + 5
		case k < 58:
			symIdx = k + 9
		default:
			symIdx = k + 13
		}
		extractSymbolFT4(wf, cand, symIdx, log174[2*k:2*k+2])
	}
}

// extractSymbolFT8 converts one 8-FSK symbol into 3 soft bits. Each bit
// splits the Gray-coded tone alphabet into two groups of four; the LLR is
// the strongest tone in the "bit=1" group minus the strongest in "bit=0".
func extractSymbolFT8(wf *Waterfall, cand *Candidate, symIdx int, logl []float32) {
	block := int(cand.TimeOffset) + symIdx
	var s [8]float32
	for j := 0; j < 8; j++ {
		tone := int(tables.FT8GrayMap[j])
		mag := wf.mag(block, int(cand.FreqOffset)+tone, int(cand.TimeSub), int(cand.FreqSub))
		s[j] = float32(mag)*0.5 - 120.0
	}
	logl[0] = max4(s[4], s[5], s[6], s[7]) - max4(s[0], s[1], s[2], s[3])
	logl[1] = max4(s[2], s[3], s[6], s[7]) - max4(s[0], s[1], s[4], s[5])
	logl[2] = max4(s[1], s[3], s[5], s[7]) - max4(s[0], s[2], s[4], s[6])
}

// extractSymbolFT4 converts one 4-FSK symbol into 2 soft bits.
func extractSymbolFT4(wf *Waterfall, cand *Candidate, symIdx int, logl []float32) {
	block := int(cand.TimeOffset) + symIdx
	var s [4]float32
	for j := 0; j < 4; j++ {
		tone := int(tables.FT4GrayMap[j])
		mag := wf.mag(block, int(cand.FreqOffset)+tone, int(cand.TimeSub), int(cand.FreqSub))
		s[j] = float32(mag)*0.5 - 120.0
	}
	logl[0] = max2(s[2], s[3]) - max2(s[0], s[1])
	logl[1] = max2(s[1], s[3]) - max2(s[0], s[2])
}

// normalizeLikelihood rescales log174 to variance 24, the coefficient the
// reference FT8 decoder uses to match the LDPC decoder's expected input
// scale regardless of recording level (teacher's extract.go carries the same
// constant, citing ft8_lib).
func normalizeLikelihood(log174 []float32) {
	var sum, sum2 float32
	for _, v := range log174 {
		sum += v
		sum2 += v * v
	}
	n := float32(len(log174))
	mean := sum / n
	variance := sum2/n - mean*mean
	if variance <= 0 {
		return
	}
	normFactor := float32(math.Sqrt(float64(24.0 / variance)))
	for i := range log174 {
		log174[i] *= normFactor
	}
}

func max2(a, b float32) float32 {
	if a >= b {
		return a
	}
	return b
}

func max4(a, b, c, d float32) float32 {
	return max2(max2(a, b), max2(c, d))
}
