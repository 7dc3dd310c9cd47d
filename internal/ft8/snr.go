package ft8

import (
	"math"

	"github.com/ka9q/ft8-lib/internal/tables"
)

// EstimateSNRFromSync gives a cheap SNR estimate (dB) from a candidate's
// Costas sync score alone, usable before LDPC decoding succeeds (spec §9,
// kept per the Message.Score open-question resolution in SPEC_FULL.md: the
// emitted Score field stays the raw sync score, and this function is purely
// an auxiliary diagnostic, not something callers should treat as
// interchangeable with it).
func EstimateSNRFromSync(syncScore int) float32 {
	if syncScore <= 0 {
		return -24.0
	}
	snr := 10.0*math.Log10(float64(syncScore)) - 25.5
	return float32(clampSNR(snr))
}

// EstimateSNRFromCodeword refines the SNR estimate once LDPC has recovered
// the transmitted bits: it reconstructs the exact tone sequence that was
// sent, measures power at those tones, and takes the ratio of the summed
// squared power to the summed power, scaled by the constants of WSJT-X's
// ft8b.f90 baseline method. No power is measured away from the sent tones.
func EstimateSNRFromCodeword(wf *Waterfall, cand *Candidate, codeword []uint8, protocol Protocol) float32 {
	tones := tonesFromCodeword(codeword, protocol)
	numTones := protocol.NumTones()

	var xsig, xbase float64
	samples := 0

	for i, tone := range tones {
		block := int(cand.TimeOffset) + i
		if block < 0 || block >= wf.NumBlocks {
			continue
		}

		power := dbToPower(wf.mag(block, int(cand.FreqOffset)+tone, int(cand.TimeSub), int(cand.FreqSub)))
		xsig += power * power
		xbase += power
		samples++
	}

	if samples == 0 || xbase <= 0 {
		return -24.0
	}

	arg := xsig/xbase/3.0e6 - 1.0
	if arg <= 0.1 {
		return -24.0
	}
	return float32(clampSNR(10.0*math.Log10(arg) - 27.0))
}

func dbToPower(mag uint8) float64 {
	db := (float64(mag) - 240.0) / 2.0
	return math.Pow(10.0, db/10.0)
}

func clampSNR(snr float64) float64 {
	if snr > 99.0 {
		return 99.0
	}
	if snr < -24.0 {
		return -24.0
	}
	return snr
}

// tonesFromCodeword reconstructs the 79 (FT8) or 105 (FT4) transmitted
// tones (sync patterns plus Gray-decoded data symbols) from a
// successfully-decoded 174-bit codeword.
func tonesFromCodeword(codeword []uint8, protocol Protocol) []int {
	if protocol == ProtocolFT4 {
		return tonesFromCodewordFT4(codeword)
	}
	return tonesFromCodewordFT8(codeword)
}

func tonesFromCodewordFT8(codeword []uint8) []int {
	const numSymbols = 79
	itone := make([]int, numSymbols)

	for i := 0; i < 7; i++ {
		itone[i] = int(tables.FT8Costas[i])
		itone[36+i] = int(tables.FT8Costas[i])
		itone[numSymbols-7+i] = int(tables.FT8Costas[i])
	}

	k := 7
	for j := 0; j < 58; j++ {
		if j == 29 {
			k += 7
		}
		i := 3 * j
		idx := int(codeword[i])*4 + int(codeword[i+1])*2 + int(codeword[i+2])
		itone[k] = int(tables.FT8GrayMap[idx])
		k++
	}
	return itone
}

func tonesFromCodewordFT4(codeword []uint8) []int {
	const numSymbols = 105
	itone := make([]int, numSymbols)
	itone[0] = 0
	itone[numSymbols-1] = 0

	for i := 0; i < 4; i++ {
		itone[1+i] = int(tables.FT4Costas[0][i])
		itone[34+i] = int(tables.FT4Costas[1][i])
		itone[67+i] = int(tables.FT4Costas[2][i])
		itone[100+i] = int(tables.FT4Costas[3][i])
	}

	k := 5
	for j := 0; j < 87; j++ {
		switch j {
		case 29, 58:
			k += 4
		}
		i := 2 * j
		idx := int(codeword[i])*2 + int(codeword[i+1])
		itone[k] = int(tables.FT4GrayMap[idx])
		k++
	}
	return itone
}
