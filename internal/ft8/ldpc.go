package ft8

import "github.com/ka9q/ft8-lib/internal/tables"

// LDPCDecode runs belief-propagation decoding of a 174-bit codeword given as
// log-likelihood ratios (spec §4.4). It returns the hard-decision bits and
// the number of parity checks that still failed when decoding stopped;
// zero means every check passed.
func LDPCDecode(llr []float32, maxIters int) ([]uint8, int) {
	return bpDecode(llr, maxIters)
}

// bpDecode is min-sum/tanh belief propagation over the Tanner graph in
// internal/tables: each iteration passes variable-to-check messages (tov),
// derives new check-to-variable messages (toc) from them, and re-tests
// parity after each hard-decision pass so decoding can stop the moment every
// check is satisfied instead of always running to maxIters.
func bpDecode(llr []float32, maxIters int) ([]uint8, int) {
	var tov [tables.LDPCN][3]float32
	var toc [tables.LDPCM][7]float32

	plain := make([]uint8, tables.LDPCN)
	minErrors := tables.LDPCM

	for iter := 0; iter < maxIters; iter++ {
		plainSum := 0
		for n := 0; n < tables.LDPCN; n++ {
			sum := llr[n] + tov[n][0] + tov[n][1] + tov[n][2]
			if sum > 0 {
				plain[n] = 1
			} else {
				plain[n] = 0
			}
			plainSum += int(plain[n])
		}

		if plainSum == 0 {
			// All-zero codewords are excluded by construction (spec §4.4);
			// a decode converging here means noise, not signal.
			break
		}

		errors := ldpcCheck(plain)
		if errors < minErrors {
			minErrors = errors
			if errors == 0 {
				break
			}
		}

		for m := 0; m < tables.LDPCM; m++ {
			numRows := int(tables.FT8LDPCNumRows[m])
			for nIdx := 0; nIdx < numRows; nIdx++ {
				n := int(tables.FT8LDPCNm[m][nIdx]) - 1

				tnm := llr[n]
				for mIdx := 0; mIdx < 3; mIdx++ {
					if int(tables.FT8LDPCMn[n][mIdx])-1 != m {
						tnm += tov[n][mIdx]
					}
				}
				toc[m][nIdx] = fastTanh(-tnm / 2.0)
			}
		}

		for n := 0; n < tables.LDPCN; n++ {
			for mIdx := 0; mIdx < 3; mIdx++ {
				m := int(tables.FT8LDPCMn[n][mIdx]) - 1

				tmn := float32(1.0)
				numRows := int(tables.FT8LDPCNumRows[m])
				for nIdx := 0; nIdx < numRows; nIdx++ {
					if int(tables.FT8LDPCNm[m][nIdx])-1 != n {
						tmn *= toc[m][nIdx]
					}
				}
				tov[n][mIdx] = -2.0 * fastAtanh(tmn)
			}
		}
	}

	return plain, minErrors
}

// ldpcCheck returns how many of the 83 parity checks a hard-decision
// codeword fails.
func ldpcCheck(codeword []uint8) int {
	errors := 0
	for m := 0; m < tables.LDPCM; m++ {
		x := uint8(0)
		numRows := int(tables.FT8LDPCNumRows[m])
		for i := 0; i < numRows; i++ {
			x ^= codeword[int(tables.FT8LDPCNm[m][i])-1]
		}
		if x != 0 {
			errors++
		}
	}
	return errors
}

// fastTanh is a rational-polynomial approximation of tanh, accurate enough
// for belief propagation and far cheaper than the math library call in the
// hot per-edge, per-iteration loop.
func fastTanh(x float32) float32 {
	if x < -4.97 {
		return -1.0
	}
	if x > 4.97 {
		return 1.0
	}
	x2 := x * x
	a := x * (945.0 + x2*(105.0+x2))
	b := 945.0 + x2*(420.0+x2*15.0)
	return a / b
}

// fastAtanh is the matching rational-polynomial approximation of atanh.
func fastAtanh(x float32) float32 {
	x2 := x * x
	a := x * (945.0 + x2*(-735.0+x2*64.0))
	b := 945.0 + x2*(-1050.0+x2*225.0)
	return a / b
}
