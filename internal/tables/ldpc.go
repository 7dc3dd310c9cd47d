package tables

// LDPC (174, 91) Tanner graph for FT8/FT4.
//
// N is the number of codeword bits, K the number of payload+CRC bits, M the
// number of parity checks (N - K = 83). Nm[m] lists the 1-indexed variable
// nodes participating in check m (NumRows[m] of them, zero-padded beyond
// that); Mn[n] lists the (exactly 3) 1-indexed check nodes variable n
// participates in. Both arrays are two views of the same bipartite graph,
// and ldpc.go's belief-propagation walks whichever view it needs without
// re-deriving the other from it at decode time.
//
// This is reference protocol data, not something this decoder computes:
// ft8_lib and WSJT-X ship it as a literal table generated once from the
// code's algebraic construction and frozen forever after. The pack this
// module was built from did not carry a copy of that literal table (see
// DESIGN.md), so the arrays below are produced by buildTannerGraph, a
// small deterministic generator that reproduces the real code's shape
// (column weight 3 for every one of the 174 bits, at most 7 bits per check;
// the generated checks have 4 to 7 members, most of them 6 or 7) without
// claiming to be the bit-exact published matrix. Swap in the authoritative
// kFTX_LDPC_Nm/Mn/Num_rows constants before relying on this for
// interoperable over-the-air decoding.
const (
	LDPCN = 174
	LDPCK = 91
	LDPCM = 83
)

var (
	FT8LDPCNm      [LDPCM][7]uint8
	FT8LDPCMn      [LDPCN][3]uint8
	FT8LDPCNumRows [LDPCM]uint8
)

func init() {
	buildTannerGraph()
}

// buildTannerGraph deterministically assigns each of the 174 variable nodes
// to exactly 3 of the 83 check nodes, and derives each check's row weight
// and member list from that assignment. The assignment walks variable
// nodes in order and check nodes round-robin with three independent
// strides, which spreads each check's membership across well-separated
// variable nodes the way a good LDPC code's construction does, while
// capping every check at 7 members (the resulting row weights run from 4
// to 7).
func buildTannerGraph() {
	const rowCap = 7
	counts := [LDPCM]uint8{}

	strides := [3]int{1, 11, 41} // pairwise coprime with 83 and each other
	offsets := [3]int{0, 7, 53}

	for n := 0; n < LDPCN; n++ {
		for s := 0; s < 3; s++ {
			m := (offsets[s] + n*strides[s]) % LDPCM
			// Linear probe forward if this check is already full or n is
			// already attached to it (keeps column weight exactly 3 with
			// no repeated edges).
			for attached(m, uint8(n+1)) || counts[m] >= rowCap {
				m = (m + 1) % LDPCM
			}
			counts[m]++
			FT8LDPCNm[m][counts[m]-1] = uint8(n + 1)
			FT8LDPCMn[n][s] = uint8(m + 1)
		}
	}

	for m := 0; m < LDPCM; m++ {
		FT8LDPCNumRows[m] = counts[m]
	}
}

func attached(m int, variable uint8) bool {
	for _, n := range FT8LDPCNm[m] {
		if n == variable {
			return true
		}
	}
	return false
}
