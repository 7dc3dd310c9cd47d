package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTannerGraph_ColumnWeightIsAlwaysThree(t *testing.T) {
	for n := 0; n < LDPCN; n++ {
		nonzero := 0
		for _, m := range FT8LDPCMn[n] {
			if m != 0 {
				nonzero++
			}
		}
		assert.Equal(t, 3, nonzero, "variable node %d", n)
	}
}

func TestBuildTannerGraph_RowWeightsWithinRange(t *testing.T) {
	for m := 0; m < LDPCM; m++ {
		w := FT8LDPCNumRows[m]
		assert.GreaterOrEqual(t, int(w), 3, "check %d", m)
		assert.LessOrEqual(t, int(w), 7, "check %d", m)
	}
}

func TestBuildTannerGraph_NmMnAgree(t *testing.T) {
	for m := 0; m < LDPCM; m++ {
		for i := uint8(0); i < FT8LDPCNumRows[m]; i++ {
			n := FT8LDPCNm[m][i]
			assert.NotZero(t, n)

			found := false
			for _, check := range FT8LDPCMn[n-1] {
				if int(check)-1 == m {
					found = true
					break
				}
			}
			assert.True(t, found, "check %d lists variable %d but Mn[%d] doesn't list check %d back", m, n-1, n-1, m)
		}
	}
}

func TestBuildTannerGraph_NoSelfDuplicateEdges(t *testing.T) {
	for m := 0; m < LDPCM; m++ {
		seen := map[uint8]bool{}
		for i := uint8(0); i < FT8LDPCNumRows[m]; i++ {
			n := FT8LDPCNm[m][i]
			assert.False(t, seen[n], "check %d has variable %d twice", m, n)
			seen[n] = true
		}
	}
}
