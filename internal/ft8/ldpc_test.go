package ft8

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ka9q/ft8-lib/internal/tables"
)

func TestLdpcCheck_AllZeroCodewordSatisfiesEveryParityCheck(t *testing.T) {
	codeword := make([]uint8, tables.LDPCN)
	assert.Equal(t, 0, ldpcCheck(codeword))
}

func TestLdpcCheck_SingleBitFlipBreaksExactlyItsThreeChecks(t *testing.T) {
	codeword := make([]uint8, tables.LDPCN)
	codeword[0] = 1
	errors := ldpcCheck(codeword)
	assert.Equal(t, 3, errors, "flipping one variable node should fail exactly its 3 connected checks (column weight 3)")
}

func TestFastTanh_SaturatesAtBounds(t *testing.T) {
	assert.Equal(t, float32(-1.0), fastTanh(-10))
	assert.Equal(t, float32(1.0), fastTanh(10))
}

func TestFastTanh_IsOddAndZeroAtOrigin(t *testing.T) {
	assert.Equal(t, float32(0), fastTanh(0))
	assert.InDelta(t, -float64(fastTanh(2)), float64(fastTanh(-2)), 1e-6)
}

func TestFastTanh_ApproximatesMathTanh(t *testing.T) {
	for _, x := range []float32{-3, -1, -0.5, 0.5, 1, 3} {
		want := math.Tanh(float64(x))
		assert.InDelta(t, want, float64(fastTanh(x)), 0.01, "x=%v", x)
	}
}

func TestLDPCDecode_ReturnsCodewordOfExpectedLength(t *testing.T) {
	llr := make([]float32, tables.LDPCN)
	for i := range llr {
		llr[i] = -1.0 // weak all-zero-leaning signal
	}
	plain, _ := LDPCDecode(llr, 5)
	assert.Len(t, plain, tables.LDPCN)
}
