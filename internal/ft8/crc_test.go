package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCRC_IsDeterministic(t *testing.T) {
	msg := []uint8{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0, 0x11, 0x22, 0x00}
	a := ComputeCRC(msg, 82)
	b := ComputeCRC(msg, 82)
	assert.Equal(t, a, b)
	assert.LessOrEqual(t, a, uint16(0x3FFF), "CRC must fit in 14 bits")
}

func TestComputeCRC_ChangesWithInput(t *testing.T) {
	msg1 := []uint8{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	msg2 := []uint8{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	assert.NotEqual(t, ComputeCRC(msg1, 82), ComputeCRC(msg2, 82))
}

func TestComputeCRC_AllZeroIsZero(t *testing.T) {
	msg := make([]uint8, 11)
	assert.Equal(t, uint16(0), ComputeCRC(msg, 82))
}

func TestExtractCRC_PullsTopFourteenBitsOfTrailer(t *testing.T) {
	a91 := make([]uint8, 12)
	// Set a91[9] low 3 bits, a91[10] all bits, a91[11] top 3 bits to a known pattern.
	a91[9] = 0b00000101  // low 3 bits = 101
	a91[10] = 0b10110011 // full byte
	a91[11] = 0b11100000 // top 3 bits = 111

	got := ExtractCRC(a91)
	want := uint16(0b101)<<11 | uint16(0b10110011)<<3 | uint16(0b111)
	assert.Equal(t, want, got)
}
