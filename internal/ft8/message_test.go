package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// payloadWithType builds a zeroed 77-bit payload with the i3/n3 type fields
// set, matching GetMessageType's bit layout: i3 in payload[9] bits 3-5, n3's
// low two bits in payload[9] bits 6-7, n3's top bit in payload[8] bit 0.
func payloadWithType(i3, n3 uint8) [10]uint8 {
	var p [10]uint8
	p[9] |= i3 << 3
	p[9] |= (n3 & 0x03) << 6
	if n3&0x04 != 0 {
		p[8] |= 0x01
	}
	return p
}

func TestGetMessageType_FreeText(t *testing.T) {
	p := payloadWithType(0, 0)
	assert.Equal(t, MessageTypeFreeText, GetMessageType(p))
}

func TestGetMessageType_Telemetry(t *testing.T) {
	p := payloadWithType(0, 5)
	assert.Equal(t, MessageTypeTelemetry, GetMessageType(p))
}

func TestGetMessageType_Standard(t *testing.T) {
	assert.Equal(t, MessageTypeStandard, GetMessageType(payloadWithType(1, 0)))
	assert.Equal(t, MessageTypeStandard, GetMessageType(payloadWithType(2, 0)))
}

func TestGetMessageType_NonstdCall(t *testing.T) {
	assert.Equal(t, MessageTypeNonstdCall, GetMessageType(payloadWithType(4, 0)))
}

func TestUnpack28_ReservedTokens(t *testing.T) {
	assert.Equal(t, "DE", unpack28(0, 0, 0, nil))
	assert.Equal(t, "QRZ", unpack28(1, 0, 0, nil))
	assert.Equal(t, "CQ", unpack28(2, 0, 0, nil))
	assert.Equal(t, "CQ 007", unpack28(10, 0, 0, nil))
}

func TestUnpack28_HashedCallsignFallsBackToPlaceholder(t *testing.T) {
	n28 := uint32(numTokens) + 12345
	got := unpack28(n28, 0, 0, nil)
	assert.Contains(t, got, "<...")
}

func TestUnpack28_HashedCallsignResolvesFromTable(t *testing.T) {
	ht := NewCallsignHashTable(16)
	n22, _, _, ok := ht.SaveCallsign("W1AW")
	assert.True(t, ok)

	n28 := uint32(numTokens) + n22
	got := unpack28(n28, 0, 0, ht)
	assert.Equal(t, "<W1AW>", got)
}

func TestUnpackGrid_FixedAcknowledgements(t *testing.T) {
	assert.Equal(t, "", unpackGrid(0, 0))
	assert.Equal(t, "RRR", unpackGrid(maxGrid4+2, 0))
	assert.Equal(t, "RR73", unpackGrid(maxGrid4+3, 0))
	assert.Equal(t, "73", unpackGrid(maxGrid4+4, 0))
}

func TestUnpackGrid_MaidenheadGrid(t *testing.T) {
	// FN20 = grid index (('F'-'A')*18 + ('N'-'A'))*10*10 + 2*10 + 0
	letter1 := int('F' - 'A')
	letter2 := int('N' - 'A')
	n := (letter1*18+letter2)*100 + 2*10 + 0
	got := unpackGrid(uint16(n), 0)
	assert.Equal(t, "FN20", got)
}

func TestUnpackGrid_ReportWithRFlag(t *testing.T) {
	irpt := 35 - 20 // encodes a -20 dB report
	got := unpackGrid(uint16(maxGrid4+irpt), 1)
	assert.Equal(t, "R-20", got)
}

func TestUnpack58_RoundTripsThroughHashTable(t *testing.T) {
	ht := NewCallsignHashTable(16)
	// Encode "VE3ABC" the same way SaveCallsign does, to build n58.
	n58 := uint64(0)
	for _, c := range "VE3ABC" {
		n58 = 38*n58 + uint64(Nchar(byte(c), CharTableAlphanumSpaceSlash))
	}
	for i := 6; i < 11; i++ {
		n58 *= 38
	}

	got := unpack58(n58, ht)
	assert.Equal(t, "VE3ABC", got)
	assert.Equal(t, 1, ht.Len())
}

func TestUnpackMessage_UnknownTypeReportsItself(t *testing.T) {
	p := payloadWithType(6, 0) // i3=6 has no defined handler
	got := UnpackMessage(p)
	assert.Contains(t, got, "not implemented")
}
