package ft8

import (
	"fmt"
	"strings"

	"github.com/ka9q/ft8-lib/internal/bits"
)

// Constants governing the packed callsign/grid fields of the 77-bit payload
// (spec §4.6), unchanged from the published FT8 message spec.
const (
	numTokens = 2063592 // reserved low values of a 28-bit callsign field: CQ/DE/QRZ and CQ nnn/CQ AAAA
	max22Bits = 4194304 // 2^22, boundary between hashed and literal 28-bit callsigns
	maxGrid4  = 32400   // 18*10*18*10 distinct 4-character grid squares
)

// MessageType classifies a payload by its i3/n3 type fields (spec §4.6).
type MessageType int

const (
	MessageTypeFreeText MessageType = iota
	MessageTypeDXpedition
	MessageTypeEUVHF
	MessageTypeARRLFD
	MessageTypeTelemetry
	MessageTypeContesting
	MessageTypeStandard
	MessageTypeARRLRTTY
	MessageTypeNonstdCall
	MessageTypeWWDIGI
	MessageTypeUnknown
)

// messageTypeFields reads the n3 (3-bit) and i3 (3-bit) type fields from
// bits 71-76 of a 77-bit payload, via bits.Reader rather than manual
// shifting.
func messageTypeFields(payload [10]uint8) (i3, n3 uint8) {
	r := bits.NewReader(payload[:])
	r.Seek(71)
	n3 = uint8(r.Read(3))
	i3 = uint8(r.Read(3))
	return i3, n3
}

// GetMessageType reads the i3 (3-bit) and, for i3=0, n3 (3-bit) type fields
// from the tail of a 77-bit payload.
func GetMessageType(payload [10]uint8) MessageType {
	i3, n3 := messageTypeFields(payload)

	switch i3 {
	case 0:
		switch n3 {
		case 0:
			return MessageTypeFreeText
		case 1:
			return MessageTypeDXpedition
		case 2:
			return MessageTypeEUVHF
		case 3, 4:
			return MessageTypeARRLFD
		case 5:
			return MessageTypeTelemetry
		case 6:
			return MessageTypeContesting
		default:
			return MessageTypeUnknown
		}
	case 1, 2:
		return MessageTypeStandard
	case 3:
		return MessageTypeARRLRTTY
	case 4:
		return MessageTypeNonstdCall
	case 5:
		return MessageTypeWWDIGI
	default:
		return MessageTypeUnknown
	}
}

// UnpackMessage renders a decoded 77-bit payload as the human-readable text
// a station would have typed, with hash-only callsign fields shown as
// "<...>" placeholders (no hash table available to resolve them); a 22-bit
// hash placeholder also carries the hash's low 16 bits in hex, e.g.
// "<...3039>".
func UnpackMessage(payload [10]uint8) string {
	return UnpackMessageWithHash(payload, nil)
}

// UnpackMessageWithHash is UnpackMessage with a CallsignHashTable consulted
// for any hashed-callsign field, resolving it to real text when the full
// callsign was seen earlier in the run.
func UnpackMessageWithHash(payload [10]uint8, hashTable *CallsignHashTable) string {
	switch GetMessageType(payload) {
	case MessageTypeFreeText:
		return unpackFreeText(payload)
	case MessageTypeTelemetry:
		return unpackTelemetry(payload)
	case MessageTypeStandard:
		return unpackStandard(payload, hashTable)
	case MessageTypeNonstdCall:
		return unpackNonstd(payload, hashTable)
	case MessageTypeDXpedition:
		return unpackDXpedition(payload, hashTable)
	case MessageTypeContesting:
		return unpackContesting(payload, hashTable)
	default:
		i3, n3 := messageTypeFields(payload)
		return fmt.Sprintf("[Type %d.%d not implemented]", i3, n3)
	}
}

// unpackFreeText decodes a type-0.0 message: 71 bits holding 13 characters
// base-42 encoded (space, 0-9, A-Z, +-./?).
func unpackFreeText(payload [10]uint8) string {
	b71 := shiftOutPayload(payload)

	c14 := make([]byte, 14)
	for idx := 12; idx >= 0; idx-- {
		rem := uint16(0)
		for i := 0; i < 9; i++ {
			rem = (rem << 8) | uint16(b71[i])
			b71[i] = uint8(rem / 42)
			rem %= 42
		}
		c14[idx] = Charn(int(rem), CharTableFull)
	}
	return Trim(string(c14[:13]))
}

// unpackTelemetry decodes a type-0.5 message: 71 bits of opaque telemetry
// rendered as 18 hex digits.
func unpackTelemetry(payload [10]uint8) string {
	b71 := shiftOutPayload(payload)

	const hexDigits = "0123456789ABCDEF"
	hex := make([]byte, 18)
	for i := 0; i < 9; i++ {
		hex[i*2] = hexDigits[b71[i]>>4]
		hex[i*2+1] = hexDigits[b71[i]&0x0F]
	}
	return fmt.Sprintf("Telemetry: %s", string(hex))
}

// shiftOutPayload reads the 71 content bits (bits 0-70) that free-text and
// telemetry messages share, via bits.Reader, and stores them right-aligned
// in a 9-byte buffer (the top bit of the first byte is always 0).
func shiftOutPayload(payload [10]uint8) []uint8 {
	r := bits.NewReader(payload[:])
	b71 := make([]uint8, 9)
	for i := 0; i < 71; i++ {
		idx := i + 1
		if r.Read(1) != 0 {
			b71[idx/8] |= 1 << uint(7-(idx%8))
		}
	}
	return b71
}

// unpackStandard decodes type-1/2 messages: two 28-bit callsigns, an R1
// flag, and a 15-bit grid/report field.
func unpackStandard(payload [10]uint8, hashTable *CallsignHashTable) string {
	r := bits.NewReader(payload[:])
	n29a := uint32(r.Read(29))
	n29b := uint32(r.Read(29))
	r1 := uint8(r.Read(1))
	igrid4 := uint16(r.Read(15))
	i3 := uint8(r.Read(3))

	callTo := unpack28(n29a>>1, uint8(n29a&0x01), i3, hashTable)
	callDe := unpack28(n29b>>1, uint8(n29b&0x01), i3, hashTable)
	extra := unpackGrid(igrid4, r1)

	var parts []string
	for _, p := range []string{callTo, callDe, extra} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// unpackNonstd decodes type-4 messages: a 12-bit hashed third callsign, a
// 58-bit non-standard callsign, a flip flag, report code and CQ flag.
func unpackNonstd(payload [10]uint8, hashTable *CallsignHashTable) string {
	r := bits.NewReader(payload[:])
	h12 := uint16(r.Read(12))
	n58 := r.Read(58)
	iflip := uint8(r.Read(1))
	nrpt := uint8(r.Read(2))
	icq := uint8(r.Read(1))

	callDecoded := unpack58(n58, hashTable)

	call3 := "<...>"
	if hashTable != nil {
		if found, ok := hashTable.LookupHash(Hash12Bits, uint32(h12)); ok {
			call3 = "<" + found + ">"
		}
	}

	var call1, call2 string
	if iflip == 1 {
		call1, call2 = callDecoded, call3
	} else {
		call1, call2 = call3, callDecoded
	}

	var callTo, callDe, extra string
	if icq == 0 {
		callTo, callDe = call1, call2
		switch nrpt {
		case 1:
			extra = "RRR"
		case 2:
			extra = "RR73"
		case 3:
			extra = "73"
		}
	} else {
		callTo, callDe = "CQ", call2
	}

	parts := []string{callTo, callDe}
	if extra != "" {
		parts = append(parts, extra)
	}
	return strings.Join(parts, " ")
}

// unpackDXpedition decodes type-0.1 messages: two 28-bit callsigns, a
// 10-bit hashed callsign and a 5-bit signal report.
func unpackDXpedition(payload [10]uint8, hashTable *CallsignHashTable) string {
	r := bits.NewReader(payload[:])
	n28a := uint32(r.Read(28))
	n28b := uint32(r.Read(28))
	h10 := uint16(r.Read(10))
	r5 := uint8(r.Read(5))

	callRR := unpack28(n28a, 0, 0, hashTable) + " RR73;"
	callTo := unpack28(n28b, 0, 0, hashTable)

	callDe := "<...>"
	if hashTable != nil {
		if found, ok := hashTable.LookupHash(Hash10Bits, uint32(h10)); ok {
			callDe = "<" + found + ">"
		}
	}

	report := IntToDD(int(r5)*2-30, 2, true)
	return fmt.Sprintf("%s %s %s %s", callRR, callTo, callDe, report)
}

// unpackContesting decodes type-0.6 messages: two 28-bit callsigns and a
// 15-bit grid field (no report variant).
func unpackContesting(payload [10]uint8, hashTable *CallsignHashTable) string {
	r := bits.NewReader(payload[:])
	n28a := uint32(r.Read(28))
	n28b := uint32(r.Read(28))
	r.Read(1) // reserved bit ahead of the 15-bit grid field
	g15 := uint16(r.Read(15))

	callTo := unpack28(n28a, 0, 0, hashTable)
	callDe := unpack28(n28b, 0, 0, hashTable)
	grid := unpackGrid(g15, 0)

	parts := []string{callTo, callDe}
	if grid != "" {
		parts = append(parts, grid)
	}
	return strings.Join(parts, " ")
}

// unpack28 decodes a 28-bit callsign field: the low token range is CQ/DE/QRZ
// and "CQ nnn"/"CQ AAAA" shorthand, the next range is a 22-bit hash, and the
// rest is a literal base-36/27/10/37 encoded callsign.
func unpack28(n28 uint32, ip uint8, i3 uint8, hashTable *CallsignHashTable) string {
	if n28 < numTokens {
		switch {
		case n28 <= 2:
			return [...]string{"DE", "QRZ", "CQ"}[n28]
		case n28 <= 1002:
			return fmt.Sprintf("CQ %03d", n28-3)
		case n28 <= 532443:
			n := n28 - 1003
			aaaa := make([]byte, 4)
			for i := 3; i >= 0; i-- {
				aaaa[i] = Charn(int(n%27), CharTableLettersSpace)
				n /= 27
			}
			return "CQ " + TrimFront(string(aaaa))
		default:
			return ""
		}
	}

	n28 -= numTokens
	if n28 < max22Bits {
		if hashTable != nil {
			if call, found := hashTable.LookupHash(Hash22Bits, n28); found {
				return "<" + call + ">"
			}
		}
		return fmt.Sprintf("<...%04X>", n28&0xFFFF)
	}

	n := n28 - max22Bits
	callsign := make([]byte, 6)
	callsign[5] = Charn(int(n%27), CharTableLettersSpace)
	n /= 27
	callsign[4] = Charn(int(n%27), CharTableLettersSpace)
	n /= 27
	callsign[3] = Charn(int(n%27), CharTableLettersSpace)
	n /= 27
	callsign[2] = Charn(int(n%10), CharTableNumeric)
	n /= 10
	callsign[1] = Charn(int(n%36), CharTableAlphanum)
	n /= 36
	callsign[0] = Charn(int(n%37), CharTableAlphanumSpace)

	result := string(callsign)
	switch {
	case StartsWith(result, "3D0") && !IsSpace(result[3]):
		result = "3DA0" + Trim(result[3:]) // Swaziland prefix exception
	case result[0] == 'Q' && IsLetter(result[1]):
		result = "3X" + Trim(result[1:]) // Guinea prefix exception
	default:
		result = Trim(result)
	}

	if len(result) < 3 {
		return ""
	}
	if ip != 0 {
		switch i3 {
		case 1:
			result += "/R"
		case 2:
			result += "/P"
		}
	}

	if hashTable != nil {
		hashTable.SaveCallsign(result)
	}
	return result
}

// unpack58 decodes a 58-bit non-standard callsign: 11 characters base-38
// encoded (space, 0-9, A-Z, /).
func unpack58(n58 uint64, hashTable *CallsignHashTable) string {
	c11 := make([]byte, 11)
	for i := 10; i >= 0; i-- {
		c11[i] = Charn(int(n58%38), CharTableAlphanumSpaceSlash)
		n58 /= 38
	}

	callsign := Trim(string(c11))
	if hashTable != nil && len(callsign) >= 3 {
		hashTable.SaveCallsign(callsign)
	}
	return callsign
}

// unpackGrid decodes the 15-bit grid/report field shared by standard and
// contesting messages: either a 4-character Maidenhead grid, a fixed
// RRR/RR73/73 acknowledgement, or a signal report in dB.
func unpackGrid(igrid4 uint16, r1 uint8) string {
	switch igrid4 {
	case 0:
		return ""
	case maxGrid4 + 1:
		return ""
	case maxGrid4 + 2:
		return "RRR"
	case maxGrid4 + 3:
		return "RR73"
	case maxGrid4 + 4:
		return "73"
	}

	if igrid4 <= maxGrid4 {
		n := int(igrid4)
		grid := make([]byte, 4)
		grid[3] = '0' + byte(n%10)
		n /= 10
		grid[2] = '0' + byte(n%10)
		n /= 10
		grid[1] = 'A' + byte(n%18)
		n /= 18
		grid[0] = 'A' + byte(n%18)

		if r1 == 1 {
			return "R " + string(grid)
		}
		return string(grid)
	}

	irpt := int(igrid4) - maxGrid4
	if r1 == 1 {
		return "R" + IntToDD(irpt-35, 2, true)
	}
	return IntToDD(irpt-35, 2, true)
}
