package ft8

import (
	"github.com/ka9q/ft8-lib/internal/bits"
	"github.com/ka9q/ft8-lib/internal/tables"
)

// DecodeStatus records the diagnostics of one candidate's decode attempt
// (spec §4.4/§4.5), independent of whether it ultimately succeeded. Used
// both for the successful path and for classifying why a candidate was
// rejected (§7).
type DecodeStatus struct {
	LDPCErrors    int     // parity checks still failing when decoding stopped; 0 = clean
	CRCExtracted  uint16  // CRC field read from the decoded bits
	CRCCalculated uint16  // CRC recomputed over the decoded payload
	Frequency     float32 // Hz
	Time          float32 // seconds from slot start
	Codeword      []uint8 // 174-bit hard-decision codeword, kept for SNR estimation
}

// DecodedFrame is a payload that passed LDPC and CRC validation: the 77-bit
// (10-byte, zero-padded) message payload plus the CRC that validated it.
type DecodedFrame struct {
	Payload [10]uint8
	Hash    uint16
}

// DecodeCandidate runs the extraction → LDPC → CRC pipeline for one sync
// candidate (spec §4.4-4.5). A non-nil frame is returned only once LDPC
// converges to zero parity errors and the recomputed CRC matches the
// extracted one; otherwise ok is false and status explains why.
func DecodeCandidate(wf *Waterfall, cand *Candidate, protocol Protocol, maxIterations int) (*DecodedFrame, *DecodeStatus, bool) {
	status := &DecodeStatus{}

	symbolPeriod := protocol.SymbolPeriod()
	status.Frequency = float32(CandidateFrequency(wf, cand, symbolPeriod))
	status.Time = float32(CandidateTime(wf, cand, symbolPeriod))

	log174 := ExtractLikelihood(wf, cand, protocol)

	plain174, ldpcErrors := LDPCDecode(log174, maxIterations)
	status.LDPCErrors = ldpcErrors
	status.Codeword = plain174

	if ldpcErrors > 0 {
		return nil, status, false
	}

	a91 := bits.PackBits(plain174[:tables.LDPCK], tables.LDPCK)

	status.CRCExtracted = ExtractCRC(a91)

	// The CRC covers the source-encoded message zero-extended from 77 to 82
	// bits (spec §4.5), so the CRC bits sharing bytes 9 and 10 with the
	// payload must be cleared before recomputing it.
	a91[9] &= 0xF8
	a91[10] &= 0x00
	status.CRCCalculated = ComputeCRC(a91, 96-tables.CRCWidth)

	if status.CRCExtracted != status.CRCCalculated {
		return nil, status, false
	}

	frame := &DecodedFrame{Hash: status.CRCCalculated}
	if protocol == ProtocolFT4 {
		for i := 0; i < 10; i++ {
			frame.Payload[i] = a91[i] ^ tables.FT4XORSequence[i]
		}
	} else {
		copy(frame.Payload[:], a91[:10])
	}

	return frame, status, true
}
