package ft8

import (
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Buffer is one audio slot handed to the core by the (out-of-scope, spec
// §6.1) WAV loader: already-resident PCM samples plus the metadata needed
// to annotate decoded messages with absolute time and frequency.
type Buffer struct {
	Signal      []float32 // mono PCM, [-1.0, 1.0]
	SampleRate  int
	Protocol    Protocol
	BaseFreqMHz float64   // dial frequency corresponding to 0 Hz audio
	SlotStart   time.Time // broken-down UTC time of Signal[0]
	Fractional  float64   // fractional second of Signal[0]
}

// DecodeStats counts per-buffer decode outcomes (spec §7's failure
// taxonomy plus the dedup and candidate-discovery counts), for callers that
// want to feed them into metrics without Decode importing internal/metrics
// itself.
type DecodeStats struct {
	CandidatesFound int // sync candidates the bounded heap retained
	LDPCFailures    int // candidates dropped for nonzero residual parity errors
	CRCFailures     int // candidates dropped for a CRC-14 mismatch after a clean LDPC decode
	Duplicates      int // messages dropped as duplicates within this buffer
	MessagesEmitted int // lines returned
}

// Decode runs the full signal-to-message pipeline for one buffer (spec §2's
// dependency order: waterfall → sync → loop over candidates { extract →
// LDPC → CRC → unpack → dedup } → emit) and returns the formatted lines
// ready for output alongside stats describing how it got there. It never
// returns an error: every per-candidate failure is local and simply drops
// that candidate (spec §7); a buffer yielding zero lines is a valid,
// non-exceptional result.
func Decode(buf Buffer, cfg Config, hashTable *CallsignHashTable, logger *charmlog.Logger) ([]string, DecodeStats) {
	protocol := buf.Protocol

	monitor := NewMonitor(buf.SampleRate, FreqMinHz, FreqMaxHz, TimeOSR, FreqOSR, protocol)
	blockSize := monitor.BlockSize()
	for offset := 0; offset+blockSize <= len(buf.Signal); offset += blockSize {
		monitor.Process(buf.Signal[offset : offset+blockSize])
	}
	wf := monitor.Waterfall()

	candidates := FindCandidates(wf, cfg.MaxCandidates, cfg.MinScore)

	var stats DecodeStats
	stats.CandidatesFound = len(candidates)

	dedup := newDedupTable()
	for i := range candidates {
		cand := &candidates[i]

		frame, status, ok := DecodeCandidate(wf, cand, protocol, cfg.LDPCIterations)
		if !ok {
			classifyFailure(logger, status, &stats)
			continue
		}

		text := UnpackMessageWithHash(frame.Payload, hashTable)
		if text == "" {
			if logger != nil {
				logger.Debug("unpack produced empty text", "freq_hz", status.Frequency)
			}
			continue
		}

		msg := Message{
			Text:    text,
			Hash:    frame.Hash,
			FreqHz:  float64(status.Frequency),
			TimeSec: float64(status.Time),
			Score:   cand.Score,
		}
		if !dedup.insert(msg) {
			stats.Duplicates++
			if logger != nil {
				logger.Debug("duplicate message dropped", "text", msg.Text, "freq_hz", msg.FreqHz)
			}
		}
	}

	lines := make([]string, 0, dedup.occupied)
	for _, msg := range dedup.messages() {
		lines = append(lines, FormatLine(msg, buf.SlotStart, protocol.SlotTime(), buf.Fractional, buf.BaseFreqMHz))
	}
	stats.MessagesEmitted = len(lines)
	return lines, stats
}

// classifyFailure counts and logs why a candidate was dropped, per the
// taxonomy in spec §7 (LdpcFailure / CrcMismatch are the two outcomes
// DecodeCandidate can report; LowScore candidates never reach here because
// FindCandidates excludes them before decoding is attempted).
func classifyFailure(logger *charmlog.Logger, status *DecodeStatus, stats *DecodeStats) {
	switch {
	case status.LDPCErrors > 0:
		stats.LDPCFailures++
		if logger != nil {
			logger.Debug("ldpc failure", "parity_errors", status.LDPCErrors, "freq_hz", status.Frequency)
		}
	case status.CRCExtracted != status.CRCCalculated:
		stats.CRCFailures++
		if logger != nil {
			logger.Debug("crc mismatch", "extracted", status.CRCExtracted, "calculated", status.CRCCalculated, "freq_hz", status.Frequency)
		}
	}
}
