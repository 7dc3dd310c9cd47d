package ft8

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecode_SilenceYieldsNoMessages(t *testing.T) {
	sampleRate := 12000
	cfg := DefaultConfig(ProtocolFT8)
	cfg.MaxCandidates = 8

	buf := Buffer{
		Signal:      make([]float32, ProtocolFT8.MinSamples(sampleRate)),
		SampleRate:  sampleRate,
		Protocol:    ProtocolFT8,
		BaseFreqMHz: 14.074,
		SlotStart:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	hashTable := NewCallsignHashTable(64)
	lines, stats := Decode(buf, cfg, hashTable, nil)
	assert.Empty(t, lines, "silent audio should never decode to a message")
	assert.Zero(t, stats.MessagesEmitted)
}

func TestDecode_ShortBufferProducesNoPanic(t *testing.T) {
	cfg := DefaultConfig(ProtocolFT8)
	buf := Buffer{
		Signal:      make([]float32, 100), // far shorter than one block
		SampleRate:  12000,
		Protocol:    ProtocolFT8,
		BaseFreqMHz: 14.074,
		SlotStart:   time.Now().UTC(),
	}

	hashTable := NewCallsignHashTable(64)
	assert.NotPanics(t, func() {
		Decode(buf, cfg, hashTable, nil)
	})
}
