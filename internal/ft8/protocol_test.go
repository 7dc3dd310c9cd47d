package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProtocol_ParamsDifferByProtocol(t *testing.T) {
	assert.Equal(t, "FT8", ProtocolFT8.String())
	assert.Equal(t, "FT4", ProtocolFT4.String())

	assert.InDelta(t, 0.160, ProtocolFT8.SymbolPeriod(), 1e-9)
	assert.InDelta(t, 0.048, ProtocolFT4.SymbolPeriod(), 1e-9)

	assert.Equal(t, 15.0, ProtocolFT8.SlotTime())
	assert.Equal(t, 7.5, ProtocolFT4.SlotTime())

	assert.Equal(t, 8, ProtocolFT8.NumTones())
	assert.Equal(t, 4, ProtocolFT4.NumTones())
}

func TestProtocol_UnknownProtocolPanics(t *testing.T) {
	assert.Panics(t, func() {
		_ = Protocol(99).String()
	})
}

func TestProtocol_YAMLRoundTrip(t *testing.T) {
	var p Protocol
	err := p.UnmarshalYAML(func(out interface{}) error {
		*out.(*string) = "ft4"
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, ProtocolFT4, p)

	out, err := p.MarshalYAML()
	assert.NoError(t, err)
	assert.Equal(t, "FT4", out)
}

func TestProtocol_UnmarshalYAMLRejectsUnknown(t *testing.T) {
	var p Protocol
	err := p.UnmarshalYAML(func(out interface{}) error {
		*out.(*string) = "ft99"
		return nil
	})
	assert.Error(t, err)
}

func TestDefaultConfig_DerivesCandidateCapacityFromBandwidth(t *testing.T) {
	cfg := DefaultConfig(ProtocolFT8)
	assert.Equal(t, ProtocolFT8, cfg.Protocol)
	assert.Equal(t, 0, cfg.MinScore)
	assert.Equal(t, 20, cfg.LDPCIterations)
	assert.Equal(t, (FreqMaxHz-FreqMinHz)*120/3000, cfg.MaxCandidates)
}

func TestMinSamples_FT8LongerThanFT4(t *testing.T) {
	sampleRate := 12000
	assert.Greater(t, ProtocolFT8.MinSamples(sampleRate), ProtocolFT4.MinSamples(sampleRate))
}
