// Package ft8 implements the signal-to-message decode pipeline for one
// audio buffer of the FT8/FT4 weak-signal digital protocols: waterfall
// construction, Costas synchronization search, soft-decision symbol
// extraction, LDPC belief-propagation decoding, CRC-14 validation, 77-bit
// payload unpacking, per-buffer deduplication, and formatted emission.
//
// Ported from and restructured out of ka9q_ubersdr's audio_extensions/ft8
// live-decoder package; this version decodes one fully-buffered slot at a
// time rather than streaming from a live audio channel.
package ft8

import "fmt"

// Protocol selects FT8 or FT4, driving every protocol-dependent constant
// (symbol period, slot length, tone count, Costas positions, data-symbol
// count) from one tagged value instead of scattered booleans.
type Protocol int

const (
	ProtocolFT8 Protocol = iota
	ProtocolFT4
)

// Protocol-independent constants shared by both waveforms.
const (
	CostasLength = 7    // Costas array length (FT8); FT4 uses groups of 4
	FreqMinHz    = 100  // lower edge of the searched audio passband
	FreqMaxHz    = 3100 // upper edge of the searched audio passband

	FreqOSR = 2 // frequency oversampling rate
	TimeOSR = 2 // time oversampling rate
)

// protocol timing/structure, keyed by Protocol, so protocol-dependent
// constants are looked up in one table rather than branched on throughout
// the package.
type protocolParams struct {
	name         string
	symbolPeriod float64 // seconds per symbol
	slotTime     float64 // seconds per transmission slot
	symbolCount  int     // total channel symbols including sync
	dataSymbols  int     // symbols carrying the 174 coded bits
	numTones     int     // FSK alphabet size
}

var paramsByProtocol = map[Protocol]protocolParams{
	ProtocolFT8: {name: "FT8", symbolPeriod: 0.160, slotTime: 15.0, symbolCount: 79, dataSymbols: 58, numTones: 8},
	ProtocolFT4: {name: "FT4", symbolPeriod: 0.048, slotTime: 7.5, symbolCount: 105, dataSymbols: 87, numTones: 4},
}

func (p Protocol) params() protocolParams {
	params, ok := paramsByProtocol[p]
	if !ok {
		panic(fmt.Sprintf("ft8: unknown protocol %d", int(p)))
	}
	return params
}

// SymbolPeriod returns the symbol period in seconds.
func (p Protocol) SymbolPeriod() float64 { return p.params().symbolPeriod }

// SlotTime returns the transmission slot length in seconds.
func (p Protocol) SlotTime() float64 { return p.params().slotTime }

// SymbolCount returns the number of channel symbols in one transmission.
func (p Protocol) SymbolCount() int { return p.params().symbolCount }

// DataSymbols returns the number of symbols carrying coded payload bits.
func (p Protocol) DataSymbols() int { return p.params().dataSymbols }

// NumTones returns the FSK tone alphabet size (8 for FT8, 4 for FT4).
func (p Protocol) NumTones() int { return p.params().numTones }

// MinSamples is the minimum buffer length spec §6.1 requires a caller to
// supply before invoking the core; the core assumes it and does not
// re-check.
func (p Protocol) MinSamples(sampleRate int) int {
	var seconds float64
	if p == ProtocolFT4 {
		seconds = 4.48
	} else {
		seconds = 12.64
	}
	return int(seconds * float64(sampleRate))
}

func (p Protocol) String() string { return p.params().name }

// MarshalYAML renders the protocol as its short name, matching the
// teacher's DecoderMode (Un)MarshalYAML convention in decoder_config.go.
func (p Protocol) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// UnmarshalYAML parses "FT8"/"FT4" (case-insensitive) from config.
func (p *Protocol) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch s {
	case "FT8", "ft8":
		*p = ProtocolFT8
	case "FT4", "ft4":
		*p = ProtocolFT4
	default:
		return fmt.Errorf("ft8: unknown protocol %q", s)
	}
	return nil
}

// Config holds the decoder's tunable parameters for one run.
type Config struct {
	Protocol       Protocol `yaml:"protocol"`
	MinScore       int      `yaml:"min_score"`       // candidates scoring below this are excluded before decode (§4.2)
	MaxCandidates  int      `yaml:"max_candidates"`  // bounded sync heap capacity N (§4.2)
	LDPCIterations int      `yaml:"ldpc_iterations"` // belief-propagation iteration cap (§4.4)
}

// DefaultConfig returns the reference parameters for a protocol: accept all
// candidates with a non-negative score, a heap capacity derived from the searched
// bandwidth (§4.2's N = bandwidth * 120 / 3000), and 20 LDPC iterations.
func DefaultConfig(protocol Protocol) Config {
	bandwidth := FreqMaxHz - FreqMinHz
	return Config{
		Protocol:       protocol,
		MinScore:       0,
		MaxCandidates:  bandwidth * 120 / 3000,
		LDPCIterations: 20,
	}
}
