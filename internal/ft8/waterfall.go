package ft8

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Waterfall is the 4-D time/frequency magnitude tensor described in spec
// §3: indexed [block][time_sub][freq_sub][bin], stored as a flat byte
// array for cache-local stride arithmetic (§9, "Waterfall as flat byte
// storage"). It exclusively owns Mag; nothing else in the package
// retains a reference into it across buffers.
type Waterfall struct {
	MaxBlocks   int // blocks (symbol periods) allocated for one slot
	NumBlocks   int // blocks filled in so far
	NumBins     int // 6.25 Hz-equivalent frequency bins
	MinBin      int // first tone-spaced bin (in 1/symbolPeriod Hz units) the waterfall covers
	TimeOSR     int
	FreqOSR     int
	BlockStride int // TimeOSR * FreqOSR * NumBins
	Mag         []uint8
	Protocol    Protocol
}

// mag returns the magnitude byte at (block, timeSub, freqSub, bin), or 0 if
// the coordinate falls outside the populated waterfall. Spec §4.2's sync
// search and §4.3's extraction both rely on out-of-range reads returning a
// harmless zero rather than panicking at slot boundaries.
func (w *Waterfall) mag(block, bin, timeSub, freqSub int) uint8 {
	if block < 0 || block >= w.NumBlocks || bin < 0 || bin >= w.NumBins {
		return 0
	}
	idx := block*w.BlockStride + timeSub*w.FreqOSR*w.NumBins + freqSub*w.NumBins + bin
	if idx < 0 || idx >= len(w.Mag) {
		return 0
	}
	return w.Mag[idx]
}

// quantizeMag converts a linear power (mag²) to the byte encoding spec §3
// defines: dB = (b-240)/2, clamped to [0,255], 0.5 dB steps.
func quantizeMag(power float64) uint8 {
	db := 10.0 * math.Log10(1e-12+power)
	scaled := int(math.Round(2.0*db + 240.0))
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}

// Monitor is the short-time Fourier transform front end (§4.1). It slides
// an nfft-sample analysis window forward by subblockSize every time
// subdivision, windows, FFTs, and appends one block's worth of magnitudes
// to its Waterfall per Process call.
type Monitor struct {
	waterfall *Waterfall

	symbolPeriod float64
	minBin       int
	blockSize    int
	subblockSize int
	nfft         int
	window       []float64 // Hann window, normalization pre-applied

	lastFrame []float64
	timeData  []float64
	freqData  []complex128
	fft       *fourier.FFT
}

// NewMonitor builds a Monitor for one decode pass. fMin/fMax bound the
// searched audio passband in Hz; timeOSR/freqOSR are the (fixed, =2)
// oversampling rates from spec §3/§4.1.
func NewMonitor(sampleRate int, fMin, fMax float64, timeOSR, freqOSR int, protocol Protocol) *Monitor {
	symbolPeriod := protocol.SymbolPeriod()
	blockSize := int(float64(sampleRate) * symbolPeriod)
	subblockSize := blockSize / timeOSR

	// One raw FFT bin is 1/(symbolPeriod*freqOSR) Hz, so freqOSR raw bins
	// make up one tone spacing.
	nfft := blockSize * freqOSR

	minBin := int(fMin * symbolPeriod)
	maxBin := int(fMax*symbolPeriod) + 1
	numBins := maxBin - minBin

	maxBlocks := int(protocol.SlotTime()/symbolPeriod) + 1

	wf := &Waterfall{
		MaxBlocks:   maxBlocks,
		NumBins:     numBins,
		MinBin:      minBin,
		TimeOSR:     timeOSR,
		FreqOSR:     freqOSR,
		BlockStride: timeOSR * freqOSR * numBins,
		Mag:         make([]uint8, maxBlocks*timeOSR*freqOSR*numBins),
		Protocol:    protocol,
	}

	fftNorm := 2.0 / float64(nfft)
	window := make([]float64, nfft)
	for i := range window {
		x := math.Sin(math.Pi * float64(i) / float64(nfft))
		window[i] = fftNorm * x * x // Hann: w[i] = sin²(pi*i/nfft), normalization folded in
	}

	return &Monitor{
		waterfall:    wf,
		symbolPeriod: symbolPeriod,
		minBin:       minBin,
		blockSize:    blockSize,
		subblockSize: subblockSize,
		nfft:         nfft,
		window:       window,
		lastFrame:    make([]float64, nfft),
		timeData:     make([]float64, nfft),
		freqData:     make([]complex128, nfft/2+1),
		fft:          fourier.NewFFT(nfft),
	}
}

// Waterfall returns the monitor's in-progress waterfall.
func (m *Monitor) Waterfall() *Waterfall { return m.waterfall }

// BlockSize is the number of PCM samples comprising one symbol period.
func (m *Monitor) BlockSize() int { return m.blockSize }

// Process consumes one block of audio (spec §4.1's contract: "called once
// per block in arrival order"). A no-op once the waterfall is full.
func (m *Monitor) Process(frame []float32) {
	wf := m.waterfall
	if wf.NumBlocks >= wf.MaxBlocks {
		return
	}

	for timeSub := 0; timeSub < wf.TimeOSR; timeSub++ {
		offset := timeSub * m.subblockSize

		copy(m.lastFrame, m.lastFrame[m.subblockSize:])
		for i := 0; i < m.subblockSize && offset+i < len(frame); i++ {
			m.lastFrame[m.nfft-m.subblockSize+i] = float64(frame[offset+i])
		}

		for i := 0; i < m.nfft; i++ {
			m.timeData[i] = m.lastFrame[i] * m.window[i]
		}

		m.freqData = m.fft.Coefficients(m.freqData, m.timeData)
		m.extractMagnitudes(timeSub)
	}

	wf.NumBlocks++
}

func (m *Monitor) extractMagnitudes(timeSub int) {
	wf := m.waterfall
	block := wf.NumBlocks
	if block >= wf.MaxBlocks {
		return
	}

	baseIdx := block*wf.BlockStride + timeSub*wf.FreqOSR*wf.NumBins
	for freqSub := 0; freqSub < wf.FreqOSR; freqSub++ {
		for bin := 0; bin < wf.NumBins; bin++ {
			fftBin := (m.minBin+bin)*wf.FreqOSR + freqSub
			if fftBin >= len(m.freqData) {
				continue
			}
			re := real(m.freqData[fftBin])
			im := imag(m.freqData[fftBin])
			idx := baseIdx + freqSub*wf.NumBins + bin
			if idx < len(wf.Mag) {
				wf.Mag[idx] = quantizeMag(re*re + im*im)
			}
		}
	}
}

// Reset clears accumulated state for a new slot, reusing the allocation.
func (m *Monitor) Reset() {
	m.waterfall.NumBlocks = 0
	for i := range m.lastFrame {
		m.lastFrame[i] = 0
	}
}

func nextPowerOf2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}
