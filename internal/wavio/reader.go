// Package wavio implements the WAV loader spec §6.1 treats as an external
// collaborator: it supplies (samples, sample_rate) to the core and nothing
// more. Grounded on the teacher's decoder_wav.go WAVWriter/WAVHeader
// layout, read in reverse, plus gzip support for the common
// download-and-keep-compressed spool convention (internal/spool).
package wavio

import (
	"compress/flate"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Header mirrors the teacher's WAVHeader layout exactly (RIFF/WAVE, one
// fmt subchunk, one data subchunk): the subset of the format this batch
// decoder needs to read, not a general parser for WAV's many optional
// chunks.
type Header struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// Recording is the decoded (samples, sample_rate) pair the core consumes.
// It carries no channel count: Read checks the header's channel count and
// rejects anything but mono at the loader boundary (spec §9's open
// question: multi-channel input is out of scope, so it is rejected here
// rather than silently accepted).
type Recording struct {
	Samples    []float32 // [-1.0, 1.0], PCM-to-float via int16/32768.0
	SampleRate int
}

// ReadFile loads a 16-bit PCM mono WAV file, transparently decompressing it
// first if the path ends in ".gz" (the ".wav.gz" input names internal/spool
// accepts).
func ReadFile(path string) (Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recording{}, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return Recording{}, fmt.Errorf("wavio: gzip header %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	return Read(r)
}

// Read parses a 16-bit PCM mono WAV stream.
func Read(r io.Reader) (Recording, error) {
	var hdr Header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return Recording{}, fmt.Errorf("wavio: read header: %w", err)
	}
	if hdr.ChunkID != [4]byte{'R', 'I', 'F', 'F'} || hdr.Format != [4]byte{'W', 'A', 'V', 'E'} {
		return Recording{}, fmt.Errorf("wavio: not a RIFF/WAVE file")
	}
	if hdr.AudioFormat != 1 {
		return Recording{}, fmt.Errorf("wavio: only PCM (format 1) is supported, got %d", hdr.AudioFormat)
	}
	if hdr.NumChannels != 1 {
		return Recording{}, fmt.Errorf("wavio: only mono input is supported, got %d channels", hdr.NumChannels)
	}
	if hdr.BitsPerSample != 16 {
		return Recording{}, fmt.Errorf("wavio: only 16-bit PCM is supported, got %d bits", hdr.BitsPerSample)
	}

	raw := make([]byte, hdr.Subchunk2Size)
	if _, err := io.ReadFull(r, raw); err != nil {
		return Recording{}, fmt.Errorf("wavio: read samples: %w", err)
	}

	numSamples := len(raw) / 2
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		v := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
		samples[i] = float32(v) / 32768.0
	}

	return Recording{Samples: samples, SampleRate: int(hdr.SampleRate)}, nil
}

// compressionLevel picks gzip.BestSpeed for WriteFileGz: encode speed
// matters more than ratio for the fixtures it writes.
var compressionLevel = flate.BestSpeed

// WriteFileGz is the inverse of ReadFile's gzip path, used by tests to
// construct fixtures without shipping binary .wav.gz files in the repo.
func WriteFileGz(path string, rec Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewWriterLevel(f, compressionLevel)
	if err != nil {
		return fmt.Errorf("wavio: gzip writer: %w", err)
	}
	defer gz.Close()

	return write(gz, rec)
}

func write(w io.Writer, rec Recording) error {
	dataSize := uint32(len(rec.Samples) * 2)
	hdr := Header{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    uint32(rec.SampleRate),
		ByteRate:      uint32(rec.SampleRate * 2),
		BlockAlign:    2,
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("wavio: write header: %w", err)
	}

	buf := make([]byte, len(rec.Samples)*2)
	for i, s := range rec.Samples {
		v := int16(s * 32768.0)
		binary.LittleEndian.PutUint16(buf[i*2:i*2+2], uint16(v))
	}
	_, err := w.Write(buf)
	return err
}
