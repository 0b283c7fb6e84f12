// Package wavio reads and writes mono PCM WAV files of float64 samples.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/dither"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Format tags of the fmt chunk.
const (
	pcmFormat   = 1
	floatFormat = 3
)

// ErrInvalidFile is returned for inputs that are not PCM WAV files.
var ErrInvalidFile = errors.New("wavio: not a PCM WAV file")

// WriteOptions controls sample conversion on write.
type WriteOptions struct {
	// BitDepth is 16, 24 or 32. Zero selects 16.
	BitDepth int
	// Dither is the noise added before rounding.
	Dither dither.DitherType
	// RNG seeds the dither source; nil draws a random seed.
	RNG *rand.Rand
	// Float writes 32-bit IEEE float samples without clipping. BitDepth and
	// Dither are ignored.
	Float bool
}

// Clip is a decoded WAV file.
type Clip struct {
	Samples    []float64
	SampleRate int
	BitDepth   int
	Channels   int
	Float      bool
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	if c.SampleRate == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// WriteFile writes samples as a mono WAV file and returns how many samples
// lie outside [-1, 1]. Integer PCM clips them; float output keeps them.
func WriteFile(path string, samples []float64, sampleRate int, opts WriteOptions) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("wavio: create %s: %w", path, err)
	}

	clips, err := Write(f, samples, sampleRate, opts)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("wavio: close %s: %w", path, cerr)
	}
	if err != nil {
		return 0, err
	}
	return clips, nil
}

// Write encodes samples to w as mono PCM or IEEE float.
func Write(w io.WriteSeeker, samples []float64, sampleRate int, opts WriteOptions) (int, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("wavio: sample rate must be > 0: %d: %w", sampleRate, core.ErrInvalidParameter)
	}
	if opts.Float {
		return writeFloat(w, samples, sampleRate)
	}
	bits := opts.BitDepth
	if bits == 0 {
		bits = 16
	}
	if bits != 16 && bits != 24 && bits != 32 {
		return 0, fmt.Errorf("wavio: bit depth must be 16, 24 or 32: %d: %w", bits, core.ErrInvalidParameter)
	}

	quant, err := dither.NewQuantizer(
		dither.WithBitDepth(bits),
		dither.WithDitherType(opts.Dither),
		dither.WithRNG(opts.RNG),
	)
	if err != nil {
		return 0, fmt.Errorf("wavio: %w", err)
	}

	buf := &audio.IntBuffer{
		Data:           make([]int, len(samples)),
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: bits,
	}
	clips := quant.QuantizeBlock(buf.Data, samples)

	if err := encode(w, buf, bits, pcmFormat); err != nil {
		return 0, err
	}
	return clips, nil
}

// writeFloat stores float32 bit patterns in the 32-bit integer lanes of the
// encoder, which writes them unchanged under the float format tag.
func writeFloat(w io.WriteSeeker, samples []float64, sampleRate int) (int, error) {
	buf := &audio.IntBuffer{
		Data:           make([]int, len(samples)),
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 32,
	}
	over := 0
	for i, x := range samples {
		if math.Abs(x) > 1 {
			over++
		}
		buf.Data[i] = int(int32(math.Float32bits(float32(x))))
	}

	if err := encode(w, buf, 32, floatFormat); err != nil {
		return 0, err
	}
	return over, nil
}

func encode(w io.WriteSeeker, buf *audio.IntBuffer, bits, format int) error {
	enc := wav.NewEncoder(w, buf.Format.SampleRate, bits, 1, format)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: finalize: %w", err)
	}
	return nil
}

// ReadFile decodes the first channel of a PCM or IEEE float WAV file.
func ReadFile(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

// Read decodes the first channel of a PCM WAV stream.
func Read(r io.ReadSeeker) (Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Clip{}, ErrInvalidFile
	}
	isFloat := dec.WavAudioFormat == floatFormat
	switch {
	case isFloat && dec.BitDepth != 32:
		return Clip{}, fmt.Errorf("%w: %d-bit float", ErrInvalidFile, dec.BitDepth)
	case !isFloat && dec.WavAudioFormat != pcmFormat:
		return Clip{}, fmt.Errorf("%w: format tag %d", ErrInvalidFile, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("wavio: decode: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}
	bits := int(dec.BitDepth)
	scale := math.Exp2(float64(bits-1)) - 1

	out := make([]float64, len(buf.Data)/channels)
	for i := range out {
		v := buf.Data[i*channels]
		if isFloat {
			out[i] = float64(math.Float32frombits(uint32(int32(v))))
			continue
		}
		out[i] = float64(v) / scale
	}

	return Clip{
		Samples:    out,
		SampleRate: buf.Format.SampleRate,
		BitDepth:   bits,
		Channels:   channels,
		Float:      isFloat,
	}, nil
}
