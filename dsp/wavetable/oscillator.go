package wavetable

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/interp"
	"github.com/cwbudde/algo-synth/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// DefaultFadeLength is the default fade-in/fade-out length in samples.
const DefaultFadeLength = 1000

// Option configures an Oscillator.
type Option func(*config) error

type config struct {
	fadeLen int
	gainDB  float64
	mode    interp.Mode
}

func defaultConfig() config {
	return config{
		fadeLen: DefaultFadeLength,
		mode:    interp.ModeLinear,
	}
}

// WithFadeLength sets the edge fade length in samples (0 disables fading).
func WithFadeLength(n int) Option {
	return func(cfg *config) error {
		if n < 0 {
			return fmt.Errorf("wavetable: fade length must be >= 0: %d: %w", n, core.ErrInvalidParameter)
		}
		cfg.fadeLen = n
		return nil
	}
}

// WithGainDB sets the output gain in decibels (default 0 dB).
func WithGainDB(db float64) Option {
	return func(cfg *config) error {
		if math.IsNaN(db) || math.IsInf(db, 1) {
			return fmt.Errorf("wavetable: gain must be finite: %f: %w", db, core.ErrInvalidParameter)
		}
		cfg.gainDB = db
		return nil
	}
}

// WithInterpolation selects the table read method (default linear).
func WithInterpolation(m interp.Mode) Option {
	return func(cfg *config) error {
		if !m.Valid() {
			return fmt.Errorf("wavetable: invalid interpolation mode: %d: %w", int(m), core.ErrInvalidParameter)
		}
		cfg.mode = m
		return nil
	}
}

// Oscillator renders a Table at arbitrary frequencies.
type Oscillator struct {
	table   *Table
	fadeLen int
	gain    float64
	mode    interp.Mode
}

// NewOscillator creates an oscillator reading table.
func NewOscillator(table *Table, opts ...Option) (*Oscillator, error) {
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("wavetable: table must not be empty: %w", core.ErrInvalidParameter)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Oscillator{
		table:   table,
		fadeLen: cfg.fadeLen,
		gain:    core.DBToLinear(cfg.gainDB),
		mode:    cfg.mode,
	}, nil
}

// FadeLength returns the configured fade length in samples.
func (o *Oscillator) FadeLength() int { return o.fadeLen }

// Synthesize renders numSamples samples of the table at freqHz. The phase
// starts at index 0 and advances by freqHz*L/sampleRate per sample, wrapped
// modulo L. The fade envelope is applied before the gain.
func (o *Oscillator) Synthesize(freqHz, sampleRate float64, numSamples int) ([]float64, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("wavetable: sample rate must be > 0: %f: %w", sampleRate, core.ErrInvalidParameter)
	}
	if numSamples <= 0 {
		return nil, fmt.Errorf("wavetable: sample count must be > 0: %d: %w", numSamples, core.ErrInvalidParameter)
	}
	if o.fadeLen > numSamples/2 {
		return nil, fmt.Errorf("wavetable: fade length %d exceeds half of %d samples: %w", o.fadeLen, numSamples, core.ErrInvalidParameter)
	}
	if math.IsNaN(freqHz) || math.IsInf(freqHz, 0) {
		return nil, fmt.Errorf("wavetable: frequency must be finite: %f: %w", freqHz, core.ErrInvalidParameter)
	}

	table := o.table.samples
	size := float64(len(table))
	increment := freqHz * size / sampleRate

	out := make([]float64, numSamples)
	index := 0.0
	for i := range out {
		out[i] = interp.Periodic(table, index, o.mode)
		index = core.Mod(index+increment, size)
	}

	if err := window.ApplyFades(out, o.fadeLen); err != nil {
		return nil, err
	}
	if o.gain != 1 {
		vecmath.ScaleBlock(out, out, o.gain)
	}
	return out, nil
}

// SynthesizeDuration renders floor(sampleRate*duration) samples.
func (o *Oscillator) SynthesizeDuration(freqHz, sampleRate, duration float64) ([]float64, error) {
	n, err := core.SampleCount(sampleRate, duration)
	if err != nil {
		return nil, fmt.Errorf("wavetable: %w", err)
	}
	return o.Synthesize(freqHz, sampleRate, n)
}
