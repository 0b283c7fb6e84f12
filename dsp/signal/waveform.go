package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// WaveGenerator evaluates sine, square and sawtooth waves on a fixed time grid.
// It is immutable after construction and safe for concurrent use.
type WaveGenerator struct {
	sampleRate float64
	duration   float64
	t          []float64
}

// NewWaveGenerator creates a generator for the grid of floor(sampleRate*duration)
// samples.
func NewWaveGenerator(duration, sampleRate float64) (*WaveGenerator, error) {
	n, err := core.SampleCount(sampleRate, duration)
	if err != nil {
		return nil, fmt.Errorf("signal: %w", err)
	}
	return &WaveGenerator{
		sampleRate: sampleRate,
		duration:   duration,
		t:          core.TimeGrid(sampleRate, n),
	}, nil
}

// SampleRate returns the grid sample rate in Hz.
func (g *WaveGenerator) SampleRate() float64 { return g.sampleRate }

// Duration returns the requested duration in seconds.
func (g *WaveGenerator) Duration() float64 { return g.duration }

// Len returns the number of samples every waveform will have.
func (g *WaveGenerator) Len() int { return len(g.t) }

// Sine returns amp*sin(2*pi*f*t) at zero phase.
func (g *WaveGenerator) Sine(freqHz, gainDB float64) []float64 {
	amp := core.DBToLinear(gainDB)
	w := 2 * math.Pi * freqHz
	out := make([]float64, len(g.t))
	for i, t := range g.t {
		out[i] = amp * math.Sin(w*t)
	}
	return out
}

// Square returns amp*sign(sin(2*pi*f*t)). Exact zeros of the sine map to +amp,
// so every sample is exactly +amp or -amp.
func (g *WaveGenerator) Square(freqHz, gainDB float64) []float64 {
	amp := core.DBToLinear(gainDB)
	w := 2 * math.Pi * freqHz
	out := make([]float64, len(g.t))
	for i, t := range g.t {
		if math.Sin(w*t) < 0 {
			out[i] = -amp
		} else {
			out[i] = amp
		}
	}
	return out
}

// Saw returns a rising sawtooth amp*(2*frac(f*t) - 1), ramping from -amp at
// each period start towards +amp. It is not band-limited.
func (g *WaveGenerator) Saw(freqHz, gainDB float64) []float64 {
	amp := core.DBToLinear(gainDB)
	out := make([]float64, len(g.t))
	for i, t := range g.t {
		out[i] = amp * (2*core.Frac(freqHz*t) - 1)
	}
	return out
}

// Kind names one of the closed-form waveforms.
type Kind int

const (
	KindSine Kind = iota
	KindSquare
	KindSaw
)

var kindNames = [...]string{"sine", "square", "saw"}

// String returns the lower-case waveform name.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a waveform name to its Kind.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("signal: unknown waveform %q: %w", name, core.ErrInvalidParameter)
}

// Wave dispatches to Sine, Square or Saw.
func (g *WaveGenerator) Wave(k Kind, freqHz, gainDB float64) ([]float64, error) {
	switch k {
	case KindSine:
		return g.Sine(freqHz, gainDB), nil
	case KindSquare:
		return g.Square(freqHz, gainDB), nil
	case KindSaw:
		return g.Saw(freqHz, gainDB), nil
	default:
		return nil, fmt.Errorf("signal: unknown waveform %d: %w", int(k), core.ErrInvalidParameter)
	}
}
