package pad

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// Side selects where an odd deficit is placed by Align.
type Side int

const (
	// SideBack appends the whole odd deficit after the signal.
	SideBack Side = iota
	// SideFront prepends the whole odd deficit before the signal.
	SideFront
)

func (s Side) String() string {
	switch s {
	case SideBack:
		return "back"
	case SideFront:
		return "front"
	default:
		return "unknown"
	}
}

// ParseSide parses "back" or "front".
func ParseSide(name string) (Side, error) {
	switch name {
	case "back":
		return SideBack, nil
	case "front":
		return SideFront, nil
	default:
		return 0, fmt.Errorf("pad: unknown side %q: %w", name, core.ErrInvalidParameter)
	}
}

// Option configures an Aligner.
type Option func(*config) error

type config struct {
	truncate bool
}

// WithTruncate trims oversized signals instead of failing. PadFront drops
// leading samples, PadBack drops trailing samples and PadBoth drops
// floor(excess/2) leading samples and the rest from the end.
func WithTruncate() Option {
	return func(cfg *config) error {
		cfg.truncate = true
		return nil
	}
}

// Aligner pads signals to round(sampleRate*targetDuration) samples.
type Aligner struct {
	sampleRate float64
	target     int
	truncate   bool
}

// NewAligner creates an Aligner for the given sample rate and target
// duration in seconds.
func NewAligner(sampleRate, targetDuration float64, opts ...Option) (*Aligner, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("pad: sample rate must be > 0: %f: %w", sampleRate, core.ErrInvalidParameter)
	}
	if !(targetDuration > 0) || math.IsInf(targetDuration, 0) {
		return nil, fmt.Errorf("pad: target duration must be > 0: %f: %w", targetDuration, core.ErrInvalidParameter)
	}

	target := int(math.Round(sampleRate * targetDuration))
	if target <= 0 {
		return nil, fmt.Errorf("pad: target length rounds to zero: %f*%f: %w", sampleRate, targetDuration, core.ErrInvalidParameter)
	}

	var cfg config
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Aligner{sampleRate: sampleRate, target: target, truncate: cfg.truncate}, nil
}

// NewAlignerLength creates an Aligner with an explicit target length in
// samples.
func NewAlignerLength(target int, opts ...Option) (*Aligner, error) {
	if target <= 0 {
		return nil, fmt.Errorf("pad: target length must be > 0: %d: %w", target, core.ErrInvalidParameter)
	}
	var cfg config
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &Aligner{target: target, truncate: cfg.truncate}, nil
}

// TargetLength returns the target length in samples.
func (a *Aligner) TargetLength() int { return a.target }

// SampleRate returns the sample rate, or 0 for length-only aligners.
func (a *Aligner) SampleRate() float64 { return a.sampleRate }

// Deficit returns target length minus the signal length.
func (a *Aligner) Deficit(signal []float64) int { return a.target - len(signal) }

// PadFront prepends the whole deficit as zeros.
func (a *Aligner) PadFront(signal []float64) ([]float64, error) {
	d := a.Deficit(signal)
	if d < 0 {
		if err := a.tooLong(signal); err != nil {
			return nil, err
		}
		return append([]float64(nil), signal[-d:]...), nil
	}
	out := make([]float64, a.target)
	copy(out[d:], signal)
	return out, nil
}

// PadBack appends the whole deficit as zeros.
func (a *Aligner) PadBack(signal []float64) ([]float64, error) {
	d := a.Deficit(signal)
	if d < 0 {
		if err := a.tooLong(signal); err != nil {
			return nil, err
		}
		return append([]float64(nil), signal[:a.target]...), nil
	}
	out := make([]float64, a.target)
	copy(out, signal)
	return out, nil
}

// PadBoth puts floor(D/2) zeros on each side. The output is
// TargetLength()-1 samples long when D is odd.
func (a *Aligner) PadBoth(signal []float64) ([]float64, error) {
	d := a.Deficit(signal)
	if d < 0 {
		if err := a.tooLong(signal); err != nil {
			return nil, err
		}
		front := -d / 2
		return append([]float64(nil), signal[front:front+a.target]...), nil
	}
	half := d / 2
	out := make([]float64, len(signal)+2*half)
	copy(out[half:], signal)
	return out, nil
}

// Align pads to exactly TargetLength samples: an even deficit is split
// evenly, an odd one goes entirely to side.
func (a *Aligner) Align(signal []float64, side Side) ([]float64, error) {
	d := a.Deficit(signal)
	if d%2 == 0 {
		return a.PadBoth(signal)
	}
	switch side {
	case SideBack:
		return a.PadBack(signal)
	case SideFront:
		return a.PadFront(signal)
	default:
		return nil, fmt.Errorf("pad: invalid side: %d: %w", int(side), core.ErrInvalidParameter)
	}
}

func (a *Aligner) tooLong(signal []float64) error {
	if a.truncate {
		return nil
	}
	return fmt.Errorf("pad: signal of %d samples exceeds target %d: %w", len(signal), a.target, core.ErrSignalTooLong)
}
