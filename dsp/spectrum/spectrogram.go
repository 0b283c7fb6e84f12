package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// Spectrogram is a non-negative time-frequency array indexed [bin][frame].
type Spectrogram [][]float64

// NewSpectrogram allocates a zeroed bins x frames spectrogram.
func NewSpectrogram(bins, frames int) Spectrogram {
	s := make(Spectrogram, bins)
	data := make([]float64, bins*frames)
	for b := range s {
		s[b] = data[b*frames : (b+1)*frames : (b+1)*frames]
	}
	return s
}

// Bins returns the number of frequency rows.
func (s Spectrogram) Bins() int { return len(s) }

// Frames returns the number of time columns.
func (s Spectrogram) Frames() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Max returns the largest value, or 0 for an empty spectrogram.
func (s Spectrogram) Max() float64 {
	m := math.Inf(-1)
	for _, row := range s {
		for _, v := range row {
			if v > m {
				m = v
			}
		}
	}
	if math.IsInf(m, -1) {
		return 0
	}
	return m
}

// Clone returns a deep copy.
func (s Spectrogram) Clone() Spectrogram {
	out := NewSpectrogram(s.Bins(), s.Frames())
	for b := range s {
		copy(out[b], s[b])
	}
	return out
}

// PadFrames returns a copy with n zero frames appended to every bin.
func (s Spectrogram) PadFrames(n int) (Spectrogram, error) {
	if n < 0 {
		return nil, fmt.Errorf("spectrum: frame padding must be >= 0: %d: %w", n, core.ErrInvalidParameter)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	frames := s.Frames()
	out := NewSpectrogram(s.Bins(), frames+n)
	for b := range s {
		copy(out[b], s[b])
	}
	return out, nil
}

// Frame returns a copy of column f.
func (s Spectrogram) Frame(f int) []float64 {
	out := make([]float64, len(s))
	for b := range s {
		out[b] = s[b][f]
	}
	return out
}

// ArgMaxBin returns the bin holding the largest value of frame f.
func (s Spectrogram) ArgMaxBin(f int) int {
	best := 0
	for b := range s {
		if s[b][f] > s[best][f] {
			best = b
		}
	}
	return best
}

// MeanOverFrames returns the per-bin average across frames.
func (s Spectrogram) MeanOverFrames() []float64 {
	out := make([]float64, len(s))
	for b, row := range s {
		if len(row) == 0 {
			continue
		}
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		out[b] = sum / float64(len(row))
	}
	return out
}

func (s Spectrogram) validate() error {
	frames := s.Frames()
	for b, row := range s {
		if len(row) != frames {
			return fmt.Errorf("spectrum: ragged spectrogram: row %d has %d frames, want %d: %w", b, len(row), frames, core.ErrInvalidParameter)
		}
	}
	return nil
}

// validateMagnitudes rejects ragged shapes and cells that are negative or
// not finite.
func (s Spectrogram) validateMagnitudes() error {
	if err := s.validate(); err != nil {
		return err
	}
	for b, row := range s {
		for f, v := range row {
			if !(v >= 0) || math.IsInf(v, 1) {
				return fmt.Errorf("spectrum: bin %d frame %d must be finite and >= 0: %g: %w", b, f, v, core.ErrInvalidParameter)
			}
		}
	}
	return nil
}
