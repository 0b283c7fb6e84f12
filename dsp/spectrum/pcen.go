package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// PCENParams holds per-channel energy normalization settings.
type PCENParams struct {
	Alpha float64 // gain normalization exponent, (0, 1]
	Delta float64 // bias added before compression, >= 0
	R     float64 // compression exponent, (0, 1]
	S     float64 // smoothing coefficient, (0, 1)
	Eps   float64 // floor added to the smoothed energy, > 0
}

// DefaultPCENParams returns alpha 0.8, delta 10, r 0.25, s 0.00025 and
// eps 1e-5.
func DefaultPCENParams() PCENParams {
	return PCENParams{
		Alpha: 0.8,
		Delta: 10,
		R:     0.25,
		S:     0.00025,
		Eps:   1e-5,
	}
}

// Validate checks parameter ranges.
func (p PCENParams) Validate() error {
	if math.IsNaN(p.Eps) || p.Eps <= 0 {
		return fmt.Errorf("spectrum: pcen eps must be > 0: %g: %w", p.Eps, core.ErrNumericInstability)
	}
	if math.IsNaN(p.S) || p.S <= 0 || p.S >= 1 {
		return fmt.Errorf("spectrum: pcen s must be in (0, 1): %g: %w", p.S, core.ErrInvalidParameter)
	}
	if math.IsNaN(p.Alpha) || p.Alpha <= 0 || p.Alpha > 1 {
		return fmt.Errorf("spectrum: pcen alpha must be in (0, 1]: %g: %w", p.Alpha, core.ErrInvalidParameter)
	}
	if math.IsNaN(p.R) || p.R <= 0 || p.R > 1 {
		return fmt.Errorf("spectrum: pcen r must be in (0, 1]: %g: %w", p.R, core.ErrInvalidParameter)
	}
	if math.IsNaN(p.Delta) || math.IsInf(p.Delta, 0) || p.Delta < 0 {
		return fmt.Errorf("spectrum: pcen delta must be >= 0: %g: %w", p.Delta, core.ErrInvalidParameter)
	}
	return nil
}

// Smooth returns the per-bin exponential moving average over frames:
// M[0] = S[0], M[t] = (1-s)*M[t-1] + s*S[t].
func Smooth(s Spectrogram, coef float64) (Spectrogram, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(coef) || coef <= 0 || coef >= 1 {
		return nil, fmt.Errorf("spectrum: smoothing coefficient must be in (0, 1): %g: %w", coef, core.ErrInvalidParameter)
	}

	out := NewSpectrogram(s.Bins(), s.Frames())
	for b, row := range s {
		if len(row) == 0 {
			continue
		}
		m := row[0]
		out[b][0] = m
		for f := 1; f < len(row); f++ {
			m = (1-coef)*m + coef*row[f]
			out[b][f] = m
		}
	}
	return out, nil
}

// PCEN applies per-channel energy normalization to a non-negative
// spectrogram: (S/(eps+M)^alpha + delta)^r - delta^r with M from Smooth.
func PCEN(s Spectrogram, p PCENParams) (Spectrogram, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.validateMagnitudes(); err != nil {
		return nil, err
	}
	m, err := Smooth(s, p.S)
	if err != nil {
		return nil, err
	}

	bias := math.Pow(p.Delta, p.R)
	for b, row := range s {
		dst := m[b]
		for f, v := range row {
			agc := v / math.Pow(p.Eps+dst[f], p.Alpha)
			dst[f] = math.Pow(agc+p.Delta, p.R) - bias
		}
	}
	return m, nil
}
