package wavetable

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/interp"
)

// DefaultLength is the customary table size.
const DefaultLength = 64

// BasisFunc is a 2*pi-periodic function of phase in radians.
type BasisFunc func(phase float64) float64

// Sine is the sine basis.
func Sine(phase float64) float64 { return math.Sin(phase) }

// Sawtooth rises linearly from -1 at phase -pi to +1 at phase +pi, so it
// crosses zero at phase 0.
func Sawtooth(phase float64) float64 {
	return core.Mod((phase+math.Pi)/math.Pi, 2) - 1
}

// Square is +1 on [0, pi) and -1 on [pi, 2*pi).
func Square(phase float64) float64 {
	if core.Mod(phase, 2*math.Pi) < math.Pi {
		return 1
	}
	return -1
}

// Triangle peaks at +1 for phase pi/2 and -1 for phase 3*pi/2.
func Triangle(phase float64) float64 {
	x := core.Mod(phase/(2*math.Pi), 1)
	switch {
	case x < 0.25:
		return 4 * x
	case x < 0.75:
		return 2 - 4*x
	default:
		return 4*x - 4
	}
}

var basisByName = map[string]BasisFunc{
	"sine":     Sine,
	"sawtooth": Sawtooth,
	"square":   Square,
	"triangle": Triangle,
}

// Basis looks up a named basis function: sine, sawtooth, square or triangle.
func Basis(name string) (BasisFunc, error) {
	fn, ok := basisByName[name]
	if !ok {
		return nil, fmt.Errorf("wavetable: unknown basis %q: %w", name, core.ErrInvalidParameter)
	}
	return fn, nil
}

// Table holds one period of a periodic function.
type Table struct {
	samples []float64
}

// NewTable samples fn at length evenly spaced phases over one period.
func NewTable(fn BasisFunc, length int) (*Table, error) {
	if fn == nil {
		return nil, fmt.Errorf("wavetable: basis function must not be nil: %w", core.ErrInvalidParameter)
	}
	if length <= 0 {
		return nil, fmt.Errorf("wavetable: table length must be > 0: %d: %w", length, core.ErrInvalidParameter)
	}
	s := make([]float64, length)
	for n := range s {
		s[n] = fn(2 * math.Pi * float64(n) / float64(length))
	}
	return &Table{samples: s}, nil
}

// FromSamples wraps a copy of one period of samples as a Table.
func FromSamples(samples []float64) (*Table, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("wavetable: table must not be empty: %w", core.ErrInvalidParameter)
	}
	return &Table{samples: append([]float64(nil), samples...)}, nil
}

// Len returns the table length L.
func (t *Table) Len() int { return len(t.samples) }

// Samples returns a copy of the table contents.
func (t *Table) Samples() []float64 {
	return append([]float64(nil), t.samples...)
}

// At reads the table at fractional index using linear interpolation between
// floor(index) and floor(index)+1 modulo L.
func (t *Table) At(index float64) float64 {
	return interp.Periodic(t.samples, index, interp.ModeLinear)
}

// LinearInterpolate reads table at fractional index in [0, len(table)):
// (1-frac)*table[i0] + frac*table[(i0+1) mod L] with i0 = floor(index).
func LinearInterpolate(table []float64, index float64) float64 {
	return interp.Periodic(table, index, interp.ModeLinear)
}
