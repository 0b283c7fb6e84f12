package interp

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// Mode selects the interpolation method.
type Mode int

const (
	ModeLinear Mode = iota
	ModeCubic
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeCubic:
		return "cubic"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeLinear || m == ModeCubic
}

// ParseMode maps "linear" or "cubic" to its Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "linear":
		return ModeLinear, nil
	case "cubic":
		return ModeCubic, nil
	default:
		return 0, fmt.Errorf("interp: unknown mode %q: %w", name, core.ErrInvalidParameter)
	}
}

// Linear2 interpolates between x0 (t=0) and x1 (t=1).
func Linear2(t, x0, x1 float64) float64 {
	return (1-t)*x0 + t*x1
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// Periodic reads table at fractional index, treating the table as one period
// of a periodic sequence: all neighbour indices are taken modulo len(table).
// index is expected in [0, len(table)); values outside are wrapped.
func Periodic(table []float64, index float64, mode Mode) float64 {
	n := len(table)
	if n == 0 {
		return 0
	}
	fl := math.Floor(index)
	frac := index - fl
	i0 := wrap(int(fl), n)
	i1 := wrap(i0+1, n)

	if mode == ModeCubic {
		return Hermite4(frac, table[wrap(i0-1, n)], table[i0], table[i1], table[wrap(i0+2, n)])
	}
	return Linear2(frac, table[i0], table[i1])
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
