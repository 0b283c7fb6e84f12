package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// FadeIn returns a raised half-cosine ramp of n points,
// 0.5*(1 - cos(pi*i/(n-1))), rising from exactly 0 to exactly 1.
// A single-point ramp is {0}.
func FadeIn(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		return out
	}
	den := float64(n - 1)
	for i := range out {
		out[i] = 0.5 * (1 - math.Cos(math.Pi*float64(i)/den))
	}
	out[n-1] = 1
	return out
}

// FadeOut returns the time reverse of [FadeIn].
func FadeOut(n int) []float64 {
	out := FadeIn(n)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ApplyFades multiplies the first n samples of buf by [FadeIn] and the last n
// samples by [FadeOut], in place. n must not exceed len(buf)/2.
func ApplyFades(buf []float64, n int) error {
	if n < 0 {
		return fmt.Errorf("window: fade length must be >= 0: %d: %w", n, core.ErrInvalidParameter)
	}
	if n > len(buf)/2 {
		return fmt.Errorf("window: fade length %d exceeds half the buffer (%d): %w", n, len(buf)/2, core.ErrInvalidParameter)
	}
	if n == 0 {
		return nil
	}

	vecmath.MulBlockInPlace(buf[:n], FadeIn(n))
	vecmath.MulBlockInPlace(buf[len(buf)-n:], FadeOut(n))
	return nil
}
