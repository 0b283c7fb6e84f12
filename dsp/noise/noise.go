package noise

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/stat"
)

// White returns signal plus i.i.d. zero-mean Gaussian noise with standard
// deviation std. std == 0 returns an unchanged copy.
func White(signal []float64, std float64, opts ...Option) ([]float64, error) {
	if math.IsNaN(std) || math.IsInf(std, 0) || std < 0 {
		return nil, fmt.Errorf("noise: standard deviation must be >= 0: %f: %w", std, core.ErrInvalidParameter)
	}
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	out := append([]float64(nil), signal...)
	if std == 0 || len(out) == 0 {
		return out, nil
	}

	n := gaussian(cfg.rng, len(out))
	vecmath.ScaleBlock(n, n, std)
	vecmath.AddBlockInPlace(out, n)
	return out, nil
}

// Brown returns signal plus variance-normalized brown noise derived from
// standard-normal white noise.
func Brown(signal []float64, opts ...Option) ([]float64, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	out := append([]float64(nil), signal...)
	if len(out) == 0 {
		return out, nil
	}

	n, err := BrownNoise(len(out), cfg.pole, cfg.rng)
	if err != nil {
		return nil, err
	}
	vecmath.AddBlockInPlace(out, n)
	return out, nil
}

// BrownNoise returns n samples of brown noise whose variance equals the
// variance of the white noise that fed the integrator.
func BrownNoise(n int, pole float64, rng *rand.Rand) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("noise: length must be >= 0: %d: %w", n, core.ErrInvalidParameter)
	}
	if err := WithPole(pole)(&config{}); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("noise: random source must not be nil: %w", core.ErrInvalidParameter)
	}

	white := gaussian(rng, n)
	brown := Integrate(white, pole)
	if n < 2 {
		return brown, nil
	}

	vw := stat.Variance(white, nil)
	vb := stat.Variance(brown, nil)
	if vb == 0 {
		return brown, nil
	}
	vecmath.ScaleBlock(brown, brown, math.Sqrt(vw/vb))
	return brown, nil
}

// Integrate runs x through y[n] = x[n] + pole*y[n-1] with y[-1] = 0.
func Integrate(x []float64, pole float64) []float64 {
	y := make([]float64, len(x))
	prev := 0.0
	for i, v := range x {
		prev = v + pole*prev
		y[i] = prev
	}
	return y
}

func gaussian(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64()
	}
	return out
}
