package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Mix returns the elementwise sum of equally long signals. Inputs are not
// modified.
func Mix(signals ...[]float64) ([]float64, error) {
	if len(signals) == 0 {
		return nil, fmt.Errorf("signal: mix requires at least one signal: %w", core.ErrInvalidParameter)
	}
	n := len(signals[0])
	for i, s := range signals[1:] {
		if len(s) != n {
			return nil, fmt.Errorf("signal: mix length mismatch at %d: %d != %d: %w", i+1, len(s), n, core.ErrInvalidParameter)
		}
	}

	out := make([]float64, n)
	copy(out, signals[0])
	for _, s := range signals[1:] {
		vecmath.AddBlockInPlace(out, s)
	}
	return out, nil
}

// Gain scales data by 10^(gainDB/20) and returns a new slice.
func Gain(data []float64, gainDB float64) []float64 {
	out := make([]float64, len(data))
	vecmath.ScaleBlock(out, data, core.DBToLinear(gainDB))
	return out
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("signal: normalize target peak must be >= 0: %f: %w", targetPeak, core.ErrInvalidParameter)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("signal: normalize input must not be empty: %w", core.ErrInvalidParameter)
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	vecmath.ScaleBlock(out, data, targetPeak/maxAbs)
	return out, nil
}
