package core

import (
	"fmt"
	"math"
)

// SampleCount returns floor(sampleRate*duration), the length of the
// half-open time grid [0, duration) sampled at sampleRate.
func SampleCount(sampleRate, duration float64) (int, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return 0, fmt.Errorf("core: sample rate must be > 0 and finite: %f: %w", sampleRate, ErrInvalidParameter)
	}
	if !(duration > 0) || math.IsInf(duration, 0) {
		return 0, fmt.Errorf("core: duration must be > 0 and finite: %f: %w", duration, ErrInvalidParameter)
	}
	return int(math.Floor(sampleRate * duration)), nil
}

// TimeGrid returns the timestamps t[i] = i/sampleRate for i in [0, n).
func TimeGrid(sampleRate float64, n int) []float64 {
	if n <= 0 || sampleRate <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / sampleRate
	}
	return out
}
