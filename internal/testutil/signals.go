package testutil

import (
	"math"
	"math/rand/v2"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicGaussian generates zero-mean Gaussian noise with a fixed seed.
func DeterministicGaussian(seed uint64, std float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewPCG(seed, 0))
	for i := range out {
		out[i] = std * rng.NormFloat64()
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// RisingZeroCrossings returns the fractional sample positions where the
// signal goes from negative to non-negative, linearly interpolated between
// the bracketing samples.
func RisingZeroCrossings(x []float64) []float64 {
	var out []float64
	for i := 1; i < len(x); i++ {
		a, b := x[i-1], x[i]
		if a < 0 && b >= 0 {
			out = append(out, float64(i-1)+a/(a-b))
		}
	}
	return out
}

// Variance returns the population variance of x.
func Variance(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	acc := 0.0
	for _, v := range x {
		d := v - mean
		acc += d * d
	}
	return acc / float64(len(x))
}
