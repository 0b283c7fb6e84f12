// Package time summarizes the level of a rendered signal in the time domain.
package time

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// Stats holds the level summary of a mono signal.
//
// dB fields are relative to full scale (1.0) and are -Inf for silence.
type Stats struct {
	Length         int     `yaml:"length"`
	DC             float64 `yaml:"dc"`
	RMS            float64 `yaml:"rms"`
	RMSdB          float64 `yaml:"rms_db"`
	Peak           float64 `yaml:"peak"`
	PeakdB         float64 `yaml:"peak_db"`
	PeakPos        int     `yaml:"peak_pos"`
	CrestFactor    float64 `yaml:"crest_factor"`
	CrestFactordB  float64 `yaml:"crest_factor_db"`
	Variance       float64 `yaml:"variance"`
	ZeroCrossings  int     `yaml:"zero_crossings"`
	ClippedSamples int     `yaml:"clipped_samples"` // |x| > 1
}

func ampTodB(value float64) float64 {
	return core.LinearToDB(math.Abs(value))
}

func emptyStats() Stats {
	return Stats{
		RMSdB:         math.Inf(-1),
		PeakdB:        math.Inf(-1),
		CrestFactordB: math.Inf(-1),
	}
}

// Calculate computes the summary in a single pass. Mean and variance use
// Welford's update.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return emptyStats()
	}

	var (
		mean, m2 float64
		sumSq    float64
		peak     float64
		peakPos  int
		zc       int
		clipped  int
		lastSign int
	)

	for i, x := range signal {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)

		sumSq += x * x

		if a := math.Abs(x); a > peak {
			peak = a
			peakPos = i
		}

		if math.Abs(x) > 1 {
			clipped++
		}

		// Zero samples keep the previous sign, so -1, 0, 1 is one crossing.
		if sign := signOf(x); sign != 0 {
			if lastSign != 0 && sign != lastSign {
				zc++
			}
			lastSign = sign
		}
	}

	s := Stats{
		Length:         n,
		DC:             mean,
		RMS:            math.Sqrt(sumSq / float64(n)),
		Peak:           peak,
		PeakPos:        peakPos,
		Variance:       m2 / float64(n),
		ZeroCrossings:  zc,
		ClippedSamples: clipped,
	}
	s.RMSdB = ampTodB(s.RMS)
	s.PeakdB = ampTodB(s.Peak)

	if s.RMS > 0 {
		s.CrestFactor = s.Peak / s.RMS
		s.CrestFactordB = ampTodB(s.CrestFactor)
	} else {
		s.CrestFactordB = math.Inf(-1)
	}

	return s
}

func signOf(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
