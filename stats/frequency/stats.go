// Package frequency computes spectral shape descriptors from one-sided
// magnitude spectra and spectrogram frames.
package frequency

import (
	"math"
	"math/cmplx"
)

// DefaultRolloff is the energy fraction used by [Calculate] for the rolloff.
const DefaultRolloff = 0.85

// Stats holds spectral shape descriptors of a magnitude spectrum.
// Frequencies are in Hz.
type Stats struct {
	BinCount  int     `yaml:"bins"`
	PeakBin   int     `yaml:"peak_bin"`
	PeakFreq  float64 `yaml:"peak_hz"`
	Energy    float64 `yaml:"energy"` // sum of squared magnitudes
	Centroid  float64 `yaml:"centroid_hz"`
	Spread    float64 `yaml:"spread_hz"`
	Flatness  float64 `yaml:"flatness"` // Wiener entropy, 0..1
	Rolloff   float64 `yaml:"rolloff_hz"`
	Bandwidth float64 `yaml:"bandwidth_hz"` // -3 dB around the peak
}

// binFreq returns the frequency in Hz of a given bin index.
// fftSize = 2 * (len(magnitude) - 1).
func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*(binCount-1))
}

// Calculate computes all descriptors from a linear magnitude spectrum.
//
// The magnitude slice holds bins from 0 (DC) to Nyquist, so bin i sits at
//
//	f_i = i * sampleRate / (2 * (len(magnitude) - 1))
func Calculate(magnitude []float64, sampleRate float64) Stats {
	n := len(magnitude)

	var s Stats
	s.BinCount = n
	if n < 2 {
		if n == 1 {
			s.Energy = magnitude[0] * magnitude[0]
		}

		return s
	}

	sum := 0.0
	peak := magnitude[0]
	for i, v := range magnitude {
		sum += v
		s.Energy += v * v
		if v > peak {
			peak = v
			s.PeakBin = i
		}
	}

	s.PeakFreq = binFreq(s.PeakBin, sampleRate, n)
	s.Centroid = centroid(magnitude, sampleRate, sum)
	s.Spread = spread(magnitude, sampleRate, s.Centroid, sum)
	s.Flatness = flatness(magnitude)
	s.Rolloff = rolloff(magnitude, sampleRate, DefaultRolloff, s.Energy)
	s.Bandwidth = bandwidth(magnitude, sampleRate)

	return s
}

// CalculateFromComplex converts a complex spectrum to magnitude and
// delegates to [Calculate].
func CalculateFromComplex(spectrum []complex128, sampleRate float64) Stats {
	mag := make([]float64, len(spectrum))
	for i, c := range spectrum {
		mag[i] = cmplx.Abs(c)
	}

	return Calculate(mag, sampleRate)
}

// Summary averages frame descriptors over a spectrogram.
type Summary struct {
	Frames       int     `yaml:"frames"`
	Centroid     float64 `yaml:"centroid_hz"`
	CentroidStd  float64 `yaml:"centroid_std_hz"`
	Spread       float64 `yaml:"spread_hz"`
	Flatness     float64 `yaml:"flatness"`
	Rolloff      float64 `yaml:"rolloff_hz"`
	Bandwidth    float64 `yaml:"bandwidth_hz"`
	SilentFrames int     `yaml:"silent_frames"`
}

// Summarize computes [Stats] for every frame of a magnitude spectrogram
// indexed [bin][frame] and averages them. Frames without energy are
// counted in SilentFrames and left out of the means.
func Summarize(spectrogram [][]float64, sampleRate float64) Summary {
	if len(spectrogram) == 0 || len(spectrogram[0]) == 0 {
		return Summary{}
	}

	bins := len(spectrogram)
	frames := len(spectrogram[0])
	frame := make([]float64, bins)

	sum := Summary{Frames: frames}
	var centroids []float64
	for f := range frames {
		for b := range bins {
			frame[b] = spectrogram[b][f]
		}

		st := Calculate(frame, sampleRate)
		if st.Energy == 0 {
			sum.SilentFrames++
			continue
		}

		centroids = append(centroids, st.Centroid)
		sum.Centroid += st.Centroid
		sum.Spread += st.Spread
		sum.Flatness += st.Flatness
		sum.Rolloff += st.Rolloff
		sum.Bandwidth += st.Bandwidth
	}

	active := float64(len(centroids))
	if active == 0 {
		return sum
	}

	sum.Centroid /= active
	sum.Spread /= active
	sum.Flatness /= active
	sum.Rolloff /= active
	sum.Bandwidth /= active

	for _, c := range centroids {
		d := c - sum.Centroid
		sum.CentroidStd += d * d
	}
	sum.CentroidStd = math.Sqrt(sum.CentroidStd / active)

	return sum
}

// Centroid returns the spectral centroid in Hz.
//
//	centroid = sum(f_i * |X_i|) / sum(|X_i|)
func Centroid(magnitude []float64, sampleRate float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range magnitude {
		sum += v
	}
	return centroid(magnitude, sampleRate, sum)
}

func centroid(magnitude []float64, sampleRate float64, sumMag float64) float64 {
	n := len(magnitude)
	if n < 2 || sumMag == 0 {
		return 0
	}
	weightedSum := 0.0
	for i, v := range magnitude {
		weightedSum += binFreq(i, sampleRate, n) * v
	}
	return weightedSum / sumMag
}

// spread computes spectral spread (standard deviation of the spectrum around the centroid).
func spread(magnitude []float64, sampleRate float64, cent float64, sumMag float64) float64 {
	n := len(magnitude)
	if n < 2 || sumMag == 0 {
		return 0
	}
	weightedSqSum := 0.0
	for i, v := range magnitude {
		diff := binFreq(i, sampleRate, n) - cent
		weightedSqSum += diff * diff * v
	}
	return math.Sqrt(weightedSqSum / sumMag)
}

// Flatness returns the spectral flatness (Wiener entropy) in the range 0..1.
//
// Flatness = exp(mean(log(|X_i|))) / mean(|X_i|)
//
// DC bin (index 0) is excluded from the computation. If all considered bins
// are zero, 0 is returned.
func Flatness(magnitude []float64) float64 {
	return flatness(magnitude)
}

func flatness(magnitude []float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	// Operate on bins 1..N-1 (skip DC bin 0).
	nBins := n - 1
	sumLin := 0.0
	sumLog := 0.0
	hasZero := false

	for i := 1; i < n; i++ {
		v := magnitude[i]
		sumLin += v
		if v > 0 {
			sumLog += math.Log(v)
		} else {
			hasZero = true
		}
	}

	meanLin := sumLin / float64(nBins)
	if meanLin == 0 {
		return 0
	}

	// If any bin is zero the geometric mean is zero, so flatness is zero.
	if hasZero {
		return 0
	}

	meanLog := sumLog / float64(nBins)
	geoMean := math.Exp(meanLog)

	return geoMean / meanLin
}

// Rolloff returns the frequency below which the specified fraction (0..1) of
// spectral energy lies.
//
// Energy is defined as the sum of squared magnitudes. A typical value for
// percent is 0.85.
func Rolloff(magnitude []float64, sampleRate float64, percent float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}
	energy := 0.0
	for _, v := range magnitude {
		energy += v * v
	}
	return rolloff(magnitude, sampleRate, percent, energy)
}

func rolloff(magnitude []float64, sampleRate float64, percent float64, totalEnergy float64) float64 {
	n := len(magnitude)
	if n < 2 || totalEnergy == 0 {
		return 0
	}
	threshold := percent * totalEnergy
	cumEnergy := 0.0
	for i, v := range magnitude {
		cumEnergy += v * v
		if cumEnergy >= threshold {
			return binFreq(i, sampleRate, n)
		}
	}
	return binFreq(n-1, sampleRate, n)
}

// Bandwidth returns the 3 dB bandwidth around the spectral peak in Hz.
//
// The peak bin is found, and then the -3 dB points (where magnitude drops to
// peak/sqrt(2)) are located on both sides. Linear interpolation between bins
// is used for more precise estimation.
func Bandwidth(magnitude []float64, sampleRate float64) float64 {
	return bandwidth(magnitude, sampleRate)
}

func bandwidth(magnitude []float64, sampleRate float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	// Find peak.
	peakBin := 0
	peakVal := magnitude[0]
	for i, v := range magnitude {
		if v > peakVal {
			peakVal = v
			peakBin = i
		}
	}
	if peakVal == 0 {
		return 0
	}

	threshold := peakVal / math.Sqrt2

	// Find lower -3 dB point (search left from peak).
	lowerFreq := binFreq(0, sampleRate, n)
	for i := peakBin; i >= 1; i-- {
		if magnitude[i-1] <= threshold && magnitude[i] > threshold {
			// Interpolate between bins i-1 and i.
			lowerFreq = interpFreq(i-1, i, magnitude[i-1], magnitude[i], threshold, sampleRate, n)
			break
		}
	}

	// Find upper -3 dB point (search right from peak).
	upperFreq := binFreq(n-1, sampleRate, n)
	for i := peakBin; i < n-1; i++ {
		if magnitude[i+1] <= threshold && magnitude[i] > threshold {
			// Interpolate between bins i and i+1.
			upperFreq = interpFreq(i, i+1, magnitude[i], magnitude[i+1], threshold, sampleRate, n)
			break
		}
	}

	bw := upperFreq - lowerFreq
	if bw < 0 {
		return 0
	}
	return bw
}

// interpFreq linearly interpolates between two bins to find the frequency
// where the magnitude crosses the given threshold.
func interpFreq(binLow, binHigh int, magLow, magHigh, threshold, sampleRate float64, binCount int) float64 {
	fLow := binFreq(binLow, sampleRate, binCount)
	fHigh := binFreq(binHigh, sampleRate, binCount)

	denom := magHigh - magLow
	if denom == 0 {
		return (fLow + fHigh) / 2
	}
	t := (threshold - magLow) / denom
	return fLow + t*(fHigh-fLow)
}
