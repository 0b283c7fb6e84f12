package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// Slaney mel scale: linear below 1 kHz, logarithmic above.
const (
	melFSp       = 200.0 / 3
	melMinLogHz  = 1000.0
	melMinLogMel = melMinLogHz / melFSp
)

var melLogStep = math.Log(6.4) / 27

// HzToMel converts a frequency in Hz to the Slaney mel scale.
func HzToMel(hz float64) float64 {
	if hz >= melMinLogHz {
		return melMinLogMel + math.Log(hz/melMinLogHz)/melLogStep
	}
	return hz / melFSp
}

// MelToHz is the inverse of HzToMel.
func MelToHz(mel float64) float64 {
	if mel >= melMinLogMel {
		return melMinLogHz * math.Exp(melLogStep*(mel-melMinLogMel))
	}
	return melFSp * mel
}

// MelFrequencies returns n frequencies in Hz evenly spaced on the mel scale
// from fmin to fmax inclusive.
func MelFrequencies(n int, fmin, fmax float64) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	lo, hi := HzToMel(fmin), HzToMel(fmax)
	if n == 1 {
		out[0] = MelToHz(lo)
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = MelToHz(lo + step*float64(i))
	}
	return out
}

// MelFilterBank returns nMels triangular filters over the 1 + nFFT/2 STFT
// bins, indexed [mel][bin]. Each filter is area-normalized (Slaney).
func MelFilterBank(sampleRate float64, nFFT, nMels int, fmin, fmax float64) ([][]float64, error) {
	switch {
	case !(sampleRate > 0) || math.IsInf(sampleRate, 0):
		return nil, fmt.Errorf("spectrum: sample rate must be > 0: %f: %w", sampleRate, core.ErrInvalidParameter)
	case nFFT <= 0:
		return nil, fmt.Errorf("spectrum: n_fft must be > 0: %d: %w", nFFT, core.ErrInvalidParameter)
	case nMels <= 0:
		return nil, fmt.Errorf("spectrum: n_mels must be > 0: %d: %w", nMels, core.ErrInvalidParameter)
	case math.IsNaN(fmin) || fmin < 0:
		return nil, fmt.Errorf("spectrum: fmin must be >= 0: %f: %w", fmin, core.ErrInvalidParameter)
	case math.IsNaN(fmax) || math.IsInf(fmax, 0) || fmax <= fmin:
		return nil, fmt.Errorf("spectrum: fmax must exceed fmin: %f <= %f: %w", fmax, fmin, core.ErrInvalidParameter)
	}

	bins := 1 + nFFT/2
	fftFreqs := make([]float64, bins)
	for k := range fftFreqs {
		fftFreqs[k] = float64(k) * sampleRate / float64(nFFT)
	}

	melF := MelFrequencies(nMels+2, fmin, fmax)
	weights := make([][]float64, nMels)
	for m := range weights {
		row := make([]float64, bins)
		lowerW := melF[m+1] - melF[m]
		upperW := melF[m+2] - melF[m+1]
		enorm := 2 / (melF[m+2] - melF[m])
		for k, f := range fftFreqs {
			lower := (f - melF[m]) / lowerW
			upper := (melF[m+2] - f) / upperW
			if w := math.Min(lower, upper); w > 0 {
				row[k] = w * enorm
			}
		}
		weights[m] = row
	}
	return weights, nil
}

// MelOptions parameterizes MelPowerSpectrogram.
type MelOptions struct {
	// NMels is the number of mel bands.
	NMels int
	// Power is the exponent applied to the STFT magnitude: 1 for
	// amplitude, 2 for power.
	Power float64
	// FMin is the lowest filter edge in Hz.
	FMin float64
	// FMax is the highest filter edge in Hz; 0 selects Nyquist.
	FMax float64
	// Log converts the result to decibels relative to its maximum.
	Log bool
	// TopDB bounds the dynamic range of the log output; 0 selects DefaultTopDB.
	TopDB float64
}

// DefaultMelOptions returns 128 bands of linear power from 0 Hz to Nyquist.
func DefaultMelOptions() MelOptions {
	return MelOptions{NMels: 128, Power: 2}
}

// MelPowerSpectrogram weights |STFT|^Power by a mel filter bank. With Log
// set the output is in dB re the maximum: PowerToDB for Power 2 and
// AmplitudeToDB for Power 1. Other exponents are treated as power.
func (e *Extractor) MelPowerSpectrogram(signal []float64, opts MelOptions) (Spectrogram, error) {
	if math.IsNaN(opts.Power) || opts.Power <= 0 {
		return nil, fmt.Errorf("spectrum: power must be > 0: %f: %w", opts.Power, core.ErrInvalidParameter)
	}
	fmax := opts.FMax
	if fmax == 0 {
		fmax = e.sampleRate / 2
	}
	fb, err := MelFilterBank(e.sampleRate, e.nFFT, opts.NMels, opts.FMin, fmax)
	if err != nil {
		return nil, err
	}
	topDB := opts.TopDB
	if topDB == 0 {
		topDB = DefaultTopDB
	}
	if opts.Log && (math.IsNaN(topDB) || topDB < 0) {
		return nil, fmt.Errorf("spectrum: top_db must be > 0: %f: %w", topDB, core.ErrInvalidParameter)
	}

	mag, err := e.STFTMagnitude(signal)
	if err != nil {
		return nil, err
	}
	if opts.Power != 1 {
		for _, row := range mag {
			for f, v := range row {
				row[f] = math.Pow(v, opts.Power)
			}
		}
	}

	mel := ApplyFilterBank(fb, mag)
	if !opts.Log {
		return mel, nil
	}
	if opts.Power == 1 {
		return AmplitudeToDB(mel, RefMax, DefaultAmplitudeAMin, topDB)
	}
	return PowerToDB(mel, RefMax, DefaultPowerAMin, topDB)
}

// ApplyFilterBank returns fb x s, indexed [filter][frame].
func ApplyFilterBank(fb [][]float64, s Spectrogram) Spectrogram {
	out := NewSpectrogram(len(fb), s.Frames())
	for m, weights := range fb {
		dst := out[m]
		for b, w := range weights {
			if w == 0 || b >= len(s) {
				continue
			}
			for f, v := range s[b] {
				dst[f] += w * v
			}
		}
	}
	return out
}
