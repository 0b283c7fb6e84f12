package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

const (
	// RefMax references decibel conversion to the spectrogram maximum.
	RefMax = 0.0
	// DefaultTopDB is the default dynamic range below the peak, in dB.
	DefaultTopDB = 80.0
	// DefaultPowerAMin is the smallest power taken into the logarithm.
	DefaultPowerAMin = 1e-10
	// DefaultAmplitudeAMin is the smallest amplitude taken into the logarithm.
	DefaultAmplitudeAMin = 1e-5
)

// PowerToDB returns 10*log10(max(amin, S)) - 10*log10(max(amin, ref)),
// floored at the output maximum minus topDB. ref <= 0 selects the maximum
// of s. topDB == +Inf disables the floor.
func PowerToDB(s Spectrogram, ref, amin, topDB float64) (Spectrogram, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if !(amin > 0) {
		return nil, fmt.Errorf("spectrum: amin must be > 0: %f: %w", amin, core.ErrInvalidParameter)
	}
	if math.IsNaN(topDB) || topDB < 0 {
		return nil, fmt.Errorf("spectrum: top_db must be >= 0: %f: %w", topDB, core.ErrInvalidParameter)
	}
	if math.IsNaN(ref) || ref <= 0 {
		ref = s.Max()
	}

	offset := 10 * math.Log10(math.Max(amin, ref))
	out := NewSpectrogram(s.Bins(), s.Frames())
	peak := math.Inf(-1)
	for b, row := range s {
		for f, v := range row {
			d := 10*math.Log10(math.Max(amin, v)) - offset
			out[b][f] = d
			peak = math.Max(peak, d)
		}
	}

	if math.IsInf(topDB, 1) {
		return out, nil
	}
	floor := peak - topDB
	for _, row := range out {
		for f, v := range row {
			if v < floor {
				row[f] = floor
			}
		}
	}
	return out, nil
}

// AmplitudeToDB is PowerToDB applied to s^2 with ref^2 and amin^2, giving
// 20*log10 of amplitudes.
func AmplitudeToDB(s Spectrogram, ref, amin, topDB float64) (Spectrogram, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if !(amin > 0) {
		return nil, fmt.Errorf("spectrum: amin must be > 0: %f: %w", amin, core.ErrInvalidParameter)
	}
	if math.IsNaN(ref) || ref <= 0 {
		ref = s.Max()
	}

	sq := NewSpectrogram(s.Bins(), s.Frames())
	for b, row := range s {
		for f, v := range row {
			sq[b][f] = v * v
		}
	}
	return PowerToDB(sq, ref*ref, amin*amin, topDB)
}
