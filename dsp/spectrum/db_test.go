package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

func TestPowerToDB(t *testing.T) {
	s := Spectrogram{{1, 0.1, 0.01}}
	got, err := PowerToDB(s, RefMax, DefaultPowerAMin, DefaultTopDB)
	if err != nil {
		t.Fatalf("PowerToDB() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got[0], []float64{0, -10, -20}, 1e-9)

	got, err = PowerToDB(s, RefMax, DefaultPowerAMin, 15)
	if err != nil {
		t.Fatalf("PowerToDB() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got[0], []float64{0, -10, -15}, 1e-9)

	got, err = PowerToDB(s, 0.1, DefaultPowerAMin, math.Inf(1))
	if err != nil {
		t.Fatalf("PowerToDB() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got[0], []float64{10, 0, -10}, 1e-9)
}

func TestPowerToDBSilence(t *testing.T) {
	got, err := PowerToDB(NewSpectrogram(2, 3), RefMax, DefaultPowerAMin, DefaultTopDB)
	if err != nil {
		t.Fatalf("PowerToDB() error = %v", err)
	}
	for _, row := range got {
		testutil.RequireSliceNearlyEqual(t, row, []float64{0, 0, 0}, 0)
	}
}

func TestAmplitudeToDB(t *testing.T) {
	s := Spectrogram{{2, 0.2}, {0.02, 0}}
	got, err := AmplitudeToDB(s, RefMax, DefaultAmplitudeAMin, DefaultTopDB)
	if err != nil {
		t.Fatalf("AmplitudeToDB() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got[0], []float64{0, -20}, 1e-9)
	testutil.RequireSliceNearlyEqual(t, got[1], []float64{-40, -80}, 1e-9)
}

func TestDBInvalid(t *testing.T) {
	s := Spectrogram{{1, 2}}
	if _, err := PowerToDB(s, RefMax, 0, 80); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("PowerToDB(amin=0) error = %v, want ErrInvalidParameter", err)
	}
	if _, err := AmplitudeToDB(s, RefMax, -1, 80); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("AmplitudeToDB(amin=-1) error = %v, want ErrInvalidParameter", err)
	}
	if _, err := PowerToDB(s, RefMax, 1e-10, -5); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("PowerToDB(top_db=-5) error = %v, want ErrInvalidParameter", err)
	}
	if _, err := PowerToDB(Spectrogram{{1, 2}, {3}}, RefMax, 1e-10, 80); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("PowerToDB(ragged) error = %v, want ErrInvalidParameter", err)
	}
}
