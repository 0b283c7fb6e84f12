package signal

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

func TestNewWaveGeneratorLength(t *testing.T) {
	g, err := NewWaveGenerator(0.5, 8000)
	if err != nil {
		t.Fatalf("NewWaveGenerator() error = %v", err)
	}
	if g.Len() != 4000 {
		t.Fatalf("Len() = %d, want 4000", g.Len())
	}
	for _, s := range [][]float64{g.Sine(100, 0), g.Square(100, 0), g.Saw(100, 0)} {
		if len(s) != 4000 {
			t.Fatalf("len = %d, want 4000", len(s))
		}
	}
}

func TestNewWaveGeneratorInvalid(t *testing.T) {
	tests := []struct {
		name       string
		duration   float64
		sampleRate float64
	}{
		{name: "zero duration", duration: 0, sampleRate: 8000},
		{name: "negative duration", duration: -1, sampleRate: 8000},
		{name: "zero rate", duration: 1, sampleRate: 0},
		{name: "negative rate", duration: 1, sampleRate: -44100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWaveGenerator(tt.duration, tt.sampleRate)
			if !errors.Is(err, core.ErrInvalidParameter) {
				t.Fatalf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestSinePeakMatchesGain(t *testing.T) {
	g, err := NewWaveGenerator(1, 8000)
	if err != nil {
		t.Fatalf("NewWaveGenerator() error = %v", err)
	}

	for _, gain := range []float64{0, -6, -20, 1} {
		// 1000 Hz at 8 kHz lands exactly on the crests.
		s := g.Sine(1000, gain)
		want := core.DBToLinear(gain)
		peak := 0.0
		for _, v := range s {
			peak = math.Max(peak, math.Abs(v))
		}
		if math.Abs(peak-want) > 1e-9 {
			t.Fatalf("gain %v: peak = %v, want %v", gain, peak, want)
		}
	}
}

func TestSinePeriodFromZeroCrossings(t *testing.T) {
	const (
		sampleRate = 8000.0
		freq       = 100.0
	)
	g, err := NewWaveGenerator(0.5, sampleRate)
	if err != nil {
		t.Fatalf("NewWaveGenerator() error = %v", err)
	}

	s := g.Sine(freq, -3)
	ups := testutil.RisingZeroCrossings(s)
	if len(ups) < 10 {
		t.Fatalf("found %d rising crossings, want >= 10", len(ups))
	}
	period := sampleRate / freq
	for i := 1; i < len(ups); i++ {
		if d := ups[i] - ups[i-1]; math.Abs(d-period) > 1e-6 {
			t.Fatalf("crossing spacing = %v, want %v", d, period)
		}
	}
}

func TestSquareOnlyTwoLevels(t *testing.T) {
	g, err := NewWaveGenerator(0.25, 44100)
	if err != nil {
		t.Fatalf("NewWaveGenerator() error = %v", err)
	}

	for _, gain := range []float64{0, -12.5, -60} {
		amp := core.DBToLinear(gain)
		for _, freq := range []float64{0, 441, 1234.5, 30000} {
			for i, v := range g.Square(freq, gain) {
				if v != amp && v != -amp {
					t.Fatalf("freq %v gain %v: s[%d] = %v, want +/-%v", freq, gain, i, v, amp)
				}
			}
		}
	}
}

func TestSquareZeroIsPositive(t *testing.T) {
	g, err := NewWaveGenerator(0.01, 8000)
	if err != nil {
		t.Fatalf("NewWaveGenerator() error = %v", err)
	}
	s := g.Square(440, 0)
	if s[0] != 1 {
		t.Fatalf("s[0] = %v, want 1", s[0])
	}
}

func TestSawIsLinearRamp(t *testing.T) {
	g, err := NewWaveGenerator(0.01, 8000)
	if err != nil {
		t.Fatalf("NewWaveGenerator() error = %v", err)
	}

	// 1000 Hz at 8 kHz: eight samples per period, ramp step 0.25.
	s := g.Saw(1000, 0)
	want := []float64{-1, -0.75, -0.5, -0.25, 0, 0.25, 0.5, 0.75, -1}
	testutil.RequireSliceNearlyEqual(t, s[:len(want)], want, 1e-9)
}

func TestSawGainAndRange(t *testing.T) {
	g, err := NewWaveGenerator(0.1, 44100)
	if err != nil {
		t.Fatalf("NewWaveGenerator() error = %v", err)
	}
	amp := core.DBToLinear(-6)
	for i, v := range g.Saw(333, -6) {
		if v < -amp-1e-12 || v >= amp {
			t.Fatalf("s[%d] = %v outside [-%v, %v)", i, v, amp, amp)
		}
	}
}

func TestWaveDispatch(t *testing.T) {
	g, err := NewWaveGenerator(0.01, 8000)
	if err != nil {
		t.Fatalf("NewWaveGenerator() error = %v", err)
	}
	for _, name := range []string{"sine", "square", "saw"} {
		k, err := ParseKind(name)
		if err != nil {
			t.Fatalf("ParseKind(%q) error = %v", name, err)
		}
		if k.String() != name {
			t.Fatalf("String() = %q, want %q", k.String(), name)
		}
		if _, err := g.Wave(k, 100, 0); err != nil {
			t.Fatalf("Wave(%v) error = %v", k, err)
		}
	}
	if _, err := ParseKind("triangle"); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("ParseKind(triangle) error = %v, want ErrInvalidParameter", err)
	}
	if _, err := g.Wave(Kind(9), 100, 0); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("Wave(9) error = %v, want ErrInvalidParameter", err)
	}
}
