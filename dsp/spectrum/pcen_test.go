package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

func constantSpectrogram(bins, frames int, v float64) Spectrogram {
	s := NewSpectrogram(bins, frames)
	for _, row := range s {
		for f := range row {
			row[f] = v
		}
	}
	return s
}

func TestSmoothConstantConverges(t *testing.T) {
	s := constantSpectrogram(4, 200, 3.5)
	for _, coef := range []float64{0.00025, 0.1, 0.5, 0.99} {
		m, err := Smooth(s, coef)
		if err != nil {
			t.Fatalf("Smooth(%v) error = %v", coef, err)
		}
		for b, row := range m {
			for f := 5; f < len(row); f++ {
				if math.Abs(row[f]-3.5) > 1e-12 {
					t.Fatalf("s=%v: M[%d][%d] = %v, want 3.5", coef, b, f, row[f])
				}
			}
		}
	}
}

func TestSmoothRecurrence(t *testing.T) {
	s := Spectrogram{{1, 3, 5}, {0, 0, 8}}
	m, err := Smooth(s, 0.5)
	if err != nil {
		t.Fatalf("Smooth() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, m[0], []float64{1, 2, 3.5}, 1e-15)
	testutil.RequireSliceNearlyEqual(t, m[1], []float64{0, 0, 4}, 1e-15)
}

func TestPCENHandComputed(t *testing.T) {
	s := Spectrogram{{1, 3}}
	p := PCENParams{Alpha: 1, Delta: 0, R: 1, S: 0.5, Eps: 1e-5}
	got, err := PCEN(s, p)
	if err != nil {
		t.Fatalf("PCEN() error = %v", err)
	}
	want := []float64{1 / (1 + 1e-5), 3 / (2 + 1e-5)}
	testutil.RequireSliceNearlyEqual(t, got[0], want, 1e-12)

	if s[0][0] != 1 || s[0][1] != 3 {
		t.Fatalf("PCEN() modified its input: %v", s)
	}
}

func TestPCENConstantInput(t *testing.T) {
	p := DefaultPCENParams()
	s := constantSpectrogram(3, 50, 2)
	got, err := PCEN(s, p)
	if err != nil {
		t.Fatalf("PCEN() error = %v", err)
	}
	agc := 2 / math.Pow(p.Eps+2, p.Alpha)
	want := math.Pow(agc+p.Delta, p.R) - math.Pow(p.Delta, p.R)
	for _, row := range got {
		for f, v := range row {
			if math.Abs(v-want) > 1e-12 {
				t.Fatalf("PCEN[%d] = %v, want %v", f, v, want)
			}
		}
	}
}

func TestPCENSilenceIsFinite(t *testing.T) {
	got, err := PCEN(NewSpectrogram(2, 10), DefaultPCENParams())
	if err != nil {
		t.Fatalf("PCEN() error = %v", err)
	}
	for _, row := range got {
		testutil.RequireFinite(t, row)
		testutil.RequireSliceNearlyEqual(t, row, make([]float64, 10), 0)
	}
}

func TestPCENParamsValidate(t *testing.T) {
	base := DefaultPCENParams()
	tests := []struct {
		name   string
		mutate func(*PCENParams)
		want   error
	}{
		{"defaults", func(*PCENParams) {}, nil},
		{"zero eps", func(p *PCENParams) { p.Eps = 0 }, core.ErrNumericInstability},
		{"negative eps", func(p *PCENParams) { p.Eps = -1e-6 }, core.ErrNumericInstability},
		{"s zero", func(p *PCENParams) { p.S = 0 }, core.ErrInvalidParameter},
		{"s one", func(p *PCENParams) { p.S = 1 }, core.ErrInvalidParameter},
		{"alpha zero", func(p *PCENParams) { p.Alpha = 0 }, core.ErrInvalidParameter},
		{"alpha above one", func(p *PCENParams) { p.Alpha = 1.5 }, core.ErrInvalidParameter},
		{"r zero", func(p *PCENParams) { p.R = 0 }, core.ErrInvalidParameter},
		{"negative delta", func(p *PCENParams) { p.Delta = -1 }, core.ErrInvalidParameter},
		{"alpha one", func(p *PCENParams) { p.Alpha = 1 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			err := p.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPCENOnMelSpectrogram(t *testing.T) {
	e := mustExtractor(t, 8000, 256)
	s, err := e.MelPowerSpectrogram(testutil.DeterministicSine(500, 8000, 1, 8000), MelOptions{NMels: 20, Power: 1})
	if err != nil {
		t.Fatalf("MelPowerSpectrogram() error = %v", err)
	}
	p, err := PCEN(s, DefaultPCENParams())
	if err != nil {
		t.Fatalf("PCEN() error = %v", err)
	}
	if p.Bins() != 20 || p.Frames() != s.Frames() {
		t.Fatalf("shape = %dx%d", p.Bins(), p.Frames())
	}
	for _, row := range p {
		testutil.RequireFinite(t, row)
	}
}

func TestPCENRejectsInvalidCells(t *testing.T) {
	tests := []struct {
		name string
		s    Spectrogram
	}{
		{"negative", Spectrogram{{-1, 2, 3}}},
		{"nan", Spectrogram{{1, math.NaN(), 3}}},
		{"inf", Spectrogram{{1, 2}, {math.Inf(1), 0}}},
		{"ragged", Spectrogram{{1, 2}, {3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PCEN(tt.s, DefaultPCENParams())
			if !errors.Is(err, core.ErrInvalidParameter) {
				t.Fatalf("PCEN() error = %v, want ErrInvalidParameter", err)
			}
			if got != nil {
				t.Fatalf("PCEN() = %v, want nil", got)
			}
		})
	}
}
