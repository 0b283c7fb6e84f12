package wavetable

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
)

func TestNewTableSine(t *testing.T) {
	tab, err := NewTable(Sine, 4)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	want := []float64{0, 1, 0, -1}
	got := tab.Samples()
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("table[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNewTableInvalid(t *testing.T) {
	if _, err := NewTable(Sine, 0); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("NewTable(0) error = %v, want ErrInvalidParameter", err)
	}
	if _, err := NewTable(nil, 8); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("NewTable(nil) error = %v, want ErrInvalidParameter", err)
	}
	if _, err := FromSamples(nil); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("FromSamples(nil) error = %v, want ErrInvalidParameter", err)
	}
}

func TestBasisFunctions(t *testing.T) {
	tests := []struct {
		name  string
		fn    BasisFunc
		phase float64
		want  float64
	}{
		{"saw at 0", Sawtooth, 0, 0},
		{"saw at pi/2", Sawtooth, math.Pi / 2, 0.5},
		{"saw at 3pi/2", Sawtooth, 3 * math.Pi / 2, -0.5},
		{"square first half", Square, 1, 1},
		{"square second half", Square, 4, -1},
		{"triangle peak", Triangle, math.Pi / 2, 1},
		{"triangle trough", Triangle, 3 * math.Pi / 2, -1},
		{"triangle zero", Triangle, math.Pi, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.phase); math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("f(%v) = %v, want %v", tt.phase, got, tt.want)
			}
		})
	}
}

func TestBasisLookup(t *testing.T) {
	for _, name := range []string{"sine", "sawtooth", "square", "triangle"} {
		if _, err := Basis(name); err != nil {
			t.Fatalf("Basis(%q) error = %v", name, err)
		}
	}
	if _, err := Basis("noise"); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("Basis(noise) error = %v, want ErrInvalidParameter", err)
	}
}

func TestLinearInterpolateWraparound(t *testing.T) {
	tab, err := NewTable(Sawtooth, 16)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	s := tab.Samples()
	l := float64(len(s))

	if got := LinearInterpolate(s, l-1); math.Abs(got-s[15]) > 1e-12 {
		t.Fatalf("LinearInterpolate(L-1) = %v, want %v", got, s[15])
	}
	for _, eps := range []float64{1e-2, 1e-5, 1e-8} {
		got := LinearInterpolate(s, l-eps)
		want := eps*s[15] + (1-eps)*s[0]
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("LinearInterpolate(L-%g) = %v, want %v", eps, got, want)
		}
	}
	if got := tab.At(l); math.Abs(got-s[0]) > 1e-12 {
		t.Fatalf("At(L) = %v, want %v", got, s[0])
	}
}

func TestLinearInterpolateMidpoint(t *testing.T) {
	table := []float64{0, 2, 4, 6}
	if got := LinearInterpolate(table, 2.25); got != 4.5 {
		t.Fatalf("LinearInterpolate(2.25) = %v, want 4.5", got)
	}
	if got := LinearInterpolate(table, 3.5); got != 3 {
		t.Fatalf("LinearInterpolate(3.5) = %v, want 3", got)
	}
}
