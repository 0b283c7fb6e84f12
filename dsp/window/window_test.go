package window

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
)

func TestGenerateAllTypes(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman, TypeCosine} {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}
			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
			}
		})
	}
}

func TestPeriodicHann(t *testing.T) {
	w := Generate(TypeHann, 4, WithPeriodic())
	want := []float64{0, 0.5, 1, 0.5}
	for i := range want {
		if math.Abs(w[i]-want[i]) > 1e-12 {
			t.Fatalf("w[%d] = %v, want %v", i, w[i], want[i])
		}
	}
}

func TestSymmetricHannEndpoints(t *testing.T) {
	w := Generate(TypeHann, 9)
	if math.Abs(w[0]) > 1e-15 || math.Abs(w[8]) > 1e-15 {
		t.Fatalf("endpoints = %v, %v, want 0", w[0], w[8])
	}
	if math.Abs(w[4]-1) > 1e-15 {
		t.Fatalf("centre = %v, want 1", w[4])
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Fatal("expected nil for zero length")
	}
	if _, err := Hann(-1); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("Hann(-1) error = %v, want ErrInvalidParameter", err)
	}
}

func TestParseType(t *testing.T) {
	for typ, name := range typeNames {
		got, err := ParseType(name)
		if err != nil {
			t.Fatalf("ParseType(%q) error = %v", name, err)
		}
		if got != typ {
			t.Fatalf("ParseType(%q) = %v, want %v", name, got, typ)
		}
	}
	if _, err := ParseType("kaiser"); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("ParseType(kaiser) error = %v, want ErrInvalidParameter", err)
	}
	if Type(99).Valid() {
		t.Fatal("Type(99).Valid() = true, want false")
	}
}

func TestApply(t *testing.T) {
	buf := []float64{2, 2, 2, 2}
	Apply(TypeHann, buf, WithPeriodic())
	want := []float64{0, 1, 2, 1}
	for i := range want {
		if math.Abs(buf[i]-want[i]) > 1e-12 {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}
