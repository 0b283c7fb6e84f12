package dither

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
)

func TestDitherTypeString(t *testing.T) {
	tests := []struct {
		dt   DitherType
		want string
	}{
		{DitherNone, "none"},
		{DitherRectangular, "rectangular"},
		{DitherTriangular, "triangular"},
		{DitherGaussian, "gaussian"},
		{DitherType(99), "DitherType(99)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.dt.String(); got != tt.want {
				t.Errorf("DitherType(%d).String() = %q, want %q", tt.dt, got, tt.want)
			}
		})
	}
}

func TestParseDitherType(t *testing.T) {
	for dt := DitherNone; dt < ditherTypeCount; dt++ {
		got, err := ParseDitherType(dt.String())
		if err != nil || got != dt {
			t.Fatalf("ParseDitherType(%q) = %v, %v", dt.String(), got, err)
		}
	}
	if got, err := ParseDitherType("TPDF"); err == nil {
		t.Fatalf("ParseDitherType(TPDF) = %v, want error", got)
	}
	if got, _ := ParseDitherType("Triangular"); got != DitherTriangular {
		t.Fatalf("ParseDitherType(Triangular) = %v", got)
	}
	if _, err := ParseDitherType("pink"); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("ParseDitherType(pink) error = %v, want ErrInvalidParameter", err)
	}
}

func TestDitherTypeValid(t *testing.T) {
	if !DitherTriangular.Valid() {
		t.Error("DitherTriangular should be valid")
	}
	if DitherType(99).Valid() {
		t.Error("DitherType(99) should be invalid")
	}
}
