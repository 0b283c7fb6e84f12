// Package dither converts floating-point samples to signed PCM integers,
// optionally adding dither noise before rounding.
package dither

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// DitherType selects the probability distribution used for dither noise.
type DitherType int

const (
	// DitherNone applies no dither (plain rounding).
	DitherNone DitherType = iota
	// DitherRectangular uses a uniform (rectangular) PDF.
	DitherRectangular
	// DitherTriangular uses a triangular PDF (TPDF), the most common choice.
	DitherTriangular
	// DitherGaussian uses a Gaussian PDF.
	DitherGaussian

	ditherTypeCount // sentinel for validation
)

var ditherTypeNames = [ditherTypeCount]string{
	"none", "rectangular", "triangular", "gaussian",
}

// String returns the name of the dither type.
func (dt DitherType) String() string {
	if dt.Valid() {
		return ditherTypeNames[dt]
	}
	return fmt.Sprintf("DitherType(%d)", dt)
}

// Valid reports whether dt is a known dither type.
func (dt DitherType) Valid() bool {
	return dt >= 0 && dt < ditherTypeCount
}

// ParseDitherType maps a case-insensitive name to its DitherType.
func ParseDitherType(name string) (DitherType, error) {
	for i, n := range ditherTypeNames {
		if strings.EqualFold(n, name) {
			return DitherType(i), nil
		}
	}
	return 0, fmt.Errorf("dither: unknown dither type %q: %w", name, core.ErrInvalidParameter)
}
