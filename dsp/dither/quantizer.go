package dither

import (
	"math"
	"math/rand/v2"
)

// Quantizer maps samples in [-1, 1] onto signed integers of a fixed bit
// depth. Full scale +1 maps to 2^(bits-1)-1. A Quantizer owns its random
// source and is not safe for concurrent use.
type Quantizer struct {
	bitDepth        int
	ditherType      DitherType
	ditherAmplitude float64
	rng             *rand.Rand

	// derived from bitDepth
	scale float64
	lo    int
	hi    int
}

// NewQuantizer creates a Quantizer. The default configuration is 16-bit
// with triangular dither of amplitude 1 LSB.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	quant := &Quantizer{
		bitDepth:        cfg.bitDepth,
		ditherType:      cfg.ditherType,
		ditherAmplitude: cfg.ditherAmplitude,
		rng:             cfg.rng,
	}

	if quant.rng == nil {
		quant.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	quant.scale = math.Exp2(float64(quant.bitDepth-1)) - 1
	quant.hi = int(quant.scale)
	quant.lo = -quant.hi - 1

	return quant, nil
}

// Quantize converts one sample. Inputs outside [-1, 1] (and NaN) are
// clipped first; clipped reports whether that happened.
func (q *Quantizer) Quantize(x float64) (v int, clipped bool) {
	switch {
	case math.IsNaN(x):
		x, clipped = 0, true
	case x > 1:
		x, clipped = 1, true
	case x < -1:
		x, clipped = -1, true
	}

	r := int(math.Round(x*q.scale + q.noise()))

	return max(q.lo, min(q.hi, r)), clipped
}

// QuantizeBlock converts src into dst and returns the number of clipped
// input samples. dst must be at least len(src) long.
func (q *Quantizer) QuantizeBlock(dst []int, src []float64) int {
	clips := 0
	for i, x := range src {
		v, c := q.Quantize(x)
		dst[i] = v
		if c {
			clips++
		}
	}
	return clips
}

// Dequantize maps an integer back to [-1, 1].
func (q *Quantizer) Dequantize(v int) float64 {
	return float64(v) / q.scale
}

func (q *Quantizer) noise() float64 {
	switch q.ditherType {
	case DitherRectangular:
		return q.ditherAmplitude * (q.rng.Float64() - 0.5)
	case DitherTriangular:
		return q.ditherAmplitude * (q.rng.Float64() - q.rng.Float64())
	case DitherGaussian:
		return q.ditherAmplitude * 0.5 * q.rng.NormFloat64()
	default:
		return 0
	}
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// DitherType returns the dither noise type.
func (q *Quantizer) DitherType() DitherType { return q.ditherType }

// DitherAmplitude returns the dither noise amplitude in LSBs.
func (q *Quantizer) DitherAmplitude() float64 { return q.ditherAmplitude }

// FullScale returns the integer that +1.0 maps to.
func (q *Quantizer) FullScale() int { return q.hi }
