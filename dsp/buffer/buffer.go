package buffer

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Buffer is a fixed-length sum of equal-length signals.
type Buffer struct {
	samples []float64
	count   int
}

// New returns a zero-filled Buffer of the given length.
func New(length int) *Buffer {
	if length < 0 {
		length = 0
	}
	return &Buffer{samples: make([]float64, length)}
}

// Samples returns the underlying slice.
func (b *Buffer) Samples() []float64 {
	return b.samples
}

// Len returns the number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Count returns how many signals were added since the last Reset.
func (b *Buffer) Count() int {
	return b.count
}

// Add sums src into the buffer. src must have exactly Len samples.
func (b *Buffer) Add(src []float64) error {
	if len(src) != len(b.samples) {
		return fmt.Errorf("buffer: signal has %d samples, want %d: %w", len(src), len(b.samples), core.ErrInvalidParameter)
	}
	vecmath.AddBlockInPlace(b.samples, src)
	b.count++
	return nil
}

// Reset sets the length to n, reusing capacity when possible, and zeroes
// every sample.
func (b *Buffer) Reset(n int) {
	if n < 0 {
		n = 0
	}
	b.samples = core.EnsureLen(b.samples, n)
	core.Zero(b.samples)
	b.count = 0
}
