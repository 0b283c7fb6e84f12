// Package wavetable implements table-lookup oscillators.
//
// A [Table] stores exactly one period of a periodic basis function sampled
// at L points, table[n] = f(2*pi*n/L). An [Oscillator] reads that table with
// a phase accumulator advanced by frequency*L/sampleRate per output sample,
// interpolating between neighbouring entries with all index arithmetic taken
// modulo L. Rendered buffers are shaped by half-cosine fade envelopes to
// suppress edge clicks, then scaled by the requested gain.
//
// The phase accumulator lives on the stack of a single [Oscillator.Synthesize]
// call, so one Oscillator may render concurrently from many goroutines.
package wavetable
