// Package signal generates closed-form periodic test signals and combines
// aligned signals into mixtures.
//
// A [WaveGenerator] owns an immutable time grid t[i] = i/sampleRate for
// i in [0, floor(sampleRate*duration)). Every waveform it produces has the
// grid's length and is scaled by the linear amplitude 10^(gainDB/20).
// Frequencies are not range-checked; tones above Nyquist alias.
package signal
