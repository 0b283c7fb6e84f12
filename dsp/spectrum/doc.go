// Package spectrum extracts time-frequency features from signals.
//
// An Extractor computes a centered short-time Fourier transform with a
// periodic analysis window, its magnitude, and mel-weighted power
// spectrograms. Companion functions convert spectrograms to decibels and
// apply per-channel energy normalization (PCEN).
//
// Spectrograms are indexed [bin][frame]. An Extractor holds no mutable
// state after construction and may be shared between goroutines.
package spectrum
