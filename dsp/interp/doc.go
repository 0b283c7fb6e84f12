// Package interp provides fractional-position interpolation primitives.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite
//
// [Mode] selects a method at construction time, and [Periodic] reads a
// single-period table at a fractional index with wraparound.
package interp
