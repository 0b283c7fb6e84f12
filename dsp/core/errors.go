package core

import "errors"

// Error classes shared by all dsp packages. Validation errors wrap exactly one
// of these so callers can branch with errors.Is.
var (
	// ErrInvalidParameter reports a parameter outside its valid domain:
	// non-positive rates or sizes, oversized windows or fades, negative
	// deviations.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrSignalTooLong reports a signal longer than the alignment target.
	ErrSignalTooLong = errors.New("signal too long")

	// ErrNumericInstability reports parameters that would make a recursion
	// diverge or divide by (nearly) zero, e.g. a filter pole on or outside
	// the unit circle.
	ErrNumericInstability = errors.New("numeric instability")
)
