// Package pad aligns variable-length signals to a fixed target length by
// zero-filling at the front, the back, or both ends.
//
// PadBoth splits the deficit as floor(D/2) zeros on each side. For an odd
// deficit the result is one sample short of the target length; this matches
// the lengths produced by existing datasets and is kept on purpose. Align
// avoids the short case by only splitting even deficits.
//
// Signals longer than the target fail with core.ErrSignalTooLong unless the
// Aligner was built with WithTruncate.
package pad
