// Package noise adds white or brown Gaussian noise to a signal.
//
// Both generators leave the input untouched and return a new slice of the
// same length. Brown noise is white noise integrated by the leaky one-pole
// filter y[n] = x[n] + p*y[n-1] and rescaled so its variance matches the
// white noise it came from.
package noise
