// Package buffer provides a reusable float64 mix bus and a pool for it.
// Long-lived accumulators such as mixture sums borrow a Buffer from a Pool,
// add aligned signals into it and return it once rendered.
package buffer
