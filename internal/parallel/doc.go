// Package parallel implements the coordinator that splits a range across a
// fixed set of worker goroutines, folds every slice of each worker's
// assignment and reduces the partial results.
//
// A Run is self-contained: goroutines are created per call, joined before
// Run returns and never reused. Partial results are reduced in worker index
// order from the zero value of P, so the result does not depend on which
// worker finishes first as long as the zero value is the identity of the
// reducer.
//
// Runs cannot be cancelled. The context is used for tracing and nothing in
// the compute loop polls it.
package parallel
