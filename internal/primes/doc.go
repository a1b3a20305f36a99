// Package primes counts the primes of an inclusive interval [a, b] with a
// pool of workers, each testing interleaved slices of the interval by trial
// division.
//
// Primality cost grows with magnitude, so contiguous blocks would leave the
// workers holding the low end idle. Interleaved slices of DefaultSliceLength
// integers give every worker a mix of small and large values, and every
// slice holds a mix of even numbers, multiples of 3, and so on.
//
// Besides the count, the package keeps the largest prime found by the most
// recent Count call in process-wide state, published through a
// double-checked extremum tracker and readable with LargestFound while the
// run is still in flight.
package primes
