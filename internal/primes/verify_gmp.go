//go:build gmp

package primes

import "github.com/ncw/gmp"

// ProbablyPrime runs GMP's Miller-Rabin test on n.
func ProbablyPrime(n uint64) bool {
	return new(gmp.Int).SetUint64(n).ProbablyPrime(20)
}

// VerifierName names the backend used by ProbablyPrime.
const VerifierName = "gmp"
