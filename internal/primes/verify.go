//go:build !gmp

package primes

import "math/big"

// ProbablyPrime runs a Baillie-PSW test on n with math/big. Build with
// -tags gmp to use GMP instead.
func ProbablyPrime(n uint64) bool {
	return new(big.Int).SetUint64(n).ProbablyPrime(20)
}

// VerifierName names the backend used by ProbablyPrime.
const VerifierName = "math/big"
