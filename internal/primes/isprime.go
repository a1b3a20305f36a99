package primes

// IsPrime reports whether x is prime using trial division by odd divisors.
func IsPrime(x uint64) bool {
	if x == 2 {
		return true
	}
	if x < 2 || x&1 == 0 {
		return false
	}
	if x <= 7 {
		return true
	}
	// d <= x/d avoids the overflow of d*d near MaxUint64.
	for d := uint64(3); d <= x/d; d += 2 {
		if x%d == 0 {
			return false
		}
	}
	return true
}

// CountSequential counts the primes in [a, b] on the calling goroutine and
// returns the count and the largest prime (0 if none). It is the baseline
// used to verify parallel runs.
func CountSequential(a, b uint64) (count, largest uint64) {
	if a > b {
		return 0, 0
	}
	for i := a; ; i++ {
		if IsPrime(i) {
			count++
			largest = i
		}
		if i == b {
			break
		}
	}
	return count, largest
}
