package primes_test

import (
	"context"
	"fmt"

	"github.com/agbru/primecalc/internal/primes"
)

func ExampleCountPrimes() {
	n, err := primes.CountPrimes(context.Background(), 1, 1000, 4)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(n, primes.LargestFound())
	// Output: 168 997
}

func ExampleCount() {
	res, err := primes.Count(context.Background(), 100, 200, primes.Options{Workers: 2, SliceLength: 10})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Count, res.Largest, len(res.Report.Workers))
	// Output: 21 199 2
}
