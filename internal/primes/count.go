package primes

import (
	"context"

	"github.com/coder/quartz"

	"github.com/agbru/primecalc/internal/extremum"
	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/parallel"
	"github.com/agbru/primecalc/internal/partition"
	"github.com/agbru/primecalc/internal/progress"
)

// DefaultSliceLength is the number of consecutive integers in one slice.
const DefaultSliceLength uint64 = 250

// largest is the process-wide largest prime of the latest Count call.
var largest = extremum.NewMax()

// LargestFound returns the largest prime recorded by the most recent Count
// or CountPrimes call, or 0 if that call found none. During a run it
// returns the largest prime published so far. Concurrent Count calls share
// this value.
func LargestFound() uint64 {
	return largest.Load()
}

// smallest is the process-wide smallest prime of the latest Count call.
var smallest = extremum.NewMin()

// SmallestFound returns the smallest prime recorded by the most recent
// Count or CountPrimes call, or 0 if that call found none.
func SmallestFound() uint64 {
	if !smallest.Found() {
		return 0
	}
	return smallest.Load()
}

// Tally is the partial result of one worker. Largest and Smallest are 0
// when the worker found no prime.
type Tally struct {
	Count    uint64
	Largest  uint64
	Smallest uint64
}

func merge(total, partial Tally) Tally {
	total.Count += partial.Count
	if partial.Largest > total.Largest {
		total.Largest = partial.Largest
	}
	if partial.Smallest != 0 && (total.Smallest == 0 || partial.Smallest < total.Smallest) {
		total.Smallest = partial.Smallest
	}
	return total
}

// fold tests every integer of [lo, hi) and publishes the slice's largest
// and smallest primes once to the shared trackers.
func fold(acc Tally, lo, hi uint64) Tally {
	var sliceMin, sliceMax uint64
	for i := lo; i < hi; i++ {
		if IsPrime(i) {
			acc.Count++
			if sliceMin == 0 {
				sliceMin = i
			}
			sliceMax = i
		}
	}
	if sliceMax == 0 {
		return acc
	}
	if sliceMax > acc.Largest {
		acc.Largest = sliceMax
	}
	if acc.Smallest == 0 || sliceMin < acc.Smallest {
		acc.Smallest = sliceMin
	}
	largest.UpdateIfGreater(sliceMax)
	smallest.Update(sliceMin)
	return acc
}

// Options configures Count. Zero fields take their defaults.
type Options struct {
	// Workers is the number of workers. Must be positive.
	Workers int
	// SliceLength defaults to DefaultSliceLength.
	SliceLength uint64
	// Strategy defaults to interleaved slices.
	Strategy partition.Strategy
	Observer progress.Observer
	Clock    quartz.Clock
	Logger   logging.Logger
}

// Result is the outcome of Count.
type Result struct {
	// Count is the number of primes in [a, b].
	Count uint64
	// Largest is the largest prime in [a, b], or 0 if there is none.
	Largest uint64
	// Smallest is the smallest prime in [a, b], or 0 if there is none.
	Smallest uint64
	// Report holds the coordinator's per-worker statistics.
	Report parallel.Report[Tally]
}

// Count counts the primes in [a, b].
//
// It returns a validation error, without starting any worker, if a > b,
// if b is math.MaxUint64 or if the options are invalid. The process-wide
// largest and smallest primes are reset once the arguments are accepted.
func Count(ctx context.Context, a, b uint64, opts Options) (Result, error) {
	r, err := partition.InclusiveRange(a, b)
	if err != nil {
		return Result{}, err
	}
	if opts.SliceLength == 0 {
		opts.SliceLength = DefaultSliceLength
	}
	popts := parallel.Options{
		Workers:     opts.Workers,
		SliceLength: opts.SliceLength,
		Strategy:    opts.Strategy,
		Label:       "primes",
		Observer:    opts.Observer,
		Clock:       opts.Clock,
		Logger:      opts.Logger,
	}
	if err := popts.Validate(); err != nil {
		return Result{}, err
	}

	largest.Reset()
	smallest.Reset()
	report, err := parallel.Run(ctx, r, popts, fold, merge)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Count:    report.Result.Count,
		Largest:  report.Result.Largest,
		Smallest: report.Result.Smallest,
		Report:   report,
	}, nil
}

// CountPrimes counts the primes in [a, b] with the given number of workers
// and the default slice length. The largest prime found is available from
// LargestFound afterwards.
func CountPrimes(ctx context.Context, a, b uint64, workers int) (uint64, error) {
	res, err := Count(ctx, a, b, Options{Workers: workers})
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}
