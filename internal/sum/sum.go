// Package sum adds up a prefix of a slice with a pool of workers that each
// own interleaved index slices of the prefix.
package sum

import (
	"context"

	"github.com/coder/quartz"

	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/parallel"
	"github.com/agbru/primecalc/internal/partition"
	"github.com/agbru/primecalc/internal/progress"
)

// DefaultSliceLength is the number of consecutive indices in one slice.
const DefaultSliceLength uint64 = 20

// Number is the set of element types Sum accepts.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Options configures SumWithOptions. Zero fields take their defaults.
type Options struct {
	Workers     int
	SliceLength uint64
	Strategy    partition.Strategy
	Observer    progress.Observer
	Clock       quartz.Clock
	Logger      logging.Logger
}

// Sum returns values[0] + ... + values[n-1] computed by workers goroutines.
// For a fixed worker count the result is identical on every call, floats
// included.
func Sum[T Number](ctx context.Context, values []T, n, workers int) (T, error) {
	report, err := SumWithOptions(ctx, values, n, Options{Workers: workers})
	if err != nil {
		var zero T
		return zero, err
	}
	return report.Result, nil
}

// SumWithOptions is Sum with full control over partitioning, returning the
// coordinator report.
func SumWithOptions[T Number](ctx context.Context, values []T, n int, opts Options) (parallel.Report[T], error) {
	if n < 0 {
		return parallel.Report[T]{}, apperrors.NewValidationError("n", "must not be negative, got %d", n)
	}
	if n > len(values) {
		return parallel.Report[T]{}, apperrors.NewValidationError("n", "%d exceeds the %d available values", n, len(values))
	}
	if opts.SliceLength == 0 {
		opts.SliceLength = DefaultSliceLength
	}

	prefix := values[:n:n]
	fold := func(acc T, lo, hi uint64) T {
		for _, v := range prefix[lo:hi] {
			acc += v
		}
		return acc
	}
	add := func(total, partial T) T { return total + partial }

	r := partition.Range{Start: 0, End: uint64(n)}
	return parallel.Run(ctx, r, parallel.Options{
		Workers:     opts.Workers,
		SliceLength: opts.SliceLength,
		Strategy:    opts.Strategy,
		Label:       "sum",
		Observer:    opts.Observer,
		Clock:       opts.Clock,
		Logger:      opts.Logger,
	}, fold, add)
}

// Sequential sums values[0:n) on the calling goroutine.
func Sequential[T Number](values []T, n int) T {
	var total T
	for _, v := range values[:n] {
		total += v
	}
	return total
}

// Indices returns a slice of length n with A[i] = i, or nil if n < 0.
func Indices(n int) []float64 {
	if n < 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
