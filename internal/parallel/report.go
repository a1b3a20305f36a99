package parallel

import (
	"time"

	"github.com/agbru/primecalc/internal/partition"
)

// WorkerStats describes what one worker did during a Run.
type WorkerStats struct {
	// Worker is the worker index.
	Worker int
	// Elements is the number of range elements the worker folded.
	Elements uint64
	// Slices is the number of slices the worker visited.
	Slices uint64
	// Duration is the wall time the worker spent folding.
	Duration time.Duration
}

// Report is the outcome of a Run.
type Report[P any] struct {
	// Result is the reduction of every worker's partial result.
	Result P
	// Partials holds each worker's partial result, indexed by worker.
	Partials []P
	// Range is the range that was partitioned.
	Range partition.Range
	// Strategy is the partitioning strategy used.
	Strategy partition.Strategy
	// SliceLength is the slice length handed to the partitioner.
	SliceLength uint64
	// Workers holds per-worker statistics, indexed by worker.
	Workers []WorkerStats
	// Elapsed is the wall time from partitioning to the end of the reduction.
	Elapsed time.Duration
}

// Imbalance returns the slowest worker's duration divided by the mean
// worker duration. 1.0 means perfectly balanced. Reports without workers or
// with zero total duration return 1.0.
func (r Report[P]) Imbalance() float64 {
	return Imbalance(r.Workers)
}

// TotalElements returns the number of elements folded across all workers.
func (r Report[P]) TotalElements() uint64 {
	var n uint64
	for _, w := range r.Workers {
		n += w.Elements
	}
	return n
}

// Slowest returns the stats of the worker with the longest duration.
func (r Report[P]) Slowest() WorkerStats {
	return Slowest(r.Workers)
}

// Slowest returns the worker with the longest duration. The lowest index
// wins ties; an empty slice yields the zero value.
func Slowest(stats []WorkerStats) WorkerStats {
	var slowest WorkerStats
	for i, w := range stats {
		if i == 0 || w.Duration > slowest.Duration {
			slowest = w
		}
	}
	return slowest
}

// Imbalance computes max/mean of the worker durations.
func Imbalance(stats []WorkerStats) float64 {
	if len(stats) == 0 {
		return 1.0
	}
	var total, longest time.Duration
	for _, w := range stats {
		total += w.Duration
		if w.Duration > longest {
			longest = w.Duration
		}
	}
	if total <= 0 {
		return 1.0
	}
	mean := float64(total) / float64(len(stats))
	return float64(longest) / mean
}
