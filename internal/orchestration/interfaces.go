package orchestration

import (
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/agbru/primecalc/internal/config"
	"github.com/agbru/primecalc/internal/parallel"
	"github.com/agbru/primecalc/internal/progress"
)

// RunResult is the outcome of one workload. It is the domain type shared
// by the orchestration and presentation layers.
type RunResult struct {
	// Name identifies the workload ("interleaved", "contiguous", "sequential").
	Name string
	// Mode is the configured mode ("primes" or "sum").
	Mode string
	// Count and Largest hold the primes result.
	Count   uint64
	Largest uint64
	// Sum holds the sum result.
	Sum float64
	// Workers holds per-worker statistics; nil for the sequential baseline.
	Workers []parallel.WorkerStats
	// Imbalance is max/mean worker duration.
	Imbalance float64
	// Duration is the wall time of the workload, all repetitions included.
	Duration time.Duration
	// Err is set when the workload failed.
	Err error
}

// Value renders the primary result: the prime count or the sum.
func (r RunResult) Value() string {
	if r.Mode == config.ModeSum {
		return strconv.FormatFloat(r.Sum, 'f', -1, 64)
	}
	return strconv.FormatUint(r.Count, 10)
}

// Agrees reports whether two successful results carry the same values.
func (r RunResult) Agrees(o RunResult) bool {
	return r.Count == o.Count && r.Largest == o.Largest && r.Sum == o.Sum
}

// PresentationOptions configures how results are presented.
type PresentationOptions struct {
	Mode    string
	A, B    uint64
	Length  int
	Details bool
	Quiet   bool
}

// ProgressReporter displays worker progress while a workload runs.
type ProgressReporter interface {
	// DisplayProgress consumes updates until the channel is closed, then
	// calls wg.Done.
	DisplayProgress(wg *sync.WaitGroup, updates <-chan progress.Update, numWorkers int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, updates <-chan progress.Update, numWorkers int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, updates <-chan progress.Update, numWorkers int, out io.Writer) {
	f(wg, updates, numWorkers, out)
}

// NullProgressReporter drains updates without output. Used in quiet mode.
type NullProgressReporter struct{}

// DisplayProgress drains the channel.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, updates <-chan progress.Update, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(updates)
}

// ResultPresenter renders results.
type ResultPresenter interface {
	// PresentComparisonTable renders one row per workload.
	PresentComparisonTable(results []RunResult, out io.Writer)
	// PresentResult renders the final result.
	PresentResult(result RunResult, opts PresentationOptions, out io.Writer)
	ErrorHandler
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler reports an error and returns the process exit code.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
