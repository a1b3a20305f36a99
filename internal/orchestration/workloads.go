package orchestration

import (
	"context"
	"fmt"
	"strconv"

	"github.com/agbru/primecalc/internal/config"
	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/partition"
	"github.com/agbru/primecalc/internal/primes"
	"github.com/agbru/primecalc/internal/progress"
	"github.com/agbru/primecalc/internal/sum"
)

// SequentialName names the single-goroutine baseline workload.
const SequentialName = "sequential"

// Workload is one unit of work the orchestrator executes and times.
type Workload interface {
	// Name identifies the workload in tables and metrics.
	Name() string
	// Workers is the number of progress lanes the workload reports on.
	Workers() int
	// Run executes the workload. Duration is filled in by the caller.
	Run(ctx context.Context, observer progress.Observer) RunResult
}

type primesWorkload struct {
	a, b        uint64
	workers     int
	sliceLength uint64
	strategy    partition.Strategy
	logger      logging.Logger
}

func (w primesWorkload) Name() string { return w.strategy.String() }
func (w primesWorkload) Workers() int { return w.workers }

func (w primesWorkload) Run(ctx context.Context, observer progress.Observer) RunResult {
	res, err := primes.Count(ctx, w.a, w.b, primes.Options{
		Workers:     w.workers,
		SliceLength: w.sliceLength,
		Strategy:    w.strategy,
		Observer:    observer,
		Logger:      w.logger,
	})
	out := RunResult{Name: w.Name(), Mode: config.ModePrimes, Err: err}
	if err != nil {
		return out
	}
	out.Count = res.Count
	out.Largest = res.Largest
	out.Workers = res.Report.Workers
	out.Imbalance = res.Report.Imbalance()
	return out
}

// sumWorkload recomputes the sum repeat times and fails on the first
// repetition that disagrees with the first one.
type sumWorkload struct {
	values      []float64
	workers     int
	sliceLength uint64
	strategy    partition.Strategy
	repeat      int
	logger      logging.Logger
}

func (w sumWorkload) Name() string { return w.strategy.String() }
func (w sumWorkload) Workers() int { return w.workers }

func (w sumWorkload) Run(ctx context.Context, observer progress.Observer) RunResult {
	out := RunResult{Name: w.Name(), Mode: config.ModeSum}
	repeat := max(w.repeat, 1)
	for i := range repeat {
		report, err := sum.SumWithOptions(ctx, w.values, len(w.values), sum.Options{
			Workers:     w.workers,
			SliceLength: w.sliceLength,
			Strategy:    w.strategy,
			Observer:    observer,
			Logger:      w.logger,
		})
		if err != nil {
			out.Err = err
			return out
		}
		if i == 0 {
			out.Sum = report.Result
		} else if report.Result != out.Sum {
			out.Err = apperrors.MismatchError{
				Expected: formatFloat(out.Sum),
				Got:      formatFloat(report.Result),
				Run:      fmt.Sprintf("%s repetition %d", w.Name(), i+1),
			}
			return out
		}
		out.Workers = report.Workers
		out.Imbalance = report.Imbalance()
	}
	return out
}

// sequentialWorkload computes the reference result on one goroutine.
type sequentialWorkload struct {
	mode   string
	a, b   uint64
	values []float64
}

func (w sequentialWorkload) Name() string { return SequentialName }
func (w sequentialWorkload) Workers() int { return 1 }

func (w sequentialWorkload) Run(_ context.Context, observer progress.Observer) RunResult {
	out := RunResult{Name: SequentialName, Mode: w.mode, Imbalance: 1}
	if w.mode == config.ModeSum {
		n := uint64(len(w.values))
		observer.WorkerStarted(0, n)
		out.Sum = sum.Sequential(w.values, len(w.values))
		observer.SliceDone(0, n, n)
		observer.WorkerDone(0, 0)
		return out
	}
	r, err := partition.InclusiveRange(w.a, w.b)
	if err != nil {
		out.Err = err
		return out
	}
	observer.WorkerStarted(0, r.Len())
	out.Count, out.Largest = primes.CountSequential(w.a, w.b)
	observer.SliceDone(0, r.Len(), r.Len())
	observer.WorkerDone(0, 0)
	return out
}

// GetWorkloadsToRun builds the workloads for cfg: one per strategy when
// cfg.Compare is set, otherwise the configured strategy alone, followed by
// the sequential baseline when cfg.Verify is set.
func GetWorkloadsToRun(cfg config.AppConfig, logger logging.Logger) []Workload {
	strategies := []partition.Strategy{cfg.PartitionStrategy()}
	if cfg.Compare {
		strategies = partition.Strategies
	}

	var values []float64
	if cfg.Mode == config.ModeSum {
		values = sum.Indices(cfg.Length)
	}

	workloads := make([]Workload, 0, len(strategies)+1)
	for _, s := range strategies {
		if cfg.Mode == config.ModeSum {
			workloads = append(workloads, sumWorkload{
				values: values, workers: cfg.Workers, sliceLength: cfg.SliceLength,
				strategy: s, repeat: cfg.Repeat, logger: logger,
			})
			continue
		}
		workloads = append(workloads, primesWorkload{
			a: cfg.A, b: cfg.B, workers: cfg.Workers, sliceLength: cfg.SliceLength,
			strategy: s, logger: logger,
		})
	}
	if cfg.Verify {
		workloads = append(workloads, sequentialWorkload{mode: cfg.Mode, a: cfg.A, b: cfg.B, values: values})
	}
	return workloads
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
