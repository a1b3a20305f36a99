package parallel

import (
	"context"
	"fmt"

	"github.com/coder/quartz"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/partition"
	"github.com/agbru/primecalc/internal/progress"
)

var tracer = otel.Tracer("github.com/agbru/primecalc/internal/parallel")

// SliceFunc folds the elements of [lo, hi) into acc and returns the new
// accumulator. It is called sequentially for each slice of one worker and
// must only read state that no other worker writes.
type SliceFunc[P any] func(acc P, lo, hi uint64) P

// Reducer combines a worker's partial result into the running total.
type Reducer[P any] func(total, partial P) P

// Options configures a Run.
type Options struct {
	// Workers is the number of worker goroutines. Must be positive.
	Workers int
	// SliceLength is the interleaved slice length. Must be positive for
	// the interleaved strategy.
	SliceLength uint64
	// Strategy selects how the range is partitioned.
	Strategy partition.Strategy
	// Label names the workload in traces and logs.
	Label string
	// Observer receives worker lifecycle events. Defaults to a no-op.
	Observer progress.Observer
	// Clock times the workers. Defaults to the real clock.
	Clock quartz.Clock
	// Logger receives debug output. Defaults to a no-op logger.
	Logger logging.Logger
}

func (o Options) withDefaults() Options {
	if o.Observer == nil {
		o.Observer = progress.NewNoOpObserver()
	}
	if o.Clock == nil {
		o.Clock = quartz.NewReal()
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	if o.Label == "" {
		o.Label = "run"
	}
	return o
}

// Validate checks the options that do not depend on the range.
func (o Options) Validate() error {
	if o.Workers <= 0 {
		return apperrors.NewValidationError("workers", "must be positive, got %d", o.Workers)
	}
	if o.Strategy == partition.StrategyInterleaved && o.SliceLength == 0 {
		return apperrors.NewValidationError("sliceLength", "must be positive")
	}
	return nil
}

// Run partitions r, folds every assignment on its own goroutine and
// reduces the partial results in worker index order.
//
// Preconditions are checked before any goroutine starts. A panic inside a
// worker is reported as an apperrors.WorkerError once every worker has
// been joined; no partial result is returned in that case.
func Run[P any](ctx context.Context, r partition.Range, opts Options, fold SliceFunc[P], reduce Reducer[P]) (Report[P], error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return Report[P]{}, err
	}
	if fold == nil || reduce == nil {
		return Report[P]{}, apperrors.NewValidationError("fold", "fold and reduce functions are required")
	}
	assignments, err := partition.Build(opts.Strategy, r, opts.Workers, opts.SliceLength)
	if err != nil {
		return Report[P]{}, err
	}

	ctx, span := tracer.Start(ctx, "parallel.Run", trace.WithAttributes(
		attribute.String("label", opts.Label),
		attribute.String("strategy", opts.Strategy.String()),
		attribute.Int("workers", opts.Workers),
		attribute.Int64("slice_length", int64(opts.SliceLength)),
		attribute.String("range", r.String()),
	))
	defer span.End()

	opts.Logger.Debug("run started",
		logging.String("label", opts.Label),
		logging.String("range", r.String()),
		logging.String("strategy", opts.Strategy.String()),
		logging.Int("workers", opts.Workers),
		logging.Uint64("slice_length", opts.SliceLength),
	)

	began := opts.Clock.Now()
	partials := make([]P, len(assignments))
	stats := make([]WorkerStats, len(assignments))

	var g errgroup.Group
	for k, a := range assignments {
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = apperrors.WorkerError{Worker: k, Cause: fmt.Errorf("panic: %v", rec)}
				}
			}()
			partials[k], stats[k] = work(ctx, a, opts, fold)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		opts.Logger.Error("run failed", err, logging.String("label", opts.Label))
		return Report[P]{}, err
	}

	var total P
	for _, p := range partials {
		total = reduce(total, p)
	}

	report := Report[P]{
		Result:      total,
		Partials:    partials,
		Range:       r,
		Strategy:    opts.Strategy,
		SliceLength: opts.SliceLength,
		Workers:     stats,
		Elapsed:     opts.Clock.Since(began),
	}
	span.SetAttributes(attribute.Float64("imbalance", report.Imbalance()))
	opts.Logger.Debug("run finished",
		logging.String("label", opts.Label),
		logging.Duration("elapsed", report.Elapsed),
		logging.Float64("imbalance", report.Imbalance()),
	)
	return report, nil
}

// work folds every slice of one assignment into a fresh accumulator.
func work[P any](ctx context.Context, a partition.Assignment, opts Options, fold SliceFunc[P]) (P, WorkerStats) {
	_, span := tracer.Start(ctx, "parallel.worker", trace.WithAttributes(attribute.Int("worker", a.Worker)))
	defer span.End()

	began := opts.Clock.Now()
	elements := a.Size()
	planned := a.SliceCount()
	opts.Observer.WorkerStarted(a.Worker, elements)

	var acc P
	var processed, slices uint64
	for lo, hi := range a.Slices() {
		acc = fold(acc, lo, hi)
		processed += hi - lo
		slices++
		opts.Observer.SliceDone(a.Worker, processed, elements)
	}

	elapsed := opts.Clock.Since(began)
	opts.Observer.WorkerDone(a.Worker, elapsed)
	opts.Logger.Debug("worker finished",
		logging.Int("worker", a.Worker),
		logging.Uint64("elements", processed),
		logging.Uint64("slices", slices),
		logging.Duration("elapsed", elapsed),
	)
	span.SetAttributes(
		attribute.Int64("elements", int64(processed)),
		attribute.Int64("planned_slices", int64(planned)),
	)
	if slices != planned {
		opts.Logger.Warn("worker visited an unexpected number of slices",
			logging.Int("worker", a.Worker),
			logging.Uint64("planned", planned),
			logging.Uint64("visited", slices),
		)
	}
	return acc, WorkerStats{Worker: a.Worker, Elements: processed, Slices: slices, Duration: elapsed}
}
