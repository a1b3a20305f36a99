package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/coder/quartz"

	"github.com/agbru/primecalc/internal/config"
	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/metrics"
	"github.com/agbru/primecalc/internal/primes"
	"github.com/agbru/primecalc/internal/progress"
)

// ProgressBufferMultiplier sizes the progress channel per worker. A larger
// buffer makes the observer drop fewer updates when the display is slow.
const ProgressBufferMultiplier = 5

// ExecuteOptions carries the optional collaborators of ExecuteWorkloads.
type ExecuteOptions struct {
	// Metrics records every run when non-nil.
	Metrics *metrics.Metrics
	// Logger receives per-worker debug events. Nil disables them.
	Logger logging.Logger
	// Clock times each workload. Defaults to the real clock.
	Clock quartz.Clock
}

// ExecuteWorkloads runs the workloads one after another and returns their
// results in order.
//
// Workloads never run concurrently with each other: each one owns every
// CPU so that durations and imbalance ratios are comparable. Each workload
// gets a fresh progress channel and display goroutine; the channel is
// closed and the display drained before the next workload starts.
func ExecuteWorkloads(ctx context.Context, workloads []Workload, progressReporter ProgressReporter, out io.Writer, opts ExecuteOptions) []RunResult {
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	memory := metrics.NewMemoryCollector()
	results := make([]RunResult, len(workloads))

	for i, w := range workloads {
		numWorkers := max(w.Workers(), 1)
		progressChan := make(chan progress.Update, numWorkers*ProgressBufferMultiplier)

		subject := progress.NewSubject()
		subject.Register(progress.NewChannelObserver(progressChan))
		if opts.Logger != nil {
			subject.Register(progress.NewLoggingObserver(opts.Logger, 0))
		}

		var displayWg sync.WaitGroup
		displayWg.Add(1)
		go progressReporter.DisplayProgress(&displayWg, progressChan, numWorkers, out)

		start := clock.Now()
		res := w.Run(ctx, subject)
		res.Duration = clock.Since(start)

		close(progressChan)
		displayWg.Wait()

		results[i] = res
		record(opts.Metrics, res, memory)
	}
	return results
}

func record(m *metrics.Metrics, res RunResult, memory *metrics.MemoryCollector) {
	if m == nil {
		return
	}
	if res.Err != nil {
		m.ObserveFailure(res.Mode)
		return
	}
	m.ObserveRun(metrics.RunSample{
		Mode:      res.Mode,
		Strategy:  res.Name,
		Elapsed:   res.Duration.Seconds(),
		Imbalance: res.Imbalance,
		Workers:   res.Workers,
	})
	if res.Mode == config.ModePrimes {
		m.SetLargestPrime(res.Largest)
	}
	m.ObserveMemory(memory.Snapshot())
}

// AnalyzeResults presents the results and returns the process exit code.
//
// A single result is presented directly. Several results (--compare or
// --verify) are sorted by duration, shown as a table and checked for
// agreement; any disagreement yields ExitErrorMismatch. With cfg.Verify the
// largest prime is also confirmed by an independent primality test.
// In quiet mode the table and the success status are omitted and only the
// final value is printed; failures are still reported.
func AnalyzeResults(results []RunResult, cfg config.AppConfig, presenter ResultPresenter, out io.Writer) int {
	if len(results) == 0 {
		return apperrors.ExitSuccess
	}
	popts := PresentationOptions{
		Mode:    cfg.Mode,
		A:       cfg.A,
		B:       cfg.B,
		Length:  cfg.Length,
		Details: cfg.Details,
		Quiet:   cfg.Quiet,
	}

	if len(results) == 1 {
		res := results[0]
		if res.Err != nil {
			return presenter.HandleError(res.Err, res.Duration, out)
		}
		presenter.PresentResult(res, popts, out)
		return verifyLargest(res, cfg, out)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *RunResult
	var firstError error
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
			continue
		}
		if firstValid == nil {
			firstValid = &results[i]
		}
	}

	if !cfg.Quiet {
		presenter.PresentComparisonTable(results, out)
	}

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No run completed.\n")
		return presenter.HandleError(firstError, 0, out)
	}
	for _, res := range results {
		if res.Err == nil && !res.Agrees(*firstValid) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s and %s disagree.\n", firstValid.Name, res.Name)
			return apperrors.ExitErrorMismatch
		}
	}
	if firstError != nil {
		fmt.Fprintf(out, "\nGlobal Status: Partial failure. Completed runs agree.\n")
		return presenter.HandleError(firstError, 0, out)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "\nGlobal Status: Success. All results are consistent.\n")
	}
	presenter.PresentResult(*firstValid, popts, out)
	return verifyLargest(*firstValid, cfg, out)
}

func verifyLargest(res RunResult, cfg config.AppConfig, out io.Writer) int {
	if !cfg.Verify || res.Mode != config.ModePrimes || res.Largest == 0 {
		return apperrors.ExitSuccess
	}
	if !primes.ProbablyPrime(res.Largest) {
		fmt.Fprintf(out, "Verification (%s): %d is NOT prime\n", primes.VerifierName, res.Largest)
		return apperrors.ExitErrorMismatch
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "Verification (%s): largest prime %d confirmed\n", primes.VerifierName, res.Largest)
	}
	return apperrors.ExitSuccess
}
