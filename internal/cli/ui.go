package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/primecalc/internal/config"
	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/parallel"
	"github.com/agbru/primecalc/internal/progress"
	"github.com/agbru/primecalc/internal/ui"
)

const (
	// ProgressRefreshRate is how often the spinner suffix is redrawn.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts the terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with the average worker progress and an
// ETA until updates is closed, then prints the final line and calls
// wg.Done.
func DisplayProgress(wg *sync.WaitGroup, updates <-chan progress.Update, numWorkers int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numWorkers)
	if agg == nil {
		orchestration.DrainChannel(updates)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case u, ok := <-updates:
			if !ok {
				agg.Complete()
				s.UpdateSuffix(progressSuffix(agg.CalculateAverage(), 0, numWorkers))
				return
			}
			agg.Update(u)
		case <-ticker.C:
			s.UpdateSuffix(progressSuffix(agg.CalculateAverage(), agg.GetETA(), numWorkers))
		}
	}
}

func progressSuffix(avg float64, eta time.Duration, numWorkers int) string {
	label := "worker"
	if numWorkers > 1 {
		label = "workers"
	}
	return fmt.Sprintf(" %d %s %s", numWorkers, label, format.FormatProgressBarWithETA(avg, eta, ProgressBarWidth))
}

// DisplayResult writes the result of a run. With opts.Details it adds the
// per-worker breakdown.
func DisplayResult(res orchestration.RunResult, opts orchestration.PresentationOptions, out io.Writer) {
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n--- Result ---\n")
	if res.Mode == config.ModeSum {
		fmt.Fprintf(out, "Sum of A[0:%s]: %s\n",
			format.FormatUint(uint64(opts.Length)), ui.Paint(theme.Accent, format.FormatNumberString(res.Value())))
	} else {
		fmt.Fprintf(out, "Primes in [%s, %s]: %s\n",
			format.FormatUint(opts.A), format.FormatUint(opts.B), ui.Paint(theme.Accent, format.FormatUint(res.Count)))
		if res.Largest == 0 {
			fmt.Fprintf(out, "Largest prime: %s\n", ui.Paint(theme.Muted, "none"))
		} else {
			fmt.Fprintf(out, "Largest prime: %s\n", ui.Paint(theme.Accent, format.FormatUint(res.Largest)))
		}
	}
	fmt.Fprintf(out, "Strategy: %s, run time: %s\n", res.Name, format.FormatExecutionDuration(res.Duration))

	if !opts.Details || len(res.Workers) == 0 {
		return
	}
	fmt.Fprintf(out, "\n--- Worker Breakdown ---\n")
	fmt.Fprintf(out, "%-8s %12s %8s %12s\n", "Worker", "Elements", "Slices", "Duration")
	for _, w := range res.Workers {
		fmt.Fprintf(out, "%-8d %12s %8d %12s\n",
			w.Worker, format.FormatUint(w.Elements), w.Slices, format.FormatExecutionDuration(w.Duration))
	}
	slowest := parallel.Slowest(res.Workers)
	fmt.Fprintf(out, "Slowest worker: #%d (%s)\n", slowest.Worker, format.FormatExecutionDuration(slowest.Duration))
	fmt.Fprintf(out, "Load imbalance (max/mean): %s\n", imbalanceText(res.Imbalance))
}

// imbalanceWarning is the ratio above which the imbalance is highlighted.
const imbalanceWarning = 1.5

func imbalanceText(ratio float64) string {
	s := fmt.Sprintf("%.2f", ratio)
	if ratio > imbalanceWarning {
		return ui.Paint(ui.GetCurrentTheme().Warning, s)
	}
	return s
}
