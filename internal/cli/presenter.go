package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/metrics"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/progress"
	"github.com/agbru/primecalc/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, updates <-chan progress.Update, numWorkers int, out io.Writer) {
	DisplayProgress(wg, updates, numWorkers, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for terminal
// output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

// PresentComparisonTable prints one row per run: name, duration, load
// imbalance and status. Padding is computed by hand because the cells
// carry ANSI sequences.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.RunResult, out io.Writer) {
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	nameWidth, durationWidth := len("Strategy"), len("Duration")
	durations := make([]string, len(results))
	for i, res := range results {
		nameWidth = max(nameWidth, len(res.Name))
		durations[i] = format.FormatExecutionDuration(res.Duration)
		durationWidth = max(durationWidth, len(durations[i]))
	}

	fmt.Fprintf(out, "%s%s   %s   %-9s   %s%s\n", theme.Bold,
		padRight("Strategy", nameWidth), padRight("Duration", durationWidth), "Imbalance", "Status", theme.Reset)

	for i, res := range results {
		status := ui.Paint(theme.Success, "OK")
		imbalance := "-"
		if res.Err != nil {
			status = ui.Paint(theme.Error, fmt.Sprintf("Failure (%v)", res.Err))
		} else if len(res.Workers) > 0 {
			imbalance = fmt.Sprintf("%.2f", res.Imbalance)
		}
		fmt.Fprintf(out, "%s   %s   %-9s   %s\n",
			ui.Paint(theme.Accent, res.Name)+padRight("", nameWidth-len(res.Name)),
			padRight(durations[i], durationWidth), imbalance, status)
	}
}

// padRight pads s with spaces to width bytes.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + fmt.Sprintf("%*s", width-len(s), "")
}

// PresentResult prints the final result, or only its value in quiet mode.
func (CLIResultPresenter) PresentResult(result orchestration.RunResult, opts orchestration.PresentationOptions, out io.Writer) {
	if opts.Quiet {
		DisplayQuietResult(out, result)
		return
	}
	DisplayResult(result, opts, out)
}

// FormatDuration formats a duration for display.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError prints err and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleRunError(err, duration, out, ui.Colors{})
}

// DisplayMemoryStats prints the heap usage after a run and what the run
// allocated.
func DisplayMemoryStats(after metrics.MemorySnapshot, delta metrics.MemoryDelta, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(after.HeapAlloc))
	fmt.Fprintf(out, "  Allocated:       %s\n", format.FormatBytes(delta.Allocated))
	fmt.Fprintf(out, "  GC cycles:       %d\n", delta.GCCycles)
	fmt.Fprintf(out, "  Goroutines:      %d\n", after.Goroutines)
}
