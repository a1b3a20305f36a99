package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/progress"
	"github.com/agbru/primecalc/internal/ui"
)

// programRef survives the model copies bubbletea makes on every Update, so
// the orchestration goroutines can reach the running program.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the program reference.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program. It is a no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter by turning
// progress updates into bubbletea messages.
//
// ExecuteWorkloads calls DisplayProgress once per workload and waits for it
// to return before starting the next, so next needs no locking.
type TUIProgressReporter struct {
	ref   *programRef
	gen   uint64
	names []string
	next  int
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// newTUIProgressReporter creates a reporter for workloads run in order by
// the run of generation gen.
func newTUIProgressReporter(ref *programRef, workloads []orchestration.Workload, gen uint64) *TUIProgressReporter {
	names := make([]string, len(workloads))
	for i, w := range workloads {
		names[i] = w.Name()
	}
	return &TUIProgressReporter{ref: ref, gen: gen, names: names}
}

// DisplayProgress announces the workload, forwards its updates and sends
// ProgressDoneMsg once the channel is closed.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, updates <-chan progress.Update, numWorkers int, _ io.Writer) {
	defer wg.Done()

	index := t.next
	t.next++
	name := ""
	if index < len(t.names) {
		name = t.names[index]
	}

	agg := orchestration.NewProgressAggregator(numWorkers)
	if agg == nil {
		orchestration.DrainChannel(updates)
		return
	}
	t.ref.Send(WorkloadStartedMsg{Index: index, Name: name, Workers: numWorkers, Generation: t.gen})

	for u := range updates {
		ap := agg.Update(u)
		t.ref.Send(ProgressMsg{
			Worker:          ap.Worker,
			Value:           ap.Value,
			AverageProgress: ap.AverageProgress,
			ETA:             ap.ETA,
			Generation:      t.gen,
		})
	}
	t.ref.Send(ProgressDoneMsg{Generation: t.gen})
}

// TUIResultPresenter implements orchestration.ResultPresenter by sending
// results to the dashboard instead of writing them out.
type TUIResultPresenter struct {
	ref *programRef
	gen uint64
}

var (
	_ orchestration.ResultPresenter   = (*TUIResultPresenter)(nil)
	_ orchestration.DurationFormatter = (*TUIResultPresenter)(nil)
)

// PresentComparisonTable sends the comparison rows.
func (t *TUIResultPresenter) PresentComparisonTable(results []orchestration.RunResult, _ io.Writer) {
	rows := make([]orchestration.RunResult, len(results))
	copy(rows, results)
	t.ref.Send(ComparisonResultsMsg{Results: rows, Generation: t.gen})
}

// PresentResult sends the final result.
func (t *TUIResultPresenter) PresentResult(result orchestration.RunResult, opts orchestration.PresentationOptions, _ io.Writer) {
	t.ref.Send(FinalResultMsg{Result: result, Options: opts, Generation: t.gen})
}

// FormatDuration formats like the CLI.
func (t *TUIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError sends the error to the dashboard and returns its exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	t.ref.Send(ErrorMsg{Err: err, Duration: duration, Generation: t.gen})
	return apperrors.HandleRunError(err, duration, io.Discard, ui.Colors{})
}
