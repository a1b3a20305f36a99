package tui

import (
	"time"

	"github.com/agbru/primecalc/internal/orchestration"
)

// Messages sent by a run carry the generation of the run that produced
// them. A restart bumps the model's generation, so messages from the
// previous run are dropped.

// ProgressMsg carries one aggregated worker progress update.
type ProgressMsg struct {
	Worker          int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
	Generation      uint64
}

// ProgressDoneMsg signals that a workload's progress channel was closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// WorkloadStartedMsg is sent when a workload's progress display begins.
type WorkloadStartedMsg struct {
	Index      int
	Name       string
	Workers    int
	Generation uint64
}

// ComparisonResultsMsg carries the results of a multi-workload run.
type ComparisonResultsMsg struct {
	Results    []orchestration.RunResult
	Generation uint64
}

// FinalResultMsg carries the result presented to the user.
type FinalResultMsg struct {
	Result     orchestration.RunResult
	Options    orchestration.PresentationOptions
	Generation uint64
}

// ErrorMsg reports a failed run.
type ErrorMsg struct {
	Err        error
	Duration   time.Duration
	Generation uint64
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapInuse    uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg carries a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// LargestPrimeMsg carries the process-wide largest prime seen so far.
type LargestPrimeMsg uint64

// CalculationCompleteMsg is sent once every workload has finished and the
// results were analyzed. Summary holds the status lines written during
// analysis.
type CalculationCompleteMsg struct {
	ExitCode   int
	Generation uint64
	Summary    string
}

// ContextCancelledMsg is sent when the run context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
