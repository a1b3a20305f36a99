package orchestration

import (
	"time"

	"github.com/coder/quartz"

	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/progress"
)

// ProgressAggregator folds per-worker updates into an average and an ETA.
// Both the CLI and the TUI use it.
type ProgressAggregator struct {
	state      *format.ProgressWithETA
	numWorkers int
}

// NewProgressAggregator returns nil if numWorkers <= 0.
func NewProgressAggregator(numWorkers int) *ProgressAggregator {
	return NewProgressAggregatorClock(numWorkers, quartz.NewReal())
}

// NewProgressAggregatorClock is NewProgressAggregator with an explicit clock.
func NewProgressAggregatorClock(numWorkers int, clock quartz.Clock) *ProgressAggregator {
	if numWorkers <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:      format.NewProgressWithETAClock(numWorkers, clock),
		numWorkers: numWorkers,
	}
}

// AggregatedProgress is the result of processing one update.
type AggregatedProgress struct {
	Worker          int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// Update records u and returns the new aggregate.
func (a *ProgressAggregator) Update(u progress.Update) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(u.Worker, u.Value)
	return AggregatedProgress{Worker: u.Worker, Value: u.Value, AverageProgress: avg, ETA: eta}
}

// Complete marks every worker finished. Call it when the update channel
// closes: the observer may have dropped a worker's final update.
func (a *ProgressAggregator) Complete() { a.state.Complete() }

// CalculateAverage returns the current average without updating.
func (a *ProgressAggregator) CalculateAverage() float64 { return a.state.CalculateAverage() }

// GetETA returns the current ETA without updating.
func (a *ProgressAggregator) GetETA() time.Duration { return a.state.GetETA() }

// Elapsed returns the time since the aggregator was created.
func (a *ProgressAggregator) Elapsed() time.Duration { return a.state.Elapsed() }

// Workers returns each worker's last known fraction.
func (a *ProgressAggregator) Workers() []float64 { return a.state.Snapshot() }

// NumWorkers returns the number of tracked workers.
func (a *ProgressAggregator) NumWorkers() int { return a.numWorkers }

// DrainChannel discards every update until the channel is closed.
func DrainChannel(updates <-chan progress.Update) {
	for range updates {
	}
}
