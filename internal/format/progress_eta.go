package format

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// ProgressState tracks the completion fraction of each worker.
type ProgressState struct {
	mu         sync.Mutex
	progresses []float64
	numWorkers int
}

// NewProgressState creates a state for numWorkers workers.
func NewProgressState(numWorkers int) *ProgressState {
	if numWorkers < 0 {
		numWorkers = 0
	}
	return &ProgressState{progresses: make([]float64, numWorkers), numWorkers: numWorkers}
}

// Update records the fraction for one worker. Out-of-range indices are
// ignored and values are clamped to [0, 1].
func (ps *ProgressState) Update(index int, value float64) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if index < 0 || index >= len(ps.progresses) {
		return
	}
	ps.progresses[index] = clamp01(value)
}

// Complete marks every worker as finished. Reporters call it once the
// update stream ends, since a dropped final update would otherwise leave a
// worker short of 1.
func (ps *ProgressState) Complete() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for i := range ps.progresses {
		ps.progresses[i] = 1
	}
}

// CalculateAverage returns the mean fraction across all workers.
func (ps *ProgressState) CalculateAverage() float64 {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.averageLocked()
}

// Snapshot returns a copy of every worker's fraction.
func (ps *ProgressState) Snapshot() []float64 {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	out := make([]float64, len(ps.progresses))
	copy(out, ps.progresses)
	return out
}

func (ps *ProgressState) averageLocked() float64 {
	if ps.numWorkers == 0 {
		return 0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(ps.numWorkers)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// maxETA caps estimates produced by very slow early progress.
const maxETA = 24 * time.Hour

// ProgressWithETA extends ProgressState with an exponentially smoothed
// progress rate used to estimate the remaining time.
type ProgressWithETA struct {
	*ProgressState
	clock        quartz.Clock
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
	progressRate float64 // fraction per second
}

// NewProgressWithETA creates an ETA tracker using the real clock.
func NewProgressWithETA(numWorkers int) *ProgressWithETA {
	return NewProgressWithETAClock(numWorkers, quartz.NewReal())
}

// NewProgressWithETAClock creates an ETA tracker driven by clock.
func NewProgressWithETAClock(numWorkers int, clock quartz.Clock) *ProgressWithETA {
	now := clock.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numWorkers),
		clock:         clock,
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records a worker's fraction and returns the new average
// and the estimated remaining time.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	p.ProgressState.mu.Lock()
	defer p.ProgressState.mu.Unlock()
	now := p.clock.Now()
	if dt := now.Sub(p.lastUpdate).Seconds(); dt > 0 && avg > p.lastProgress {
		instant := (avg - p.lastProgress) / dt
		const alpha = 0.3
		if p.progressRate == 0 {
			p.progressRate = instant
		} else {
			p.progressRate = alpha*instant + (1-alpha)*p.progressRate
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.etaLocked(avg)
}

// GetETA returns the current estimate without recording progress.
func (p *ProgressWithETA) GetETA() time.Duration {
	p.ProgressState.mu.Lock()
	defer p.ProgressState.mu.Unlock()
	return p.etaLocked(p.averageLocked())
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration {
	return p.clock.Since(p.startTime)
}

func (p *ProgressWithETA) etaLocked(avg float64) time.Duration {
	if p.progressRate <= 0 || avg >= 1 {
		return 0
	}
	seconds := (1 - avg) / p.progressRate
	eta := time.Duration(seconds * float64(time.Second))
	if eta > maxETA || eta < 0 {
		return maxETA
	}
	return eta
}

// FormatETA renders an estimate for display.
func FormatETA(eta time.Duration) string {
	if eta <= 0 {
		return "calculating..."
	}
	if eta < time.Second {
		return "< 1s"
	}
	eta = eta.Round(time.Second)
	h := int(eta / time.Hour)
	m := int((eta % time.Hour) / time.Minute)
	s := int((eta % time.Minute) / time.Second)
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// ProgressBar renders a bar of length cells for a fraction in [0, 1].
func ProgressBar(progress float64, length int) string {
	if length <= 0 {
		return ""
	}
	filled := int(clamp01(progress) * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar] 42.0% ETA: 3s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	if progress >= 1 {
		return fmt.Sprintf("[%s] %5.1f%% ETA: done", ProgressBar(progress, width), 100.0)
	}
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, FormatETA(eta))
}
