package progress

import (
	"sync"
	"time"

	"github.com/agbru/primecalc/internal/logging"
)

// Update is a snapshot of one worker's advancement.
type Update struct {
	// Worker is the index of the reporting worker.
	Worker int
	// Value is the fraction of the worker's elements already folded (0.0 to 1.0).
	Value float64
	// Done is set on the last update a worker emits.
	Done bool
}

// Observer receives lifecycle events from workers. Methods are invoked
// concurrently from worker goroutines.
type Observer interface {
	// WorkerStarted is called once before the worker folds its first slice.
	WorkerStarted(worker int, elements uint64)
	// SliceDone is called after each slice with the running element count.
	SliceDone(worker int, processed, elements uint64)
	// WorkerDone is called once after the worker's last slice.
	WorkerDone(worker int, elapsed time.Duration)
}

// Fraction returns processed/elements clamped to [0, 1]. An empty
// assignment counts as complete.
func Fraction(processed, elements uint64) float64 {
	if elements == 0 || processed >= elements {
		return 1.0
	}
	return float64(processed) / float64(elements)
}

// NoOpObserver ignores every event.
type NoOpObserver struct{}

// NewNoOpObserver returns an observer that does nothing.
func NewNoOpObserver() NoOpObserver { return NoOpObserver{} }

func (NoOpObserver) WorkerStarted(int, uint64)     {}
func (NoOpObserver) SliceDone(int, uint64, uint64) {}
func (NoOpObserver) WorkerDone(int, time.Duration) {}

//go:generate mockgen -destination=mocks/mock_observer.go -package=mocks github.com/agbru/primecalc/internal/progress Observer

// ChannelObserver forwards updates to a channel using non-blocking sends.
// Any update, Done included, is dropped when the channel is full, so
// consumers mark every worker complete once the channel is closed.
type ChannelObserver struct {
	ch chan<- Update
}

// NewChannelObserver returns an observer writing to ch.
func NewChannelObserver(ch chan<- Update) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

func (o *ChannelObserver) send(u Update) {
	select {
	case o.ch <- u:
	default:
	}
}

// WorkerStarted emits a zero-progress update.
func (o *ChannelObserver) WorkerStarted(worker int, elements uint64) {
	o.send(Update{Worker: worker, Value: Fraction(0, elements)})
}

// SliceDone emits the worker's current fraction.
func (o *ChannelObserver) SliceDone(worker int, processed, elements uint64) {
	o.send(Update{Worker: worker, Value: Fraction(processed, elements)})
}

// WorkerDone emits a completed update.
func (o *ChannelObserver) WorkerDone(worker int, _ time.Duration) {
	o.send(Update{Worker: worker, Value: 1.0, Done: true})
}

// LoggingObserver writes worker progress to a logger at debug level,
// emitting a SliceDone line only when the fraction has advanced by at
// least Threshold since the worker's previous line.
type LoggingObserver struct {
	logger    logging.Logger
	threshold float64

	mu   sync.Mutex
	last map[int]float64
}

// NewLoggingObserver creates a logging observer. A threshold <= 0 defaults
// to 0.1 (one line per 10%).
func NewLoggingObserver(logger logging.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = 0.1
	}
	return &LoggingObserver{logger: logger, threshold: threshold, last: make(map[int]float64)}
}

func (o *LoggingObserver) WorkerStarted(worker int, elements uint64) {
	o.logger.Debug("worker started", logging.Int("worker", worker), logging.Uint64("elements", elements))
}

func (o *LoggingObserver) SliceDone(worker int, processed, elements uint64) {
	v := Fraction(processed, elements)
	o.mu.Lock()
	prev, seen := o.last[worker]
	emit := !seen || v-prev >= o.threshold
	if emit {
		o.last[worker] = v
	}
	o.mu.Unlock()
	if emit {
		o.logger.Debug("worker progress", logging.Int("worker", worker), logging.Float64("progress", v))
	}
}

func (o *LoggingObserver) WorkerDone(worker int, elapsed time.Duration) {
	o.logger.Debug("worker done", logging.Int("worker", worker), logging.Duration("elapsed", elapsed))
}

// Subject fans events out to a set of observers.
type Subject struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewSubject returns an empty subject.
func NewSubject() *Subject { return &Subject{} }

// Register adds an observer. Nil observers are ignored.
func (s *Subject) Register(o Observer) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Len returns the number of registered observers.
func (s *Subject) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

func (s *Subject) snapshot() []Observer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.observers
}

func (s *Subject) WorkerStarted(worker int, elements uint64) {
	for _, o := range s.snapshot() {
		o.WorkerStarted(worker, elements)
	}
}

func (s *Subject) SliceDone(worker int, processed, elements uint64) {
	for _, o := range s.snapshot() {
		o.SliceDone(worker, processed, elements)
	}
}

func (s *Subject) WorkerDone(worker int, elapsed time.Duration) {
	for _, o := range s.snapshot() {
		o.WorkerDone(worker, elapsed)
	}
}

var (
	_ Observer = NoOpObserver{}
	_ Observer = (*ChannelObserver)(nil)
	_ Observer = (*LoggingObserver)(nil)
	_ Observer = (*Subject)(nil)
)
