// Package extremum provides a concurrency-safe holder for a single "best so
// far" value shared by many workers.
package extremum

import (
	"sync"
	"sync/atomic"
)

// Direction selects whether a Tracker keeps the largest or smallest value.
type Direction int

const (
	// Max keeps the largest candidate seen.
	Max Direction = iota
	// Min keeps the smallest candidate seen.
	Min
)

// Tracker holds one uint64 extremum. Updates use a double-checked protocol:
// an atomic read rejects candidates that cannot win without taking the lock,
// and the comparison is repeated under the lock before writing so that a
// slower writer never overwrites a better value stored in the meantime.
//
// The zero value is a Max tracker with nothing recorded.
type Tracker struct {
	dir   Direction
	value atomic.Uint64
	found atomic.Bool
	mu    sync.Mutex
}

// NewMax returns a tracker for the largest value.
func NewMax() *Tracker { return &Tracker{dir: Max} }

// NewMin returns a tracker for the smallest value.
func NewMin() *Tracker {
	t := &Tracker{dir: Min}
	t.Reset()
	return t
}

// better reports whether c beats the stored value v.
func (t *Tracker) better(c, v uint64) bool {
	if t.dir == Min {
		return c < v
	}
	return c > v
}

// Update records candidate if it beats the current value and reports
// whether it was stored.
func (t *Tracker) Update(candidate uint64) bool {
	if t.found.Load() && !t.better(candidate, t.value.Load()) {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.found.Load() && !t.better(candidate, t.value.Load()) {
		return false
	}
	t.value.Store(candidate)
	t.found.Store(true)
	return true
}

// UpdateIfGreater is Update for Max trackers. It panics on a Min tracker.
func (t *Tracker) UpdateIfGreater(candidate uint64) bool {
	if t.dir != Max {
		panic("extremum: UpdateIfGreater on a Min tracker")
	}
	return t.Update(candidate)
}

// Load returns the current value, or the initial value if nothing has been
// recorded (0 for Max, math.MaxUint64 for Min).
func (t *Tracker) Load() uint64 { return t.value.Load() }

// Found reports whether any candidate has been recorded since the last Reset.
func (t *Tracker) Found() bool { return t.found.Load() }

// Reset forgets the recorded value.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.found.Store(false)
	if t.dir == Min {
		t.value.Store(^uint64(0))
	} else {
		t.value.Store(0)
	}
}
