package extremum

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_MaxSequential(t *testing.T) {
	t.Parallel()
	tr := NewMax()
	assert.False(t, tr.Found())
	assert.Zero(t, tr.Load())

	assert.True(t, tr.UpdateIfGreater(5))
	assert.False(t, tr.UpdateIfGreater(3))
	assert.False(t, tr.UpdateIfGreater(5))
	assert.True(t, tr.UpdateIfGreater(997))
	assert.Equal(t, uint64(997), tr.Load())
	assert.True(t, tr.Found())
}

func TestTracker_ZeroValueIsMax(t *testing.T) {
	t.Parallel()
	var tr Tracker
	assert.True(t, tr.Update(0), "first candidate is always recorded")
	assert.True(t, tr.Found())
	assert.True(t, tr.UpdateIfGreater(1))
	assert.Equal(t, uint64(1), tr.Load())
}

func TestTracker_Min(t *testing.T) {
	t.Parallel()
	tr := NewMin()
	assert.Equal(t, uint64(math.MaxUint64), tr.Load())
	assert.True(t, tr.Update(math.MaxUint64), "MaxUint64 is a valid first minimum")
	assert.True(t, tr.Update(11))
	assert.False(t, tr.Update(13))
	assert.True(t, tr.Update(2))
	assert.Equal(t, uint64(2), tr.Load())

	assert.Panics(t, func() { tr.UpdateIfGreater(100) })
}

func TestTracker_Reset(t *testing.T) {
	t.Parallel()
	tr := NewMax()
	tr.Update(997)
	tr.Reset()
	assert.False(t, tr.Found())
	assert.Zero(t, tr.Load())
	assert.True(t, tr.Update(2), "a smaller value wins after Reset")
}

// TestTracker_HighContention hammers the tracker from many goroutines
// released together and checks the global maximum always survives.
func TestTracker_HighContention(t *testing.T) {
	for round := 0; round < 50; round++ {
		tr := NewMax()
		var wg sync.WaitGroup
		const goroutines = 64
		const perGoroutine = 2000

		barrier := make(chan struct{})
		wg.Add(goroutines)
		for g := 0; g < goroutines; g++ {
			go func(id int) {
				defer wg.Done()
				<-barrier
				for i := 0; i < perGoroutine; i++ {
					tr.UpdateIfGreater(uint64(i*goroutines + id))
				}
			}(g)
		}
		close(barrier)
		wg.Wait()

		want := uint64((perGoroutine-1)*goroutines + goroutines - 1)
		if got := tr.Load(); got != want {
			t.Fatalf("round %d: Load() = %d, want %d", round, got, want)
		}
	}
}

func TestTracker_ConcurrentMin(t *testing.T) {
	tr := NewMin()
	var wg sync.WaitGroup
	for g := 1; g <= 32; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 1000; i >= id; i-- {
				tr.Update(uint64(i))
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, uint64(1), tr.Load())
}

func BenchmarkTracker_UpdateNoWin(b *testing.B) {
	tr := NewMax()
	tr.Update(math.MaxUint64)
	b.RunParallel(func(pb *testing.PB) {
		var i uint64
		for pb.Next() {
			tr.UpdateIfGreater(i)
			i++
		}
	})
}

func BenchmarkTracker_AlwaysLock(b *testing.B) {
	var mu sync.Mutex
	var v uint64
	b.RunParallel(func(pb *testing.PB) {
		var i uint64
		for pb.Next() {
			mu.Lock()
			if i > v {
				v = i
			}
			mu.Unlock()
			i++
		}
	})
}
