package orchestration

import (
	"testing"
	"time"

	"github.com/coder/quartz"

	"github.com/agbru/primecalc/internal/progress"
)

func TestNewProgressAggregator(t *testing.T) {
	t.Parallel()
	if agg := NewProgressAggregator(3); agg == nil || agg.NumWorkers() != 3 {
		t.Fatalf("NewProgressAggregator(3) = %+v", agg)
	}
	for _, n := range []int{0, -1} {
		if agg := NewProgressAggregator(n); agg != nil {
			t.Errorf("NewProgressAggregator(%d) should be nil", n)
		}
	}
}

func TestProgressAggregatorUpdate(t *testing.T) {
	t.Parallel()
	agg := NewProgressAggregator(2)

	ap := agg.Update(progress.Update{Worker: 0, Value: 0.5})
	if ap.Worker != 0 || ap.Value != 0.5 {
		t.Errorf("got %+v", ap)
	}
	if ap.AverageProgress != 0.25 {
		t.Errorf("AverageProgress = %f, want 0.25", ap.AverageProgress)
	}

	ap = agg.Update(progress.Update{Worker: 1, Value: 0.5})
	if ap.AverageProgress != 0.5 {
		t.Errorf("AverageProgress = %f, want 0.5", ap.AverageProgress)
	}
	if got := agg.Workers(); len(got) != 2 || got[0] != 0.5 || got[1] != 0.5 {
		t.Errorf("Workers() = %v", got)
	}
}

func TestProgressAggregatorIgnoresUnknownWorker(t *testing.T) {
	t.Parallel()
	agg := NewProgressAggregator(2)
	agg.Update(progress.Update{Worker: 7, Value: 1})
	if avg := agg.CalculateAverage(); avg != 0 {
		t.Errorf("average = %f, want 0", avg)
	}
}

func TestProgressAggregatorETA(t *testing.T) {
	t.Parallel()
	mClock := quartz.NewMock(t)
	agg := NewProgressAggregatorClock(1, mClock)

	if eta := agg.GetETA(); eta != 0 {
		t.Errorf("initial ETA = %v, want 0", eta)
	}
	mClock.Advance(time.Second)
	ap := agg.Update(progress.Update{Worker: 0, Value: 0.25})
	// 0.25 per second leaves 3 seconds.
	if ap.ETA != 3*time.Second {
		t.Errorf("ETA = %v, want 3s", ap.ETA)
	}
	if agg.Elapsed() != time.Second {
		t.Errorf("Elapsed = %v, want 1s", agg.Elapsed())
	}
	ap = agg.Update(progress.Update{Worker: 0, Value: 1, Done: true})
	if ap.ETA != 0 {
		t.Errorf("ETA at completion = %v, want 0", ap.ETA)
	}
}

func TestProgressAggregatorComplete(t *testing.T) {
	t.Parallel()
	agg := NewProgressAggregator(3)
	agg.Update(progress.Update{Worker: 1, Value: 0.2})
	agg.Complete()
	if avg := agg.CalculateAverage(); avg != 1 {
		t.Errorf("average after Complete = %f, want 1", avg)
	}
	for i, v := range agg.Workers() {
		if v != 1 {
			t.Errorf("worker %d = %f, want 1", i, v)
		}
	}
}

func TestDrainChannel(t *testing.T) {
	t.Parallel()
	ch := make(chan progress.Update, 3)
	ch <- progress.Update{}
	ch <- progress.Update{}
	close(ch)
	DrainChannel(ch)
	if len(ch) != 0 {
		t.Errorf("channel still holds %d updates", len(ch))
	}
}
