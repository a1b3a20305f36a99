package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/progress/mocks"
)

func TestFraction(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name                string
		processed, elements uint64
		want                float64
	}{
		{"empty assignment", 0, 0, 1.0},
		{"not started", 0, 10, 0},
		{"half", 5, 10, 0.5},
		{"complete", 10, 10, 1.0},
		{"overshoot clamps", 12, 10, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Fraction(tt.processed, tt.elements); got != tt.want {
				t.Errorf("Fraction(%d, %d) = %f, want %f", tt.processed, tt.elements, got, tt.want)
			}
		})
	}
}

func TestChannelObserverSequence(t *testing.T) {
	t.Parallel()
	ch := make(chan Update, 8)
	o := NewChannelObserver(ch)

	o.WorkerStarted(2, 100)
	o.SliceDone(2, 25, 100)
	o.WorkerDone(2, time.Millisecond)
	close(ch)

	var got []Update
	for u := range ch {
		got = append(got, u)
	}
	want := []Update{
		{Worker: 2, Value: 0},
		{Worker: 2, Value: 0.25},
		{Worker: 2, Value: 1.0, Done: true},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d updates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("update %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// TestChannelObserverNeverBlocks verifies a full channel drops updates
// instead of stalling the worker.
func TestChannelObserverNeverBlocks(t *testing.T) {
	t.Parallel()
	ch := make(chan Update, 1)
	o := NewChannelObserver(ch)

	done := make(chan struct{})
	go func() {
		for i := uint64(0); i < 1000; i++ {
			o.SliceDone(0, i, 1000)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ChannelObserver blocked on a full channel")
	}
	if len(ch) != 1 {
		t.Errorf("channel length = %d, want 1", len(ch))
	}
}

func TestLoggingObserverThreshold(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, "test")
	o := NewLoggingObserver(logger, 0.5)

	o.WorkerStarted(0, 10)
	for i := uint64(1); i <= 10; i++ {
		o.SliceDone(0, i, 10)
	}
	o.WorkerDone(0, time.Second)

	out := buf.String()
	if n := strings.Count(out, "worker progress"); n != 2 {
		t.Errorf("progress lines = %d, want 2 (first slice and +50%%)\n%s", n, out)
	}
	if !strings.Contains(out, "worker started") || !strings.Contains(out, "worker done") {
		t.Errorf("missing lifecycle lines:\n%s", out)
	}
}

func TestLoggingObserverDefaultThreshold(t *testing.T) {
	t.Parallel()
	o := NewLoggingObserver(logging.Nop(), 0)
	if o.threshold != 0.1 {
		t.Errorf("threshold = %f, want 0.1", o.threshold)
	}
}

func TestSubjectFansOut(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	first := mocks.NewMockObserver(ctrl)
	second := mocks.NewMockObserver(ctrl)

	for _, m := range []*mocks.MockObserver{first, second} {
		gomock.InOrder(
			m.EXPECT().WorkerStarted(1, uint64(40)),
			m.EXPECT().SliceDone(1, uint64(20), uint64(40)),
			m.EXPECT().WorkerDone(1, 3*time.Second),
		)
	}

	s := NewSubject()
	s.Register(first)
	s.Register(nil)
	s.Register(second)
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	s.WorkerStarted(1, 40)
	s.SliceDone(1, 20, 40)
	s.WorkerDone(1, 3*time.Second)
}

// TestSubjectConcurrentRegister exercises Register against concurrent
// dispatch. Run with -race.
func TestSubjectConcurrentRegister(t *testing.T) {
	s := NewSubject()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Register(NewNoOpObserver())
		}()
		go func(id int) {
			defer wg.Done()
			s.SliceDone(id, 1, 2)
		}(i)
	}
	wg.Wait()
	if s.Len() != 50 {
		t.Errorf("Len() = %d, want 50", s.Len())
	}
}
