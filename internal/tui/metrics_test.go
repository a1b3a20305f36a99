package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
)

func TestMetricsModel_UpdateMemStats(t *testing.T) {
	m := NewMetricsModel(quartz.NewMock(t), 1000, true)
	msg := MemStatsMsg{Alloc: 50 << 20, HeapInuse: 80 << 20, NumGC: 10, NumGoroutine: 8}
	m.UpdateMemStats(msg)

	if m.alloc != msg.Alloc || m.heapInuse != msg.HeapInuse || m.numGC != msg.NumGC || m.numGoroutine != msg.NumGoroutine {
		t.Errorf("expected stats copied from %+v", msg)
	}
}

func TestMetricsModel_UpdateProgress(t *testing.T) {
	clock := quartz.NewMock(t)
	m := NewMetricsModel(clock, 1000, false)

	clock.Advance(time.Second)
	m.UpdateProgress(0.5)
	if m.speed != 500 {
		t.Errorf("expected 500 elements/s, got %f", m.speed)
	}

	// A second update: 0.25 over 0.5s is 500 elements/s again.
	clock.Advance(500 * time.Millisecond)
	m.UpdateProgress(0.75)
	if m.speed != 500 {
		t.Errorf("expected smoothed speed 500, got %f", m.speed)
	}
}

func TestMetricsModel_UpdateProgress_Smoothing(t *testing.T) {
	clock := quartz.NewMock(t)
	m := NewMetricsModel(clock, 1000, false)

	clock.Advance(time.Second)
	m.UpdateProgress(0.1) // 100/s
	clock.Advance(time.Second)
	m.UpdateProgress(0.6) // 500/s instant

	want := speedSmoothing*100 + (1-speedSmoothing)*500
	if diff := m.speed - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected %f, got %f", want, m.speed)
	}
}

func TestMetricsModel_UpdateProgress_IgnoresBursts(t *testing.T) {
	clock := quartz.NewMock(t)
	m := NewMetricsModel(clock, 1000, false)

	clock.Advance(10 * time.Millisecond)
	m.UpdateProgress(0.5)
	if m.speed != 0 || m.lastProgress != 0 {
		t.Error("expected updates within 50ms to be folded into the next one")
	}
}

func TestMetricsModel_StartWorkload(t *testing.T) {
	clock := quartz.NewMock(t)
	m := NewMetricsModel(clock, 1000, false)
	clock.Advance(time.Second)
	m.UpdateProgress(1)

	m.StartWorkload()
	clock.Advance(time.Second)
	m.UpdateProgress(0.2)

	if m.lastProgress != 0.2 {
		t.Errorf("expected progress baseline reset, got %f", m.lastProgress)
	}
}

func TestMetricsModel_SetLargest_Monotonic(t *testing.T) {
	m := NewMetricsModel(quartz.NewMock(t), 100, true)
	m.SetLargest(97)
	m.SetLargest(89)
	if m.largest != 97 {
		t.Errorf("expected 97 kept, got %d", m.largest)
	}
}

func TestMetricsModel_View(t *testing.T) {
	m := NewMetricsModel(quartz.NewMock(t), 100, true)
	m.SetSize(60, 6)
	m.UpdateMemStats(MemStatsMsg{Alloc: 2048, HeapInuse: 4096, NumGC: 3, NumGoroutine: 5})

	view := m.View()
	for _, want := range []string{"Heap:", "GC:", "Speed:", "Goroutines:", "Largest:", "none yet"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}

	m.SetLargest(1_000_003)
	if !strings.Contains(m.View(), "1,000,003") {
		t.Error("expected the largest prime with separators")
	}
}

func TestMetricsModel_View_SumHidesLargest(t *testing.T) {
	m := NewMetricsModel(quartz.NewMock(t), 100, false)
	m.SetSize(60, 6)
	if strings.Contains(m.View(), "Largest:") {
		t.Error("expected no largest prime line in sum mode")
	}
}

func TestFormatSpeed(t *testing.T) {
	if got := formatSpeed(0); got != "-" {
		t.Errorf("expected -, got %q", got)
	}
	if got := formatSpeed(12345.6); got != "12,345/s" {
		t.Errorf("expected 12,345/s, got %q", got)
	}
}
