package tui

import (
	"strings"
	"testing"
)

func TestWorkersModel_StartAndUpdate(t *testing.T) {
	w := NewWorkersModel(2)
	w.SetSize(60, 10)
	w.Start(WorkloadStartedMsg{Index: 1, Name: "contiguous", Workers: 4})

	w.Update(ProgressMsg{Worker: 0, Value: 1})
	w.Update(ProgressMsg{Worker: 3, Value: 0.5})
	w.Update(ProgressMsg{Worker: 9, Value: 0.5}) // out of range
	w.Update(ProgressMsg{Worker: 1, Value: 1.5}) // clamped

	if got := w.Average(); got != (1+1+0+0.5)/4 {
		t.Errorf("expected average 0.625, got %f", got)
	}

	view := w.View()
	if !strings.Contains(view, "contiguous (2/2)") {
		t.Errorf("expected workload title in view, got %q", view)
	}
	if !strings.Contains(view, "100.0%") || !strings.Contains(view, "50.0%") {
		t.Error("expected per-worker percentages")
	}
}

func TestWorkersModel_Overflow(t *testing.T) {
	w := NewWorkersModel(1)
	w.SetSize(60, 6) // three rows
	w.Start(WorkloadStartedMsg{Name: "interleaved", Workers: 8})

	if view := w.View(); !strings.Contains(view, "... 6 more") {
		t.Errorf("expected the hidden workers summarized, got %q", view)
	}
}

func TestWorkersModel_Reset(t *testing.T) {
	w := NewWorkersModel(1)
	w.Start(WorkloadStartedMsg{Name: "interleaved", Workers: 2})
	w.Reset()
	if w.Average() != 0 || w.workload != "" {
		t.Error("expected an empty panel after Reset")
	}
}
