package tui

import (
	"fmt"
	"strings"
)

// laggardGap is how far below the average a worker must fall before its
// bar is highlighted.
const laggardGap = 0.25

// WorkersModel shows one progress bar per worker of the running workload.
type WorkersModel struct {
	workload string
	index    int
	total    int
	values   []float64
	width    int
	height   int
}

// NewWorkersModel creates an empty workers panel for total workloads.
func NewWorkersModel(total int) WorkersModel {
	return WorkersModel{total: total}
}

// SetSize updates dimensions.
func (w *WorkersModel) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// Start resets the bars for a new workload.
func (w *WorkersModel) Start(msg WorkloadStartedMsg) {
	w.workload = msg.Name
	w.index = msg.Index
	w.values = make([]float64, max(msg.Workers, 0))
}

// Complete fills every bar once the workload's updates have ended.
func (w *WorkersModel) Complete() {
	for i := range w.values {
		w.values[i] = 1
	}
}

// Update records a worker's progress. Out-of-range workers are ignored.
func (w *WorkersModel) Update(msg ProgressMsg) {
	if msg.Worker < 0 || msg.Worker >= len(w.values) {
		return
	}
	w.values[msg.Worker] = min(max(msg.Value, 0), 1)
}

// Average returns the mean progress of all workers.
func (w WorkersModel) Average() float64 {
	if len(w.values) == 0 {
		return 0
	}
	var total float64
	for _, v := range w.values {
		total += v
	}
	return total / float64(len(w.values))
}

// Reset clears the panel.
func (w *WorkersModel) Reset() {
	w.workload = ""
	w.index = 0
	w.values = nil
}

// View renders the panel. Workers that do not fit are summarized on the
// last line.
func (w WorkersModel) View() string {
	var b strings.Builder
	title := "Workers"
	if w.workload != "" {
		title = fmt.Sprintf("Workers: %s (%d/%d)", w.workload, w.index+1, w.total)
	}
	b.WriteString(titleStyle.Render(title))

	rows := max(w.height-3, 1)
	barWidth := max(w.width-18, 4)
	avg := w.Average()
	for i, v := range w.values {
		if i == rows-1 && len(w.values) > rows {
			b.WriteString("\n")
			b.WriteString(metricLabelStyle.Render(fmt.Sprintf(" ... %d more", len(w.values)-i)))
			break
		}
		label := metricLabelStyle.Render(fmt.Sprintf(" #%-3d", i))
		if v+laggardGap < avg {
			label = laggardStyle.Render(fmt.Sprintf(" #%-3d", i))
		}
		b.WriteString("\n")
		b.WriteString(label)
		b.WriteString(" ")
		b.WriteString(renderBar(v, barWidth))
		b.WriteString(fmt.Sprintf(" %5.1f%%", v*100))
	}

	return panelStyle.
		Width(max(w.width-2, 0)).
		Height(max(w.height-2, 0)).
		Render(b.String())
}

// renderBar draws a bar of the given width filled to fraction v.
func renderBar(v float64, width int) string {
	filled := int(min(max(v, 0), 1) * float64(width))
	return barFillStyle.Render(strings.Repeat("█", filled)) +
		barTrackStyle.Render(strings.Repeat("░", width-filled))
}
