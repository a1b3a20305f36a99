package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/coder/quartz"

	"github.com/agbru/primecalc/internal/format"
)

// speedSmoothing weights the previous throughput in the moving average.
const speedSmoothing = 0.7

// MetricsModel displays runtime memory, throughput and the largest prime.
type MetricsModel struct {
	clock        quartz.Clock
	elements     uint64 // elements per workload
	alloc        uint64
	heapInuse    uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int
	speed        float64 // elements per second
	lastProgress float64
	lastUpdate   time.Time
	largest      uint64
	showLargest  bool
	width        int
	height       int
}

// NewMetricsModel creates a metrics panel for workloads of the given size.
// showLargest enables the largest prime line.
func NewMetricsModel(clock quartz.Clock, elements uint64, showLargest bool) MetricsModel {
	return MetricsModel{
		clock:       clock,
		elements:    elements,
		showLargest: showLargest,
		lastUpdate:  clock.Now(),
	}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats stores a runtime memory sample.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapInuse = msg.HeapInuse
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateProgress updates the throughput from the average progress.
// Updates closer than 50ms apart are folded into the next one.
func (m *MetricsModel) UpdateProgress(progress float64) {
	now := m.clock.Now()
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt <= 0.05 {
		return
	}
	if dp := progress - m.lastProgress; dp > 0 {
		instant := dp * float64(m.elements) / dt
		if m.speed > 0 {
			m.speed = speedSmoothing*m.speed + (1-speedSmoothing)*instant
		} else {
			m.speed = instant
		}
	}
	m.lastProgress = progress
	m.lastUpdate = now
}

// StartWorkload restarts the throughput baseline for a new workload.
func (m *MetricsModel) StartWorkload() {
	m.lastProgress = 0
	m.lastUpdate = m.clock.Now()
}

// SetLargest records the largest prime seen. Smaller values are ignored.
func (m *MetricsModel) SetLargest(p uint64) {
	m.largest = max(m.largest, p)
}

// View renders the panel.
func (m MetricsModel) View() string {
	var rows strings.Builder

	pipe := metricLabelStyle.Render(" | ")
	rows.WriteString(fmt.Sprintf("  %s %s%s%s %s",
		metricLabelStyle.Render("Heap:"),
		metricValueStyle.Render(format.FormatBytes(m.alloc)+" / "+format.FormatBytes(m.heapInuse)),
		pipe,
		metricLabelStyle.Render("GC:"),
		metricValueStyle.Render(fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6))))

	colWidth := (m.width - 6) / 2
	rows.WriteString("\n")
	rows.WriteString(formatMetricCol("Speed:", formatSpeed(m.speed), colWidth))
	rows.WriteString(formatMetricCol("Goroutines:", fmt.Sprintf("%d", m.numGoroutine), colWidth))

	if m.showLargest {
		largest := "none yet"
		if m.largest != 0 {
			largest = format.FormatUint(m.largest)
		}
		rows.WriteString("\n")
		rows.WriteString(fmt.Sprintf(" %s %s",
			metricLabelStyle.Render(fmt.Sprintf("%-12s", "Largest:")),
			primeValueStyle.Render(largest)))
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func formatSpeed(perSecond float64) string {
	if perSecond <= 0 {
		return "-"
	}
	return format.FormatUint(uint64(perSecond)) + "/s"
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-12s", label)),
		metricValueStyle.Render(value))
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}
