package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/primecalc/internal/format"
)

const (
	// sparklineLabelWidth is the space taken by the label and value around
	// a CPU or MEM sparkline.
	sparklineLabelWidth = 17
	// minSparklineHeight is the chart height below which sparklines are
	// hidden.
	minSparklineHeight = 10
	// minBarWidth is the chart width below which the progress bar is hidden.
	minBarWidth = 20
)

// ChartModel plots the average worker progress of the current workload
// along with system CPU and memory usage.
type ChartModel struct {
	averageProgress float64
	eta             time.Duration
	history         *RingBuffer
	cpuHistory      *RingBuffer
	memHistory      *RingBuffer
	done            bool
	elapsed         time.Duration
	width           int
	height          int
}

// NewChartModel creates an empty chart.
func NewChartModel() ChartModel {
	return ChartModel{
		history:    NewRingBuffer(64),
		cpuHistory: NewRingBuffer(32),
		memHistory: NewRingBuffer(32),
	}
}

// SetSize updates dimensions and resizes the sample buffers to the width.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	c.history.Resize(max(w-4, 1) * 2)
	spark := max(w-sparklineLabelWidth, 1)
	c.cpuHistory.Resize(spark)
	c.memHistory.Resize(spark)
}

// AddDataPoint records a progress update. value is the reporting worker's
// progress; the chart follows the average.
func (c *ChartModel) AddDataPoint(_ float64, average float64, eta time.Duration) {
	c.averageProgress = average
	c.eta = eta
	c.history.Push(average * 100)
}

// StartWorkload clears the progress history for a new workload.
func (c *ChartModel) StartWorkload() {
	c.averageProgress = 0
	c.eta = 0
	c.history.Reset()
}

// UpdateSysStats records a system usage sample.
func (c *ChartModel) UpdateSysStats(cpuPercent, memPercent float64) {
	c.cpuHistory.Push(cpuPercent)
	c.memHistory.Push(memPercent)
}

// SetDone freezes the chart with the total elapsed time.
func (c *ChartModel) SetDone(elapsed time.Duration) {
	c.done = true
	c.elapsed = elapsed
}

// Reset clears every sample.
func (c *ChartModel) Reset() {
	c.StartWorkload()
	c.cpuHistory.Reset()
	c.memHistory.Reset()
	c.done = false
	c.elapsed = 0
}

func (c ChartModel) renderProgressBar() string {
	if c.width < minBarWidth {
		return ""
	}
	return " " + renderBar(c.averageProgress, c.width-14) + fmt.Sprintf(" %5.1f%%", c.averageProgress*100)
}

// View renders the chart.
func (c ChartModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Progress Chart"))

	chartRows := c.height - 6
	if c.height >= minSparklineHeight {
		chartRows -= 2
	}
	if chartRows > 0 {
		for _, line := range RenderBrailleChart(c.history.Slice(), max(c.width-4, 1), chartRows) {
			b.WriteString("\n ")
			b.WriteString(barFillStyle.Render(line))
		}
	}

	if bar := c.renderProgressBar(); bar != "" {
		b.WriteString("\n")
		b.WriteString(bar)
	}

	b.WriteString("\n ")
	if c.done {
		b.WriteString(metricLabelStyle.Render("Total: "))
		b.WriteString(metricValueStyle.Render(format.FormatExecutionDuration(c.elapsed)))
	} else {
		b.WriteString(metricLabelStyle.Render("ETA: "))
		b.WriteString(metricValueStyle.Render(format.FormatETA(c.eta)))
	}

	if c.height >= minSparklineHeight {
		b.WriteString("\n ")
		b.WriteString(metricLabelStyle.Render("CPU "))
		b.WriteString(cpuSparklineStyle.Render(RenderSparkline(c.cpuHistory.Slice())))
		b.WriteString(fmt.Sprintf(" %5.1f%%", c.cpuHistory.Last()))
		b.WriteString("\n ")
		b.WriteString(metricLabelStyle.Render("MEM "))
		b.WriteString(memSparklineStyle.Render(RenderSparkline(c.memHistory.Slice())))
		b.WriteString(fmt.Sprintf(" %5.1f%%", c.memHistory.Last()))
	}

	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(max(c.height-2, 0)).
		Render(b.String())
}
