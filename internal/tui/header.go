package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/coder/quartz"

	"github.com/agbru/primecalc/internal/format"
)

// HeaderModel renders the top bar: title, version, run description and
// elapsed time.
type HeaderModel struct {
	clock     quartz.Clock
	startTime time.Time
	endTime   time.Time
	version   string
	subject   string
	width     int
}

// NewHeaderModel creates a header. subject describes the run, for example
// "count_primes [1, 1000]".
func NewHeaderModel(version, subject string, clock quartz.Clock) HeaderModel {
	return HeaderModel{
		clock:     clock,
		startTime: clock.Now(),
		version:   version,
		subject:   subject,
	}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() {
	h.endTime = h.clock.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = h.clock.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the run started, frozen once done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return h.clock.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "primecalc monitor"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")

	row := titleStyle.Render(titleText)
	if h.subject != "" {
		row += pipe + versionStyle.Render(h.subject)
	}
	row += pipe + elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))

	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += spaces(gap)
	}
	return headerStyle.Width(h.width).Render(row)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%*s", n, "")
}
