package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders key hints and the run status.
type FooterModel struct {
	keys   KeyMap
	paused bool
	done   bool
	failed bool
	width  int
}

// NewFooterModel creates a footer listing the bindings of keys.
func NewFooterModel(keys KeyMap) FooterModel {
	return FooterModel{keys: keys}
}

// SetPaused toggles the paused status.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone marks the run as finished.
func (f *FooterModel) SetDone(d bool) { f.done = d }

// SetError marks the run as failed.
func (f *FooterModel) SetError(e bool) { f.failed = e }

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// Status returns the status label without styling.
func (f FooterModel) Status() string {
	switch {
	case f.failed:
		return "ERROR"
	case f.done:
		return "DONE"
	case f.paused:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	hints := make([]string, 0, len(f.keys.ShortHelp()))
	for _, b := range f.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	left := strings.Join(hints, footerDescStyle.Render("  "))

	var status string
	switch label := f.Status(); label {
	case "ERROR":
		status = statusErrorStyle.Render(label)
	case "DONE":
		status = statusDoneStyle.Render(label)
	case "PAUSED":
		status = statusPausedStyle.Render(label)
	default:
		status = statusRunningStyle.Render(label)
	}

	gap := f.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	return " " + left + spaces(max(gap, 1)) + status
}
