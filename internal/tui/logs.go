package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"

	"github.com/agbru/primecalc/internal/config"
	"github.com/agbru/primecalc/internal/format"
)

// maxLogEntries bounds the log history.
const maxLogEntries = 500

// LogsModel is a scrollable event log: workload starts, results and errors.
type LogsModel struct {
	clock   quartz.Clock
	keys    KeyMap
	entries []string
	offset  int // lines scrolled up from the bottom
	width   int
	height  int
}

// NewLogsModel creates an empty log.
func NewLogsModel(clock quartz.Clock, keys KeyMap) LogsModel {
	return LogsModel{clock: clock, keys: keys}
}

// SetSize updates dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width = w
	l.height = h
}

func (l *LogsModel) add(line string) {
	ts := logTimeStyle.Render(l.clock.Now().Format("15:04:05"))
	l.entries = append(l.entries, ts+" "+line)
	if len(l.entries) > maxLogEntries {
		l.entries = l.entries[len(l.entries)-maxLogEntries:]
	}
}

// Len returns the number of entries.
func (l LogsModel) Len() int { return len(l.entries) }

// AddExecutionConfig logs the run parameters.
func (l *LogsModel) AddExecutionConfig(cfg config.AppConfig) {
	switch cfg.Mode {
	case config.ModeSum:
		l.add(fmt.Sprintf("sum of %s elements", format.FormatUint(uint64(max(cfg.Length, 0)))))
	default:
		l.add(fmt.Sprintf("count_primes over [%s, %s]", format.FormatUint(cfg.A), format.FormatUint(cfg.B)))
	}
	l.add(fmt.Sprintf("%d workers, slice length %d, strategy %s", cfg.Workers, cfg.SliceLength, cfg.PartitionStrategy()))
}

// AddWorkloadStart logs the start of a workload.
func (l *LogsModel) AddWorkloadStart(msg WorkloadStartedMsg) {
	l.add(logWorkloadStyle.Render(msg.Name) + fmt.Sprintf(" started on %d workers", msg.Workers))
}

// AddResults logs one line per workload of a comparison.
func (l *LogsModel) AddResults(msg ComparisonResultsMsg) {
	for _, res := range msg.Results {
		name := logWorkloadStyle.Render(fmt.Sprintf("%-12s", res.Name))
		if res.Err != nil {
			l.add(name + " " + logErrorStyle.Render("failed: "+res.Err.Error()))
			continue
		}
		l.add(fmt.Sprintf("%s %s  imbalance %.2f  = %s", name,
			format.FormatExecutionDuration(res.Duration), res.Imbalance, res.Value()))
	}
}

// AddFinalResult logs the presented result.
func (l *LogsModel) AddFinalResult(msg FinalResultMsg) {
	res := msg.Result
	switch msg.Options.Mode {
	case config.ModeSum:
		l.add(logSuccessStyle.Render(fmt.Sprintf("sum(A[0:%s]) = %s",
			format.FormatUint(uint64(max(msg.Options.Length, 0))), res.Value())))
	default:
		l.add(logSuccessStyle.Render(fmt.Sprintf("%s primes in [%s, %s]",
			format.FormatUint(res.Count), format.FormatUint(msg.Options.A), format.FormatUint(msg.Options.B))))
		if res.Largest != 0 {
			l.add(logSuccessStyle.Render("largest prime " + format.FormatUint(res.Largest)))
		}
	}
	l.add(fmt.Sprintf("%s finished in %s", res.Name, format.FormatExecutionDuration(res.Duration)))
}

// AddError logs a failure.
func (l *LogsModel) AddError(msg ErrorMsg) {
	l.add(logErrorStyle.Render(fmt.Sprintf("error after %s: %v", format.FormatExecutionDuration(msg.Duration), msg.Err)))
}

// AddSummary logs each non-empty line of s.
func (l *LogsModel) AddSummary(s string) {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			l.add(line)
		}
	}
}

// Reset clears the log.
func (l *LogsModel) Reset() {
	l.entries = nil
	l.offset = 0
}

// Update scrolls the log.
func (l *LogsModel) Update(msg tea.KeyMsg) {
	page := max(l.visibleLines(l.height), 1)
	switch {
	case key.Matches(msg, l.keys.Up):
		l.offset++
	case key.Matches(msg, l.keys.Down):
		l.offset--
	case key.Matches(msg, l.keys.PageUp):
		l.offset += page
	case key.Matches(msg, l.keys.PageDown):
		l.offset -= page
	}
	l.offset = min(max(l.offset, 0), max(len(l.entries)-page, 0))
}

func (l LogsModel) visibleLines(height int) int {
	return max(height-3, 0)
}

// View renders the log at its configured height.
func (l LogsModel) View() string {
	return l.renderToHeight(l.height)
}

func (l LogsModel) renderToHeight(height int) string {
	n := l.visibleLines(height)
	end := max(len(l.entries)-l.offset, 0)
	start := max(end-n, 0)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Events"))
	for _, e := range l.entries[start:end] {
		b.WriteString("\n ")
		b.WriteString(e)
	}
	return panelStyle.
		Width(max(l.width-2, 0)).
		Height(max(height-2, 0)).
		Render(b.String())
}
