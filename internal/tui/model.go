package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/coder/quartz"

	"github.com/agbru/primecalc/internal/config"
	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/primes"
	"github.com/agbru/primecalc/internal/sysmon"
)

// Layout constants.
const (
	headerHeight          = 1
	footerHeight          = 1
	minBodyHeight         = 8
	LeftPanelWidthPercent = 60
	MetricsPanelHeight    = 6
	// SampleInterval is the period of memory, system and largest prime
	// sampling.
	SampleInterval = 500 * time.Millisecond
)

// ExecutionState holds the execution-related fields of a session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	workloads  []orchestration.Workload
	generation uint64
	done       bool
	exitCode   int
}

// LayoutManager holds the terminal size and derives the panel sizes.
type LayoutManager struct {
	width      int
	height     int
	maxWorkers int
}

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) leftWidth() int {
	return l.width * LeftPanelWidthPercent / 100
}

func (l LayoutManager) rightWidth() int {
	return l.width - l.leftWidth()
}

// workersHeight fits one row per worker plus borders and title, capped at
// half the body.
func (l LayoutManager) workersHeight() int {
	return min(l.maxWorkers+3, l.bodyHeight()/2)
}

func (l LayoutManager) logsHeight() int {
	return l.bodyHeight() - l.workersHeight()
}

func (l LayoutManager) metricsHeight() int {
	return min(MetricsPanelHeight, l.bodyHeight()/2)
}

func (l LayoutManager) chartHeight() int {
	return l.bodyHeight() - l.metricsHeight()
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header  HeaderModel
	workers WorkersModel
	logs    LogsModel
	metrics MetricsModel
	chart   ChartModel
	footer  FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	config    config.AppConfig
	opts      orchestration.ExecuteOptions
	clock     quartz.Clock
	ref       *programRef
	paused    bool
}

// NewModel creates the dashboard for the given workloads.
func NewModel(parentCtx context.Context, workloads []orchestration.Workload, cfg config.AppConfig, version string, opts orchestration.ExecuteOptions) Model {
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	keys := DefaultKeyMap()

	maxWorkers := 1
	for _, w := range workloads {
		maxWorkers = max(maxWorkers, w.Workers())
	}

	logs := NewLogsModel(clock, keys)
	logs.AddExecutionConfig(cfg)

	return Model{
		header:  NewHeaderModel(version, runSubject(cfg), clock),
		workers: NewWorkersModel(len(workloads)),
		logs:    logs,
		metrics: NewMetricsModel(clock, elementCount(cfg), cfg.Mode == config.ModePrimes),
		chart:   NewChartModel(),
		footer:  NewFooterModel(keys),
		keymap:  keys,
		ExecutionState: ExecutionState{
			ctx:       ctx,
			cancel:    cancel,
			workloads: workloads,
			exitCode:  apperrors.ExitSuccess,
		},
		LayoutManager: LayoutManager{maxWorkers: maxWorkers},
		parentCtx:     parentCtx,
		config:        cfg,
		opts:          opts,
		clock:         clock,
		ref:           &programRef{},
	}
}

// runSubject describes the computation for the header.
func runSubject(cfg config.AppConfig) string {
	if cfg.Mode == config.ModeSum {
		return fmt.Sprintf("sum A[0:%s]", format.FormatUint(uint64(max(cfg.Length, 0))))
	}
	return fmt.Sprintf("count_primes [%s, %s]", format.FormatUint(cfg.A), format.FormatUint(cfg.B))
}

// elementCount is the number of elements one workload folds.
func elementCount(cfg config.AppConfig) uint64 {
	if cfg.Mode == config.ModeSum {
		return uint64(max(cfg.Length, 0))
	}
	if cfg.B < cfg.A {
		return 0
	}
	return cfg.B - cfg.A + 1
}

// Init starts the run and the samplers.
func (m Model) Init() tea.Cmd {
	return m.startCmds()
}

func (m Model) startCmds() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startCalculationCmd(m.ref, m.ctx, m.workloads, m.config, m.opts, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case WorkloadStartedMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.workers.Start(msg)
		m.chart.StartWorkload()
		m.metrics.StartWorkload()
		m.logs.AddWorkloadStart(msg)
		return m, nil

	case ProgressMsg:
		if msg.Generation == m.generation && !m.paused {
			m.workers.Update(msg)
			m.chart.AddDataPoint(msg.Value, msg.AverageProgress, msg.ETA)
			m.metrics.UpdateProgress(msg.AverageProgress)
		}
		return m, nil

	case ProgressDoneMsg:
		if msg.Generation == m.generation {
			m.workers.Complete()
			m.chart.AddDataPoint(1, 1, 0)
		}
		return m, nil

	case ComparisonResultsMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.logs.AddResults(msg)
		return m, nil

	case FinalResultMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.logs.AddFinalResult(msg)
		m.metrics.SetLargest(msg.Result.Largest)
		return m, nil

	case ErrorMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.logs.AddError(msg)
		m.footer.SetError(true)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		cmds := []tea.Cmd{sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd()}
		if m.config.Mode == config.ModePrimes {
			cmds = append(cmds, sampleLargestCmd())
		}
		return m, tea.Batch(cmds...)

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.chart.UpdateSysStats(msg.CPUPercent, msg.MemPercent)
		return m, nil

	case LargestPrimeMsg:
		m.metrics.SetLargest(uint64(msg))
		return m, nil

	case CalculationCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.logs.AddSummary(msg.Summary)
		if msg.ExitCode != apperrors.ExitSuccess {
			m.footer.SetError(true)
		}
		m.header.SetDone()
		m.chart.SetDone(m.header.Elapsed())
		m.footer.SetDone(true)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		// A run cannot be interrupted, so a restart waits for it to end.
		if !m.done {
			return m, nil
		}
		m.cancel()
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)

		m.header.Reset()
		m.workers.Reset()
		m.logs.Reset()
		m.logs.AddExecutionConfig(m.config)
		m.chart.Reset()
		m.metrics = NewMetricsModel(m.clock, elementCount(m.config), m.config.Mode == config.ModePrimes)
		m.footer.SetDone(false)
		m.footer.SetError(false)
		m.footer.SetPaused(false)
		m.layoutPanels()
		m.done = false
		m.paused = false
		m.exitCode = apperrors.ExitSuccess
		return m, m.startCmds()

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.logs.Update(msg)
		return m, nil
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	right := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	left := lipgloss.JoinVertical(lipgloss.Left,
		m.workers.View(),
		m.logs.renderToHeight(max(lipgloss.Height(right)-m.workersHeight(), 3)))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.workers.SetSize(m.leftWidth(), m.workersHeight())
	m.logs.SetSize(m.leftWidth(), m.logsHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// Run starts the dashboard and returns the exit code of the run. Quitting
// before the run completes cancels it.
func Run(ctx context.Context, workloads []orchestration.Workload, cfg config.AppConfig, version string, opts orchestration.ExecuteOptions) int {
	initTUIStyles()

	model := NewModel(ctx, workloads, cfg, version, opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startCalculationCmd runs every workload and analyzes the results. The
// status lines AnalyzeResults writes are returned in the completion message.
func startCalculationCmd(ref *programRef, ctx context.Context, workloads []orchestration.Workload, cfg config.AppConfig, opts orchestration.ExecuteOptions, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := newTUIProgressReporter(ref, workloads, gen)
		presenter := &TUIResultPresenter{ref: ref, gen: gen}

		results := orchestration.ExecuteWorkloads(ctx, workloads, reporter, io.Discard, opts)
		var summary bytes.Buffer
		exitCode := orchestration.AnalyzeResults(results, cfg, presenter, &summary)
		return CalculationCompleteMsg{ExitCode: exitCode, Generation: gen, Summary: summary.String()}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(SampleInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapInuse:    ms.HeapInuse,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

// sampleLargestCmd reads the process-wide largest prime, which workers
// raise while they run.
func sampleLargestCmd() tea.Cmd {
	return func() tea.Msg {
		return LargestPrimeMsg(primes.LargestFound())
	}
}

func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
