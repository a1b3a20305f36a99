// Package cli implements the terminal front end: progress display, result
// presentation, result files, shell completion and the interactive REPL.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/agbru/primecalc/internal/calibration"
	"github.com/agbru/primecalc/internal/config"
	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/metrics"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/partition"
	"github.com/agbru/primecalc/internal/primes"
	"github.com/agbru/primecalc/internal/ui"
)

// REPLConfig holds the settings a REPL session starts with.
type REPLConfig struct {
	Workers int
	// SliceLength is an explicit slice length for every command. 0 selects
	// the calibrated or built-in length of each command's mode.
	SliceLength uint64
	// CalibrationProfile is read when SliceLength is 0. Empty skips it.
	CalibrationProfile string
	Strategy           string
	Details            bool
	Verify             bool
	Logger             logging.Logger
	Metrics            *metrics.Metrics
}

// REPL is an interactive session running primes and sum workloads.
type REPL struct {
	config REPLConfig
	in     io.Reader
	out    io.Writer
}

// NewREPL creates a REPL reading from stdin and writing to stdout.
func NewREPL(cfg REPLConfig) *REPL {
	if cfg.Workers < 1 {
		cfg.Workers = config.AvailableCPUs()
	}
	if cfg.Strategy == "" {
		cfg.Strategy = partition.StrategyInterleaved.String()
	}
	return &REPL{config: cfg, in: os.Stdin, out: os.Stdout}
}

// SetInput sets a custom input reader.
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets a custom output writer.
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start reads and executes commands until exit or EOF.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	theme := ui.GetCurrentTheme()
	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.Paint(theme.Success, "primecalc> "))

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, ui.Paint(theme.Error, fmt.Sprintf("Read error: %v", err)))
			return
		}
		if line := strings.TrimSpace(input); line != "" {
			if !r.processCommand(line) {
				return
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(r.out, "\n%s\n", ui.Paint(theme.Accent, "primecalc interactive mode"))
	fmt.Fprintf(r.out, "%s\n\n", ui.Paint(theme.Muted, strings.Repeat("─", 26)))
}

func (r *REPL) printHelp() {
	theme := ui.GetCurrentTheme()
	cmds := [][2]string{
		{"primes <a> <b>", "Count primes in [a, b]"},
		{"sum <n>", "Sum A[0:n) with A[i] = i"},
		{"compare <a> <b>", "Count primes with every strategy"},
		{"workers <n>", "Set the number of workers"},
		{"strategy <name>", "Set the strategy (interleaved, contiguous)"},
		{"slice <n>", "Set the slice length (0 = default)"},
		{"details", "Toggle the per-worker breakdown"},
		{"largest", "Show the largest prime of the last count"},
		{"smallest", "Show the smallest prime of the last count"},
		{"status", "Display the current settings"},
		{"help", "Display this help"},
		{"exit / quit", "Leave interactive mode"},
	}
	fmt.Fprintf(r.out, "%s\n", ui.Paint(theme.Bold, "Available commands:"))
	for _, c := range cmds {
		fmt.Fprintf(r.out, "  %s %s\n", ui.Paint(theme.Warning, fmt.Sprintf("%-16s", c[0])), c[1])
	}
}

// processCommand executes one command line. It returns false on exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "primes", "p":
		r.cmdPrimes(args, false)
	case "compare", "cmp":
		r.cmdPrimes(args, true)
	case "sum", "s":
		r.cmdSum(args)
	case "workers", "t":
		r.cmdWorkers(args)
	case "strategy":
		r.cmdStrategy(args)
	case "slice":
		r.cmdSlice(args)
	case "details", "d":
		r.config.Details = !r.config.Details
		fmt.Fprintf(r.out, "Per-worker details: %s\n", onOff(r.config.Details))
	case "largest":
		fmt.Fprintf(r.out, "Largest prime: %s\n", format.FormatUint(primes.LargestFound()))
	case "smallest":
		fmt.Fprintf(r.out, "Smallest prime: %s\n", format.FormatUint(primes.SmallestFound()))
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintln(r.out, ui.Paint(ui.GetCurrentTheme().Success, "Goodbye!"))
		return false
	default:
		if len(parts) == 2 {
			if _, err := strconv.ParseUint(parts[0], 10, 64); err == nil {
				r.cmdPrimes(parts, false)
				return true
			}
		}
		r.errorf("Unknown command: %s", cmd)
		fmt.Fprintf(r.out, "Type %s to see available commands.\n", ui.Paint(ui.GetCurrentTheme().Warning, "help"))
	}
	return true
}

func (r *REPL) errorf(msg string, a ...any) {
	fmt.Fprintln(r.out, ui.Paint(ui.GetCurrentTheme().Error, fmt.Sprintf(msg, a...)))
}

// baseConfig builds the configuration of one command, resolving the slice
// length for mode.
func (r *REPL) baseConfig(mode string) config.AppConfig {
	cfg := config.AppConfig{
		Mode:        mode,
		Workers:     r.config.Workers,
		SliceLength: r.config.SliceLength,
		Strategy:    r.config.Strategy,
		Repeat:      1,
		Details:     r.config.Details,
		Verify:      r.config.Verify,
	}
	if cfg.SliceLength == 0 && r.config.CalibrationProfile != "" {
		cfg = calibration.LoadCachedCalibration(cfg, r.config.CalibrationProfile)
	}
	return config.ApplyDefaults(cfg)
}

func (r *REPL) cmdPrimes(args []string, compare bool) {
	if len(args) != 2 {
		r.errorf("Usage: primes <a> <b>")
		return
	}
	a, errA := strconv.ParseUint(args[0], 10, 64)
	b, errB := strconv.ParseUint(args[1], 10, 64)
	if errA != nil || errB != nil {
		r.errorf("Invalid interval: %s %s", args[0], args[1])
		return
	}
	cfg := r.baseConfig(config.ModePrimes)
	cfg.A, cfg.B, cfg.Compare = a, b, compare
	r.run(cfg)
}

func (r *REPL) cmdSum(args []string) {
	if len(args) != 1 {
		r.errorf("Usage: sum <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		r.errorf("Invalid length: %s", args[0])
		return
	}
	cfg := r.baseConfig(config.ModeSum)
	cfg.Length = n
	r.run(cfg)
}

// run validates cfg and executes it through the orchestrator.
func (r *REPL) run(cfg config.AppConfig) {
	if err := cfg.Validate(); err != nil {
		CLIResultPresenter{}.HandleError(err, 0, r.out)
		return
	}
	workloads := orchestration.GetWorkloadsToRun(cfg, r.config.Logger)
	results := orchestration.ExecuteWorkloads(context.Background(), workloads, CLIProgressReporter{}, r.out,
		orchestration.ExecuteOptions{Metrics: r.config.Metrics, Logger: r.config.Logger})
	orchestration.AnalyzeResults(results, cfg, CLIResultPresenter{}, r.out)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdWorkers(args []string) {
	if len(args) != 1 {
		r.errorf("Usage: workers <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		r.errorf("Invalid worker count: %s", args[0])
		return
	}
	r.config.Workers = n
	fmt.Fprintf(r.out, "Workers set to %d\n", n)
}

func (r *REPL) cmdStrategy(args []string) {
	if len(args) != 1 {
		r.errorf("Usage: strategy <interleaved|contiguous>")
		return
	}
	s, err := partition.ParseStrategy(args[0])
	if err != nil {
		r.errorf("%v", err)
		return
	}
	r.config.Strategy = s.String()
	fmt.Fprintf(r.out, "Strategy set to %s\n", s)
}

func (r *REPL) cmdSlice(args []string) {
	if len(args) != 1 {
		r.errorf("Usage: slice <n>")
		return
	}
	n, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		r.errorf("Invalid slice length: %s", args[0])
		return
	}
	r.config.SliceLength = n
	if n == 0 {
		fmt.Fprintln(r.out, "Slice length reset to the mode default")
		return
	}
	fmt.Fprintf(r.out, "Slice length set to %d\n", n)
}

func (r *REPL) cmdStatus() {
	theme := ui.GetCurrentTheme()
	slice := "mode default"
	if r.config.SliceLength > 0 {
		slice = strconv.FormatUint(r.config.SliceLength, 10)
	}
	fmt.Fprintf(r.out, "\n%s\n", ui.Paint(theme.Bold, "Current settings:"))
	fmt.Fprintf(r.out, "  Workers:       %s\n", ui.Paint(theme.Accent, strconv.Itoa(r.config.Workers)))
	fmt.Fprintf(r.out, "  Strategy:      %s\n", ui.Paint(theme.Accent, r.config.Strategy))
	fmt.Fprintf(r.out, "  Slice length:  %s\n", ui.Paint(theme.Accent, slice))
	fmt.Fprintf(r.out, "  Details:       %s\n", ui.Paint(theme.Accent, onOff(r.config.Details)))
	fmt.Fprintf(r.out, "  Verify:        %s\n", ui.Paint(theme.Accent, onOff(r.config.Verify)))
	fmt.Fprintln(r.out)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
