// Package config builds the application configuration from command-line
// flags, positional arguments, PRIMECALC_* environment variables and an
// optional YAML file.
package config

import (
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/partition"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "PRIMECALC_"

const (
	// ModePrimes counts primes in [A, B].
	ModePrimes = "primes"
	// ModeSum sums A[0:Length) with A[i] = i.
	ModeSum = "sum"
)

// Defaults used when nothing else sets a value.
const (
	DefaultA        uint64 = 1
	DefaultB        uint64 = 1000
	DefaultLength          = 1000
	DefaultRepeat          = 1
	DefaultLogLevel        = "warn"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Mode selects the workload: ModePrimes or ModeSum.
	Mode string
	// A and B bound the inclusive interval for ModePrimes.
	A, B uint64
	// Length is the number of elements summed in ModeSum.
	Length int
	// Workers is the number of worker goroutines. 0 means one per
	// available CPU.
	Workers int
	// SliceLength is the interleaved slice length. 0 means the calibration
	// profile value, or the mode default.
	SliceLength uint64
	// Strategy is the partitioning strategy name.
	Strategy string
	// Repeat is the number of times a sum is recomputed and checked.
	Repeat int

	Verify    bool
	Compare   bool
	Calibrate bool
	Quiet     bool
	Details   bool
	TUI       bool
	NoColor   bool

	// QuickCalibrate runs a calibration with fewer candidates on a smaller
	// benchmark.
	QuickCalibrate bool

	// Interactive starts the REPL instead of a single run.
	Interactive bool

	OutputFile         string
	MetricsFile        string
	ConfigFile         string
	CalibrationProfile string
	Completion         string
	LogLevel           string
}

// PartitionStrategy returns the parsed Strategy. Validate must have
// succeeded first.
func (c AppConfig) PartitionStrategy() partition.Strategy {
	s, _ := partition.ParseStrategy(c.Strategy)
	return s
}

// ZerologLevel returns the parsed log level, falling back to warn.
func (c AppConfig) ZerologLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.WarnLevel
	}
	return lvl
}

// Validate checks the configuration for semantic consistency.
func (c AppConfig) Validate() error {
	switch c.Mode {
	case ModePrimes:
		if c.A > c.B {
			return apperrors.NewConfigError("invalid interval: a (%d) must not exceed b (%d)", c.A, c.B)
		}
		if c.B == math.MaxUint64 {
			return apperrors.NewConfigError("b must be below %d", uint64(math.MaxUint64))
		}
	case ModeSum:
		if c.Length < 0 {
			return apperrors.NewConfigError("length must not be negative, got %d", c.Length)
		}
	default:
		return apperrors.NewConfigError("unknown mode %q (accepted values: %s, %s)", c.Mode, ModePrimes, ModeSum)
	}
	if c.Workers < 1 {
		return apperrors.NewConfigError("worker count must be at least 1, got %d", c.Workers)
	}
	if c.Repeat < 1 {
		return apperrors.NewConfigError("repeat count must be at least 1, got %d", c.Repeat)
	}
	if _, err := partition.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
			return apperrors.NewConfigError("invalid log level %q", c.LogLevel)
		}
	}
	if c.Completion != "" && !isKnownShell(c.Completion) {
		return apperrors.NewConfigError("unsupported shell %q (accepted values: %s)", c.Completion, strings.Join(Shells, ", "))
	}
	if c.Compare && c.TUI {
		return apperrors.NewConfigError("--compare and --tui cannot be combined")
	}
	if c.Interactive && c.TUI {
		return apperrors.NewConfigError("--interactive and --tui cannot be combined")
	}
	return nil
}

// Shells lists the shells supported by --completion.
var Shells = []string{"bash", "zsh", "fish", "powershell"}

func isKnownShell(s string) bool {
	for _, sh := range Shells {
		if strings.EqualFold(sh, s) {
			return true
		}
	}
	return false
}

// canonical maps every flag alias to the key used for priority tracking.
var canonical = map[string]string{
	"t": "workers", "workers": "workers",
	"n": "length", "length": "length",
	"o": "output", "output": "output",
	"d": "details", "details": "details",
	"q": "quiet", "quiet": "quiet",
}

func keyOf(flagName string) string {
	if k, ok := canonical[flagName]; ok {
		return k
	}
	return flagName
}

// provided records which settings were given explicitly at a given
// priority level.
type provided map[string]bool

func (p provided) has(name string) bool { return p[keyOf(name)] }
func (p provided) mark(name string)     { p[keyOf(name)] = true }

// Usage prints the command synopsis followed by the flag defaults.
func Usage(fs *flag.FlagSet, out io.Writer) {
	fmt.Fprintf(out, "Usage:\n")
	fmt.Fprintf(out, "  %s [flags] primes A B TN   count primes in [A, B] with TN workers\n", fs.Name())
	fmt.Fprintf(out, "  %s [flags] sum LENGTH TN   sum A[0:LENGTH) with A[i] = i using TN workers\n", fs.Name())
	fmt.Fprintf(out, "\nFlags:\n")
	fs.PrintDefaults()
}

// ParseConfig parses args (without the program name) into an AppConfig.
//
// Priority, highest first: flags and positional arguments, PRIMECALC_*
// environment variables, the YAML file named by --config (or
// PRIMECALC_CONFIG), then defaults. The calibration profile is applied
// afterwards by the caller for an unset slice length.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() { Usage(fs, errorWriter) }

	config := AppConfig{}
	fs.StringVar(&config.Mode, "mode", ModePrimes, "Workload when no positional arguments are given: 'primes' or 'sum'.")
	fs.Uint64Var(&config.A, "a", DefaultA, "Lower bound of the prime interval (inclusive).")
	fs.Uint64Var(&config.B, "b", DefaultB, "Upper bound of the prime interval (inclusive).")
	fs.IntVar(&config.Length, "n", DefaultLength, "Number of elements to sum.")
	fs.IntVar(&config.Length, "length", DefaultLength, "Number of elements to sum (alias for -n).")
	fs.IntVar(&config.Workers, "t", 0, "Number of workers (0 = one per available CPU).")
	fs.IntVar(&config.Workers, "workers", 0, "Number of workers (alias for -t).")
	fs.Uint64Var(&config.SliceLength, "slice-length", 0, "Interleaved slice length (0 = calibrated value or mode default).")
	fs.StringVar(&config.Strategy, "strategy", partition.StrategyInterleaved.String(), "Partitioning strategy: 'interleaved' or 'contiguous'.")
	fs.IntVar(&config.Repeat, "repeat", DefaultRepeat, "Number of times to repeat the sum and check the results agree.")
	fs.BoolVar(&config.Verify, "verify", false, "Check the result against a sequential baseline.")
	fs.BoolVar(&config.Compare, "compare", false, "Run every partitioning strategy and compare load balance.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Benchmark slice lengths and save the best one.")
	fs.BoolVar(&config.QuickCalibrate, "quick-calibrate", false, "Like --calibrate, with fewer candidates and a smaller benchmark.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode: print only the result.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode (alias for -q).")
	fs.BoolVar(&config.Details, "d", false, "Display per-worker statistics.")
	fs.BoolVar(&config.Details, "details", false, "Display per-worker statistics (alias for -d).")
	fs.BoolVar(&config.TUI, "tui", false, "Launch the interactive dashboard.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start an interactive session.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.OutputFile, "o", "", "Write the result to this file.")
	fs.StringVar(&config.OutputFile, "output", "", "Write the result to this file (alias for -o).")
	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write Prometheus text metrics to this file.")
	fs.StringVar(&config.ConfigFile, "config", "", "Read settings from this YAML file.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Calibration profile path (default ~/.primecalc_calibration.json).")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script for: bash, zsh, fish, powershell.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	set := provided{}
	fs.Visit(func(f *flag.Flag) { set.mark(f.Name) })
	if err := applyPositional(&config, fs.Args(), set); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		fs.Usage()
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, set)

	if config.ConfigFile != "" {
		file, err := LoadFile(config.ConfigFile)
		if err != nil {
			return AppConfig{}, err
		}
		file.apply(&config, set)
	}

	if config.Workers == 0 {
		config.Workers = AvailableCPUs()
	}

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}

// applyPositional handles "primes A B TN" and "sum LENGTH TN".
func applyPositional(config *AppConfig, args []string, set provided) error {
	if len(args) == 0 {
		return nil
	}
	mode := strings.ToLower(args[0])
	rest := args[1:]
	switch mode {
	case ModePrimes:
		if len(rest) != 3 {
			return apperrors.NewConfigError("primes expects 3 arguments (A B TN), got %d", len(rest))
		}
		a, err := parseUint("A", rest[0])
		if err != nil {
			return err
		}
		b, err := parseUint("B", rest[1])
		if err != nil {
			return err
		}
		tn, err := parseWorkers(rest[2])
		if err != nil {
			return err
		}
		config.A, config.B, config.Workers = a, b, tn
		set.mark("a")
		set.mark("b")
	case ModeSum:
		if len(rest) != 2 {
			return apperrors.NewConfigError("sum expects 2 arguments (LENGTH TN), got %d", len(rest))
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil || n < 0 {
			return apperrors.NewConfigError("invalid LENGTH %q: must be a non-negative integer", rest[0])
		}
		tn, err := parseWorkers(rest[1])
		if err != nil {
			return err
		}
		config.Length, config.Workers = n, tn
		set.mark("length")
	default:
		return apperrors.NewConfigError("unknown command %q (accepted values: %s, %s)", args[0], ModePrimes, ModeSum)
	}
	config.Mode = mode
	set.mark("mode")
	set.mark("workers")
	return nil
}

func parseUint(name, s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, apperrors.NewConfigError("invalid %s %q: must be a non-negative integer", name, s)
	}
	return v, nil
}

func parseWorkers(s string) (int, error) {
	tn, err := strconv.Atoi(s)
	if err != nil || tn < 1 {
		return 0, apperrors.NewConfigError("invalid TN %q: must be a positive integer", s)
	}
	return tn, nil
}
