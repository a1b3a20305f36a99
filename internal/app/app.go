// Package app wires the configuration, the run modes and the presentation
// layers into the primecalc command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/primecalc/internal/calibration"
	"github.com/agbru/primecalc/internal/cli"
	"github.com/agbru/primecalc/internal/config"
	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/metrics"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/tui"
	"github.com/agbru/primecalc/internal/ui"
)

// Application is one primecalc invocation.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	Logger    logging.Logger
	// Metrics is set when --metrics-file is given.
	Metrics *metrics.Metrics

	// explicitSliceLength is the slice length set by a flag, the
	// environment or the config file; 0 when it came from a default.
	explicitSliceLength uint64
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger replaces the default stderr logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New parses args (program name first) and resolves the slice length from
// the calibration profile or the mode default.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "primecalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.explicitSliceLength = cfg.SliceLength
	cfg = calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile)
	app.Config = config.ApplyDefaults(cfg)

	if app.Logger == nil {
		app.Logger = logging.NewLogger(zerolog.ConsoleWriter{Out: errWriter, NoColor: app.Config.NoColor}, "primecalc")
	}
	if app.Config.MetricsFile != "" {
		app.Metrics = metrics.NewMetrics()
	}
	return app, nil
}

// Run executes the configured mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	zerolog.SetGlobalLevel(a.Config.ZerologLevel())
	ui.InitTheme(a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var code int
	switch {
	case a.Config.Calibrate || a.Config.QuickCalibrate:
		code = calibration.Calibrate(ctx, a.Config, out, a.Logger)
	case a.Config.Interactive:
		code = a.runInteractive(out)
	case a.Config.TUI:
		code = a.runTUI(ctx)
	default:
		code = a.runCalculate(ctx, out)
	}
	return a.writeMetrics(code)
}

func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runInteractive starts the REPL. The resolved slice length belongs to the
// startup mode, so only an explicit one is passed on; the REPL resolves
// the rest per command.
func (a *Application) runInteractive(out io.Writer) int {
	profile := a.Config.CalibrationProfile
	if profile == "" {
		profile = calibration.GetDefaultProfilePath()
	}
	repl := cli.NewREPL(cli.REPLConfig{
		Workers:            a.Config.Workers,
		SliceLength:        a.explicitSliceLength,
		CalibrationProfile: profile,
		Strategy:           a.Config.Strategy,
		Details:            a.Config.Details,
		Verify:             a.Config.Verify,
		Logger:             a.Logger,
		Metrics:            a.Metrics,
	})
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

func (a *Application) runTUI(ctx context.Context) int {
	workloads := orchestration.GetWorkloadsToRun(a.Config, a.Logger)
	return tui.Run(ctx, workloads, a.Config, Version, orchestration.ExecuteOptions{Metrics: a.Metrics})
}

// writeMetrics saves the metrics exposition when requested. A write
// failure turns a successful run into a generic error.
func (a *Application) writeMetrics(code int) int {
	if a.Metrics == nil {
		return code
	}
	if err := a.Metrics.WriteTextFile(a.Config.MetricsFile); err != nil {
		a.Logger.Error("writing metrics file", err, logging.String("path", a.Config.MetricsFile))
		if code == apperrors.ExitSuccess {
			return apperrors.ExitErrorGeneric
		}
	}
	return code
}

// IsHelpError reports whether err comes from -h or --help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
