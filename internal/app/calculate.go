package app

import (
	"context"
	"fmt"
	"io"

	"github.com/agbru/primecalc/internal/cli"
	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/metrics"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/ui"
)

// runCalculate runs the configured workloads in the terminal.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	workloads := orchestration.GetWorkloadsToRun(a.Config, a.Logger)

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(workloads, out)
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	memory := metrics.NewMemoryCollector()
	before := memory.Snapshot()

	results := orchestration.ExecuteWorkloads(ctx, workloads, reporter, progressOut, orchestration.ExecuteOptions{
		Metrics: a.Metrics,
		Logger:  a.Logger,
	})
	exitCode := orchestration.AnalyzeResults(results, a.Config, cli.CLIResultPresenter{}, out)

	if a.Config.Details && !a.Config.Quiet {
		after := memory.Snapshot()
		cli.DisplayMemoryStats(after, metrics.Delta(before, after), out)
	}

	if exitCode == apperrors.ExitSuccess {
		if best := fastestResult(results); best != nil {
			exitCode = a.saveResult(*best, out)
		}
	}
	return exitCode
}

// fastestResult returns the quickest successful result, or nil.
func fastestResult(results []orchestration.RunResult) *orchestration.RunResult {
	var best *orchestration.RunResult
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		if best == nil || results[i].Duration < best.Duration {
			best = &results[i]
		}
	}
	return best
}

func (a *Application) saveResult(res orchestration.RunResult, out io.Writer) int {
	if a.Config.OutputFile == "" {
		return apperrors.ExitSuccess
	}
	opts := orchestration.PresentationOptions{
		Mode:   a.Config.Mode,
		A:      a.Config.A,
		B:      a.Config.B,
		Length: a.Config.Length,
	}
	outputCfg := cli.OutputConfig{OutputFile: a.Config.OutputFile, Quiet: a.Config.Quiet, Details: a.Config.Details}
	if err := cli.WriteResultToFile(res, opts, outputCfg); err != nil {
		a.Logger.Error("saving result", err, logging.String("path", a.Config.OutputFile))
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if !a.Config.Quiet {
		theme := ui.GetCurrentTheme()
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n", theme.Success, theme.Accent, a.Config.OutputFile, theme.Reset)
	}
	return apperrors.ExitSuccess
}
