// # Naming Conventions
//
// Functions in this package follow consistent naming patterns:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteResultToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/primecalc/internal/config"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet prints only the result value.
	Quiet bool
	// Details adds the per-worker breakdown.
	Details bool
}

// now is replaced in tests.
var now = time.Now

// WriteResultToFile writes a result and its run metadata to
// cfg.OutputFile, creating parent directories as needed. It does nothing
// when no file is configured.
func WriteResultToFile(res orchestration.RunResult, opts orchestration.PresentationOptions, cfg OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(cfg.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# primecalc result\n")
	fmt.Fprintf(file, "# Generated: %s\n", now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Strategy: %s\n", res.Name)
	fmt.Fprintf(file, "# Workers: %d\n", len(res.Workers))
	fmt.Fprintf(file, "# Duration: %s\n", res.Duration)
	fmt.Fprintf(file, "# Imbalance: %.3f\n", res.Imbalance)
	fmt.Fprintf(file, "\n")

	if res.Mode == config.ModeSum {
		fmt.Fprintf(file, "sum(A[0:%d]) = %s\n", opts.Length, res.Value())
	} else {
		fmt.Fprintf(file, "count_primes[%d, %d] = %d\n", opts.A, opts.B, res.Count)
		fmt.Fprintf(file, "largest = %d\n", res.Largest)
	}
	return file.Close()
}

// FormatQuietResult renders a result on one line for scripts: the count
// and largest prime for primes, the sum otherwise.
func FormatQuietResult(res orchestration.RunResult) string {
	if res.Mode == config.ModeSum {
		return res.Value()
	}
	return fmt.Sprintf("%d %d", res.Count, res.Largest)
}

// DisplayQuietResult writes FormatQuietResult and a newline.
func DisplayQuietResult(out io.Writer, res orchestration.RunResult) {
	fmt.Fprintln(out, FormatQuietResult(res))
}

// DisplayResultWithConfig displays a result and saves it when an output
// file is configured.
func DisplayResultWithConfig(out io.Writer, res orchestration.RunResult, opts orchestration.PresentationOptions, cfg OutputConfig) error {
	if cfg.Quiet {
		DisplayQuietResult(out, res)
	} else {
		opts.Details = cfg.Details
		DisplayResult(res, opts, out)
	}

	if cfg.OutputFile == "" {
		return nil
	}
	if err := WriteResultToFile(res, opts, cfg); err != nil {
		return err
	}
	if !cfg.Quiet {
		theme := ui.GetCurrentTheme()
		fmt.Fprintf(out, "\n%s %s\n", ui.Paint(theme.Success, "Result saved to:"), ui.Paint(theme.Accent, cfg.OutputFile))
	}
	return nil
}
