package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/primecalc/internal/config"
	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/ui"
)

// PrintExecutionConfig displays the workload, the partitioning settings
// and the environment.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	if cfg.Mode == config.ModeSum {
		fmt.Fprintf(out, "Summing %s with %s workers.\n",
			ui.Paint(theme.Accent, fmt.Sprintf("A[0:%s]", format.FormatUint(uint64(cfg.Length)))),
			ui.Paint(theme.Accent, fmt.Sprint(cfg.Workers)))
		if cfg.Repeat > 1 {
			fmt.Fprintf(out, "Each strategy repeats the sum %d times.\n", cfg.Repeat)
		}
	} else {
		fmt.Fprintf(out, "Counting primes in %s with %s workers.\n",
			ui.Paint(theme.Accent, fmt.Sprintf("[%s, %s]", format.FormatUint(cfg.A), format.FormatUint(cfg.B))),
			ui.Paint(theme.Accent, fmt.Sprint(cfg.Workers)))
	}
	fmt.Fprintf(out, "Partitioning: %s, slice length %d.\n", cfg.PartitionStrategy(), cfg.SliceLength)
	fmt.Fprintf(out, "Environment: %s logical processors (%d usable), Go %s.\n",
		ui.Paint(theme.Muted, fmt.Sprint(runtime.NumCPU())), config.AvailableCPUs(), runtime.Version())
}

// PrintExecutionMode describes which workloads are about to run.
func PrintExecutionMode(workloads []orchestration.Workload, out io.Writer) {
	theme := ui.GetCurrentTheme()
	var modeDesc string
	switch {
	case len(workloads) == 0:
		modeDesc = "nothing to run"
	case len(workloads) > 1:
		names := make([]string, len(workloads))
		for i, w := range workloads {
			names[i] = w.Name()
		}
		modeDesc = fmt.Sprintf("comparison of %s", ui.Paint(theme.Accent, fmt.Sprint(names)))
	default:
		modeDesc = fmt.Sprintf("single run with the %s strategy", ui.Paint(theme.Accent, workloads[0].Name()))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
