package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/primecalc/internal/format"
	"github.com/agbru/primecalc/internal/ui"
)

// printCalibrationResults prints one workload's table, marking the winner.
func printCalibrationResults(out io.Writer, title string, results []calibrationResult, bestSlice uint64) {
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n--- Calibration Summary: %s ---\n", title)
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  Slice length\t│ Best time\t│ Imbalance\t\n")
	fmt.Fprintf(tw, "  %s\t┼%s\t┼%s\t\n", strings.Repeat("─", 12), strings.Repeat("─", 12), strings.Repeat("─", 10))
	for _, res := range results {
		duration := ui.Paint(theme.Error, "N/A")
		imbalance := "-"
		if res.Err == nil {
			duration = format.FormatExecutionDuration(res.Duration)
			imbalance = fmt.Sprintf("%.2f", res.Imbalance)
		}
		highlight := ""
		if res.SliceLength == bestSlice && res.Err == nil {
			highlight = ui.Paint(theme.Success, "(Optimal)")
		}
		fmt.Fprintf(tw, "  %d\t│ %s\t│ %s\t%s\n", res.SliceLength, duration, imbalance, highlight)
	}
	tw.Flush()
}

// printCalibrationOutput reports the saved profile.
func printCalibrationOutput(out io.Writer, p *CalibrationProfile, path string) {
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n%s: primes slice length=%s, sum slice length=%s (took %s)\n",
		ui.Paint(theme.Success, "Calibration"),
		ui.Paint(theme.Accent, fmt.Sprint(p.OptimalPrimesSliceLength)),
		ui.Paint(theme.Accent, fmt.Sprint(p.OptimalSumSliceLength)),
		p.CalibrationTime)
	fmt.Fprintf(out, "Profile saved to %s\n", path)
}
