package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/primecalc/internal/config"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/parallel"
	"github.com/agbru/primecalc/internal/ui"
)

var (
	primesResult = orchestration.RunResult{
		Name: "interleaved", Mode: config.ModePrimes, Count: 168, Largest: 997,
		Workers:   []parallel.WorkerStats{{Worker: 0, Elements: 500, Slices: 2}, {Worker: 1, Elements: 500, Slices: 2}},
		Imbalance: 1.25, Duration: 3 * time.Millisecond,
	}
	primesOpts = orchestration.PresentationOptions{Mode: config.ModePrimes, A: 1, B: 1000}

	sumResult = orchestration.RunResult{Name: "interleaved", Mode: config.ModeSum, Sum: 499500, Imbalance: 1}
	sumOpts   = orchestration.PresentationOptions{Mode: config.ModeSum, Length: 1000}
)

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	testCases := []struct {
		name     string
		file     string
		res      orchestration.RunResult
		opts     orchestration.PresentationOptions
		contains []string
	}{
		{"primes", filepath.Join(tmpDir, "primes.txt"), primesResult, primesOpts,
			[]string{"# Strategy: interleaved", "# Workers: 2", "count_primes[1, 1000] = 168", "largest = 997"}},
		{"sum", filepath.Join(tmpDir, "sum.txt"), sumResult, sumOpts,
			[]string{"sum(A[0:1000]) = 499500"}},
		{"nested directory", filepath.Join(tmpDir, "nested", "dir", "result.txt"), primesResult, primesOpts,
			[]string{"largest = 997"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := WriteResultToFile(tc.res, tc.opts, OutputConfig{OutputFile: tc.file}); err != nil {
				t.Fatalf("WriteResultToFile: %v", err)
			}
			content, err := os.ReadFile(tc.file)
			if err != nil {
				t.Fatalf("reading output file: %v", err)
			}
			for _, want := range tc.contains {
				if !strings.Contains(string(content), want) {
					t.Errorf("file missing %q:\n%s", want, content)
				}
			}
		})
	}
}

func TestWriteResultToFileNoPath(t *testing.T) {
	t.Parallel()
	if err := WriteResultToFile(primesResult, primesOpts, OutputConfig{}); err != nil {
		t.Errorf("expected nil error without an output file, got %v", err)
	}
}

func TestWriteResultToFileBadPath(t *testing.T) {
	t.Parallel()
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteResultToFile(primesResult, primesOpts, OutputConfig{OutputFile: filepath.Join(blocker, "x.txt")}); err == nil {
		t.Error("expected an error when the parent is a regular file")
	}
}

func TestFormatQuietResult(t *testing.T) {
	t.Parallel()
	if got := FormatQuietResult(primesResult); got != "168 997" {
		t.Errorf("primes: got %q, want %q", got, "168 997")
	}
	if got := FormatQuietResult(sumResult); got != "499500" {
		t.Errorf("sum: got %q, want %q", got, "499500")
	}
}

func TestDisplayResultWithConfig(t *testing.T) {
	ui.InitTheme(true)
	file := filepath.Join(t.TempDir(), "out.txt")

	var buf bytes.Buffer
	if err := DisplayResultWithConfig(&buf, primesResult, primesOpts, OutputConfig{OutputFile: file, Details: true}); err != nil {
		t.Fatalf("DisplayResultWithConfig: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Primes in [1, 1,000]: 168", "Largest prime: 997", "Worker Breakdown", "Result saved to:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(file); err != nil {
		t.Errorf("result file not written: %v", err)
	}

	buf.Reset()
	if err := DisplayResultWithConfig(&buf, primesResult, primesOpts, OutputConfig{Quiet: true}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "168 997\n" {
		t.Errorf("quiet output = %q", buf.String())
	}
}
