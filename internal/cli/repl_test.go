package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agbru/primecalc/internal/calibration"
	"github.com/agbru/primecalc/internal/config"
	"github.com/agbru/primecalc/internal/primes"
	"github.com/agbru/primecalc/internal/sum"
	"github.com/agbru/primecalc/internal/ui"
)

func runREPL(t *testing.T, cfg REPLConfig, input string) string {
	t.Helper()
	ui.InitTheme(true)
	withMockSpinner(t)
	r := NewREPL(cfg)
	var out bytes.Buffer
	r.SetInput(strings.NewReader(input))
	r.SetOutput(&out)
	r.Start()
	return out.String()
}

// REPL runs share the process-wide largest prime, so these tests are not
// parallel.
func TestREPLPrimes(t *testing.T) {
	out := runREPL(t, REPLConfig{Workers: 2}, "primes 1 1000\nlargest\nsmallest\nexit\n")
	for _, want := range []string{"Primes in [1, 1,000]: 168", "Largest prime: 997", "Smallest prime: 2", "Goodbye!"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestREPLShorthandInterval(t *testing.T) {
	out := runREPL(t, REPLConfig{Workers: 2}, "100 200\n")
	if !strings.Contains(out, "Primes in [100, 200]: 21") {
		t.Errorf("output:\n%s", out)
	}
}

func TestREPLSum(t *testing.T) {
	out := runREPL(t, REPLConfig{Workers: 3}, "sum 1000\n")
	if !strings.Contains(out, "Sum of A[0:1,000]: 499,500") {
		t.Errorf("output:\n%s", out)
	}
}

func TestREPLCompare(t *testing.T) {
	out := runREPL(t, REPLConfig{Workers: 4}, "compare 1 5000\n")
	for _, want := range []string{"Comparison Summary", "interleaved", "contiguous", "All results are consistent", "669"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestREPLSettings(t *testing.T) {
	out := runREPL(t, REPLConfig{Workers: 2}, "workers 8\nstrategy contiguous\nslice 50\ndetails\nstatus\n")
	for _, want := range []string{
		"Workers set to 8",
		"Strategy set to contiguous",
		"Slice length set to 50",
		"Per-worker details: on",
		"Workers:       8",
		"Strategy:      contiguous",
		"Slice length:  50",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestREPLErrors(t *testing.T) {
	out := runREPL(t, REPLConfig{Workers: 2}, "primes 10 1\nworkers 0\nstrategy diagonal\nsum x\nfrobnicate\n")
	for _, want := range []string{
		"Invalid input:",
		"Invalid worker count: 0",
		"unknown partition strategy",
		"Invalid length: x",
		"Unknown command: frobnicate",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestREPLLastLineWithoutNewline(t *testing.T) {
	out := runREPL(t, REPLConfig{Workers: 1}, "sum 10")
	if !strings.Contains(out, "Sum of A[0:10]: 45") {
		t.Errorf("output:\n%s", out)
	}
}

func TestREPLBaseConfigSliceLength(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "calibration.json")
	p := calibration.NewProfile()
	p.OptimalPrimesSliceLength = 64
	p.OptimalSumSliceLength = 8
	if err := p.SaveProfile(profile); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	tests := []struct {
		name string
		cfg  REPLConfig
		mode string
		want uint64
	}{
		{"sum default", REPLConfig{Workers: 4}, config.ModeSum, sum.DefaultSliceLength},
		{"primes default", REPLConfig{Workers: 4}, config.ModePrimes, primes.DefaultSliceLength},
		{"explicit wins", REPLConfig{Workers: 4, SliceLength: 250}, config.ModeSum, 250},
		{"profile sum", REPLConfig{Workers: 4, CalibrationProfile: profile}, config.ModeSum, 8},
		{"profile primes", REPLConfig{Workers: 4, CalibrationProfile: profile}, config.ModePrimes, 64},
		{"explicit over profile", REPLConfig{Workers: 4, SliceLength: 5, CalibrationProfile: profile}, config.ModeSum, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewREPL(tt.cfg).baseConfig(tt.mode).SliceLength
			if got != tt.want {
				t.Errorf("baseConfig(%s).SliceLength = %d, want %d", tt.mode, got, tt.want)
			}
		})
	}
}
