package orchestration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"

	"github.com/agbru/primecalc/internal/config"
	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/metrics"
	"github.com/agbru/primecalc/internal/partition"
	"github.com/agbru/primecalc/internal/progress"
)

// recordingPresenter remembers what it was asked to present.
type recordingPresenter struct {
	tableRows int
	presented *RunResult
	handled   error
}

func (p *recordingPresenter) PresentComparisonTable(results []RunResult, _ io.Writer) {
	p.tableRows = len(results)
}

func (p *recordingPresenter) PresentResult(result RunResult, _ PresentationOptions, _ io.Writer) {
	p.presented = &result
}

func (p *recordingPresenter) HandleError(err error, _ time.Duration, _ io.Writer) int {
	p.handled = err
	return apperrors.ExitCodeFor(err)
}

// fakeWorkload returns a canned result after emitting a few events.
type fakeWorkload struct {
	name    string
	workers int
	result  RunResult
	events  int
}

func (f fakeWorkload) Name() string { return f.name }
func (f fakeWorkload) Workers() int { return f.workers }

func (f fakeWorkload) Run(_ context.Context, observer progress.Observer) RunResult {
	for w := range f.workers {
		observer.WorkerStarted(w, uint64(f.events))
		for i := 1; i <= f.events; i++ {
			observer.SliceDone(w, uint64(i), uint64(f.events))
		}
		observer.WorkerDone(w, 0)
	}
	res := f.result
	res.Name = f.name
	return res
}

func TestExecuteWorkloadsRunsInOrder(t *testing.T) {
	t.Parallel()
	workloads := []Workload{
		fakeWorkload{name: "first", workers: 2, events: 3, result: RunResult{Mode: config.ModePrimes, Count: 4}},
		fakeWorkload{name: "second", workers: 1, events: 3, result: RunResult{Mode: config.ModePrimes, Count: 4}},
		fakeWorkload{name: "broken", workers: 3, result: RunResult{Mode: config.ModePrimes, Err: errors.New("boom")}},
	}

	var mu sync.Mutex
	var lanes []int
	reporter := ProgressReporterFunc(func(wg *sync.WaitGroup, updates <-chan progress.Update, numWorkers int, _ io.Writer) {
		defer wg.Done()
		mu.Lock()
		lanes = append(lanes, numWorkers)
		mu.Unlock()
		DrainChannel(updates)
	})

	results := ExecuteWorkloads(context.Background(), workloads, reporter, io.Discard, ExecuteOptions{})
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, want := range []string{"first", "second", "broken"} {
		if results[i].Name != want {
			t.Errorf("results[%d].Name = %q, want %q", i, results[i].Name, want)
		}
	}
	if results[2].Err == nil {
		t.Error("expected the broken workload to carry its error")
	}
	if got := []int{lanes[0], lanes[1], lanes[2]}; got[0] != 2 || got[1] != 1 || got[2] != 3 {
		t.Errorf("progress lanes = %v, want [2 1 3]", got)
	}
}

func TestExecuteWorkloadsDurationFromClock(t *testing.T) {
	t.Parallel()
	mClock := quartz.NewMock(t)
	results := ExecuteWorkloads(context.Background(),
		[]Workload{fakeWorkload{name: "w", workers: 1, result: RunResult{Mode: config.ModeSum, Sum: 1}}},
		NullProgressReporter{}, io.Discard, ExecuteOptions{Clock: mClock})
	if results[0].Duration != 0 {
		t.Errorf("Duration = %v with a frozen clock, want 0", results[0].Duration)
	}
}

func TestExecuteWorkloadsRecordsMetrics(t *testing.T) {
	t.Parallel()
	m := metrics.NewMetrics()
	workloads := []Workload{
		fakeWorkload{name: "interleaved", workers: 1, result: RunResult{Mode: config.ModePrimes, Count: 25, Largest: 97, Imbalance: 1}},
		fakeWorkload{name: "contiguous", workers: 1, result: RunResult{Mode: config.ModePrimes, Err: errors.New("x")}},
	}
	ExecuteWorkloads(context.Background(), workloads, NullProgressReporter{}, io.Discard, ExecuteOptions{Metrics: m})

	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	text := buf.String()
	for _, want := range []string{
		`primecalc_runs_total{mode="primes",strategy="interleaved"} 1`,
		`primecalc_run_failures_total{mode="primes"} 1`,
		`primecalc_largest_prime 97`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestAnalyzeResults(t *testing.T) {
	t.Parallel()
	cfg := config.AppConfig{Mode: config.ModePrimes, A: 1, B: 100}

	tests := []struct {
		name        string
		results     []RunResult
		wantCode    int
		wantTable   int
		wantPresent string
	}{
		{
			name:        "single success",
			results:     []RunResult{{Name: "interleaved", Mode: config.ModePrimes, Count: 25, Largest: 97}},
			wantCode:    apperrors.ExitSuccess,
			wantPresent: "interleaved",
		},
		{
			name:     "single validation failure",
			results:  []RunResult{{Name: "interleaved", Err: apperrors.NewValidationError("range", "bad")}},
			wantCode: apperrors.ExitErrorConfig,
		},
		{
			name: "agreeing results present the fastest",
			results: []RunResult{
				{Name: "slow", Mode: config.ModePrimes, Count: 25, Largest: 97, Duration: 2 * time.Second},
				{Name: "fast", Mode: config.ModePrimes, Count: 25, Largest: 97, Duration: time.Second},
			},
			wantCode:    apperrors.ExitSuccess,
			wantTable:   2,
			wantPresent: "fast",
		},
		{
			name: "disagreement",
			results: []RunResult{
				{Name: "a", Mode: config.ModePrimes, Count: 25, Largest: 97},
				{Name: "b", Mode: config.ModePrimes, Count: 24, Largest: 97},
			},
			wantCode:  apperrors.ExitErrorMismatch,
			wantTable: 2,
		},
		{
			name: "all failed",
			results: []RunResult{
				{Name: "a", Err: errors.New("x")},
				{Name: "b", Err: errors.New("y")},
			},
			wantCode:  apperrors.ExitErrorGeneric,
			wantTable: 2,
		},
		{
			name: "sum repetition mismatch",
			results: []RunResult{
				{Name: "a", Mode: config.ModeSum, Sum: 10},
				{Name: "b", Mode: config.ModeSum, Err: apperrors.MismatchError{Expected: "10", Got: "11", Run: "b repetition 2"}},
			},
			wantCode:  apperrors.ExitErrorMismatch,
			wantTable: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &recordingPresenter{}
			code := AnalyzeResults(tt.results, cfg, p, io.Discard)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if p.tableRows != tt.wantTable {
				t.Errorf("table rows = %d, want %d", p.tableRows, tt.wantTable)
			}
			switch {
			case tt.wantPresent == "" && p.presented != nil:
				t.Errorf("unexpected PresentResult(%q)", p.presented.Name)
			case tt.wantPresent != "" && (p.presented == nil || p.presented.Name != tt.wantPresent):
				t.Errorf("PresentResult = %+v, want %q", p.presented, tt.wantPresent)
			}
		})
	}
}

func TestAnalyzeResultsVerifiesLargestPrime(t *testing.T) {
	t.Parallel()
	cfg := config.AppConfig{Mode: config.ModePrimes, A: 1, B: 100, Verify: true}

	var out bytes.Buffer
	code := AnalyzeResults([]RunResult{{Name: "interleaved", Mode: config.ModePrimes, Count: 25, Largest: 97}}, cfg, &recordingPresenter{}, &out)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want success", code)
	}
	if !strings.Contains(out.String(), "largest prime 97 confirmed") {
		t.Errorf("output = %q, want a confirmation line", out.String())
	}

	out.Reset()
	code = AnalyzeResults([]RunResult{{Name: "interleaved", Mode: config.ModePrimes, Count: 25, Largest: 91}}, cfg, &recordingPresenter{}, &out)
	if code != apperrors.ExitErrorMismatch {
		t.Errorf("composite largest: exit code = %d, want %d", code, apperrors.ExitErrorMismatch)
	}
}

func TestAnalyzeResultsQuietSkipsTable(t *testing.T) {
	t.Parallel()
	cfg := config.AppConfig{Mode: config.ModePrimes, A: 1, B: 1000, Verify: true, Quiet: true}
	results := []RunResult{
		{Name: "sequential", Mode: config.ModePrimes, Count: 168, Largest: 997, Duration: time.Second},
		{Name: "interleaved", Mode: config.ModePrimes, Count: 168, Largest: 997, Duration: time.Millisecond},
	}

	var out bytes.Buffer
	p := &recordingPresenter{}
	if code := AnalyzeResults(results, cfg, p, &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want success", code)
	}
	if p.tableRows != 0 {
		t.Errorf("table rows = %d, want no table", p.tableRows)
	}
	if p.presented == nil || p.presented.Name != "interleaved" {
		t.Errorf("PresentResult = %+v, want interleaved", p.presented)
	}
	if out.Len() != 0 {
		t.Errorf("output = %q, want nothing besides the presented value", out.String())
	}
}

func TestAnalyzeResultsEmpty(t *testing.T) {
	t.Parallel()
	if code := AnalyzeResults(nil, config.AppConfig{}, &recordingPresenter{}, io.Discard); code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want success", code)
	}
}

func TestGetWorkloadsToRun(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		cfg   config.AppConfig
		names []string
	}{
		{"default", config.AppConfig{Mode: config.ModePrimes, Workers: 2}, []string{"interleaved"}},
		{"contiguous", config.AppConfig{Mode: config.ModePrimes, Workers: 2, Strategy: "contiguous"}, []string{"contiguous"}},
		{"compare", config.AppConfig{Mode: config.ModeSum, Workers: 2, Compare: true}, []string{"interleaved", "contiguous"}},
		{"verify", config.AppConfig{Mode: config.ModePrimes, Workers: 2, Verify: true}, []string{"interleaved", SequentialName}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := GetWorkloadsToRun(tt.cfg, nil)
			if len(got) != len(tt.names) {
				t.Fatalf("got %d workloads, want %d", len(got), len(tt.names))
			}
			for i, w := range got {
				if w.Name() != tt.names[i] {
					t.Errorf("workload %d = %q, want %q", i, w.Name(), tt.names[i])
				}
			}
		})
	}
}

// Real workloads touch the process-wide largest prime, so this test is not
// parallel.
func TestRealWorkloadsAgree(t *testing.T) {
	cfg := config.AppConfig{Mode: config.ModePrimes, A: 1, B: 5000, Workers: 4, SliceLength: 50, Compare: true, Verify: true}
	results := ExecuteWorkloads(context.Background(), GetWorkloadsToRun(cfg, nil), NullProgressReporter{}, io.Discard, ExecuteOptions{})
	if len(results) != len(partition.Strategies)+1 {
		t.Fatalf("got %d results", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("%s: %v", r.Name, r.Err)
		}
		if r.Count != 669 || r.Largest != 4999 {
			t.Errorf("%s: got (%d, %d), want (669, 4999)", r.Name, r.Count, r.Largest)
		}
	}
	if code := AnalyzeResults(results, cfg, &recordingPresenter{}, io.Discard); code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want success", code)
	}
}

func TestSumWorkloadRepeats(t *testing.T) {
	t.Parallel()
	cfg := config.AppConfig{Mode: config.ModeSum, Length: 1000, Workers: 3, SliceLength: 20, Repeat: 5, Verify: true}
	results := ExecuteWorkloads(context.Background(), GetWorkloadsToRun(cfg, nil), NullProgressReporter{}, io.Discard, ExecuteOptions{})
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("%s: %v", r.Name, r.Err)
		}
		if r.Sum != 499500 {
			t.Errorf("%s: sum = %v, want 499500", r.Name, r.Sum)
		}
	}
	if results[0].Value() != "499500" {
		t.Errorf("Value() = %q", results[0].Value())
	}
}
