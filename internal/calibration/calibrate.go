// Package calibration measures which slice lengths run fastest on this
// machine and caches the result in a profile that later runs pick up when
// no slice length is configured.
package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/coder/quartz"

	"github.com/agbru/primecalc/internal/config"
	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/primes"
	"github.com/agbru/primecalc/internal/sum"
	"github.com/agbru/primecalc/internal/ui"
)

// Default calibration workloads.
const (
	DefaultPrimesA   uint64 = 1
	DefaultPrimesB   uint64 = 2_000_000
	DefaultSumLength        = 4_000_000
	DefaultRounds           = 3
)

// Quick calibration workloads.
const (
	QuickPrimesB   uint64 = 200_000
	QuickSumLength        = 400_000
)

// Options configures a calibration. Zero fields take their defaults.
type Options struct {
	Workers int
	// PrimesA and PrimesB bound the prime-counting benchmark.
	PrimesA, PrimesB uint64
	// SumLength is the number of elements in the sum benchmark.
	SumLength int
	// PrimeCandidates and SumCandidates are the slice lengths to try.
	PrimeCandidates []uint64
	SumCandidates   []uint64
	// Rounds is how many times each candidate runs; the fastest counts.
	Rounds int
	Clock  quartz.Clock
	Logger logging.Logger
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = config.AvailableCPUs()
	}
	if o.PrimesA == 0 && o.PrimesB == 0 {
		o.PrimesA, o.PrimesB = DefaultPrimesA, DefaultPrimesB
	}
	if o.SumLength == 0 {
		o.SumLength = DefaultSumLength
	}
	if len(o.PrimeCandidates) == 0 {
		o.PrimeCandidates = GenerateSliceLengths()
	}
	if len(o.SumCandidates) == 0 {
		o.SumCandidates = GenerateSumSliceLengths()
	}
	if o.Rounds < 1 {
		o.Rounds = DefaultRounds
	}
	if o.Clock == nil {
		o.Clock = quartz.NewReal()
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	return o
}

// calibrationResult is the best of Rounds runs for one slice length.
type calibrationResult struct {
	SliceLength uint64
	Duration    time.Duration
	Imbalance   float64
	Err         error
}

// runFunc runs one benchmark round and returns the report's imbalance.
type runFunc func(ctx context.Context, sliceLength uint64) (float64, error)

func measure(ctx context.Context, opts Options, candidates []uint64, run runFunc) []calibrationResult {
	results := make([]calibrationResult, 0, len(candidates))
	for _, sl := range candidates {
		res := calibrationResult{SliceLength: sl}
		for round := range opts.Rounds {
			start := opts.Clock.Now()
			imbalance, err := run(ctx, sl)
			elapsed := opts.Clock.Since(start)
			if err != nil {
				res.Err = err
				break
			}
			if round == 0 || elapsed < res.Duration {
				res.Duration, res.Imbalance = elapsed, imbalance
			}
		}
		opts.Logger.Debug("calibration candidate",
			logging.Uint64("slice_length", sl), logging.Duration("best", res.Duration), logging.Err(res.Err))
		results = append(results, res)
	}
	return results
}

// best returns the fastest successful slice length, preferring the earlier
// candidate on ties, or 0 when every candidate failed.
func best(results []calibrationResult) uint64 {
	var winner *calibrationResult
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			continue
		}
		if winner == nil || r.Duration < winner.Duration {
			winner = r
		}
	}
	if winner == nil {
		return 0
	}
	return winner.SliceLength
}

// RunCalibration benchmarks every candidate slice length for both
// workloads, prints the tables to out and returns the resulting profile.
func RunCalibration(ctx context.Context, opts Options, out io.Writer) (*CalibrationProfile, error) {
	opts = opts.withDefaults()
	started := opts.Clock.Now()

	primeResults := measure(ctx, opts, opts.PrimeCandidates, func(ctx context.Context, sl uint64) (float64, error) {
		res, err := primes.Count(ctx, opts.PrimesA, opts.PrimesB, primes.Options{Workers: opts.Workers, SliceLength: sl})
		if err != nil {
			return 0, err
		}
		return res.Report.Imbalance(), nil
	})
	bestPrimes := best(primeResults)
	printCalibrationResults(out, fmt.Sprintf("primes [%d, %d]", opts.PrimesA, opts.PrimesB), primeResults, bestPrimes)

	values := sum.Indices(opts.SumLength)
	sumResults := measure(ctx, opts, opts.SumCandidates, func(ctx context.Context, sl uint64) (float64, error) {
		report, err := sum.SumWithOptions(ctx, values, len(values), sum.Options{Workers: opts.Workers, SliceLength: sl})
		if err != nil {
			return 0, err
		}
		return report.Imbalance(), nil
	})
	bestSum := best(sumResults)
	printCalibrationResults(out, fmt.Sprintf("sum A[0:%d]", opts.SumLength), sumResults, bestSum)

	if bestPrimes == 0 || bestSum == 0 {
		return nil, apperrors.WrapError(firstErr(primeResults, sumResults), "calibration failed")
	}

	profile := NewProfile()
	profile.Workers = opts.Workers
	profile.OptimalPrimesSliceLength = bestPrimes
	profile.OptimalSumSliceLength = bestSum
	profile.CalibrationRange = fmt.Sprintf("[%d, %d]", opts.PrimesA, opts.PrimesB)
	profile.CalibrationTime = opts.Clock.Since(started).String()
	return profile, nil
}

func firstErr(sets ...[]calibrationResult) error {
	for _, set := range sets {
		for _, r := range set {
			if r.Err != nil {
				return r.Err
			}
		}
	}
	return fmt.Errorf("no candidates")
}

// Calibrate runs a full calibration for cfg, saves the profile and returns
// the exit code.
func Calibrate(ctx context.Context, cfg config.AppConfig, out io.Writer, logger logging.Logger) int {
	kind := "Calibration"
	if cfg.QuickCalibrate {
		kind = "Quick calibration"
	}
	fmt.Fprintf(out, "--- %s Mode: measuring slice lengths with %d workers ---\n", kind, cfg.Workers)
	profile, err := RunCalibration(ctx, calibrationOptions(cfg, logger), out)
	if err != nil {
		return apperrors.HandleRunError(err, 0, out, ui.Colors{})
	}

	path := cfg.CalibrationProfile
	if path == "" {
		path = GetDefaultProfilePath()
	}
	if err := profile.SaveProfile(path); err != nil {
		return apperrors.HandleRunError(err, 0, out, ui.Colors{})
	}
	printCalibrationOutput(out, profile, path)
	return apperrors.ExitSuccess
}

// calibrationOptions maps cfg onto calibration options. A quick calibration
// tries the short candidate list once on a smaller range.
func calibrationOptions(cfg config.AppConfig, logger logging.Logger) Options {
	opts := Options{Workers: cfg.Workers, Logger: logger}
	if cfg.QuickCalibrate {
		opts.PrimesA, opts.PrimesB = DefaultPrimesA, QuickPrimesB
		opts.SumLength = QuickSumLength
		opts.PrimeCandidates = GenerateQuickSliceLengths()
		opts.Rounds = 1
	}
	return opts
}

// LoadCachedCalibration fills in cfg.SliceLength from the profile at path
// (the default path when empty) when no other source set it. Missing,
// invalid and stale profiles are ignored.
func LoadCachedCalibration(cfg config.AppConfig, path string) config.AppConfig {
	if cfg.SliceLength != 0 {
		return cfg
	}
	if path == "" {
		path = GetDefaultProfilePath()
	}
	profile, ok := LoadOrCreateProfile(path)
	if !ok || profile.IsStale(DefaultMaxAge) {
		return cfg
	}
	switch cfg.Mode {
	case config.ModeSum:
		cfg.SliceLength = profile.OptimalSumSliceLength
	default:
		cfg.SliceLength = profile.OptimalPrimesSliceLength
	}
	return cfg
}
