package calibration

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/primecalc/internal/config"
	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/ui"
)

func TestGenerateSliceLengths(t *testing.T) {
	t.Parallel()
	full := GenerateSliceLengths()
	quick := GenerateQuickSliceLengths()
	require.NotEmpty(t, full)
	require.NotEmpty(t, quick)
	assert.LessOrEqual(t, len(quick), len(full))
	for i := 1; i < len(full); i++ {
		assert.Less(t, full[i-1], full[i], "candidates should be strictly increasing")
	}
	if runtime.NumCPU() > 1 {
		assert.Contains(t, full, uint64(250))
	}
	assert.NotEmpty(t, GenerateSumSliceLengths())
}

func TestBest(t *testing.T) {
	t.Parallel()
	results := []calibrationResult{
		{SliceLength: 10, Duration: 5 * time.Millisecond},
		{SliceLength: 20, Duration: 2 * time.Millisecond},
		{SliceLength: 30, Duration: 2 * time.Millisecond},
		{SliceLength: 40, Err: errors.New("x")},
	}
	assert.Equal(t, uint64(20), best(results), "ties keep the earlier candidate")
	assert.Equal(t, uint64(0), best([]calibrationResult{{SliceLength: 1, Err: errors.New("x")}}))
}

func TestMeasureKeepsFastestRound(t *testing.T) {
	t.Parallel()
	mClock := quartz.NewMock(t)
	opts := Options{Rounds: 3, Clock: mClock}.withDefaults()

	// Rounds take 30ms, 10ms and 20ms.
	steps := []time.Duration{30 * time.Millisecond, 10 * time.Millisecond, 20 * time.Millisecond}
	call := 0
	results := measure(context.Background(), opts, []uint64{50}, func(context.Context, uint64) (float64, error) {
		mClock.Advance(steps[call])
		call++
		return float64(call), nil
	})
	require.Len(t, results, 1)
	assert.Equal(t, 10*time.Millisecond, results[0].Duration)
	assert.Equal(t, 2.0, results[0].Imbalance)
}

func TestMeasureStopsOnError(t *testing.T) {
	t.Parallel()
	calls := 0
	results := measure(context.Background(), Options{Rounds: 5}.withDefaults(), []uint64{1}, func(context.Context, uint64) (float64, error) {
		calls++
		return 0, errors.New("boom")
	})
	assert.Equal(t, 1, calls)
	assert.Error(t, results[0].Err)
}

// Calibration runs primes.Count, which resets the process-wide largest
// prime, so it is not parallel.
func TestRunCalibration(t *testing.T) {
	ui.InitTheme(true)
	var out bytes.Buffer
	profile, err := RunCalibration(context.Background(), Options{
		Workers:         2,
		PrimesA:         1,
		PrimesB:         5000,
		SumLength:       1000,
		PrimeCandidates: []uint64{10, 100},
		SumCandidates:   []uint64{5, 50},
		Rounds:          1,
	}, &out)
	require.NoError(t, err)

	assert.Contains(t, []uint64{10, 100}, profile.OptimalPrimesSliceLength)
	assert.Contains(t, []uint64{5, 50}, profile.OptimalSumSliceLength)
	assert.Equal(t, 2, profile.Workers)
	assert.Equal(t, "[1, 5000]", profile.CalibrationRange)

	text := out.String()
	assert.Contains(t, text, "Calibration Summary: primes [1, 5000]")
	assert.Contains(t, text, "Calibration Summary: sum A[0:1000]")
	assert.Equal(t, 2, strings.Count(text, "(Optimal)"))
}

func TestRunCalibrationInvalidRange(t *testing.T) {
	_, err := RunCalibration(context.Background(), Options{
		Workers: 1, PrimesA: 10, PrimesB: 1, SumLength: 10,
		PrimeCandidates: []uint64{10}, SumCandidates: []uint64{10}, Rounds: 1,
	}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ExitErrorConfig, apperrors.ExitCodeFor(err))
}

func TestCalibrationOptions(t *testing.T) {
	full := calibrationOptions(config.AppConfig{Workers: 3}, nil).withDefaults()
	assert.Equal(t, 3, full.Workers)
	assert.Equal(t, DefaultPrimesB, full.PrimesB)
	assert.Equal(t, GenerateSliceLengths(), full.PrimeCandidates)
	assert.Equal(t, DefaultRounds, full.Rounds)

	quick := calibrationOptions(config.AppConfig{Workers: 3, QuickCalibrate: true}, nil).withDefaults()
	assert.Equal(t, QuickPrimesB, quick.PrimesB)
	assert.Equal(t, QuickSumLength, quick.SumLength)
	assert.Equal(t, GenerateQuickSliceLengths(), quick.PrimeCandidates)
	assert.Equal(t, GenerateSumSliceLengths(), quick.SumCandidates)
	assert.Equal(t, 1, quick.Rounds)
}

func TestQuickCalibrateSavesProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("calibration runs real benchmarks")
	}
	ui.InitTheme(true)
	path := filepath.Join(t.TempDir(), "profile.json")
	var out bytes.Buffer
	code := Calibrate(context.Background(), config.AppConfig{Workers: 2, QuickCalibrate: true, CalibrationProfile: path}, &out, nil)
	require.Equal(t, apperrors.ExitSuccess, code, out.String())

	profile, ok := LoadOrCreateProfile(path)
	require.True(t, ok)
	assert.Contains(t, GenerateQuickSliceLengths(), profile.OptimalPrimesSliceLength)
	assert.Contains(t, out.String(), "Quick calibration Mode")
	assert.Contains(t, out.String(), "Calibration Summary: primes [1, 200000]")
}

func TestCalibrateSavesProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("full calibration is slow")
	}
	ui.InitTheme(true)
	path := filepath.Join(t.TempDir(), "profile.json")
	var out bytes.Buffer
	code := Calibrate(context.Background(), config.AppConfig{Workers: 2, CalibrationProfile: path}, &out, nil)
	require.Equal(t, apperrors.ExitSuccess, code, out.String())

	profile, ok := LoadOrCreateProfile(path)
	require.True(t, ok)
	assert.NotZero(t, profile.OptimalPrimesSliceLength)
	assert.Contains(t, out.String(), "Profile saved to "+path)
}
