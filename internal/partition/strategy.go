package partition

import (
	"fmt"
	"strings"

	apperrors "github.com/agbru/primecalc/internal/errors"
)

// Strategy selects how a range is divided between workers.
type Strategy int

const (
	// StrategyInterleaved deals fixed-length slices to workers round-robin.
	StrategyInterleaved Strategy = iota
	// StrategyContiguous gives each worker one block of ceil(n/workers) elements.
	StrategyContiguous
)

// Strategies lists every strategy, default first.
var Strategies = []Strategy{StrategyInterleaved, StrategyContiguous}

func (s Strategy) String() string {
	switch s {
	case StrategyInterleaved:
		return "interleaved"
	case StrategyContiguous:
		return "contiguous"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy resolves a strategy name (case-insensitive).
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "interleaved":
		return StrategyInterleaved, nil
	case "contiguous", "block":
		return StrategyContiguous, nil
	default:
		return 0, apperrors.NewConfigError("unknown partition strategy %q (accepted values: interleaved, contiguous)", name)
	}
}

// Build partitions r for the given strategy. sliceLength is ignored by
// StrategyContiguous.
func Build(s Strategy, r Range, workers int, sliceLength uint64) ([]Assignment, error) {
	switch s {
	case StrategyInterleaved:
		return Interleaved(r, workers, sliceLength)
	case StrategyContiguous:
		return Contiguous(r, workers)
	default:
		return nil, apperrors.NewValidationError("strategy", "unsupported strategy %v", s)
	}
}

// Interleaved returns one assignment per worker. Worker k starts at
// r.Start + k*sliceLength and advances by workers*sliceLength, so the
// assignments tile r exactly. Workers whose first slice starts at or past
// r.End receive an empty assignment.
func Interleaved(r Range, workers int, sliceLength uint64) ([]Assignment, error) {
	if err := validate(r, workers); err != nil {
		return nil, err
	}
	if sliceLength == 0 {
		return nil, apperrors.NewValidationError("sliceLength", "must be positive")
	}

	stride := satMul(uint64(workers), sliceLength)
	out := make([]Assignment, workers)
	for k := range out {
		out[k] = Assignment{
			Worker:          k,
			FirstSliceStart: satAdd(r.Start, satMul(uint64(k), sliceLength)),
			SliceLength:     sliceLength,
			SliceStride:     stride,
			RangeEnd:        r.End,
		}
	}
	return out, nil
}

// Contiguous returns one block per worker: worker k covers
// [r.Start + k*w, r.Start + (k+1)*w) clipped to r, where w = ceil(len/workers).
// Later workers receive strictly larger elements, which unbalances
// workloads whose cost grows with the element value.
func Contiguous(r Range, workers int) ([]Assignment, error) {
	if err := validate(r, workers); err != nil {
		return nil, err
	}

	n := r.Len()
	w := uint64(workers)
	block := n / w
	if n%w != 0 {
		block++
	}
	if block == 0 {
		block = 1
	}

	out := make([]Assignment, workers)
	for k := range out {
		start := satAdd(r.Start, satMul(uint64(k), block))
		end := satAdd(start, block)
		if end > r.End {
			end = r.End
		}
		if start >= r.End {
			start, end = r.End, r.End
		}
		out[k] = Assignment{
			Worker:          k,
			FirstSliceStart: start,
			SliceLength:     block,
			SliceStride:     block,
			RangeEnd:        end,
		}
	}
	return out, nil
}

func validate(r Range, workers int) error {
	if r.Start > r.End {
		return apperrors.NewValidationError("range", "start %d is greater than end %d", r.Start, r.End)
	}
	if workers <= 0 {
		return apperrors.NewValidationError("workers", "must be positive, got %d", workers)
	}
	return nil
}
