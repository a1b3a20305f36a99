package partition

import (
	"fmt"
	"math"

	apperrors "github.com/agbru/primecalc/internal/errors"
)

// Range is the half-open interval [Start, End).
type Range struct {
	Start uint64
	End   uint64
}

// NewRange validates start <= end and returns the range.
func NewRange(start, end uint64) (Range, error) {
	if start > end {
		return Range{}, apperrors.NewValidationError("range", "start %d is greater than end %d", start, end)
	}
	return Range{Start: start, End: end}, nil
}

// InclusiveRange converts the closed interval [a, b] into a Range.
// b must be below math.MaxUint64 so that b+1 is representable.
func InclusiveRange(a, b uint64) (Range, error) {
	if a > b {
		return Range{}, apperrors.NewValidationError("range", "start %d is greater than end %d", a, b)
	}
	if b == math.MaxUint64 {
		return Range{}, apperrors.NewValidationError("range", "end %d leaves no room for an exclusive bound", b)
	}
	return Range{Start: a, End: b + 1}, nil
}

// Len returns the number of elements in the range.
func (r Range) Len() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Empty reports whether the range holds no elements.
func (r Range) Empty() bool { return r.Len() == 0 }

func (r Range) String() string { return fmt.Sprintf("[%d, %d)", r.Start, r.End) }
