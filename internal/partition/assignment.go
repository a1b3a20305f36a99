package partition

import (
	"iter"
	"math"
	"math/bits"
)

// Assignment describes the slices owned by one worker. The worker visits
// slice starts FirstSliceStart, FirstSliceStart+SliceStride, ... while the
// start is below RangeEnd; each slice covers
// [start, min(start+SliceLength, RangeEnd)).
type Assignment struct {
	Worker          int
	FirstSliceStart uint64
	SliceLength     uint64
	SliceStride     uint64
	RangeEnd        uint64
}

// Slices yields the [lo, hi) bounds of every slice in the assignment, in
// increasing order. Iteration stops instead of wrapping if advancing by the
// stride would overflow.
func (a Assignment) Slices() iter.Seq2[uint64, uint64] {
	return func(yield func(lo, hi uint64) bool) {
		if a.SliceLength == 0 {
			return
		}
		for lo := a.FirstSliceStart; lo < a.RangeEnd; {
			hi := satAdd(lo, a.SliceLength)
			if hi > a.RangeEnd {
				hi = a.RangeEnd
			}
			if !yield(lo, hi) {
				return
			}
			next, carry := bits.Add64(lo, a.SliceStride, 0)
			if carry != 0 || next <= lo {
				return
			}
			lo = next
		}
	}
}

// Size returns the number of elements the assignment covers.
func (a Assignment) Size() uint64 {
	var n uint64
	for lo, hi := range a.Slices() {
		n += hi - lo
	}
	return n
}

// SliceCount returns how many slices the assignment covers.
func (a Assignment) SliceCount() uint64 {
	if a.SliceLength == 0 || a.FirstSliceStart >= a.RangeEnd {
		return 0
	}
	if a.SliceStride == 0 {
		return 1
	}
	// Slices start at FirstSliceStart + i*SliceStride for every i with a
	// start below RangeEnd.
	return (a.RangeEnd-a.FirstSliceStart-1)/a.SliceStride + 1
}

// Empty reports whether the worker has nothing to do.
func (a Assignment) Empty() bool {
	return a.SliceLength == 0 || a.FirstSliceStart >= a.RangeEnd
}

// satAdd returns a+b, saturating at math.MaxUint64.
func satAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// satMul returns a*b, saturating at math.MaxUint64.
func satMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}
