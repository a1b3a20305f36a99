package calibration

import "runtime"

// GenerateSliceLengths returns the slice lengths benchmarked by a full
// calibration. More workers favour shorter slices, which spread the
// expensive high end of a range more evenly, so the candidate list grows
// downwards with the CPU count.
func GenerateSliceLengths() []uint64 {
	numCPU := runtime.NumCPU()
	base := []uint64{50, 100, 250, 500, 1000, 2500}
	switch {
	case numCPU == 1:
		// One worker visits every slice anyway; only the loop overhead differs.
		return []uint64{250, 1000, 2500}
	case numCPU <= 4:
		return base
	case numCPU <= 16:
		return append([]uint64{20}, base...)
	default:
		return append([]uint64{5, 10, 20}, base...)
	}
}

// GenerateQuickSliceLengths returns a short candidate list for a quick
// calibration.
func GenerateQuickSliceLengths() []uint64 {
	if runtime.NumCPU() == 1 {
		return []uint64{250}
	}
	return []uint64{50, 250, 1000}
}

// GenerateSumSliceLengths returns the candidates for the sum workload, whose
// elements all cost the same.
func GenerateSumSliceLengths() []uint64 {
	return []uint64{10, 20, 100, 1000, 10000}
}
