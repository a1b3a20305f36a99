package config

import (
	"github.com/agbru/primecalc/internal/primes"
	"github.com/agbru/primecalc/internal/sum"
)

// Slice length resolution chain (highest priority first):
//   1. --slice-length flag
//   2. PRIMECALC_SLICE_LENGTH
//   3. slice_length in the YAML config file
//   4. cached calibration profile (~/.primecalc_calibration.json)
//   5. DefaultSliceLength for the mode

// DefaultSliceLength returns the built-in slice length for a mode.
func DefaultSliceLength(mode string) uint64 {
	if mode == ModeSum {
		return sum.DefaultSliceLength
	}
	return primes.DefaultSliceLength
}

// ApplyDefaults fills in the slice length when no higher-priority source
// set it.
func ApplyDefaults(cfg AppConfig) AppConfig {
	if cfg.SliceLength == 0 {
		cfg.SliceLength = DefaultSliceLength(cfg.Mode)
	}
	return cfg
}
