// This file contains environment variable overrides.

package config

import (
	"os"
	"strconv"
	"strings"
)

// envOverride maps an environment key (without the PRIMECALC_ prefix) to
// the flag it overrides and a function applying the raw value. Values that
// fail to parse are ignored.
type envOverride struct {
	envKey string
	flag   string
	apply  func(*AppConfig, string)
}

var envOverrides = []envOverride{
	// Numeric overrides
	{"A", "a", func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.A = parsed
		}
	}},
	{"B", "b", func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.B = parsed
		}
	}},
	{"LENGTH", "length", func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Length = parsed
		}
	}},
	{"WORKERS", "workers", func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Workers = parsed
		}
	}},
	{"SLICE_LENGTH", "slice-length", func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.SliceLength = parsed
		}
	}},
	{"REPEAT", "repeat", func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Repeat = parsed
		}
	}},

	// String overrides
	{"MODE", "mode", func(c *AppConfig, v string) { c.Mode = strings.ToLower(v) }},
	{"STRATEGY", "strategy", func(c *AppConfig, v string) { c.Strategy = v }},
	{"OUTPUT", "output", func(c *AppConfig, v string) { c.OutputFile = v }},
	{"METRICS_FILE", "metrics-file", func(c *AppConfig, v string) { c.MetricsFile = v }},
	{"CONFIG", "config", func(c *AppConfig, v string) { c.ConfigFile = v }},
	{"CALIBRATION_PROFILE", "calibration-profile", func(c *AppConfig, v string) { c.CalibrationProfile = v }},
	{"LOG_LEVEL", "log-level", func(c *AppConfig, v string) { c.LogLevel = v }},

	// Boolean overrides
	{"VERIFY", "verify", func(c *AppConfig, v string) { c.Verify = parseBoolEnv(v, c.Verify) }},
	{"COMPARE", "compare", func(c *AppConfig, v string) { c.Compare = parseBoolEnv(v, c.Compare) }},
	{"DETAILS", "details", func(c *AppConfig, v string) { c.Details = parseBoolEnv(v, c.Details) }},
	{"QUIET", "quiet", func(c *AppConfig, v string) { c.Quiet = parseBoolEnv(v, c.Quiet) }},
	{"TUI", "tui", func(c *AppConfig, v string) { c.TUI = parseBoolEnv(v, c.TUI) }},
	{"NO_COLOR", "no-color", func(c *AppConfig, v string) { c.NoColor = parseBoolEnv(v, c.NoColor) }},
}

// parseBoolEnv accepts "true", "1", "yes" and "false", "0", "no"
// (case-insensitive). Anything else returns defaultVal.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies PRIMECALC_* variables for every setting not
// given on the command line, and marks the applied ones as provided so a
// config file cannot override them.
func applyEnvOverrides(config *AppConfig, set provided) {
	for _, o := range envOverrides {
		if set.has(o.flag) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
			set.mark(o.flag)
		}
	}
}
