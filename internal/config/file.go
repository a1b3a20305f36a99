package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/primecalc/internal/errors"
)

// FileConfig is the YAML configuration file layout. Absent keys leave the
// corresponding setting untouched.
type FileConfig struct {
	Mode        *string `yaml:"mode"`
	A           *uint64 `yaml:"a"`
	B           *uint64 `yaml:"b"`
	Length      *int    `yaml:"length"`
	Workers     *int    `yaml:"workers"`
	SliceLength *uint64 `yaml:"slice_length"`
	Strategy    *string `yaml:"strategy"`
	Repeat      *int    `yaml:"repeat"`
	Verify      *bool   `yaml:"verify"`
	Details     *bool   `yaml:"details"`
	Quiet       *bool   `yaml:"quiet"`
	Output      *string `yaml:"output"`
	MetricsFile *string `yaml:"metrics_file"`
	LogLevel    *string `yaml:"log_level"`
}

// LoadFile reads and strictly decodes a YAML configuration file. Unknown
// keys are rejected.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, apperrors.NewConfigError("reading config file: %v", err)
	}
	return ParseFile(data)
}

// ParseFile decodes YAML configuration data.
func ParseFile(data []byte) (FileConfig, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, apperrors.NewConfigError("parsing config file: %v", err)
	}
	return fc, nil
}

func (fc FileConfig) apply(c *AppConfig, set provided) {
	setValue(&c.Mode, fc.Mode, "mode", set)
	setValue(&c.A, fc.A, "a", set)
	setValue(&c.B, fc.B, "b", set)
	setValue(&c.Length, fc.Length, "length", set)
	setValue(&c.Workers, fc.Workers, "workers", set)
	setValue(&c.SliceLength, fc.SliceLength, "slice-length", set)
	setValue(&c.Strategy, fc.Strategy, "strategy", set)
	setValue(&c.Repeat, fc.Repeat, "repeat", set)
	setValue(&c.Verify, fc.Verify, "verify", set)
	setValue(&c.Details, fc.Details, "details", set)
	setValue(&c.Quiet, fc.Quiet, "quiet", set)
	setValue(&c.OutputFile, fc.Output, "output", set)
	setValue(&c.MetricsFile, fc.MetricsFile, "metrics-file", set)
	setValue(&c.LogLevel, fc.LogLevel, "log-level", set)
}

func setValue[T any](dst *T, src *T, flag string, set provided) {
	if src == nil || set.has(flag) {
		return
	}
	*dst = *src
}
