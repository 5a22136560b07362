// This file contains the YAML configuration file loader.

package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/riemann2d/internal/errors"
)

// FileConfig mirrors AppConfig for YAML files. Pointer fields distinguish
// "absent" from the zero value so that only keys present in the file
// override the defaults.
type FileConfig struct {
	Frames          *int           `yaml:"frames"`
	Integrand       *string        `yaml:"integrand"`
	Domain          *string        `yaml:"domain"`
	Workers         *int           `yaml:"workers"`
	Interval        *time.Duration `yaml:"interval"`
	Timeout         *time.Duration `yaml:"timeout"`
	OutputDir       *string        `yaml:"output_dir"`
	GIF             *string        `yaml:"gif"`
	Width           *int           `yaml:"width"`
	Height          *int           `yaml:"height"`
	OracleOrder     *int           `yaml:"oracle_order"`
	OracleTolerance *float64       `yaml:"oracle_tolerance"`
	TUI             *bool          `yaml:"tui"`
	Quiet           *bool          `yaml:"quiet"`
	Verbose         *bool          `yaml:"verbose"`
	Details         *bool          `yaml:"details"`
	NoColor         *bool          `yaml:"no_color"`
	NoReference     *bool          `yaml:"no_reference"`
	Exact           *bool          `yaml:"exact"`
	Strict          *bool          `yaml:"strict"`
	MetricsFile     *string        `yaml:"metrics_file"`
	TraceFile       *string        `yaml:"trace_file"`
}

// LoadFile reads and decodes a YAML configuration file. Unknown keys are
// rejected so that typos surface as errors.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, apperrors.NewConfigError("reading config file: %v", err)
	}
	return DecodeFile(data)
}

// DecodeFile decodes YAML configuration bytes. An empty document yields an
// empty FileConfig.
func DecodeFile(data []byte) (FileConfig, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, apperrors.NewConfigError("parsing config file: %v", err)
	}
	return fc, nil
}

// apply copies the keys present in the file into cfg, skipping any setting
// whose flag was given on the command line.
func (fc FileConfig) apply(cfg *AppConfig, fs *flag.FlagSet) {
	set := func(names ...string) bool { return isFlagSetAny(fs, names...) }

	assign(fc.Frames, &cfg.Frames, set("frames"))
	assign(fc.Integrand, &cfg.Integrand, set("integrand"))
	assign(fc.Domain, &cfg.Domain, set("domain"))
	assign(fc.Workers, &cfg.Workers, set("workers"))
	assign(fc.Interval, &cfg.Interval, set("interval"))
	assign(fc.Timeout, &cfg.Timeout, set("timeout"))
	assign(fc.OutputDir, &cfg.OutputDir, set("output-dir", "o"))
	assign(fc.GIF, &cfg.GIF, set("gif"))
	assign(fc.Width, &cfg.Width, set("width"))
	assign(fc.Height, &cfg.Height, set("height"))
	assign(fc.OracleOrder, &cfg.OracleOrder, set("oracle-order"))
	assign(fc.OracleTolerance, &cfg.OracleTolerance, set("oracle-tolerance"))
	assign(fc.TUI, &cfg.TUI, set("tui"))
	assign(fc.Quiet, &cfg.Quiet, set("quiet", "q"))
	assign(fc.Verbose, &cfg.Verbose, set("verbose", "v"))
	assign(fc.Details, &cfg.Details, set("details", "d"))
	assign(fc.NoColor, &cfg.NoColor, set("no-color"))
	assign(fc.NoReference, &cfg.NoReference, set("no-reference"))
	assign(fc.Exact, &cfg.Exact, set("exact"))
	assign(fc.Strict, &cfg.Strict, set("strict"))
	assign(fc.MetricsFile, &cfg.MetricsFile, set("metrics-file"))
	assign(fc.TraceFile, &cfg.TraceFile, set("trace-file"))
}

func assign[T any](src *T, dst *T, flagSet bool) {
	if src != nil && !flagSet {
		*dst = *src
	}
}
