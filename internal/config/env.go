package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnvString returns RIEMANN_<key>, or def when it is unset or empty.
func getEnvString(key, def string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return def
}

// isFlagSetAny reports whether any of names was given on the command line.
// Aliased flags pass both forms.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// envOverride binds RIEMANN_<key> to the setting behind flags. Values that
// do not parse leave the setting unchanged.
type envOverride struct {
	key   string
	flags []string
	apply func(*AppConfig, string)
}

// envValue builds an override from a parser and a field selector.
func envValue[T any](key string, parse func(string) (T, error), field func(*AppConfig) *T, flags ...string) envOverride {
	return envOverride{key: key, flags: flags, apply: func(c *AppConfig, v string) {
		if parsed, err := parse(v); err == nil {
			*field(c) = parsed
		}
	}}
}

func parseInt(v string) (int, error) { return strconv.Atoi(v) }

func parseFloat(v string) (float64, error) { return strconv.ParseFloat(v, 64) }

func parseString(v string) (string, error) { return v, nil }

var envOverrides = []envOverride{
	envValue("FRAMES", parseInt, func(c *AppConfig) *int { return &c.Frames }, "frames"),
	envValue("WORKERS", parseInt, func(c *AppConfig) *int { return &c.Workers }, "workers"),
	envValue("WIDTH", parseInt, func(c *AppConfig) *int { return &c.Width }, "width"),
	envValue("HEIGHT", parseInt, func(c *AppConfig) *int { return &c.Height }, "height"),
	envValue("ORACLE_ORDER", parseInt, func(c *AppConfig) *int { return &c.OracleOrder }, "oracle-order"),
	envValue("ORACLE_TOLERANCE", parseFloat, func(c *AppConfig) *float64 { return &c.OracleTolerance }, "oracle-tolerance"),

	envValue("INTERVAL", time.ParseDuration, func(c *AppConfig) *time.Duration { return &c.Interval }, "interval"),
	envValue("TIMEOUT", time.ParseDuration, func(c *AppConfig) *time.Duration { return &c.Timeout }, "timeout"),

	envValue("INTEGRAND", parseString, func(c *AppConfig) *string { return &c.Integrand }, "integrand"),
	envValue("DOMAIN", parseString, func(c *AppConfig) *string { return &c.Domain }, "domain"),
	envValue("OUTPUT_DIR", parseString, func(c *AppConfig) *string { return &c.OutputDir }, "output-dir", "o"),
	envValue("GIF", parseString, func(c *AppConfig) *string { return &c.GIF }, "gif"),
	envValue("METRICS_FILE", parseString, func(c *AppConfig) *string { return &c.MetricsFile }, "metrics-file"),
	envValue("TRACE_FILE", parseString, func(c *AppConfig) *string { return &c.TraceFile }, "trace-file"),

	envValue("VERBOSE", parseBoolEnv, func(c *AppConfig) *bool { return &c.Verbose }, "verbose", "v"),
	envValue("DETAILS", parseBoolEnv, func(c *AppConfig) *bool { return &c.Details }, "details", "d"),
	envValue("QUIET", parseBoolEnv, func(c *AppConfig) *bool { return &c.Quiet }, "quiet", "q"),
	envValue("TUI", parseBoolEnv, func(c *AppConfig) *bool { return &c.TUI }, "tui"),
	envValue("NO_COLOR", parseBoolEnv, func(c *AppConfig) *bool { return &c.NoColor }, "no-color"),
	envValue("NO_REFERENCE", parseBoolEnv, func(c *AppConfig) *bool { return &c.NoReference }, "no-reference"),
	envValue("EXACT", parseBoolEnv, func(c *AppConfig) *bool { return &c.Exact }, "exact"),
	envValue("STRICT", parseBoolEnv, func(c *AppConfig) *bool { return &c.Strict }, "strict"),
}

// parseBoolEnv accepts true/1/yes and false/0/no, in any case.
func parseBoolEnv(val string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, strconv.ErrSyntax
}

// applyEnvOverrides applies RIEMANN_* variables to every setting whose flag
// was not given. It runs after the YAML file, which yields the priority
// flags > environment > file > defaults. RIEMANN_CONFIG is read separately
// by ParseConfig to locate the file.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.key); val != "" {
			o.apply(config, val)
		}
	}
}
