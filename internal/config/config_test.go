package config

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/riemann2d/internal/errors"
	"github.com/agbru/riemann2d/internal/riemann"
)

var testIntegrands = []string{"bilinear", "gaussian", "paraboloid", "saddle", "sinprod"}

func TestParseConfigDefaults(t *testing.T) {
	var errBuf bytes.Buffer
	cfg, err := ParseConfig("riemann", nil, &errBuf, testIntegrands)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("ParseConfig() = %+v, want %+v", cfg, want)
	}
	if cfg.Frames != 9 || cfg.Interval != time.Second {
		t.Errorf("default schedule = %d frames every %s, want 9 every 1s", cfg.Frames, cfg.Interval)
	}
}

func TestParseConfigFlags(t *testing.T) {
	t.Parallel()
	args := []string{
		"--frames", "4", "--integrand", "saddle", "--workers", "2",
		"--interval", "0s", "-o", "out", "--gif", "run.gif", "-q", "-d",
		"--domain", "0,pi,-pi/2,pi/2", "--oracle-order", "32", "--strict",
	}
	cfg, err := ParseConfig("riemann", args, &bytes.Buffer{}, testIntegrands)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Frames != 4 || cfg.Integrand != "saddle" || cfg.Workers != 2 {
		t.Errorf("numeric flags not applied: %+v", cfg)
	}
	if cfg.Interval != 0 || cfg.OutputDir != "out" || cfg.GIF != "run.gif" {
		t.Errorf("output flags not applied: %+v", cfg)
	}
	if !cfg.Quiet || !cfg.Details || !cfg.Strict || cfg.OracleOrder != 32 {
		t.Errorf("boolean flags not applied: %+v", cfg)
	}
	d, err := cfg.ResolveDomain(riemann.Domain{})
	if err != nil {
		t.Fatalf("ResolveDomain() error = %v", err)
	}
	if d.XMax != math.Pi || d.YMin != -math.Pi/2 {
		t.Errorf("ResolveDomain() = %+v", d)
	}
}

func TestParseConfigHelp(t *testing.T) {
	t.Parallel()
	var errBuf bytes.Buffer
	_, err := ParseConfig("riemann", []string{"-h"}, &errBuf, testIntegrands)
	if !IsHelpError(err) {
		t.Fatalf("ParseConfig(-h) error = %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(errBuf.String(), "-frames") {
		t.Errorf("usage output missing -frames:\n%s", errBuf.String())
	}
}

func TestParseConfigValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero frames", []string{"--frames", "0"}, "--frames"},
		{"too many frames", []string{"--frames", "501"}, "--frames"},
		{"unknown integrand", []string{"--integrand", "cubic"}, "unknown integrand"},
		{"negative workers", []string{"--workers", "-1"}, "--workers"},
		{"negative interval", []string{"--interval", "-1s"}, "--interval"},
		{"zero timeout", []string{"--timeout", "0s"}, "--timeout"},
		{"tiny frame", []string{"--width", "10"}, "frame size"},
		{"negative order", []string{"--oracle-order", "-3"}, "--oracle-order"},
		{"zero tolerance", []string{"--oracle-tolerance", "0"}, "--oracle-tolerance"},
		{"bad shell", []string{"--completion", "tcsh"}, "unsupported shell"},
		{"tui and quiet", []string{"--tui", "--quiet"}, "cannot be combined"},
		{"short domain", []string{"--domain", "0,1,2"}, "--domain"},
		{"empty interval", []string{"--domain", "1,1,0,1"}, "--domain"},
		{"positional", []string{"extra"}, "unexpected arguments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var errBuf bytes.Buffer
			_, err := ParseConfig("riemann", tt.args, &errBuf, testIntegrands)
			if err == nil {
				t.Fatal("expected an error")
			}
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error %T is not a ConfigError: %v", err, err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if apperrors.ExitCodeFor(err) != apperrors.ExitErrorConfig {
				t.Errorf("exit code = %d, want %d", apperrors.ExitCodeFor(err), apperrors.ExitErrorConfig)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"FRAMES", "3")
	t.Setenv(EnvPrefix+"INTEGRAND", "gaussian")
	t.Setenv(EnvPrefix+"INTERVAL", "250ms")
	t.Setenv(EnvPrefix+"ORACLE_TOLERANCE", "1e-9")
	t.Setenv(EnvPrefix+"STRICT", "yes")
	t.Setenv(EnvPrefix+"EXACT", "1")
	t.Setenv(EnvPrefix+"TRACE_FILE", "spans.json")
	t.Setenv(EnvPrefix+"DETAILS", "not-a-bool")

	cfg, err := ParseConfig("riemann", []string{"--frames", "5"}, &bytes.Buffer{}, testIntegrands)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Frames != 5 {
		t.Errorf("Frames = %d, want the flag value 5", cfg.Frames)
	}
	if cfg.Integrand != "gaussian" || cfg.Interval != 250*time.Millisecond || cfg.OracleTolerance != 1e-9 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if !cfg.Strict {
		t.Error("Strict should be enabled by RIEMANN_STRICT=yes")
	}
	if !cfg.Exact || cfg.NoReference || cfg.TraceFile != "spans.json" {
		t.Errorf("RIEMANN_EXACT and RIEMANN_TRACE_FILE not applied: %+v", cfg)
	}
	if cfg.Details {
		t.Error("an unrecognized boolean must keep the default")
	}
}

func TestConfigFilePriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "riemann.yaml")
	content := "frames: 6\nintegrand: sinprod\ninterval: 2s\nworkers: 3\nno_reference: true\nexact: true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"WORKERS", "7")

	cfg, err := ParseConfig("riemann", []string{"--config", path, "--integrand", "bilinear"}, &bytes.Buffer{}, testIntegrands)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Frames != 6 || cfg.Interval != 2*time.Second || !cfg.NoReference || !cfg.Exact {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Integrand != "bilinear" {
		t.Errorf("Integrand = %q, flag must win over the file", cfg.Integrand)
	}
	if cfg.Workers != 7 {
		t.Errorf("Workers = %d, environment must win over the file", cfg.Workers)
	}
}

func TestConfigFileFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("frames: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"CONFIG", path)
	cfg, err := ParseConfig("riemann", nil, &bytes.Buffer{}, testIntegrands)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Frames != 2 {
		t.Errorf("Frames = %d, want 2", cfg.Frames)
	}
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()
	fc, err := DecodeFile(nil)
	if err != nil {
		t.Fatalf("empty document: %v", err)
	}
	if fc.Frames != nil {
		t.Error("empty document should leave fields unset")
	}

	if _, err := DecodeFile([]byte("frame: 3\n")); err == nil {
		t.Error("unknown keys should be rejected")
	}
	if _, err := DecodeFile([]byte("frames: [1\n")); err == nil {
		t.Error("malformed YAML should be rejected")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should be rejected")
	}
}

func TestParseBound(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"-2.5", -2.5},
		{"pi", math.Pi},
		{"-pi", -math.Pi},
		{"2pi", 2 * math.Pi},
		{"2*pi", 2 * math.Pi},
		{"pi/2", math.Pi / 2},
		{" -3pi/4 ", -3 * math.Pi / 4},
	}
	for _, tt := range tests {
		got, err := parseBound(tt.in)
		if err != nil {
			t.Errorf("parseBound(%q) error = %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("parseBound(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "x", "pi/0", "pi2", "2pi/x"} {
		if _, err := parseBound(bad); err == nil {
			t.Errorf("parseBound(%q) should fail", bad)
		}
	}
}

func TestResolveDomainDefault(t *testing.T) {
	t.Parallel()
	def := riemann.Domain{XMin: 0, XMax: 1, YMin: 0, YMax: 2}
	d, err := AppConfig{}.ResolveDomain(def)
	if err != nil || d != def {
		t.Errorf("ResolveDomain() = %+v, %v; want %+v", d, err, def)
	}
}
