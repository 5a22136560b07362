// Package config resolves the application configuration from command-line
// flags, RIEMANN_* environment variables, an optional YAML file and built-in
// defaults, in that order of priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/riemann2d/internal/errors"
	"github.com/agbru/riemann2d/internal/riemann"
)

const (
	// EnvPrefix is prepended to every environment override key.
	EnvPrefix = "RIEMANN_"

	// DefaultFrames is the number of refinement levels played by default.
	DefaultFrames = 9
	// MaxFrames bounds the schedule; the last level then has MaxFrames+1
	// rectangles per axis.
	MaxFrames = 500
	// DefaultIntegrand is the preset used when --integrand is not given.
	DefaultIntegrand = "paraboloid"
	// DefaultInterval is the delay between two played frames.
	DefaultInterval = time.Second
	// DefaultTimeout bounds the whole run.
	DefaultTimeout = 5 * time.Minute
	// DefaultWidth and DefaultHeight size rendered frames in pixels.
	DefaultWidth  = 960
	DefaultHeight = 720
	// MinImageSide is the smallest accepted frame width or height.
	MinImageSide = 64
	// DefaultOracleTolerance is the agreement threshold of the adaptive
	// reference integrator.
	DefaultOracleTolerance = 1e-12
)

// SupportedShells lists the values accepted by --completion.
var SupportedShells = []string{"bash", "zsh", "fish"}

// AppConfig holds every user-tunable setting of a run.
type AppConfig struct {
	// Frames is the number of refinement levels; frame f uses f+2 edges
	// per axis.
	Frames int
	// Integrand names the preset to integrate.
	Integrand string
	// Domain overrides the preset rectangle, as "xmin,xmax,ymin,ymax".
	// Bounds accept plain numbers and multiples of pi ("pi/2", "-2pi").
	Domain string
	// Workers caps concurrent level evaluation; 0 means one per CPU.
	Workers int
	// Interval is the pause between played frames. Zero plays at once.
	Interval time.Duration
	// Timeout bounds the whole run.
	Timeout time.Duration

	// OutputDir receives one PNG per frame when non-empty.
	OutputDir string
	// GIF is the path of an animated GIF of all frames when non-empty.
	GIF    string
	Width  int
	Height int

	// OracleOrder selects a fixed Gauss-Legendre rule of that order; zero
	// selects the adaptive integrator.
	OracleOrder     int
	OracleTolerance float64

	TUI         bool
	Quiet       bool
	Verbose     bool
	Details     bool
	NoColor     bool
	// NoReference hides the comparison with the reference value, which is
	// still computed.
	NoReference bool
	// Exact takes the reference from the closed form of the preset.
	Exact bool
	// Strict turns a growing error between two levels into a failure.
	Strict bool

	// MetricsFile receives the Prometheus text exposition after the run.
	MetricsFile string
	// TraceFile receives one JSON span per computed level.
	TraceFile string
	// Completion prints a shell completion script and exits.
	Completion string
	// ConfigFile is the YAML file loaded before environment overrides.
	ConfigFile string
}

// Default returns the configuration used when nothing is overridden.
func Default() AppConfig {
	return AppConfig{
		Frames:          DefaultFrames,
		Integrand:       DefaultIntegrand,
		Interval:        DefaultInterval,
		Timeout:         DefaultTimeout,
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		OracleTolerance: DefaultOracleTolerance,
	}
}

// Validate checks the configuration for consistency.
//
// Parameters:
//   - availableIntegrands: The preset names accepted by --integrand.
//
// Returns:
//   - error: An apperrors.ConfigError describing the first problem found.
func (c AppConfig) Validate(availableIntegrands []string) error {
	switch {
	case c.Frames < 1 || c.Frames > MaxFrames:
		return apperrors.NewConfigError("--frames must be between 1 and %d, got %d", MaxFrames, c.Frames)
	case len(availableIntegrands) > 0 && !slices.Contains(availableIntegrands, c.Integrand):
		return apperrors.NewConfigError("unknown integrand %q (available: %s)", c.Integrand, strings.Join(availableIntegrands, ", "))
	case c.Workers < 0:
		return apperrors.NewConfigError("--workers must not be negative, got %d", c.Workers)
	case c.Interval < 0:
		return apperrors.NewConfigError("--interval must not be negative, got %s", c.Interval)
	case c.Timeout <= 0:
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	case c.Width < MinImageSide || c.Height < MinImageSide:
		return apperrors.NewConfigError("frame size must be at least %dx%d, got %dx%d", MinImageSide, MinImageSide, c.Width, c.Height)
	case c.OracleOrder < 0:
		return apperrors.NewConfigError("--oracle-order must not be negative, got %d", c.OracleOrder)
	case !(c.OracleTolerance > 0) || math.IsInf(c.OracleTolerance, 0):
		return apperrors.NewConfigError("--oracle-tolerance must be a positive number, got %g", c.OracleTolerance)
	case c.Completion != "" && !slices.Contains(SupportedShells, c.Completion):
		return apperrors.NewConfigError("unsupported shell %q (accepted values: %s)", c.Completion, strings.Join(SupportedShells, ", "))
	case c.TUI && c.Quiet:
		return apperrors.NewConfigError("--tui and --quiet cannot be combined")
	}
	if c.Domain != "" {
		if _, err := ParseDomain(c.Domain); err != nil {
			return err
		}
	}
	return nil
}

// ResolveDomain returns the configured rectangle, or def when --domain was
// not given.
func (c AppConfig) ResolveDomain(def riemann.Domain) (riemann.Domain, error) {
	if c.Domain == "" {
		return def, nil
	}
	return ParseDomain(c.Domain)
}

// ParseDomain parses "xmin,xmax,ymin,ymax" into a validated domain.
func ParseDomain(s string) (riemann.Domain, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return riemann.Domain{}, apperrors.NewConfigError("--domain wants xmin,xmax,ymin,ymax, got %q", s)
	}
	var bounds [4]float64
	for i, p := range parts {
		v, err := parseBound(p)
		if err != nil {
			return riemann.Domain{}, apperrors.NewConfigError("--domain: %v", err)
		}
		bounds[i] = v
	}
	d, err := riemann.NewDomain(bounds[0], bounds[1], bounds[2], bounds[3])
	if err != nil {
		return riemann.Domain{}, apperrors.NewConfigError("--domain: %v", err)
	}
	return d, nil
}

// parseBound reads a float, optionally expressed as a multiple of pi:
// "pi", "-pi", "2pi", "pi/2", "3pi/4".
func parseBound(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.Contains(s, "pi") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid bound %q", s)
		}
		return v, nil
	}
	num, den, hasDen := strings.Cut(s, "/")
	coef := strings.TrimSuffix(strings.TrimSuffix(num, "pi"), "*")
	var k float64
	switch coef {
	case "", "+":
		k = 1
	case "-":
		k = -1
	default:
		v, err := strconv.ParseFloat(coef, 64)
		if err != nil || !strings.HasSuffix(num, "pi") {
			return 0, fmt.Errorf("invalid bound %q", s)
		}
		k = v
	}
	if hasDen {
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("invalid bound %q", s)
		}
		k /= d
	}
	return k * math.Pi, nil
}

// ParseConfig builds the configuration of a run.
//
// Parameters:
//   - programName: The name shown in usage output.
//   - args: The command-line arguments, without the program name.
//   - errWriter: Where usage and parse errors are written.
//   - availableIntegrands: The preset names accepted by --integrand.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp when -h was given, a parse error, or a
//     ConfigError from validation.
func ParseConfig(programName string, args []string, errWriter io.Writer, availableIntegrands []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	cfg := Default()

	fs.IntVar(&cfg.Frames, "frames", cfg.Frames, "Number of refinement levels (frame f uses f+1 rectangles per axis)")
	fs.StringVar(&cfg.Integrand, "integrand", cfg.Integrand, fmt.Sprintf("Integrand preset: %s", strings.Join(availableIntegrands, ", ")))
	fs.StringVar(&cfg.Domain, "domain", "", "Override the integration rectangle as xmin,xmax,ymin,ymax (pi multiples allowed)")
	fs.IntVar(&cfg.Workers, "workers", 0, "Maximum levels evaluated concurrently (0 = one per CPU)")
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "Pause between played frames")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Maximum execution time")
	fs.StringVar(&cfg.OutputDir, "output-dir", "", "Write one PNG per frame into this directory")
	fs.StringVar(&cfg.OutputDir, "o", "", "Alias for --output-dir")
	fs.StringVar(&cfg.GIF, "gif", "", "Write an animated GIF of all frames to this path")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Rendered frame width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Rendered frame height in pixels")
	fs.IntVar(&cfg.OracleOrder, "oracle-order", 0, "Fixed Gauss-Legendre order for the reference value (0 = adaptive)")
	fs.Float64Var(&cfg.OracleTolerance, "oracle-tolerance", cfg.OracleTolerance, "Agreement tolerance of the adaptive reference integrator")
	fs.BoolVar(&cfg.TUI, "tui", false, "Play the frames in an interactive terminal dashboard")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only the final approximation")
	fs.BoolVar(&cfg.Quiet, "q", false, "Alias for --quiet")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&cfg.Verbose, "v", false, "Alias for --verbose")
	fs.BoolVar(&cfg.Details, "details", false, "Show the convergence table and per-level timings")
	fs.BoolVar(&cfg.Details, "d", false, "Alias for --details")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.NoReference, "no-reference", false, "Hide the comparison with the reference value")
	fs.BoolVar(&cfg.Exact, "exact", false, "Use the closed-form value of the preset instead of numerical quadrature")
	fs.BoolVar(&cfg.Strict, "strict", false, "Fail when the error grows between two levels")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file")
	fs.StringVar(&cfg.TraceFile, "trace-file", "", "Write OpenTelemetry spans as JSON to this file")
	fs.StringVar(&cfg.Completion, "completion", "", "Generate a completion script (bash, zsh, fish)")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Load settings from a YAML file")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = getEnvString("CONFIG", "")
	}
	if cfg.ConfigFile != "" {
		fc, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return AppConfig{}, err
		}
		fc.apply(&cfg, fs)
	}
	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(availableIntegrands); err != nil {
		fmt.Fprintf(errWriter, "Configuration error: %v\n", err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// IsHelpError reports whether err came from -h or --help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
