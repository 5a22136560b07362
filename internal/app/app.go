package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"runtime"
	"slices"
	"syscall"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/riemann2d/internal/cli"
	"github.com/agbru/riemann2d/internal/config"
	apperrors "github.com/agbru/riemann2d/internal/errors"
	"github.com/agbru/riemann2d/internal/integrands"
	"github.com/agbru/riemann2d/internal/logging"
	"github.com/agbru/riemann2d/internal/metrics"
	"github.com/agbru/riemann2d/internal/oracle"
	"github.com/agbru/riemann2d/internal/refinement"
	"github.com/agbru/riemann2d/internal/riemann"
	"github.com/agbru/riemann2d/internal/tui"
	"github.com/agbru/riemann2d/internal/ui"
)

// Application represents the riemann application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// Logger receives diagnostics. Nil selects a console logger on
	// ErrWriter during Run.
	Logger logging.Logger

	presets map[string]integrands.Preset
	tracer  trace.TracerProvider
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithPreset registers an extra integrand, or replaces a built-in one of
// the same name.
func WithPreset(p integrands.Preset) AppOption {
	return func(a *Application) { a.presets[p.Name] = p }
}

// WithLogger sets the logger used during Run.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, presets: make(map[string]integrands.Preset)}
	for _, name := range integrands.Names() {
		p, err := integrands.Lookup(name)
		if err != nil {
			return nil, err
		}
		app.presets[name] = p
	}
	for _, opt := range opts {
		opt(app)
	}

	programName := "riemann"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.presetNames())
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// presetNames returns the registered integrand names in sorted order.
func (a *Application) presetNames() []string {
	names := make([]string, 0, len(a.presets))
	for name := range a.presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	level := zerolog.InfoLevel
	if a.Config.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	ui.InitTheme(a.Config.NoColor)
	if a.Logger == nil {
		a.Logger = logging.NewAutoLogger(a.ErrWriter, "riemann", a.Config.Verbose, a.Config.NoColor)
	}

	tp, stopTracing, err := a.startTracing()
	if err != nil {
		a.Logger.Error("starting the tracer failed", err, logging.String("path", a.Config.TraceFile))
		return cli.CLIResultPresenter{}.HandleError(err, 0, out)
	}
	defer stopTracing()
	a.tracer = tp

	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	problem, err := a.buildProblem(ctx)
	if err != nil {
		a.Logger.Error("building the problem failed", err, logging.String("integrand", a.Config.Integrand))
		return cli.CLIResultPresenter{}.HandleError(err, 0, out)
	}
	a.Logger.Debug("problem ready",
		logging.String("integrand", problem.Name),
		logging.Float64("reference", problem.Reference))

	if a.Config.TUI {
		return a.runTUI(ctx, problem)
	}
	return a.runCalculate(ctx, problem, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.presetNames()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// buildProblem resolves the integrand and domain and computes the
// reference value the errors are measured against.
func (a *Application) buildProblem(ctx context.Context) (refinement.Problem, error) {
	preset, ok := a.presets[a.Config.Integrand]
	if !ok {
		return refinement.Problem{}, apperrors.NewConfigError("unknown integrand %q", a.Config.Integrand)
	}
	d, err := a.Config.ResolveDomain(preset.Domain)
	if err != nil {
		return refinement.Problem{}, err
	}

	if a.Config.Exact && preset.Exact == nil {
		return refinement.Problem{}, apperrors.NewConfigError("integrand %q has no closed form, drop --exact", preset.Name)
	}
	ref, err := a.referenceOracle(preset, d).Integrate(ctx, preset.F, d)
	if err != nil {
		return refinement.Problem{}, fmt.Errorf("computing the reference value: %w", err)
	}
	return refinement.Problem{
		Name:      preset.Name,
		Expr:      preset.Expr,
		Domain:    d,
		Integrand: preset.F,
		Reference: ref,
	}, nil
}

// referenceOracle selects how the reference value is obtained: the preset's
// closed form with --exact, otherwise Gauss-Legendre quadrature.
func (a *Application) referenceOracle(preset integrands.Preset, d riemann.Domain) oracle.Oracle {
	concurrent := runtime.GOMAXPROCS(0)
	switch {
	case a.Config.Exact:
		return oracle.Known(preset.Exact(d))
	case a.Config.OracleOrder > 0:
		return oracle.GaussLegendre{Order: a.Config.OracleOrder, Concurrent: concurrent}
	default:
		return oracle.Adaptive{Tolerance: a.Config.OracleTolerance, Concurrent: concurrent}
	}
}

// options builds the level computation options.
func (a *Application) options(recorder refinement.Recorder) refinement.Options {
	workers := a.Config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return refinement.Options{Workers: workers, Recorder: recorder, Logger: a.Logger, TracerProvider: a.tracer}
}

// runTUI launches the interactive dashboard.
func (a *Application) runTUI(ctx context.Context, problem refinement.Problem) int {
	levels := metrics.NewLevels()
	outputs, closeOutputs, err := a.buildOutputs(problem)
	if err != nil {
		a.Logger.Error("preparing outputs failed", err)
		return apperrors.HandleEvaluationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	defer closeOutputs()

	// Log lines would tear the alternate screen.
	opts := a.options(levels)
	opts.Logger = logging.Nop()
	code := tui.Run(ctx, problem, refinement.Schedule(a.Config.Frames), a.Config, opts, outputs, Version)
	if err := a.writeMetrics(levels); err != nil && code == apperrors.ExitSuccess {
		return apperrors.ExitErrorGeneric
	}
	return code
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
