package refinement

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/riemann2d/internal/errors"
	"github.com/agbru/riemann2d/internal/logging"
	"github.com/agbru/riemann2d/internal/riemann"
)

const tracerName = "github.com/agbru/riemann2d/internal/refinement"

// Options tunes level computation. The zero value is usable: unlimited
// workers, no metrics, no logging, spans sent to the global provider.
type Options struct {
	// Workers bounds concurrent levels. Zero or less means no limit.
	Workers int
	// Recorder receives per-level measurements. Nil disables metrics.
	Recorder Recorder
	// Logger receives debug entries for each level. Nil disables logging.
	Logger logging.Logger
	// TracerProvider receives one span per level. Nil means the global
	// provider, a no-op unless the process installed one.
	TracerProvider trace.TracerProvider
}

func (o Options) tracer() trace.Tracer {
	if o.TracerProvider == nil {
		return otel.Tracer(tracerName)
	}
	return o.TracerProvider.Tracer(tracerName)
}

func (o Options) recorder() Recorder {
	if o.Recorder == nil {
		return nopRecorder{}
	}
	return o.Recorder
}

func (o Options) logger() logging.Logger {
	if o.Logger == nil {
		return logging.Nop()
	}
	return o.Logger
}

type nopRecorder struct{}

func (nopRecorder) LevelStarted() {}
func (nopRecorder) ObserveLevel(int, int, float64, time.Duration) {}
func (nopRecorder) LevelFailed(string) {}

// ComputeLevel partitions the problem's domain for lvl, samples the
// integrand at every midpoint and sums the samples.
//
// The work is wrapped in an OpenTelemetry span and reported to the
// configured Recorder. The context is checked once before starting; a level
// already in progress always runs to completion.
//
// Returns:
//   - Frame: The computed level.
//   - error: An apperrors.EvaluationError wrapping the engine error, or the
//     context error if ctx is already done.
func ComputeLevel(ctx context.Context, p Problem, lvl Level, opts Options) (Frame, error) {
	ctx, span := opts.tracer().Start(ctx, "refinement.ComputeLevel",
		trace.WithAttributes(
			attribute.String("problem", p.Name),
			attribute.Int("frame", lvl.Frame),
			attribute.Int("subdivisions", lvl.Subdivisions),
		))
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "canceled before start")
		return Frame{}, err
	}

	rec, log := opts.recorder(), opts.logger()
	rec.LevelStarted()
	start := time.Now()

	samples, res, err := evaluateLevel(p, lvl.Subdivisions)
	if err != nil {
		rec.LevelFailed(failureReason(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("level failed", err, logging.Int("frame", lvl.Frame), logging.Int("subdivisions", lvl.Subdivisions))
		return Frame{}, apperrors.EvaluationError{Frame: lvl.Frame, Subdivisions: lvl.Subdivisions, Cause: err}
	}

	elapsed := time.Since(start)
	cells := samples.Grid.CellCount()
	rec.ObserveLevel(lvl.Subdivisions, cells, res.AbsError, elapsed)
	span.SetAttributes(
		attribute.Int("cells", cells),
		attribute.Float64("total", res.Total),
		attribute.Float64("abs_error", res.AbsError),
		attribute.Int64("duration_us", elapsed.Microseconds()),
	)
	span.SetStatus(codes.Ok, "")
	log.Debug("level computed",
		logging.Int("frame", lvl.Frame),
		logging.Int("cells", cells),
		logging.Float64("total", res.Total),
		logging.Float64("abs_error", res.AbsError),
		logging.Duration("elapsed", elapsed),
	)

	return Frame{
		Frame:        lvl.Frame,
		Subdivisions: lvl.Subdivisions,
		Samples:      samples,
		Result:       res,
		Duration:     elapsed,
	}, nil
}

func evaluateLevel(p Problem, n int) (riemann.Samples, riemann.Result, error) {
	grid, err := riemann.Partition(p.Domain, n)
	if err != nil {
		return riemann.Samples{}, riemann.Result{}, err
	}
	samples, err := riemann.Sample(grid, p.Integrand)
	if err != nil {
		return riemann.Samples{}, riemann.Result{}, err
	}
	res, err := riemann.EvaluateSamples(samples, p.Reference)
	if err != nil {
		return riemann.Samples{}, riemann.Result{}, err
	}
	return samples, res, nil
}

// failureReason maps an engine error to a metrics label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, riemann.ErrInvalidPartition):
		return "partition"
	case errors.Is(err, riemann.ErrDomain):
		return "domain"
	case errors.Is(err, riemann.ErrIntegrand):
		return "integrand"
	case errors.Is(err, riemann.ErrSampleMismatch):
		return "samples"
	default:
		return "error"
	}
}
