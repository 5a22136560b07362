//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

package refinement

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/agbru/riemann2d/internal/riemann"
)

// Problem is everything needed to evaluate a level: the integrand, its
// domain and the reference value errors are measured against.
type Problem struct {
	// Name labels the problem in logs, traces and titles.
	Name string
	// Expr is a human-readable formula for titles, e.g. "x^2 + y^2".
	Expr      string
	Domain    riemann.Domain
	Integrand riemann.Integrand
	Reference float64
}

// Frame is one computed refinement level, as handed to rendering sinks.
type Frame struct {
	// Frame is the animation frame index, starting at 1.
	Frame int
	// Subdivisions is the number of edges per axis.
	Subdivisions int
	// Samples holds the grid and the per-cell integrand values.
	Samples riemann.Samples
	// Result carries the total, the reference and the absolute error.
	Result riemann.Result
	// Duration is the wall time spent computing the level.
	Duration time.Duration
}

// Rectangles returns the number of cells along one axis.
func (f Frame) Rectangles() int { return f.Subdivisions - 1 }

// ProgressUpdate reports that one level has finished.
type ProgressUpdate struct {
	// Index is the position of the level in the schedule.
	Index int
	// Frame is the frame index of the level.
	Frame int
	// Value is the completion of that level, 0 or 1.
	Value float64
}

// ProgressReporter displays precomputation progress. DisplayProgress runs in
// its own goroutine until progressChan is closed, then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numLevels int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numLevels int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numLevels int, out io.Writer) {
	f(wg, progressChan, numLevels, out)
}

// NullProgressReporter drains the channel without output. Useful for quiet
// mode and tests.
type NullProgressReporter struct{}

// DisplayProgress drains progressChan.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// PresentationOptions configures the summary output.
type PresentationOptions struct {
	Verbose     bool
	Details     bool
	NoReference bool
	Strict      bool
}

// ResultPresenter renders the textual report of a run.
type ResultPresenter interface {
	// PresentFrame prints the line for one level as it is played.
	PresentFrame(frame Frame, opts PresentationOptions, out io.Writer)
	// PresentConvergenceTable prints the per-level summary.
	PresentConvergenceTable(frames []Frame, conv Convergence, opts PresentationOptions, out io.Writer)
}

// ErrorHandler turns an error into an exit code, printing a diagnosis.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}

// FrameSink consumes frames in ascending order. Implementations must not
// retain the Samples slice beyond the call unless they copy it.
type FrameSink interface {
	Consume(ctx context.Context, frame Frame) error
}

// SinkFunc adapts a function to FrameSink.
type SinkFunc func(ctx context.Context, frame Frame) error

// Consume calls f.
func (f SinkFunc) Consume(ctx context.Context, frame Frame) error { return f(ctx, frame) }

// Closer is implemented by sinks that must flush after the last frame,
// such as an animated GIF encoder.
type Closer interface {
	Close() error
}

// Recorder receives per-level measurements. *metrics.Levels implements it.
type Recorder interface {
	LevelStarted()
	ObserveLevel(subdivisions, cells int, absError float64, d time.Duration)
	LevelFailed(reason string)
}
