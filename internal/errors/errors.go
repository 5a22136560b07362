package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Run completed.
	ExitErrorGeneric  = 1   // Evaluation or rendering failed.
	ExitErrorTimeout  = 2   // The configured timeout elapsed.
	ExitErrorDiverged = 3   // The error grew between levels and --strict was set.
	ExitErrorConfig   = 4   // Invalid flags, environment, config file or domain.
	ExitErrorCanceled = 130 // Interrupted (SIGINT convention).
)

// ConfigError reports invalid user configuration.
type ConfigError struct {
	Message string
}

// Error returns the message.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError builds a ConfigError from a format string.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// EvaluationError ties a failure to the refinement level it happened on.
type EvaluationError struct {
	// Frame is the animation frame index of the failing level.
	Frame int
	// Subdivisions is the number of edges per axis of that level.
	Subdivisions int
	// Cause is the underlying error, usually from package riemann.
	Cause error
}

// Error prefixes the cause with the level.
func (e EvaluationError) Error() string {
	return fmt.Sprintf("frame %d (%d×%d cells): %v", e.Frame, e.Subdivisions-1, e.Subdivisions-1, e.Cause)
}

// Unwrap returns the cause.
func (e EvaluationError) Unwrap() error { return e.Cause }

// TimeoutError reports that an operation exceeded its time limit.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

// Error describes the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError reports a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// Error names the field and the problem.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// RenderError reports a sink that failed to consume a frame.
type RenderError struct {
	// Sink names the output, e.g. "png" or "gif".
	Sink  string
	Frame int
	Cause error
}

// Error names the sink and frame.
func (e RenderError) Error() string {
	if e.Frame > 0 {
		return fmt.Sprintf("%s sink failed on frame %d: %v", e.Sink, e.Frame, e.Cause)
	}
	return fmt.Sprintf("%s sink failed: %v", e.Sink, e.Cause)
}

// Unwrap returns the cause.
func (e RenderError) Unwrap() error { return e.Cause }

// WrapError adds context to err with %w, or returns nil when err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err stems from cancellation or a deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
