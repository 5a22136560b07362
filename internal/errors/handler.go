package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/agbru/riemann2d/internal/riemann"
)

// ColorProvider supplies the ANSI sequences used when printing errors. A nil
// provider prints plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// ExitCodeFor classifies err into a process exit code.
func ExitCodeFor(err error) int {
	var (
		cfgErr     ConfigError
		validErr   ValidationError
		timeoutErr TimeoutError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &cfgErr), errors.As(err, &validErr),
		errors.Is(err, riemann.ErrInvalidPartition), errors.Is(err, riemann.ErrDomain):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}

// HandleEvaluationError prints a one-line diagnosis of err to out and
// returns the matching exit code. duration is the time spent before the
// failure; it is shown for timeouts and cancellations.
func HandleEvaluationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}

	code := ExitCodeFor(err)
	var ie *riemann.IntegrandError
	switch {
	case code == ExitErrorTimeout:
		fmt.Fprintf(out, "%sStatus: Timeout after %s: %v%s\n", yellow, duration, err, reset)
	case code == ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled after %s.%s\n", yellow, duration, reset)
	case code == ExitErrorConfig:
		fmt.Fprintf(out, "%sStatus: Invalid input: %v%s\n", red, err, reset)
	case errors.As(err, &ie):
		fmt.Fprintf(out, "%sStatus: Integrand failed at (%g, %g): %v%s\n", red, ie.X, ie.Y, ie.Cause, reset)
	default:
		fmt.Fprintf(out, "%sStatus: Failure: %v%s\n", red, err, reset)
	}
	return code
}
