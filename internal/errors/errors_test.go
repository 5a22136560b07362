package apperrors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/agbru/riemann2d/internal/riemann"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	err := NewConfigError("invalid value %d for flag %s", 0, "--frames")
	if got, want := err.Error(), "invalid value 0 for flag --frames"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	var cfgErr ConfigError
	if !errors.As(err, &cfgErr) {
		t.Error("expected error to be ConfigError type")
	}
}

func TestEvaluationError(t *testing.T) {
	t.Parallel()
	cause := &riemann.IntegrandError{X: 0.5, Y: 1.5, Cause: errors.New("pole")}
	err := EvaluationError{Frame: 2, Subdivisions: 4, Cause: cause}

	if got := err.Error(); !strings.HasPrefix(got, "frame 2 (3×3 cells): ") {
		t.Errorf("unexpected message %q", got)
	}
	if !errors.Is(err, riemann.ErrIntegrand) {
		t.Error("errors.Is should reach ErrIntegrand through EvaluationError")
	}
	var ie *riemann.IntegrandError
	if !errors.As(err, &ie) || ie.X != 0.5 {
		t.Error("errors.As should find the IntegrandError")
	}
}

func TestTimeoutAndValidationErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", TimeoutError{Operation: "precompute", Limit: 5 * time.Second}, `operation "precompute" timed out after 5s`},
		{"validation", ValidationError{Field: "frames", Message: "must be at least 1"}, `validation error for "frames": must be at least 1`},
		{"render with frame", RenderError{Sink: "png", Frame: 3, Cause: errors.New("disk full")}, "png sink failed on frame 3: disk full"},
		{"render without frame", RenderError{Sink: "gif", Cause: errors.New("disk full")}, "gif sink failed: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestErrorsAsWithWrapping(t *testing.T) {
	t.Parallel()

	t.Run("TimeoutError wrapped in EvaluationError", func(t *testing.T) {
		t.Parallel()
		err := EvaluationError{Frame: 1, Subdivisions: 3, Cause: TimeoutError{Operation: "level", Limit: time.Second}}
		var timeoutErr TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Error("errors.As should find TimeoutError through EvaluationError")
		}
	})

	t.Run("ValidationError wrapped with WrapError", func(t *testing.T) {
		t.Parallel()
		err := WrapError(ValidationError{Field: "x-min", Message: "not finite"}, "config check failed")
		var validationErr ValidationError
		if !errors.As(err, &validationErr) {
			t.Error("errors.As should find ValidationError through WrapError")
		}
	})

	t.Run("RenderError keeps its cause", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("playback: %w", RenderError{Sink: "png", Frame: 1, Cause: context.Canceled})
		if !IsContextError(err) {
			t.Error("context.Canceled should be reachable through RenderError")
		}
	})
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	if WrapError(nil, "ignored") != nil {
		t.Error("WrapError(nil, ...) should return nil")
	}
	wrapped := WrapError(context.DeadlineExceeded, "frame %d", 4)
	if got, want := wrapped.Error(), "frame 4: context deadline exceeded"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if !errors.Is(wrapped, context.DeadlineExceeded) {
		t.Error("wrapped error should preserve the chain")
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"context.Canceled", context.Canceled, true},
		{"context.DeadlineExceeded", context.DeadlineExceeded, true},
		{"wrapped context.Canceled", WrapError(context.Canceled, "precompute"), true},
		{"regular error", errors.New("some error"), false},
		{"nil error", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.expected {
				t.Errorf("IsContextError(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"deadline", WrapError(context.DeadlineExceeded, "run"), ExitErrorTimeout},
		{"timeout type", TimeoutError{Operation: "run", Limit: time.Second}, ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"config", NewConfigError("bad"), ExitErrorConfig},
		{"validation", ValidationError{Field: "f"}, ExitErrorConfig},
		{"partition", &riemann.InvalidPartitionError{N: 1}, ExitErrorConfig},
		{"domain", EvaluationError{Cause: &riemann.DomainError{Axis: "x"}}, ExitErrorConfig},
		{"integrand", EvaluationError{Cause: &riemann.IntegrandError{Cause: errors.New("nan")}}, ExitErrorGeneric},
		{"render", RenderError{Sink: "png", Cause: errors.New("io")}, ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

type testColors struct{}

func (testColors) Red() string    { return "<r>" }
func (testColors) Yellow() string { return "<y>" }
func (testColors) Reset() string  { return "</>" }

func TestHandleEvaluationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		colors   ColorProvider
		wantCode int
		contains []string
	}{
		{"nil", nil, nil, ExitSuccess, nil},
		{"timeout", context.DeadlineExceeded, testColors{}, ExitErrorTimeout, []string{"<y>", "Timeout after 2s"}},
		{"canceled", context.Canceled, nil, ExitErrorCanceled, []string{"Canceled after 2s"}},
		{"integrand", EvaluationError{Frame: 1, Subdivisions: 3, Cause: &riemann.IntegrandError{X: 1, Y: 2, Cause: errors.New("pole")}}, testColors{}, ExitErrorGeneric, []string{"<r>", "Integrand failed at (1, 2): pole", "</>"}},
		{"config", NewConfigError("frames must be positive"), nil, ExitErrorConfig, []string{"Invalid input: frames must be positive"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := HandleEvaluationError(tt.err, 2*time.Second, &buf, tt.colors)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output %q should contain %q", buf.String(), want)
				}
			}
			if tt.err == nil && buf.Len() != 0 {
				t.Errorf("expected no output for nil error, got %q", buf.String())
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	t.Parallel()
	codes := map[string]int{
		"ExitSuccess":       ExitSuccess,
		"ExitErrorGeneric":  ExitErrorGeneric,
		"ExitErrorTimeout":  ExitErrorTimeout,
		"ExitErrorDiverged": ExitErrorDiverged,
		"ExitErrorConfig":   ExitErrorConfig,
		"ExitErrorCanceled": ExitErrorCanceled,
	}
	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess should be 0, got %d", ExitSuccess)
	}
	if ExitErrorCanceled != 130 {
		t.Errorf("ExitErrorCanceled should be 130 (SIGINT convention), got %d", ExitErrorCanceled)
	}
	seen := make(map[int]string)
	for name, code := range codes {
		if existing, ok := seen[code]; ok {
			t.Errorf("duplicate exit code %d: %s and %s", code, existing, name)
		}
		seen[code] = name
	}
}
