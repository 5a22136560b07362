package cli

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/riemann2d/internal/errors"
	"github.com/agbru/riemann2d/internal/refinement"
	"github.com/agbru/riemann2d/internal/riemann"
	"github.com/agbru/riemann2d/internal/ui"
)

func TestPresentFrame(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.InitTheme(false) })

	frames := paraboloidFrames(t, 1)
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentFrame(frames[0], refinement.PresentationOptions{Details: true}, &buf)
	output := buf.String()

	for _, want := range []string{
		"[1] Riemann Sum with 2×2 rectangles",
		"Approximation = 60.880682, Exact = 64.939394, Error = 4.058712",
		"Cells: 4",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestPresentFrameHidesReference(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.InitTheme(false) })

	frames := paraboloidFrames(t, 1)
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentFrame(frames[0], refinement.PresentationOptions{NoReference: true, Details: true}, &buf)
	output := buf.String()

	if !strings.Contains(output, "Sum = 60.8807") {
		t.Errorf("output missing sum subtitle:\n%s", output)
	}
	for _, hidden := range []string{"Exact =", "Error =", "relative error"} {
		if strings.Contains(output, hidden) {
			t.Errorf("output shows %q with NoReference:\n%s", hidden, output)
		}
	}
}

func TestPresentConvergenceTable(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.InitTheme(false) })

	frames := paraboloidFrames(t, 3)
	conv := refinement.AnalyzeConvergence(frames)

	var buf bytes.Buffer
	CLIResultPresenter{}.PresentConvergenceTable(frames, conv, refinement.PresentationOptions{Details: true}, &buf)
	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")

	if !strings.Contains(output, "--- Convergence Summary ---") {
		t.Fatalf("missing header:\n%s", output)
	}
	header := lines[1]
	for _, col := range []string{"Frame", "Rectangles", "Approximation", "Abs. error", "Order", "Duration"} {
		if !strings.Contains(header, col) {
			t.Errorf("header %q missing column %q", header, col)
		}
	}
	if !strings.Contains(lines[2], "2×2") || !strings.Contains(lines[2], " - ") {
		t.Errorf("first row should have no order: %q", lines[2])
	}
	if !strings.Contains(lines[3], "3×3") || !strings.Contains(lines[3], "2.000") {
		t.Errorf("second row should show order 2.000: %q", lines[3])
	}
	if !strings.Contains(output, "Mean observed order: 2.000 (midpoint rule: 2)") {
		t.Errorf("missing mean order:\n%s", output)
	}

	// Columns line up: every "K×K" cell starts under the "Rectangles" header.
	col := strings.Index(header, "Rectangles")
	for _, row := range lines[2:5] {
		if idx := strings.Index(row, "×") - 1; idx != col {
			t.Errorf("row %q: rectangles column at %d, want %d", row, idx, col)
		}
	}
}

func TestPresentConvergenceTableHidesReference(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.InitTheme(false) })

	frames := paraboloidFrames(t, 3)
	conv := refinement.AnalyzeConvergence(frames)

	var buf bytes.Buffer
	CLIResultPresenter{}.PresentConvergenceTable(frames, conv, refinement.PresentationOptions{NoReference: true}, &buf)
	output := buf.String()

	if !strings.Contains(output, "Approximation") || !strings.Contains(output, "3×3") {
		t.Fatalf("table missing approximations:\n%s", output)
	}
	for _, hidden := range []string{"Abs. error", "Order", "Mean observed order"} {
		if strings.Contains(output, hidden) {
			t.Errorf("table shows %q with NoReference:\n%s", hidden, output)
		}
	}
}

func TestPresentConvergenceTableWithoutOrders(t *testing.T) {
	t.Parallel()
	frames := []refinement.Frame{{Frame: 1, Subdivisions: 3}}
	conv := refinement.Convergence{MeanOrder: math.NaN()}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentConvergenceTable(frames, conv, refinement.PresentationOptions{}, &buf)
	if strings.Contains(buf.String(), "Mean observed order") {
		t.Errorf("no mean order expected:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Duration") {
		t.Errorf("Duration column only appears with details:\n%s", buf.String())
	}
}

func TestHandleError(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.InitTheme(false) })

	tests := []struct {
		name string
		err  error
		code int
		want string
	}{
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout, "Status: Timeout after 2s"},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled, "Status: Canceled after 2s."},
		{"integrand", apperrors.EvaluationError{Frame: 1, Subdivisions: 3, Cause: &riemann.IntegrandError{X: 0.5, Y: 1.5, Cause: errors.New("pole")}},
			apperrors.ExitErrorGeneric, "Status: Integrand failed at (0.5, 1.5): pole"},
		{"generic", errors.New("disk full"), apperrors.ExitErrorGeneric, "Status: Failure: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			code := CLIResultPresenter{}.HandleError(tt.err, 2*time.Second, &buf)
			if code != tt.code {
				t.Errorf("code = %d, want %d", code, tt.code)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q missing %q", buf.String(), tt.want)
			}
		})
	}
}

func TestCLIColorProvider(t *testing.T) {
	ui.SetCurrentTheme(ui.DarkTheme)
	t.Cleanup(func() { ui.InitTheme(false) })

	var cp CLIColorProvider
	if cp.Red() != ui.DarkTheme.Error || cp.Yellow() != ui.DarkTheme.Warning || cp.Reset() != ui.DarkTheme.Reset {
		t.Error("color provider should follow the active theme")
	}
}

func TestPlaybackSink(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.InitTheme(false) })

	frames := paraboloidFrames(t, 2)
	var buf bytes.Buffer
	sink := PlaybackSink(CLIResultPresenter{}, refinement.PresentationOptions{}, &buf)
	if err := refinement.Play(context.Background(), frames, sink, 0); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	first := strings.Index(buf.String(), "2×2")
	second := strings.Index(buf.String(), "3×3")
	if first < 0 || second < first {
		t.Errorf("frames not printed in order:\n%s", buf.String())
	}
}
