package refinement

import (
	"fmt"
	"io"
	"math"

	apperrors "github.com/agbru/riemann2d/internal/errors"
)

// Convergence summarizes how the error behaves across levels.
type Convergence struct {
	// Orders holds the observed order of accuracy between consecutive
	// levels, p = ln(e_k / e_k+1) / ln(h_k / h_k+1). An entry is NaN when
	// either error is zero.
	Orders []float64
	// MeanOrder is the mean of the finite entries of Orders, or NaN.
	MeanOrder float64
	// Monotonic reports whether the error never grew from one level to the
	// next.
	Monotonic bool
	// FinalError is the absolute error of the finest level.
	FinalError float64
}

// AnalyzeConvergence computes observed orders and monotonicity for frames,
// which must be in ascending frame order. The cell width h is proportional
// to 1/(n-1), so the domain size cancels out of the ratio.
func AnalyzeConvergence(frames []Frame) Convergence {
	conv := Convergence{Monotonic: true, MeanOrder: math.NaN()}
	if len(frames) == 0 {
		return conv
	}
	conv.FinalError = frames[len(frames)-1].Result.AbsError

	var sum float64
	var finite int
	for k := 0; k+1 < len(frames); k++ {
		a, b := frames[k], frames[k+1]
		if b.Result.AbsError > a.Result.AbsError {
			conv.Monotonic = false
		}
		p := observedOrder(a, b)
		conv.Orders = append(conv.Orders, p)
		if !math.IsNaN(p) && !math.IsInf(p, 0) {
			sum += p
			finite++
		}
	}
	if finite > 0 {
		conv.MeanOrder = sum / float64(finite)
	}
	return conv
}

func observedOrder(a, b Frame) float64 {
	ea, eb := a.Result.AbsError, b.Result.AbsError
	if ea == 0 || eb == 0 || a.Subdivisions == b.Subdivisions {
		return math.NaN()
	}
	hRatio := float64(b.Subdivisions-1) / float64(a.Subdivisions-1)
	return math.Log(ea/eb) / math.Log(hRatio)
}

// AnalyzeResults presents the convergence summary and returns the exit code
// of the run. A growing error is reported as a warning, and as
// ExitErrorDiverged when opts.Strict is set.
//
// Parameters:
//   - frames: The computed levels in ascending order.
//   - opts: Presentation flags.
//   - presenter: Formats the convergence table.
//   - out: The writer for the summary.
//
// Returns:
//   - int: An exit code from package apperrors.
func AnalyzeResults(frames []Frame, opts PresentationOptions, presenter ResultPresenter, out io.Writer) int {
	if len(frames) == 0 {
		fmt.Fprintf(out, "\nStatus: Failure. No refinement level was computed.\n")
		return apperrors.ExitErrorGeneric
	}

	conv := AnalyzeConvergence(frames)
	presenter.PresentConvergenceTable(frames, conv, opts, out)

	if !conv.Monotonic {
		fmt.Fprintf(out, "\nStatus: Warning. The error grew between at least two levels.\n")
		if opts.Strict {
			return apperrors.ExitErrorDiverged
		}
		return apperrors.ExitSuccess
	}
	fmt.Fprintf(out, "\nStatus: Success. The error decreased at every level.\n")
	return apperrors.ExitSuccess
}
