package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	apperrors "github.com/agbru/riemann2d/internal/errors"
	"github.com/agbru/riemann2d/internal/format"
	"github.com/agbru/riemann2d/internal/refinement"
	"github.com/agbru/riemann2d/internal/ui"
)

// CLIProgressReporter implements refinement.ProgressReporter with a spinner
// and a progress bar.
type CLIProgressReporter struct{}

var _ refinement.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar while levels are
// precomputed.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan refinement.ProgressUpdate, numLevels int, out io.Writer) {
	DisplayProgress(wg, progressChan, numLevels, out)
}

// CLIResultPresenter prints frames and the convergence summary as colored
// text.
type CLIResultPresenter struct{}

var (
	_ refinement.ResultPresenter = CLIResultPresenter{}
	_ refinement.ErrorHandler    = CLIResultPresenter{}
)

// PresentFrame prints the title of one frame as it is played.
func (CLIResultPresenter) PresentFrame(frame refinement.Frame, opts refinement.PresentationOptions, out io.Writer) {
	r := frame.Result
	subtitle := format.FrameSubtitle(r.Total, r.Reference, r.AbsError)
	if opts.NoReference {
		subtitle = format.FrameSum(r.Total)
	}
	fmt.Fprintf(out, "%s[%d]%s %s%s%s\n    %s\n",
		ui.ColorCyan(), frame.Frame, ui.ColorReset(),
		ui.ColorBold(), format.FrameTitle(frame.Rectangles()), ui.ColorReset(),
		subtitle)
	if !opts.Details {
		return
	}
	if opts.NoReference {
		fmt.Fprintf(out, "    %sCells: %d, computed in %s%s\n",
			ui.ColorCyan(), frame.Samples.Grid.CellCount(),
			format.FormatExecutionDuration(frame.Duration), ui.ColorReset())
		return
	}
	fmt.Fprintf(out, "    %sCells: %d, relative error: %.3e, computed in %s%s\n",
		ui.ColorCyan(), frame.Samples.Grid.CellCount(), r.RelativeError(),
		format.FormatExecutionDuration(frame.Duration), ui.ColorReset())
}

// convergenceColumns are the headers of the summary table. The last two
// compare against the reference and are dropped when it is hidden.
var convergenceColumns = []string{"Frame", "Rectangles", "Approximation", "Abs. error", "Order"}

const comparedColumns = 2

// PresentConvergenceTable prints one row per level with the observed order
// of accuracy between consecutive levels. Uses manual padding so ANSI
// sequences do not break the alignment.
func (CLIResultPresenter) PresentConvergenceTable(frames []refinement.Frame, conv refinement.Convergence, opts refinement.PresentationOptions, out io.Writer) {
	fmt.Fprintf(out, "\n--- Convergence Summary ---\n")

	columns := convergenceColumns
	if opts.NoReference {
		columns = columns[:len(columns)-comparedColumns]
	}
	if opts.Details {
		columns = append(columns[:len(columns):len(columns)], "Duration")
	}
	rows := make([][]string, len(frames))
	for i, f := range frames {
		order := "-"
		if i > 0 && i-1 < len(conv.Orders) && !math.IsNaN(conv.Orders[i-1]) {
			order = fmt.Sprintf("%.3f", conv.Orders[i-1])
		}
		row := []string{
			fmt.Sprintf("%d", f.Frame),
			fmt.Sprintf("%d×%d", f.Rectangles(), f.Rectangles()),
			fmt.Sprintf("%.6f", f.Result.Total),
		}
		if !opts.NoReference {
			row = append(row, fmt.Sprintf("%.6e", f.Result.AbsError), order)
		}
		if opts.Details {
			row = append(row, format.FormatExecutionDuration(f.Duration))
		}
		rows[i] = row
	}

	widths := make([]int, len(columns))
	for c, h := range columns {
		widths[c] = displayWidth(h)
		for _, row := range rows {
			widths[c] = max(widths[c], displayWidth(row[c]))
		}
	}

	for c, h := range columns {
		fmt.Fprintf(out, "%s%s%s%s", ui.ColorUnderline(), h, ui.ColorReset(), padRight("", widths[c]-displayWidth(h)))
		if c < len(columns)-1 {
			fmt.Fprint(out, "   ")
		}
	}
	fmt.Fprintln(out)

	for i, row := range rows {
		errColor := ui.ColorGreen()
		if i > 0 && frames[i].Result.AbsError > frames[i-1].Result.AbsError {
			errColor = ui.ColorRed()
		}
		for c, cell := range row {
			color := ""
			switch c {
			case 0:
				color = ui.ColorBlue()
			case 3:
				if !opts.NoReference {
					color = errColor
				}
			}
			fmt.Fprintf(out, "%s%s%s%s", color, cell, ui.ColorReset(), padRight("", widths[c]-displayWidth(cell)))
			if c < len(row)-1 {
				fmt.Fprint(out, "   ")
			}
		}
		fmt.Fprintln(out)
	}

	if !opts.NoReference && !math.IsNaN(conv.MeanOrder) {
		fmt.Fprintf(out, "\nMean observed order: %s%.3f%s (midpoint rule: 2)\n",
			ui.ColorMagenta(), conv.MeanOrder, ui.ColorReset())
	}
}

// displayWidth counts runes, which is the terminal width of the plain
// ASCII and × characters used in the table.
func displayWidth(s string) int {
	return len([]rune(s))
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// HandleError prints a diagnosis of err and returns the exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleEvaluationError(err, duration, out, CLIColorProvider{})
}

// CLIColorProvider supplies the active theme colors to apperrors.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// PlaybackSink returns a sink that prints every frame with the presenter.
func PlaybackSink(presenter refinement.ResultPresenter, opts refinement.PresentationOptions, out io.Writer) refinement.FrameSink {
	return refinement.SinkFunc(func(_ context.Context, frame refinement.Frame) error {
		presenter.PresentFrame(frame, opts, out)
		return nil
	})
}
