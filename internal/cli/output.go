// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayQuietResult], [DisplayProgress], [DisplaySavedOutputs].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult].
//
//   - Print* functions write the run preamble.
//     Examples: [PrintExecutionConfig], [PrintExecutionMode].

package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/agbru/riemann2d/internal/refinement"
	"github.com/agbru/riemann2d/internal/ui"
)

// OutputConfig lists the files a run produced.
type OutputConfig struct {
	// OutputDir holds the PNG frames (empty if none were written).
	OutputDir string
	// GIF is the animated GIF path (empty if none was written).
	GIF string
	// MetricsFile is the Prometheus textfile path (empty if not written).
	MetricsFile string
	// TraceFile is the span output path (empty if tracing was off).
	TraceFile string
	// Quiet suppresses the notice.
	Quiet bool
}

// FormatQuietResult formats the finest approximation for quiet mode: the
// total and the absolute error at full precision, tab separated, suitable
// for scripting.
func FormatQuietResult(frame refinement.Frame) string {
	return strconv.FormatFloat(frame.Result.Total, 'g', -1, 64) + "\t" +
		strconv.FormatFloat(frame.Result.AbsError, 'g', -1, 64)
}

// DisplayQuietResult prints the last frame in quiet mode. It prints nothing
// when frames is empty.
func DisplayQuietResult(out io.Writer, frames []refinement.Frame) {
	if len(frames) == 0 {
		return
	}
	fmt.Fprintln(out, FormatQuietResult(frames[len(frames)-1]))
}

// DisplaySavedOutputs prints where the rendered artifacts were written.
func DisplaySavedOutputs(out io.Writer, cfg OutputConfig) {
	if cfg.Quiet {
		return
	}
	saved := []struct{ label, path string }{
		{"Frames saved to", cfg.OutputDir},
		{"Animation saved to", cfg.GIF},
		{"Metrics saved to", cfg.MetricsFile},
		{"Traces saved to", cfg.TraceFile},
	}
	for _, s := range saved {
		if s.path == "" {
			continue
		}
		fmt.Fprintf(out, "%s✓ %s: %s%s%s\n", ui.ColorGreen(), s.label, ui.ColorCyan(), s.path, ui.ColorReset())
	}
}
