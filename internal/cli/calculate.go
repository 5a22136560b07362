package cli

import (
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/agbru/riemann2d/internal/config"
	"github.com/agbru/riemann2d/internal/refinement"
	"github.com/agbru/riemann2d/internal/ui"
)

// PrintExecutionConfig displays the problem being integrated and the
// environment it runs on.
//
// Parameters:
//   - cfg: The application configuration.
//   - p: The problem built from the configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, p refinement.Problem, out io.Writer) {
	d := p.Domain
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Integrating %sf(x, y) = %s%s over %s[%g, %g] × [%g, %g]%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), p.Expr, ui.ColorReset(),
		ui.ColorMagenta(), d.XMin, d.XMax, d.YMin, d.YMax, ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	if !cfg.NoReference {
		refKind := "numerical quadrature"
		if cfg.Exact {
			refKind = "closed form"
		}
		fmt.Fprintf(out, "Reference value: %s%.12g%s (%s).\n", ui.ColorCyan(), p.Reference, ui.ColorReset(), refKind)
	}
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, FMA %s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		availability(hasFMA()))
}

// hasFMA reports whether the CPU has fused multiply-add. Every arm64 core
// does; on amd64 it depends on the model.
func hasFMA() bool {
	return cpu.X86.HasFMA || runtime.GOARCH == "arm64"
}

func availability(ok bool) string {
	if ok {
		return ui.ColorGreen() + "available" + ui.ColorReset()
	}
	return ui.ColorYellow() + "unavailable" + ui.ColorReset()
}

// PrintExecutionMode displays the refinement schedule.
//
// Parameters:
//   - levels: The levels that will be computed.
//   - workers: The concurrency limit, 0 for one per CPU.
//   - out: The writer for standard output.
func PrintExecutionMode(levels []refinement.Level, workers int, out io.Writer) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if len(levels) == 0 {
		fmt.Fprintf(out, "Execution mode: nothing to compute.\n")
		return
	}
	first, last := levels[0], levels[len(levels)-1]
	fmt.Fprintf(out, "Execution mode: %s%d%s levels from %d×%d to %d×%d rectangles, %s%d%s at a time.\n",
		ui.ColorGreen(), len(levels), ui.ColorReset(),
		first.Subdivisions-1, first.Subdivisions-1, last.Subdivisions-1, last.Subdivisions-1,
		ui.ColorGreen(), workers, ui.ColorReset())
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
