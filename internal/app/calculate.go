package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/riemann2d/internal/cli"
	apperrors "github.com/agbru/riemann2d/internal/errors"
	"github.com/agbru/riemann2d/internal/logging"
	"github.com/agbru/riemann2d/internal/metrics"
	"github.com/agbru/riemann2d/internal/refinement"
	"github.com/agbru/riemann2d/internal/render"
)

// runCalculate precomputes every level, plays the frames to the terminal
// and the configured outputs, then prints the convergence summary.
func (a *Application) runCalculate(ctx context.Context, problem refinement.Problem, out io.Writer) int {
	levels := refinement.Schedule(a.Config.Frames)

	// Skip verbose output in quiet mode
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, problem, out)
		cli.PrintExecutionMode(levels, a.Config.Workers, out)
	}

	// Choose progress reporter based on quiet mode
	var progressReporter refinement.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = refinement.NullProgressReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{}
	}

	presenter := cli.CLIResultPresenter{}
	presOpts := a.presentationOptions()
	recorder := metrics.NewLevels()
	start := time.Now()

	frames, err := refinement.ExecuteLevels(ctx, problem, levels, a.options(recorder), progressReporter, progressOut)
	if err != nil {
		a.Logger.Error("evaluation failed", err, logging.Duration("elapsed", time.Since(start)))
		_ = a.writeMetrics(recorder)
		return presenter.HandleError(err, time.Since(start), out)
	}
	a.Logger.Debug("levels computed", logging.Int("frames", len(frames)), logging.Duration("elapsed", time.Since(start)))

	outputs, closeOutputs, err := a.buildOutputs(problem)
	if err != nil {
		return presenter.HandleError(err, time.Since(start), out)
	}
	defer closeOutputs()

	var sink refinement.MultiSink
	interval := a.Config.Interval
	if a.Config.Quiet {
		interval = 0
	} else {
		sink = append(sink, cli.PlaybackSink(presenter, presOpts, out))
	}
	if outputs != nil {
		sink = append(sink, outputs)
	}
	if len(sink) > 0 {
		if !a.Config.Quiet {
			fmt.Fprintf(out, "\n--- Playback ---\n")
		}
		if err := refinement.Play(ctx, frames, sink, interval); err != nil {
			return presenter.HandleError(err, time.Since(start), out)
		}
		if err := sink.Close(); err != nil {
			return presenter.HandleError(err, time.Since(start), out)
		}
	}

	var exitCode int
	if a.Config.Quiet {
		cli.DisplayQuietResult(out, frames)
		exitCode = apperrors.ExitSuccess
		if conv := refinement.AnalyzeConvergence(frames); a.Config.Strict && !conv.Monotonic {
			exitCode = apperrors.ExitErrorDiverged
		}
	} else {
		exitCode = refinement.AnalyzeResults(frames, presOpts, presenter, out)
	}

	saved := cli.OutputConfig{
		OutputDir: a.Config.OutputDir,
		GIF:       a.Config.GIF,
		TraceFile: a.Config.TraceFile,
		Quiet:     a.Config.Quiet,
	}
	if a.Config.MetricsFile != "" {
		if err := a.writeMetrics(recorder); err != nil {
			if exitCode == apperrors.ExitSuccess {
				exitCode = apperrors.ExitErrorGeneric
			}
		} else {
			saved.MetricsFile = a.Config.MetricsFile
		}
	}
	cli.DisplaySavedOutputs(out, saved)
	return exitCode
}

func (a *Application) presentationOptions() refinement.PresentationOptions {
	return refinement.PresentationOptions{
		Verbose:     a.Config.Verbose,
		Details:     a.Config.Details,
		NoReference: a.Config.NoReference,
		Strict:      a.Config.Strict,
	}
}

// buildOutputs creates the PNG and GIF sinks requested by the
// configuration. It returns a nil sink when no file output is configured;
// the returned func releases the renderer.
func (a *Application) buildOutputs(problem refinement.Problem) (refinement.FrameSink, func(), error) {
	if a.Config.OutputDir == "" && a.Config.GIF == "" {
		return nil, func() {}, nil
	}

	var opts []render.Option
	if a.Config.NoReference {
		opts = append(opts, render.WithoutReference())
	}
	r, err := render.NewRenderer(a.Config.Width, a.Config.Height, opts...)
	if err != nil {
		return nil, func() {}, err
	}
	release := func() {
		if err := r.Close(); err != nil {
			a.Logger.Error("releasing the renderer failed", err)
		}
	}

	var sinks refinement.MultiSink
	if a.Config.OutputDir != "" {
		png, err := render.NewPNGSink(a.Config.OutputDir, r, problem)
		if err != nil {
			release()
			return nil, func() {}, err
		}
		sinks = append(sinks, png)
	}
	if a.Config.GIF != "" {
		sinks = append(sinks, render.NewGIFSink(a.Config.GIF, r, problem))
	}
	a.Logger.Debug("file outputs ready",
		logging.String("output_dir", a.Config.OutputDir),
		logging.String("gif", a.Config.GIF),
		logging.Int("width", a.Config.Width),
		logging.Int("height", a.Config.Height))
	return sinks, release, nil
}

// writeMetrics writes the Prometheus textfile when --metrics-file is set.
func (a *Application) writeMetrics(levels *metrics.Levels) error {
	if a.Config.MetricsFile == "" {
		return nil
	}
	if err := levels.WriteTextfile(a.Config.MetricsFile); err != nil {
		a.Logger.Error("writing metrics failed", err, logging.String("path", a.Config.MetricsFile))
		return err
	}
	return nil
}
