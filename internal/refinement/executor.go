package refinement

import (
	"cmp"
	"context"
	"io"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ExecuteLevels computes every level of the schedule, concurrently when
// opts.Workers allows it, and returns the frames in ascending frame order.
//
// The first failing level cancels the levels not yet started and its error
// is returned. On error no frames are returned, so callers never render a
// partial sequence.
//
// Parameters:
//   - ctx: Cancels levels that have not started.
//   - p: The problem to evaluate.
//   - levels: The refinement schedule, usually from Schedule.
//   - opts: Worker bound, metrics recorder and logger.
//   - reporter: Displays progress; nil means NullProgressReporter.
//   - out: Writer handed to the reporter.
func ExecuteLevels(ctx context.Context, p Problem, levels []Level, opts Options, reporter ProgressReporter, out io.Writer) ([]Frame, error) {
	if reporter == nil {
		reporter = NullProgressReporter{}
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}

	frames := make([]Frame, len(levels))
	// Every level sends exactly one update, so a full buffer never blocks.
	progressChan := make(chan ProgressUpdate, len(levels))

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(levels), out)

	for i, lvl := range levels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr, err := ComputeLevel(gctx, p, lvl, opts)
			if err != nil {
				return err
			}
			frames[i] = fr
			progressChan <- ProgressUpdate{Index: i, Frame: lvl.Frame, Value: 1}
			return nil
		})
	}

	err := g.Wait()
	close(progressChan)
	displayWg.Wait()

	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(frames, func(a, b Frame) int { return cmp.Compare(a.Frame, b.Frame) })
	return frames, nil
}
