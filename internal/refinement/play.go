package refinement

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"
)

// Play hands frames to sink in ascending frame order, waiting interval
// between consecutive frames. It stops at the first sink error or when ctx
// is done. A zero interval plays as fast as the sink consumes.
func Play(ctx context.Context, frames []Frame, sink FrameSink, interval time.Duration) error {
	ordered := slices.SortedStableFunc(slices.Values(frames), func(a, b Frame) int { return cmp.Compare(a.Frame, b.Frame) })

	for i, fr := range ordered {
		if i > 0 && interval > 0 {
			timer := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sink.Consume(ctx, fr); err != nil {
			return err
		}
	}
	return nil
}

// MultiSink fans every frame out to several sinks, in order.
type MultiSink []FrameSink

// Consume passes frame to each sink and stops at the first error.
func (m MultiSink) Consume(ctx context.Context, frame Frame) error {
	for _, s := range m {
		if err := s.Consume(ctx, frame); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink that implements Closer and joins their errors.
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if c, ok := s.(Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

// CloseSink closes sink if it implements Closer.
func CloseSink(sink FrameSink) error {
	if c, ok := sink.(Closer); ok {
		return c.Close()
	}
	return nil
}
