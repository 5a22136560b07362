package render

import (
	"context"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"

	apperrors "github.com/agbru/riemann2d/internal/errors"
	"github.com/agbru/riemann2d/internal/refinement"
)

// GIFFrameDelay is the delay between animation frames in hundredths of a
// second: one frame per second.
const GIFFrameDelay = 100

// GIFSink collects frames and writes them as a looping animated GIF when
// closed.
type GIFSink struct {
	path     string
	renderer *Renderer
	problem  refinement.Problem
	anim     gif.GIF
	closed   bool
}

var (
	_ refinement.FrameSink = (*GIFSink)(nil)
	_ refinement.Closer    = (*GIFSink)(nil)
)

// NewGIFSink returns a sink that will write the animation to path.
func NewGIFSink(path string, r *Renderer, p refinement.Problem) *GIFSink {
	return &GIFSink{path: path, renderer: r, problem: p}
}

// Consume renders frame and appends it, dithered to the Plan 9 palette.
func (s *GIFSink) Consume(ctx context.Context, frame refinement.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	img, err := s.renderer.Image(s.problem, frame)
	if err != nil {
		return apperrors.RenderError{Sink: "gif", Frame: frame.Frame, Cause: err}
	}
	s.anim.Image = append(s.anim.Image, quantize(img))
	s.anim.Delay = append(s.anim.Delay, GIFFrameDelay)
	return nil
}

// Frames returns the number of frames collected.
func (s *GIFSink) Frames() int { return len(s.anim.Image) }

// Close encodes the collected frames. It writes nothing when no frame was
// consumed, and is a no-op after the first call.
func (s *GIFSink) Close() (err error) {
	if s.closed {
		return nil
	}
	s.closed = true
	if len(s.anim.Image) == 0 {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.RenderError{Sink: "gif", Cause: err}
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return apperrors.RenderError{Sink: "gif", Cause: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = apperrors.RenderError{Sink: "gif", Cause: cerr}
		}
	}()
	if err := gif.EncodeAll(f, &s.anim); err != nil {
		return apperrors.RenderError{Sink: "gif", Cause: err}
	}
	return nil
}

func quantize(img image.Image) *image.Paletted {
	b := img.Bounds()
	pm := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(pm, b, img, b.Min)
	return pm
}
