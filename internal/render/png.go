package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/agbru/riemann2d/internal/errors"
	"github.com/agbru/riemann2d/internal/refinement"
)

// FrameFileName returns the file name of frame in a PNG sequence.
func FrameFileName(frame int) string {
	return fmt.Sprintf("frame_%03d.png", frame)
}

// PNGSink writes every consumed frame to its own file in a directory.
type PNGSink struct {
	dir      string
	renderer *Renderer
	problem  refinement.Problem
	written  []string
}

var _ refinement.FrameSink = (*PNGSink)(nil)

// NewPNGSink creates dir if needed and returns a sink writing into it.
func NewPNGSink(dir string, r *Renderer, p refinement.Problem) (*PNGSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.RenderError{Sink: "png", Cause: err}
	}
	return &PNGSink{dir: dir, renderer: r, problem: p}, nil
}

// Consume renders frame and saves it as dir/frame_NNN.png.
func (s *PNGSink) Consume(ctx context.Context, frame refinement.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dc, err := s.renderer.Draw(s.problem, frame)
	if err != nil {
		return apperrors.RenderError{Sink: "png", Frame: frame.Frame, Cause: err}
	}
	defer dc.Close()

	path := filepath.Join(s.dir, FrameFileName(frame.Frame))
	if err := dc.SavePNG(path); err != nil {
		return apperrors.RenderError{Sink: "png", Frame: frame.Frame, Cause: err}
	}
	s.written = append(s.written, path)
	return nil
}

// Paths returns the files written so far, in order.
func (s *PNGSink) Paths() []string { return s.written }
