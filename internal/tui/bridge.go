package tui

import (
	"context"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/riemann2d/internal/errors"
	"github.com/agbru/riemann2d/internal/refinement"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements refinement.ProgressReporter.
// It drains the progress channel and forwards updates as bubbletea messages.
// Every bridge type stamps its messages with the generation of the run it
// serves so that the model can drop those of a restarted run.
type TUIProgressReporter struct {
	ref        *programRef
	generation uint64
}

var _ refinement.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the progress channel and sends ProgressMsg to the TUI.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan refinement.ProgressUpdate, numLevels int, _ io.Writer) {
	defer wg.Done()

	agg := refinement.NewProgressAggregator(numLevels)
	if agg == nil {
		refinement.DrainChannel(progressChan)
		return
	}

	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{
			Frame:           ap.Frame,
			Completed:       ap.Completed,
			AverageProgress: ap.AverageProgress,
			ETA:             ap.ETA,
			Generation:      t.generation,
		})
	}
	t.ref.Send(ProgressDoneMsg{Generation: t.generation})
}

// TUIFrameSink implements refinement.FrameSink by forwarding every played
// frame to the dashboard.
type TUIFrameSink struct {
	ref        *programRef
	generation uint64
}

var _ refinement.FrameSink = (*TUIFrameSink)(nil)

// Consume sends frame to the TUI. Frames are immutable once computed, so
// the Samples slice is shared without copying.
func (t *TUIFrameSink) Consume(ctx context.Context, frame refinement.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.ref.Send(FrameMsg{Frame: frame, Generation: t.generation})
	return nil
}

// TUIResultPresenter implements refinement.ResultPresenter and
// refinement.ErrorHandler by sending messages instead of writing text.
type TUIResultPresenter struct {
	ref        *programRef
	generation uint64
}

var (
	_ refinement.ResultPresenter = (*TUIResultPresenter)(nil)
	_ refinement.ErrorHandler    = (*TUIResultPresenter)(nil)
)

// PresentFrame sends the frame to the TUI.
func (t *TUIResultPresenter) PresentFrame(frame refinement.Frame, _ refinement.PresentationOptions, _ io.Writer) {
	t.ref.Send(FrameMsg{Frame: frame, Generation: t.generation})
}

// PresentConvergenceTable sends the convergence analysis to the TUI.
func (t *TUIResultPresenter) PresentConvergenceTable(_ []refinement.Frame, conv refinement.Convergence, _ refinement.PresentationOptions, _ io.Writer) {
	t.ref.Send(SummaryMsg{Convergence: conv, Generation: t.generation})
}

// HandleError sends an error message to the TUI and returns the exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Err: err, Duration: duration, Generation: t.generation})
	return apperrors.HandleEvaluationError(err, duration, io.Discard, nil)
}

// HandleRunError reports err unless ctx, the context of the run, was
// canceled. A canceled run was either restarted or is shutting down, and
// ContextCancelledMsg already covers the latter.
func (t *TUIResultPresenter) HandleRunError(ctx context.Context, err error, duration time.Duration) int {
	if ctx.Err() != nil {
		return apperrors.HandleEvaluationError(err, duration, io.Discard, nil)
	}
	return t.HandleError(err, duration, io.Discard)
}
