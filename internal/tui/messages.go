package tui

import (
	"time"

	"github.com/agbru/riemann2d/internal/metrics"
	"github.com/agbru/riemann2d/internal/refinement"
	"github.com/agbru/riemann2d/internal/sysmon"
)

// ProgressMsg reports that one more level has been precomputed.
type ProgressMsg struct {
	Frame           int
	Completed       int
	AverageProgress float64
	ETA             time.Duration
	Generation      uint64
}

// ProgressDoneMsg signals that precomputation is over.
type ProgressDoneMsg struct {
	Generation uint64
}

// FrameMsg carries the next frame of the playback.
type FrameMsg struct {
	Frame      refinement.Frame
	Generation uint64
}

// SummaryMsg carries the convergence analysis once every frame was played.
type SummaryMsg struct {
	Convergence refinement.Convergence
	Generation  uint64
}

// ErrorMsg reports a failed run.
type ErrorMsg struct {
	Err        error
	Duration   time.Duration
	Generation uint64
}

// TickMsg drives the periodic refresh of the header and memory panel.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory sample and the system-wide load.
type MemStatsMsg struct {
	metrics.MemorySnapshot
	NumGoroutine int
	System       sysmon.Stats
}

// PlaybackCompleteMsg signals the end of a run. Generation discards
// messages from a run that was restarted.
type PlaybackCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg signals that the run context was cancelled.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
