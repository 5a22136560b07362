package refinement

import (
	"time"

	"github.com/agbru/riemann2d/internal/format"
)

// ProgressAggregator turns per-level completion updates into an overall
// fraction and an ETA. Both the CLI spinner and the TUI use it.
type ProgressAggregator struct {
	state     *format.ProgressWithETA
	numLevels int
	completed int
}

// NewProgressAggregator returns an aggregator for numLevels levels, or nil
// when numLevels is not positive.
func NewProgressAggregator(numLevels int) *ProgressAggregator {
	if numLevels <= 0 {
		return nil
	}
	return &ProgressAggregator{state: format.NewProgressWithETA(numLevels), numLevels: numLevels}
}

// AggregatedProgress is the result of folding one update.
type AggregatedProgress struct {
	Frame           int
	Completed       int
	AverageProgress float64
	ETA             time.Duration
}

// Update folds one update into the aggregate.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.Index, update.Value)
	if update.Value >= 1 {
		a.completed++
	}
	return AggregatedProgress{
		Frame:           update.Frame,
		Completed:       a.completed,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current overall fraction.
func (a *ProgressAggregator) CalculateAverage() float64 { return a.state.CalculateAverage() }

// GetETA returns the current estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration { return a.state.GetETA() }

// NumLevels returns the number of tracked levels.
func (a *ProgressAggregator) NumLevels() int { return a.numLevels }

// DrainChannel discards every update until progressChan is closed.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
