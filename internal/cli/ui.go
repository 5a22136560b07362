//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/riemann2d/internal/format"
	"github.com/agbru/riemann2d/internal/refinement"
	"github.com/agbru/riemann2d/internal/ui"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts a terminal spinner so that DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix sets the text that is displayed after the spinner.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	// Same interval as ProgressRefreshRate to keep both in step.
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with an aggregated progress bar while
// refinement levels are precomputed. It returns, calling wg.Done, once
// progressChan is closed.
//
// Parameters:
//   - wg: Signalled when the display has finished.
//   - progressChan: Per-level completion updates.
//   - numLevels: The number of levels being computed.
//   - out: The writer the spinner draws on.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan refinement.ProgressUpdate, numLevels int, out io.Writer) {
	defer wg.Done()
	agg := refinement.NewProgressAggregator(numLevels)
	if agg == nil {
		refinement.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(progressSuffix(refinement.AggregatedProgress{}, numLevels))
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	var last refinement.AggregatedProgress
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				fmt.Fprintf(out, "%sPrecomputed %d/%d levels.%s\n",
					ui.ColorGreen(), last.Completed, numLevels, ui.ColorReset())
				return
			}
			last = agg.Update(update)
			s.UpdateSuffix(progressSuffix(last, numLevels))
		case <-ticker.C:
			last.ETA = agg.GetETA()
			s.UpdateSuffix(progressSuffix(last, numLevels))
		}
	}
}

// progressSuffix renders the text shown after the spinner glyph.
func progressSuffix(p refinement.AggregatedProgress, numLevels int) string {
	return fmt.Sprintf(" Levels %d/%d %s", p.Completed, numLevels,
		format.FormatProgressBarWithETA(p.AverageProgress, p.ETA, ProgressBarWidth))
}
