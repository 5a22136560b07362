package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/riemann2d/internal/format"
)

// HeaderModel renders the top bar: title, version, problem, elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	problem   string
	width     int
}

// NewHeaderModel creates a new header. problem labels the integrand, e.g.
// "paraboloid: x^2 + y^2".
func NewHeaderModel(version, problem string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		problem:   problem,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the run started, frozen once done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "Riemann Monitor"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")

	left := titleStyle.Render(titleText) + pipe
	if h.problem != "" {
		left += problemStyle.Render(h.problem) + pipe
	}
	left += elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))

	gap := max(h.width-2, 0) - lipgloss.Width(left)
	return headerStyle.Width(h.width).Render(left + spaces(gap))
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
