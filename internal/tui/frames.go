package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/riemann2d/internal/format"
	"github.com/agbru/riemann2d/internal/refinement"
)

// FramesModel lists the played frames and tracks the selected one. While
// following, the selection jumps to every new frame.
type FramesModel struct {
	frames   []refinement.Frame
	selected int
	follow   bool

	total        int
	completed    int
	average      float64
	eta          time.Duration
	precomputing bool
	failure      string

	hideReference bool

	width  int
	height int
}

// NewFramesModel creates an empty list for a run of total levels.
func NewFramesModel(total int) FramesModel {
	return FramesModel{
		total:        total,
		follow:       true,
		precomputing: true,
	}
}

// SetSize updates dimensions.
func (m *FramesModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Reset clears the list for a restarted run.
func (m *FramesModel) Reset() {
	*m = FramesModel{
		total:        m.total,
		follow:       true,
		precomputing: true,
		width:        m.width,
		height:       m.height,

		hideReference: m.hideReference,
	}
}

// SetHideReference drops the error column.
func (m *FramesModel) SetHideReference(hide bool) {
	m.hideReference = hide
}

// SetProgress records precomputation progress.
func (m *FramesModel) SetProgress(msg ProgressMsg) {
	m.completed = msg.Completed
	m.average = msg.AverageProgress
	m.eta = msg.ETA
}

// SetPrecomputed marks precomputation as finished.
func (m *FramesModel) SetPrecomputed() {
	m.precomputing = false
}

// SetError records a failed run.
func (m *FramesModel) SetError(err error) {
	m.precomputing = false
	m.failure = err.Error()
}

// Add appends a played frame.
func (m *FramesModel) Add(f refinement.Frame) {
	m.frames = append(m.frames, f)
	if m.follow {
		m.selected = len(m.frames) - 1
	}
}

// SetFollow enables or disables following. Enabling it selects the latest
// frame.
func (m *FramesModel) SetFollow(follow bool) {
	m.follow = follow
	if follow && len(m.frames) > 0 {
		m.selected = len(m.frames) - 1
	}
}

// Following reports whether the selection tracks new frames.
func (m FramesModel) Following() bool { return m.follow }

// Move shifts the selection by delta frames and stops following.
func (m *FramesModel) Move(delta int) {
	if len(m.frames) == 0 {
		return
	}
	m.follow = false
	m.selected = min(max(m.selected+delta, 0), len(m.frames)-1)
}

// Len returns the number of frames played so far.
func (m FramesModel) Len() int { return len(m.frames) }

// Current returns the selected frame and its predecessor, if any.
func (m FramesModel) Current() (cur refinement.Frame, prev *refinement.Frame, ok bool) {
	if len(m.frames) == 0 {
		return refinement.Frame{}, nil, false
	}
	if m.selected > 0 {
		prev = &m.frames[m.selected-1]
	}
	return m.frames[m.selected], prev, true
}

// Frames returns the played frames in order.
func (m FramesModel) Frames() []refinement.Frame { return m.frames }

// View renders the list at the panel height.
func (m FramesModel) View() string {
	inner := max(m.height-2, 1)
	lines := []string{panelTitleStyle.Render(fmt.Sprintf("Frames %d/%d", len(m.frames), m.total))}

	if m.precomputing {
		barWidth := max(m.width-44, 5)
		lines = append(lines, progressStyle.Render(fmt.Sprintf("Levels %d/%d %s",
			m.completed, m.total, format.FormatProgressBarWithETA(m.average, m.eta, barWidth))))
	}
	if m.failure != "" {
		lines = append(lines, failureStyle.Render("✗ "+m.failure))
	}

	visible := max(inner-len(lines), 0)
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	for i := start; i < len(m.frames) && i < start+visible; i++ {
		lines = append(lines, m.renderRow(i))
	}

	return panelStyle.
		Width(m.width - 2).
		Height(inner).
		Render(strings.Join(lines, "\n"))
}

func (m FramesModel) renderRow(i int) string {
	f := m.frames[i]
	marker := "  "
	idx := frameIndexStyle.Render(fmt.Sprintf("[%2d]", f.Frame))
	if i == m.selected {
		marker = frameSelectedStyle.Render("▶ ")
		idx = frameSelectedStyle.Render(fmt.Sprintf("[%2d]", f.Frame))
	}

	errStyle := errorDownStyle
	if i > 0 && f.Result.AbsError > m.frames[i-1].Result.AbsError {
		errStyle = errorUpStyle
	}
	rect := frameRectStyle.Render(fmt.Sprintf("%7s", fmt.Sprintf("%d×%d", f.Rectangles(), f.Rectangles())))
	row := fmt.Sprintf("%s%s %s  %.6f", marker, idx, rect, f.Result.Total)
	if !m.hideReference {
		row += "  " + errStyle.Render(fmt.Sprintf("%.3e", f.Result.AbsError))
	}

	if w := lipgloss.Width(row); m.width > 4 && w > m.width-4 {
		return lipgloss.NewStyle().MaxWidth(m.width - 4).Render(row)
	}
	return row
}
