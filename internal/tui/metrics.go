package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/riemann2d/internal/format"
	"github.com/agbru/riemann2d/internal/metrics"
	"github.com/agbru/riemann2d/internal/refinement"
	"github.com/agbru/riemann2d/internal/sysmon"
)

// MetricsModel displays the measurements of the selected frame and the
// runtime memory statistics.
type MetricsModel struct {
	mem          metrics.MemorySnapshot
	baseline     metrics.MemorySnapshot
	hasBaseline  bool
	numGoroutine int
	system       sysmon.Stats

	frame         refinement.Frame
	order         float64
	hasFrame      bool
	hideReference bool

	width  int
	height int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{order: math.NaN()}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetHideReference drops the error, order and reference rows.
func (m *MetricsModel) SetHideReference(hide bool) {
	m.hideReference = hide
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	if !m.hasBaseline {
		m.baseline = msg.MemorySnapshot
		m.hasBaseline = true
	}
	m.mem = msg.MemorySnapshot
	m.numGoroutine = msg.NumGoroutine
	m.system = msg.System
}

// SetFrame shows cur, with the observed order measured against prev when
// prev is not nil.
func (m *MetricsModel) SetFrame(cur refinement.Frame, prev *refinement.Frame) {
	m.frame = cur
	m.hasFrame = true
	m.order = math.NaN()
	if prev != nil {
		conv := refinement.AnalyzeConvergence([]refinement.Frame{*prev, cur})
		if len(conv.Orders) == 1 {
			m.order = conv.Orders[0]
		}
	}
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows strings.Builder

	heapStr := metricValueStyle.Render(formatBytes(m.mem.HeapAlloc) + " / " + formatBytes(m.mem.HeapSys))
	// Collections since the dashboard started.
	cycles, pause := m.mem.Since(m.baseline)
	gcPauseStr := metricValueStyle.Render(fmt.Sprintf("%d (%.1fms)", cycles, float64(pause.Microseconds())/1e3))
	pipe := metricLabelStyle.Render(" | ")
	rows.WriteString(fmt.Sprintf("  %s %s%s%s %s%s%s %s%s%s %s",
		metricLabelStyle.Render("Heap:"), heapStr,
		pipe,
		metricLabelStyle.Render("GC:"), gcPauseStr,
		pipe,
		metricLabelStyle.Render("Goroutines:"), metricValueStyle.Render(fmt.Sprintf("%d", m.numGoroutine)),
		pipe,
		metricLabelStyle.Render("System:"), metricValueStyle.Render(m.system.String())))

	if m.hasFrame {
		colWidth := (m.width - 6) / 2
		r := m.frame.Result
		order := "-"
		if !math.IsNaN(m.order) {
			order = fmt.Sprintf("%.3f", m.order)
		}
		leftCol := []string{
			formatMetricCol("Cells:", format.FormatNumberString(fmt.Sprintf("%d", m.frame.Samples.Grid.CellCount())), colWidth),
		}
		rightCol := []string{
			formatMetricCol("Computed in:", format.FormatExecutionDuration(m.frame.Duration), colWidth),
		}
		if m.hideReference {
			leftCol = append(leftCol, formatMetricCol("Sum:", fmt.Sprintf("%.6f", r.Total), colWidth))
			rightCol = append(rightCol, formatMetricCol("Subdivisions:", fmt.Sprintf("%d", m.frame.Subdivisions), colWidth))
		} else {
			leftCol = append(leftCol,
				formatMetricCol("Abs. error:", fmt.Sprintf("%.3e", r.AbsError), colWidth),
				formatMetricCol("Order:", order, colWidth))
			rightCol = append(rightCol,
				formatMetricCol("Rel. error:", fmt.Sprintf("%.3e", r.RelativeError()), colWidth),
				formatMetricCol("Reference:", fmt.Sprintf("%.9g", r.Reference), colWidth))
		}

		for i := range leftCol {
			rows.WriteString("\n")
			rows.WriteString(leftCol[i])
			rows.WriteString(rightCol[i])
		}
	}

	return panelStyle.
		Width(m.width - 2).
		Height(max(m.height-2, 1)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-12s", label)),
		metricValueStyle.Render(value))
	// Pad to fixed column width using lipgloss-aware width
	visible := lipgloss.Width(cell)
	if visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
