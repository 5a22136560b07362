package tui

import (
	"math"
	"strings"

	"github.com/agbru/riemann2d/internal/format"
	"github.com/agbru/riemann2d/internal/refinement"
	"github.com/agbru/riemann2d/internal/riemann"
)

// undefinedCell marks a cell whose sample is NaN or infinite.
const undefinedCell = '·'

// HeatmapModel draws the selected frame seen from above: one block
// character per cell, taller for larger samples, with y increasing upwards.
type HeatmapModel struct {
	frame         refinement.Frame
	hasFrame      bool
	hideReference bool
	width         int
	height        int
}

// NewHeatmapModel creates an empty heatmap panel.
func NewHeatmapModel() HeatmapModel {
	return HeatmapModel{}
}

// SetSize updates dimensions.
func (m *HeatmapModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetHideReference replaces the comparison subtitle with the bare sum.
func (m *HeatmapModel) SetHideReference(hide bool) {
	m.hideReference = hide
}

// SetFrame selects the frame to draw.
func (m *HeatmapModel) SetFrame(f refinement.Frame) {
	m.frame = f
	m.hasFrame = true
}

// View renders the panel.
func (m HeatmapModel) View() string {
	inner := max(m.height-2, 1)
	var lines []string
	if !m.hasFrame {
		lines = []string{panelTitleStyle.Render("Waiting for the first frame...")}
	} else {
		r := m.frame.Result
		subtitle := format.FrameSubtitle(r.Total, r.Reference, r.AbsError)
		if m.hideReference {
			subtitle = format.FrameSum(r.Total)
		}
		lines = []string{
			panelTitleStyle.Render(format.FrameTitle(m.frame.Rectangles())),
			metricLabelStyle.Render(subtitle),
		}
		for _, row := range RenderHeatmap(m.frame.Samples, m.width-4, inner-len(lines)) {
			lines = append(lines, heatmapStyle.Render(row))
		}
	}
	return panelStyle.
		Width(m.width - 2).
		Height(inner).
		Render(strings.Join(lines, "\n"))
}

// RenderHeatmap maps samples onto at most width×rows characters. Each text
// column covers a range of x cells and each text row a range of y cells,
// the top row holding the largest y. Values are scaled over the finite
// range of the samples.
func RenderHeatmap(s riemann.Samples, width, rows int) []string {
	nx, ny := s.Grid.Rows(), s.Grid.Cols()
	if width <= 0 || rows <= 0 || nx == 0 || ny == 0 || len(s.Values) != nx*ny {
		return nil
	}
	// Two columns per cell keep small grids roughly square.
	width = min(width, 2*nx)
	rows = min(rows, ny)

	lo, hi, ok := finiteRange(s.Values)
	out := make([]string, rows)
	for r := range rows {
		j := (rows - 1 - r) * ny / rows
		line := make([]rune, width)
		for c := range width {
			i := c * nx / width
			v := s.At(i, j)
			switch {
			case !ok || math.IsNaN(v) || math.IsInf(v, 0):
				line[c] = undefinedCell
			case hi == lo:
				line[c] = sparklineChars[len(sparklineChars)/2]
			default:
				line[c] = SparkRune((v - lo) / (hi - lo) * 100)
			}
		}
		out[r] = string(line)
	}
	return out
}

// finiteRange returns the bounds of the finite values, with ok false when
// there are none.
func finiteRange(values []float64) (lo, hi float64, ok bool) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi, ok
}
