package tui

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/agbru/riemann2d/internal/refinement"
)

// ChartModel plots log10 of the absolute error of every played frame as a
// braille curve, with a sparkline of the heap size below it. When the
// reference is hidden it plots the sums instead.
type ChartModel struct {
	logErrors   []float64
	totals      []float64
	hideRef     bool
	heapHistory *RingBuffer
	meanOrder   float64
	monotonic   bool
	summarized  bool
	width       int
	height      int
}

// NewChartModel creates a new chart.
func NewChartModel() ChartModel {
	return ChartModel{
		heapHistory: NewRingBuffer(60),
		meanOrder:   math.NaN(),
	}
}

// SetSize updates dimensions and resizes the heap history to the width.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	if w > 12 {
		c.heapHistory.Resize(w - 12)
	}
}

// AddFrame appends the error of a played frame. A zero error is plotted
// as the floor of the chart.
func (c *ChartModel) AddFrame(f refinement.Frame) {
	c.totals = append(c.totals, f.Result.Total)
	e := f.Result.AbsError
	if e > 0 && !math.IsInf(e, 0) {
		c.logErrors = append(c.logErrors, math.Log10(e))
	} else {
		c.logErrors = append(c.logErrors, math.Inf(-1))
	}
}

// SetHideReference switches the plot from the errors to the sums.
func (c *ChartModel) SetHideReference(hide bool) {
	c.hideRef = hide
}

// AddHeapSample records the heap size in bytes.
func (c *ChartModel) AddHeapSample(heapAlloc uint64) {
	c.heapHistory.Push(float64(heapAlloc))
}

// SetSummary records the convergence analysis of the complete run.
func (c *ChartModel) SetSummary(conv refinement.Convergence) {
	c.meanOrder = conv.MeanOrder
	c.monotonic = conv.Monotonic
	c.summarized = true
}

// Reset clears the chart for a restarted run.
func (c *ChartModel) Reset() {
	c.logErrors = nil
	c.totals = nil
	c.heapHistory.Reset()
	c.meanOrder = math.NaN()
	c.monotonic = false
	c.summarized = false
}

// View renders the chart panel.
func (c ChartModel) View() string {
	inner := max(c.height-2, 1)
	title := "Convergence (log10 error)"
	series := c.logErrors
	label := func(v float64, top bool) string {
		if top {
			return fmt.Sprintf("1e%.0f", math.Ceil(v))
		}
		return fmt.Sprintf("1e%.0f", math.Floor(v))
	}
	if c.hideRef {
		title = "Sum per frame"
		series = c.totals
		label = func(v float64, _ bool) string { return fmt.Sprintf("%.4g", v) }
	} else if c.summarized && !math.IsNaN(c.meanOrder) {
		title += fmt.Sprintf("  mean order %.3f", c.meanOrder)
		if !c.monotonic {
			title += "  error grew"
		}
	}
	lines := []string{panelTitleStyle.Render(title)}

	chartRows := max(inner-2, 1)
	const labelWidth = 7
	plotWidth := max(c.width-4-labelWidth, 1)
	lo, hi, ok := finiteRange(series)
	if ok {
		scaled := make([]float64, len(series))
		for i, v := range series {
			switch {
			case math.IsInf(v, -1):
				scaled[i] = 0
			case hi == lo:
				scaled[i] = 50
			default:
				scaled[i] = (v - lo) / (hi - lo) * 100
			}
		}
		plot := RenderBrailleChart(stretch(scaled, plotWidth*2), plotWidth, chartRows)
		for r, row := range plot {
			axis := spaces(labelWidth)
			switch r {
			case 0:
				axis = fmt.Sprintf("%-*s", labelWidth, label(hi, true))
			case len(plot) - 1:
				axis = fmt.Sprintf("%-*s", labelWidth, label(lo, false))
			}
			lines = append(lines, chartAxisStyle.Render(axis)+chartLineStyle.Render(row))
		}
	} else {
		for range chartRows {
			lines = append(lines, "")
		}
	}

	if c.heapHistory.Len() > 0 {
		samples := c.heapHistory.Slice()
		peak := slices.Max(samples)
		pct := make([]float64, len(samples))
		for i, v := range samples {
			if peak > 0 {
				pct[i] = v / peak * 100
			}
		}
		lines = append(lines, chartAxisStyle.Render(fmt.Sprintf("%-*s", labelWidth, "Heap"))+
			memSparklineStyle.Render(RenderSparkline(pct)))
	}

	return panelStyle.
		Width(c.width - 2).
		Height(inner).
		Render(strings.Join(lines, "\n"))
}

// stretch resamples values to n points by nearest neighbour so that a few
// frames span the whole plot width.
func stretch(values []float64, n int) []float64 {
	if len(values) == 0 || n <= len(values) {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = values[i*len(values)/n]
	}
	return out
}
