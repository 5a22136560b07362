package tui

// sparklineChars maps eight levels to the block elements ▁▂▃▄▅▆▇█.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RingBuffer keeps the most recent float64 samples up to a fixed capacity.
type RingBuffer struct {
	data  []float64
	head  int
	count int
}

// NewRingBuffer creates a ring buffer with the given capacity, at least 1.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{data: make([]float64, max(capacity, 1))}
}

// Push adds a sample, overwriting the oldest one when full.
func (r *RingBuffer) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	r.count = min(r.count+1, len(r.data))
}

// Len returns the number of stored samples.
func (r *RingBuffer) Len() int { return r.count }

// Cap returns the buffer capacity.
func (r *RingBuffer) Cap() int { return len(r.data) }

// Slice returns the samples oldest first.
func (r *RingBuffer) Slice() []float64 {
	if r.count == 0 {
		return nil
	}
	out := make([]float64, r.count)
	start := (r.head - r.count + len(r.data)) % len(r.data)
	for i := range out {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

// Resize changes the capacity and keeps the most recent samples that fit.
func (r *RingBuffer) Resize(newCap int) {
	newCap = max(newCap, 1)
	if newCap == len(r.data) {
		return
	}
	old := r.Slice()
	if len(old) > newCap {
		old = old[len(old)-newCap:]
	}
	r.data = make([]float64, newCap)
	r.Reset()
	for _, v := range old {
		r.Push(v)
	}
}

// Reset drops every sample.
func (r *RingBuffer) Reset() {
	r.head = 0
	r.count = 0
}

// SparkRune returns the block element for a percentage, clamped to 0..100.
func SparkRune(pct float64) rune {
	pct = min(max(pct, 0), 100)
	return sparklineChars[min(int(pct/100*7), 7)]
}

// RenderSparkline renders percentages (0..100) as a row of block elements.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		runes[i] = SparkRune(v)
	}
	return string(runes)
}

// brailleDots holds the dot bits of a braille cell by column then row.
// The glyph is U+2800 plus the sum of the raised dots.
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// RenderBrailleChart plots percentages (0..100) as dots on a grid of width
// characters by rows lines. Every character holds 2×4 dots, so up to
// 2*width values fit; older values are dropped and the most recent one is
// at the right edge.
func RenderBrailleChart(values []float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}
	dotRows, dotCols := rows*4, width*2
	if len(values) > dotCols {
		values = values[len(values)-dotCols:]
	}
	offset := dotCols - len(values)

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = make([]rune, width)
		for c := range grid[r] {
			grid[r][c] = 0x2800
		}
	}
	for i, v := range values {
		v = min(max(v, 0), 100)
		dotRow := dotRows - 1 - int(v/100*float64(dotRows-1))
		dotCol := offset + i
		grid[dotRow/4][dotCol/2] |= brailleDots[dotCol%2][dotRow%4]
	}

	out := make([]string, rows)
	for r := range grid {
		out[r] = string(grid[r])
	}
	return out
}
