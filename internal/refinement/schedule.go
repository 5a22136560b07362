package refinement

// FirstFrame is the index of the first animation frame.
const FirstFrame = 1

// SubdivisionsForFrame returns the number of edges per axis used for frame:
// frame + 2, so frame 1 has 3 edges and 2×2 cells. The mapping is a policy
// of this package; the engine accepts any count of at least two.
func SubdivisionsForFrame(frame int) int { return frame + 2 }

// Level identifies one step of the refinement schedule.
type Level struct {
	Frame        int
	Subdivisions int
}

// Cells returns the number of cells evaluated at this level.
func (l Level) Cells() int {
	m := l.Subdivisions - 1
	return m * m
}

// Schedule returns the levels for frames 1 through frames, in order. It
// returns nil when frames is not positive.
func Schedule(frames int) []Level {
	if frames <= 0 {
		return nil
	}
	levels := make([]Level, 0, frames)
	for f := FirstFrame; f <= frames; f++ {
		levels = append(levels, Level{Frame: f, Subdivisions: SubdivisionsForFrame(f)})
	}
	return levels
}
