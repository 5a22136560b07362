package format

import "fmt"

// FrameTitle is the headline of a refinement frame, e.g.
// "Riemann Sum with 4×4 rectangles".
func FrameTitle(rectangles int) string {
	return fmt.Sprintf("Riemann Sum with %d×%d rectangles", rectangles, rectangles)
}

// FrameSubtitle reports the approximation of a frame against its reference.
func FrameSubtitle(approximation, exact, absError float64) string {
	return fmt.Sprintf("Approximation = %.6f, Exact = %.6f, Error = %.6f", approximation, exact, absError)
}

// FrameSum is the subtitle shown when the reference comparison is hidden.
func FrameSum(total float64) string {
	return fmt.Sprintf("Sum = %.4f", total)
}
