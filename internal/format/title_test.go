package format

import "testing"

func TestFrameTitle(t *testing.T) {
	t.Parallel()
	if got, want := FrameTitle(4), "Riemann Sum with 4×4 rectangles"; got != want {
		t.Errorf("FrameTitle(4) = %q, want %q", got, want)
	}
}

func TestFrameSubtitle(t *testing.T) {
	t.Parallel()
	got := FrameSubtitle(48.70454551700121, 64.93939402266828, 16.234848505667072)
	want := "Approximation = 48.704546, Exact = 64.939394, Error = 16.234849"
	if got != want {
		t.Errorf("FrameSubtitle() = %q, want %q", got, want)
	}
}

func TestFrameSum(t *testing.T) {
	t.Parallel()
	if got, want := FrameSum(48.70454551700121), "Sum = 48.7045"; got != want {
		t.Errorf("FrameSum() = %q, want %q", got, want)
	}
}
