package refinement

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/agbru/riemann2d/internal/riemann"
)

func TestExecuteLevels_AscendingOrder(t *testing.T) {
	t.Parallel()
	for _, workers := range []int{0, 1, 3} {
		frames, err := ExecuteLevels(context.Background(), paraboloidProblem(), Schedule(9), Options{Workers: workers}, nil, io.Discard)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if len(frames) != 9 {
			t.Fatalf("workers=%d: got %d frames, want 9", workers, len(frames))
		}
		for i, fr := range frames {
			if fr.Frame != i+1 || fr.Subdivisions != i+3 {
				t.Errorf("workers=%d: frames[%d] = frame %d with %d edges", workers, i, fr.Frame, fr.Subdivisions)
			}
		}
	}
}

func TestExecuteLevels_MatchesSequential(t *testing.T) {
	t.Parallel()
	p := paraboloidProblem()
	parallel, err := ExecuteLevels(context.Background(), p, Schedule(12), Options{Workers: 4}, nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	for _, fr := range parallel {
		seq, err := ComputeLevel(context.Background(), p, Level{Frame: fr.Frame, Subdivisions: fr.Subdivisions}, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if seq.Result != fr.Result {
			t.Errorf("frame %d: parallel %+v != sequential %+v", fr.Frame, fr.Result, seq.Result)
		}
	}
}

func TestExecuteLevels_ReordersUnsortedSchedule(t *testing.T) {
	t.Parallel()
	levels := []Level{{Frame: 3, Subdivisions: 5}, {Frame: 1, Subdivisions: 3}, {Frame: 2, Subdivisions: 4}}
	frames, err := ExecuteLevels(context.Background(), paraboloidProblem(), levels, Options{}, nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	for i, fr := range frames {
		if fr.Frame != i+1 {
			t.Errorf("frames[%d].Frame = %d, want %d", i, fr.Frame, i+1)
		}
	}
}

func TestExecuteLevels_FailureIsAtomic(t *testing.T) {
	t.Parallel()
	// Frames 7 and up have a first midpoint below 0.2.
	frames, err := ExecuteLevels(context.Background(), panicsBelow(0.2), Schedule(9), Options{Workers: 2}, nil, io.Discard)
	if err == nil {
		t.Fatal("expected an error")
	}
	if frames != nil {
		t.Errorf("expected no frames on failure, got %d", len(frames))
	}
	if !errors.Is(err, riemann.ErrIntegrand) && !errors.Is(err, context.Canceled) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestExecuteLevels_Canceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	frames, err := ExecuteLevels(ctx, paraboloidProblem(), Schedule(5), Options{}, nil, io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if frames != nil {
		t.Errorf("expected no frames, got %d", len(frames))
	}
}

func TestExecuteLevels_ReportsProgress(t *testing.T) {
	t.Parallel()
	var (
		mu       sync.Mutex
		seen     = map[int]bool{}
		gotTotal int
	)
	reporter := ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan ProgressUpdate, numLevels int, out io.Writer) {
		defer wg.Done()
		mu.Lock()
		gotTotal = numLevels
		mu.Unlock()
		for u := range ch {
			mu.Lock()
			seen[u.Frame] = true
			mu.Unlock()
			io.WriteString(out, ".")
		}
	})

	var out bytes.Buffer
	_, err := ExecuteLevels(context.Background(), paraboloidProblem(), Schedule(6), Options{Workers: 3}, reporter, &out)
	if err != nil {
		t.Fatal(err)
	}
	if gotTotal != 6 {
		t.Errorf("reporter told %d levels, want 6", gotTotal)
	}
	if len(seen) != 6 {
		t.Errorf("reporter saw %d distinct frames, want 6", len(seen))
	}
	if out.String() != "......" {
		t.Errorf("reporter output %q, want six dots", out.String())
	}
}

func TestExecuteLevels_EmptySchedule(t *testing.T) {
	t.Parallel()
	frames, err := ExecuteLevels(context.Background(), paraboloidProblem(), nil, Options{}, NullProgressReporter{}, io.Discard)
	if err != nil || len(frames) != 0 {
		t.Errorf("got %d frames, err %v; want none, nil", len(frames), err)
	}
}
