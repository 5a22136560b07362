package cli

import (
	"context"
	"io"
	"testing"

	"github.com/agbru/riemann2d/internal/integrands"
	"github.com/agbru/riemann2d/internal/refinement"
)

func paraboloidProblem() refinement.Problem {
	p := integrands.Paraboloid()
	return refinement.Problem{
		Name:      p.Name,
		Expr:      p.Expr,
		Domain:    p.Domain,
		Integrand: p.F,
		Reference: p.Value(),
	}
}

func paraboloidFrames(t *testing.T, frames int) []refinement.Frame {
	t.Helper()
	out, err := refinement.ExecuteLevels(context.Background(), paraboloidProblem(),
		refinement.Schedule(frames), refinement.Options{}, nil, io.Discard)
	if err != nil {
		t.Fatalf("ExecuteLevels() error = %v", err)
	}
	return out
}
