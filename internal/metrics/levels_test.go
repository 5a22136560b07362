package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLevels_ObserveLevel(t *testing.T) {
	t.Parallel()
	m := NewLevels()

	m.LevelStarted()
	m.LevelStarted()
	if got := testutil.ToFloat64(m.activeLevels); got != 2 {
		t.Errorf("active_levels = %v, want 2", got)
	}

	m.ObserveLevel(3, 4, 4.0587, 2*time.Millisecond)
	m.LevelFailed("integrand")

	if got := testutil.ToFloat64(m.activeLevels); got != 0 {
		t.Errorf("active_levels = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.levelsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("levels_total{status=ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.levelsTotal.WithLabelValues("integrand")); got != 1 {
		t.Errorf("levels_total{status=integrand} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.cellsEvaluated); got != 4 {
		t.Errorf("cells_evaluated_total = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.absError.WithLabelValues("3")); got != 4.0587 {
		t.Errorf("level_abs_error{subdivisions=3} = %v, want 4.0587", got)
	}
}

func TestLevels_IndependentRegistries(t *testing.T) {
	t.Parallel()
	a, b := NewLevels(), NewLevels()
	a.LevelStarted()
	a.ObserveLevel(2, 1, 1, time.Millisecond)

	if got := testutil.ToFloat64(b.cellsEvaluated); got != 0 {
		t.Errorf("second registry saw %v cells, want 0", got)
	}
}

func TestLevels_WriteTextfile(t *testing.T) {
	t.Parallel()
	m := NewLevels()
	m.LevelStarted()
	m.ObserveLevel(10, 81, 0.2, 5*time.Millisecond)

	path := filepath.Join(t.TempDir(), "riemann.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	for _, want := range []string{
		"riemann_levels_total",
		"riemann_level_duration_seconds_bucket",
		`riemann_level_abs_error{subdivisions="10"} 0.2`,
		"riemann_heap_alloc_bytes",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("textfile missing %q", want)
		}
	}
}
