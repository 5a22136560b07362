package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFieldHelpers(t *testing.T) {
	errPole := errors.New("pole")
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("integrand", "paraboloid"), "integrand", "paraboloid"},
		{"Int", Int("frame", 3), "frame", 3},
		{"Uint64", Uint64("heap", 1<<40), "heap", uint64(1 << 40)},
		{"Float64", Float64("abs_error", 0.25), "abs_error", 0.25},
		{"Duration", Duration("elapsed", time.Millisecond), "elapsed", time.Millisecond},
		{"Err", Err(errPole), "error", errPole},
		{"Err nil", Err(nil), "error", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("got %s=%v, want %s=%v", tt.field.Key, tt.field.Value, tt.key, tt.value)
			}
		})
	}
}

// decode parses the single JSON entry in buf.
func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("entry %q is not JSON: %v", buf.String(), err)
	}
	return entry
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "refinement", false).Info("level computed",
		Int("frame", 2),
		Int("cells", 9),
		Float64("abs_error", 1.5),
		String("integrand", "saddle"),
		Field{Key: "monotonic", Value: true},
		Field{Key: "cells_total", Value: int64(14)},
		Field{Key: "grid", Value: []int{3, 3}},
	)

	entry := decode(t, &buf)
	want := map[string]any{
		"level":       "info",
		"component":   "refinement",
		"message":     "level computed",
		"frame":       float64(2),
		"cells":       float64(9),
		"abs_error":   1.5,
		"integrand":   "saddle",
		"monotonic":   true,
		"cells_total": float64(14),
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}
	if grid, ok := entry["grid"].([]any); !ok || len(grid) != 2 {
		t.Errorf("grid = %v, want a two-element array", entry["grid"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("entries should carry a timestamp")
	}
}

func TestZerologAdapter_Error(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "app", false).Error("level failed", errors.New("integrand panicked"),
		Int("frame", 4), Field{Key: "cause", Value: errors.New("pole")})

	entry := decode(t, &buf)
	if entry["level"] != "error" || entry["error"] != "integrand panicked" || entry["cause"] != "pole" {
		t.Errorf("entry = %v", entry)
	}

	buf.Reset()
	NewLogger(&buf, "app", false).Error("no cause", nil)
	if entry := decode(t, &buf); entry["message"] != "no cause" {
		t.Errorf("a nil error should still log, got %v", entry)
	}
}

func TestZerologAdapter_DebugLevel(t *testing.T) {
	var quiet, verbose bytes.Buffer
	NewLogger(&quiet, "app", false).Debug("problem ready")
	NewLogger(&verbose, "app", true).Debug("problem ready", Duration("elapsed", 1500*time.Microsecond))

	if quiet.Len() != 0 {
		t.Errorf("debug entries must be dropped unless verbose, got %q", quiet.String())
	}
	entry := decode(t, &verbose)
	if entry["level"] != "debug" {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["elapsed"].(float64); !ok {
		t.Errorf("durations should be numeric, got %T", entry["elapsed"])
	}
}

func TestNewConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLogger(&buf, "riemann", false, true).Info("reference computed", Float64("reference", 64.939))
	out := buf.String()
	for _, want := range []string{"INF", "reference computed", "reference=64.939"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output %q does not contain %q", out, want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("noColor must suppress escape sequences")
	}
}

func TestNewAutoLogger(t *testing.T) {
	var buf bytes.Buffer
	NewAutoLogger(&buf, "riemann", false, true).Info("to a buffer")
	if entry := decode(t, &buf); entry["message"] != "to a buffer" {
		t.Errorf("a non-terminal writer should get JSON, got %v", entry)
	}

	// A regular file is not a terminal either.
	f, err := os.Create(filepath.Join(t.TempDir(), "log.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	NewAutoLogger(f, "riemann", false, true).Info("to a file")
	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(bytes.TrimSpace(data)) {
		t.Errorf("file output %q is not JSON", data)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("ignored")
	l.Error("ignored", errors.New("boom"))
	l.Debug("ignored")
}

func TestNewZerologAdapter(t *testing.T) {
	var buf bytes.Buffer
	var l Logger = NewZerologAdapter(zerolog.New(&buf))
	l.Info("wrapped")
	if !strings.Contains(buf.String(), "wrapped") {
		t.Errorf("output = %q", buf.String())
	}
}
