package app

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/riemann2d/internal/logging"
)

// startTracing opens the span file named by --trace-file and returns a
// provider that writes every level span to it as JSON. With no trace file
// it returns a nil provider, which leaves refinement on the global no-op
// tracer. The returned func flushes the spans and closes the file.
func (a *Application) startTracing() (trace.TracerProvider, func(), error) {
	path := a.Config.TraceFile
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, func() {}, fmt.Errorf("creating trace file: %w", err)
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		_ = f.Close()
		return nil, func() {}, fmt.Errorf("creating trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	stop := func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			a.Logger.Error("flushing spans failed", err, logging.String("path", path))
		}
		if err := f.Close(); err != nil {
			a.Logger.Error("closing the trace file failed", err, logging.String("path", path))
		}
	}
	return tp, stop, nil
}
