package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Namespace prefixes every exported metric.
const Namespace = "riemann"

// Levels records per-level statistics of a refinement run in its own
// registry, so that several runs in one process never collide.
type Levels struct {
	registry *prometheus.Registry

	levelsTotal    *prometheus.CounterVec
	levelDuration  prometheus.Histogram
	cellsEvaluated prometheus.Counter
	absError       *prometheus.GaugeVec
	activeLevels   prometheus.Gauge
	heapAlloc      prometheus.GaugeFunc
}

// NewLevels creates the collectors and registers them, together with the Go
// runtime collector, in a fresh registry.
func NewLevels() *Levels {
	mc := NewMemoryCollector()
	m := &Levels{
		registry: prometheus.NewRegistry(),
		levelsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "levels_total",
			Help:      "Refinement levels computed, by outcome.",
		}, []string{"status"}),
		levelDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "level_duration_seconds",
			Help:      "Wall time spent partitioning, sampling and summing one level.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		}),
		cellsEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cells_evaluated_total",
			Help:      "Integrand samples taken across all levels.",
		}),
		absError: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "level_abs_error",
			Help:      "Absolute error against the reference, by subdivisions per axis.",
		}, []string{"subdivisions"}),
		activeLevels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_levels",
			Help:      "Levels currently being computed.",
		}),
		heapAlloc: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "heap_alloc_bytes",
			Help:      "Heap bytes in use when the metrics were gathered.",
		}, func() float64 { return float64(mc.Snapshot().HeapAlloc) }),
	}
	m.registry.MustRegister(
		m.levelsTotal, m.levelDuration, m.cellsEvaluated, m.absError, m.activeLevels, m.heapAlloc,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Levels) Registry() *prometheus.Registry { return m.registry }

// LevelStarted marks one more level in flight.
func (m *Levels) LevelStarted() { m.activeLevels.Inc() }

// ObserveLevel records a successfully computed level.
func (m *Levels) ObserveLevel(subdivisions, cells int, absError float64, d time.Duration) {
	m.activeLevels.Dec()
	m.levelsTotal.WithLabelValues("ok").Inc()
	m.levelDuration.Observe(d.Seconds())
	m.cellsEvaluated.Add(float64(cells))
	m.absError.WithLabelValues(strconv.Itoa(subdivisions)).Set(absError)
}

// LevelFailed records a level that ended in error. reason is a short,
// low-cardinality label such as "integrand" or "canceled".
func (m *Levels) LevelFailed(reason string) {
	m.activeLevels.Dec()
	m.levelsTotal.WithLabelValues(reason).Inc()
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for the node exporter textfile collector.
func (m *Levels) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
