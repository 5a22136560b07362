package metrics

import (
	"runtime"
	"time"
)

// MemorySnapshot is one reading of the Go runtime memory statistics, as
// shown by the dashboard and the heap_alloc_bytes gauge.
type MemorySnapshot struct {
	HeapAlloc    uint64 // live heap bytes, sample arrays included
	HeapSys      uint64 // heap bytes reserved from the OS
	Sys          uint64
	NumGC        uint32
	PauseTotalNs uint64
	HeapObjects  uint64
}

// GCPause returns the cumulative stop-the-world pause time.
func (s MemorySnapshot) GCPause() time.Duration {
	return time.Duration(s.PauseTotalNs)
}

// Since returns the collections and pause time that happened between
// earlier and s. Counters that went backwards read as zero.
func (s MemorySnapshot) Since(earlier MemorySnapshot) (cycles uint32, pause time.Duration) {
	if s.NumGC > earlier.NumGC {
		cycles = s.NumGC - earlier.NumGC
	}
	if s.PauseTotalNs > earlier.PauseTotalNs {
		pause = time.Duration(s.PauseTotalNs - earlier.PauseTotalNs)
	}
	return cycles, pause
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector returns a collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot stops the world briefly to read the statistics; callers sample
// it on a timer rather than per level.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}
