// Package sysmon samples system-wide CPU and memory load for the dashboard.
package sysmon

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds one snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	// Available is false when neither value could be read.
	Available bool
}

// Sample collects a system-wide CPU and memory snapshot. CPU usage is the
// delta since the previous call, so the first sample of a process reads 0.
// Values that cannot be read are left at zero.
func Sample(ctx context.Context) Stats {
	var s Stats
	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = clampPercent(pcts[0])
		s.Available = true
	}
	if vmem, err := mem.VirtualMemoryWithContext(ctx); err == nil && vmem != nil {
		s.MemPercent = clampPercent(vmem.UsedPercent)
		s.Available = true
	}
	return s
}

// String formats the snapshot for a status line.
func (s Stats) String() string {
	if !s.Available {
		return "n/a"
	}
	return fmt.Sprintf("CPU %.0f%% RAM %.0f%%", s.CPUPercent, s.MemPercent)
}

func clampPercent(v float64) float64 {
	return min(max(v, 0), 100)
}
