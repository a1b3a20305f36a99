// Package sysmon samples system-wide CPU and memory usage for the dashboard
// and identifies the CPU for calibration profiles.
package sysmon

import (
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats is one snapshot of system-wide resource usage, in percent.
type Stats struct {
	CPUPercent float64
	MemPercent float64
}

// Sample returns the CPU usage since the previous call and the current
// memory usage. Failed reads leave their field at zero.
func Sample() Stats {
	var s Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

var (
	cpuModelOnce sync.Once
	cpuModel     string
)

// CPUModel returns the model name of the first CPU, or "" when the platform
// does not report one. The lookup runs once per process.
func CPUModel() string {
	cpuModelOnce.Do(func() {
		infos, err := cpu.Info()
		if err != nil || len(infos) == 0 {
			return
		}
		cpuModel = strings.TrimSpace(infos[0].ModelName)
	})
	return cpuModel
}
