// Package sysinfo captures the descriptive machine snapshot stored with
// every result set. The snapshot is provenance metadata only; nothing in
// the comparison path reads it.
package sysinfo

import (
	"log/slog"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"dfbench/internal/benchmark"
)

// Probe points at the gopsutil readers so tests can substitute
// deterministic values.
var (
	hostInfo      = host.Info
	cpuCounts     = cpu.Counts
	virtualMemory = mem.VirtualMemory
)

// Collect gathers OS name, logical CPU count and total memory. Readings
// that fail degrade to runtime fallbacks rather than failing the run;
// the snapshot is best-effort by design.
func Collect() benchmark.SystemInfo {
	info := benchmark.SystemInfo{OS: runtime.GOOS, CPUCount: runtime.NumCPU()}

	if h, err := hostInfo(); err == nil {
		info.OS = h.OS
	} else {
		slog.Warn("host info unavailable", "error", err)
	}
	if n, err := cpuCounts(true); err == nil {
		info.CPUCount = n
	}
	if vm, err := virtualMemory(); err == nil {
		info.TotalMemoryGB = vm.Total / 1024 / 1024 / 1024
	} else {
		slog.Warn("memory info unavailable", "error", err)
	}
	return info
}
