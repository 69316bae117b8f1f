package system

import (
	"os"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// RuntimeStats is a sample of the current process for the performance
// report printed after offline renders.
type RuntimeStats struct {
	RSSMiB         float64
	CPUPercent     float64
	MemUsedPercent float64
}

// SampleRuntimeStats reads process memory, process CPU time and host
// memory pressure.
func SampleRuntimeStats() (*RuntimeStats, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}

	stats := &RuntimeStats{}

	if mi, err := proc.MemoryInfo(); err == nil {
		stats.RSSMiB = float64(mi.RSS) / (1024 * 1024)
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemUsedPercent = vm.UsedPercent
	}

	return stats, nil
}
