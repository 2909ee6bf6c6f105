package renderer

import (
	"fmt"
	"time"

	"github.com/achilleasa/prism/scene"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

type TracerStat struct {
	// The tracer id.
	Id string

	// The block height and the percentage of total frame area it represents.
	BlockH       uint32
	FramePercent float32

	// Render time for assigned block
	RenderTime time.Duration

	// Traced rays and average primitive tests per ray.
	Rays        uint64
	TestsPerRay float64
}

type FrameStats struct {
	// Individual tracer stats.
	Tracers []TracerStat

	// Total render time for entire frame.
	RenderTime time.Duration

	// Totals across all tracers.
	Rays  uint64
	Tests scene.HitCounter

	// Description of the host that rendered the frame.
	Host HostInfo
}

// TestsPerRay returns the average number of primitive tests per ray.
func (s FrameStats) TestsPerRay() float64 {
	if s.Rays == 0 {
		return 0
	}
	return float64(s.Tests.PrimitiveTests) / float64(s.Rays)
}

// RaysPerSecond returns the frame throughput.
func (s FrameStats) RaysPerSecond() float64 {
	if s.RenderTime <= 0 {
		return 0
	}
	return float64(s.Rays) / s.RenderTime.Seconds()
}

// HostInfo describes the cpu and memory of the rendering host.
type HostInfo struct {
	CPUModel     string
	LogicalCores int
	ClockGHz     float64
	TotalRAMGB   uint64
}

func (h HostInfo) String() string {
	return fmt.Sprintf("%s (%d cores @ %.2f GHz, %d GB RAM)", h.CPUModel, h.LogicalCores, h.ClockGHz, h.TotalRAMGB)
}

// DetectHost queries cpu and memory information. Fields that cannot be
// detected are left at their zero value.
func DetectHost() HostInfo {
	info := HostInfo{
		CPUModel:     "unknown",
		LogicalCores: DefaultTracerCount(),
	}

	if cpuInfo, err := cpu.Info(); err == nil && len(cpuInfo) != 0 {
		info.CPUModel = cpuInfo[0].ModelName
		info.ClockGHz = cpuInfo[0].Mhz / 1000
	}

	if memInfo, err := mem.VirtualMemory(); err == nil {
		info.TotalRAMGB = memInfo.Total / (1024 * 1024 * 1024)
	}

	return info
}
