package renderer

import (
	"runtime"

	"github.com/achilleasa/prism/asset/compiler/bvh"
	"github.com/shirou/gopsutil/cpu"
)

const (
	DefaultFrameW          uint32 = 400
	DefaultFrameH          uint32 = 225
	DefaultSamplesPerPixel uint32 = 8
	DefaultMaxDepth        uint32 = 8

	// Upper bound for FrameW*FrameH.
	MaxFramePixels = 1 << 25
)

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of samples.
	SamplesPerPixel uint32

	// Max number of bounces per camera ray.
	MaxDepth uint32

	// Number of cpu tracers; 0 selects one tracer per logical core.
	NumTracers int

	// Seed for the per-block random number generators.
	Seed int64

	// Use a BVH instead of testing every primitive for each ray.
	UseBVH bool

	// BVH split strategy; defaults to bvh.MedianSplit.
	SplitStrategy bvh.SplitStrategy
}

// Fill in defaults for unset options.
func (opts *Options) setDefaults() {
	if opts.SamplesPerPixel == 0 {
		opts.SamplesPerPixel = DefaultSamplesPerPixel
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.NumTracers <= 0 {
		opts.NumTracers = DefaultTracerCount()
	}
	if uint32(opts.NumTracers) > opts.FrameH {
		opts.NumTracers = int(opts.FrameH)
	}
	if opts.SplitStrategy == nil {
		opts.SplitStrategy = bvh.MedianSplit
	}
}

// DefaultTracerCount returns the number of logical cores on this host.
func DefaultTracerCount() int {
	if count, err := cpu.Counts(true); err == nil && count > 0 {
		return count
	}
	return runtime.NumCPU()
}
