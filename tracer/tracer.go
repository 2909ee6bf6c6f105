package tracer

import (
	"context"
	"time"

	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/types"
)

// The Intersector interface is implemented by acceleration structures that
// can find the nearest hit along a ray.
type Intersector interface {
	IntersectCounted(r types.Ray, rayT types.Interval, counter *scene.HitCounter) (scene.HitRecord, bool)
}

// PrimitiveList is an Intersector that tests every primitive for each ray.
type PrimitiveList []scene.Primitive

// IntersectCounted returns the nearest hit along r by scanning the list.
func (l PrimitiveList) IntersectCounted(r types.Ray, rayT types.Interval, counter *scene.HitCounter) (scene.HitRecord, bool) {
	return scene.IntersectList(l, r, rayT, counter)
}

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The number of emitted rays per traced pixel.
	SamplesPerPixel uint32

	// The max number of bounces per camera ray.
	MaxDepth uint32

	// Frame seed; the tracer derives a sampling sequence per row from it.
	Seed int64
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block
	RenderTime time.Duration

	// Number of traced rays (camera rays plus bounces).
	Rays uint64

	// Box and primitive tests performed while tracing the block.
	Tests scene.HitCounter
}

// TestsPerRay returns the average number of primitive tests per traced ray.
func (s *Stats) TestsPerRay() float64 {
	if s.Rays == 0 {
		return 0
	}
	return float64(s.Tests.PrimitiveTests) / float64(s.Rays)
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Shutdown and cleanup tracer.
	Close()

	// Get the tracers computation speed estimate compared to a
	// baseline (cpu) implementation.
	SpeedEstimate() float32

	// Setup the tracer. Traced pixel colors are written to accumBuffer which
	// holds camera.FrameW * camera.FrameH entries in row-major order.
	Setup(camera *scene.Camera, world Intersector, accumBuffer []types.Vec3) error

	// Trace a block of rows. Trace blocks until the block is complete or ctx
	// is cancelled.
	Trace(ctx context.Context, blockReq BlockRequest) error

	// Retrieve last block statistics.
	Stats() *Stats
}
