package cpu

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/achilleasa/prism/log"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/tracer"
	"github.com/achilleasa/prism/types"
)

// Secondary rays start slightly off the surface to avoid self intersections.
const minRayT = 0.001

var (
	skyHorizon = types.XYZ(1.0, 1.0, 1.0)
	skyZenith  = types.XYZ(0.5, 0.7, 1.0)
)

type cpuTracer struct {
	logger log.Logger

	sync.Mutex

	// The tracer id.
	id string

	// Relative speed compared to other cpu tracers.
	speed float32

	camera      *scene.Camera
	world       tracer.Intersector
	accumBuffer []types.Vec3

	// Statistics for last rendered block.
	stats *tracer.Stats
}

// Create a new cpu tracer. Each tracer renders the blocks it is assigned
// sequentially; the renderer attaches one tracer per available core.
func NewTracer(id string, speed float32) tracer.Tracer {
	if speed <= 0 {
		speed = 1.0
	}

	return &cpuTracer{
		logger: log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:     id,
		speed:  speed,
		stats:  &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return tr.speed
}

// Attach the camera, scene and output buffer.
func (tr *cpuTracer) Setup(camera *scene.Camera, world tracer.Intersector, accumBuffer []types.Vec3) error {
	tr.Lock()
	defer tr.Unlock()

	if camera == nil {
		return ErrNoCamera
	}
	if world == nil {
		return ErrNoSceneData
	}
	if exp := int(camera.FrameW) * int(camera.FrameH); len(accumBuffer) != exp {
		return fmt.Errorf("cpu tracer: expected accumulation buffer with %d entries; got %d", exp, len(accumBuffer))
	}

	tr.camera = camera
	tr.world = world
	tr.accumBuffer = accumBuffer
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	tr.camera = nil
	tr.world = nil
	tr.accumBuffer = nil
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Trace each pixel in the requested block. The context is checked between
// rows.
func (tr *cpuTracer) Trace(ctx context.Context, blockReq tracer.BlockRequest) error {
	tr.Lock()
	defer tr.Unlock()

	if tr.world == nil || tr.camera == nil {
		return ErrNoSceneData
	}
	if blockReq.BlockY+blockReq.BlockH > tr.camera.FrameH {
		return fmt.Errorf("cpu tracer: block [%d, %d) exceeds frame height %d", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, tr.camera.FrameH)
	}

	spp := blockReq.SamplesPerPixel
	if spp == 0 {
		spp = 1
	}
	sampleScale := 1.0 / float64(spp)

	start := time.Now()
	rng := rand.New(rand.NewSource(blockReq.Seed))
	stats := tracer.Stats{BlockH: blockReq.BlockH}

	frameW := tr.camera.FrameW
	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Each row has its own sample sequence
		rng.Seed(rowSeed(blockReq.Seed, y))
		rowOffset := int(y) * int(frameW)
		for x := uint32(0); x < frameW; x++ {
			var color types.Vec3
			for sample := uint32(0); sample < spp; sample++ {
				color = color.Add(tr.rayColor(tr.camera.Ray(x, y, rng), blockReq.MaxDepth, rng, &stats))
			}
			tr.accumBuffer[rowOffset+int(x)] = color.Mul(sampleScale)
		}
	}

	stats.RenderTime = time.Since(start)
	*tr.stats = stats
	tr.logger.Debugf(
		"traced rows [%d, %d) in %d ms; rays: %d, tests/ray: %.2f",
		blockReq.BlockY, blockReq.BlockY+blockReq.BlockH,
		stats.RenderTime.Nanoseconds()/1e6, stats.Rays, stats.TestsPerRay(),
	)

	return nil
}

// Derive the sampling seed for frame row y.
func rowSeed(seed int64, y uint32) int64 {
	return seed*1000003 + int64(y)
}

// Follow a camera ray through at most maxDepth surface interactions and
// return the gathered radiance. Rays that escape the scene pick up the sky
// gradient.
func (tr *cpuTracer) rayColor(r types.Ray, maxDepth uint32, rng *rand.Rand, stats *tracer.Stats) types.Vec3 {
	throughput := types.XYZ(1, 1, 1)
	for depth := uint32(0); depth < maxDepth; depth++ {
		stats.Rays++
		rec, hit := tr.world.IntersectCounted(r, types.NewInterval(minRayT, math.Inf(1)), &stats.Tests)
		if !hit {
			return throughput.MulVec(skyColor(r))
		}

		attenuation, scattered, ok := scatter(r, &rec, rng)
		if !ok {
			return types.Vec3{}
		}
		throughput = throughput.MulVec(attenuation)
		r = scattered
	}

	// Exceeded the bounce limit; no more light is gathered
	return types.Vec3{}
}

// Blend white and light blue depending on the height of the ray direction.
func skyColor(r types.Ray) types.Vec3 {
	unitDir := r.Direction.Normalize()
	a := 0.5 * (unitDir[1] + 1.0)
	return skyHorizon.Mul(1.0 - a).Add(skyZenith.Mul(a))
}
