package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/achilleasa/prism/asset/compiler/bvh"
	"github.com/achilleasa/prism/log"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/tracer"
	"github.com/achilleasa/prism/tracer/cpu"
	"github.com/achilleasa/prism/types"
)

// Clamp range for tone-mapped color components.
var colorIntensity = types.NewInterval(0.0, 0.999)

// A renderer that splits each frame into row blocks and traces them in
// parallel using a pool of cpu tracers.
type defaultRenderer struct {
	logger log.Logger

	sync.Mutex

	scene  *scene.Scene
	camera *scene.Camera
	world  tracer.Intersector

	options   Options
	scheduler tracer.BlockScheduler
	tracers   []tracer.Tracer

	// Linear radiance per pixel and the tone-mapped output frame.
	accumBuffer []types.Vec3
	frame       *image.RGBA

	blockAssignments []uint32
	host             HostInfo
	stats            FrameStats
}

// Create a new default renderer using the specified block scheduler.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera.LookFrom == sc.Camera.LookAt || sc.Camera.VFov <= 0 {
		return nil, ErrCameraNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameSize
	}
	numPixels := int(opts.FrameW) * int(opts.FrameH)
	if numPixels > MaxFramePixels {
		return nil, ErrFrameTooLarge
	}
	if scheduler == nil {
		scheduler = tracer.NaiveScheduler()
	}
	opts.setDefaults()

	r := &defaultRenderer{
		logger:      log.New("renderer"),
		scene:       sc,
		camera:      scene.NewCamera(sc.Camera, opts.FrameW, opts.FrameH),
		options:     opts,
		scheduler:   scheduler,
		accumBuffer: make([]types.Vec3, numPixels),
		frame:       image.NewRGBA(image.Rect(0, 0, int(opts.FrameW), int(opts.FrameH))),
		host:        DetectHost(),
	}

	if opts.UseBVH {
		tree := bvh.BuildWithStrategy(sc.Primitives, opts.SplitStrategy)
		r.logger.Infof("scene %q bvh statistics\n%s", sc.Name, tree.StatsTable())
		r.world = tree
	} else {
		r.logger.Infof("scene %q: testing %d primitives per ray", sc.Name, len(sc.Primitives))
		r.world = tracer.PrimitiveList(sc.Primitives)
	}

	err := r.attachTracers()
	if err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

// Create and setup one cpu tracer per requested worker.
func (r *defaultRenderer) attachTracers() error {
	for idx := 0; idx < r.options.NumTracers; idx++ {
		tr := cpu.NewTracer(fmt.Sprintf("cpu-%d", idx), 1.0)
		if err := tr.Setup(r.camera, r.world, r.accumBuffer); err != nil {
			r.logger.Warningf("skipping tracer %s due to setup error: %s", tr.Id(), err.Error())
			tr.Close()
			continue
		}
		r.tracers = append(r.tracers, tr)
	}

	if len(r.tracers) == 0 {
		return ErrNoTracers
	}
	r.logger.Debugf("attached %d tracers", len(r.tracers))
	return nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	r.Lock()
	defer r.Unlock()

	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	r.Lock()
	defer r.Unlock()

	return r.stats
}

// Render a frame. Blocks are traced concurrently and the frame is returned
// once every tracer completes. If ctx is cancelled, Render returns
// ErrInterrupted.
func (r *defaultRenderer) Render(ctx context.Context) (*image.RGBA, error) {
	r.Lock()
	defer r.Unlock()

	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	start := time.Now()
	r.blockAssignments = r.scheduler.Schedule(r.tracers, r.options.FrameH)

	err := r.traceBlocks(ctx)
	if err != nil {
		return nil, err
	}

	r.toneMap()
	r.updateStats(time.Since(start))

	r.logger.Infof(
		"rendered %dx%d frame in %d ms; rays: %d, tests/ray: %.2f",
		r.options.FrameW, r.options.FrameH, r.stats.RenderTime.Nanoseconds()/1e6,
		r.stats.Rays, r.stats.TestsPerRay(),
	)
	return r.frame, nil
}

// Dispatch one block per tracer and wait for all of them to complete. The
// first tracer error cancels the remaining blocks.
func (r *defaultRenderer) traceBlocks(ctx context.Context) error {
	blockCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))

	var wg sync.WaitGroup
	var blockY uint32 = 0
	for idx, tr := range r.tracers {
		blockReq := tracer.BlockRequest{
			BlockY:          blockY,
			BlockH:          r.blockAssignments[idx],
			SamplesPerPixel: r.options.SamplesPerPixel,
			MaxDepth:        r.options.MaxDepth,
			Seed:            r.options.Seed,
		}
		blockY += blockReq.BlockH
		if blockReq.BlockH == 0 {
			continue
		}

		wg.Add(1)
		go func(tr tracer.Tracer, blockReq tracer.BlockRequest) {
			defer wg.Done()
			if err := tr.Trace(blockCtx, blockReq); err != nil {
				errChan <- err
				cancel()
				return
			}
			doneChan <- blockReq.BlockH
		}(tr, blockReq)
	}

	wg.Wait()
	close(doneChan)
	close(errChan)

	var rows uint32 = 0
	for blockH := range doneChan {
		rows += blockH
	}

	var firstErr error
	for err := range errChan {
		if firstErr == nil || errors.Is(firstErr, context.Canceled) {
			firstErr = err
		}
	}

	if ctx.Err() != nil {
		return ErrInterrupted
	}
	if firstErr != nil {
		return firstErr
	}
	if rows != r.options.FrameH {
		return fmt.Errorf("renderer: traced %d rows; expected %d", rows, r.options.FrameH)
	}
	return nil
}

// Convert linear radiance to 8-bit sRGB-ish output using gamma 2.
func (r *defaultRenderer) toneMap() {
	for y := 0; y < int(r.options.FrameH); y++ {
		for x := 0; x < int(r.options.FrameW); x++ {
			c := r.accumBuffer[y*int(r.options.FrameW)+x]
			r.frame.SetRGBA(x, y, color.RGBA{
				R: toneMapComponent(c[0]),
				G: toneMapComponent(c[1]),
				B: toneMapComponent(c[2]),
				A: 255,
			})
		}
	}
}

func toneMapComponent(v float64) uint8 {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	return uint8(256 * colorIntensity.Clamp(math.Sqrt(v)))
}

// Collect tracer statistics for the last frame.
func (r *defaultRenderer) updateStats(renderTime time.Duration) {
	r.stats = FrameStats{
		Tracers:    make([]TracerStat, len(r.tracers)),
		RenderTime: renderTime,
		Host:       r.host,
	}

	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		stat := TracerStat{
			Id:           tr.Id(),
			BlockH:       blockH,
			FramePercent: 100.0 * float32(blockH) / float32(r.options.FrameH),
		}

		// Tracers without rows keep the stats of an older frame
		if blockH != 0 {
			trStats := tr.Stats()
			stat.RenderTime = trStats.RenderTime
			stat.Rays = trStats.Rays
			stat.TestsPerRay = trStats.TestsPerRay()

			r.stats.Rays += trStats.Rays
			r.stats.Tests.Merge(trStats.Tests)
		}
		r.stats.Tracers[idx] = stat
	}
}
