package renderer

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/achilleasa/prism/asset/compiler/bvh"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/tracer"
	"go.viam.com/test"
)

func TestRenderFrame(t *testing.T) {
	opts := Options{
		FrameW:          16,
		FrameH:          9,
		SamplesPerPixel: 2,
		MaxDepth:        4,
		NumTracers:      3,
		Seed:            1,
		UseBVH:          true,
	}

	r, err := NewDefault(scene.ThreeSpheres(), tracer.NaiveScheduler(), opts)
	test.That(t, err, test.ShouldBeNil)
	defer r.Close()

	frame, err := r.Render(context.Background())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, frame.Bounds().Dx(), test.ShouldEqual, 16)
	test.That(t, frame.Bounds().Dy(), test.ShouldEqual, 9)

	lit := 0
	for i := 0; i < len(frame.Pix); i += 4 {
		test.That(t, frame.Pix[i+3], test.ShouldEqual, uint8(255))
		if frame.Pix[i] != 0 || frame.Pix[i+1] != 0 || frame.Pix[i+2] != 0 {
			lit++
		}
	}
	test.That(t, lit, test.ShouldBeGreaterThan, 0)

	stats := r.Stats()
	test.That(t, len(stats.Tracers), test.ShouldEqual, 3)
	var rows uint32
	var percent float64
	for _, stat := range stats.Tracers {
		rows += stat.BlockH
		percent += float64(stat.FramePercent)
	}
	test.That(t, rows, test.ShouldEqual, uint32(9))
	test.That(t, percent, test.ShouldAlmostEqual, 100.0, 1e-3)
	test.That(t, stats.Rays, test.ShouldBeGreaterThanOrEqualTo, uint64(16*9*2))
	test.That(t, stats.Tests.BoxTests, test.ShouldBeGreaterThan, uint64(0))
	test.That(t, stats.RaysPerSecond(), test.ShouldBeGreaterThan, 0.0)

	var primTests uint64
	for _, tr := range r.(*defaultRenderer).tracers {
		primTests += tr.Stats().Tests.PrimitiveTests
	}
	test.That(t, stats.Tests.PrimitiveTests, test.ShouldEqual, primTests)
	test.That(t, stats.TestsPerRay(), test.ShouldBeGreaterThan, 0.0)
}

func TestBVHAndLinearScanRenderTheSameFrame(t *testing.T) {
	render := func(useBVH bool, strategy bvh.SplitStrategy) []uint8 {
		opts := Options{
			FrameW:          12,
			FrameH:          8,
			SamplesPerPixel: 2,
			MaxDepth:        5,
			NumTracers:      2,
			Seed:            99,
			UseBVH:          useBVH,
			SplitStrategy:   strategy,
		}
		r, err := NewDefault(scene.RandomSpheres(3), tracer.NaiveScheduler(), opts)
		test.That(t, err, test.ShouldBeNil)
		defer r.Close()

		frame, err := r.Render(context.Background())
		test.That(t, err, test.ShouldBeNil)
		return append([]uint8(nil), frame.Pix...)
	}

	linear := render(false, nil)
	test.That(t, render(true, bvh.MedianSplit), test.ShouldResemble, linear)
	test.That(t, render(true, bvh.SurfaceAreaHeuristic), test.ShouldResemble, linear)
}

func TestPerfectSchedulerAcrossFrames(t *testing.T) {
	opts := Options{FrameW: 8, FrameH: 12, SamplesPerPixel: 1, MaxDepth: 2, NumTracers: 2}
	r, err := NewDefault(scene.Quads(), tracer.PerfectScheduler(), opts)
	test.That(t, err, test.ShouldBeNil)
	defer r.Close()

	for frame := 0; frame < 3; frame++ {
		_, err = r.Render(context.Background())
		test.That(t, err, test.ShouldBeNil)

		var rows uint32
		for _, stat := range r.Stats().Tracers {
			rows += stat.BlockH
		}
		test.That(t, rows, test.ShouldEqual, uint32(12))
	}
}

func TestRenderInterrupted(t *testing.T) {
	r, err := NewDefault(scene.ThreeSpheres(), nil, Options{FrameW: 8, FrameH: 8, NumTracers: 2})
	test.That(t, err, test.ShouldBeNil)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Render(ctx)
	test.That(t, err, test.ShouldEqual, ErrInterrupted)
}

func TestRendererErrors(t *testing.T) {
	type spec struct {
		sc     *scene.Scene
		opts   Options
		expErr error
	}
	specs := []spec{
		{nil, Options{FrameW: 1, FrameH: 1}, ErrSceneNotDefined},
		{scene.NewScene("no camera", scene.CameraOptions{}), Options{FrameW: 1, FrameH: 1}, ErrCameraNotDefined},
		{scene.Quads(), Options{FrameW: 0, FrameH: 1}, ErrInvalidFrameSize},
		{scene.Quads(), Options{FrameW: 1, FrameH: 0}, ErrInvalidFrameSize},
		{scene.Quads(), Options{FrameW: 4294967295, FrameH: 225}, ErrFrameTooLarge},
		{scene.Quads(), Options{FrameW: 65536, FrameH: 65536}, ErrFrameTooLarge},
	}

	for index, s := range specs {
		_, err := NewDefault(s.sc, nil, s.opts)
		if err != s.expErr {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}

	r := &defaultRenderer{}
	if _, err := r.Render(context.Background()); err != ErrNoTracers {
		t.Fatalf("expected ErrNoTracers; got %v", err)
	}
}

func TestTracerCountIsClampedToFrameHeight(t *testing.T) {
	r, err := NewDefault(scene.Quads(), nil, Options{FrameW: 4, FrameH: 2, NumTracers: 8})
	test.That(t, err, test.ShouldBeNil)
	defer r.Close()

	test.That(t, len(r.(*defaultRenderer).tracers), test.ShouldEqual, 2)
}

func TestToneMapComponent(t *testing.T) {
	type spec struct {
		in  float64
		exp uint8
	}
	specs := []spec{
		{-1, 0},
		{0, 0},
		{0.25, 128},
		{1, 255},
		{100, 255},
	}

	for index, s := range specs {
		if got := toneMapComponent(s.in); got != s.exp {
			t.Fatalf("[spec %d] expected %f to map to %d; got %d", index, s.in, s.exp, got)
		}
	}
}

func TestWritePNG(t *testing.T) {
	r, err := NewDefault(scene.Quads(), nil, Options{FrameW: 6, FrameH: 4, SamplesPerPixel: 1, NumTracers: 1})
	test.That(t, err, test.ShouldBeNil)
	defer r.Close()

	frame, err := r.Render(context.Background())
	test.That(t, err, test.ShouldBeNil)

	imgFile := filepath.Join(t.TempDir(), "frame.png")
	test.That(t, WritePNG(frame, imgFile), test.ShouldBeNil)

	f, err := os.Open(imgFile)
	test.That(t, err, test.ShouldBeNil)
	defer f.Close()

	decoded, err := png.Decode(f)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, decoded.Bounds(), test.ShouldResemble, frame.Bounds())

	test.That(t, WritePNG(frame, filepath.Join(t.TempDir(), "missing", "frame.png")), test.ShouldNotBeNil)
}

func TestFrameIsIndependentOfTracerCount(t *testing.T) {
	render := func(numTracers int) []uint8 {
		opts := Options{FrameW: 10, FrameH: 7, SamplesPerPixel: 2, MaxDepth: 4, NumTracers: numTracers, Seed: 5, UseBVH: true}
		r, err := NewDefault(scene.ThreeSpheres(), tracer.NaiveScheduler(), opts)
		test.That(t, err, test.ShouldBeNil)
		defer r.Close()

		frame, err := r.Render(context.Background())
		test.That(t, err, test.ShouldBeNil)
		return append([]uint8(nil), frame.Pix...)
	}

	single := render(1)
	test.That(t, render(3), test.ShouldResemble, single)
	test.That(t, render(7), test.ShouldResemble, single)
}

func TestFrameStatsRates(t *testing.T) {
	stats := FrameStats{RenderTime: 2 * time.Second, Rays: 100, Tests: scene.HitCounter{PrimitiveTests: 250}}
	test.That(t, stats.RaysPerSecond(), test.ShouldAlmostEqual, 50.0)
	test.That(t, stats.TestsPerRay(), test.ShouldAlmostEqual, 2.5)

	var empty FrameStats
	test.That(t, empty.RaysPerSecond(), test.ShouldEqual, 0.0)
	test.That(t, empty.TestsPerRay(), test.ShouldEqual, 0.0)
}
