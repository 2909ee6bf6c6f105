package cpu

import (
	"context"
	"math"
	"testing"

	"github.com/achilleasa/prism/asset/compiler/bvh"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/tracer"
	"github.com/achilleasa/prism/types"
)

func setupTracer(t *testing.T, sc *scene.Scene, world tracer.Intersector, frameW, frameH uint32) (tracer.Tracer, []types.Vec3) {
	camera := scene.NewCamera(sc.Camera, frameW, frameH)
	accumBuffer := make([]types.Vec3, frameW*frameH)

	tr := NewTracer("test", 1)
	if err := tr.Setup(camera, world, accumBuffer); err != nil {
		t.Fatal(err)
	}
	return tr, accumBuffer
}

func TestSkyOnlyScene(t *testing.T) {
	sc := scene.NewScene("empty", scene.CameraOptions{
		LookFrom: types.XYZ(0, 0, 0),
		LookAt:   types.XYZ(0, 0, -1),
		VUp:      types.XYZ(0, 1, 0),
		VFov:     90,
	})
	tr, accumBuffer := setupTracer(t, sc, tracer.PrimitiveList(nil), 8, 8)
	defer tr.Close()

	err := tr.Trace(context.Background(), tracer.BlockRequest{BlockY: 0, BlockH: 8, SamplesPerPixel: 2, MaxDepth: 4, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}

	for index, color := range accumBuffer {
		for axis := 0; axis < 3; axis++ {
			if color[axis] < skyZenith[axis]-1e-9 || color[axis] > skyHorizon[axis]+1e-9 {
				t.Fatalf("[pixel %d] expected sky gradient color; got %v", index, color)
			}
		}
	}

	// Rows closer to the top look further up so they are bluer
	if accumBuffer[0][0] >= accumBuffer[len(accumBuffer)-1][0] {
		t.Fatalf("expected top row to be bluer than the bottom row; got %v and %v", accumBuffer[0], accumBuffer[len(accumBuffer)-1])
	}

	stats := tr.Stats()
	if stats.BlockH != 8 {
		t.Fatalf("expected block height 8; got %d", stats.BlockH)
	}
	if stats.Rays != 8*8*2 {
		t.Fatalf("expected %d rays; got %d", 8*8*2, stats.Rays)
	}
}

func TestTraceOnlyWritesAssignedRows(t *testing.T) {
	sc := scene.ThreeSpheres()
	tr, accumBuffer := setupTracer(t, sc, tracer.PrimitiveList(sc.Primitives), 4, 6)
	defer tr.Close()

	err := tr.Trace(context.Background(), tracer.BlockRequest{BlockY: 2, BlockH: 2, SamplesPerPixel: 1, MaxDepth: 3, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}

	for y := uint32(0); y < 6; y++ {
		for x := uint32(0); x < 4; x++ {
			color := accumBuffer[y*4+x]
			inBlock := y >= 2 && y < 4
			if !inBlock && color != (types.Vec3{}) {
				t.Fatalf("expected pixel (%d, %d) outside the block to be untouched; got %v", x, y, color)
			}
		}
	}
}

func TestTraceIsDeterministic(t *testing.T) {
	sc := scene.ThreeSpheres()
	blockReq := tracer.BlockRequest{BlockY: 0, BlockH: 6, SamplesPerPixel: 4, MaxDepth: 5, Seed: 42}

	tr1, buf1 := setupTracer(t, sc, tracer.PrimitiveList(sc.Primitives), 8, 6)
	defer tr1.Close()
	tr2, buf2 := setupTracer(t, sc, bvh.Build(sc.Primitives), 8, 6)
	defer tr2.Close()

	if err := tr1.Trace(context.Background(), blockReq); err != nil {
		t.Fatal(err)
	}
	if err := tr2.Trace(context.Background(), blockReq); err != nil {
		t.Fatal(err)
	}

	for index := range buf1 {
		if buf1[index].Sub(buf2[index]).Len() > 1e-9 {
			t.Fatalf("[pixel %d] expected linear scan and bvh to produce the same color; got %v and %v", index, buf1[index], buf2[index])
		}
	}

	if tr1.Stats().Rays != tr2.Stats().Rays {
		t.Fatalf("expected same ray count; got %d and %d", tr1.Stats().Rays, tr2.Stats().Rays)
	}
	if tr2.Stats().Tests.BoxTests == 0 {
		t.Fatal("expected bvh traversal to record box tests")
	}
	if tr1.Stats().Tests.BoxTests != 0 {
		t.Fatalf("expected linear scan not to record box tests; got %d", tr1.Stats().Tests.BoxTests)
	}
}

func TestTraceIsIndependentOfBlockLayout(t *testing.T) {
	sc := scene.RandomSpheres(5)
	world := bvh.Build(sc.Primitives)

	tr1, whole := setupTracer(t, sc, world, 6, 4)
	defer tr1.Close()
	tr2, split := setupTracer(t, sc, world, 6, 4)
	defer tr2.Close()

	if err := tr1.Trace(context.Background(), tracer.BlockRequest{BlockY: 0, BlockH: 4, SamplesPerPixel: 2, MaxDepth: 4, Seed: 3}); err != nil {
		t.Fatal(err)
	}
	for _, blockY := range []uint32{0, 1, 3} {
		blockH := uint32(1)
		if blockY == 1 {
			blockH = 2
		}
		if err := tr2.Trace(context.Background(), tracer.BlockRequest{BlockY: blockY, BlockH: blockH, SamplesPerPixel: 2, MaxDepth: 4, Seed: 3}); err != nil {
			t.Fatal(err)
		}
	}

	for index := range whole {
		if whole[index] != split[index] {
			t.Fatalf("[pixel %d] expected the same color for one and three blocks; got %v and %v", index, whole[index], split[index])
		}
	}
}

func TestDepthLimit(t *testing.T) {
	// A camera inside a mirror sphere never escapes
	mirror := scene.NewMetal(types.XYZ(1, 1, 1), 0)
	sc := scene.NewScene("mirror", scene.CameraOptions{
		LookFrom: types.XYZ(0, 0, 0),
		LookAt:   types.XYZ(0, 0, -1),
		VUp:      types.XYZ(0, 1, 0),
		VFov:     60,
	})
	if err := sc.Add(scene.FromSphere(scene.NewSphere(types.XYZ(0, 0, 0), 10, mirror))); err != nil {
		t.Fatal(err)
	}

	tr, accumBuffer := setupTracer(t, sc, tracer.PrimitiveList(sc.Primitives), 2, 2)
	defer tr.Close()

	if err := tr.Trace(context.Background(), tracer.BlockRequest{BlockH: 2, SamplesPerPixel: 1, MaxDepth: 3, Seed: 1}); err != nil {
		t.Fatal(err)
	}
	for index, color := range accumBuffer {
		if color != (types.Vec3{}) {
			t.Fatalf("[pixel %d] expected black pixel after exhausting the bounce limit; got %v", index, color)
		}
	}
	if exp := uint64(2 * 2 * 3); tr.Stats().Rays != exp {
		t.Fatalf("expected %d rays; got %d", exp, tr.Stats().Rays)
	}
}

func TestTraceErrors(t *testing.T) {
	sc := scene.ThreeSpheres()

	tr := NewTracer("test", 1)
	if err := tr.Trace(context.Background(), tracer.BlockRequest{BlockH: 1}); err != ErrNoSceneData {
		t.Fatalf("expected ErrNoSceneData; got %v", err)
	}

	camera := scene.NewCamera(sc.Camera, 4, 4)
	if err := tr.Setup(nil, tracer.PrimitiveList(sc.Primitives), nil); err != ErrNoCamera {
		t.Fatalf("expected ErrNoCamera; got %v", err)
	}
	if err := tr.Setup(camera, nil, make([]types.Vec3, 16)); err != ErrNoSceneData {
		t.Fatalf("expected ErrNoSceneData; got %v", err)
	}
	if err := tr.Setup(camera, tracer.PrimitiveList(sc.Primitives), make([]types.Vec3, 3)); err == nil {
		t.Fatal("expected an error for a mis-sized accumulation buffer")
	}
	if err := tr.Setup(camera, tracer.PrimitiveList(sc.Primitives), make([]types.Vec3, 16)); err != nil {
		t.Fatal(err)
	}

	if err := tr.Trace(context.Background(), tracer.BlockRequest{BlockY: 3, BlockH: 2}); err == nil {
		t.Fatal("expected an error for a block outside the frame")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := tr.Trace(ctx, tracer.BlockRequest{BlockH: 4, SamplesPerPixel: 1, MaxDepth: 2}); err != context.Canceled {
		t.Fatalf("expected context.Canceled; got %v", err)
	}

	tr.Close()
	if err := tr.Trace(context.Background(), tracer.BlockRequest{BlockH: 1}); err != ErrNoSceneData {
		t.Fatalf("expected ErrNoSceneData after close; got %v", err)
	}
}

func TestSkyColor(t *testing.T) {
	up := skyColor(types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 5, 0)))
	down := skyColor(types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, -1, 0)))

	if up.Sub(skyZenith).Len() > 1e-12 {
		t.Fatalf("expected straight up to return %v; got %v", skyZenith, up)
	}
	if down.Sub(skyHorizon).Len() > 1e-12 {
		t.Fatalf("expected straight down to return %v; got %v", skyHorizon, down)
	}
	if mid := skyColor(types.NewRay(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0))); math.Abs(mid[0]-0.75) > 1e-12 {
		t.Fatalf("expected horizontal ray to blend both colors; got %v", mid)
	}
}
