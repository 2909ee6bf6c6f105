package cmd

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/achilleasa/prism/asset/compiler/bvh"
	"github.com/achilleasa/prism/renderer"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

const (
	// Camera rays are sampled from a frame of this size.
	benchFrameW uint32 = 512
	benchFrameH uint32 = 512

	// Hits whose ray parameters differ by less than this are considered equal.
	benchTolerance = 1e-9
)

var errNoPrimitives = errors.New("bench: scene does not contain any primitives")

// Timing and counters for one intersection method.
type benchRun struct {
	Method   string
	Hits     int
	Counter  scene.HitCounter
	Duration time.Duration
}

func perRay(total uint64, rays int) float64 {
	return float64(total) / float64(rays)
}

type benchResult struct {
	Rays       int
	BuildTime  time.Duration
	Linear     benchRun
	BVH        benchRun
	Mismatches int
}

// Speedup of bvh traversal over the linear scan.
func (res benchResult) Speedup() float64 {
	if res.BVH.Duration <= 0 {
		return math.Inf(1)
	}
	return float64(res.Linear.Duration) / float64(res.BVH.Duration)
}

// Fire random camera rays into a scene and compare the bvh against a linear
// scan over all primitives.
func Benchmark(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}
	if len(sc.Primitives) == 0 {
		return errNoPrimitives
	}

	strategy, err := splitStrategy(ctx)
	if err != nil {
		return err
	}

	numRays := ctx.Int("rays")
	if numRays <= 0 {
		return fmt.Errorf("bench: number of rays must be positive; got %d", numRays)
	}

	logger.Noticef("benchmarking %q using %d rays", sc.Name, numRays)
	rays := cameraRays(sc, numRays, ctx.Int64("seed"))
	res := runBenchmark(sc, strategy, rays)
	logger.Noticef("benchmark results\n%s", benchTable(res))

	if csvFile := ctx.String("csv"); csvFile != "" {
		if err = appendBenchCSV(csvFile, sc, strategy, res, renderer.DetectHost()); err != nil {
			return err
		}
		logger.Noticef("appended results to %s", csvFile)
	}

	if res.Mismatches != 0 {
		return fmt.Errorf("bench: %d of %d rays disagree between bvh and linear scan", res.Mismatches, res.Rays)
	}
	return nil
}

// Generate rays through random pixels of the scene camera.
func cameraRays(sc *scene.Scene, count int, seed int64) []types.Ray {
	rng := rand.New(rand.NewSource(seed))
	camera := scene.NewCamera(sc.Camera, benchFrameW, benchFrameH)

	rays := make([]types.Ray, count)
	for i := range rays {
		rays[i] = camera.Ray(uint32(rng.Intn(int(benchFrameW))), uint32(rng.Intn(int(benchFrameH))), rng)
	}
	return rays
}

func runBenchmark(sc *scene.Scene, strategy bvh.SplitStrategy, rays []types.Ray) benchResult {
	res := benchResult{
		Rays:   len(rays),
		Linear: benchRun{Method: "linear scan"},
		BVH:    benchRun{Method: "bvh (" + strategy.Name() + ")"},
	}

	tree := bvh.BuildWithStrategy(sc.Primitives, strategy)
	res.BuildTime = tree.Stats().BuildTime

	rayT := types.NewInterval(0.001, math.Inf(1))
	linearHits := make([]scene.HitRecord, len(rays))
	linearFound := make([]bool, len(rays))

	start := time.Now()
	for i, r := range rays {
		linearHits[i], linearFound[i] = scene.IntersectList(sc.Primitives, r, rayT, &res.Linear.Counter)
	}
	res.Linear.Duration = time.Since(start)

	bvhHits := make([]scene.HitRecord, len(rays))
	bvhFound := make([]bool, len(rays))

	start = time.Now()
	for i, r := range rays {
		bvhHits[i], bvhFound[i] = tree.IntersectCounted(r, rayT, &res.BVH.Counter)
	}
	res.BVH.Duration = time.Since(start)

	for i := range rays {
		if linearFound[i] {
			res.Linear.Hits++
		}
		if bvhFound[i] {
			res.BVH.Hits++
		}

		if !hitsAgree(linearFound[i], bvhFound[i], linearHits[i], bvhHits[i]) {
			res.Mismatches++
		}
	}

	return res
}

// Two lookups agree when both miss or both hit at the same distance. Either
// surface is a valid answer for coincident hits, so materials are not
// compared.
func hitsAgree(found1, found2 bool, rec1, rec2 scene.HitRecord) bool {
	if found1 != found2 {
		return false
	}
	return !found1 || math.Abs(rec1.T-rec2.T) <= benchTolerance
}

func benchTable(res benchResult) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Method", "Hits", "Prim tests/ray", "Box tests/ray", "Time", "ns/ray"})
	for _, run := range []benchRun{res.Linear, res.BVH} {
		table.Append([]string{
			run.Method,
			fmt.Sprintf("%d", run.Hits),
			fmt.Sprintf("%.2f", perRay(run.Counter.PrimitiveTests, res.Rays)),
			fmt.Sprintf("%.2f", perRay(run.Counter.BoxTests, res.Rays)),
			run.Duration.String(),
			fmt.Sprintf("%d", run.Duration.Nanoseconds()/int64(res.Rays)),
		})
	}
	table.SetFooter([]string{
		"Build " + res.BuildTime.String(),
		fmt.Sprintf("Mismatches %d", res.Mismatches),
		"", "",
		"Speedup",
		fmt.Sprintf("%.1fx", res.Speedup()),
	})

	table.Render()
	return buf.String()
}

var benchCSVHeader = []string{
	"timestamp", "scene", "primitives", "strategy", "rays",
	"linear_ns_per_ray", "bvh_ns_per_ray", "linear_tests_per_ray", "bvh_tests_per_ray",
	"build_ms", "mismatches", "cpu", "cores", "ram_gb",
}

// Append a result row to a csv file; a header is written if the file is new.
func appendBenchCSV(csvFile string, sc *scene.Scene, strategy bvh.SplitStrategy, res benchResult, host renderer.HostInfo) error {
	info, statErr := os.Stat(csvFile)
	writeHeader := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(csvFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err = w.Write(benchCSVHeader); err != nil {
			return err
		}
	}

	err = w.Write([]string{
		time.Now().UTC().Format(time.RFC3339),
		sc.Name,
		fmt.Sprintf("%d", len(sc.Primitives)),
		strategy.Name(),
		fmt.Sprintf("%d", res.Rays),
		fmt.Sprintf("%d", res.Linear.Duration.Nanoseconds()/int64(res.Rays)),
		fmt.Sprintf("%d", res.BVH.Duration.Nanoseconds()/int64(res.Rays)),
		fmt.Sprintf("%.3f", perRay(res.Linear.Counter.PrimitiveTests, res.Rays)),
		fmt.Sprintf("%.3f", perRay(res.BVH.Counter.PrimitiveTests, res.Rays)),
		fmt.Sprintf("%.3f", float64(res.BuildTime.Nanoseconds())/1e6),
		fmt.Sprintf("%d", res.Mismatches),
		host.CPUModel,
		fmt.Sprintf("%d", host.LogicalCores),
		fmt.Sprintf("%d", host.TotalRAMGB),
	})
	if err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
