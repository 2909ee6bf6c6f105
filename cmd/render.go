package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/achilleasa/prism/renderer"
	"github.com/achilleasa/prism/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

const (
	maxFrameDim        = 1 << 15
	maxSamplesPerPixel = 1 << 16
	maxBounces         = 1 << 10
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}

	// Load scene
	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	// Create renderer
	r, err := renderer.NewDefault(sc, tracer.NaiveScheduler(), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	// Abort the frame on ctrl+c
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering %q (%dx%d, %d spp)", sc.Name, opts.FrameW, opts.FrameH, opts.SamplesPerPixel)
	frame, err := r.Render(renderCtx)
	if err != nil {
		return err
	}

	imgFile := ctx.String("out")
	if err = renderer.WritePNG(frame, imgFile); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", imgFile)

	// Display stats
	displayFrameStats(r.Stats())

	return nil
}

// Map render flags to renderer options.
func renderOptions(ctx *cli.Context) (renderer.Options, error) {
	var opts renderer.Options

	strategy, err := splitStrategy(ctx)
	if err != nil {
		return opts, err
	}

	limits := []struct {
		flag string
		max  int
		dst  *uint32
	}{
		{"width", maxFrameDim, &opts.FrameW},
		{"height", maxFrameDim, &opts.FrameH},
		{"spp", maxSamplesPerPixel, &opts.SamplesPerPixel},
		{"depth", maxBounces, &opts.MaxDepth},
	}
	for _, limit := range limits {
		val := ctx.Int(limit.flag)
		if val <= 0 || val > limit.max {
			return opts, fmt.Errorf("invalid value %d for --%s; expected a value in [1, %d]", val, limit.flag, limit.max)
		}
		*limit.dst = uint32(val)
	}

	if pixels := int(opts.FrameW) * int(opts.FrameH); pixels > renderer.MaxFramePixels {
		return opts, fmt.Errorf("frame %dx%d has %d pixels; at most %d are supported", opts.FrameW, opts.FrameH, pixels, renderer.MaxFramePixels)
	}

	opts.NumTracers = ctx.Int("tracers")
	if opts.NumTracers < 0 {
		return opts, fmt.Errorf("invalid value %d for --tracers; expected 0 or a positive value", opts.NumTracers)
	}

	opts.Seed = ctx.Int64("seed")
	opts.UseBVH = !ctx.Bool("linear")
	opts.SplitStrategy = strategy
	return opts, nil
}

func displayFrameStats(stats renderer.FrameStats) {
	logger.Noticef("frame statistics\n%s", frameStatsTable(stats))
}

func frameStatsTable(stats renderer.FrameStats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Rays", "Tests/ray", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.Rays),
			fmt.Sprintf("%.2f", stat.TestsPerRay),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{
		"TOTAL", stats.Host.CPUModel,
		fmt.Sprintf("%.0f rays/s", stats.RaysPerSecond()),
		fmt.Sprintf("%d", stats.Rays),
		fmt.Sprintf("%.2f", stats.TestsPerRay()),
		stats.RenderTime.String(),
	})

	table.Render()
	return buf.String()
}
