package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/prism/cmd"
	"github.com/achilleasa/prism/renderer"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	sceneFlags := []cli.Flag{
		cli.Int64Flag{
			Name:  "seed",
			Value: 0,
			Usage: "random seed for generated scenes and sampling",
		},
		cli.StringFlag{
			Name:  "strategy",
			Value: "median",
			Usage: "bvh split strategy (median or sah)",
		},
	}

	app := cli.NewApp()
	app.Name = "prism"
	app.Usage = "ray trace scenes using a bounding volume hierarchy"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render a builtin scene or a wavefront obj mesh and write the result to a png
file. Scene arguments ending in .obj are loaded as meshes (local paths or
http/https urls); anything else names a builtin scene.`,
			ArgsUsage: "spheres|quads|three-spheres|mesh.obj",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: int(renderer.DefaultFrameW),
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: int(renderer.DefaultFrameH),
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: int(renderer.DefaultSamplesPerPixel),
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "depth",
					Value: int(renderer.DefaultMaxDepth),
					Usage: "max number of bounces per ray",
				},
				cli.IntFlag{
					Name:  "tracers",
					Value: 0,
					Usage: "number of cpu tracers (0 = one per logical core)",
				},
				cli.BoolFlag{
					Name:  "linear",
					Usage: "test every primitive for each ray instead of using a bvh",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			}, sceneFlags...),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "bench",
			Usage: "compare bvh traversal against a linear scan",
			Description: `
Build a bvh for the scene, fire random camera rays and compare the results and
timings of bvh traversal and a linear scan over all primitives.`,
			ArgsUsage: "spheres|quads|three-spheres|mesh.obj",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "rays",
					Value: 100000,
					Usage: "number of rays to trace",
				},
				cli.StringFlag{
					Name:  "csv",
					Usage: "append results to this csv file",
				},
			}, sceneFlags...),
			Action: cmd.Benchmark,
		},
		{
			Name:      "scene-info",
			Usage:     "display scene contents and bvh statistics",
			ArgsUsage: "spheres|quads|three-spheres|mesh.obj",
			Flags:     sceneFlags,
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:   "list-scenes",
			Usage:  "list builtin scenes",
			Flags:  sceneFlags,
			Action: cmd.ListScenes,
		},
		{
			Name:   "list-devices",
			Usage:  "list available cpu devices",
			Action: cmd.ListDevices,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
