package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/achilleasa/prism/asset/compiler/bvh"
	"github.com/achilleasa/prism/asset/scene/reader"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Faces of mesh files without a material library get a light grey diffuse
// material.
var defaultMeshMaterial = scene.NewLambertian(types.XYZ(0.73, 0.73, 0.73))

// Load the scene named by the first command argument. The argument is either
// the name of a builtin scene or the path (or http/https url) to a wavefront
// mesh file.
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	if ctx.NArg() != 1 {
		return nil, fmt.Errorf("missing scene argument; expected one of %s or a .obj file", strings.Join(scene.BuiltinNames(), ", "))
	}

	sceneArg := ctx.Args().First()
	if !strings.HasSuffix(strings.ToLower(sceneArg), ".obj") {
		return scene.Builtin(sceneArg, ctx.Int64("seed"))
	}

	logger.Noticef("loading mesh: %s", sceneArg)
	prims, err := reader.ReadMesh(sceneArg, defaultMeshMaterial)
	if err != nil {
		return nil, err
	}
	return scene.MeshScene(sceneArg, prims)
}

// Map the value of the --strategy flag to a bvh split strategy.
func splitStrategy(ctx *cli.Context) (bvh.SplitStrategy, error) {
	switch name := ctx.String("strategy"); name {
	case "", bvh.MedianSplit.Name():
		return bvh.MedianSplit, nil
	case bvh.SurfaceAreaHeuristic.Name():
		return bvh.SurfaceAreaHeuristic, nil
	default:
		return nil, fmt.Errorf("unknown split strategy %q; expected %q or %q", name, bvh.MedianSplit.Name(), bvh.SurfaceAreaHeuristic.Name())
	}
}

// Build a bvh for a scene and display its statistics.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	strategy, err := splitStrategy(ctx)
	if err != nil {
		return err
	}

	tree := bvh.BuildWithStrategy(sc.Primitives, strategy)
	logger.Noticef("scene %q information\n%s", sc.Name, sceneTable(sc))
	logger.Noticef("bvh statistics\n%s", tree.StatsTable())

	return nil
}

// List builtin scene names.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	for _, name := range scene.BuiltinNames() {
		sc, err := scene.Builtin(name, ctx.Int64("seed"))
		if err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("\n[%s]\n%s", name, sceneTable(sc)))
	}

	logger.Noticef("builtin scenes:\n%s", buf.String())
	return nil
}

// Summarize scene contents by primitive and material type.
func sceneTable(sc *scene.Scene) string {
	primCount := make(map[scene.PrimitiveType]int)
	matCount := make(map[scene.MaterialType]int)
	for _, prim := range sc.Primitives {
		primCount[prim.Type]++
		matCount[prim.Material().Type]++
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	for _, primType := range []scene.PrimitiveType{scene.SpherePrimitive, scene.TrianglePrimitive, scene.QuadPrimitive} {
		table.Append([]string{primType.String() + " primitives", fmt.Sprintf("%d", primCount[primType])})
	}
	for _, matType := range []scene.MaterialType{scene.LambertianMaterial, scene.LambertianTextureMaterial, scene.MetalMaterial, scene.DielectricMaterial} {
		table.Append([]string{matType.String() + " materials", fmt.Sprintf("%d", matCount[matType])})
	}
	table.Append([]string{"Camera", sc.Camera.String()})
	table.SetFooter([]string{"Bounds", sc.Bounds().String()})

	table.Render()
	return buf.String()
}
