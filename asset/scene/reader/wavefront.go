package reader

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/prism/asset"
	"github.com/achilleasa/prism/log"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/types"
)

type wavefrontMaterial struct {
	Name string

	// Diffuse/Albedo color.
	Kd types.Vec3

	// Specular color.
	Ks types.Vec3

	// Specular exponent; mapped to metal fuzz.
	Ns float64

	// Index of refraction.
	Ni float64

	// Lazily built scene material.
	material *scene.Material
}

// Map the wavefront material properties to one of the supported material
// types using the following rules:
// - specular color and an index of refraction: dielectric
// - specular color without an index of refraction: metal (fuzz derived from Ns)
// - anything else: lambertian using the diffuse color
func (wf *wavefrontMaterial) sceneMaterial() *scene.Material {
	if wf.material != nil {
		return wf.material
	}

	isSpecularReflection := wf.Ks.MaxComponent() > 0.0
	switch {
	case isSpecularReflection && wf.Ni != 0.0:
		wf.material = scene.NewDielectric(wf.Ni)
	case isSpecularReflection:
		wf.material = scene.NewMetal(wf.Ks, 1.0-wf.Ns/maxSpecularExponent)
	default:
		wf.material = scene.NewLambertian(wf.Kd)
	}
	return wf.material
}

// Ns values are clamped to [0, maxSpecularExponent].
const maxSpecularExponent = 1000.0

type wavefrontSceneReader struct {
	logger log.Logger

	// The material assigned to faces that do not select one via usemtl.
	defaultMaterial *scene.Material

	// A map of material names to parsed wavefront materials
	matNameToIndex map[string]int

	// Currently selected material; nil selects the default material.
	curMaterial *wavefrontMaterial

	// Parsed wavefront materials.
	materials []*wavefrontMaterial

	// List of vertices and normals.
	vertexList []types.Vec3
	normalList []types.Vec3

	// Generated primitives.
	primitives []scene.Primitive

	// Name of the active group/object and the number of faces per group.
	curGroup   string
	groupFaces map[string]int
	skipped    int

	// An error stack that provides additional error information when
	// mesh files include other files (models, mat libs e.t.c)
	errStack []string
}

// Create a new wavefront mesh reader.
func newWavefrontReader(defaultMaterial *scene.Material) *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger:          log.New("wavefront reader"),
		defaultMaterial: defaultMaterial,
		matNameToIndex:  make(map[string]int, 0),
		vertexList:      make([]types.Vec3, 0),
		normalList:      make([]types.Vec3, 0),
		primitives:      make([]scene.Primitive, 0),
		curGroup:        "default",
		groupFaces:      make(map[string]int, 0),
		errStack:        make([]string, 0),
	}
}

// Read mesh definition.
func (r *wavefrontSceneReader) Read(meshRes *asset.Resource) ([]scene.Primitive, error) {
	r.logger.Noticef(`parsing mesh from "%s"`, meshRes.Path())
	start := time.Now()

	err := r.parse(meshRes)
	if err != nil {
		return nil, err
	}

	for group, faces := range r.groupFaces {
		r.logger.Infof("group %q: %d faces", group, faces)
	}
	if r.skipped > 0 {
		r.logger.Warningf("skipped %d degenerate faces", r.skipped)
	}
	r.logger.Noticef(
		"parsed mesh in %d ms; vertices: %d, normals: %d, triangles: %d",
		time.Since(start).Nanoseconds()/1e6,
		len(r.vertexList), len(r.normalList), len(r.primitives),
	)

	return r.primitives, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = strings.Trim(
			fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	} else {
		errMsg = strings.Trim(
			fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	}

	return fmt.Errorf("%s", errMsg)
}

// Push a frame to the error stack.
func (r *wavefrontSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Parse wavefront object format.
func (r *wavefrontSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0

	// The main obj file may include (call) several other object files. Each
	// object file contains 1-based indices (when they are positive). By
	// tracking the current vertex/normal offsets we can apply them
	// while parsing faces to select the correct coordinates.
	relVertexOffset := len(r.vertexList)
	relNormalOffset := len(r.normalList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}

			switch lineTokens[0] {
			case "call":
				err = r.parse(incRes)
			case "mtllib":
				err = r.parseMaterials(incRes)
			}
			incRes.Close()

			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for 'usemtl'; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			// Lookup material
			matName := lineTokens[1]
			matIndex, exists := r.matNameToIndex[matName]
			if !exists {
				return r.emitError(res.Path(), lineNum, `undefined material with name "%s"`, matName)
			}

			// Activate material
			r.curMaterial = r.materials[matIndex]
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
			r.normalList = append(r.normalList, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}
			r.curGroup = lineTokens[1]
		case "f":
			primList, err := r.parseFace(lineTokens, relVertexOffset, relNormalOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
			r.primitives = append(r.primitives, primList...)
			r.groupFaces[r.curGroup]++
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err)
	}
	return nil
}

// Parse face definition. Each face definitions consists of 3 arguments,
// one for each vertex. Each one of the vertex arguments is comprised of
// 1, 2 or 3 args separated by a slash character. The following formats are
// supported:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate
// an offset off the end of the vertex list. UV indices are accepted but
// ignored.
//
// This method only works with triangular/quad faces and will return an error if a
// face with more than 4 vertices is encountered. Quad faces are split into two
// triangles.
func (r *wavefrontSceneReader) parseFace(lineTokens []string, relVertexOffset, relNormalOffset int) ([]scene.Primitive, error) {
	if len(lineTokens) < 4 || len(lineTokens) > 5 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got %d. Select the triangulation option in your exporter`, len(lineTokens)-1)
	}

	var vertices [4]types.Vec3
	var normals [4]types.Vec3
	var vOffset int
	var err error
	expIndices := 0
	hasNormals := false
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err = selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[vOffset]

		// Parse normal coords if specified
		if expIndices > 2 && vTokens[2] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[2], len(r.normalList), relNormalOffset)
			if err != nil {
				return nil, fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			normals[arg] = r.normalList[vOffset]
			hasNormals = true
		}
	}

	material := r.defaultMaterial
	if r.curMaterial != nil {
		material = r.curMaterial.sceneMaterial()
	}

	// Assemble vertices into one or two primitives depending on whether we are parsing a triangular or a quad face
	primitives := make([]scene.Primitive, 0, 2)
	indiceList := [][3]int{{0, 1, 2}}
	if len(lineTokens) == 5 {
		indiceList = append(indiceList, [3]int{0, 2, 3})
	}

	for _, indices := range indiceList {
		v0, v1, v2 := vertices[indices[0]], vertices[indices[1]], vertices[indices[2]]

		// Zero-area triangles can never be hit
		if v1.Sub(v0).Cross(v2.Sub(v0)).LenSq() == 0 {
			r.skipped++
			continue
		}

		// Use the average of the file normals; fall back to the winding order
		var tri *scene.Triangle
		avgNormal := normals[indices[0]].Add(normals[indices[1]]).Add(normals[indices[2]])
		if hasNormals && avgNormal.LenSq() > 0 {
			tri = scene.NewTriangleWithNormal(v0, v1, v2, avgNormal, material)
		} else {
			tri = scene.NewTriangle(v0, v1, v2, material)
		}
		primitives = append(primitives, scene.FromTriangle(tri))
	}

	return primitives, nil
}

// Parse a wavefront material library.
func (r *wavefrontSceneReader) parseMaterials(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	r.logger.Infof(`parsing material library "%s"`, res.Path())

	scanner := bufio.NewScanner(res)

	var curMaterial *wavefrontMaterial = nil
	var matName string = ""

	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "newmtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName = lineTokens[1]
			if _, exists := r.matNameToIndex[matName]; exists {
				return r.emitError(res.Path(), lineNum, `material "%s" already defined`, matName)
			}

			// Allocate new material and add it to library
			curMaterial = &wavefrontMaterial{Name: matName}
			r.materials = append(r.materials, curMaterial)
			r.matNameToIndex[matName] = len(r.materials) - 1
		default:
			if curMaterial == nil {
				return r.emitError(res.Path(), lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
			}

			switch lineTokens[0] {
			case "include":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				baseMaterialIndex, exists := r.matNameToIndex[lineTokens[1]]
				if !exists {
					return r.emitError(res.Path(), lineNum, `could not include unknown material "%s"`, lineTokens[1])
				}

				// Overwrite material but keep the original name
				*curMaterial = *r.materials[baseMaterialIndex]
				curMaterial.Name = matName
				curMaterial.material = nil
			case "Kd", "Ks":
				var target *types.Vec3
				switch lineTokens[0] {
				case "Kd":
					target = &curMaterial.Kd
				case "Ks":
					target = &curMaterial.Ks
				}

				*target, err = parseVec3(lineTokens)
			case "Ni":
				curMaterial.Ni, err = parseFloat(lineTokens)
			case "Ns":
				curMaterial.Ns, err = parseFloat(lineTokens)
				curMaterial.Ns = math.Max(0, math.Min(curMaterial.Ns, maxSpecularExponent))
			}

			// Report any errors
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
		}
	}

	if err = scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err)
	}
	return nil
}

// Given an index for a face coord type (vertex, normal) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a float scalar value.
func parseFloat(lineTokens []string) (float64, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	return strconv.ParseFloat(lineTokens[1], 64)
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var v types.Vec3
	for i := 0; i < 3; i++ {
		val, err := strconv.ParseFloat(lineTokens[i+1], 64)
		if err != nil {
			return types.Vec3{}, err
		}
		v[i] = val
	}

	return v, nil
}
