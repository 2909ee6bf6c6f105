package scene

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/achilleasa/prism/types"
)

// Builtin scene generators indexed by name.
var builtins = map[string]func(seed int64) *Scene{
	"spheres":       RandomSpheres,
	"quads":         func(int64) *Scene { return Quads() },
	"three-spheres": func(int64) *Scene { return ThreeSpheres() },
}

// BuiltinNames returns the sorted list of builtin scene names.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns the builtin scene with the given name.
func Builtin(name string, seed int64) (*Scene, error) {
	gen, exists := builtins[name]
	if !exists {
		return nil, fmt.Errorf("scene: unknown builtin scene %q", name)
	}
	return gen(seed), nil
}

// RandomSpheres generates a checkered ground sphere, three large feature
// spheres and a grid of small spheres with random materials. The same seed
// always yields the same scene.
func RandomSpheres(seed int64) *Scene {
	rng := rand.New(rand.NewSource(seed))

	sc := NewScene("spheres", CameraOptions{
		LookFrom:     types.XYZ(13, 2, 3),
		LookAt:       types.XYZ(0, 0, 0),
		VUp:          types.XYZ(0, 1, 0),
		VFov:         20,
		DefocusAngle: 0.6,
		FocusDist:    10,
	})

	ground := NewCheckered(NewCheckerTexture(1.0/0.32, types.XYZ(0.2, 0.3, 0.1), types.XYZ(0.9, 0.9, 0.9)))
	sc.mustAdd(FromSphere(NewSphere(types.XYZ(0, -1000, 0), 1000, ground)))
	sc.mustAdd(FromSphere(NewSphere(types.XYZ(0, 1, 0), 1, NewDielectric(1.5))))
	sc.mustAdd(FromSphere(NewSphere(types.XYZ(-4, 1, 0), 1, NewLambertian(types.XYZ(0.4, 0.2, 0.1)))))
	sc.mustAdd(FromSphere(NewSphere(types.XYZ(4, 1, 0), 1, NewMetal(types.XYZ(0.7, 0.6, 0.5), 0))))

	exclusion := types.XYZ(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := rng.Float64()
			center := types.XYZ(float64(a)+0.9*rng.Float64(), 0.2, float64(b)+0.9*rng.Float64())
			if center.Sub(exclusion).Len() <= 0.9 {
				continue
			}

			var mat *Material
			switch {
			case chooseMat < 0.8:
				mat = NewLambertian(randomVec(rng, 0, 1).MulVec(randomVec(rng, 0, 1)))
			case chooseMat < 0.9:
				mat = NewMetal(randomVec(rng, 0.5, 1), 0.5*rng.Float64())
			default:
				mat = NewDielectric(1.5)
			}
			sc.mustAdd(FromSphere(NewSphere(center, 0.2, mat)))
		}
	}

	return sc
}

// Quads generates five colored quads arranged as an open box.
func Quads() *Scene {
	sc := NewScene("quads", CameraOptions{
		LookFrom: types.XYZ(0, 0, 9),
		LookAt:   types.XYZ(0, 0, 0),
		VUp:      types.XYZ(0, 1, 0),
		VFov:     80,
	})

	leftRed := NewLambertian(types.XYZ(1.0, 0.2, 0.2))
	backGreen := NewLambertian(types.XYZ(0.2, 1.0, 0.2))
	rightBlue := NewLambertian(types.XYZ(0.2, 0.2, 1.0))
	upperOrange := NewLambertian(types.XYZ(1.0, 0.5, 0.0))
	lowerTeal := NewLambertian(types.XYZ(0.2, 0.8, 0.8))

	sc.mustAdd(
		FromQuad(NewQuad(types.XYZ(-3, -2, 5), types.XYZ(0, 0, -4), types.XYZ(0, 4, 0), leftRed)),
		FromQuad(NewQuad(types.XYZ(-2, -2, 0), types.XYZ(4, 0, 0), types.XYZ(0, 4, 0), backGreen)),
		FromQuad(NewQuad(types.XYZ(3, -2, 1), types.XYZ(0, 0, 4), types.XYZ(0, 4, 0), rightBlue)),
		FromQuad(NewQuad(types.XYZ(-2, 3, 1), types.XYZ(4, 0, 0), types.XYZ(0, 0, 4), upperOrange)),
		FromQuad(NewQuad(types.XYZ(-2, -3, 5), types.XYZ(4, 0, 0), types.XYZ(0, 0, -4), lowerTeal)),
	)

	return sc
}

// ThreeSpheres generates a diffuse, a metal and a hollow glass sphere resting
// on a large ground sphere.
func ThreeSpheres() *Scene {
	sc := NewScene("three-spheres", CameraOptions{
		LookFrom:     types.XYZ(-2, 2, 1),
		LookAt:       types.XYZ(0, 0, -1),
		VUp:          types.XYZ(0, 1, 0),
		VFov:         20,
		DefocusAngle: 10,
		FocusDist:    3.4,
	})

	glass := NewDielectric(1.5)
	sc.mustAdd(
		FromSphere(NewSphere(types.XYZ(0, -100.5, -1), 100, NewLambertian(types.XYZ(0.8, 0.8, 0.0)))),
		FromSphere(NewSphere(types.XYZ(0, 0, -1), 0.5, NewLambertian(types.XYZ(0.1, 0.2, 0.5)))),
		FromSphere(NewSphere(types.XYZ(-1, 0, -1), 0.5, glass)),
		FromSphere(NewSphere(types.XYZ(-1, 0, -1), -0.4, glass)),
		FromSphere(NewSphere(types.XYZ(1, 0, -1), 0.5, NewMetal(types.XYZ(0.8, 0.6, 0.2), 0))),
	)

	return sc
}

// MeshScene wraps a set of mesh triangles into a scene whose camera frames
// the mesh bounds.
func MeshScene(name string, prims []Primitive) (*Scene, error) {
	sc := NewScene(name, CameraOptions{})
	if err := sc.Add(prims...); err != nil {
		return nil, err
	}

	bounds := sc.Bounds()
	center := bounds.Centroid()
	extent := bounds.Max().Sub(bounds.Min()).Len()
	if bounds.IsEmpty() {
		center = types.XYZ(0, 0, 0)
		extent = 1
	}

	sc.Camera = CameraOptions{
		LookFrom: center.Add(types.XYZ(0.6, 0.4, 1).Normalize().Mul(1.5 * extent)),
		LookAt:   center,
		VUp:      types.XYZ(0, 1, 0),
		VFov:     40,
	}
	return sc, nil
}

// Builtin generators only use primitives with materials.
func (s *Scene) mustAdd(prims ...Primitive) {
	if err := s.Add(prims...); err != nil {
		panic(err)
	}
}

func randomVec(rng *rand.Rand, min, max float64) types.Vec3 {
	return types.XYZ(
		min+(max-min)*rng.Float64(),
		min+(max-min)*rng.Float64(),
		min+(max-min)*rng.Float64(),
	)
}
