package cpu

import (
	"math"
	"math/rand"

	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/types"
)

// Scatter an incoming ray off the surface described by rec. It returns the
// color attenuation and the scattered ray; ok is false if the ray was
// absorbed.
func scatter(rIn types.Ray, rec *scene.HitRecord, rng *rand.Rand) (attenuation types.Vec3, scattered types.Ray, ok bool) {
	mat := rec.Material
	if mat == nil {
		return types.Vec3{}, types.Ray{}, false
	}

	switch mat.Type {
	case scene.LambertianMaterial, scene.LambertianTextureMaterial:
		scatterDir := rec.Normal.Add(randomUnitVector(rng))

		// Catch degenerate scatter direction
		if scatterDir.NearZero() {
			scatterDir = rec.Normal
		}

		attenuation = mat.Albedo
		if mat.Type == scene.LambertianTextureMaterial {
			attenuation = mat.Texture.Value(rec.U, rec.V, rec.Point)
		}
		return attenuation, types.NewRay(rec.Point, scatterDir), true
	case scene.MetalMaterial:
		reflected := rIn.Direction.Reflect(rec.Normal).Normalize()
		if mat.Fuzz > 0 {
			reflected = reflected.Add(randomUnitVector(rng).Mul(mat.Fuzz))
		}

		// Fuzzed reflections below the surface are absorbed
		if reflected.Dot(rec.Normal) <= 0 {
			return types.Vec3{}, types.Ray{}, false
		}
		return mat.Albedo, types.NewRay(rec.Point, reflected), true
	case scene.DielectricMaterial:
		ri := mat.IOR
		if rec.FrontFace {
			ri = 1.0 / mat.IOR
		}

		unitDir := rIn.Direction.Normalize()
		cosTheta := math.Min(unitDir.Neg().Dot(rec.Normal), 1.0)
		sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

		var dir types.Vec3
		if ri*sinTheta > 1.0 || reflectance(cosTheta, ri) > rng.Float64() {
			dir = unitDir.Reflect(rec.Normal)
		} else {
			dir = unitDir.Refract(rec.Normal, ri)
		}
		return types.XYZ(1, 1, 1), types.NewRay(rec.Point, dir), true
	}

	return types.Vec3{}, types.Ray{}, false
}

// Schlick's approximation for reflectance.
func reflectance(cosine, refIdx float64) float64 {
	r0 := (1 - refIdx) / (1 + refIdx)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

// Pick a uniformly distributed unit vector by rejection sampling the unit
// sphere.
func randomUnitVector(rng *rand.Rand) types.Vec3 {
	for {
		p := types.XYZ(2*rng.Float64()-1, 2*rng.Float64()-1, 2*rng.Float64()-1)
		lenSq := p.LenSq()
		if lenSq > 1e-160 && lenSq <= 1 {
			return p.Mul(1.0 / math.Sqrt(lenSq))
		}
	}
}
