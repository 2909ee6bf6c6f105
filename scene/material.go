package scene

import (
	"math"

	"github.com/achilleasa/prism/types"
)

type MaterialType uint8

const (
	LambertianMaterial MaterialType = iota
	LambertianTextureMaterial
	MetalMaterial
	DielectricMaterial
)

func (t MaterialType) String() string {
	switch t {
	case LambertianMaterial:
		return "lambertian"
	case LambertianTextureMaterial:
		return "lambertian-texture"
	case MetalMaterial:
		return "metal"
	case DielectricMaterial:
		return "dielectric"
	}
	return "unknown"
}

// Defines a surface material. The intersection code never looks inside a
// material; it only copies the pointer into hit records.
type Material struct {
	// The type of the material.
	Type MaterialType

	// Diffuse or specular color.
	Albedo types.Vec3

	// Color source for textured lambertian surfaces.
	Texture CheckerTexture

	// Reflection perturbation for metals (0 = mirror).
	Fuzz float64

	// Index of refraction (dielectrics only).
	IOR float64
}

// Create a diffuse material.
func NewLambertian(albedo types.Vec3) *Material {
	return &Material{Type: LambertianMaterial, Albedo: albedo}
}

// Create a diffuse material whose color is sampled from a checker texture.
func NewCheckered(texture CheckerTexture) *Material {
	return &Material{Type: LambertianTextureMaterial, Texture: texture}
}

// Create a metallic material. Fuzz is clamped to [0, 1].
func NewMetal(albedo types.Vec3, fuzz float64) *Material {
	return &Material{Type: MetalMaterial, Albedo: albedo, Fuzz: math.Max(0, math.Min(fuzz, 1))}
}

// Create a transparent material.
func NewDielectric(ior float64) *Material {
	return &Material{Type: DielectricMaterial, Albedo: types.XYZ(1, 1, 1), IOR: ior}
}

// A 3D checker pattern.
type CheckerTexture struct {
	InvScale  float64
	Even, Odd types.Vec3
}

// Create a checker texture with cells of the given size.
func NewCheckerTexture(scale float64, even, odd types.Vec3) CheckerTexture {
	return CheckerTexture{InvScale: 1.0 / scale, Even: even, Odd: odd}
}

// Value returns the texture color at point p.
func (c CheckerTexture) Value(_, _ float64, p types.Point3) types.Vec3 {
	x := int(math.Floor(c.InvScale * p[0]))
	y := int(math.Floor(c.InvScale * p[1]))
	z := int(math.Floor(c.InvScale * p[2]))

	if (x+y+z)%2 == 0 {
		return c.Even
	}
	return c.Odd
}
