package scene

import "github.com/achilleasa/prism/types"

// HitRecord describes a ray-surface intersection.
type HitRecord struct {
	// Intersection point.
	Point types.Point3

	// Unit surface normal. It always points against the incoming ray.
	Normal types.Vec3

	// Ray parameter at the intersection.
	T float64

	// Surface parameters; their meaning depends on the primitive type.
	U, V float64

	// True if the ray struck the side the outward normal points to.
	FrontFace bool

	// The material of the struck surface.
	Material *Material
}

// SetFaceNormal orients outwardNormal against the ray direction and records
// which side of the surface was hit.
func (rec *HitRecord) SetFaceNormal(r types.Ray, outwardNormal types.Vec3) {
	rec.FrontFace = r.Direction.Dot(outwardNormal) < 0
	if rec.FrontFace {
		rec.Normal = outwardNormal
	} else {
		rec.Normal = outwardNormal.Neg()
	}
}
