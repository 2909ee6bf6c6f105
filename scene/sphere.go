package scene

import (
	"math"

	"github.com/achilleasa/prism/types"
)

// Spheres with a radius below this value are treated as empty.
const minSphereRadius = 1e-8

// Sphere is defined by a center and a radius. A negative radius flips the
// outward normal, which is useful for modelling hollow dielectric shells.
type Sphere struct {
	Center   types.Point3
	Radius   float64
	Material *Material
}

// Create new sphere primitive.
func NewSphere(center types.Point3, radius float64, material *Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: material}
}

// BBox returns center ± radius on every axis.
func (s *Sphere) BBox() AABB {
	return boxAround(s.Center, s.Radius)
}

// Intersect solves |O + tD - C|² = r² and reports the nearest root that lies
// strictly inside rayT.
func (s *Sphere) Intersect(r types.Ray, rayT types.Interval) (HitRecord, bool) {
	if math.Abs(s.Radius) < minSphereRadius {
		return HitRecord{}, false
	}

	oc := r.Origin.Sub(s.Center)
	a := r.Direction.LenSq()
	halfB := oc.Dot(r.Direction)
	c := oc.LenSq() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return HitRecord{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if !rayT.Surrounds(root) {
		root = (-halfB + sqrtD) / a
		if !rayT.Surrounds(root) {
			return HitRecord{}, false
		}
	}

	rec := HitRecord{
		T:        root,
		Point:    r.At(root),
		Material: s.Material,
	}
	outwardNormal := rec.Point.Sub(s.Center).Mul(1.0 / s.Radius)
	rec.SetFaceNormal(r, outwardNormal)
	rec.U, rec.V = sphereUV(outwardNormal)

	return rec, true
}

// Map a point on the unit sphere to (u, v) in [0, 1]: u is the angle around
// the Y axis starting from -X and v is the angle from -Y to +Y.
func sphereUV(p types.Vec3) (u, v float64) {
	theta := math.Acos(math.Max(-1, math.Min(1, -p[1])))
	phi := math.Atan2(-p[2], p[0]) + math.Pi
	return phi / (2 * math.Pi), theta / math.Pi
}
