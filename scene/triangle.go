package scene

import (
	"math"

	"github.com/achilleasa/prism/types"
)

// Determinants and ray parameters below this value are rejected by the
// triangle test.
const triangleEpsilon = 1e-7

// Triangle is defined by three vertices and a shading normal.
type Triangle struct {
	V1, V2, V3 types.Point3
	Normal     types.Vec3
	Material   *Material

	// If set, rays approaching the back face (the side opposite to the
	// winding order normal) are ignored.
	Culled bool
}

// Create a triangle whose normal is derived from the vertex winding order.
func NewTriangle(v1, v2, v3 types.Point3, material *Material) *Triangle {
	normal := v2.Sub(v1).Cross(v3.Sub(v1)).Normalize()
	return NewTriangleWithNormal(v1, v2, v3, normal, material)
}

// Create a triangle with an explicit normal (e.g. one read from a mesh file).
func NewTriangleWithNormal(v1, v2, v3 types.Point3, normal types.Vec3, material *Material) *Triangle {
	return &Triangle{
		V1:       v1,
		V2:       v2,
		V3:       v3,
		Normal:   normal.Normalize(),
		Material: material,
	}
}

// BBox returns the padded box around the three vertices; a triangle lying in an
// axis plane would otherwise produce a zero-thickness box.
func (tri *Triangle) BBox() AABB {
	return NewAABBFromTriangle(tri.V1, tri.V2, tri.V3)
}

// Intersect implements the Möller–Trumbore test. The stored barycentric
// coordinates of the hit point become the record's (u, v).
func (tri *Triangle) Intersect(r types.Ray, rayT types.Interval) (HitRecord, bool) {
	e1 := tri.V2.Sub(tri.V1)
	e2 := tri.V3.Sub(tri.V1)

	pvec := r.Direction.Cross(e2)
	det := e1.Dot(pvec)

	// Parallel ray, or a back-face hit on a culled triangle.
	if tri.Culled {
		if det < triangleEpsilon {
			return HitRecord{}, false
		}
	} else if math.Abs(det) < triangleEpsilon {
		return HitRecord{}, false
	}

	invDet := 1.0 / det
	s := r.Origin.Sub(tri.V1)
	u := invDet * s.Dot(pvec)
	if u < 0 || u > 1 {
		return HitRecord{}, false
	}

	qvec := s.Cross(e1)
	v := invDet * r.Direction.Dot(qvec)
	if v < 0 || u+v > 1 {
		return HitRecord{}, false
	}

	// Line intersection behind the origin or outside the valid range.
	t := invDet * e2.Dot(qvec)
	if t <= triangleEpsilon || !rayT.Surrounds(t) {
		return HitRecord{}, false
	}

	rec := HitRecord{
		T:        t,
		Point:    r.At(t),
		U:        u,
		V:        v,
		Material: tri.Material,
	}
	rec.SetFaceNormal(r, tri.Normal)
	return rec, true
}
