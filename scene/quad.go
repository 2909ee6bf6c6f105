package scene

import (
	"math"

	"github.com/achilleasa/prism/types"
)

// Rays whose direction is this close to perpendicular to the quad normal
// are treated as parallel to the quad plane.
const quadParallelEpsilon = 1e-8

// Quad is a planar parallelogram spanned by two edge vectors from a corner.
type Quad struct {
	Corner     types.Point3
	Dir1, Dir2 types.Vec3
	Material   *Material

	// Computed by NewQuad.
	normal       types.Vec3 // unit plane normal
	planeD       float64    // normal · corner
	scaledNormal types.Vec3 // n / (n · n) with n = dir1 × dir2
}

// Create new quad primitive.
func NewQuad(corner types.Point3, dir1, dir2 types.Vec3, material *Material) *Quad {
	n := dir1.Cross(dir2)
	normal := n.Normalize()

	q := &Quad{
		Corner:   corner,
		Dir1:     dir1,
		Dir2:     dir2,
		Material: material,
		normal:   normal,
		planeD:   normal.Dot(corner),
	}
	if nn := n.LenSq(); nn > 0 {
		q.scaledNormal = n.Mul(1.0 / nn)
	}
	return q
}

// Normal returns the unit plane normal.
func (q *Quad) Normal() types.Vec3 {
	return q.normal
}

// OppositeCorner returns corner + dir1 + dir2.
func (q *Quad) OppositeCorner() types.Point3 {
	return q.Corner.Add(q.Dir1).Add(q.Dir2)
}

// BBox returns the box spanning the corner and the opposite corner. The other
// diagonal is folded in for parallelograms whose edges point in opposing
// directions along some axis, and the box is padded since quads are flat.
func (q *Quad) BBox() AABB {
	diag1 := NewAABB(q.Corner, q.OppositeCorner())
	diag2 := NewAABB(q.Corner.Add(q.Dir1), q.Corner.Add(q.Dir2))
	return diag1.Union(diag2).Pad()
}

// Intersect intersects the ray with the quad plane and then checks whether
// the plane hit lies inside the parallelogram. The hit's local (α, β)
// coordinates are stored as (u, v).
func (q *Quad) Intersect(r types.Ray, rayT types.Interval) (HitRecord, bool) {
	denom := q.normal.Dot(r.Direction)
	if math.Abs(denom) < quadParallelEpsilon {
		return HitRecord{}, false
	}

	t := (q.planeD - q.normal.Dot(r.Origin)) / denom
	if !rayT.Surrounds(t) {
		return HitRecord{}, false
	}

	p := r.At(t)
	planar := p.Sub(q.Corner)
	alpha := q.scaledNormal.Dot(planar.Cross(q.Dir2))
	beta := q.scaledNormal.Dot(q.Dir1.Cross(planar))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return HitRecord{}, false
	}

	rec := HitRecord{
		T:        t,
		Point:    p,
		U:        alpha,
		V:        beta,
		Material: q.Material,
	}
	rec.SetFaceNormal(r, q.normal)
	return rec, true
}
