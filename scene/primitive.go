package scene

import (
	"fmt"

	"github.com/achilleasa/prism/types"
)

type PrimitiveType uint32

const (
	SpherePrimitive PrimitiveType = iota
	TrianglePrimitive
	QuadPrimitive
)

func (t PrimitiveType) String() string {
	switch t {
	case SpherePrimitive:
		return "sphere"
	case TrianglePrimitive:
		return "triangle"
	case QuadPrimitive:
		return "quad"
	}
	return "unknown"
}

// Primitive wraps one of the supported geometry kinds. Only the field that
// matches Type is populated.
type Primitive struct {
	// The primitive type.
	Type PrimitiveType

	Sphere   *Sphere
	Triangle *Triangle
	Quad     *Quad
}

// Wrap a sphere.
func FromSphere(s *Sphere) Primitive {
	return Primitive{Type: SpherePrimitive, Sphere: s}
}

// Wrap a triangle.
func FromTriangle(t *Triangle) Primitive {
	return Primitive{Type: TrianglePrimitive, Triangle: t}
}

// Wrap a quad.
func FromQuad(q *Quad) Primitive {
	return Primitive{Type: QuadPrimitive, Quad: q}
}

// Intersect dispatches to the kernel that matches the primitive type.
func (p Primitive) Intersect(r types.Ray, rayT types.Interval) (HitRecord, bool) {
	switch p.Type {
	case SpherePrimitive:
		return p.Sphere.Intersect(r, rayT)
	case TrianglePrimitive:
		return p.Triangle.Intersect(r, rayT)
	case QuadPrimitive:
		return p.Quad.Intersect(r, rayT)
	}
	panic(fmt.Sprintf("scene: unsupported primitive type %d", p.Type))
}

// BBox returns the bounding box of the wrapped primitive.
func (p Primitive) BBox() AABB {
	switch p.Type {
	case SpherePrimitive:
		return p.Sphere.BBox()
	case TrianglePrimitive:
		return p.Triangle.BBox()
	case QuadPrimitive:
		return p.Quad.BBox()
	}
	panic(fmt.Sprintf("scene: unsupported primitive type %d", p.Type))
}

// Material returns the material of the wrapped primitive.
func (p Primitive) Material() *Material {
	switch p.Type {
	case SpherePrimitive:
		return p.Sphere.Material
	case TrianglePrimitive:
		return p.Triangle.Material
	case QuadPrimitive:
		return p.Quad.Material
	}
	return nil
}

// HitCounter tallies the intersection tests performed while resolving rays.
// A counter must not be shared between goroutines; each tracer owns its own
// and the renderer merges the per tracer totals once a frame completes. All
// methods accept a nil receiver so callers that do not care about counts can
// pass nil.
type HitCounter struct {
	BoxTests       uint64
	PrimitiveTests uint64
}

// CountBox records a bounding box test.
func (c *HitCounter) CountBox() {
	if c != nil {
		c.BoxTests++
	}
}

// CountPrimitive records a primitive test.
func (c *HitCounter) CountPrimitive() {
	if c != nil {
		c.PrimitiveTests++
	}
}

// Merge adds the totals of other to this counter.
func (c *HitCounter) Merge(other HitCounter) {
	if c != nil {
		c.BoxTests += other.BoxTests
		c.PrimitiveTests += other.PrimitiveTests
	}
}

// IntersectList tests every primitive in prims and returns the nearest hit
// inside rayT. The interval is narrowed after each hit so later primitives
// must beat the current best.
func IntersectList(prims []Primitive, r types.Ray, rayT types.Interval, counter *HitCounter) (HitRecord, bool) {
	var (
		best   HitRecord
		hitAny bool
	)
	for _, prim := range prims {
		counter.CountPrimitive()
		if rec, hit := prim.Intersect(r, rayT); hit {
			best = rec
			hitAny = true
			rayT.Max = rec.T
		}
	}
	return best, hitAny
}
