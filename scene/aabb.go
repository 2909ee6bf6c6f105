package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/prism/types"
)

// Boxes built from geometry are padded so that no side is narrower than this
// value. Zero-thickness slabs would otherwise reject every ray in the slab test.
const minBoxSide = 1e-4

// AABB is an axis-aligned bounding box stored as one interval per axis.
type AABB struct {
	X, Y, Z types.Interval
}

// EmptyAABB returns a box that contains nothing. Its union with any other box
// yields the other box.
func EmptyAABB() AABB {
	return AABB{X: types.EmptyInterval, Y: types.EmptyInterval, Z: types.EmptyInterval}
}

// NewAABBFromIntervals creates a box from three per-axis intervals.
func NewAABBFromIntervals(x, y, z types.Interval) AABB {
	return AABB{X: x, Y: y, Z: z}
}

// NewAABB creates the box spanning points a and b. The points may be given
// in any order.
func NewAABB(a, b types.Point3) AABB {
	min := types.MinVec3(a, b)
	max := types.MaxVec3(a, b)
	return NewAABBFromIntervals(
		types.NewInterval(min[0], max[0]),
		types.NewInterval(min[1], max[1]),
		types.NewInterval(min[2], max[2]),
	)
}

// NewAABBFromTriangle creates the padded box enclosing three points.
func NewAABBFromTriangle(a, b, c types.Point3) AABB {
	min := types.MinVec3(a, types.MinVec3(b, c))
	max := types.MaxVec3(a, types.MaxVec3(b, c))
	return NewAABB(min, max).Pad()
}

// Union returns the box enclosing both a and b.
func (b AABB) Union(other AABB) AABB {
	return NewAABBFromIntervals(b.X.Union(other.X), b.Y.Union(other.Y), b.Z.Union(other.Z))
}

// Pad returns a copy of the box where any side narrower than minBoxSide has
// been widened symmetrically.
func (b AABB) Pad() AABB {
	pad := func(i types.Interval) types.Interval {
		if i.Size() >= minBoxSide {
			return i
		}
		return i.Expand(minBoxSide)
	}
	return NewAABBFromIntervals(pad(b.X), pad(b.Y), pad(b.Z))
}

// Axis returns the interval for axis n (0=X, 1=Y, 2=Z).
func (b AABB) Axis(n int) types.Interval {
	switch n {
	case 1:
		return b.Y
	case 2:
		return b.Z
	default:
		return b.X
	}
}

// Min returns the minimum corner.
func (b AABB) Min() types.Point3 {
	return types.XYZ(b.X.Min, b.Y.Min, b.Z.Min)
}

// Max returns the maximum corner.
func (b AABB) Max() types.Point3 {
	return types.XYZ(b.X.Max, b.Y.Max, b.Z.Max)
}

// Centroid returns the box center.
func (b AABB) Centroid() types.Point3 {
	return types.XYZ(
		0.5*(b.X.Min+b.X.Max),
		0.5*(b.Y.Min+b.Y.Max),
		0.5*(b.Z.Min+b.Z.Max),
	)
}

// LongestAxis returns the axis with the largest extent. Ties resolve to the
// lower axis index.
func (b AABB) LongestAxis() int {
	x, y, z := b.X.Size(), b.Y.Size(), b.Z.Size()
	switch {
	case x >= y && x >= z:
		return 0
	case y >= z:
		return 1
	default:
		return 2
	}
}

// Contains returns true if other lies inside this box on every axis.
func (b AABB) Contains(other AABB) bool {
	return b.X.ContainsInterval(other.X) &&
		b.Y.ContainsInterval(other.Y) &&
		b.Z.ContainsInterval(other.Z)
}

// IsEmpty returns true if any axis interval is empty.
func (b AABB) IsEmpty() bool {
	return b.X.IsEmpty() || b.Y.IsEmpty() || b.Z.IsEmpty()
}

// SurfaceArea returns the total area of the box faces.
func (b AABB) SurfaceArea() float64 {
	if b.IsEmpty() {
		return 0
	}
	x, y, z := b.X.Size(), b.Y.Size(), b.Z.Size()
	return 2 * (x*y + y*z + x*z)
}

// Hit runs the slab test for ray r restricted to rayT. The valid interval is
// narrowed one axis at a time and the test fails as soon as it becomes empty,
// so a hit requires overlap on all three axes.
func (b AABB) Hit(r types.Ray, rayT types.Interval) bool {
	for axis := 0; axis < 3; axis++ {
		slab := b.Axis(axis)
		origin := r.Origin[axis]
		dir := r.Direction[axis]

		// Parallel to the slab: (bound-origin)/0 may produce 0/0 when the
		// origin sits on a bound so resolve the axis by position instead.
		if dir == 0 {
			if origin < slab.Min || origin > slab.Max {
				return false
			}
			continue
		}

		t0 := (slab.Min - origin) / dir
		t1 := (slab.Max - origin) / dir
		if dir < 0 {
			t0, t1 = t1, t0
		}

		if t0 > rayT.Min {
			rayT.Min = t0
		}
		if t1 < rayT.Max {
			rayT.Max = t1
		}

		if rayT.Max <= rayT.Min {
			return false
		}
	}

	return true
}

func (b AABB) String() string {
	return fmt.Sprintf("bbox: (x%v, y%v, z%v)", b.X, b.Y, b.Z)
}

// Returns the box padded by the absolute value of r around center.
func boxAround(center types.Point3, r float64) AABB {
	r = math.Abs(r)
	radius := types.XYZ(r, r, r)
	return NewAABB(center.Sub(radius), center.Add(radius))
}
