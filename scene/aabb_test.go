package scene

import (
	"math"
	"testing"

	"github.com/achilleasa/prism/types"
)

func TestAABBHit(t *testing.T) {
	box := NewAABB(types.XYZ(-0.5, -0.5, 0.95), types.XYZ(0.5, 0.5, 1.05))
	rayT := types.NewInterval(0.0001, 5)

	type spec struct {
		ray types.Ray
		exp bool
	}
	specs := []spec{
		// straight through the box
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1)), true},
		// pointing away
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, -1)), false},
		// negative direction from the other side
		{types.NewRay(types.XYZ(0, 0, 3), types.XYZ(0, 0, -1)), true},
		// parallel to the x slab but outside of it
		{types.NewRay(types.XYZ(2, 0, 0), types.XYZ(0, 0, 1)), false},
		// overlaps x and y but misses on z
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(1, 1, 0)), false},
		// passes the x/z slabs in disjoint t ranges
		{types.NewRay(types.XYZ(-2, 0, 0), types.XYZ(1, 0, 0.1)), false},
	}

	for index, s := range specs {
		if got := box.Hit(s.ray, rayT); got != s.exp {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.exp, got)
		}
	}
}

func TestAABBHitRespectsInterval(t *testing.T) {
	box := NewAABB(types.XYZ(-1, -1, 4), types.XYZ(1, 1, 6))
	r := types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1))

	if box.Hit(r, types.NewInterval(0.001, 3)) {
		t.Fatal("expected box beyond the interval upper bound to be missed")
	}
	if box.Hit(r, types.NewInterval(7, 10)) {
		t.Fatal("expected box before the interval lower bound to be missed")
	}
	if !box.Hit(r, types.NewInterval(5, 10)) {
		t.Fatal("expected ray starting inside the box to hit")
	}
}

func TestAABBOriginOnBoundWithZeroDirection(t *testing.T) {
	box := NewAABB(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1))

	// The origin x component sits exactly on the box bound while the ray
	// direction has a zero x component.
	r := types.NewRay(types.XYZ(0, 0.5, -1), types.XYZ(0, 0, 1))
	if !box.Hit(r, types.NewInterval(0, math.Inf(1))) {
		t.Fatal("expected ray grazing the box face to hit")
	}
}

func TestEmptyAABB(t *testing.T) {
	empty := EmptyAABB()
	if !empty.IsEmpty() {
		t.Fatal("expected empty box to report itself as empty")
	}

	r := types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1))
	if empty.Hit(r, types.UniverseInterval) {
		t.Fatal("expected empty box to never be hit")
	}

	box := NewAABB(types.XYZ(1, 2, 3), types.XYZ(-1, -2, -3))
	if got := empty.Union(box); got != box {
		t.Fatalf("expected union with empty box to be %v; got %v", box, got)
	}
	if got := box.Union(empty); got != box {
		t.Fatalf("expected union with empty box to be %v; got %v", box, got)
	}
}

func TestAABBUnionContainsOperands(t *testing.T) {
	a := NewAABB(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1))
	b := NewAABB(types.XYZ(-2, 0.5, 3), types.XYZ(-1, 4, 5))

	u := a.Union(b)
	if !u.Contains(a) || !u.Contains(b) {
		t.Fatalf("expected union %v to contain both operands", u)
	}
	if u != b.Union(a) {
		t.Fatal("expected union to commute")
	}
	if exp := NewAABB(types.XYZ(-2, 0, 0), types.XYZ(1, 4, 5)); u != exp {
		t.Fatalf("expected union to be %v; got %v", exp, u)
	}
}

func TestAABBFromTriangleIsPadded(t *testing.T) {
	box := NewAABBFromTriangle(types.XYZ(0, 0, 1), types.XYZ(1, 0, 1), types.XYZ(0, 1, 1))

	if size := box.Z.Size(); size < minBoxSide {
		t.Fatalf("expected flat axis to be padded to at least %g; got %g", minBoxSide, size)
	}
	if box.Z.Min >= 1 || box.Z.Max <= 1 {
		t.Fatalf("expected padding to be symmetric around the plane; got %v", box.Z)
	}
	if box.X != types.NewInterval(0, 1) {
		t.Fatalf("expected wide axis to be left untouched; got %v", box.X)
	}

	// An axis-aligned triangle must still be hit by a ray perpendicular to it
	r := types.NewRay(types.XYZ(0.25, 0.25, 0), types.XYZ(0, 0, 1))
	if !box.Hit(r, types.NewInterval(0.001, 10)) {
		t.Fatal("expected padded box to be hit")
	}
}

func TestAABBCentroidAndLongestAxis(t *testing.T) {
	box := NewAABB(types.XYZ(2, -1, 0), types.XYZ(4, 5, 1))

	if got, exp := box.Centroid(), types.XYZ(3, 2, 0.5); got != exp {
		t.Fatalf("expected centroid to be %v; got %v", exp, got)
	}
	if got := box.LongestAxis(); got != 1 {
		t.Fatalf("expected longest axis to be 1; got %d", got)
	}
	if got, exp := box.SurfaceArea(), 2*(2*6+6*1+2*1.0); got != exp {
		t.Fatalf("expected surface area to be %g; got %g", exp, got)
	}
	if got := EmptyAABB().SurfaceArea(); got != 0 {
		t.Fatalf("expected empty box area to be 0; got %g", got)
	}
}

func TestAABBFromIntervals(t *testing.T) {
	x := types.NewInterval(-1, 1)
	y := types.NewInterval(2, 3)
	z := types.NewInterval(-5, -4)

	box := NewAABBFromIntervals(x, y, z)
	if exp := NewAABB(types.XYZ(1, 3, -4), types.XYZ(-1, 2, -5)); box != exp {
		t.Fatalf("expected box %v; got %v", exp, box)
	}
	if box.Axis(0) != x || box.Axis(1) != y || box.Axis(2) != z {
		t.Fatalf("expected axis intervals %v %v %v; got %v", x, y, z, box)
	}
}
