package types

// A ray with an origin and a (not necessarily normalized) direction.
type Ray struct {
	Origin    Point3
	Direction Vec3
}

// Create a new ray.
func NewRay(origin Point3, dir Vec3) Ray {
	return Ray{Origin: origin, Direction: dir}
}

// At returns the point origin + t * direction.
func (r Ray) At(t float64) Point3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
