package scene

import (
	"fmt"
)

// A Scene bundles the primitives to be rendered with a camera setup.
type Scene struct {
	Name string

	Camera     CameraOptions
	Primitives []Primitive
}

// Create a new scene with the given camera.
func NewScene(name string, camera CameraOptions) *Scene {
	return &Scene{
		Name:       name,
		Camera:     camera,
		Primitives: make([]Primitive, 0),
	}
}

// Add one or more primitives to the scene. Every primitive must have a
// material assigned.
func (s *Scene) Add(prims ...Primitive) error {
	for _, prim := range prims {
		if err := validate(prim); err != nil {
			return err
		}
	}
	s.Primitives = append(s.Primitives, prims...)
	return nil
}

// Bounds returns the box enclosing every primitive in the scene.
func (s *Scene) Bounds() AABB {
	box := EmptyAABB()
	for _, prim := range s.Primitives {
		box = box.Union(prim.BBox())
	}
	return box
}

func validate(prim Primitive) error {
	switch prim.Type {
	case SpherePrimitive:
		if prim.Sphere == nil {
			return fmt.Errorf("scene: sphere primitive has no geometry")
		}
	case TrianglePrimitive:
		if prim.Triangle == nil {
			return fmt.Errorf("scene: triangle primitive has no geometry")
		}
	case QuadPrimitive:
		if prim.Quad == nil {
			return fmt.Errorf("scene: quad primitive has no geometry")
		}
	default:
		return fmt.Errorf("scene: unsupported primitive type %d", prim.Type)
	}

	if prim.Material() == nil {
		return fmt.Errorf("scene: no material assigned to primitive")
	}
	return nil
}
