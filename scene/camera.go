package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/achilleasa/prism/types"
)

// CameraOptions describe the placement and lens of a pinhole/thin-lens camera.
type CameraOptions struct {
	LookFrom types.Point3
	LookAt   types.Point3
	VUp      types.Vec3

	// Vertical field of view in degrees.
	VFov float64

	// Variation angle of rays through each pixel; 0 disables depth of field.
	DefocusAngle float64

	// Distance from LookFrom to the plane of perfect focus. If zero, the
	// distance between LookFrom and LookAt is used.
	FocusDist float64
}

func (o CameraOptions) String() string {
	return fmt.Sprintf(
		"from: %v, at: %v, up: %v, vfov: %3.1f, defocus: %3.2f, focus: %3.2f",
		o.LookFrom, o.LookAt, o.VUp, o.VFov, o.DefocusAngle, o.FocusDist,
	)
}

// The camera generates primary rays for a frame of fixed dimensions.
type Camera struct {
	Options CameraOptions

	FrameW, FrameH uint32

	center       types.Point3
	pixel00      types.Point3
	pixelDeltaU  types.Vec3
	pixelDeltaV  types.Vec3
	defocusDiskU types.Vec3
	defocusDiskV types.Vec3
	u, v, w      types.Vec3
}

// Setup a camera for a frameW x frameH frame.
func NewCamera(opts CameraOptions, frameW, frameH uint32) *Camera {
	if frameW < 1 {
		frameW = 1
	}
	if frameH < 1 {
		frameH = 1
	}
	if opts.FocusDist <= 0 {
		opts.FocusDist = opts.LookFrom.Sub(opts.LookAt).Len()
	}

	c := &Camera{
		Options: opts,
		FrameW:  frameW,
		FrameH:  frameH,
		center:  opts.LookFrom,
	}

	theta := opts.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2)
	viewportH := 2.0 * h * opts.FocusDist
	viewportW := viewportH * float64(frameW) / float64(frameH)

	// Orthonormal camera basis
	c.w = opts.LookFrom.Sub(opts.LookAt).Normalize()
	c.u = opts.VUp.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	// Vectors along the horizontal and down the vertical viewport edges
	viewportU := c.u.Mul(viewportW)
	viewportV := c.v.Mul(-viewportH)

	c.pixelDeltaU = viewportU.Mul(1.0 / float64(frameW))
	c.pixelDeltaV = viewportV.Mul(1.0 / float64(frameH))

	upperLeft := c.center.
		Sub(c.w.Mul(opts.FocusDist)).
		Sub(viewportU.Mul(0.5)).
		Sub(viewportV.Mul(0.5))
	c.pixel00 = upperLeft.Add(c.pixelDeltaU.Add(c.pixelDeltaV).Mul(0.5))

	defocusRadius := opts.FocusDist * math.Tan(opts.DefocusAngle*math.Pi/360.0)
	c.defocusDiskU = c.u.Mul(defocusRadius)
	c.defocusDiskV = c.v.Mul(defocusRadius)

	return c
}

// Ray returns a ray through a random point inside pixel (i, j). When depth
// of field is enabled the ray originates from a random point on the lens disk.
func (c *Camera) Ray(i, j uint32, rng *rand.Rand) types.Ray {
	offX := rng.Float64() - 0.5
	offY := rng.Float64() - 0.5

	sample := c.pixel00.
		Add(c.pixelDeltaU.Mul(float64(i) + offX)).
		Add(c.pixelDeltaV.Mul(float64(j) + offY))

	origin := c.center
	if c.Options.DefocusAngle > 0 {
		p := randomInUnitDisk(rng)
		origin = origin.Add(c.defocusDiskU.Mul(p[0])).Add(c.defocusDiskV.Mul(p[1]))
	}

	return types.NewRay(origin, sample.Sub(origin))
}

// CenterRay returns the ray through the exact center of pixel (i, j) from the
// camera center.
func (c *Camera) CenterRay(i, j uint32) types.Ray {
	target := c.pixel00.
		Add(c.pixelDeltaU.Mul(float64(i))).
		Add(c.pixelDeltaV.Mul(float64(j)))
	return types.NewRay(c.center, target.Sub(c.center))
}

func randomInUnitDisk(rng *rand.Rand) types.Vec3 {
	for {
		p := types.XYZ(2*rng.Float64()-1, 2*rng.Float64()-1, 0)
		if p.LenSq() < 1 {
			return p
		}
	}
}
