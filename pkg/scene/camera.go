package scene

import (
	"math"

	"github.com/df07/go-render-regress/pkg/core"
)

// CameraConfig describes a thin-lens perspective camera
type CameraConfig struct {
	Center        core.Vec3
	LookAt        core.Vec3
	Up            core.Vec3
	VFov          float64 // vertical field of view in degrees
	Aperture      float64 // lens diameter, zero for a pinhole
	FocusDistance float64 // zero focuses on LookAt
}

// Camera generates primary rays for normalized screen coordinates
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v            core.Vec3
	lensRadius      float64
}

// NewCamera builds a camera whose viewport matches the given width/height ratio
func NewCamera(cfg CameraConfig, aspectRatio float64) *Camera {
	theta := cfg.VFov * math.Pi / 180
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := aspectRatio * viewportHeight

	w := cfg.Center.Subtract(cfg.LookAt).Normalize()
	u := cfg.Up.Cross(w).Normalize()
	v := w.Cross(u)

	focus := cfg.FocusDistance
	if focus <= 0 {
		focus = cfg.Center.Subtract(cfg.LookAt).Length()
	}

	horizontal := u.Multiply(viewportWidth * focus)
	vertical := v.Multiply(viewportHeight * focus)
	lowerLeft := cfg.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focus))

	return &Camera{
		origin:          cfg.Center,
		lowerLeftCorner: lowerLeft,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		lensRadius:      cfg.Aperture / 2,
	}
}

// GetRay returns the ray through (s, t) where 0 <= s,t <= 1 and t=1 is the top of the image.
// The sampler is only consulted for depth of field.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		d := sampleUnitDisk(sampler.Get2D()).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(d.X)).Add(c.v.Multiply(d.Y))
	}

	target := c.lowerLeftCorner.Add(c.horizontal.Multiply(s)).Add(c.vertical.Multiply(t))
	return core.NewRay(origin, target.Subtract(origin).Normalize())
}

func sampleUnitDisk(u core.Vec2) core.Vec3 {
	r := math.Sqrt(u.X)
	phi := 2 * math.Pi * u.Y
	return core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), 0)
}
