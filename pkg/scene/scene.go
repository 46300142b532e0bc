// Package scene turns scene property files into something the integrator can render.
//
// A scene file uses the same key = value syntax as render configurations:
//
//	scene.camera.lookat = 0 1 4  0 0.5 0
//	scene.camera.fieldofview = 40
//	scene.materials.red.type = matte
//	scene.materials.red.kd = 0.7 0.1 0.1
//	scene.objects.ball.shape = sphere
//	scene.objects.ball.center = 0 0.5 0
//	scene.objects.ball.radius = 0.5
//	scene.objects.ball.material = red
package scene

import (
	"github.com/df07/go-render-regress/pkg/core"
	"github.com/df07/go-render-regress/pkg/geometry"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	CameraConfig CameraConfig
	Shapes       geometry.List
	Materials    map[string]core.Material
	Top, Bottom  core.Vec3 // background gradient
}

func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	return s.Shapes.Hit(ray, tMin, tMax)
}

// Background blends Bottom to Top by the ray's vertical direction
func (s *Scene) Background(ray core.Ray) core.Vec3 {
	t := 0.5 * (ray.Direction.Normalize().Y + 1.0)
	return s.Bottom.Multiply(1.0 - t).Add(s.Top.Multiply(t))
}

// NewCamera builds the scene camera for a film with the given aspect ratio
func (s *Scene) NewCamera(aspectRatio float64) *Camera {
	return NewCamera(s.CameraConfig, aspectRatio)
}
