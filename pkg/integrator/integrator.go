package integrator

import "github.com/df07/go-render-regress/pkg/core"

// World is what an integrator needs from a scene
type World interface {
	Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool)
	Background(ray core.Ray) core.Vec3
}

// Integrator estimates the radiance arriving along a camera ray
type Integrator interface {
	RayColor(ray core.Ray, world World, sampler core.Sampler) core.Vec3
}
