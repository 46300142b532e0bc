package integrator

import (
	"math"

	"github.com/df07/go-render-regress/pkg/core"
)

const (
	rayEpsilon = 0.001
	rayFar     = 1000.0
)

// PathTracingIntegrator implements unidirectional path tracing with russian roulette
type PathTracingIntegrator struct {
	MaxDepth int // maximum number of bounces
	RRDepth  int // bounces before russian roulette may terminate a path
}

func NewPathTracingIntegrator(maxDepth, rrDepth int) *PathTracingIntegrator {
	return &PathTracingIntegrator{MaxDepth: maxDepth, RRDepth: rrDepth}
}

// RayColor computes the radiance carried back along ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world World, sampler core.Sampler) core.Vec3 {
	return pt.trace(ray, world, sampler, pt.MaxDepth, core.Splat(1))
}

func (pt *PathTracingIntegrator) trace(ray core.Ray, world World, sampler core.Sampler, depth int, throughput core.Vec3) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	terminate, compensation := pt.russianRoulette(depth, throughput, sampler)
	if terminate {
		return core.Vec3{}
	}

	hit, ok := world.Hit(ray, rayEpsilon, rayFar)
	if !ok {
		return world.Background(ray).Multiply(compensation)
	}

	emitted := core.Vec3{}
	if emitter, ok := hit.Material.(core.Emitter); ok {
		emitted = emitter.Emit(ray, *hit)
	}

	if hit.Material == nil {
		return emitted.Multiply(compensation)
	}
	scatter, ok := hit.Material.Scatter(ray, *hit, sampler)
	if !ok {
		return emitted.Multiply(compensation)
	}

	var scattered core.Vec3
	if scatter.IsSpecular() {
		next := throughput.MultiplyVec(scatter.Attenuation)
		scattered = scatter.Attenuation.MultiplyVec(pt.trace(scatter.Scattered, world, sampler, depth-1, next))
	} else {
		cosine := scatter.Scattered.Direction.Normalize().Dot(hit.Normal)
		if cosine > 0 {
			weight := scatter.Attenuation.Multiply(cosine / scatter.PDF)
			scattered = weight.MultiplyVec(pt.trace(scatter.Scattered, world, sampler, depth-1, throughput.MultiplyVec(weight)))
		}
	}

	return emitted.Add(scattered).Multiply(compensation)
}

// russianRoulette returns whether to terminate the path and the compensation for surviving it
func (pt *PathTracingIntegrator) russianRoulette(depth int, throughput core.Vec3, sampler core.Sampler) (bool, float64) {
	bounce := pt.MaxDepth - depth
	if bounce < pt.RRDepth {
		return false, 1.0
	}

	survival := math.Min(0.95, math.Max(0.5, throughput.Luminance()))
	if sampler.Get1D() > survival {
		return true, 0
	}
	return false, 1.0 / survival
}
