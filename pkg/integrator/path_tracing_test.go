package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-render-regress/pkg/core"
	"github.com/df07/go-render-regress/pkg/geometry"
	"github.com/df07/go-render-regress/pkg/material"
)

// testWorld is a shape list under a constant sky
type testWorld struct {
	shapes geometry.List
	sky    core.Vec3
}

func (w testWorld) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	return w.shapes.Hit(ray, tMin, tMax)
}

func (w testWorld) Background(ray core.Ray) core.Vec3 {
	return w.sky
}

func newSampler(seed int64) core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(seed)))
}

func TestPathTracing_MissReturnsBackground(t *testing.T) {
	pt := NewPathTracingIntegrator(8, 3)
	world := testWorld{sky: core.NewVec3(0.2, 0.4, 0.6)}

	color := pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), world, newSampler(1))
	if color != world.sky {
		t.Errorf("expected sky %v, got %v", world.sky, color)
	}
}

func TestPathTracing_ZeroDepthIsBlack(t *testing.T) {
	pt := NewPathTracingIntegrator(0, 0)
	world := testWorld{sky: core.Splat(1)}

	if color := pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), world, newSampler(1)); color != (core.Vec3{}) {
		t.Errorf("expected black, got %v", color)
	}
}

func TestPathTracing_EmitterSeenDirectly(t *testing.T) {
	pt := NewPathTracingIntegrator(4, 4)
	light := material.NewEmissive(nil, core.NewVec3(3, 2, 1))
	world := testWorld{shapes: geometry.List{geometry.NewSphere(core.NewVec3(0, 0, -3), 1, light)}}

	color := pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), world, newSampler(1))
	if color != core.NewVec3(3, 2, 1) {
		t.Errorf("expected emission, got %v", color)
	}
}

func TestPathTracing_MirrorReflectsSky(t *testing.T) {
	pt := NewPathTracingIntegrator(4, 4)
	mirror := material.NewMetal(core.Splat(0.5), 0)
	world := testWorld{
		shapes: geometry.List{geometry.NewSphere(core.NewVec3(0, 0, -3), 1, mirror)},
		sky:    core.Splat(1),
	}

	color := pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), world, newSampler(1))
	if math.Abs(color.X-0.5) > 1e-9 {
		t.Errorf("expected half the sky, got %v", color)
	}
}

// A white diffuse floor under a uniform sky converges to the sky radiance
// times the albedo for a single bounce.
func TestPathTracing_DiffuseFloorEstimate(t *testing.T) {
	pt := NewPathTracingIntegrator(2, 2)
	floor := geometry.NewQuad(core.NewVec3(-100, 0, -100), core.NewVec3(0, 0, 200), core.NewVec3(200, 0, 0),
		material.NewLambertian(core.Splat(0.5)))
	world := testWorld{shapes: geometry.List{floor}, sky: core.Splat(1)}

	sampler := newSampler(7)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	sum := 0.0
	const n = 2000
	for i := 0; i < n; i++ {
		sum += pt.RayColor(ray, world, sampler).X
	}
	if mean := sum / n; math.Abs(mean-0.5) > 0.02 {
		t.Errorf("expected about 0.5, got %f", mean)
	}
}

func TestRussianRoulette(t *testing.T) {
	pt := NewPathTracingIntegrator(8, 3)
	sampler := newSampler(3)

	// Before RRDepth paths always survive uncompensated
	if stop, c := pt.russianRoulette(8, core.Splat(0.01), sampler); stop || c != 1 {
		t.Errorf("expected no roulette at first bounce, got %v %f", stop, c)
	}

	survived := 0
	for i := 0; i < 1000; i++ {
		stop, c := pt.russianRoulette(2, core.Splat(1), sampler)
		if !stop {
			survived++
			if math.Abs(c-1/0.95) > 1e-12 {
				t.Fatalf("expected compensation 1/0.95, got %f", c)
			}
		}
	}
	if survived < 900 {
		t.Errorf("bright paths should survive about 95%% of the time, got %d/1000", survived)
	}
}
