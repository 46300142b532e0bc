package material

import "github.com/df07/go-render-regress/pkg/core"

// Metal reflects specularly. Fuzz perturbs the mirror direction; zero is a perfect mirror.
type Metal struct {
	Albedo core.Vec3
	Fuzz   float64
}

func NewMetal(albedo core.Vec3, fuzz float64) *Metal {
	return &Metal{Albedo: albedo, Fuzz: min(max(fuzz, 0), 1)}
}

func (m *Metal) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	reflected := reflectVector(rayIn.Direction.Normalize(), hit.Normal)
	if m.Fuzz > 0 {
		reflected = reflected.Add(core.SampleInUnitSphere(sampler.Get2D(), sampler.Get1D()).Multiply(m.Fuzz))
	}

	// Rays fuzzed below the surface are absorbed
	if reflected.Dot(hit.Normal) <= 0 {
		return core.ScatterResult{}, false
	}

	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, reflected.Normalize()),
		Attenuation: m.Albedo,
	}, true
}
