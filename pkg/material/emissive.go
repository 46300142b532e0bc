package material

import "github.com/df07/go-render-regress/pkg/core"

// Emissive adds emitted radiance on top of an optional base material.
// A nil Base emits without scattering.
type Emissive struct {
	Base     core.Material
	Emission core.Vec3
}

func NewEmissive(base core.Material, emission core.Vec3) *Emissive {
	return &Emissive{Base: base, Emission: emission}
}

func (e *Emissive) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	if e.Base == nil {
		return core.ScatterResult{}, false
	}
	return e.Base.Scatter(rayIn, hit, sampler)
}

// Emit only radiates from the front face
func (e *Emissive) Emit(rayIn core.Ray, hit core.HitRecord) core.Vec3 {
	if !hit.FrontFace {
		return core.Vec3{}
	}
	return e.Emission
}
