package material

import (
	"math"

	"github.com/df07/go-render-regress/pkg/core"
)

// Dielectric is clear glass that reflects or refracts by Fresnel weight
type Dielectric struct {
	RefractiveIndex float64
}

func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

func (d *Dielectric) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	ratio := d.RefractiveIndex
	if hit.FrontFace {
		ratio = 1.0 / d.RefractiveIndex
	}

	unit := rayIn.Direction.Normalize()
	cosTheta := math.Min(-unit.Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	var direction core.Vec3
	if ratio*sinTheta > 1.0 || Reflectance(cosTheta, ratio) > sampler.Get1D() {
		direction = reflectVector(unit, hit.Normal)
	} else {
		direction = refractVector(unit, hit.Normal, ratio)
	}

	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: core.Splat(1),
	}, true
}

func reflectVector(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// refractVector applies Snell's law to the unit vector uv
func refractVector(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	perp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	parallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - perp.LengthSquared())))
	return perp.Add(parallel)
}

// Reflectance is Schlick's approximation of the Fresnel term
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
