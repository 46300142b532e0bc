package material

import (
	"math"

	"github.com/df07/go-render-regress/pkg/core"
)

// Lambertian is an ideal diffuse surface
type Lambertian struct {
	Albedo core.Vec3
}

func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter samples a cosine-weighted direction. Attenuation is the BRDF (albedo/pi).
func (l *Lambertian) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	direction := core.SampleCosineHemisphere(hit.Normal, sampler.Get2D())
	if direction.NearZero() {
		direction = hit.Normal
	}
	direction = direction.Normalize()

	cosTheta := direction.Dot(hit.Normal)
	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: l.Albedo.Multiply(1.0 / math.Pi),
		PDF:         cosTheta / math.Pi,
	}, true
}
