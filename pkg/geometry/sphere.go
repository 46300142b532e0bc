package geometry

import (
	"math"

	"github.com/df07/go-render-regress/pkg/core"
)

// Sphere is a sphere with a single material
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material core.Material
}

func NewSphere(center core.Vec3, radius float64, material core.Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: material}
}

// Hit returns the nearest intersection with t in [tMin, tMax]
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	hit := &core.HitRecord{T: root, Point: ray.At(root), Material: s.Material}
	hit.SetFaceNormal(ray, hit.Point.Subtract(s.Center).Multiply(1.0/s.Radius))
	return hit, true
}
