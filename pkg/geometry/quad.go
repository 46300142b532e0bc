package geometry

import (
	"math"

	"github.com/df07/go-render-regress/pkg/core"
)

// Quad is a parallelogram spanned by U and V from Corner
type Quad struct {
	Corner   core.Vec3
	U, V     core.Vec3
	Material core.Material

	normal core.Vec3
	d      float64
	w      core.Vec3
}

func NewQuad(corner, u, v core.Vec3, material core.Material) *Quad {
	n := u.Cross(v)
	normal := n.Normalize()
	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Material: material,
		normal:   normal,
		d:        normal.Dot(corner),
		w:        n.Multiply(1.0 / n.LengthSquared()),
	}
}

// Normal is the unit normal of U x V
func (q *Quad) Normal() core.Vec3 {
	return q.normal
}

func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	denom := ray.Direction.Dot(q.normal)
	if math.Abs(denom) < 1e-8 {
		return nil, false
	}

	t := (q.d - ray.Origin.Dot(q.normal)) / denom
	if t < tMin || t > tMax {
		return nil, false
	}

	p := ray.At(t)
	rel := p.Subtract(q.Corner)
	alpha := q.w.Dot(rel.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(rel))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}

	hit := &core.HitRecord{T: t, Point: p, Material: q.Material}
	hit.SetFaceNormal(ray, q.normal)
	return hit, true
}
