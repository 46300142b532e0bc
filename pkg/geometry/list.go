package geometry

import "github.com/df07/go-render-regress/pkg/core"

// List tests every shape and keeps the closest hit.
type List []core.Shape

func (l List) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closest *core.HitRecord
	for _, s := range l {
		if hit, ok := s.Hit(ray, tMin, tMax); ok {
			closest = hit
			tMax = hit.T
		}
	}
	return closest, closest != nil
}
