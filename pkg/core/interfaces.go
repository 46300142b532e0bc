package core

// Logger is the minimal logging surface the renderer needs
type Logger interface {
	Printf(format string, args ...interface{})
}

// Shape is anything a ray can hit
type Shape interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
}

// Material decides how light leaves a surface
type Material interface {
	Scatter(rayIn Ray, hit HitRecord, sampler Sampler) (ScatterResult, bool)
}

// Emitter is implemented by materials that emit light
type Emitter interface {
	Emit(rayIn Ray, hit HitRecord) Vec3
}

// ScatterResult describes one scattering event.
// For diffuse lobes Attenuation holds the BRDF value and PDF the density of Scattered.
// Specular lobes set PDF to zero and Attenuation to the full throughput weight.
type ScatterResult struct {
	Scattered   Ray
	Attenuation Vec3
	PDF         float64
}

// IsSpecular reports whether the scatter was a delta lobe
func (s ScatterResult) IsSpecular() bool {
	return s.PDF <= 0
}

// HitRecord describes a ray-surface intersection
type HitRecord struct {
	Point     Vec3
	Normal    Vec3 // always faces against the incoming ray
	T         float64
	FrontFace bool
	Material  Material
}

// SetFaceNormal orients Normal against the ray and records which side was hit
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
