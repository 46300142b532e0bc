package core

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand"
	"strings"
)

// SamplerType names a pixel sampler as it appears in the sampler.type property
type SamplerType string

const (
	SamplerRandom SamplerType = "RANDOM"
	SamplerSobol  SamplerType = "SOBOL"
)

// SamplerTypes lists the samplers NewSampler understands
func SamplerTypes() []SamplerType {
	return []SamplerType{SamplerRandom, SamplerSobol}
}

// ParseSamplerType is case insensitive
func ParseSamplerType(name string) (SamplerType, error) {
	t := SamplerType(strings.ToUpper(strings.TrimSpace(name)))
	for _, known := range SamplerTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown sampler type %q", name)
}

// Sampler produces the random numbers consumed while tracing one pixel sample.
// StartPixelSample must be called before the first Get of every sample.
type Sampler interface {
	StartPixelSample(x, y, index int)
	Get1D() float64
	Get2D() Vec2
}

// NewSampler creates a sampler of the given type drawing from random
func NewSampler(t SamplerType, random *rand.Rand, seed int64) (Sampler, error) {
	switch t {
	case SamplerRandom:
		return NewRandomSampler(random), nil
	case SamplerSobol:
		return NewSobolSampler(random, seed), nil
	default:
		return nil, fmt.Errorf("unknown sampler type %q", t)
	}
}

// RandomSampler returns independent uniform values for every dimension
type RandomSampler struct {
	random *rand.Rand
}

func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

func (r *RandomSampler) StartPixelSample(x, y, index int) {}

func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// SobolSampler stratifies the pixel footprint with a scrambled (0,2)-sequence
// and falls back to uniform random values for the remaining dimensions.
type SobolSampler struct {
	random     *rand.Rand
	seed       uint32
	index      uint32
	scrambleX  uint32
	scrambleY  uint32
	pixelTaken bool
}

func NewSobolSampler(random *rand.Rand, seed int64) *SobolSampler {
	return &SobolSampler{random: random, seed: uint32(seed)}
}

func (s *SobolSampler) StartPixelSample(x, y, index int) {
	h := mixBits(uint32(x)*0x9e3779b1 ^ uint32(y)*0x85ebca77 ^ s.seed)
	s.scrambleX = h
	s.scrambleY = mixBits(h ^ 0x68bc21eb)
	s.index = uint32(index)
	s.pixelTaken = false
}

func (s *SobolSampler) Get1D() float64 {
	return s.random.Float64()
}

func (s *SobolSampler) Get2D() Vec2 {
	if s.pixelTaken {
		return NewVec2(s.random.Float64(), s.random.Float64())
	}
	s.pixelTaken = true
	return NewVec2(vanDerCorput(s.index, s.scrambleX), sobol2(s.index, s.scrambleY))
}

func vanDerCorput(n, scramble uint32) float64 {
	return float64(bits.Reverse32(n)^scramble) / (1 << 32)
}

func sobol2(n, scramble uint32) float64 {
	for v := uint32(1 << 31); n != 0; n >>= 1 {
		if n&1 != 0 {
			scramble ^= v
		}
		v ^= v >> 1
	}
	return float64(scramble) / (1 << 32)
}

// mixBits is the murmur3 finaliser
func mixBits(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// SampleCosineHemisphere maps a uniform 2D sample to a cosine-weighted direction around normal
func SampleCosineHemisphere(normal Vec3, u Vec2) Vec3 {
	phi := 2.0 * math.Pi * u.X
	r := math.Sqrt(u.Y)
	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	z := math.Sqrt(math.Max(0, 1.0-u.Y))

	tangent, bitangent := OrthonormalBasis(normal)
	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(z))
}

// SampleInUnitSphere maps a uniform 2D sample plus a radius sample to a point inside the unit sphere
func SampleInUnitSphere(u Vec2, radius float64) Vec3 {
	z := 1.0 - 2.0*u.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * u.Y
	dir := NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
	return dir.Multiply(math.Cbrt(radius))
}

// OrthonormalBasis returns two unit vectors perpendicular to n and to each other
func OrthonormalBasis(n Vec3) (Vec3, Vec3) {
	var a Vec3
	if math.Abs(n.X) > 0.1 {
		a = NewVec3(0, 1, 0)
	} else {
		a = NewVec3(1, 0, 0)
	}
	t := a.Cross(n).Normalize()
	return t, n.Cross(t)
}
