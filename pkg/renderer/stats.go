package renderer

import (
	"time"

	"github.com/df07/go-render-regress/pkg/core"
)

// Stats summarises the progress of a session
type Stats struct {
	Width, Height   int
	Passes          int           // completed render steps
	SamplesPerPixel int           // samples accumulated in every pixel
	TotalSamples    int64         // SamplesPerPixel * Width * Height
	Elapsed         time.Duration // time spent inside render steps
	Workers         int
	Tiles           int
}

// SamplesPerSecond is zero until some time has been spent rendering
func (s Stats) SamplesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Elapsed.Seconds()
}

// PixelStats accumulates the samples taken for a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3
	SampleCount int
}

func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average colour
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}
