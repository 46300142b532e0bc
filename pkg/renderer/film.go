package renderer

import (
	"github.com/df07/go-render-regress/pkg/imaging"
)

// Film holds the linear radiance estimate of every pixel.
// Tiles write disjoint pixel ranges so concurrent tile renders need no locking.
type Film struct {
	Width, Height int
	pixels        []PixelStats
}

func NewFilm(width, height int) *Film {
	return &Film{Width: width, Height: height, pixels: make([]PixelStats, width*height)}
}

func (f *Film) Pixel(x, y int) *PixelStats {
	return &f.pixels[y*f.Width+x]
}

// Resolve converts the estimate to display space
func (f *Film) Resolve(gamma float64) *imaging.Framebuffer {
	fb := imaging.New(f.Width, f.Height)
	for i := range f.pixels {
		fb.Pix[i] = f.pixels[i].GetColor().GammaCorrect(gamma).Clamp(0, 1)
	}
	return fb
}

// MinSamples is the smallest sample count of any pixel
func (f *Film) MinSamples() int {
	if len(f.pixels) == 0 {
		return 0
	}
	lo := f.pixels[0].SampleCount
	for i := range f.pixels {
		lo = min(lo, f.pixels[i].SampleCount)
	}
	return lo
}
