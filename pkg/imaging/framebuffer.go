// Package imaging holds the float framebuffer shared by the renderer and the
// comparator, and reads and writes it in lossless image formats.
package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-render-regress/pkg/core"
)

// Framebuffer is a row-major RGB image with components in display space, nominally [0,1]
type Framebuffer struct {
	Width  int
	Height int
	Pix    []core.Vec3
}

// New allocates a black framebuffer
func New(width, height int) *Framebuffer {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("imaging: negative framebuffer size %dx%d", width, height))
	}
	return &Framebuffer{Width: width, Height: height, Pix: make([]core.Vec3, width*height)}
}

func (fb *Framebuffer) At(x, y int) core.Vec3 {
	return fb.Pix[y*fb.Width+x]
}

func (fb *Framebuffer) Set(x, y int, c core.Vec3) {
	fb.Pix[y*fb.Width+x] = c
}

// SameSize reports whether fb and o have identical dimensions
func (fb *Framebuffer) SameSize(o *Framebuffer) bool {
	return fb.Width == o.Width && fb.Height == o.Height
}

func (fb *Framebuffer) Clone() *Framebuffer {
	return &Framebuffer{
		Width:  fb.Width,
		Height: fb.Height,
		Pix:    append([]core.Vec3(nil), fb.Pix...),
	}
}

// ToRGBA quantises to 8 bits per channel, clamping to [0,1] and rounding to nearest
func (fb *Framebuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, ToColor(fb.At(x, y)))
		}
	}
	return img
}

// ToColor converts a display-space colour to 8-bit RGBA
func ToColor(c core.Vec3) color.RGBA {
	c = c.Clamp(0, 1)
	return color.RGBA{
		R: uint8(255*c.X + 0.5),
		G: uint8(255*c.Y + 0.5),
		B: uint8(255*c.Z + 0.5),
		A: 255,
	}
}

// FromImage converts any image to a framebuffer, dropping alpha
func FromImage(img image.Image) *Framebuffer {
	b := img.Bounds()
	fb := New(b.Dx(), b.Dy())
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, bl, _ := img.At(x+b.Min.X, y+b.Min.Y).RGBA()
			fb.Set(x, y, core.NewVec3(float64(r)/65535, float64(g)/65535, float64(bl)/65535))
		}
	}
	return fb
}
