package renderer

import (
	"math"

	"github.com/df07/go-render-regress/pkg/core"
	"github.com/df07/go-render-regress/pkg/integrator"
	"github.com/df07/go-render-regress/pkg/scene"
)

// TileRenderer traces camera rays for the pixels of a tile
type TileRenderer struct {
	world      integrator.World
	camera     *scene.Camera
	integrator integrator.Integrator
	width      int
	height     int
}

func NewTileRenderer(world integrator.World, camera *scene.Camera, integ integrator.Integrator, width, height int) *TileRenderer {
	return &TileRenderer{world: world, camera: camera, integrator: integ, width: width, height: height}
}

// RenderTile adds samples to every pixel of the tile and returns the number of samples taken
func (tr *TileRenderer) RenderTile(tile *Tile, film *Film, samples int) int {
	taken := 0
	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			ps := film.Pixel(x, y)
			for i := 0; i < samples; i++ {
				ps.AddSample(tr.samplePixel(tile.Sampler, x, y, ps.SampleCount))
				taken++
			}
		}
	}
	return taken
}

func (tr *TileRenderer) samplePixel(sampler core.Sampler, x, y, index int) core.Vec3 {
	sampler.StartPixelSample(x, y, index)
	jitter := sampler.Get2D()
	s := (float64(x) + jitter.X) / float64(tr.width)
	t := 1.0 - (float64(y)+jitter.Y)/float64(tr.height)

	color := tr.integrator.RayColor(tr.camera.GetRay(s, t, sampler), tr.world, sampler)
	if invalidColor(color) {
		return core.Vec3{}
	}
	return color
}

// invalidColor catches NaN and Inf samples, which would poison the pixel average
func invalidColor(c core.Vec3) bool {
	for _, v := range [3]float64{c.X, c.Y, c.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
