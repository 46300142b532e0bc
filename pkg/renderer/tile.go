package renderer

import (
	"image"
	"math/rand"

	"github.com/df07/go-render-regress/pkg/core"
)

// Tile is a rectangular region of the film with its own sample stream
type Tile struct {
	ID      int
	Bounds  image.Rectangle
	Random  *rand.Rand
	Sampler core.Sampler
}

// tileSeed derives the seed of one tile from the session seed.
// The +42 avoids a zero seed for tile 0.
func tileSeed(seed int64, id int) int64 {
	return seed*1_000_003 + int64(id) + 42
}

func NewTile(id int, bounds image.Rectangle, seed int64, samplerType core.SamplerType) (*Tile, error) {
	s := tileSeed(seed, id)
	random := rand.New(rand.NewSource(s))
	sampler, err := core.NewSampler(samplerType, random, s)
	if err != nil {
		return nil, err
	}
	return &Tile{ID: id, Bounds: bounds, Random: random, Sampler: sampler}, nil
}

// NewTileGrid covers a width x height film with tiles in row-major order
func NewTileGrid(width, height, tileSize int, seed int64, samplerType core.SamplerType) ([]*Tile, error) {
	var tiles []*Tile
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0, y0 := tx*tileSize, ty*tileSize
			bounds := image.Rect(x0, y0, min(x0+tileSize, width), min(y0+tileSize, height))
			tile, err := NewTile(len(tiles), bounds, seed, samplerType)
			if err != nil {
				return nil, err
			}
			tiles = append(tiles, tile)
		}
	}
	return tiles, nil
}
