package renderer

import (
	"image"
	"testing"

	"github.com/df07/go-render-regress/pkg/core"
)

func TestTileGridCoversFilm(t *testing.T) {
	tiles, err := NewTileGrid(70, 33, 32, 1, core.SamplerRandom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tiles) != 6 {
		t.Fatalf("expected 3x2 tiles, got %d", len(tiles))
	}

	covered := make(map[image.Point]int)
	for i, tile := range tiles {
		if tile.ID != i {
			t.Errorf("expected tile id %d, got %d", i, tile.ID)
		}
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				covered[image.Pt(x, y)]++
			}
		}
	}
	if len(covered) != 70*33 {
		t.Errorf("expected every pixel covered, got %d", len(covered))
	}
	for p, n := range covered {
		if n != 1 {
			t.Fatalf("pixel %v covered %d times", p, n)
		}
	}
	if last := tiles[5].Bounds; last != image.Rect(64, 32, 70, 33) {
		t.Errorf("unexpected edge tile %v", last)
	}
}

func TestTileSeedsAreDeterministic(t *testing.T) {
	a, _ := NewTileGrid(64, 64, 32, 7, core.SamplerRandom)
	b, _ := NewTileGrid(64, 64, 32, 7, core.SamplerRandom)
	c, _ := NewTileGrid(64, 64, 32, 8, core.SamplerRandom)

	for i := range a {
		va, vb, vc := a[i].Random.Int63(), b[i].Random.Int63(), c[i].Random.Int63()
		if va != vb {
			t.Errorf("tile %d: same seed gave different streams", i)
		}
		if va == vc {
			t.Errorf("tile %d: different seeds gave the same stream", i)
		}
	}
}

func TestFilmResolve(t *testing.T) {
	film := NewFilm(2, 1)
	film.Pixel(0, 0).AddSample(core.NewVec3(0.25, 0.25, 0.25))
	film.Pixel(0, 0).AddSample(core.NewVec3(0.25, 0.25, 0.25))
	film.Pixel(1, 0).AddSample(core.NewVec3(4, -1, 1))

	fb := film.Resolve(2.0)
	if got := fb.At(0, 0); got != core.NewVec3(0.5, 0.5, 0.5) {
		t.Errorf("expected gamma 2 of 0.25 to be 0.5, got %v", got)
	}
	if got := fb.At(1, 0); got != core.NewVec3(1, 0, 1) {
		t.Errorf("expected clamped pixel, got %v", got)
	}
	if film.MinSamples() != 1 {
		t.Errorf("expected min samples 1, got %d", film.MinSamples())
	}
}
