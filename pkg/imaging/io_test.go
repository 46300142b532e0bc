package imaging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-render-regress/pkg/core"
)

func testPattern() *Framebuffer {
	fb := New(3, 2)
	fb.Set(0, 0, core.NewVec3(1, 1, 1))
	fb.Set(1, 0, core.NewVec3(1, 0, 0))
	fb.Set(2, 0, core.NewVec3(0, 1, 0))
	fb.Set(0, 1, core.NewVec3(0, 0, 1))
	fb.Set(1, 1, core.NewVec3(0.5, 0.25, 0.75))
	fb.Set(2, 1, core.NewVec3(2, -1, 0)) // out of range, clamps on save
	return fb
}

// TestSaveLoadLossless writes every supported format and checks the 8-bit values survive
func TestSaveLoadLossless(t *testing.T) {
	dir := t.TempDir()
	src := testPattern()
	want := FromImage(src.ToRGBA())

	for _, name := range []string{"out.png", "out.tiff", "out.tif", "out.bmp"} {
		path := filepath.Join(dir, name)
		if err := Save(path, src); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}

		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if !got.SameSize(want) {
			t.Fatalf("%s: expected %dx%d, got %dx%d", name, want.Width, want.Height, got.Width, got.Height)
		}
		for i := range want.Pix {
			if got.Pix[i] != want.Pix[i] {
				t.Errorf("%s: pixel %d expected %v, got %v", name, i, want.Pix[i], got.Pix[i])
			}
		}
	}
}

func TestSaveRejectsLossyOrUnknownFormats(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.jpg", "out.gif", "out"} {
		if err := Save(filepath.Join(dir, name), testPattern()); err == nil {
			t.Errorf("Save(%s): expected error", name)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist in chain, got %v", err)
	}
}

func TestToColorRoundsAndClamps(t *testing.T) {
	c := ToColor(core.NewVec3(0.5, 1.5, -0.2))
	if c.R != 128 || c.G != 255 || c.B != 0 || c.A != 255 {
		t.Errorf("unexpected colour %v", c)
	}
}
