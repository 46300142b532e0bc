package imaging

import (
	"bufio"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// IOError reports an image that could not be read or written
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("imaging: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Load decodes a PNG, BMP, TIFF or JPEG file. The format is sniffed from the content.
func Load(path string) (*Framebuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, &IOError{Op: "decode", Path: path, Err: err}
	}
	return FromImage(img), nil
}

// Save encodes fb with the lossless format matching the file extension
func Save(path string, fb *Framebuffer) error {
	encode, err := encoderFor(path)
	if err != nil {
		return &IOError{Op: "encode", Path: path, Err: err}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &IOError{Op: "create", Path: path, Err: err}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}

	w := bufio.NewWriter(f)
	if err := encode(w, fb.ToRGBA()); err != nil {
		f.Close()
		return &IOError{Op: "encode", Path: path, Err: err}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

type encodeFunc func(w *bufio.Writer, img image.Image) error

func encoderFor(path string) (encodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return func(w *bufio.Writer, img image.Image) error { return png.Encode(w, img) }, nil
	case ".tif", ".tiff":
		return func(w *bufio.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	case ".bmp":
		return func(w *bufio.Writer, img image.Image) error { return bmp.Encode(w, img) }, nil
	default:
		return nil, fmt.Errorf("unsupported lossless format %q", filepath.Ext(path))
	}
}
