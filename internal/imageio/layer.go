// Package imageio provides image loading for annotation sources.
package imageio

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"anno-studio/pkg/geometry"

	_ "golang.org/x/image/tiff"
)

// Layer is a loaded annotation source image.
type Layer struct {
	Path    string      // Original file path
	Image   image.Image // Loaded image data
	Visible bool        // Layer visibility
	Opacity float64     // Layer opacity (0.0 - 1.0)

	rgba *image.RGBA // Cached RGBA conversion for fast sampling
}

// NewLayer creates a new Layer with default settings.
func NewLayer() *Layer {
	return &Layer{
		Visible: true,
		Opacity: 1.0,
	}
}

// Load loads an image (PNG, JPEG, or TIFF) and returns a Layer.
func Load(path string) (*Layer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	layer := NewLayer()
	layer.Path = path
	layer.Image = img
	return layer, nil
}

// FromImage wraps an already-decoded image (e.g. a video frame) in a Layer.
func FromImage(img image.Image) *Layer {
	layer := NewLayer()
	layer.Image = img
	return layer
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Size returns the image dimensions.
func (l *Layer) Size() geometry.Size {
	return geometry.Size{
		Width:  float64(l.Width()),
		Height: float64(l.Height()),
	}
}

// RGBA returns the image converted to RGBA with origin (0,0), cached after
// the first call. The canvas samples it per pixel each frame.
func (l *Layer) RGBA() *image.RGBA {
	if l.rgba != nil {
		return l.rgba
	}
	if l.Image == nil {
		return nil
	}
	b := l.Image.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), l.Image, b.Min, draw.Src)
	l.rgba = dst
	return dst
}
