package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.png")
	writeTestPNG(t, path, 40, 30)

	layer, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if layer.Width() != 40 || layer.Height() != 30 {
		t.Errorf("size = %dx%d, want 40x30", layer.Width(), layer.Height())
	}
	if layer.Path != path {
		t.Errorf("path = %q", layer.Path)
	}
	if !layer.Visible {
		t.Error("loaded layer should default to visible")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.gif")
	if err := os.WriteFile(path, []byte("GIF89a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRGBAConversionAndCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.png")
	writeTestPNG(t, path, 8, 8)

	layer, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	rgba := layer.RGBA()
	if rgba.Bounds().Min != (image.Point{}) {
		t.Error("RGBA should be rebased to origin")
	}
	r, _, _, _ := rgba.At(0, 0).RGBA()
	if r == 0 {
		t.Error("pixel data lost in conversion")
	}
	if layer.RGBA() != rgba {
		t.Error("RGBA should return the cached conversion")
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 5, 7))
	layer := FromImage(src)
	if layer.Width() != 5 || layer.Height() != 7 {
		t.Errorf("size = %dx%d, want 5x7", layer.Width(), layer.Height())
	}
	if !layer.Visible {
		t.Error("layer should default to visible")
	}
}
