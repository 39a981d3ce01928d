package dataset

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anno-studio/internal/shape"
	"anno-studio/pkg/geometry"
)

func testImage(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestExportPairWritesLabelsAndClasses(t *testing.T) {
	dir := t.TempDir()
	exp := NewExporter(dir)

	shapes := []*shape.Shape{
		{
			Kind: shape.KindPolygon,
			Points: []geometry.Point2D{
				{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 50},
			},
			Label:   "widget",
			Visible: true,
		},
		{
			Kind:    shape.KindBox,
			Points:  []geometry.Point2D{{X: 25, Y: 25}, {X: 75, Y: 75}},
			Visible: true,
		},
	}

	if err := exp.ExportPair("frame", testImage(200, 100), shapes); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	classes := readFile(t, filepath.Join(dir, "classes.txt"))
	if classes != "widget\nunknown" {
		t.Errorf("classes.txt = %q, want widget then unknown", classes)
	}

	labels := readFile(t, filepath.Join(dir, "labels", "frame.txt"))
	lines := strings.Split(labels, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d label lines, want 2", len(lines))
	}
	if lines[0] != "0 0.000000 0.000000 0.500000 0.000000 0.500000 0.500000" {
		t.Errorf("polygon line = %q", lines[0])
	}
	if lines[1] != "1 0.125000 0.250000 0.375000 0.250000 0.375000 0.750000 0.125000 0.750000" {
		t.Errorf("box line = %q", lines[1])
	}

	if _, err := os.Stat(filepath.Join(dir, "images", "frame.png")); err != nil {
		t.Errorf("image not written: %v", err)
	}
}

func TestExportPairClampsOutOfRange(t *testing.T) {
	dir := t.TempDir()
	exp := NewExporter(dir)

	shapes := []*shape.Shape{{
		Kind: shape.KindPolygon,
		Points: []geometry.Point2D{
			{X: -10, Y: -10}, {X: 150, Y: 0}, {X: 50, Y: 120},
		},
		Label:   "spill",
		Visible: true,
	}}

	if err := exp.ExportPair("edge", testImage(100, 100), shapes); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	labels := readFile(t, filepath.Join(dir, "labels", "edge.txt"))
	if labels != "0 0.000000 0.000000 1.000000 0.000000 0.500000 1.000000" {
		t.Errorf("label line = %q, want coordinates clamped to [0,1]", labels)
	}
}

func TestExportAppendsToExistingClasses(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "classes.txt"), []byte("cat\ndog"), 0o644); err != nil {
		t.Fatal(err)
	}

	exp := NewExporter(dir)
	shapes := []*shape.Shape{
		{
			Kind:    shape.KindPolygon,
			Points:  []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
			Label:   "dog",
			Visible: true,
		},
		{
			Kind:    shape.KindPolygon,
			Points:  []geometry.Point2D{{X: 20, Y: 20}, {X: 30, Y: 20}, {X: 30, Y: 30}},
			Label:   "bird",
			Visible: true,
		},
	}

	if err := exp.ExportPair("pets", testImage(100, 100), shapes); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	classes := readFile(t, filepath.Join(dir, "classes.txt"))
	if classes != "cat\ndog\nbird" {
		t.Errorf("classes.txt = %q, want existing order preserved and bird appended", classes)
	}

	labels := readFile(t, filepath.Join(dir, "labels", "pets.txt"))
	lines := strings.Split(labels, "\n")
	if !strings.HasPrefix(lines[0], "1 ") {
		t.Errorf("dog line = %q, want class id 1", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2 ") {
		t.Errorf("bird line = %q, want class id 2", lines[1])
	}
}

// strokeBounds converts masks via a fixed square, standing in for the
// contour tracer so the test has no OpenCV dependency.
type strokeBounds struct{}

func (strokeBounds) MaskPolygons(s *shape.Shape) [][]geometry.Point2D {
	b := s.Bounds()
	return [][]geometry.Point2D{{
		b.TopLeft(),
		{X: b.X + b.Width, Y: b.Y},
		b.BottomRight(),
		{X: b.X, Y: b.Y + b.Height},
	}}
}

func TestExportMasksThroughConverter(t *testing.T) {
	dir := t.TempDir()
	exp := &Exporter{Root: dir, Masks: strokeBounds{}}

	shapes := []*shape.Shape{{
		Kind:        shape.KindMask,
		Points:      []geometry.Point2D{{X: 40, Y: 40}, {X: 60, Y: 40}},
		BrushRadius: 10,
		Label:       "scratch",
		Visible:     true,
	}}

	if err := exp.ExportPair("mask", testImage(100, 100), shapes); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	labels := readFile(t, filepath.Join(dir, "labels", "mask.txt"))
	if labels != "0 0.300000 0.300000 0.700000 0.300000 0.700000 0.500000 0.300000 0.500000" {
		t.Errorf("mask line = %q", labels)
	}
}

func TestFlipShapesMirrorsAndRenormalizes(t *testing.T) {
	shapes := []*shape.Shape{
		{
			Kind:    shape.KindBox,
			Points:  []geometry.Point2D{{X: 10, Y: 20}, {X: 30, Y: 40}},
			Visible: true,
		},
		{
			Kind:    shape.KindPolygon,
			Points:  []geometry.Point2D{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}},
			Closed:  true,
			Visible: true,
		},
	}

	flipped := FlipShapes(shapes, 100)

	box := flipped[0]
	if box.Points[0] != (geometry.Point2D{X: 70, Y: 20}) ||
		box.Points[1] != (geometry.Point2D{X: 90, Y: 40}) {
		t.Errorf("flipped box corners = %v, want (70,20)-(90,40)", box.Points)
	}

	poly := flipped[1]
	want := []geometry.Point2D{{X: 100, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}}
	for i, p := range want {
		if poly.Points[i] != p {
			t.Fatalf("flipped polygon = %v, want %v", poly.Points, want)
		}
	}

	// Originals untouched.
	if shapes[0].Points[0] != (geometry.Point2D{X: 10, Y: 20}) {
		t.Error("FlipShapes mutated its input")
	}
}

func TestExportAugmentedWritesBothPairs(t *testing.T) {
	dir := t.TempDir()
	exp := NewExporter(dir)

	shapes := []*shape.Shape{{
		Kind:    shape.KindPolygon,
		Points:  []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
		Label:   "part",
		Visible: true,
	}}

	if err := exp.ExportAugmented("sample", testImage(50, 50), shapes); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	for _, name := range []string{"sample", "sample_flip"} {
		if _, err := os.Stat(filepath.Join(dir, "labels", name+".txt")); err != nil {
			t.Errorf("missing labels for %s: %v", name, err)
		}
		if _, err := os.Stat(filepath.Join(dir, "images", name+".png")); err != nil {
			t.Errorf("missing image for %s: %v", name, err)
		}
	}

	// One classes.txt entry despite two pairs.
	if classes := readFile(t, filepath.Join(dir, "classes.txt")); classes != "part" {
		t.Errorf("classes.txt = %q, want a single entry", classes)
	}
}
