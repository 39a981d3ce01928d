// Package dataset exports annotations as a YOLO segmentation dataset:
// an images/ directory, a labels/ directory of normalized polygon lines,
// and a classes.txt mapping class names to ids.
package dataset

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"anno-studio/internal/shape"
	"anno-studio/pkg/geometry"
)

// MaskConverter turns a freehand mask shape into one or more polygons.
// The gocv-backed implementation lives in internal/maskops; a nil
// converter falls back to the stroke's convex outline via bounding box.
type MaskConverter interface {
	MaskPolygons(s *shape.Shape) [][]geometry.Point2D
}

// Exporter writes dataset files under Root.
type Exporter struct {
	Root  string
	Masks MaskConverter
}

// NewExporter creates an exporter rooted at dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{Root: dir}
}

func (e *Exporter) imagesDir() string { return filepath.Join(e.Root, "images") }
func (e *Exporter) labelsDir() string { return filepath.Join(e.Root, "labels") }

// ExportPair writes one image and its label file, growing classes.txt with
// any labels not seen before. Shapes without a label fall under "unknown".
func (e *Exporter) ExportPair(name string, img image.Image, shapes []*shape.Shape) error {
	if err := os.MkdirAll(e.imagesDir(), 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(e.labelsDir(), 0o755); err != nil {
		return err
	}

	classes, err := e.loadClasses()
	if err != nil {
		return err
	}

	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())

	var lines []string
	for _, s := range shapes {
		label := strings.TrimSpace(s.Label)
		if label == "" {
			label = "unknown"
		}
		id, ok := classes.ids[label]
		if !ok {
			id = classes.add(label)
		}

		for _, poly := range e.shapePolygons(s) {
			if len(poly) < 3 {
				continue
			}
			lines = append(lines, labelLine(id, poly, w, h))
		}
	}

	if err := classes.save(filepath.Join(e.Root, "classes.txt")); err != nil {
		return err
	}

	lblPath := filepath.Join(e.labelsDir(), name+".txt")
	if err := os.WriteFile(lblPath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return err
	}

	imgPath := filepath.Join(e.imagesDir(), name+".png")
	return writePNG(imgPath, img)
}

// shapePolygons converts any shape kind into training polygons.
func (e *Exporter) shapePolygons(s *shape.Shape) [][]geometry.Point2D {
	switch s.Kind {
	case shape.KindPolygon:
		return [][]geometry.Point2D{s.Points}
	case shape.KindBox:
		r := s.BoxRect()
		return [][]geometry.Point2D{{
			r.TopLeft(),
			{X: r.X + r.Width, Y: r.Y},
			r.BottomRight(),
			{X: r.X, Y: r.Y + r.Height},
		}}
	case shape.KindMask:
		if e.Masks != nil {
			return e.Masks.MaskPolygons(s)
		}
		// No converter wired: fall back to the stroke's bounding outline.
		b := s.Bounds()
		return [][]geometry.Point2D{{
			b.TopLeft(),
			{X: b.X + b.Width, Y: b.Y},
			b.BottomRight(),
			{X: b.X, Y: b.Y + b.Height},
		}}
	}
	return nil
}

// labelLine formats "classID x1 y1 x2 y2 ..." with coordinates normalized
// to [0,1] and clamped, six decimal places.
func labelLine(classID int, poly []geometry.Point2D, w, h float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", classID)
	for _, p := range poly {
		fmt.Fprintf(&b, " %.6f %.6f", clamp01(p.X/w), clamp01(p.Y/h))
	}
	return b.String()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// classList is the ordered class-name to id mapping backing classes.txt.
type classList struct {
	names []string
	ids   map[string]int
}

func (e *Exporter) loadClasses() (*classList, error) {
	c := &classList{ids: make(map[string]int)}
	data, err := os.ReadFile(filepath.Join(e.Root, "classes.txt"))
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.add(line)
	}
	return c, nil
}

func (c *classList) add(name string) int {
	if id, ok := c.ids[name]; ok {
		return id
	}
	id := len(c.names)
	c.names = append(c.names, name)
	c.ids[name] = id
	return id
}

func (c *classList) save(path string) error {
	return os.WriteFile(path, []byte(strings.Join(c.names, "\n")), 0o644)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
