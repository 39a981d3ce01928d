// Package shape provides the annotation shape model: typed vector shapes,
// an ordered store with stable identity, and hit-testing.
package shape

import (
	"image/color"

	"anno-studio/pkg/geometry"
)

// Kind identifies the variant of an annotation shape.
type Kind string

const (
	KindPolygon Kind = "polygon"
	KindBox     Kind = "box"
	KindMask    Kind = "mask"
)

// Shape is a single vector annotation. The meaning of Points depends on Kind:
// polygon vertices in order, the two corners of a box (normalized so the
// first is top-left), or the stroke points of a freehand mask.
type Shape struct {
	ID          string             `json:"id"`
	Kind        Kind               `json:"kind"`
	Points      []geometry.Point2D `json:"points"`
	Closed      bool               `json:"closed,omitempty"`
	BrushRadius float64            `json:"brush_radius,omitempty"`
	Label       string             `json:"label,omitempty"`
	Color       color.RGBA         `json:"color"`
	Visible     bool               `json:"visible"`
}

// Clone returns a deep copy of the shape.
func (s *Shape) Clone() *Shape {
	c := *s
	c.Points = make([]geometry.Point2D, len(s.Points))
	copy(c.Points, s.Points)
	return &c
}

// Bounds returns the axis-aligned bounding box of the shape's points.
// Mask bounds are grown by the brush radius.
func (s *Shape) Bounds() geometry.Rect {
	r := geometry.BoundingBox(s.Points)
	if s.Kind == KindMask {
		r.X -= s.BrushRadius
		r.Y -= s.BrushRadius
		r.Width += 2 * s.BrushRadius
		r.Height += 2 * s.BrushRadius
	}
	return r
}

// BoxRect returns the rectangle of a box shape. Zero Rect for other kinds.
func (s *Shape) BoxRect() geometry.Rect {
	if s.Kind != KindBox || len(s.Points) != 2 {
		return geometry.Rect{}
	}
	tl, br := s.Points[0], s.Points[1]
	return geometry.NewRect(tl.X, tl.Y, br.X-tl.X, br.Y-tl.Y)
}

// NormalizeBox orders the two corner points of a box so that the first is
// the top-left and the second the bottom-right.
func NormalizeBox(a, b geometry.Point2D) (geometry.Point2D, geometry.Point2D) {
	if a.X > b.X {
		a.X, b.X = b.X, a.X
	}
	if a.Y > b.Y {
		a.Y, b.Y = b.Y, a.Y
	}
	return a, b
}

// outline returns the closed outline of a polygon or box for edge queries.
func (s *Shape) outline() []geometry.Point2D {
	switch s.Kind {
	case KindPolygon:
		return s.Points
	case KindBox:
		if len(s.Points) != 2 {
			return nil
		}
		tl, br := s.Points[0], s.Points[1]
		return []geometry.Point2D{
			tl,
			{X: br.X, Y: tl.Y},
			br,
			{X: tl.X, Y: br.Y},
		}
	default:
		return nil
	}
}

// degenerate reports whether the shape no longer holds enough geometry to
// remain in the store.
func (s *Shape) degenerate() bool {
	switch s.Kind {
	case KindPolygon:
		return len(s.Points) < 3
	case KindBox:
		return len(s.Points) < 2
	case KindMask:
		return len(s.Points) == 0
	}
	return true
}
