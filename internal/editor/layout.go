// Package editor implements the annotation editing session: the image
// viewport transform, the tool state machine, and selection. It has no
// rendering or toolkit dependency so every transition is unit-testable.
package editor

import (
	"anno-studio/pkg/geometry"
)

// WheelZoomStep is the scale ratio applied per wheel tick.
const WheelZoomStep = 1.1

// Layout is the affine transform from image space to screen space:
// translation plus uniform scale, no rotation. It is owned by the session
// and mutated only by pan, zoom, and fit operations.
type Layout struct {
	X     float64
	Y     float64
	Scale float64

	// Optional zoom bounds. Zero means unclamped.
	MinScale float64
	MaxScale float64
}

// NewLayout returns an identity layout.
func NewLayout() Layout {
	return Layout{Scale: 1}
}

// ToImage converts a screen-space point to image space.
func (l Layout) ToImage(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: (p.X - l.X) / l.Scale,
		Y: (p.Y - l.Y) / l.Scale,
	}
}

// ToScreen converts an image-space point to screen space.
func (l Layout) ToScreen(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: p.X*l.Scale + l.X,
		Y: p.Y*l.Scale + l.Y,
	}
}

// Pan shifts the layout by a screen-space delta.
func (l *Layout) Pan(dx, dy float64) {
	l.X += dx
	l.Y += dy
}

// ZoomAt rescales by factor while keeping the image point currently under
// the given screen position fixed on screen.
func (l *Layout) ZoomAt(pointer geometry.Point2D, factor float64) {
	anchor := l.ToImage(pointer)

	l.Scale *= factor
	l.clampScale()

	// Solve the translation so anchor maps back to pointer.
	l.X = pointer.X - anchor.X*l.Scale
	l.Y = pointer.Y - anchor.Y*l.Scale
}

// FitTo centers the image in a viewport at the largest scale that shows it
// whole, with a small margin.
func (l *Layout) FitTo(viewW, viewH, imgW, imgH float64) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		l.X, l.Y, l.Scale = 0, 0, 1
		l.clampScale()
		return
	}

	scale := viewW / imgW
	if s := viewH / imgH; s < scale {
		scale = s
	}
	l.Scale = scale * 0.95
	l.clampScale()

	l.X = (viewW - imgW*l.Scale) / 2
	l.Y = (viewH - imgH*l.Scale) / 2
}

func (l *Layout) clampScale() {
	if l.MinScale > 0 && l.Scale < l.MinScale {
		l.Scale = l.MinScale
	}
	if l.MaxScale > 0 && l.Scale > l.MaxScale {
		l.Scale = l.MaxScale
	}
}
