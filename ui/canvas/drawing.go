// Package canvas: pixel drawing for shapes and tool feedback.
package canvas

import (
	"image"
	"image/color"

	"anno-studio/internal/shape"
	"anno-studio/pkg/colorutil"
	"anno-studio/pkg/geometry"
)

const (
	outlineThickness = 2
	handleSize       = 6
)

// selectionColor highlights the selected shape and its vertex handles.
var selectionColor = colorutil.Yellow

// drawShapes renders every visible shape in z-order, highlighting the
// selection.
func (ac *AnnoCanvas) drawShapes(output *image.RGBA) {
	layout := ac.session.Layout()
	selID, selVertex := ac.session.Selection()

	for _, s := range ac.session.Shapes() {
		if !s.Visible {
			continue
		}
		col := s.Color
		selected := s.ID == selID
		if selected {
			col = selectionColor
		}

		switch s.Kind {
		case shape.KindPolygon:
			ac.drawPolygonOutline(output, s.Points, col, s.Closed)
		case shape.KindBox:
			r := s.BoxRect()
			ac.drawRectOutline(output, r, col)
		case shape.KindMask:
			for _, p := range s.Points {
				sp := layout.ToScreen(p)
				fillCircle(output, sp.X, sp.Y, s.BrushRadius*layout.Scale, withAlpha(col, 128))
			}
		}

		if selected {
			ac.drawHandles(output, s, selVertex)
		}
	}
}

// drawFeedback renders the live overlay for the current gesture.
func (ac *AnnoCanvas) drawFeedback(output *image.RGBA) {
	layout := ac.session.Layout()
	f := ac.session.Feedback()
	col := ac.session.Color()

	if len(f.PolygonPoints) > 0 {
		ac.drawPolygonOutline(output, f.PolygonPoints, col, false)
		for _, p := range f.PolygonPoints {
			sp := layout.ToScreen(p)
			fillSquare(output, sp.X, sp.Y, handleSize, col)
		}
	}

	if f.HasBox {
		ac.drawRectOutline(output, f.Box, col)
	}

	for _, p := range f.BrushStroke {
		sp := layout.ToScreen(p)
		fillCircle(output, sp.X, sp.Y, f.BrushRadius*layout.Scale, withAlpha(col, 128))
	}

	if f.HasCut {
		a := layout.ToScreen(f.CutStart)
		b := layout.ToScreen(f.CutEnd)
		drawLine(output, int(a.X), int(a.Y), int(b.X), int(b.Y), colorutil.Magenta, 1)
	}

	if f.HasCursor {
		drawCircleOutline(output, f.Cursor.X, f.Cursor.Y, f.CursorRadius, colorutil.White)
	}
}

// drawPolygonOutline draws polygon edges in screen space. The closing edge
// is drawn only for closed polygons.
func (ac *AnnoCanvas) drawPolygonOutline(output *image.RGBA, pts []geometry.Point2D, col color.RGBA, closed bool) {
	if len(pts) < 2 {
		return
	}
	layout := ac.session.Layout()
	n := len(pts)
	last := n - 1
	if closed {
		last = n
	}
	for i := 0; i < last; i++ {
		a := layout.ToScreen(pts[i])
		b := layout.ToScreen(pts[(i+1)%n])
		drawLine(output, int(a.X), int(a.Y), int(b.X), int(b.Y), col, outlineThickness)
	}
}

// drawRectOutline draws a rectangle given in image space.
func (ac *AnnoCanvas) drawRectOutline(output *image.RGBA, r geometry.Rect, col color.RGBA) {
	layout := ac.session.Layout()
	tl := layout.ToScreen(r.TopLeft())
	br := layout.ToScreen(r.BottomRight())
	x1, y1 := int(tl.X), int(tl.Y)
	x2, y2 := int(br.X), int(br.Y)

	drawLine(output, x1, y1, x2, y1, col, outlineThickness)
	drawLine(output, x2, y1, x2, y2, col, outlineThickness)
	drawLine(output, x2, y2, x1, y2, col, outlineThickness)
	drawLine(output, x1, y2, x1, y1, col, outlineThickness)
}

// drawHandles draws vertex handles for the selected shape, with the
// selected vertex emphasized.
func (ac *AnnoCanvas) drawHandles(output *image.RGBA, s *shape.Shape, selVertex int) {
	layout := ac.session.Layout()
	for i, p := range s.Points {
		sp := layout.ToScreen(p)
		size := handleSize
		col := colorutil.White
		if i == selVertex {
			size = handleSize + 2
			col = colorutil.Magenta
		}
		fillSquare(output, sp.X, sp.Y, size, col)
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.SetRGBA(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// fillCircle fills a circle, alpha-blending against the existing pixels.
func fillCircle(output *image.RGBA, cx, cy, r float64, col color.RGBA) {
	bounds := output.Bounds()
	minX := int(cx - r - 1)
	maxX := int(cx + r + 1)
	minY := int(cy - r - 1)
	maxY := int(cy + r + 1)
	r2 := r * r

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				blendPixel(output, x, y, col)
			}
		}
	}
}

// drawCircleOutline draws a 2-pixel circle ring.
func drawCircleOutline(output *image.RGBA, cx, cy, r float64, col color.RGBA) {
	bounds := output.Bounds()
	minX := int(cx - r - 1)
	maxX := int(cx + r + 1)
	minY := int(cy - r - 1)
	maxY := int(cy + r + 1)
	r2 := r * r
	innerR2 := (r - 2) * (r - 2)

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			dist2 := dx*dx + dy*dy
			if dist2 <= r2 && dist2 >= innerR2 {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// fillSquare fills a size x size square centered at (cx, cy).
func fillSquare(output *image.RGBA, cx, cy float64, size int, col color.RGBA) {
	bounds := output.Bounds()
	half := size / 2
	x0 := int(cx) - half
	y0 := int(cy) - half
	for y := y0; y < y0+size; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := x0; x < x0+size; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			output.SetRGBA(x, y, col)
		}
	}
}

// blendPixel alpha-blends col over the pixel at (x, y).
func blendPixel(output *image.RGBA, x, y int, col color.RGBA) {
	if col.A == 255 {
		output.SetRGBA(x, y, col)
		return
	}
	i := output.PixOffset(x, y)
	a := float64(col.A) / 255
	inv := 1 - a
	output.Pix[i] = uint8(float64(col.R)*a + float64(output.Pix[i])*inv)
	output.Pix[i+1] = uint8(float64(col.G)*a + float64(output.Pix[i+1])*inv)
	output.Pix[i+2] = uint8(float64(col.B)*a + float64(output.Pix[i+2])*inv)
	output.Pix[i+3] = 255
}

// withAlpha returns col with its alpha replaced.
func withAlpha(col color.RGBA, a uint8) color.RGBA {
	col.A = a
	return col
}
