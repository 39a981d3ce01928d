package editor

import (
	"anno-studio/internal/shape"
	"anno-studio/pkg/geometry"
)

// Feedback is the tool-specific live overlay the render layer draws on top
// of the committed shapes: the in-progress polygon or brush stroke, the box
// rubber band, the eraser cursor, and the knife preview line. All
// coordinates are in image space except the cursor, which is the raw
// screen position.
type Feedback struct {
	// Polygon tool: vertices placed so far.
	PolygonPoints []geometry.Point2D

	// Box tool: the live rubber band.
	Box    geometry.Rect
	HasBox bool

	// Brush tool: stroke so far plus the image-space brush radius.
	BrushStroke []geometry.Point2D
	BrushRadius float64

	// Knife tool: the preview segment.
	CutStart geometry.Point2D
	CutEnd   geometry.Point2D
	HasCut   bool

	// Eraser tool: cursor position (screen space) and radius (screen px).
	Cursor       geometry.Point2D
	CursorRadius float64
	HasCursor    bool
}

// Feedback returns the live overlay state for the current gesture.
func (s *Session) Feedback() Feedback {
	var f Feedback

	switch s.tool {
	case ToolPolygon:
		if s.g.state == stateDrawing {
			f.PolygonPoints = s.g.drawPoints
		}
	case ToolBox:
		if s.g.state == stateDrawing {
			tl, br := shape.NormalizeBox(s.g.boxAnchor, s.g.boxCorner)
			f.Box = geometry.NewRect(tl.X, tl.Y, br.X-tl.X, br.Y-tl.Y)
			f.HasBox = true
		}
	case ToolBrush:
		if s.g.state == stateDrawing {
			f.BrushStroke = s.g.drawPoints
			f.BrushRadius = s.brushSize / s.layout.Scale
		}
	case ToolKnife:
		if s.g.state == stateCutting {
			f.CutStart = s.g.cutStart
			f.CutEnd = s.g.cutEnd
			f.HasCut = true
		}
	case ToolEraser:
		f.Cursor = s.lastPointer
		f.CursorRadius = s.eraserSize
		f.HasCursor = true
	}

	return f
}
