package editor

import (
	"image/color"

	"anno-studio/internal/shape"
	"anno-studio/pkg/geometry"
)

const (
	// vertexHitTolerance is the vertex pick radius in screen pixels. It is
	// divided by the layout scale so sensitivity is zoom-invariant.
	vertexHitTolerance = 8.0

	// closeTolerance is the screen-pixel radius around a polygon's first
	// vertex that closes the polygon on click.
	closeTolerance = 10.0

	// cutExtension extends both ends of a knife cut in image space so a
	// cut drawn just short of the polygon edge still crosses it.
	cutExtension = 20.0

	defaultEraserSize = 20.0
	defaultBrushSize  = 12.0
)

// Session is the editor session: it owns the shape store, the viewport
// layout, selection, and the tool state machine. All pointer and wheel
// events enter through it; nothing else mutates canvas state. Events are
// serialized by the host event loop, so the session is single-threaded.
type Session struct {
	store  *shape.Store
	layout Layout
	tool   Tool
	g      gesture

	selectedShape  string
	selectedVertex int

	// Tool configuration. Eraser and brush sizes are screen-pixel radii.
	eraserSize  float64
	brushSize   float64
	activeColor color.RGBA
	activeLabel string

	imgW, imgH   int
	viewW, viewH float64

	lastPointer geometry.Point2D

	onChange func()
}

// NewSession creates an editor session with an identity layout and an
// empty shape store.
func NewSession() *Session {
	return &Session{
		store:          shape.NewStore(),
		layout:         NewLayout(),
		tool:           ToolPan,
		selectedVertex: -1,
		eraserSize:     defaultEraserSize,
		brushSize:      defaultBrushSize,
		activeColor:    color.RGBA{R: 255, G: 0, B: 0, A: 255},
	}
}

// OnChange registers the redraw callback, invoked after every visible
// mutation of shapes, selection, tool state, or layout.
func (s *Session) OnChange(fn func()) {
	s.onChange = fn
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Layout returns the current image-to-screen transform.
func (s *Session) Layout() Layout {
	return s.layout
}

// SetZoomBounds configures optional min/max scale clamping (0 = unclamped).
func (s *Session) SetZoomBounds(minScale, maxScale float64) {
	s.layout.MinScale = minScale
	s.layout.MaxScale = maxScale
	s.layout.clampScale()
}

// Shapes returns the shape sequence in z-order, read-only.
func (s *Session) Shapes() []*shape.Shape {
	return s.store.Shapes()
}

// Selection returns the selected shape id ("" = none) and vertex (-1 = none).
func (s *Session) Selection() (string, int) {
	return s.selectedShape, s.selectedVertex
}

// SelectedShape returns the selected shape, or nil.
func (s *Session) SelectedShape() *shape.Shape {
	if s.selectedShape == "" {
		return nil
	}
	return s.store.Find(s.selectedShape)
}

// SetShapeLabel changes the label of an existing shape.
func (s *Session) SetShapeLabel(id, label string) {
	if sh := s.store.Find(id); sh != nil {
		sh.Label = label
		s.changed()
	}
}

// SelectShape selects a shape by id. An unknown id clears the selection.
func (s *Session) SelectShape(id string) {
	if id != "" && s.store.Find(id) == nil {
		id = ""
	}
	s.selectedShape = id
	s.selectedVertex = -1
	s.changed()
}

// Tool returns the active tool.
func (s *Session) Tool() Tool {
	return s.tool
}

// SetTool switches the active tool, discarding any in-progress gesture
// without committing it.
func (s *Session) SetTool(t Tool) {
	s.resetGesture()
	s.tool = t
	if t != ToolSelect {
		s.selectedVertex = -1
	}
	s.changed()
}

// SetEraserSize sets the eraser radius in screen pixels. Non-positive
// values clamp to 1.
func (s *Session) SetEraserSize(r float64) {
	if r < 1 {
		r = 1
	}
	s.eraserSize = r
	s.changed()
}

// EraserSize returns the eraser radius in screen pixels.
func (s *Session) EraserSize() float64 {
	return s.eraserSize
}

// SetBrushSize sets the freehand brush radius in screen pixels.
// Non-positive values clamp to 1.
func (s *Session) SetBrushSize(r float64) {
	if r < 1 {
		r = 1
	}
	s.brushSize = r
	s.changed()
}

// BrushSize returns the brush radius in screen pixels.
func (s *Session) BrushSize() float64 {
	return s.brushSize
}

// SetColor sets the color applied to subsequently drawn shapes.
func (s *Session) SetColor(c color.RGBA) {
	s.activeColor = c
}

// Color returns the active draw color.
func (s *Session) Color() color.RGBA {
	return s.activeColor
}

// SetLabel sets the label applied to subsequently drawn shapes.
func (s *Session) SetLabel(label string) {
	s.activeLabel = label
}

// Label returns the active label.
func (s *Session) Label() string {
	return s.activeLabel
}

// ImageSize returns the loaded image dimensions in pixels.
func (s *Session) ImageSize() (int, int) {
	return s.imgW, s.imgH
}

// SetViewport records the current viewport size, used by fit operations.
func (s *Session) SetViewport(w, h float64) {
	s.viewW, s.viewH = w, h
}

// LoadImage resets the session for a newly loaded image: the layout snaps
// to a fit-to-viewport transform and shapes, selection, and any in-progress
// gesture are cleared.
func (s *Session) LoadImage(imgW, imgH int) {
	s.imgW, s.imgH = imgW, imgH
	s.store = shape.NewStore()
	s.clearSelection()
	s.g = gesture{}
	s.FitToViewport()
	s.changed()
}

// FitToViewport recomputes the fit-to-viewport layout for the current image.
func (s *Session) FitToViewport() {
	s.layout.FitTo(s.viewW, s.viewH, float64(s.imgW), float64(s.imgH))
	s.changed()
}

// ZoomActual resets to 1:1 scale, keeping the viewport center fixed.
func (s *Session) ZoomActual() {
	center := geometry.NewPoint2D(s.viewW/2, s.viewH/2)
	if s.layout.Scale != 0 {
		s.layout.ZoomAt(center, 1/s.layout.Scale)
	}
	s.changed()
}

// ZoomCenter zooms by factor keeping the viewport center fixed.
func (s *Session) ZoomCenter(factor float64) {
	center := geometry.NewPoint2D(s.viewW/2, s.viewH/2)
	s.layout.ZoomAt(center, factor)
	s.changed()
}

// Annotations returns a deep copy of the shape sequence for export.
func (s *Session) Annotations() []*shape.Shape {
	return s.store.Snapshot()
}

// SetAnnotations replaces the shape model atomically (import path).
func (s *Session) SetAnnotations(shapes []*shape.Shape) {
	s.resetGesture()
	s.store.Replace(shapes)
	s.clearSelection()
	s.changed()
}

// Undo restores the shape model to the state before the last committed
// gesture. Selection is re-validated against the restored sequence.
func (s *Session) Undo() bool {
	if !s.store.Undo() {
		return false
	}
	s.clearStaleSelection()
	s.changed()
	return true
}

// DeleteSelected removes the selected shape, if any.
func (s *Session) DeleteSelected() {
	if s.selectedShape == "" {
		return
	}
	s.store.PushUndo()
	s.store.Remove(s.selectedShape)
	s.clearSelection()
	s.changed()
}

// SetShapeVisible toggles a shape's visibility flag.
func (s *Session) SetShapeVisible(id string, visible bool) {
	if sh := s.store.Find(id); sh != nil {
		sh.Visible = visible
		s.changed()
	}
}

// RemoveShape removes a shape by id (side-panel delete).
func (s *Session) RemoveShape(id string) {
	s.store.PushUndo()
	if !s.store.Remove(id) {
		s.store.DropUndo()
		return
	}
	s.clearStaleSelection()
	s.changed()
}

// Wheel applies zoom-about-cursor for a wheel tick. dy > 0 zooms in.
func (s *Session) Wheel(pointer geometry.Point2D, dy float64) {
	factor := WheelZoomStep
	if dy < 0 {
		factor = 1 / WheelZoomStep
	}
	s.layout.ZoomAt(pointer, factor)
	s.changed()
}

// PointerDown handles a press at a screen position.
func (s *Session) PointerDown(p geometry.Point2D) {
	s.lastPointer = p
	img := s.layout.ToImage(p)

	switch s.tool {
	case ToolPan:
		s.g = gesture{state: statePanning, panAnchor: p}

	case ToolBox:
		s.g = gesture{state: stateDrawing, boxAnchor: img, boxCorner: img}

	case ToolBrush:
		s.g = gesture{state: stateDrawing, drawPoints: []geometry.Point2D{img}}

	case ToolSelect:
		tol := vertexHitTolerance / s.layout.Scale
		if hit, ok := shape.HitVertex(img, s.store.Shapes(), tol); ok {
			s.store.PushUndo()
			s.g = gesture{state: stateDragging, dragShape: hit.ShapeID, dragVertex: hit.Index}
			s.selectedShape = hit.ShapeID
			s.selectedVertex = hit.Index
		} else if id, ok := shape.HitBody(img, s.store.Shapes()); ok {
			s.selectedShape = id
			s.selectedVertex = -1
		} else {
			s.clearSelection()
		}

	case ToolEraser:
		s.store.PushUndo()
		s.g = gesture{state: stateErasing}
		s.eraseAt(img)

	case ToolKnife:
		s.g = gesture{state: stateCutting, cutStart: img, cutEnd: img}
	}
	s.changed()
}

// PointerMove handles pointer motion, pressed or not.
func (s *Session) PointerMove(p geometry.Point2D) {
	s.lastPointer = p
	img := s.layout.ToImage(p)

	switch s.g.state {
	case statePanning:
		// Screen-space delta, zoom-independent.
		s.layout.Pan(p.X-s.g.panAnchor.X, p.Y-s.g.panAnchor.Y)
		s.g.panAnchor = p

	case stateDrawing:
		switch s.tool {
		case ToolBox:
			s.g.boxCorner = img
		case ToolBrush:
			s.g.drawPoints = append(s.g.drawPoints, img)
		}

	case stateDragging:
		s.dragVertexTo(img)

	case stateErasing:
		s.eraseAt(img)

	case stateCutting:
		s.g.cutEnd = img
	}
	s.changed()
}

// PointerUp handles release, committing or cancelling the gesture.
func (s *Session) PointerUp(p geometry.Point2D) {
	s.lastPointer = p
	img := s.layout.ToImage(p)

	switch s.g.state {
	case statePanning:
		s.g = gesture{}

	case stateDrawing:
		switch s.tool {
		case ToolBox:
			s.commitBox(s.g.boxAnchor, img)
		case ToolBrush:
			s.commitMask(append(s.g.drawPoints, img))
		}
		s.g = gesture{}

	case stateDragging:
		s.g = gesture{}

	case stateErasing:
		if !s.g.erasedAny {
			s.store.DropUndo()
		}
		s.g = gesture{}

	case stateCutting:
		s.cut(s.g.cutStart, img)
		s.g = gesture{}
	}
	s.changed()
}

// Click handles a tap. Under the polygon tool it appends a vertex to the
// in-progress polygon, or closes it when the tap lands near the first
// vertex.
func (s *Session) Click(p geometry.Point2D) {
	if s.tool != ToolPolygon {
		return
	}
	s.lastPointer = p
	img := s.layout.ToImage(p)

	if s.g.state == stateDrawing && len(s.g.drawPoints) >= 3 {
		if img.Distance(s.g.drawPoints[0]) <= closeTolerance/s.layout.Scale {
			s.CommitPolygon()
			return
		}
	}
	if s.g.state != stateDrawing {
		s.g = gesture{state: stateDrawing}
	}
	s.g.drawPoints = append(s.g.drawPoints, img)
	s.changed()
}

// CommitPolygon closes and commits the in-progress polygon. Fewer than 3
// vertices discards it silently.
func (s *Session) CommitPolygon() {
	pts := s.g.drawPoints
	s.g = gesture{}
	if len(pts) < 3 {
		s.changed()
		return
	}
	s.store.PushUndo()
	added := s.store.Add(&shape.Shape{
		Kind:    shape.KindPolygon,
		Points:  pts,
		Closed:  true,
		Label:   s.activeLabel,
		Color:   s.activeColor,
		Visible: true,
	})
	if added == nil {
		s.store.DropUndo()
	} else {
		s.selectedShape = added.ID
		s.selectedVertex = -1
	}
	s.changed()
}

// Cancel abandons the in-progress gesture without committing.
func (s *Session) Cancel() {
	s.resetGesture()
	s.changed()
}

// InsertVertexAt adds a vertex to the selected polygon or mask on the edge
// nearest to the given screen position (double-click in the UI).
func (s *Session) InsertVertexAt(p geometry.Point2D) {
	sh := s.SelectedShape()
	if sh == nil || sh.Kind == shape.KindBox {
		return
	}
	img := s.layout.ToImage(p)
	edge, dist := shape.NearestEdge(img, sh)
	if sh.Kind == shape.KindMask {
		// Masks have no edges; append to the stroke.
		s.store.PushUndo()
		s.store.InsertVertex(sh.ID, len(sh.Points)-1, img)
		s.changed()
		return
	}
	if edge < 0 || dist > vertexHitTolerance/s.layout.Scale {
		return
	}
	s.store.PushUndo()
	s.store.InsertVertex(sh.ID, edge, img)
	s.changed()
}

func (s *Session) dragVertexTo(img geometry.Point2D) {
	sh := s.store.Find(s.g.dragShape)
	if sh == nil {
		s.g = gesture{}
		s.clearStaleSelection()
		return
	}

	if sh.Kind == shape.KindBox {
		// Keep the opposite corner anchored; normalization may swap the
		// corner the pointer is driving, so re-derive the drag index.
		anchor := sh.Points[1-s.g.dragVertex]
		tl, br := shape.NormalizeBox(anchor, img)
		sh.Points[0], sh.Points[1] = tl, br
		if img.Distance(br) <= img.Distance(tl) {
			s.g.dragVertex = 1
		} else {
			s.g.dragVertex = 0
		}
		s.selectedVertex = s.g.dragVertex
		return
	}

	s.store.UpdateVertex(s.g.dragShape, s.g.dragVertex, img)
}

func (s *Session) commitBox(a, b geometry.Point2D) {
	s.store.PushUndo()
	added := s.store.Add(&shape.Shape{
		Kind:    shape.KindBox,
		Points:  []geometry.Point2D{a, b},
		Label:   s.activeLabel,
		Color:   s.activeColor,
		Visible: true,
	})
	if added == nil {
		s.store.DropUndo()
		return
	}
	s.selectedShape = added.ID
	s.selectedVertex = -1
}

func (s *Session) commitMask(stroke []geometry.Point2D) {
	s.store.PushUndo()
	added := s.store.Add(&shape.Shape{
		Kind:        shape.KindMask,
		Points:      stroke,
		BrushRadius: s.brushSize / s.layout.Scale,
		Label:       s.activeLabel,
		Color:       s.activeColor,
		Visible:     true,
	})
	if added == nil {
		s.store.DropUndo()
		return
	}
	s.selectedShape = added.ID
	s.selectedVertex = -1
}

// eraseAt removes shape geometry within the eraser radius of the cursor.
// The radius is converted to image space so erasing is zoom-independent.
func (s *Session) eraseAt(img geometry.Point2D) {
	radius := s.eraserSize / s.layout.Scale

	// Collect ids first: removals mutate the sequence.
	ids := make([]string, 0, s.store.Len())
	for _, sh := range s.store.Shapes() {
		if sh.Visible {
			ids = append(ids, sh.ID)
		}
	}

	for _, id := range ids {
		for {
			sh := s.store.Find(id)
			if sh == nil {
				break
			}
			hit := -1
			for i, v := range sh.Points {
				if img.Distance(v) <= radius {
					hit = i
					break
				}
			}
			if hit < 0 {
				break
			}
			s.store.RemoveVertex(id, hit)
			s.g.erasedAny = true
		}
	}
	s.clearStaleSelection()
}

// cut splits the targeted polygon along the segment a-b. The target is the
// selected polygon, or failing that the polygon whose body contains the
// cut start. Fewer than two boundary crossings is a no-op.
func (s *Session) cut(a, b geometry.Point2D) {
	target := s.SelectedShape()
	if target == nil || target.Kind != shape.KindPolygon {
		if id, ok := shape.HitBody(a, s.store.Shapes()); ok {
			target = s.store.Find(id)
		}
	}
	if target == nil || target.Kind != shape.KindPolygon || !target.Visible {
		return
	}

	ca, cb := geometry.ExtendSegment(a, b, cutExtension)
	halves := geometry.SplitPolygon(target.Points, ca, cb)
	if halves == nil {
		return
	}

	s.store.PushUndo()
	s.store.Remove(target.ID)
	for _, pts := range halves {
		s.store.Add(&shape.Shape{
			Kind:    shape.KindPolygon,
			Points:  pts,
			Closed:  true,
			Label:   target.Label,
			Color:   target.Color,
			Visible: true,
		})
	}
	s.clearSelection()
}

func (s *Session) resetGesture() {
	switch s.g.state {
	case stateDragging:
		// The drag snapshot was pushed at gesture start; cancelling keeps
		// whatever moves already happened reversible.
	case stateErasing:
		if !s.g.erasedAny {
			s.store.DropUndo()
		}
	}
	s.g = gesture{}
}

func (s *Session) clearSelection() {
	s.selectedShape = ""
	s.selectedVertex = -1
}

// clearStaleSelection drops the selection if it no longer references a
// live shape or vertex.
func (s *Session) clearStaleSelection() {
	if s.selectedShape == "" {
		return
	}
	sh := s.store.Find(s.selectedShape)
	if sh == nil {
		s.clearSelection()
		return
	}
	if s.selectedVertex >= len(sh.Points) {
		s.selectedVertex = -1
	}
}
