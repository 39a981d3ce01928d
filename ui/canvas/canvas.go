// Package canvas provides the annotation canvas widget: it renders the
// image and shapes through the editor session's layout and routes pointer,
// wheel, and keyboard events into the session.
package canvas

import (
	"image"

	"anno-studio/internal/editor"
	"anno-studio/internal/imageio"
	"anno-studio/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// AnnoCanvas displays an image with vector annotations over it. All state
// lives in the editor session; the widget only converts toolkit events and
// redraws from session state.
type AnnoCanvas struct {
	widget.BaseWidget

	session *editor.Session
	layer   *imageio.Layer
	raster  *fynecanvas.Raster

	onZoomChange func(scale float64)
}

// New creates an annotation canvas bound to a session.
func New(session *editor.Session) *AnnoCanvas {
	ac := &AnnoCanvas{session: session}
	ac.raster = fynecanvas.NewRaster(ac.draw)
	ac.raster.ScaleMode = fynecanvas.ImageScalePixels
	ac.ExtendBaseWidget(ac)

	session.OnChange(func() {
		ac.Refresh()
		if ac.onZoomChange != nil {
			ac.onZoomChange(session.Layout().Scale)
		}
	})
	return ac
}

// Session returns the editor session driving this canvas.
func (ac *AnnoCanvas) Session() *editor.Session {
	return ac.session
}

// SetLayer sets the image to annotate, resetting the session for it.
func (ac *AnnoCanvas) SetLayer(layer *imageio.Layer) {
	ac.layer = layer
	if layer != nil {
		ac.session.LoadImage(layer.Width(), layer.Height())
	} else {
		ac.session.LoadImage(0, 0)
	}
	ac.Refresh()
}

// Layer returns the current image layer, or nil.
func (ac *AnnoCanvas) Layer() *imageio.Layer {
	return ac.layer
}

// OnZoomChange sets a callback invoked with the current scale after redraws.
func (ac *AnnoCanvas) OnZoomChange(fn func(scale float64)) {
	ac.onZoomChange = fn
}

// Refresh redraws the canvas.
func (ac *AnnoCanvas) Refresh() {
	ac.raster.Refresh()
	ac.BaseWidget.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (ac *AnnoCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ac.raster)
}

// MinSize keeps the canvas usable inside splits.
func (ac *AnnoCanvas) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

func pt(pos fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(pos.X), float64(pos.Y))
}

// MouseDown implements desktop.Mouseable.
func (ac *AnnoCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ac.session.PointerDown(pt(ev.Position))
}

// MouseUp implements desktop.Mouseable.
func (ac *AnnoCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ac.session.PointerUp(pt(ev.Position))
}

// MouseIn implements desktop.Hoverable.
func (ac *AnnoCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable. Hover motion still reaches the
// session so the eraser cursor tracks before the press.
func (ac *AnnoCanvas) MouseMoved(ev *desktop.MouseEvent) {
	ac.session.PointerMove(pt(ev.Position))
}

// MouseOut implements desktop.Hoverable.
func (ac *AnnoCanvas) MouseOut() {}

// Dragged implements fyne.Draggable.
func (ac *AnnoCanvas) Dragged(ev *fyne.DragEvent) {
	ac.session.PointerMove(pt(ev.Position))
}

// DragEnd implements fyne.Draggable. MouseUp carries the release position;
// nothing further to do here.
func (ac *AnnoCanvas) DragEnd() {}

// Tapped implements fyne.Tappable: polygon vertex placement.
func (ac *AnnoCanvas) Tapped(ev *fyne.PointEvent) {
	ac.session.Click(pt(ev.Position))
}

// TappedSecondary implements fyne.SecondaryTappable: right-click commits
// the in-progress polygon.
func (ac *AnnoCanvas) TappedSecondary(ev *fyne.PointEvent) {
	ac.session.CommitPolygon()
}

// DoubleTapped implements fyne.DoubleTappable: insert a vertex on the
// nearest edge of the selected shape.
func (ac *AnnoCanvas) DoubleTapped(ev *fyne.PointEvent) {
	ac.session.InsertVertexAt(pt(ev.Position))
}

// Scrolled implements fyne.Scrollable: wheel zooms about the cursor.
func (ac *AnnoCanvas) Scrolled(ev *fyne.ScrollEvent) {
	ac.session.Wheel(pt(ev.Position), float64(ev.Scrolled.DY))
}

// draw is the raster drawing function: image, then shapes in z-order, then
// selection highlight, then tool feedback. It renders entirely from
// session state each frame.
func (ac *AnnoCanvas) draw(w, h int) image.Image {
	ac.session.SetViewport(float64(w), float64(h))

	output := image.NewRGBA(image.Rect(0, 0, w, h))

	// Dark background with alpha set.
	for i := 0; i < len(output.Pix); i += 4 {
		output.Pix[i] = 32
		output.Pix[i+1] = 32
		output.Pix[i+2] = 32
		output.Pix[i+3] = 255
	}

	ac.drawImage(output, w, h)
	ac.drawShapes(output)
	ac.drawFeedback(output)

	return output
}

// drawImage samples the source image through the layout transform.
func (ac *AnnoCanvas) drawImage(output *image.RGBA, w, h int) {
	if ac.layer == nil || !ac.layer.Visible {
		return
	}
	src := ac.layer.RGBA()
	if src == nil {
		return
	}

	layout := ac.session.Layout()
	srcW := src.Rect.Dx()
	srcH := src.Rect.Dy()

	for y := 0; y < h; y++ {
		imgY := int((float64(y) - layout.Y) / layout.Scale)
		if imgY < 0 || imgY >= srcH {
			continue
		}
		srcRow := src.Pix[imgY*src.Stride:]
		dstRow := output.Pix[y*output.Stride:]
		for x := 0; x < w; x++ {
			imgX := int((float64(x) - layout.X) / layout.Scale)
			if imgX < 0 || imgX >= srcW {
				continue
			}
			si := imgX * 4
			di := x * 4
			dstRow[di] = srcRow[si]
			dstRow[di+1] = srcRow[si+1]
			dstRow[di+2] = srcRow[si+2]
			dstRow[di+3] = 255
		}
	}
}
