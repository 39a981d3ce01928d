package panels

import (
	"fmt"

	"anno-studio/internal/app"
	"anno-studio/internal/suggest"
	"anno-studio/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ToolPanel exposes brush, eraser, label, and color settings.
type ToolPanel struct {
	state     *app.State
	window    fyne.Window
	container fyne.CanvasObject

	eraserLabel *widget.Label
	brushLabel  *widget.Label
	labelEntry  *widget.Entry

	ocr *suggest.Engine
}

// NewToolPanel creates the tool settings panel.
func NewToolPanel(state *app.State) *ToolPanel {
	tp := &ToolPanel{state: state}

	tp.eraserLabel = widget.NewLabel(fmt.Sprintf("Eraser: %.0f px", state.Session.EraserSize()))
	eraserSlider := widget.NewSlider(1, 100)
	eraserSlider.SetValue(state.Session.EraserSize())
	eraserSlider.OnChanged = func(v float64) {
		state.Session.SetEraserSize(v)
		tp.eraserLabel.SetText(fmt.Sprintf("Eraser: %.0f px", v))
	}

	tp.brushLabel = widget.NewLabel(fmt.Sprintf("Brush: %.0f px", state.Session.BrushSize()))
	brushSlider := widget.NewSlider(1, 100)
	brushSlider.SetValue(state.Session.BrushSize())
	brushSlider.OnChanged = func(v float64) {
		state.Session.SetBrushSize(v)
		tp.brushLabel.SetText(fmt.Sprintf("Brush: %.0f px", v))
	}

	tp.labelEntry = widget.NewEntry()
	tp.labelEntry.SetPlaceHolder("class label")
	tp.labelEntry.SetText(state.Session.Label())
	tp.labelEntry.OnChanged = func(text string) {
		state.Session.SetLabel(text)
	}

	applyBtn := widget.NewButton("Apply to Selected", func() {
		id, _ := state.Session.Selection()
		if id != "" {
			state.Session.SetShapeLabel(id, tp.labelEntry.Text)
		}
	})

	suggestBtn := widget.NewButton("Suggest from Image", func() {
		tp.onSuggestLabel()
	})

	tp.container = container.NewVBox(
		tp.eraserLabel,
		eraserSlider,
		tp.brushLabel,
		brushSlider,
		widget.NewSeparator(),
		widget.NewLabel("Label"),
		tp.labelEntry,
		applyBtn,
		suggestBtn,
		widget.NewSeparator(),
		widget.NewLabel("Color"),
		tp.createPalette(),
	)

	return tp
}

// Container returns the panel container.
func (tp *ToolPanel) Container() fyne.CanvasObject {
	return tp.container
}

// SetWindow sets the parent window for dialogs.
func (tp *ToolPanel) SetWindow(w fyne.Window) {
	tp.window = w
}

// createPalette builds a grid of color swatch buttons.
func (tp *ToolPanel) createPalette() fyne.CanvasObject {
	grid := container.NewGridWithColumns(6)
	for _, c := range colorutil.Palette {
		swatchColor := c
		rect := fynecanvas.NewRectangle(swatchColor)
		rect.SetMinSize(fyne.NewSize(24, 24))
		btn := widget.NewButton("", func() {
			tp.state.Session.SetColor(swatchColor)
		})
		grid.Add(container.NewStack(rect, btn))
	}
	return grid
}

// onSuggestLabel runs OCR over the selected shape's region and fills the
// label entry with the result.
func (tp *ToolPanel) onSuggestLabel() {
	sh := tp.state.Session.SelectedShape()
	if sh == nil || tp.state.Image == nil {
		tp.showError(fmt.Errorf("select a shape first"))
		return
	}

	if tp.ocr == nil {
		engine, err := suggest.NewEngine()
		if err != nil {
			tp.showError(err)
			return
		}
		tp.ocr = engine
	}

	label, err := tp.ocr.LabelFor(tp.state.Image.RGBA(), sh)
	if err != nil {
		tp.showError(err)
		return
	}
	if label == "" {
		tp.showError(fmt.Errorf("no text found in region"))
		return
	}
	tp.labelEntry.SetText(label)
	tp.state.Session.SetShapeLabel(sh.ID, label)
}

func (tp *ToolPanel) showError(err error) {
	if tp.window != nil {
		dialog.ShowError(err, tp.window)
	}
}
