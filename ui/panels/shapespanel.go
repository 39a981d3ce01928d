package panels

import (
	"fmt"

	"anno-studio/internal/app"
	"anno-studio/internal/shape"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ShapesPanel lists the annotation shapes with visibility and delete
// controls.
type ShapesPanel struct {
	state     *app.State
	container fyne.CanvasObject

	list       *widget.List
	countLabel *widget.Label
	shapes     []*shape.Shape
}

// NewShapesPanel creates the shape list panel.
func NewShapesPanel(state *app.State) *ShapesPanel {
	sp := &ShapesPanel{state: state}

	sp.countLabel = widget.NewLabel("No shapes")

	sp.list = widget.NewList(
		func() int {
			return len(sp.shapes)
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("shape")
			visible := widget.NewCheck("", nil)
			del := widget.NewButton("X", nil)
			return container.NewBorder(nil, nil, visible, del, label)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(sp.shapes) {
				return
			}
			sh := sp.shapes[id]
			row := obj.(*fyne.Container)
			label := row.Objects[0].(*widget.Label)
			visible := row.Objects[1].(*widget.Check)
			del := row.Objects[2].(*widget.Button)

			label.SetText(describeShape(sh))
			visible.OnChanged = nil
			visible.SetChecked(sh.Visible)
			shapeID := sh.ID
			visible.OnChanged = func(checked bool) {
				sp.state.Session.SetShapeVisible(shapeID, checked)
			}
			del.OnTapped = func() {
				sp.state.Session.RemoveShape(shapeID)
			}
		},
	)
	sp.list.OnSelected = func(id widget.ListItemID) {
		if id < len(sp.shapes) {
			sp.state.Session.SelectShape(sp.shapes[id].ID)
		}
	}

	sp.container = container.NewBorder(sp.countLabel, nil, nil, nil, sp.list)

	state.On(app.EventShapesChanged, func(interface{}) {
		sp.Reload()
	})
	state.On(app.EventImageLoaded, func(interface{}) {
		sp.Reload()
	})
	sp.Reload()

	return sp
}

// Container returns the panel container.
func (sp *ShapesPanel) Container() fyne.CanvasObject {
	return sp.container
}

// Reload refreshes the list from the session.
func (sp *ShapesPanel) Reload() {
	sp.shapes = sp.state.Session.Shapes()
	if len(sp.shapes) == 0 {
		sp.countLabel.SetText("No shapes")
	} else {
		sp.countLabel.SetText(fmt.Sprintf("%d shapes", len(sp.shapes)))
	}
	sp.list.Refresh()
}

func describeShape(sh *shape.Shape) string {
	name := sh.Label
	if name == "" {
		name = sh.ID
	}
	switch sh.Kind {
	case shape.KindPolygon:
		return fmt.Sprintf("%s (polygon, %d pts)", name, len(sh.Points))
	case shape.KindBox:
		return fmt.Sprintf("%s (box)", name)
	case shape.KindMask:
		return fmt.Sprintf("%s (mask)", name)
	}
	return name
}
