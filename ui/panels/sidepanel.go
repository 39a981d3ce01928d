// Package panels provides UI panels for the application.
package panels

import (
	"anno-studio/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	state     *app.State
	container *container.AppTabs

	shapesPanel   *ShapesPanel
	toolPanel     *ToolPanel
	trainingPanel *TrainingPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State) *SidePanel {
	sp := &SidePanel{
		state: state,
	}

	sp.shapesPanel = NewShapesPanel(state)
	sp.toolPanel = NewToolPanel(state)
	sp.trainingPanel = NewTrainingPanel(state)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Shapes", sp.shapesPanel.Container()),
		container.NewTabItem("Tool", sp.toolPanel.Container()),
		container.NewTabItem("Training", sp.trainingPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.toolPanel.SetWindow(w)
	sp.trainingPanel.SetWindow(w)
}
