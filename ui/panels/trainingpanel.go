package panels

import (
	"context"
	"fmt"
	"strconv"

	"anno-studio/internal/app"
	"anno-studio/internal/training"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// TrainingPanel controls model training on the remote training service.
type TrainingPanel struct {
	state     *app.State
	window    fyne.Window
	container fyne.CanvasObject

	modelSelect *widget.Select
	epochsEntry *widget.Entry
	batchEntry  *widget.Entry
	startBtn    *widget.Button
	cancelBtn   *widget.Button
	progress    *widget.ProgressBar
	statusLabel *widget.Label

	cancelWatch context.CancelFunc
}

// NewTrainingPanel creates the training control panel.
func NewTrainingPanel(state *app.State) *TrainingPanel {
	tp := &TrainingPanel{state: state}

	tp.modelSelect = widget.NewSelect(nil, nil)
	tp.modelSelect.PlaceHolder = "base model"

	refreshBtn := widget.NewButton("Refresh Models", func() {
		tp.reloadModels()
	})

	defaults := training.DefaultParams()
	tp.epochsEntry = widget.NewEntry()
	tp.epochsEntry.SetText(strconv.Itoa(defaults.Epochs))
	tp.batchEntry = widget.NewEntry()
	tp.batchEntry.SetText(strconv.Itoa(defaults.BatchSize))

	tp.progress = widget.NewProgressBar()
	tp.statusLabel = widget.NewLabel("Idle")
	tp.statusLabel.Wrapping = fyne.TextWrapWord

	tp.startBtn = widget.NewButton("Start Training", func() {
		tp.onStart()
	})
	tp.cancelBtn = widget.NewButton("Cancel", func() {
		tp.onCancel()
	})
	tp.cancelBtn.Disable()

	form := widget.NewForm(
		widget.NewFormItem("Epochs", tp.epochsEntry),
		widget.NewFormItem("Batch size", tp.batchEntry),
	)

	tp.container = container.NewVBox(
		tp.modelSelect,
		refreshBtn,
		form,
		tp.startBtn,
		tp.cancelBtn,
		widget.NewSeparator(),
		tp.progress,
		tp.statusLabel,
	)

	return tp
}

// Container returns the panel container.
func (tp *TrainingPanel) Container() fyne.CanvasObject {
	return tp.container
}

// SetWindow sets the parent window for dialogs.
func (tp *TrainingPanel) SetWindow(w fyne.Window) {
	tp.window = w
}

// reloadModels fetches the model list from the training service.
func (tp *TrainingPanel) reloadModels() {
	models, err := tp.state.Training.ListModels()
	if err != nil {
		tp.showError(err)
		return
	}
	tp.modelSelect.Options = models
	tp.modelSelect.Refresh()
	tp.statusLabel.SetText(fmt.Sprintf("%d models available", len(models)))
}

func (tp *TrainingPanel) onStart() {
	params := training.DefaultParams()
	params.BaseModel = tp.modelSelect.Selected
	if n, err := strconv.Atoi(tp.epochsEntry.Text); err == nil {
		params.Epochs = n
	}
	if n, err := strconv.Atoi(tp.batchEntry.Text); err == nil {
		params.BatchSize = n
	}

	if err := tp.state.Training.Start(params); err != nil {
		tp.showError(err)
		return
	}

	tp.startBtn.Disable()
	tp.cancelBtn.Enable()
	tp.statusLabel.SetText("Training started")

	ctx, cancel := context.WithCancel(context.Background())
	tp.cancelWatch = cancel
	watcher := training.NewWatcher(tp.state.Training, 0)
	go func() {
		for st := range watcher.Watch(ctx) {
			tp.applyStatus(st)
		}
		tp.startBtn.Enable()
		tp.cancelBtn.Disable()
	}()
}

func (tp *TrainingPanel) onCancel() {
	if err := tp.state.Training.Cancel(); err != nil {
		tp.showError(err)
		return
	}
	if tp.cancelWatch != nil {
		tp.cancelWatch()
	}
	tp.statusLabel.SetText("Training cancelled")
}

// applyStatus pushes a status update into the widgets.
func (tp *TrainingPanel) applyStatus(st training.Status) {
	tp.progress.SetValue(st.Progress / 100)
	if st.IsTraining {
		tp.statusLabel.SetText(fmt.Sprintf("Epoch %d/%d: %s",
			st.Epoch, st.TotalEpochs, st.Message))
	} else {
		tp.statusLabel.SetText(st.Message)
	}
	tp.state.Emit(app.EventTrainingStatus, st)
}

func (tp *TrainingPanel) showError(err error) {
	if tp.window != nil {
		dialog.ShowError(err, tp.window)
	}
}
