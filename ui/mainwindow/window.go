// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"anno-studio/internal/app"
	"anno-studio/internal/dataset"
	"anno-studio/internal/editor"
	"anno-studio/internal/maskops"
	"anno-studio/internal/version"
	"anno-studio/internal/video"
	"anno-studio/ui/canvas"
	"anno-studio/ui/panels"
	"anno-studio/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir   = "lastDirectory"
	prefKeyLastImage = "lastImage"

	// videoFrameStep is the sampling interval when opening a video:
	// one annotatable frame per second at typical frame rates.
	videoFrameStep = 30
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *canvas.AnnoCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	toolButtons map[editor.Tool]*widget.Button
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(version.AppName)

	mw := &MainWindow{
		Window:      win,
		app:         fyneApp,
		state:       state,
		prefs:       p,
		toolButtons: make(map[editor.Tool]*widget.Button),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restoreLastImage()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New(mw.state.Session)
	mw.sidePanel = panels.NewSidePanel(mw.state)
	mw.sidePanel.SetWindow(mw.Window)
	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar,   // top
		nil,       // bottom
		nil,       // left
		nil,       // right
		mw.canvas, // center
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// createToolbar creates the tool selector and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	tools := []struct {
		tool  editor.Tool
		label string
	}{
		{editor.ToolPan, "Pan"},
		{editor.ToolSelect, "Select"},
		{editor.ToolPolygon, "Polygon"},
		{editor.ToolBox, "Box"},
		{editor.ToolBrush, "Brush"},
		{editor.ToolEraser, "Eraser"},
		{editor.ToolKnife, "Knife"},
	}

	box := container.NewHBox()
	for _, t := range tools {
		tool := t.tool
		btn := widget.NewButton(t.label, func() {
			mw.state.SetTool(tool)
		})
		mw.toolButtons[tool] = btn
		box.Add(btn)
	}
	mw.highlightTool(mw.state.Session.Tool())

	box.Add(widget.NewSeparator())

	zoomOutBtn := widget.NewButton("-", func() {
		mw.state.Session.ZoomCenter(1 / editor.WheelZoomStep)
	})
	zoomInBtn := widget.NewButton("+", func() {
		mw.state.Session.ZoomCenter(editor.WheelZoomStep)
	})
	fitBtn := widget.NewButton("Fit", func() {
		mw.state.Session.FitToViewport()
	})
	actualBtn := widget.NewButton("1:1", func() {
		mw.state.Session.ZoomActual()
	})

	box.Add(widget.NewLabel("Zoom:"))
	box.Add(zoomOutBtn)
	box.Add(zoomInBtn)
	box.Add(fitBtn)
	box.Add(actualBtn)

	return box
}

// highlightTool marks the active tool button.
func (mw *MainWindow) highlightTool(active editor.Tool) {
	for tool, btn := range mw.toolButtons {
		if tool == active {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileItems := []*fyne.MenuItem{
		fyne.NewMenuItem("New Project", mw.onNewProject),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
	}
	if recent := mw.prefs.RecentProjects(); len(recent) > 0 {
		sub := make([]*fyne.MenuItem, 0, len(recent))
		for _, path := range recent {
			projectPath := path
			sub = append(sub, fyne.NewMenuItem(filepath.Base(path), func() {
				if err := mw.state.LoadProject(projectPath); err != nil {
					dialog.ShowError(err, mw.Window)
				}
			}))
		}
		recentItem := fyne.NewMenuItem("Open Recent", nil)
		recentItem.ChildMenu = fyne.NewMenu("", sub...)
		fileItems = append(fileItems, recentItem)
	}
	fileItems = append(fileItems,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Open Video...", mw.onOpenVideo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Dataset...", mw.onExportDataset),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)
	fileMenu := fyne.NewMenu("File", fileItems...)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete Selected", mw.onDeleteSelected),
		fyne.NewMenuItem("Cancel Drawing", mw.onCancel),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.state.Session.ZoomCenter(editor.WheelZoomStep) }),
		fyne.NewMenuItem("Zoom Out", func() { mw.state.Session.ZoomCenter(1 / editor.WheelZoomStep) }),
		fyne.NewMenuItem("Fit to Window", func() { mw.state.Session.FitToViewport() }),
		fyne.NewMenuItem("Actual Size", func() { mw.state.Session.ZoomActual() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle(version.AppName + " - " + filepath.Base(path))
			mw.updateStatus("Project loaded: " + path)
			mw.rememberProject(path)
		}
	})

	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle(version.AppName + " - " + filepath.Base(path))
			mw.updateStatus("Project saved: " + path)
			mw.rememberProject(path)
		}
	})

	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		mw.canvas.SetLayer(mw.state.Image)
		mw.updateStatus(fmt.Sprintf("Image loaded: %dx%d",
			mw.state.Image.Width(), mw.state.Image.Height()))
	})

	mw.state.On(app.EventToolChanged, func(data interface{}) {
		if tool, ok := data.(editor.Tool); ok {
			mw.highlightTool(tool)
			mw.updateStatus("Tool: " + tool.String())
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

// rememberProject records a project path in the recent list.
func (mw *MainWindow) rememberProject(path string) {
	mw.prefs.AddRecentProject(path)
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Could not save preferences: " + err.Error())
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(filePath))
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Could not save preferences: " + err.Error())
	}
}

// restoreLastImage reloads the previously annotated image.
func (mw *MainWindow) restoreLastImage() {
	path := mw.prefs.String(prefKeyLastImage)
	if path == "" {
		return
	}
	if err := mw.state.LoadImage(path); err != nil {
		mw.updateStatus("Could not restore last image: " + err.Error())
		return
	}
	mw.state.SetModified(false)
}

// Menu action handlers

func (mw *MainWindow) onNewProject() {
	mw.state.ProjectPath = ""
	mw.state.Session.LoadImage(0, 0)
	mw.state.SetModified(false)
	mw.SetTitle(version.AppName + " - New Project")
	mw.canvas.Refresh()
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".annoproj"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefKeyLastImage, path)
		if err := mw.prefs.Save(); err != nil {
			mw.updateStatus("Could not save preferences: " + err.Error())
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// onOpenVideo extracts sampled frames from a video next to it and loads
// the first frame for annotation.
func (mw *MainWindow) onOpenVideo() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)

		outDir := path[:len(path)-len(filepath.Ext(path))] + "_frames"
		mw.updateStatus("Extracting frames from " + filepath.Base(path) + "...")

		go func() {
			frames, err := video.ExtractFrames(path, outDir, videoFrameStep)
			if err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			if len(frames) == 0 {
				mw.updateStatus("No frames extracted from " + path)
				return
			}
			if err := mw.state.LoadImage(frames[0]); err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			if mw.state.Project != nil {
				mw.state.Project.SetVideo(mw.state.ProjectPath, path)
			}
			mw.updateStatus(fmt.Sprintf("Extracted %d frames to %s", len(frames), outDir))
		}()
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".mp4", ".avi", ".mov", ".mkv"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveProject() {
	if mw.state.ProjectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".annoproj" {
			path += ".annoproj"
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("project.annoproj")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportDataset() {
	if mw.state.Image == nil {
		mw.updateStatus("No image to export")
		return
	}
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		root := uri.Path()
		exp := &dataset.Exporter{Root: root, Masks: maskops.NewConverter()}
		name := filepath.Base(mw.state.Image.Path)
		name = name[:len(name)-len(filepath.Ext(name))]
		if err := exp.ExportPair(name, mw.state.Image.RGBA(), mw.state.Session.Shapes()); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Dataset exported to " + root)
	}, mw.Window)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	mw.state.Session.Undo()
}

func (mw *MainWindow) onDeleteSelected() {
	mw.state.Session.DeleteSelected()
}

func (mw *MainWindow) onCancel() {
	mw.state.Session.Cancel()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+version.AppName,
		fmt.Sprintf("%s v%s\n\n"+
			"An image annotation editor for building\n"+
			"segmentation training datasets.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.AppName, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
