// Package main provides the entry point for the Anno Studio application.
package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"anno-studio/internal/app"
	"anno-studio/internal/version"
	"anno-studio/ui/mainwindow"
	"anno-studio/ui/prefs"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", version.AppName, version.Version)

	fyneApp := fyneapp.NewWithID("io.annostudio.app")
	fyneApp.Settings().SetTheme(&app.StudioTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()
	win := mainwindow.New(fyneApp, appState, appPrefs)
	win.Resize(fyne.NewSize(1280, 800))

	// Accept a project or image path on the command line
	if len(os.Args) > 1 {
		path := os.Args[1]
		var err error
		if filepath.Ext(path) == ".annoproj" {
			err = appState.LoadProject(path)
		} else {
			err = appState.LoadImage(path)
		}
		if err != nil {
			log.Printf("Failed to load %s: %v", path, err)
		}
	}

	setupHotReload(win)

	win.ShowAndRun()
}

// setupHotReload configures automatic restart detection when the binary is recompiled.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if restart {
					log.Println("Hot reload: restarting...")
					if err := reloader.Restart(); err != nil {
						log.Printf("Hot reload: restart failed: %v", err)
					}
				} else {
					reloader.ResetBaseline()
					reloader.Start()
				}
			}, win.Window)
	})

	reloader.Start()
}
