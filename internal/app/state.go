// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"anno-studio/internal/editor"
	"anno-studio/internal/imageio"
	"anno-studio/internal/project"
	"anno-studio/internal/shape"
	"anno-studio/internal/training"
)

// State holds the application state including the current project, the
// loaded image, and the editing session.
type State struct {
	mu sync.RWMutex

	// Project
	ProjectPath string
	Project     *project.File
	Modified    bool

	// Image being annotated
	Image *imageio.Layer

	// Editing session
	Session *editor.Session

	// Training service client
	Training *training.Client

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventImageLoaded
	EventShapesChanged
	EventSelectionChanged
	EventToolChanged
	EventModified
	EventTrainingStatus
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState() *State {
	s := &State{
		Project:   project.New("untitled"),
		Session:   editor.NewSession(),
		listeners: make(map[EventType][]EventListener),
	}
	s.Training = training.NewClient(s.Project.Settings.TrainingURL)
	s.Session.OnChange(func() {
		s.SetModified(true)
		s.Emit(EventShapesChanged, nil)
	})
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	changed := s.Modified != modified
	s.Modified = modified
	s.mu.Unlock()
	if changed {
		s.Emit(EventModified, modified)
	}
}

// LoadImage loads an image for annotation. Existing shapes are cleared.
func (s *State) LoadImage(path string) error {
	layer, err := imageio.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	s.mu.Lock()
	s.Image = layer
	s.mu.Unlock()

	s.Session.LoadImage(layer.Width(), layer.Height())
	if s.ProjectPath != "" {
		s.Project.SetImage(s.ProjectPath, path)
	} else {
		s.Project.ImagePath = path
	}

	s.SetModified(true)
	s.Emit(EventImageLoaded, layer)
	return nil
}

// LoadProject loads a project file and its image and annotations.
func (s *State) LoadProject(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Project = proj
	s.Training = training.NewClient(proj.Settings.TrainingURL)
	s.mu.Unlock()

	if proj.Settings.EraserSize > 0 {
		s.Session.SetEraserSize(proj.Settings.EraserSize)
	}
	if proj.Settings.BrushSize > 0 {
		s.Session.SetBrushSize(proj.Settings.BrushSize)
	}

	if imgPath := proj.GetImagePath(path); imgPath != "" {
		if err := s.LoadImage(imgPath); err != nil {
			return err
		}
	}

	annoPath := proj.GetAnnotationsPath(path)
	if _, err := os.Stat(annoPath); err == nil {
		if err := s.LoadAnnotations(annoPath); err != nil {
			return err
		}
	}

	s.SetModified(false)
	s.Emit(EventProjectLoaded, path)
	return nil
}

// SaveProject saves the project file and annotations next to it.
func (s *State) SaveProject(path string) error {
	s.mu.Lock()
	s.ProjectPath = path
	s.Project.Settings.EraserSize = s.Session.EraserSize()
	s.Project.Settings.BrushSize = s.Session.BrushSize()
	if s.Image != nil {
		s.Project.SetImage(path, s.Image.Path)
	}
	proj := s.Project
	s.mu.Unlock()

	if err := proj.Save(path); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	if err := s.SaveAnnotations(proj.GetAnnotationsPath(path)); err != nil {
		return err
	}

	s.SetModified(false)
	s.Emit(EventProjectSaved, path)
	return nil
}

// LoadAnnotations replaces the session's shapes with those from a JSON file.
func (s *State) LoadAnnotations(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read annotations: %w", err)
	}

	var shapes []*shape.Shape
	if err := json.Unmarshal(data, &shapes); err != nil {
		return fmt.Errorf("failed to parse annotations: %w", err)
	}

	s.Session.SetAnnotations(shapes)
	s.Emit(EventShapesChanged, nil)
	return nil
}

// SaveAnnotations writes the session's shapes to a JSON file.
func (s *State) SaveAnnotations(path string) error {
	data, err := json.MarshalIndent(s.Session.Annotations(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode annotations: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create annotations directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// SetTool changes the active tool and notifies listeners.
func (s *State) SetTool(tool editor.Tool) {
	s.Session.SetTool(tool)
	s.Emit(EventToolChanged, tool)
}
