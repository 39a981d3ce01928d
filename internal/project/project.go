// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// File represents an annotation project file (.annoproj).
type File struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Description string    `json:"description,omitempty"`

	// Media path (relative to project file)
	ImagePath string `json:"image,omitempty"`
	VideoPath string `json:"video,omitempty"`

	// Data file paths (relative to project file)
	AnnotationsPath string `json:"annotations,omitempty"`
	DatasetPath     string `json:"dataset,omitempty"`

	// Known class labels, in classes.txt order
	Classes []string `json:"classes,omitempty"`

	// User settings
	Settings Settings `json:"settings,omitempty"`
}

// Settings holds user preferences for the project.
type Settings struct {
	EraserSize  float64 `json:"eraser_size,omitempty"`
	BrushSize   float64 `json:"brush_size,omitempty"`
	TrainingURL string  `json:"training_url,omitempty"`
}

// New creates a new project file with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		Settings: Settings{
			EraserSize:  20,
			BrushSize:   12,
			TrainingURL: "http://localhost:8000",
		},
	}
}

// Load loads a project from an .annoproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, err
	}

	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetImage sets the image path (relative to project).
func (p *File) SetImage(projectPath, imagePath string) {
	p.ImagePath = relTo(projectPath, imagePath)
	p.Modified = time.Now()
}

// SetVideo sets the video path (relative to project).
func (p *File) SetVideo(projectPath, videoPath string) {
	p.VideoPath = relTo(projectPath, videoPath)
	p.Modified = time.Now()
}

// GetImagePath returns the absolute path to the image.
func (p *File) GetImagePath(projectPath string) string {
	return absFrom(projectPath, p.ImagePath)
}

// GetVideoPath returns the absolute path to the video.
func (p *File) GetVideoPath(projectPath string) string {
	return absFrom(projectPath, p.VideoPath)
}

// GetAnnotationsPath returns the absolute path to the annotations file.
func (p *File) GetAnnotationsPath(projectPath string) string {
	if p.AnnotationsPath == "" {
		// Default: project_name_annotations.json
		base := projectPath[:len(projectPath)-len(filepath.Ext(projectPath))]
		return base + "_annotations.json"
	}
	return absFrom(projectPath, p.AnnotationsPath)
}

// GetDatasetPath returns the absolute path to the dataset export root.
func (p *File) GetDatasetPath(projectPath string) string {
	if p.DatasetPath == "" {
		base := projectPath[:len(projectPath)-len(filepath.Ext(projectPath))]
		return base + "_dataset"
	}
	return absFrom(projectPath, p.DatasetPath)
}

// AddClass records a class label if it is not already present and
// returns its index.
func (p *File) AddClass(name string) int {
	for i, c := range p.Classes {
		if c == name {
			return i
		}
	}
	p.Classes = append(p.Classes, name)
	p.Modified = time.Now()
	return len(p.Classes) - 1
}

func relTo(projectPath, target string) string {
	rel, err := filepath.Rel(filepath.Dir(projectPath), target)
	if err != nil {
		return target
	}
	return rel
}

func absFrom(projectPath, stored string) string {
	if stored == "" {
		return ""
	}
	if filepath.IsAbs(stored) {
		return stored
	}
	return filepath.Join(filepath.Dir(projectPath), stored)
}
