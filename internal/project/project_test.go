package project

import (
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.annoproj")

	p := New("demo")
	p.SetImage(path, filepath.Join(dir, "frames", "img.png"))
	p.AddClass("cat")
	p.AddClass("dog")

	if err := p.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Name != "demo" || loaded.Version != 1 {
		t.Errorf("got name=%q version=%d", loaded.Name, loaded.Version)
	}
	if got := loaded.GetImagePath(path); got != filepath.Join(dir, "frames", "img.png") {
		t.Errorf("image path = %q", got)
	}
	if len(loaded.Classes) != 2 || loaded.Classes[0] != "cat" {
		t.Errorf("classes = %v", loaded.Classes)
	}
	if loaded.Settings.EraserSize != 20 {
		t.Errorf("eraser size = %v, want default 20", loaded.Settings.EraserSize)
	}
}

func TestImagePathStoredRelative(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.annoproj")

	p := New("p")
	p.SetImage(path, filepath.Join(dir, "img.png"))
	if p.ImagePath != "img.png" {
		t.Errorf("stored path = %q, want relative", p.ImagePath)
	}
}

func TestAddClassDeduplicates(t *testing.T) {
	p := New("p")
	if id := p.AddClass("cat"); id != 0 {
		t.Errorf("first class id = %d, want 0", id)
	}
	if id := p.AddClass("dog"); id != 1 {
		t.Errorf("second class id = %d, want 1", id)
	}
	if id := p.AddClass("cat"); id != 0 {
		t.Errorf("repeated class id = %d, want 0", id)
	}
	if len(p.Classes) != 2 {
		t.Errorf("classes = %v", p.Classes)
	}
}

func TestDefaultAnnotationsPath(t *testing.T) {
	p := New("p")
	path := "/data/work/session.annoproj"
	if got := p.GetAnnotationsPath(path); got != "/data/work/session_annotations.json" {
		t.Errorf("annotations path = %q", got)
	}
	if got := p.GetDatasetPath(path); got != "/data/work/session_dataset" {
		t.Errorf("dataset path = %q", got)
	}
}

func TestLoadMissingProject(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.annoproj")); err == nil {
		t.Error("expected error for missing project file")
	}
}
