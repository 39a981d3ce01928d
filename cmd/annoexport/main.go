// Command annoexport converts a saved annotation project into a
// YOLO-format segmentation dataset, optionally with flipped copies.
//
// Usage: annoexport -project <file.annoproj> -out <dir> [options]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"anno-studio/internal/dataset"
	"anno-studio/internal/imageio"
	"anno-studio/internal/maskops"
	"anno-studio/internal/project"
	"anno-studio/internal/shape"
)

func main() {
	projectPath := flag.String("project", "", "project file (.annoproj)")
	outDir := flag.String("out", "", "output dataset directory")
	augment := flag.Bool("augment", false, "also export horizontally flipped copies")
	flag.Parse()

	if *projectPath == "" || *outDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*projectPath, *outDir, *augment); err != nil {
		log.Fatalf("export failed: %v", err)
	}
}

func run(projectPath, outDir string, augment bool) error {
	proj, err := project.Load(projectPath)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	imgPath := proj.GetImagePath(projectPath)
	if imgPath == "" {
		return fmt.Errorf("project has no image")
	}
	layer, err := imageio.Load(imgPath)
	if err != nil {
		return err
	}

	shapes, err := loadShapes(proj.GetAnnotationsPath(projectPath))
	if err != nil {
		return err
	}
	if len(shapes) == 0 {
		return fmt.Errorf("project has no annotations")
	}

	exp := &dataset.Exporter{Root: outDir, Masks: maskops.NewConverter()}
	name := filepath.Base(imgPath)
	name = name[:len(name)-len(filepath.Ext(name))]

	if augment {
		if err := exp.ExportAugmented(name, layer.RGBA(), shapes); err != nil {
			return err
		}
		fmt.Printf("Exported %d shapes for %s (with flip) to %s\n", len(shapes), name, outDir)
		return nil
	}

	if err := exp.ExportPair(name, layer.RGBA(), shapes); err != nil {
		return err
	}
	fmt.Printf("Exported %d shapes for %s to %s\n", len(shapes), name, outDir)
	return nil
}

func loadShapes(path string) ([]*shape.Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotations: %w", err)
	}
	var shapes []*shape.Shape
	if err := json.Unmarshal(data, &shapes); err != nil {
		return nil, fmt.Errorf("failed to parse annotations: %w", err)
	}
	return shapes, nil
}
