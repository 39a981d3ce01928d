// Package video reads frames from video files so they can be annotated
// like still images.
package video

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
)

// Source wraps an opened video file.
type Source struct {
	path string
	cap  *gocv.VideoCapture
}

// Open opens a video file for frame access.
func Open(path string) (*Source, error) {
	cap, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video %s: %w", path, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("failed to open video %s", path)
	}
	return &Source{path: path, cap: cap}, nil
}

// Path returns the video file path.
func (s *Source) Path() string {
	return s.path
}

// FrameCount returns the number of frames in the video.
func (s *Source) FrameCount() int {
	return int(s.cap.Get(gocv.VideoCaptureFrameCount))
}

// FPS returns the video frame rate.
func (s *Source) FPS() float64 {
	return s.cap.Get(gocv.VideoCaptureFPS)
}

// Frame seeks to the given frame index and decodes it.
func (s *Source) Frame(idx int) (image.Image, error) {
	if idx < 0 || idx >= s.FrameCount() {
		return nil, fmt.Errorf("frame %d out of range [0, %d)", idx, s.FrameCount())
	}
	s.cap.Set(gocv.VideoCapturePosFrames, float64(idx))

	mat := gocv.NewMat()
	defer mat.Close()
	if ok := s.cap.Read(&mat); !ok || mat.Empty() {
		return nil, fmt.Errorf("failed to read frame %d from %s", idx, s.path)
	}
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %d: %w", idx, err)
	}
	return img, nil
}

// Close releases the underlying capture.
func (s *Source) Close() error {
	return s.cap.Close()
}

// ExtractFrames writes every step-th frame to outDir as PNG files named
// <base>_fNNNNNN.png and returns the written paths.
func ExtractFrames(path, outDir string, step int) ([]string, error) {
	if step < 1 {
		step = 1
	}
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := filepath.Base(path)
	base = base[:len(base)-len(filepath.Ext(base))]

	total := src.FrameCount()
	var written []string
	for idx := 0; idx < total; idx += step {
		img, err := src.Frame(idx)
		if err != nil {
			return written, err
		}
		out := filepath.Join(outDir, fmt.Sprintf("%s_f%06d.png", base, idx))
		if err := WritePNG(out, img); err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}
