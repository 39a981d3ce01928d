// Package suggest proposes annotation labels by running OCR over the
// image region a shape covers. Useful for datasets where objects carry
// printed text (packaging, signage, serial plates).
package suggest

import (
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"

	"anno-studio/internal/shape"
	"anno-studio/pkg/geometry"
)

// Engine wraps a Tesseract client for label suggestion.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates an OCR engine.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// LabelFor runs OCR over the bounding box of sh within img and returns a
// cleaned-up label suggestion. Returns an empty string when no text is
// found.
func (e *Engine) LabelFor(img *image.RGBA, sh *shape.Shape) (string, error) {
	if img == nil || sh == nil {
		return "", fmt.Errorf("nil image or shape")
	}
	return e.LabelForRegion(img, sh.Bounds())
}

// LabelForRegion runs OCR over a rectangular region of img.
func (e *Engine) LabelForRegion(img *image.RGBA, r geometry.Rect) (string, error) {
	crop := cropRegion(img, r)
	if crop == nil {
		return "", fmt.Errorf("region outside image")
	}

	mat, err := gocv.ImageToMatRGBA(crop)
	if err != nil {
		return "", fmt.Errorf("failed to convert region: %w", err)
	}
	defer mat.Close()

	processed := preprocess(mat)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return "", fmt.Errorf("failed to encode region: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("failed to set page mode: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return cleanLabel(text), nil
}

// cropRegion clips r to img bounds and returns the sub-image, or nil
// when the overlap is empty.
func cropRegion(img *image.RGBA, r geometry.Rect) *image.RGBA {
	rect := image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return nil
	}
	return img.SubImage(rect).(*image.RGBA)
}

// preprocess upscales small regions and binarizes for cleaner OCR.
func preprocess(mat gocv.Mat) gocv.Mat {
	h, w := mat.Rows(), mat.Cols()
	minDim := h
	if w < minDim {
		minDim = w
	}

	var scaled gocv.Mat
	if minDim > 0 && minDim < 150 {
		scale := 150.0 / float64(minDim)
		scaled = gocv.NewMat()
		gocv.Resize(mat, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		scaled = mat.Clone()
	}

	gray := gocv.NewMat()
	gocv.CvtColor(scaled, &gray, gocv.ColorRGBAToGray)
	scaled.Close()

	binary := gocv.NewMat()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	gray.Close()

	// Tesseract wants dark text on a light background.
	whiteCount := gocv.CountNonZero(binary)
	total := binary.Rows() * binary.Cols()
	if total > 0 && float64(whiteCount)/float64(total) > 0.5 {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()
	return result
}

func cleanLabel(text string) string {
	text = strings.TrimSpace(text)
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(fields, "_"))
}
