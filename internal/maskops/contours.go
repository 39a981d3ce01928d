// Package maskops converts freehand mask annotations to polygons by
// rasterizing the stroke and tracing its contours with OpenCV.
package maskops

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"anno-studio/internal/shape"
	"anno-studio/pkg/geometry"
)

// approxEpsilon controls contour simplification, in pixels.
const approxEpsilon = 2.0

// Converter implements dataset.MaskConverter using gocv.
type Converter struct{}

// NewConverter creates a mask-to-polygon converter.
func NewConverter() *Converter {
	return &Converter{}
}

// MaskPolygons rasterizes the mask's stroke discs into a binary image and
// returns the simplified outer contours as image-space polygons.
func (c *Converter) MaskPolygons(s *shape.Shape) [][]geometry.Point2D {
	if s.Kind != shape.KindMask || len(s.Points) == 0 {
		return nil
	}

	b := s.Bounds()
	// One pixel of slack so discs on the edge still close.
	w := int(b.Width) + 2
	h := int(b.Height) + 2
	if w < 1 || h < 1 {
		return nil
	}

	mask := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC1)
	defer mask.Close()

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	radius := int(s.BrushRadius)
	if radius < 1 {
		radius = 1
	}
	for _, p := range s.Points {
		center := image.Pt(int(p.X-b.X)+1, int(p.Y-b.Y)+1)
		gocv.Circle(&mask, center, radius, white, -1)
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var polys [][]geometry.Point2D
	for i := 0; i < contours.Size(); i++ {
		approx := gocv.ApproxPolyDP(contours.At(i), approxEpsilon, true)
		pts := approx.ToPoints()
		approx.Close()
		if len(pts) < 3 {
			continue
		}
		poly := make([]geometry.Point2D, len(pts))
		for j, p := range pts {
			// Back to image space.
			poly[j] = geometry.Point2D{
				X: float64(p.X-1) + b.X,
				Y: float64(p.Y-1) + b.Y,
			}
		}
		polys = append(polys, poly)
	}
	return polys
}
