package dataset

import (
	"image"

	"gonum.org/v1/gonum/mat"

	"anno-studio/internal/shape"
	"anno-studio/pkg/geometry"
)

// flipMatrix is the homogeneous transform mirroring x across an image of
// the given width.
func flipMatrix(width float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		-1, 0, width,
		0, 1, 0,
		0, 0, 1,
	})
}

// applyAffine maps points through a 3x3 homogeneous transform.
func applyAffine(m *mat.Dense, pts []geometry.Point2D) []geometry.Point2D {
	out := make([]geometry.Point2D, len(pts))
	v := mat.NewVecDense(3, nil)
	r := mat.NewVecDense(3, nil)
	for i, p := range pts {
		v.SetVec(0, p.X)
		v.SetVec(1, p.Y)
		v.SetVec(2, 1)
		r.MulVec(m, v)
		out[i] = geometry.Point2D{X: r.AtVec(0), Y: r.AtVec(1)}
	}
	return out
}

// FlipShapes returns the shapes mirrored horizontally across an image of
// the given width. Box corners are re-normalized after mirroring.
func FlipShapes(shapes []*shape.Shape, width float64) []*shape.Shape {
	m := flipMatrix(width)
	out := make([]*shape.Shape, len(shapes))
	for i, s := range shapes {
		c := s.Clone()
		c.Points = applyAffine(m, c.Points)
		if c.Kind == shape.KindBox && len(c.Points) == 2 {
			c.Points[0], c.Points[1] = shape.NormalizeBox(c.Points[0], c.Points[1])
		}
		out[i] = c
	}
	return out
}

// FlipImage mirrors an image horizontally.
func FlipImage(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	flipped := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			flipped.Set(w-1-x, y, img.At(x+bounds.Min.X, y+bounds.Min.Y))
		}
	}
	return flipped
}

// ExportAugmented writes the original pair plus a horizontally flipped
// copy, the same augmentation the training pipeline applies.
func (e *Exporter) ExportAugmented(name string, img image.Image, shapes []*shape.Shape) error {
	if err := e.ExportPair(name, img, shapes); err != nil {
		return err
	}
	w := float64(img.Bounds().Dx())
	return e.ExportPair(name+"_flip", FlipImage(img), FlipShapes(shapes, w))
}
