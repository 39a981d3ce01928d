package geometry

import (
	"math"
	"testing"
)

func TestPointArithmetic(t *testing.T) {
	a := NewPoint2D(3, 4)
	if d := a.Distance(Point2D{}); math.Abs(d-5) > 1e-9 {
		t.Errorf("distance = %v, want 5", d)
	}
	if got := a.Add(NewPoint2D(1, -2)); got != (Point2D{X: 4, Y: 2}) {
		t.Errorf("add = %v", got)
	}
	if got := a.Sub(NewPoint2D(1, 1)); got != (Point2D{X: 2, Y: 3}) {
		t.Errorf("sub = %v", got)
	}
	if got := a.Scale(2); got != (Point2D{X: 6, Y: 8}) {
		t.Errorf("scale = %v", got)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 10)
	if !r.Contains(NewPoint2D(15, 15)) {
		t.Error("interior point should be contained")
	}
	if !r.Contains(NewPoint2D(10, 10)) {
		t.Error("top-left corner should be contained")
	}
	if r.Contains(NewPoint2D(31, 15)) {
		t.Error("point right of the rect should not be contained")
	}
	if c := r.Center(); c != (Point2D{X: 20, Y: 15}) {
		t.Errorf("center = %v", c)
	}
}

func TestCentroid(t *testing.T) {
	pts := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	if c := Centroid(pts); c != (Point2D{X: 5, Y: 5}) {
		t.Errorf("centroid = %v, want (5, 5)", c)
	}
	if c := Centroid(nil); c != (Point2D{}) {
		t.Errorf("empty centroid = %v, want origin", c)
	}
}

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{{X: 5, Y: 2}, {X: -3, Y: 8}, {X: 1, Y: -1}}
	b := BoundingBox(pts)
	if b.X != -3 || b.Y != -1 || b.Width != 8 || b.Height != 9 {
		t.Errorf("bounds = %+v", b)
	}
	if b := BoundingBox(nil); b != (Rect{}) {
		t.Errorf("empty bounds = %+v, want zero", b)
	}
}
