package editor

import (
	"math"
	"testing"

	"anno-studio/pkg/geometry"
)

func almostEqual(a, b geometry.Point2D) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestLayoutRoundTrip(t *testing.T) {
	l := Layout{X: 37, Y: -12, Scale: 2.5}

	points := []geometry.Point2D{
		{X: 0, Y: 0},
		{X: 100, Y: 50},
		{X: -20, Y: 300.25},
	}
	for _, p := range points {
		back := l.ToImage(l.ToScreen(p))
		if !almostEqual(p, back) {
			t.Errorf("round trip of (%v, %v) gave (%v, %v)", p.X, p.Y, back.X, back.Y)
		}
	}
}

func TestLayoutPanIsScreenSpace(t *testing.T) {
	l := Layout{Scale: 4}
	img := geometry.Point2D{X: 10, Y: 10}
	before := l.ToScreen(img)

	l.Pan(15, -5)

	after := l.ToScreen(img)
	if math.Abs(after.X-before.X-15) > 1e-9 || math.Abs(after.Y-before.Y+5) > 1e-9 {
		t.Errorf("pan moved point by (%v, %v), want (15, -5)",
			after.X-before.X, after.Y-before.Y)
	}
}

func TestZoomAtKeepsPointerFixed(t *testing.T) {
	l := Layout{X: 5, Y: 9, Scale: 1.5}
	pointer := geometry.Point2D{X: 321, Y: 87}
	anchor := l.ToImage(pointer)

	for i := 0; i < 5; i++ {
		l.ZoomAt(pointer, WheelZoomStep)
		if got := l.ToScreen(anchor); !almostEqual(got, pointer) {
			t.Fatalf("after %d ticks anchor drifted to (%v, %v)", i+1, got.X, got.Y)
		}
	}
	for i := 0; i < 10; i++ {
		l.ZoomAt(pointer, 1/WheelZoomStep)
		if got := l.ToScreen(anchor); !almostEqual(got, pointer) {
			t.Fatalf("after zoom out anchor drifted to (%v, %v)", got.X, got.Y)
		}
	}
}

func TestZoomClamping(t *testing.T) {
	l := Layout{Scale: 1, MinScale: 0.5, MaxScale: 4}
	p := geometry.Point2D{X: 0, Y: 0}

	for i := 0; i < 100; i++ {
		l.ZoomAt(p, WheelZoomStep)
	}
	if l.Scale != 4 {
		t.Errorf("scale = %v, want clamped to 4", l.Scale)
	}

	for i := 0; i < 100; i++ {
		l.ZoomAt(p, 1/WheelZoomStep)
	}
	if l.Scale != 0.5 {
		t.Errorf("scale = %v, want clamped to 0.5", l.Scale)
	}
}

func TestFitToCentersImage(t *testing.T) {
	var l Layout
	l.FitTo(800, 600, 400, 200)

	// Width-limited: scale = 800/400 * 0.95 vs height 600/200 * 0.95.
	want := 2.0 * 0.95
	if math.Abs(l.Scale-want) > 1e-9 {
		t.Errorf("scale = %v, want %v", l.Scale, want)
	}

	center := l.ToScreen(geometry.Point2D{X: 200, Y: 100})
	if math.Abs(center.X-400) > 1e-9 || math.Abs(center.Y-300) > 1e-9 {
		t.Errorf("image center maps to (%v, %v), want viewport center", center.X, center.Y)
	}
}

func TestFitToDegenerateInput(t *testing.T) {
	l := Layout{X: 99, Y: 99, Scale: 9}
	l.FitTo(800, 600, 0, 0)
	if l.Scale != 1 || l.X != 0 || l.Y != 0 {
		t.Errorf("degenerate fit gave %+v, want identity", l)
	}
}
