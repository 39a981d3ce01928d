package shape

import (
	"testing"

	"anno-studio/pkg/geometry"
)

func testShapes() (*Store, *Shape, *Shape) {
	st := NewStore()
	lower := st.Add(&Shape{
		Kind:    KindBox,
		Points:  pts(0, 0, 50, 50),
		Visible: true,
	})
	upper := st.Add(&Shape{
		Kind:    KindBox,
		Points:  pts(25, 25, 75, 75),
		Visible: true,
	})
	return st, lower, upper
}

func TestHitVertexWithinTolerance(t *testing.T) {
	st, lower, _ := testShapes()

	hit, ok := HitVertex(geometry.Point2D{X: 2, Y: 1}, st.Shapes(), 5)
	if !ok {
		t.Fatal("expected a vertex hit")
	}
	if hit.ShapeID != lower.ID || hit.Index != 0 {
		t.Errorf("hit = %+v, want top-left of %s", hit, lower.ID)
	}

	if _, ok := HitVertex(geometry.Point2D{X: 10, Y: 10}, st.Shapes(), 5); ok {
		t.Error("point beyond tolerance must miss")
	}
}

func TestHitVertexPrefersTopmostOnTie(t *testing.T) {
	st := NewStore()
	a := st.Add(&Shape{Kind: KindBox, Points: pts(10, 10, 40, 40), Visible: true})
	b := st.Add(&Shape{Kind: KindBox, Points: pts(10, 10, 60, 60), Visible: true})
	if a == nil || b == nil {
		t.Fatal("setup failed")
	}

	// Both shapes have a vertex exactly at (10, 10); the later-added
	// shape wins the tie.
	hit, ok := HitVertex(geometry.Point2D{X: 10, Y: 10}, st.Shapes(), 5)
	if !ok {
		t.Fatal("expected a vertex hit")
	}
	if hit.ShapeID != b.ID {
		t.Errorf("tie went to %s, want topmost %s", hit.ShapeID, b.ID)
	}
}

func TestHitVertexPrefersNearest(t *testing.T) {
	st := NewStore()
	near := st.Add(&Shape{Kind: KindBox, Points: pts(10, 10, 40, 40), Visible: true})
	st.Add(&Shape{Kind: KindBox, Points: pts(13, 13, 60, 60), Visible: true})

	// (10,10) is distance 0 from the lower shape's corner and ~4.2 from
	// the upper one; nearest wins even though it is below.
	hit, ok := HitVertex(geometry.Point2D{X: 10, Y: 10}, st.Shapes(), 5)
	if !ok {
		t.Fatal("expected a vertex hit")
	}
	if hit.ShapeID != near.ID {
		t.Errorf("hit %s, want strictly nearest %s", hit.ShapeID, near.ID)
	}
}

func TestHitBodyTopmost(t *testing.T) {
	st, lower, upper := testShapes()

	// Overlap region: both contain (30, 30); topmost wins.
	if id, ok := HitBody(geometry.Point2D{X: 30, Y: 30}, st.Shapes()); !ok || id != upper.ID {
		t.Errorf("hit %q, want topmost %q", id, upper.ID)
	}
	// Only the lower box contains (10, 10).
	if id, ok := HitBody(geometry.Point2D{X: 10, Y: 10}, st.Shapes()); !ok || id != lower.ID {
		t.Errorf("hit %q, want %q", id, lower.ID)
	}
	if _, ok := HitBody(geometry.Point2D{X: 90, Y: 90}, st.Shapes()); ok {
		t.Error("point outside all shapes must miss")
	}
}

func TestHitBodyPolygonRayCast(t *testing.T) {
	st := NewStore()
	// L-shaped polygon: the notch is outside the body.
	poly := st.Add(&Shape{
		Kind:    KindPolygon,
		Points:  pts(0, 0, 40, 0, 40, 20, 20, 20, 20, 40, 0, 40),
		Closed:  true,
		Visible: true,
	})

	if id, ok := HitBody(geometry.Point2D{X: 10, Y: 30}, st.Shapes()); !ok || id != poly.ID {
		t.Error("point in the L's lower arm should hit")
	}
	if _, ok := HitBody(geometry.Point2D{X: 30, Y: 30}, st.Shapes()); ok {
		t.Error("point in the notch must miss")
	}
}

func TestHitBodyMaskStroke(t *testing.T) {
	st := NewStore()
	mask := st.Add(&Shape{
		Kind:        KindMask,
		Points:      pts(10, 10, 20, 10),
		BrushRadius: 5,
		Visible:     true,
	})

	if id, ok := HitBody(geometry.Point2D{X: 12, Y: 13}, st.Shapes()); !ok || id != mask.ID {
		t.Error("point within brush radius of a stroke point should hit")
	}
	if _, ok := HitBody(geometry.Point2D{X: 15, Y: 30}, st.Shapes()); ok {
		t.Error("point beyond brush radius must miss")
	}
}

func TestHitSkipsInvisibleShapes(t *testing.T) {
	st, lower, upper := testShapes()
	upper.Visible = false

	if id, ok := HitBody(geometry.Point2D{X: 30, Y: 30}, st.Shapes()); !ok || id != lower.ID {
		t.Errorf("hit %q, want %q with topmost hidden", id, lower.ID)
	}
	if _, ok := HitVertex(geometry.Point2D{X: 75, Y: 75}, st.Shapes(), 5); ok {
		t.Error("hidden shape's vertex must not be hittable")
	}
}

func TestNearestEdge(t *testing.T) {
	st := NewStore()
	poly := st.Add(&Shape{
		Kind:    KindPolygon,
		Points:  pts(0, 0, 10, 0, 10, 10, 0, 10),
		Closed:  true,
		Visible: true,
	})

	edge, dist := NearestEdge(geometry.Point2D{X: 5, Y: -2}, poly)
	if edge != 0 {
		t.Errorf("edge = %d, want 0 (top edge)", edge)
	}
	if dist < 1.999 || dist > 2.001 {
		t.Errorf("distance = %v, want 2", dist)
	}
}
