package shape

import (
	"testing"

	"anno-studio/pkg/geometry"
)

func pts(coords ...float64) []geometry.Point2D {
	out := make([]geometry.Point2D, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, geometry.Point2D{X: coords[i], Y: coords[i+1]})
	}
	return out
}

func TestAddAssignsStableIDs(t *testing.T) {
	st := NewStore()

	a := st.Add(&Shape{Kind: KindPolygon, Points: pts(0, 0, 10, 0, 10, 10), Visible: true})
	b := st.Add(&Shape{Kind: KindBox, Points: pts(5, 5, 20, 20), Visible: true})
	if a == nil || b == nil {
		t.Fatal("valid shapes were rejected")
	}
	if a.ID == b.ID || a.ID == "" {
		t.Errorf("ids must be unique and non-empty, got %q and %q", a.ID, b.ID)
	}

	st.Remove(a.ID)
	c := st.Add(&Shape{Kind: KindMask, Points: pts(1, 1), BrushRadius: 4, Visible: true})
	if c.ID == a.ID || c.ID == b.ID {
		t.Errorf("id %q was reused after removal", c.ID)
	}
}

func TestAddRejectsDegenerateGeometry(t *testing.T) {
	st := NewStore()

	if st.Add(&Shape{Kind: KindPolygon, Points: pts(0, 0, 10, 10)}) != nil {
		t.Error("two-vertex polygon accepted")
	}
	if st.Add(&Shape{Kind: KindBox, Points: pts(5, 5, 5, 20)}) != nil {
		t.Error("zero-width box accepted")
	}
	if st.Add(&Shape{Kind: KindBox, Points: pts(5, 5, 20, 5)}) != nil {
		t.Error("zero-height box accepted")
	}
	if st.Add(&Shape{Kind: KindMask, Points: nil, BrushRadius: 4}) != nil {
		t.Error("empty mask accepted")
	}
	if st.Add(&Shape{Kind: KindMask, Points: pts(1, 1), BrushRadius: 0}) != nil {
		t.Error("mask without brush radius accepted")
	}
	if st.Len() != 0 {
		t.Errorf("store holds %d shapes, want 0", st.Len())
	}
}

func TestAddNormalizesBoxCorners(t *testing.T) {
	st := NewStore()
	b := st.Add(&Shape{Kind: KindBox, Points: pts(30, 40, 10, 20)})
	if b == nil {
		t.Fatal("box rejected")
	}
	if b.Points[0] != (geometry.Point2D{X: 10, Y: 20}) ||
		b.Points[1] != (geometry.Point2D{X: 30, Y: 40}) {
		t.Errorf("corners = %v, want normalized tl/br", b.Points)
	}
}

func TestZOrderIsInsertionOrder(t *testing.T) {
	st := NewStore()
	first := st.Add(&Shape{Kind: KindPolygon, Points: pts(0, 0, 10, 0, 10, 10)})
	second := st.Add(&Shape{Kind: KindPolygon, Points: pts(0, 0, 20, 0, 20, 20)})

	shapes := st.Shapes()
	if shapes[0].ID != first.ID || shapes[1].ID != second.ID {
		t.Error("shapes must iterate bottom to top in insertion order")
	}
}

func TestRemoveVertexCascades(t *testing.T) {
	st := NewStore()

	poly := st.Add(&Shape{Kind: KindPolygon, Points: pts(0, 0, 10, 0, 10, 10, 0, 10)})
	st.RemoveVertex(poly.ID, 0)
	if got := st.Find(poly.ID); got == nil || len(got.Points) != 3 {
		t.Fatal("removing one vertex from a quad should leave a triangle")
	}
	st.RemoveVertex(poly.ID, 0)
	if st.Find(poly.ID) != nil {
		t.Error("polygon reduced below 3 vertices must be deleted whole")
	}

	box := st.Add(&Shape{Kind: KindBox, Points: pts(0, 0, 10, 10)})
	st.RemoveVertex(box.ID, 1)
	if st.Find(box.ID) != nil {
		t.Error("erasing a box corner must delete the whole box")
	}

	mask := st.Add(&Shape{Kind: KindMask, Points: pts(5, 5), BrushRadius: 3})
	st.RemoveVertex(mask.ID, 0)
	if st.Find(mask.ID) != nil {
		t.Error("mask with no stroke points must be deleted")
	}
}

func TestUpdateVertexRenormalizesBox(t *testing.T) {
	st := NewStore()
	box := st.Add(&Shape{Kind: KindBox, Points: pts(10, 10, 30, 30)})

	// Drag the top-left past the bottom-right.
	st.UpdateVertex(box.ID, 0, geometry.Point2D{X: 50, Y: 50})
	if box.Points[0] != (geometry.Point2D{X: 30, Y: 30}) ||
		box.Points[1] != (geometry.Point2D{X: 50, Y: 50}) {
		t.Errorf("corners = %v, want re-normalized", box.Points)
	}
}

func TestInsertVertex(t *testing.T) {
	st := NewStore()
	poly := st.Add(&Shape{Kind: KindPolygon, Points: pts(0, 0, 10, 0, 10, 10)})

	if !st.InsertVertex(poly.ID, 0, geometry.Point2D{X: 5, Y: 0}) {
		t.Fatal("insert rejected")
	}
	want := pts(0, 0, 5, 0, 10, 0, 10, 10)
	for i, p := range want {
		if poly.Points[i] != p {
			t.Fatalf("points = %v, want %v", poly.Points, want)
		}
	}

	box := st.Add(&Shape{Kind: KindBox, Points: pts(0, 0, 10, 10)})
	if st.InsertVertex(box.ID, 0, geometry.Point2D{X: 5, Y: 5}) {
		t.Error("boxes must not accept extra vertices")
	}
}

func TestUndoRestoresSnapshots(t *testing.T) {
	st := NewStore()
	st.Add(&Shape{Kind: KindPolygon, Points: pts(0, 0, 10, 0, 10, 10)})

	st.PushUndo()
	second := st.Add(&Shape{Kind: KindBox, Points: pts(20, 20, 40, 40)})

	if !st.Undo() {
		t.Fatal("undo failed")
	}
	if st.Len() != 1 {
		t.Fatalf("store holds %d shapes after undo, want 1", st.Len())
	}
	if st.Find(second.ID) != nil {
		t.Error("undone shape still present")
	}
	if st.Undo() {
		t.Error("empty stack should report false")
	}
}

func TestDropUndoDiscardsTopEntry(t *testing.T) {
	st := NewStore()
	st.PushUndo()
	st.DropUndo()
	if st.CanUndo() {
		t.Error("dropped entry still on the stack")
	}
	// DropUndo on an empty stack must not panic.
	st.DropUndo()
}

func TestReplaceAdvancesIDCounter(t *testing.T) {
	st := NewStore()
	st.Replace([]*Shape{
		{ID: "shape-7", Kind: KindPolygon, Points: pts(0, 0, 10, 0, 10, 10)},
		{Kind: KindBox, Points: pts(1, 1, 5, 5)},
		{Kind: KindPolygon, Points: pts(0, 0, 1, 1)}, // degenerate, skipped
	})

	if st.Len() != 2 {
		t.Fatalf("store holds %d shapes, want 2", st.Len())
	}
	added := st.Add(&Shape{Kind: KindBox, Points: pts(2, 2, 9, 9)})
	if added.ID == "shape-7" {
		t.Error("id counter did not advance past imported ids")
	}
	for _, s := range st.Shapes() {
		if s.ID == "" {
			t.Error("imported shape left without an id")
		}
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	st := NewStore()
	poly := st.Add(&Shape{Kind: KindPolygon, Points: pts(0, 0, 10, 0, 10, 10)})

	snap := st.Snapshot()
	snap[0].Points[0] = geometry.Point2D{X: 99, Y: 99}
	if poly.Points[0] == (geometry.Point2D{X: 99, Y: 99}) {
		t.Error("snapshot shares point storage with the store")
	}
}
