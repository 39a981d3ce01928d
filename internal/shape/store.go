package shape

import (
	"strconv"
	"strings"

	"anno-studio/pkg/geometry"
)

// Store holds annotation shapes in draw order. Insertion order is z-order;
// a shape's id is stable for its lifetime and is the only way to reference
// it across renders. The store is the sole owner of shape data: callers
// mutate shapes only through the operations below.
type Store struct {
	shapes []*Shape
	nextID int
	undo   [][]*Shape
}

// maxUndoDepth bounds the snapshot stack.
const maxUndoDepth = 100

// NewStore creates an empty shape store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of shapes.
func (st *Store) Len() int {
	return len(st.shapes)
}

// Shapes returns the shapes in z-order (first = bottom). The slice is the
// store's own; callers must treat it as read-only.
func (st *Store) Shapes() []*Shape {
	return st.shapes
}

// Find returns the shape with the given id, or nil.
func (st *Store) Find(id string) *Shape {
	for _, s := range st.shapes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Index returns the z-order index of the shape with the given id, or -1.
func (st *Store) Index(id string) int {
	for i, s := range st.shapes {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Add appends a shape, assigning it a fresh id. Degenerate geometry
// (polygon with fewer than 3 vertices, zero-area box, empty mask) is
// silently rejected and nil is returned.
func (st *Store) Add(s *Shape) *Shape {
	switch s.Kind {
	case KindPolygon:
		if len(s.Points) < 3 {
			return nil
		}
	case KindBox:
		if len(s.Points) != 2 {
			return nil
		}
		tl, br := NormalizeBox(s.Points[0], s.Points[1])
		if tl.X == br.X || tl.Y == br.Y {
			return nil
		}
		s.Points[0], s.Points[1] = tl, br
	case KindMask:
		if len(s.Points) == 0 || s.BrushRadius <= 0 {
			return nil
		}
	default:
		return nil
	}

	st.nextID++
	s.ID = "shape-" + strconv.Itoa(st.nextID)
	st.shapes = append(st.shapes, s)
	return s
}

// Remove deletes the shape with the given id. Returns false if absent.
func (st *Store) Remove(id string) bool {
	for i, s := range st.shapes {
		if s.ID == id {
			st.shapes = append(st.shapes[:i], st.shapes[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateVertex moves one vertex of a shape to a new image-space point.
// No clamping is applied; shapes may extend outside the image.
func (st *Store) UpdateVertex(id string, index int, p geometry.Point2D) bool {
	s := st.Find(id)
	if s == nil || index < 0 || index >= len(s.Points) {
		return false
	}
	s.Points[index] = p
	if s.Kind == KindBox {
		s.Points[0], s.Points[1] = NormalizeBox(s.Points[0], s.Points[1])
	}
	return true
}

// InsertVertex inserts a vertex after the given index. Only polygons and
// masks accept new vertices.
func (st *Store) InsertVertex(id string, afterIndex int, p geometry.Point2D) bool {
	s := st.Find(id)
	if s == nil || s.Kind == KindBox {
		return false
	}
	if afterIndex < 0 || afterIndex >= len(s.Points) {
		return false
	}
	s.Points = append(s.Points, geometry.Point2D{})
	copy(s.Points[afterIndex+2:], s.Points[afterIndex+1:])
	s.Points[afterIndex+1] = p
	return true
}

// RemoveVertex drops one vertex. A polygon reduced below 3 vertices is
// deleted whole rather than left malformed; a box loses its identity as a
// rectangle when a corner goes, so it is also deleted whole; a mask is
// deleted when its last stroke point goes.
func (st *Store) RemoveVertex(id string, index int) bool {
	s := st.Find(id)
	if s == nil || index < 0 || index >= len(s.Points) {
		return false
	}

	if s.Kind == KindBox {
		return st.Remove(id)
	}

	s.Points = append(s.Points[:index], s.Points[index+1:]...)
	if s.degenerate() {
		return st.Remove(id)
	}
	return true
}

// Replace swaps in a whole new shape sequence atomically (import path).
// Shapes with missing ids are assigned fresh ones; the id counter advances
// past any numeric suffixes so later adds cannot collide.
func (st *Store) Replace(shapes []*Shape) {
	st.shapes = nil
	for _, s := range shapes {
		if s == nil || s.degenerate() {
			continue
		}
		c := s.Clone()
		if c.ID == "" {
			st.nextID++
			c.ID = "shape-" + strconv.Itoa(st.nextID)
		} else if n, err := strconv.Atoi(strings.TrimPrefix(c.ID, "shape-")); err == nil && n > st.nextID {
			st.nextID = n
		}
		st.shapes = append(st.shapes, c)
	}
}

// Snapshot returns a deep copy of all shapes, for export or undo.
func (st *Store) Snapshot() []*Shape {
	out := make([]*Shape, len(st.shapes))
	for i, s := range st.shapes {
		out[i] = s.Clone()
	}
	return out
}

// PushUndo records the current shape sequence. Callers push once per
// committed gesture (draw, drag, erase stroke, cut) so a single Undo
// reverses the whole gesture.
func (st *Store) PushUndo() {
	st.undo = append(st.undo, st.Snapshot())
	if len(st.undo) > maxUndoDepth {
		st.undo = st.undo[1:]
	}
}

// CanUndo reports whether an undo snapshot is available.
func (st *Store) CanUndo() bool {
	return len(st.undo) > 0
}

// Undo restores the most recent snapshot. Returns false if none exists.
func (st *Store) Undo() bool {
	if len(st.undo) == 0 {
		return false
	}
	st.shapes = st.undo[len(st.undo)-1]
	st.undo = st.undo[:len(st.undo)-1]
	return true
}

// DropUndo discards the most recent snapshot, for gestures that end up
// committing nothing.
func (st *Store) DropUndo() {
	if len(st.undo) > 0 {
		st.undo = st.undo[:len(st.undo)-1]
	}
}
