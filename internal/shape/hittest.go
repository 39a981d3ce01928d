package shape

import (
	"anno-studio/pkg/geometry"
)

// VertexHit identifies a vertex found by HitVertex.
type VertexHit struct {
	ShapeID string
	Index   int
}

// HitVertex finds the vertex nearest to p within tolerance (both in image
// space). Ties resolve to the nearest vertex by Euclidean distance; exact
// ties resolve to the shape drawn last (topmost). Invisible shapes are
// skipped.
func HitVertex(p geometry.Point2D, shapes []*Shape, tolerance float64) (VertexHit, bool) {
	var hit VertexHit
	best := tolerance
	found := false

	// Topmost first, so an exact distance tie keeps the later shape.
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		if !s.Visible {
			continue
		}
		for j, v := range s.Points {
			d := p.Distance(v)
			if d <= best && (!found || d < best) {
				best = d
				hit = VertexHit{ShapeID: s.ID, Index: j}
				found = true
			}
		}
	}
	return hit, found
}

// HitBody finds the topmost visible shape whose body contains p. Polygons
// and boxes use even-odd ray casting; a mask is hit when p lies within the
// brush radius of any stroke point.
func HitBody(p geometry.Point2D, shapes []*Shape) (string, bool) {
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		if !s.Visible {
			continue
		}
		switch s.Kind {
		case KindPolygon:
			if geometry.PointInPolygon(p, s.Points) {
				return s.ID, true
			}
		case KindBox:
			if s.BoxRect().Contains(p) {
				return s.ID, true
			}
		case KindMask:
			for _, sp := range s.Points {
				if p.Distance(sp) <= s.BrushRadius {
					return s.ID, true
				}
			}
		}
	}
	return "", false
}

// NearestEdge returns the index of the outline edge of a polygon or box
// closest to p, along with the distance. Used to pick the insertion point
// when adding a vertex on an edge. Returns -1 for shapes without edges.
func NearestEdge(p geometry.Point2D, s *Shape) (int, float64) {
	pts := s.outline()
	if len(pts) < 2 {
		return -1, 0
	}
	bestIdx := -1
	bestDist := 0.0
	n := len(pts)
	for i := 0; i < n; i++ {
		if !s.Closed && s.Kind == KindPolygon && i == n-1 {
			break
		}
		d := geometry.DistanceToSegment(p, pts[i], pts[(i+1)%n])
		if bestIdx == -1 || d < bestDist {
			bestIdx = i
			bestDist = d
		}
	}
	return bestIdx, bestDist
}
