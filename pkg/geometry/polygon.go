package geometry

import "math"

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// PolygonArea returns the absolute area of a polygon (shoelace formula).
func PolygonArea(polygon []Point2D) float64 {
	if len(polygon) < 3 {
		return 0
	}
	var sum float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return math.Abs(sum) / 2
}

// DistanceToSegment returns the distance from point p to segment a-b.
func DistanceToSegment(p, a, b Point2D) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(Point2D{X: a.X + t*ab.X, Y: a.Y + t*ab.Y})
}

// SegmentIntersection computes the intersection of segments p1-p2 and p3-p4.
// Returns the intersection point and true only if it lies within both segments.
func SegmentIntersection(p1, p2, p3, p4 Point2D) (Point2D, bool) {
	denom := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(denom) < 1e-10 {
		// Segments are parallel
		return Point2D{}, false
	}

	t := ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / denom
	u := ((p1.X-p3.X)*(p1.Y-p2.Y) - (p1.Y-p3.Y)*(p1.X-p2.X)) / denom

	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point2D{}, false
	}

	return Point2D{
		X: p1.X + t*(p2.X-p1.X),
		Y: p1.Y + t*(p2.Y-p1.Y),
	}, true
}

// ExtendSegment pushes both endpoints of segment a-b outward along its
// direction by the given distance, so a cut drawn just short of a polygon
// edge still crosses it.
func ExtendSegment(a, b Point2D, distance float64) (Point2D, Point2D) {
	length := a.Distance(b)
	if length == 0 {
		return a, b
	}
	dx := (b.X - a.X) / length
	dy := (b.Y - a.Y) / length
	newA := Point2D{X: a.X - dx*distance, Y: a.Y - dy*distance}
	newB := Point2D{X: b.X + dx*distance, Y: b.Y + dy*distance}
	return newA, newB
}

// MinSplitArea is the smallest area a polygon half may have after a split.
// Smaller fragments (slivers from cuts grazing a corner) are discarded.
const MinSplitArea = 10.0

// SplitPolygon splits a polygon along the cut segment cutA-cutB into two
// polygons, one per side of the cut. Callers normally extend the segment a
// little first (ExtendSegment) so a cut drawn just short of an edge still
// crosses it. Returns nil if the segment crosses the polygon boundary fewer
// than two times, or if either resulting half is degenerate.
func SplitPolygon(polygon []Point2D, cutA, cutB Point2D) [][]Point2D {
	if len(polygon) < 3 {
		return nil
	}

	a, b := cutA, cutB

	// side returns which side of the cut line a point lies on.
	side := func(p Point2D) float64 {
		return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	}

	var left, right []Point2D
	crossings := 0
	n := len(polygon)

	for i := 0; i < n; i++ {
		cur := polygon[i]
		next := polygon[(i+1)%n]
		curSide := side(cur)

		if curSide >= 0 {
			left = append(left, cur)
		}
		if curSide <= 0 {
			right = append(right, cur)
		}

		if (curSide > 0) != (side(next) > 0) {
			if ip, ok := SegmentIntersection(cur, next, a, b); ok {
				left = append(left, ip)
				right = append(right, ip)
				crossings++
			}
		}
	}

	if crossings < 2 {
		return nil
	}
	if len(left) < 3 || len(right) < 3 {
		return nil
	}
	if PolygonArea(left) <= MinSplitArea || PolygonArea(right) <= MinSplitArea {
		return nil
	}

	return [][]Point2D{left, right}
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// IsConvex returns true if the polygon vertices form a convex polygon.
// The polygon is assumed to be simple (non-self-intersecting).
func IsConvex(polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	n := len(polygon)
	var sign int

	for i := 0; i < n; i++ {
		cross := crossProduct(
			polygon[i],
			polygon[(i+1)%n],
			polygon[(i+2)%n],
		)

		if cross != 0 {
			currentSign := 1
			if cross < 0 {
				currentSign = -1
			}

			if sign == 0 {
				sign = currentSign
			} else if currentSign != sign {
				return false
			}
		}
	}

	return true
}
