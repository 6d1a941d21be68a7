package detection

import "math"

// Point is a 2D coordinate in pixel space. Unlike integer pixel indices,
// polygon vertices are real-valued: sub-pixel contour extraction and
// coordinate rescaling both produce fractional positions.
type Point struct {
	X float64 `json:"x"` // Horizontal position (0 = leftmost)
	Y float64 `json:"y"` // Vertical position (0 = topmost)
}

// perimeter returns the total length of the closed polyline through pts,
// including the wraparound segment from the last point back to the first.
func perimeter(pts []Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	var total float64
	for i := range pts {
		next := pts[(i+1)%len(pts)]
		total += math.Hypot(next.X-pts[i].X, next.Y-pts[i].Y)
	}
	return total
}

// boundingDiagonal returns the diagonal length of the axis-aligned
// bounding box of pts. Used to bound the RDP tolerance search.
func boundingDiagonal(pts []Point) float64 {
	if len(pts) == 0 {
		return 0
	}
	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return math.Hypot(maxX-minX, maxY-minY)
}

// signedArea returns the signed area of the closed polygon through pts
// (shoelace formula). Positive for counter-clockwise winding in a Y-down
// coordinate system's mathematical sense; callers only care that it is
// non-zero for a valid closed boundary.
func signedArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i := range pts {
		next := pts[(i+1)%len(pts)]
		sum += pts[i].X*next.Y - next.X*pts[i].Y
	}
	return sum / 2
}

// perpendicularDistance returns the distance from p to the infinite line
// through a and b. When a and b nearly coincide the chord direction is
// undefined, so the distance to a is returned instead.
func perpendicularDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length < 1e-12 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / length
}
