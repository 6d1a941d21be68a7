package detection

import "math"

// Polygon simplification parameters. A raw traced contour carries one
// vertex per boundary pixel, often thousands; the consumers want a
// handful of shape-faithful vertices.
const (
	// DefaultPreviewVertices is the fixed vertex count for the cheap
	// preview simplification used during interactive clicks.
	DefaultPreviewVertices = 20

	// DefaultMinVertices and DefaultMaxVertices clamp the target count
	// of the adaptive simplification.
	DefaultMinVertices = 10
	DefaultMaxVertices = 100

	// DefaultPerimeterPerVertex spaces the adaptive target at roughly
	// one vertex per this many pixels of perimeter.
	DefaultPerimeterPerVertex = 8.0

	// epsilonSearchIterations caps the tolerance binary search, bounding
	// the cost of adaptive simplification at a fixed multiple of one
	// RDP pass.
	epsilonSearchIterations = 15
)

// rdp reduces pts with the Ramer-Douglas-Peucker algorithm at tolerance
// epsilon: the point farthest from the chord between the segment's
// endpoints is kept (and recursed on) only if its perpendicular distance
// exceeds epsilon.
//
// When concatenating recursive halves, the shared split point is dropped
// from the left half (left[:len-1] + right). The split point is the last
// element of left and the first of right; keeping both would duplicate a
// vertex at every recursion split.
func rdp(pts []Point, epsilon float64) []Point {
	if len(pts) < 3 {
		out := make([]Point, len(pts))
		copy(out, pts)
		return out
	}

	first, last := pts[0], pts[len(pts)-1]
	maxDist := -1.0
	maxIdx := 0
	for i := 1; i < len(pts)-1; i++ {
		d := perpendicularDistance(pts[i], first, last)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= epsilon {
		return []Point{first, last}
	}

	left := rdp(pts[:maxIdx+1], epsilon)
	right := rdp(pts[maxIdx:], epsilon)
	return append(left[:len(left)-1], right...)
}

// simplifyFixed decimates a contour to at most n vertices by uniform
// index sampling. O(n), not shape-optimal; it exists purely for
// low-latency interactive preview, where a slightly lumpy polygon drawn
// immediately beats a faithful one drawn late.
func simplifyFixed(pts []Point, n int) []Point {
	if n < 3 {
		n = 3
	}
	if len(pts) <= n {
		out := make([]Point, len(pts))
		copy(out, pts)
		return out
	}

	out := make([]Point, 0, n)
	step := float64(len(pts)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		idx := int(float64(i) * step)
		if i == n-1 {
			idx = len(pts) - 1
		}
		out = append(out, pts[idx])
	}
	return out
}

// simplifyAdaptive reduces a contour to a vertex count proportional to its
// complexity: the target is perimeter / perimeterPerVertex, clamped to
// [minVertices, maxVertices]. The RDP tolerance that yields approximately
// that count is found by binary search over [0, 0.5 * bounding-box
// diagonal], tracking the best result seen and exiting early once a trial
// lands within 2 vertices of the target.
//
// This is a best-effort calibration, not an exact-count algorithm: the
// result can miss the target by a few vertices. It never increases the
// vertex count, and never drops below minVertices unless the input itself
// has fewer points.
func simplifyAdaptive(pts []Point, perimeterPerVertex float64, minVertices, maxVertices int) []Point {
	if len(pts) < 3 {
		out := make([]Point, len(pts))
		copy(out, pts)
		return out
	}

	target := int(perimeter(pts) / perimeterPerVertex)
	if target < minVertices {
		target = minVertices
	}
	if target > maxVertices {
		target = maxVertices
	}

	if len(pts) <= target {
		out := make([]Point, len(pts))
		copy(out, pts)
		return out
	}

	low := 0.0
	high := 0.5 * boundingDiagonal(pts)
	best := pts
	bestDiff := math.MaxInt

	for i := 0; i < epsilonSearchIterations; i++ {
		epsilon := (low + high) / 2
		trial := rdp(pts, epsilon)

		diff := len(trial) - target
		absDiff := diff
		if absDiff < 0 {
			absDiff = -absDiff
		}
		if absDiff < bestDiff {
			best = trial
			bestDiff = absDiff
		}
		if absDiff <= 2 {
			break
		}

		if len(trial) > target {
			// Too many vertices survived: raise the tolerance floor.
			low = epsilon
		} else {
			high = epsilon
		}
	}

	return best
}
