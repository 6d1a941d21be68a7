package detection

import (
	"math"
	"testing"
)

// makeCircleContour generates n points on a circle, optionally perturbed
// radially by a sinusoid so the contour is not trivially collinear.
func makeCircleContour(n int, cx, cy, radius, wobble float64) []Point {
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		r := radius + wobble*math.Sin(7*angle)
		pts[i] = Point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}

func TestRDP_StraightLineCollapses(t *testing.T) {
	pts := make([]Point, 50)
	for i := range pts {
		pts[i] = Point{X: float64(i), Y: 2 * float64(i)}
	}

	out := rdp(pts, 0.01)
	if len(out) != 2 {
		t.Errorf("collinear input: got %d points, want 2", len(out))
	}
	if out[0] != pts[0] || out[1] != pts[len(pts)-1] {
		t.Errorf("endpoints not preserved: got %v, %v", out[0], out[1])
	}
}

func TestRDP_NoDuplicateAtSplitPoints(t *testing.T) {
	pts := makeCircleContour(300, 100, 100, 50, 5)

	out := rdp(pts, 1.0)
	for i := 1; i < len(out); i++ {
		if out[i] == out[i-1] {
			t.Errorf("duplicate vertex %v at position %d", out[i], i)
		}
	}
}

func TestRDP_ErrorBound(t *testing.T) {
	pts := makeCircleContour(400, 100, 100, 60, 4)
	epsilon := 1.5

	out := rdp(pts, epsilon)

	// The simplified points are a subsequence of the input; recover their
	// indices, then verify every dropped point sits within epsilon of the
	// chord spanning its containing gap.
	indices := make([]int, 0, len(out))
	j := 0
	for _, p := range out {
		for j < len(pts) && pts[j] != p {
			j++
		}
		if j == len(pts) {
			t.Fatalf("simplified point %v not found in input order", p)
		}
		indices = append(indices, j)
	}

	for k := 1; k < len(indices); k++ {
		a, b := pts[indices[k-1]], pts[indices[k]]
		for i := indices[k-1] + 1; i < indices[k]; i++ {
			if d := perpendicularDistance(pts[i], a, b); d > epsilon+1e-9 {
				t.Errorf("dropped point %d at distance %.3f from chord, want <= %.3f", i, d, epsilon)
			}
		}
	}
}

func TestRDP_DegenerateChord(t *testing.T) {
	// First and last point coincide: the distance fallback must still
	// find the far point.
	pts := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	out := rdp(pts, 1.0)
	if len(out) < 3 {
		t.Errorf("closed square collapsed to %d points", len(out))
	}
}

func TestSimplifyFixed(t *testing.T) {
	pts := makeCircleContour(500, 0, 0, 100, 0)

	out := simplifyFixed(pts, 20)
	if len(out) != 20 {
		t.Fatalf("got %d points, want 20", len(out))
	}
	if out[0] != pts[0] {
		t.Errorf("first point not preserved: %v", out[0])
	}
	if out[len(out)-1] != pts[len(pts)-1] {
		t.Errorf("last point not preserved: %v", out[len(out)-1])
	}
}

func TestSimplifyFixed_ShortInputUnchanged(t *testing.T) {
	pts := makeCircleContour(12, 0, 0, 10, 0)
	out := simplifyFixed(pts, 20)
	if len(out) != 12 {
		t.Errorf("short input changed length: %d", len(out))
	}
}

func TestSimplifyAdaptive_TargetRange(t *testing.T) {
	// ~628 px perimeter puts the nominal target near 79 vertices.
	pts := makeCircleContour(1000, 0, 0, 100, 3)

	out := simplifyAdaptive(pts, DefaultPerimeterPerVertex, DefaultMinVertices, DefaultMaxVertices)

	if len(out) > len(pts) {
		t.Fatalf("simplification increased vertex count: %d -> %d", len(pts), len(out))
	}
	if len(out) < DefaultMinVertices || len(out) > DefaultMaxVertices {
		t.Errorf("vertex count %d outside [%d, %d]", len(out), DefaultMinVertices, DefaultMaxVertices)
	}

	// Best-effort calibration: allow a few vertices of slack around the
	// nominal target.
	target := int(perimeter(pts) / DefaultPerimeterPerVertex)
	if target > DefaultMaxVertices {
		target = DefaultMaxVertices
	}
	if diff := len(out) - target; diff < -8 || diff > 8 {
		t.Errorf("vertex count %d misses target %d by %d", len(out), target, diff)
	}
}

func TestSimplifyAdaptive_ShortInputUnchanged(t *testing.T) {
	pts := makeCircleContour(8, 0, 0, 100, 0)
	out := simplifyAdaptive(pts, DefaultPerimeterPerVertex, DefaultMinVertices, DefaultMaxVertices)
	if len(out) != 8 {
		t.Errorf("input below target changed length: %d", len(out))
	}
}

func TestSimplifyAdaptive_ClampsToMax(t *testing.T) {
	// A huge perimeter would want hundreds of vertices; the clamp caps it.
	pts := makeCircleContour(4000, 0, 0, 500, 10)
	out := simplifyAdaptive(pts, DefaultPerimeterPerVertex, DefaultMinVertices, DefaultMaxVertices)
	if len(out) > DefaultMaxVertices+2 {
		t.Errorf("vertex count %d exceeds clamp %d", len(out), DefaultMaxVertices)
	}
}

func TestPerimeter_IncludesWraparound(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if p := perimeter(square); math.Abs(p-40) > 1e-9 {
		t.Errorf("perimeter: got %v, want 40", p)
	}
}

func TestSignedArea(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if a := signedArea(square); math.Abs(math.Abs(a)-100) > 1e-9 {
		t.Errorf("signed area: got %v, want +/-100", a)
	}
	if a := signedArea(square[:2]); a != 0 {
		t.Errorf("degenerate polygon area: got %v, want 0", a)
	}
}
