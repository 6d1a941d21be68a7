package detection

import (
	"errors"
	"math"
	"testing"
)

// makeRectMask creates a mask with a filled rectangle, inclusive bounds.
func makeRectMask(w, h, x1, y1, x2, y2 int) *Mask {
	m := NewMask(w, h)
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			m.Set(x, y, true)
		}
	}
	return m
}

// makeDiskMask creates a mask with a filled disk, strict radius test.
func makeDiskMask(w, h, cx, cy, radius int) *Mask {
	m := NewMask(w, h)
	r2 := radius * radius
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy < r2 {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// makeDiagonalNeckMask joins two 3x3 blocks at a single diagonal corner:
// one 8-connected component whose only link is the (5,5)-(6,6) touch.
func makeDiagonalNeckMask() *Mask {
	m := NewMask(12, 12)
	for y := 3; y <= 5; y++ {
		for x := 3; x <= 5; x++ {
			m.Set(x, y, true)
		}
	}
	for y := 6; y <= 8; y++ {
		for x := 6; x <= 8; x++ {
			m.Set(x, y, true)
		}
	}
	return m
}

func TestTraceBoundary_ClosureAndArea(t *testing.T) {
	m := makeDiskMask(100, 100, 50, 50, 20)

	contour, err := traceBoundary(m)
	if err != nil {
		t.Fatalf("traceBoundary failed: %v", err)
	}
	if len(contour) < 3 {
		t.Fatalf("contour has %d points, want >= 3", len(contour))
	}

	area := math.Abs(signedArea(contour))
	if area == 0 {
		t.Fatal("closed contour has zero signed area")
	}

	// The enclosed area should approximate the pixel count.
	count := float64(m.Count())
	if math.Abs(area-count) > 0.15*count {
		t.Errorf("signed area %.0f far from pixel count %.0f", area, count)
	}
}

func TestTraceBoundary_DiagonalNeck(t *testing.T) {
	m := makeDiagonalNeckMask()

	contour, err := traceBoundary(m)
	if err != nil {
		t.Fatalf("traceBoundary failed: %v", err)
	}

	// The contour must enclose both lobes, not stop at the neck: its
	// extent has to cross into the second block (x, y >= 6) and its area
	// has to cover substantially more than one 3x3 lobe.
	maxX, maxY := contour[0].X, contour[0].Y
	for _, p := range contour[1:] {
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	if maxX < 6 || maxY < 6 {
		t.Errorf("contour extent (%.1f, %.1f) never reaches the second lobe", maxX, maxY)
	}

	area := math.Abs(signedArea(contour))
	if area < 12 {
		t.Errorf("contour area %.1f covers only one lobe", area)
	}
}

// properCrossing reports whether segments ab and cd intersect at an
// interior point of both.
func properCrossing(a, b, c, d Point) bool {
	orient := func(p, q, r Point) float64 {
		return (q.X-p.X)*(r.Y-p.Y) - (q.Y-p.Y)*(r.X-p.X)
	}
	return orient(a, b, c)*orient(a, b, d) < 0 && orient(c, d, a)*orient(c, d, b) < 0
}

func assertNoSelfIntersection(t *testing.T, name string, contour []Point) {
	t.Helper()
	n := len(contour)
	for i := 0; i < n; i++ {
		a, b := contour[i], contour[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				// Adjacent through the wraparound segment.
				continue
			}
			c, d := contour[j], contour[(j+1)%n]
			if properCrossing(a, b, c, d) {
				t.Errorf("%s: segments %d-%d and %d-%d cross", name, i, (i+1)%n, j, (j+1)%n)
			}
		}
	}
}

func TestTraceBoundary_NoSelfIntersection(t *testing.T) {
	masks := map[string]*Mask{
		"disk":          makeDiskMask(60, 60, 30, 30, 12),
		"rectangle":     makeRectMask(20, 20, 4, 4, 15, 12),
		"diagonal neck": makeDiagonalNeckMask(),
	}
	for name, m := range masks {
		contour, err := traceBoundary(m)
		if err != nil {
			t.Fatalf("%s: traceBoundary failed: %v", name, err)
		}
		assertNoSelfIntersection(t, name, contour)
	}
}

func TestTraceBoundary_Deterministic(t *testing.T) {
	m := makeDiskMask(80, 80, 40, 40, 15)

	first, err := traceBoundary(m)
	if err != nil {
		t.Fatalf("traceBoundary failed: %v", err)
	}

	for run := 0; run < 5; run++ {
		again, err := traceBoundary(m)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: %d points, first run had %d", run, len(again), len(first))
		}
		for i := range again {
			if again[i] != first[i] {
				t.Fatalf("run %d: point %d differs: %v vs %v", run, i, again[i], first[i])
			}
		}
	}
}

func TestTraceMarchingSquares_SubPixel(t *testing.T) {
	// 2x2 block at (5,5): the 0.5 iso-contour crosses cell edges at
	// half-pixel offsets around the block.
	m := makeRectMask(12, 12, 5, 5, 6, 6)

	contour, err := traceMarchingSquares(m)
	if err != nil {
		t.Fatalf("traceMarchingSquares failed: %v", err)
	}

	for _, p := range contour {
		if p.X < 4.5 || p.X > 6.5 || p.Y < 4.5 || p.Y > 6.5 {
			t.Errorf("contour point (%v, %v) outside expected band", p.X, p.Y)
		}
		fracX := p.X - math.Floor(p.X)
		fracY := p.Y - math.Floor(p.Y)
		if fracX != 0 && fracX != 0.5 || fracY != 0 && fracY != 0.5 {
			t.Errorf("contour point (%v, %v) not on a half-pixel crossing", p.X, p.Y)
		}
	}
}

func TestTraceMarchingSquares_RegionTouchingBorder(t *testing.T) {
	// Region flush against the mask border still yields a closed contour
	// because scanning extends one cell beyond the grid.
	m := makeRectMask(10, 10, 0, 0, 4, 4)

	contour, err := traceMarchingSquares(m)
	if err != nil {
		t.Fatalf("traceMarchingSquares failed: %v", err)
	}
	if math.Abs(signedArea(contour)) == 0 {
		t.Error("border-touching region produced a degenerate contour")
	}
}

func TestTraceMoore_Disk(t *testing.T) {
	m := makeDiskMask(100, 100, 50, 50, 20)

	contour, err := traceMoore(m)
	if err != nil {
		t.Fatalf("traceMoore failed: %v", err)
	}
	if len(contour) < 3 {
		t.Fatalf("contour has %d points, want >= 3", len(contour))
	}

	// Start pixel is the topmost, then leftmost, boundary pixel.
	first := contour[0]
	for _, p := range contour[1:] {
		if p.Y < first.Y || (p.Y == first.Y && p.X < first.X) {
			t.Errorf("point (%v, %v) precedes start (%v, %v) in scan order", p.X, p.Y, first.X, first.Y)
		}
	}

	// Every contour point must be a boundary pixel of the disk.
	eroded := m.erode4()
	for _, p := range contour {
		x, y := int(p.X), int(p.Y)
		if !m.At(x, y) || eroded.At(x, y) {
			t.Errorf("contour point (%v, %v) is not a boundary pixel", p.X, p.Y)
		}
	}

	if math.Abs(signedArea(contour)) == 0 {
		t.Error("disk contour has zero signed area")
	}
}

func TestTraceMoore_Deterministic(t *testing.T) {
	m := makeDiskMask(60, 60, 30, 30, 12)

	first, err := traceMoore(m)
	if err != nil {
		t.Fatalf("traceMoore failed: %v", err)
	}
	again, err := traceMoore(m)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(first) != len(again) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(again))
	}
	for i := range first {
		if first[i] != again[i] {
			t.Fatalf("point %d differs: %v vs %v", i, first[i], again[i])
		}
	}
}

func TestTraceMoore_TooSmall(t *testing.T) {
	m := NewMask(10, 10)
	m.Set(5, 5, true)
	m.Set(6, 5, true)

	_, err := traceMoore(m)
	if !errors.Is(err, ErrBoundaryTooSmall) {
		t.Errorf("got error %v, want ErrBoundaryTooSmall", err)
	}
}

func TestTraceBoundary_SinglePixelFallback(t *testing.T) {
	// A single pixel closes under marching squares (a diamond of four
	// midpoints) even though Moore tracing cannot handle it.
	m := NewMask(10, 10)
	m.Set(5, 5, true)

	contour, err := traceBoundary(m)
	if err != nil {
		t.Fatalf("traceBoundary failed: %v", err)
	}
	if len(contour) != 4 {
		t.Errorf("single pixel contour: got %d points, want 4", len(contour))
	}
}
