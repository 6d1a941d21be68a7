package detection

import "sort"

// Boundary tracing converts a single-component binary mask into an ordered
// pass around the region's perimeter. Two strategies are tried in order:
//
//  1. Marching squares at the 0.5 iso-level. Sub-pixel output: vertices sit
//     on cell edges halfway between a member and a non-member sample.
//  2. Moore-Neighbor pixel tracing. Integer pixel centers, guaranteed to
//     terminate, used whenever marching squares cannot produce a closed
//     contour (e.g. the region touches the mask border in a way that
//     leaves open segment chains).
//
// The strategies are an ordered list rather than a type hierarchy; adding
// a new tracer means appending a function.
type traceStrategy func(*Mask) ([]Point, error)

var traceStrategies = []traceStrategy{
	traceMarchingSquares,
	traceMoore,
}

// traceBoundary runs the strategy list and returns the first contour with
// at least 3 points. The returned points are (x, y) working-resolution
// coordinates, one pass around the region.
func traceBoundary(m *Mask) ([]Point, error) {
	var lastErr error = ErrTraceFailed
	for _, strategy := range traceStrategies {
		contour, err := strategy(m)
		if err != nil {
			lastErr = err
			continue
		}
		if len(contour) >= 3 {
			return contour, nil
		}
	}
	return nil, lastErr
}

// === Marching squares ===

// traceMarchingSquares extracts the 0.5 iso-contour of the mask treated as
// a 0/1 float field sampled at pixel centers. Each 2x2 sample cell
// contributes 0-2 segments whose endpoints lie at edge midpoints; segments
// are chained into closed loops and the longest loop (by vertex count) is
// returned as the boundary.
func traceMarchingSquares(m *Mask) ([]Point, error) {
	type edgePoint struct {
		// Doubled coordinates so midpoints stay integral map keys.
		x2, y2 int
	}

	segments := make(map[edgePoint][]edgePoint)
	addSegment := func(a, b edgePoint) {
		segments[a] = append(segments[a], b)
		segments[b] = append(segments[b], a)
	}

	// Midpoints of the four cell edges, in doubled coordinates relative
	// to the cell's top-left sample (x, y).
	top := func(x, y int) edgePoint { return edgePoint{2*x + 1, 2 * y} }
	bottom := func(x, y int) edgePoint { return edgePoint{2*x + 1, 2*y + 2} }
	left := func(x, y int) edgePoint { return edgePoint{2 * x, 2*y + 1} }
	right := func(x, y int) edgePoint { return edgePoint{2*x + 2, 2*y + 1} }

	// Scan one cell beyond the mask on every side so regions touching the
	// border still close: out-of-bounds samples read as background.
	for y := -1; y < m.H; y++ {
		for x := -1; x < m.W; x++ {
			idx := 0
			if m.At(x, y) {
				idx |= 1 // top-left
			}
			if m.At(x+1, y) {
				idx |= 2 // top-right
			}
			if m.At(x+1, y+1) {
				idx |= 4 // bottom-right
			}
			if m.At(x, y+1) {
				idx |= 8 // bottom-left
			}

			switch idx {
			case 0, 15:
				// all background or all foreground: no crossing
			case 1, 14:
				addSegment(top(x, y), left(x, y))
			case 2, 13:
				addSegment(top(x, y), right(x, y))
			case 3, 12:
				addSegment(left(x, y), right(x, y))
			case 4, 11:
				addSegment(right(x, y), bottom(x, y))
			case 5:
				// Saddle: connect the dark diagonal by cutting off the
				// two background corners, so the traced contour joins
				// regions the same way the 8-connected labeling does.
				addSegment(top(x, y), right(x, y))
				addSegment(left(x, y), bottom(x, y))
			case 6, 9:
				addSegment(top(x, y), bottom(x, y))
			case 7, 8:
				addSegment(left(x, y), bottom(x, y))
			case 10:
				// Saddle, opposite orientation.
				addSegment(top(x, y), left(x, y))
				addSegment(right(x, y), bottom(x, y))
			}
		}
	}

	if len(segments) < 3 {
		return nil, ErrBoundaryTooSmall
	}

	// Chain segments into loops; keep the longest loop. Nodes are visited
	// in sorted order so the traced contour is identical across runs
	// (map iteration order would randomize the loop's starting vertex).
	nodes := make([]edgePoint, 0, len(segments))
	for n := range segments {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].y2 != nodes[j].y2 {
			return nodes[i].y2 < nodes[j].y2
		}
		return nodes[i].x2 < nodes[j].x2
	})

	visited := make(map[[2]edgePoint]bool)
	edgeKey := func(a, b edgePoint) [2]edgePoint {
		if b.x2 < a.x2 || (b.x2 == a.x2 && b.y2 < a.y2) {
			a, b = b, a
		}
		return [2]edgePoint{a, b}
	}

	var longest []Point
	for _, start := range nodes {
		for _, next := range segments[start] {
			if visited[edgeKey(start, next)] {
				continue
			}

			loop := []Point{{X: float64(start.x2) / 2, Y: float64(start.y2) / 2}}
			prev, curr := start, next
			visited[edgeKey(prev, curr)] = true
			closed := false

			for steps := 0; steps <= len(segments)*2; steps++ {
				if curr == start {
					closed = true
					break
				}
				loop = append(loop, Point{X: float64(curr.x2) / 2, Y: float64(curr.y2) / 2})

				advanced := false
				for _, cand := range segments[curr] {
					if cand == prev || visited[edgeKey(curr, cand)] {
						continue
					}
					visited[edgeKey(curr, cand)] = true
					prev, curr = curr, cand
					advanced = true
					break
				}
				if !advanced {
					// Open chain: the only way back is the closing
					// edge to start, if present.
					if curr != start && hasNeighbor(segments[curr], start) && !visited[edgeKey(curr, start)] {
						visited[edgeKey(curr, start)] = true
						closed = true
					}
					break
				}
			}

			if closed && len(loop) > len(longest) {
				longest = loop
			}
		}
	}

	if len(longest) < 3 {
		return nil, ErrTraceFailed
	}
	return longest, nil
}

func hasNeighbor[T comparable](list []T, want T) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

// === Moore-Neighbor tracing ===

// The eight neighborhood directions in fixed clockwise order starting at
// west. The walk below depends on this exact enumeration: changing the
// order or the start changes which contour a given mask produces.
var (
	mooreDX = [8]int{-1, -1, 0, 1, 1, 1, 0, -1}
	mooreDY = [8]int{0, -1, -1, -1, 0, 1, 1, 1}
)

// traceMoore walks the outer boundary of the mask's region using
// Moore-Neighbor tracing over the boundary-pixel set (mask minus its
// 4-neighbor erosion).
//
// The start pixel is the topmost, then leftmost, boundary pixel. From each
// pixel the next one is searched clockwise beginning five positions past
// the direction just arrived from; backtracking like this keeps the walk
// on the outer boundary instead of cutting across concavities.
//
// The walk ends successfully on returning to the start pixel with more
// than 2 accumulated points. It also ends, returning the partial contour,
// when no neighbor is found or when the point count exceeds twice the
// boundary-pixel count.
func traceMoore(m *Mask) ([]Point, error) {
	boundary := NewMask(m.W, m.H)
	eroded := m.erode4()
	boundaryCount := 0
	for i := range m.Bits {
		if m.Bits[i] && !eroded.Bits[i] {
			boundary.Bits[i] = true
			boundaryCount++
		}
	}

	if boundaryCount < 3 {
		return nil, ErrBoundaryTooSmall
	}

	// Topmost-leftmost boundary pixel; row-major scan order gives exactly
	// the minimal-row, then minimal-column tie-break.
	startX, startY := -1, -1
	for i, b := range boundary.Bits {
		if b {
			startX, startY = i%boundary.W, i/boundary.W
			break
		}
	}

	contour := []Point{{X: float64(startX), Y: float64(startY)}}
	currX, currY := startX, startY
	direction := 0 // incoming direction, west until the first step

	maxIterations := boundaryCount * 4
	for iter := 0; iter < maxIterations; iter++ {
		found := false
		searchStart := (direction + 5) % 8

		for i := 0; i < 8; i++ {
			searchDir := (searchStart + i) % 8
			nx := currX + mooreDX[searchDir]
			ny := currY + mooreDY[searchDir]

			if !boundary.At(nx, ny) {
				continue
			}

			if nx == startX && ny == startY && len(contour) > 2 {
				// Back to start: one complete pass.
				return contour, nil
			}

			contour = append(contour, Point{X: float64(nx), Y: float64(ny)})
			currX, currY = nx, ny
			direction = searchDir
			found = true
			break
		}

		if !found {
			break
		}
		if len(contour) > boundaryCount*2 {
			break
		}
	}

	if len(contour) < 3 {
		return nil, ErrTraceFailed
	}
	return contour, nil
}
