package detection

import (
	"github.com/pipettekit/region-tools-mcp/internal/imaging"
)

// region holds the isolated connected component for one detection call,
// together with the statistics the caller reports: pixel area and centroid
// rescaled to original-image units, and the threshold that produced it.
type region struct {
	mask      *Mask
	areaPx    float64
	centroidX float64
	centroidY float64
	threshold float64
}

// thresholdMask marks every pixel strictly below the threshold as dark.
//
// The predicate is deliberately < and not <=: a pixel exactly at the
// threshold is light. Detections are compared across sessions and across
// reimplementations, so this boundary behavior is load-bearing and must
// not be "fixed" to inclusive.
func thresholdMask(g *imaging.Grid, threshold float64) *Mask {
	m := NewMask(g.W, g.H)
	for i, v := range g.Pix {
		if v < threshold {
			m.Bits[i] = true
		}
	}
	return m
}

// selectComponent isolates the 8-connected component of dark that
// contains (clickX, clickY), using an iterative stack flood fill.
//
// Returns nil if the click pixel is not a member of dark.
func selectComponent(dark *Mask, clickX, clickY int) *Mask {
	if !dark.At(clickX, clickY) {
		return nil
	}

	component := NewMask(dark.W, dark.H)
	visited := make([]bool, dark.W*dark.H)
	stack := [][2]int{{clickX, clickY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := p[0], p[1]

		if x < 0 || x >= dark.W || y < 0 || y >= dark.H {
			continue
		}
		idx := y*dark.W + x
		if visited[idx] || !dark.Bits[idx] {
			continue
		}

		visited[idx] = true
		component.Bits[idx] = true

		// 8-connected neighbors
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, [2]int{x + dx, y + dy})
			}
		}
	}

	return component
}

// isolateRegion runs thresholding and component selection for one
// detection call and computes the region statistics in original-image
// units (area divided by scale squared, centroid divided by scale).
func isolateRegion(work *imaging.WorkingImage, threshold, minAreaPx float64) (*region, error) {
	dark := thresholdMask(work.Grid, threshold)

	component := selectComponent(dark, work.ClickX, work.ClickY)
	if component == nil {
		return nil, ErrNoRegion
	}

	count := component.Count()
	areaPx := float64(count) / (work.Scale * work.Scale)
	if areaPx < minAreaPx {
		return nil, ErrRegionTooSmall
	}

	var sumX, sumY float64
	for y := 0; y < component.H; y++ {
		for x := 0; x < component.W; x++ {
			if component.Bits[y*component.W+x] {
				sumX += float64(x)
				sumY += float64(y)
			}
		}
	}
	n := float64(count)

	return &region{
		mask:      component,
		areaPx:    areaPx,
		centroidX: sumX / n / work.Scale,
		centroidY: sumY / n / work.Scale,
		threshold: threshold,
	}, nil
}
