package imaging

// WorkingImage is the result of preparing a source grid for detection:
// a possibly downsampled copy, the scale that maps original coordinates to
// working coordinates, and the click point rescaled into the working grid.
type WorkingImage struct {
	// Grid is the working-resolution intensity grid.
	Grid *Grid

	// Scale maps original coordinates to working coordinates
	// (working = original * Scale). 1.0 when no downsampling occurred.
	Scale float64

	// ClickX, ClickY are the click coordinates rescaled into the working
	// grid and clamped to its bounds (inclusive).
	ClickX, ClickY int
}

// Preprocess prepares a grid for detection at a bounded working resolution.
//
// If the longer grid dimension exceeds maxDim, both axes are subsampled by
// the same integer stride, stride = floor(longest / maxDim), minimum 1.
// Strided subsampling is used instead of interpolating resamplers on
// purpose: it keeps every working sample equal to some original sample, so
// thresholds computed at working resolution mean the same thing they would
// at full resolution. The reported scale is derived from the stride
// actually applied (1/stride), not from the requested maxDim, which makes
// integer-factor round trips exact.
//
// The click coordinates are given in original-image pixel space; they are
// rescaled by the same factor and clamped into the working grid.
//
// maxDim <= 0 selects the default of 1024.
func Preprocess(g *Grid, clickX, clickY float64, maxDim int) *WorkingImage {
	if maxDim <= 0 {
		maxDim = DefaultMaxWorkingDim
	}

	longest := g.W
	if g.H > longest {
		longest = g.H
	}

	stride := 1
	if longest > maxDim {
		stride = longest / maxDim
		if stride < 1 {
			stride = 1
		}
	}

	work := g
	scale := 1.0
	if stride > 1 {
		newW := (g.W + stride - 1) / stride
		newH := (g.H + stride - 1) / stride
		work = NewGrid(newW, newH)
		for y := 0; y < newH; y++ {
			for x := 0; x < newW; x++ {
				work.Set(x, y, g.At(x*stride, y*stride))
			}
		}
		scale = 1.0 / float64(stride)
		clickX *= scale
		clickY *= scale
	}

	return &WorkingImage{
		Grid:   work,
		Scale:  scale,
		ClickX: clampInt(int(clickX), 0, work.W-1),
		ClickY: clampInt(int(clickY), 0, work.H-1),
	}
}

// DefaultMaxWorkingDim bounds the working resolution when the caller does
// not supply one. Detection cost grows with the square of the working
// dimension; 1024 keeps interactive clicks responsive on large captures.
const DefaultMaxWorkingDim = 1024

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
