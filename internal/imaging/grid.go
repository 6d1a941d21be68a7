package imaging

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Grid is a single-channel intensity image stored as a flat row-major
// float64 buffer. It is the working representation for all detection
// operations: scientific images arrive as real-valued 2-D arrays, not
// 8-bit color pixels, so intensities are kept as float64 end to end.
//
// The coordinate convention matches the rest of the project: (0,0) is the
// top-left sample, X increases rightward (columns), Y increases downward
// (rows). Pix[y*W+x] is the sample at (x, y).
//
// A Grid is treated as immutable once it enters a detection call; callers
// that want to mutate a grid concurrently with detection must pass a copy.
type Grid struct {
	// W is the grid width in samples (columns).
	W int

	// H is the grid height in samples (rows).
	H int

	// Pix holds W*H samples in row-major order.
	Pix []float64
}

// NewGrid allocates a zero-filled grid of the given dimensions.
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Pix: make([]float64, w*h)}
}

// At returns the sample at (x, y). No bounds checking is performed;
// callers must ensure the coordinate is valid (see InBounds).
func (g *Grid) At(x, y int) float64 {
	return g.Pix[y*g.W+x]
}

// Set stores a sample at (x, y). No bounds checking is performed.
func (g *Grid) Set(x, y int, v float64) {
	g.Pix[y*g.W+x] = v
}

// InBounds reports whether (x, y) addresses a valid sample.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// MinMax returns the minimum and maximum sample values of the grid.
// The difference of the two is the dynamic range used by relative
// thresholding; a zero range means the grid is uniform.
func (g *Grid) MinMax() (min, max float64) {
	return floats.Min(g.Pix), floats.Max(g.Pix)
}

// Dense returns the grid as a gonum matrix (rows = H, columns = W).
// The returned matrix shares no storage with the grid.
func (g *Grid) Dense() *mat.Dense {
	d := mat.NewDense(g.H, g.W, nil)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			d.Set(y, x, g.At(x, y))
		}
	}
	return d
}

// FromDense converts a gonum matrix into a grid. Row index maps to Y,
// column index to X.
func FromDense(d *mat.Dense) *Grid {
	rows, cols := d.Dims()
	g := NewGrid(cols, rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			g.Set(x, y, d.At(y, x))
		}
	}
	return g
}

// FromImage converts a decoded image into an intensity grid.
//
// Color inputs are collapsed with an unweighted channel mean
// ((R + G + B) / 3), not a luminance formula. Scientific viewers treat the
// channels of a multi-channel capture as equal-weight data planes; using
// perceptual weights here would shift every threshold relative to the data.
// Samples are scaled to the 0-255 range regardless of source bit depth.
func FromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	g := NewGrid(bounds.Dx(), bounds.Dy())

	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			r, gc, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			v := (float64(r>>8) + float64(gc>>8) + float64(b>>8)) / 3.0
			g.Set(x, y, v)
		}
	}
	return g
}

// FromChannels collapses up to four single-channel planes into one grid by
// an unweighted per-sample mean. This is the entry point for callers that
// hold a 3-D (height x width x channel) array: pass each channel as its own
// grid.
//
// All planes must share the same dimensions.
func FromChannels(channels []*Grid) (*Grid, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("no channels provided")
	}
	if len(channels) > 4 {
		return nil, fmt.Errorf("too many channels: %d (maximum 4)", len(channels))
	}

	w, h := channels[0].W, channels[0].H
	for i, ch := range channels[1:] {
		if ch.W != w || ch.H != h {
			return nil, fmt.Errorf("channel %d is %dx%d, want %dx%d", i+1, ch.W, ch.H, w, h)
		}
	}

	if len(channels) == 1 {
		out := NewGrid(w, h)
		copy(out.Pix, channels[0].Pix)
		return out, nil
	}

	out := NewGrid(w, h)
	inv := 1.0 / float64(len(channels))
	for i := range out.Pix {
		var sum float64
		for _, ch := range channels {
			sum += ch.Pix[i]
		}
		out.Pix[i] = sum * inv
	}
	return out, nil
}
