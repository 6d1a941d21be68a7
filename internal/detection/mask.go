package detection

// Mask is a binary grid marking membership in a candidate region. It is
// stored as a flat row-major bool buffer with the same (x, y) convention
// as imaging.Grid.
type Mask struct {
	// W, H are the mask dimensions in pixels (working resolution).
	W, H int

	// Bits holds W*H membership flags in row-major order.
	Bits []bool
}

// NewMask allocates an all-false mask of the given dimensions.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Bits: make([]bool, w*h)}
}

// At reports membership at (x, y). Out-of-bounds coordinates are treated
// as non-members, which lets neighborhood scans run without edge guards.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.Bits[y*m.W+x]
}

// Set stores membership at (x, y). No bounds checking is performed.
func (m *Mask) Set(x, y int, v bool) {
	m.Bits[y*m.W+x] = v
}

// Count returns the number of member pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// erode4 returns the mask eroded with a cross-shaped structuring element:
// a pixel survives only if all four direct neighbors are also members.
// Subtracting the erosion from the mask leaves exactly the boundary pixels.
func (m *Mask) erode4() *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.At(x, y) && m.At(x-1, y) && m.At(x+1, y) && m.At(x, y-1) && m.At(x, y+1) {
				out.Set(x, y, true)
			}
		}
	}
	return out
}
