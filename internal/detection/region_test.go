package detection

import (
	"testing"

	"github.com/pipettekit/region-tools-mcp/internal/imaging"
)

func TestThresholdMask_StrictlyBelow(t *testing.T) {
	g := imaging.NewGrid(3, 1)
	g.Pix = []float64{99.9, 100, 100.1}

	m := thresholdMask(g, 100)
	want := []bool{true, false, false}
	for i, b := range m.Bits {
		if b != want[i] {
			t.Errorf("pixel %d (value %v): got %v, want %v", i, g.Pix[i], b, want[i])
		}
	}
}

func TestSelectComponent_DiagonalConnectivity(t *testing.T) {
	// Two pixels touching only at a corner belong to one component under
	// 8-connectivity.
	dark := NewMask(4, 4)
	dark.Set(1, 1, true)
	dark.Set(2, 2, true)

	component := selectComponent(dark, 1, 1)
	if component == nil {
		t.Fatal("component is nil")
	}
	if !component.At(2, 2) {
		t.Error("diagonal neighbor not included in component")
	}
	if component.Count() != 2 {
		t.Errorf("component count: got %d, want 2", component.Count())
	}
}

func TestSelectComponent_SeparateComponents(t *testing.T) {
	dark := NewMask(8, 8)
	dark.Set(1, 1, true)
	dark.Set(5, 5, true)

	component := selectComponent(dark, 1, 1)
	if component.At(5, 5) {
		t.Error("disconnected pixel leaked into component")
	}
}

func TestSelectComponent_ClickOutsideDark(t *testing.T) {
	dark := NewMask(4, 4)
	dark.Set(1, 1, true)

	if component := selectComponent(dark, 3, 3); component != nil {
		t.Errorf("expected nil for click on light pixel, got %d members", component.Count())
	}
	if component := selectComponent(dark, -1, 0); component != nil {
		t.Error("expected nil for out-of-bounds click")
	}
}

func TestIsolateRegion_RescalesStats(t *testing.T) {
	// A 4x4 dark block in a half-scale working image represents an 8x8
	// block in the original: 64 px area, centroid at twice the working
	// coordinates.
	g := makeUniformGrid(20, 20, 200)
	for y := 4; y < 8; y++ {
		for x := 4; x < 8; x++ {
			g.Set(x, y, 10)
		}
	}
	work := &imaging.WorkingImage{Grid: g, Scale: 0.5, ClickX: 5, ClickY: 5}

	reg, err := isolateRegion(work, 100, 10)
	if err != nil {
		t.Fatalf("isolateRegion: %v", err)
	}
	if reg.areaPx != 64 {
		t.Errorf("area: got %v, want 64", reg.areaPx)
	}
	if reg.centroidX != 11 || reg.centroidY != 11 {
		t.Errorf("centroid: got (%v, %v), want (11, 11)", reg.centroidX, reg.centroidY)
	}
	if reg.threshold != 100 {
		t.Errorf("threshold: got %v, want 100", reg.threshold)
	}
}

func TestMaskAt_OutOfBounds(t *testing.T) {
	m := NewMask(2, 2)
	m.Set(0, 0, true)
	m.Set(1, 1, true)

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if m.At(p[0], p[1]) {
			t.Errorf("At(%d, %d) out of bounds: got true", p[0], p[1])
		}
	}
}

func TestErode4(t *testing.T) {
	m := makeRectMask(10, 10, 2, 2, 6, 6)

	eroded := m.erode4()
	if !eroded.At(3, 3) {
		t.Error("interior pixel eroded away")
	}
	if eroded.At(2, 2) || eroded.At(2, 4) || eroded.At(4, 6) {
		t.Error("edge pixel survived erosion")
	}

	// Boundary pixel count of a filled 5x5 square is the outer ring.
	if n := m.Count() - eroded.Count(); n != 16 {
		t.Errorf("boundary pixel count: got %d, want 16", n)
	}
}
