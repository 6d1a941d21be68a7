package detection

import (
	"github.com/pipettekit/region-tools-mcp/internal/imaging"
)

// Detector runs click-to-polygon detection of dark regions. The zero
// value is not usable; construct with New, then adjust fields before the
// first call if the defaults do not fit.
//
// A Detector holds only configuration. Detection calls share no mutable
// state, so one Detector may serve concurrent calls.
type Detector struct {
	// MinAreaPx is the minimum region area, in original-image pixel
	// units, below which detection fails with ErrRegionTooSmall.
	MinAreaPx float64

	// DefaultTolerance is the tolerance fraction applied when a
	// detection call passes a negative tolerance.
	DefaultTolerance float64

	// PreviewVertices is the fixed vertex count of the preview polygon
	// returned by detection calls. FinalizePolygon ignores it.
	PreviewVertices int

	// MinVertices and MaxVertices clamp the adaptive vertex target used
	// by FinalizePolygon.
	MinVertices int
	MaxVertices int

	// PerimeterPerVertex spaces the adaptive vertex target at one vertex
	// per this many working-resolution pixels of perimeter.
	PerimeterPerVertex float64
}

// New returns a Detector with the standard tuning: minimum area 10 px,
// tolerance 0.10, 20-vertex previews, adaptive polygons of 10-100
// vertices at one vertex per 8 px of perimeter.
func New() *Detector {
	return &Detector{
		MinAreaPx:          10,
		DefaultTolerance:   0.10,
		PreviewVertices:    DefaultPreviewVertices,
		MinVertices:        DefaultMinVertices,
		MaxVertices:        DefaultMaxVertices,
		PerimeterPerVertex: DefaultPerimeterPerVertex,
	}
}

// Result is the immutable output of one successful detection call.
// Vertices, area, and centroid are in original-image pixel units; the
// mask stays at working resolution so FinalizePolygon can re-derive a
// higher-fidelity polygon from it without re-running detection.
type Result struct {
	// Vertices is the preview polygon: an ordered open vertex ring
	// (first and last vertex are adjacent, not duplicated).
	Vertices []Point `json:"vertices"`

	// Mask is the selected connected component at working resolution.
	Mask *Mask `json:"-"`

	// AreaPx is the region area in original-image pixel units.
	AreaPx float64 `json:"area_px"`

	// Centroid is the mean of member-pixel coordinates, in
	// original-image pixel units.
	Centroid Point `json:"centroid"`

	// ClickedValue is the intensity at the (working-resolution) click
	// pixel.
	ClickedValue float64 `json:"clicked_value"`

	// Threshold is the resolved intensity threshold: pixels strictly
	// below it were classified dark.
	Threshold float64 `json:"threshold"`

	// Scale maps original coordinates to working coordinates for this
	// detection (working = original * Scale).
	Scale float64 `json:"-"`
}

// DetectRegion detects the connected dark region containing the clicked
// pixel, using a relative threshold: clicked intensity plus tolerance
// times the image's dynamic range.
//
// clickX, clickY are in original-image pixel space. tolerance < 0 selects
// the detector default; valid values are fractions in [0, 1]. Zero is a
// real tolerance, not a request for the default: the threshold then equals
// the clicked intensity, and the strict comparison classifies every pixel
// as light. maxDim <= 0 selects the default working-resolution bound.
func (d *Detector) DetectRegion(g *imaging.Grid, clickX, clickY, tolerance float64, maxDim int) (*Result, error) {
	if tolerance < 0 {
		tolerance = d.DefaultTolerance
	}

	work := imaging.Preprocess(g, clickX, clickY, maxDim)

	min, max := work.Grid.MinMax()
	if max-min == 0 {
		return nil, ErrUniformImage
	}

	clicked := work.Grid.At(work.ClickX, work.ClickY)
	threshold := clicked + tolerance*(max-min)

	return d.assemble(work, clicked, threshold)
}

// DetectAbsolute detects the connected dark region containing the clicked
// pixel using an absolute intensity threshold, used verbatim.
func (d *Detector) DetectAbsolute(g *imaging.Grid, clickX, clickY, threshold float64, maxDim int) (*Result, error) {
	work := imaging.Preprocess(g, clickX, clickY, maxDim)

	min, max := work.Grid.MinMax()
	if max-min == 0 {
		return nil, ErrUniformImage
	}

	clicked := work.Grid.At(work.ClickX, work.ClickY)

	return d.assemble(work, clicked, threshold)
}

// assemble runs the shared tail of both detection entry points:
// isolate the component, trace its boundary, decimate to the preview
// polygon, and rescale everything to original-image units.
func (d *Detector) assemble(work *imaging.WorkingImage, clicked, threshold float64) (*Result, error) {
	reg, err := isolateRegion(work, threshold, d.MinAreaPx)
	if err != nil {
		return nil, err
	}

	contour, err := traceBoundary(reg.mask)
	if err != nil {
		return nil, err
	}

	preview := simplifyFixed(contour, d.PreviewVertices)
	rescalePoints(preview, 1.0/work.Scale)

	return &Result{
		Vertices:     preview,
		Mask:         reg.mask,
		AreaPx:       reg.areaPx,
		Centroid:     Point{X: reg.centroidX, Y: reg.centroidY},
		ClickedValue: clicked,
		Threshold:    reg.threshold,
		Scale:        work.Scale,
	}, nil
}

// FinalizePolygon re-derives a high-fidelity polygon from a detection's
// stored mask: the boundary is traced afresh and reduced with the
// adaptive error-bounded simplification instead of the preview
// decimation. Detection itself is not re-run.
//
// origW, origH give the original-image shape the vertices should be
// rescaled against. Pass zeros to fall back to the scale recorded at
// detection time.
func (d *Detector) FinalizePolygon(res *Result, origW, origH int) ([]Point, error) {
	contour, err := traceBoundary(res.Mask)
	if err != nil {
		return nil, err
	}

	poly := simplifyAdaptive(contour, d.PerimeterPerVertex, d.MinVertices, d.MaxVertices)

	invScale := 1.0 / res.Scale
	if origW > 0 && origH > 0 {
		origLongest := origW
		if origH > origLongest {
			origLongest = origH
		}
		workLongest := res.Mask.W
		if res.Mask.H > workLongest {
			workLongest = res.Mask.H
		}
		invScale = float64(origLongest) / float64(workLongest)
	}
	rescalePoints(poly, invScale)

	return poly, nil
}

// ThresholdRange returns the intensity extremes of a grid, for callers
// populating threshold sliders.
func ThresholdRange(g *imaging.Grid) (min, max float64) {
	return g.MinMax()
}

func rescalePoints(pts []Point, factor float64) {
	if factor == 1.0 {
		return
	}
	for i := range pts {
		pts[i].X *= factor
		pts[i].Y *= factor
	}
}
