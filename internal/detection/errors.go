package detection

import "errors"

// Detection failures are expected, recoverable outcomes: the user clicked
// somewhere unhelpful or the image has no usable contrast. Callers match
// them with errors.Is and present "no region detected, try adjusting the
// threshold" style feedback; no stage retries internally.
var (
	// ErrUniformImage indicates the image has zero dynamic range, so
	// thresholding is undefined.
	ErrUniformImage = errors.New("uniform image: intensity range is zero")

	// ErrNoRegion indicates the click point is not inside any dark-pixel
	// component, or the threshold produced no dark pixels at all.
	ErrNoRegion = errors.New("no region detected at click point")

	// ErrRegionTooSmall indicates the selected component, rescaled to
	// original-image units, is below the minimum area.
	ErrRegionTooSmall = errors.New("detected region below minimum area")

	// ErrBoundaryTooSmall indicates fewer than 3 boundary pixels were
	// available to form a polygon.
	ErrBoundaryTooSmall = errors.New("region boundary has fewer than 3 pixels")

	// ErrTraceFailed indicates boundary tracing could not produce a
	// contour of at least 3 points with any strategy.
	ErrTraceFailed = errors.New("boundary tracing failed")
)
