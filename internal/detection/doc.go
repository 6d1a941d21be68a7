// Package detection implements click-to-polygon detection of dark regions
// in scientific images.
//
// Given an intensity grid and a clicked pixel, the pipeline segments the
// connected dark region containing the click, traces its boundary into an
// ordered polygon, and simplifies that polygon to a vertex count matched
// to its complexity.
//
// # Pipeline
//
// Every detection call runs the same stages, each producing a new value:
//
//  1. Preprocess: collapse channels, downsample large grids by an integer
//     stride, rescale the click point (internal/imaging).
//  2. Threshold: classify pixels strictly below the threshold as dark.
//     The threshold is either absolute or derived from the clicked
//     intensity plus a tolerance fraction of the dynamic range.
//  3. Label: isolate the 8-connected component containing the click.
//  4. Trace: walk the component's boundary into an ordered contour,
//     preferring sub-pixel marching squares with Moore-Neighbor pixel
//     tracing as the guaranteed fallback.
//  5. Simplify: decimate the contour, with uniform sampling for the
//     interactive preview and adaptive Ramer-Douglas-Peucker for the
//     finalized polygon.
//  6. Rescale: convert vertices, centroid, and area back to
//     original-image pixel units.
//
// # Two-phase workflow
//
// Detection returns a cheap fixed-count preview polygon plus the working
// resolution mask. FinalizePolygon later re-derives a high-fidelity
// adaptive polygon from the stored mask without re-running detection,
// supporting a "fast preview, then commit" interaction.
//
// # Coordinate System
//
// All coordinates use the standard image convention: origin (0, 0) at the
// top-left, X increasing rightward, Y increasing downward. Polygon
// vertices are float-valued; the marching-squares tracer places them at
// half-pixel boundary crossings.
//
// # Determinism
//
// For a fixed mask, both tracers produce an identical contour across
// runs: direction enumerations, start-pixel tie-breaks, and loop-chaining
// order are all fixed. Detections are compared across sessions, so this
// is a contract, not an implementation accident.
//
// # Error Handling
//
// All failures are expected, recoverable outcomes expressed as sentinel
// errors (ErrUniformImage, ErrNoRegion, ErrRegionTooSmall,
// ErrBoundaryTooSmall, ErrTraceFailed) matchable with errors.Is. The
// package never adjusts its own parameters in response to a failure;
// retry-with-different-tolerance belongs to the caller.
//
// # Concurrency
//
// The pipeline is synchronous and shares no mutable state between calls.
// A single Detector may serve concurrent detections as long as the input
// grids are treated as read-only.
package detection
