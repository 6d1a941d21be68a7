// Package imaging provides the image-side plumbing for the detection
// pipeline: intensity grids, preprocessing, cached file loading, and
// overlay rendering.
//
// The central type is Grid, a row-major float64 intensity field. Decoded
// images and multi-channel data planes are collapsed into a Grid with an
// unweighted channel mean before any detection math runs; gonum
// matrices convert to and from grids for callers that hold their data
// that way.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost sample)
//   - Y: vertical position (0 = topmost sample)
//
// Preprocess distinguishes "original" coordinates (the grid as supplied)
// from "working" coordinates (after downsampling). The scale factor it
// reports converts between the two; everything downstream of detection is
// rescaled back to original coordinates before reaching the caller.
//
// # Thread Safety
//
// GridCache is safe for concurrent use. Grids themselves are treated as
// immutable once handed to a detection call; callers that mutate a grid
// must synchronize or copy.
//
// # Error Handling
//
// Functions return errors for I/O failures, undecodable files, and
// mismatched channel dimensions. Detection-specific failures (uniform
// images, empty regions) are not raised here; they belong to the
// detection package, which sees the prepared grid.
package imaging
