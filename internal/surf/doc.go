// Package surf detects and describes scale- and rotation-invariant interest
// points in a single frame, producing (position, scale, sign, orientation,
// 64-float descriptor) tuples for a downstream matcher.
//
// The detector follows the SURF family of algorithms with the exact integer
// arithmetic and calibration constants of the KPM reference implementation,
// so descriptors stay comparable with reference datasets built by it.
//
// # Pipeline
//
// Every call to Handle.Extract runs the same stages:
//
//  1. Integral image: the frame is turned into a padded summed-area table.
//  2. Response map: the determinant of the Hessian is approximated with box
//     filters at up to twelve discrete scales (filter sizes 9..387).
//  3. Extrema: local maxima over 3x3x3 neighbourhoods of layer triples are
//     refined to sub-pixel and sub-scale precision by fitting a quadratic.
//  4. Boundary filter and optional cap: points too close to the frame edge
//     are dropped; if a cap is set the strongest points are kept.
//  5. Orientation and descriptor: computed in parallel on a shared worker
//     pool, one contiguous range of points per worker.
//  6. Compaction: points whose descriptor could not be built are removed
//     without changing the order of the others.
//
// Stages 1-3 and 6 are sequential; only stage 5 is parallel.
//
// # Coordinate System
//
// Positions are in pixels of the frame given to Create, origin at the top-left
// corner, X to the right and Y downward. Orientation is measured in radians in
// [0, 2π) from the +X axis toward +Y.
//
// # Thread Safety
//
// A Handle must not be used by more than one goroutine at a time. Different
// handles may extract concurrently; they share only read-only lookup tables
// and the process-wide worker pool.
//
// # Error Handling
//
// Create reports unsupported pixel formats and impossible geometry. Extract
// never fails: malformed input produces zero points, and individual points
// that cannot be described are dropped silently.
package surf
