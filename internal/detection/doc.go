// Package detection finds text-like regions with image heuristics alone.
//
// It is the fallback text masker for keypoint extraction when Tesseract is
// not installed. Lines of text show a medium density of gradient edges with
// a characteristic mix of horizontal and vertical edge runs; sliding windows
// with that signature are merged into regions.
//
// # Algorithm
//
//  1. Grayscale the image and mark pixels whose grey level steps by more
//     than 30 to the right or below.
//  2. Build summed-area tables of edges and of horizontal and vertical run
//     starts, so every window is scored in constant time.
//  3. Score windows of several text-line sizes at half-window steps.
//  4. Merge overlapping candidates and sort by confidence.
//
// # Coordinate System
//
// Coordinates are in the input image's own space: a sub-image with a
// non-zero origin yields bounds offset by that origin.
package detection
