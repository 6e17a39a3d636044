// Package ocr locates text in images using Tesseract.
//
// The keypoint server does not read text; it only needs to know where text
// is. Printed labels, captions and on-screen overlays produce clusters of
// strong but unstable keypoints, so callers can ask for detected text blocks
// to be masked out of extraction.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//   - Windows: Download from https://github.com/UB-Mannheim/tesseract/wiki
//
// # Functions
//
//   - DetectTextRegions: block-level text boxes for an image file
//   - DetectTextRegionsInImage: the same for an in-memory image
//   - PadRegions: padded text boxes ready for use as skip regions
//
// # Error Handling
//
// Missing files, undecodable images and Tesseract initialisation failures are
// returned as errors. Callers decide whether a failed text scan should abort
// extraction or just disable masking.
package ocr
