// Package server implements the MCP (Model Context Protocol) server for keypoint extraction.
//
// This package provides a JSON-RPC 2.0 server that exposes the SURF keypoint
// detector through the MCP protocol, so MCP clients can find, inspect and
// visualise interest points in images and raw camera frames.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Keypoints:
//   - keypoints_extract: Positions, scales, orientations, signs and descriptors
//   - keypoints_extract_raw: The same for an unencoded camera frame on disk
//   - keypoints_overlay: Keypoints drawn over the image as a PNG
//   - keypoints_corners: Integer keypoint positions only
//
// Text Masking:
//   - image_detect_text_regions: The text blocks mask_text would skip
//
// # Extraction Pipeline
//
// Every keypoint tool runs the same steps: crop to the requested region,
// optionally blur, shrink by the proc mode, pack into the requested pixel
// format and extract. Skip areas and detected text are moved into the
// shrunken frame's coordinates first, and keypoints are moved back onto the
// source image afterwards, so callers only ever see source pixels.
//
// # Handle Caching
//
// Detector handles own large per-geometry buffers. The server keeps one per
// (width, height, format, octaves), evicting the least recently used idle
// handle once Config.MaxHandles is reached. Each handle is locked for the
// length of one extraction.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	cfg, err := server.ConfigFromEnv(os.Getenv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.NewWithConfig(cfg)
//	defer srv.Close()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
