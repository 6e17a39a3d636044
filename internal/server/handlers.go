package server

import (
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/keypoint-tools-mcp/internal/imaging"
	"github.com/ironsheep/keypoint-tools-mcp/internal/ocr"
	"github.com/ironsheep/keypoint-tools-mcp/internal/surf"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "keypoints_extract").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Prepares a frame and runs the detector, or calls the imaging/ocr helper
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Keypoints
	case "keypoints_extract":
		return s.handleKeypointsExtract(args)
	case "keypoints_extract_raw":
		return s.handleKeypointsExtractRaw(args)
	case "keypoints_overlay":
		return s.handleKeypointsOverlay(args)
	case "keypoints_corners":
		return s.handleKeypointsCorners(args)

	// Text Masking
	case "image_detect_text_regions":
		return s.handleImageDetectTextRegions(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Keypoint Handlers ===

// loadAndPrepare decodes the keypoint arguments, loads the source image and
// prepares its frame.
func (s *Server) loadAndPrepare(args json.RawMessage, a *keypointsArgs) (image.Image, *preparedFrame, error) {
	if err := json.Unmarshal(args, a); err != nil {
		return nil, nil, err
	}
	if a.Format == "" {
		a.Format = "mono"
	}
	format, err := surf.ParsePixelFormat(a.Format)
	if err != nil {
		return nil, nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}
	p, err := prepareFrame(img, a, format)
	if err != nil {
		return nil, nil, err
	}
	return img, p, nil
}

func (s *Server) handleKeypointsExtract(args json.RawMessage) (interface{}, error) {
	var a keypointsArgs
	img, p, err := s.loadAndPrepare(args, &a)
	if err != nil {
		return nil, err
	}
	pts, err := s.extract(p, &a)
	if err != nil {
		return nil, err
	}
	return newKeypointsResult(img.Bounds(), p, pts, a.IncludeDescriptors), nil
}

type keypointsRawArgs struct {
	keypointsArgs
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	RawFormat string `json:"raw_format"`
}

// handleKeypointsExtractRaw extracts from an unencoded camera buffer on disk.
// The buffer is reduced to luma first, so the format argument does not apply.
func (s *Server) handleKeypointsExtractRaw(args json.RawMessage) (interface{}, error) {
	var a keypointsRawArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	rawFormat, err := imaging.ParseRawFormat(a.RawFormat)
	if err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw frame: %w", err)
	}
	frame, err := imaging.LumaFromRaw(buf, rawFormat, a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	gray, err := frame.Gray()
	if err != nil {
		return nil, err
	}

	p, err := prepareFrame(gray, &a.keypointsArgs, surf.PixelFormatMono)
	if err != nil {
		return nil, err
	}
	pts, err := s.extract(p, &a.keypointsArgs)
	if err != nil {
		return nil, err
	}
	return newKeypointsResult(gray.Bounds(), p, pts, a.IncludeDescriptors), nil
}

type keypointsOverlayArgs struct {
	keypointsArgs
	RadiusFactor float64 `json:"radius_factor"`
	ShowLabels   bool    `json:"show_labels"`
	LabelColor   string  `json:"label_color"`
}

func (s *Server) handleKeypointsOverlay(args json.RawMessage) (interface{}, error) {
	var a keypointsOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, p, err := s.loadAndPrepare(args, &a.keypointsArgs)
	if err != nil {
		return nil, err
	}
	pts, err := s.extract(p, &a.keypointsArgs)
	if err != nil {
		return nil, err
	}
	res := newKeypointsResult(img.Bounds(), p, pts, false)
	return imaging.DrawKeypoints(img, overlayKeypoints(res), imaging.OverlayOptions{
		RadiusFactor:  a.RadiusFactor,
		ShowLabels:    a.ShowLabels,
		LabelColorHex: a.LabelColor,
	})
}

func (s *Server) handleKeypointsCorners(args json.RawMessage) (interface{}, error) {
	var a keypointsArgs
	_, p, err := s.loadAndPrepare(args, &a)
	if err != nil {
		return nil, err
	}
	pts, err := s.extract(p, &a)
	if err != nil {
		return nil, err
	}
	return newCornersResult(p, pts), nil
}

// === Text Masking Handlers ===

type imageDetectTextRegionsArgs struct {
	Path          string  `json:"path"`
	MinConfidence float64 `json:"min_confidence"`
	Detector      string  `json:"detector"`
	Pad           int     `json:"pad"`
}

// TextRegionsResult lists the text blocks that mask_text would skip.
type TextRegionsResult struct {
	Detector string              `json:"detector"`
	Regions  []ocr.TextRegionBox `json:"regions"`
	Padded   []ocr.Bounds        `json:"padded,omitempty"`
	Count    int                 `json:"count"`
}

func (s *Server) handleImageDetectTextRegions(args json.RawMessage) (interface{}, error) {
	var a imageDetectTextRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	boxes, used, err := detectText(img, a.Detector, a.MinConfidence)
	if err != nil {
		return nil, err
	}

	res := &TextRegionsResult{Detector: used, Regions: boxes, Count: len(boxes)}
	if a.Pad > 0 {
		res.Padded = ocr.PadRegions(boxes, a.Pad)
	}
	return res, nil
}
