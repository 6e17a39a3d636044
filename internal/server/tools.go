package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// keypointProperties returns the input schema properties shared by the
// keypoint tools. A new map is built on each call so tools can add their own
// properties.
func keypointProperties() map[string]interface{} {
	point := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y"},
	}
	rect := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}

	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Minimum Hessian response of a keypoint. Lower finds more, weaker points. Default 26",
			"default":     26,
		},
		"max_points": map[string]interface{}{
			"type":        "integer",
			"description": "Keep only the strongest N keypoints. 0 or omitted means no cap",
		},
		"threads": map[string]interface{}{
			"type":        "integer",
			"description": "Threads used to compute descriptors. -1 uses every CPU",
		},
		"octaves": map[string]interface{}{
			"type":        "integer",
			"description": "Number of scale octaves searched (1-5). Default 4",
			"default":     4,
		},
		"format": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"mono", "rgb", "bgr"},
			"description": "Pixel layout fed to the detector. Colour layouts are averaged to luminance. Default mono",
			"default":     "mono",
		},
		"proc_mode": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"full", "two-third", "half", "one-third", "quarter"},
			"description": "Shrink the image before extraction. Keypoints are reported in source coordinates. Default full",
			"default":     "full",
		},
		"region": withDescription(rect, "Only extract inside this rectangle (x2, y2 exclusive)"),
		"named_region": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
			"description": "Named region to extract from, used when region is not given",
		},
		"skip_regions": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "array",
				"items":    point,
				"minItems": 4,
				"maxItems": 4,
			},
			"description": "Convex quadrilaterals (4 vertices each) where no keypoints are detected",
		},
		"skip_rects": map[string]interface{}{
			"type":        "array",
			"items":       rect,
			"description": "Rectangles where no keypoints are detected",
		},
		"mask_text": map[string]interface{}{
			"type":        "boolean",
			"description": "Detect text blocks and skip them. Default false",
			"default":     false,
		},
		"text_detector": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"auto", "tesseract", "edges"},
			"description": "Text detector for mask_text. auto uses Tesseract and falls back to an edge heuristic. Default auto",
			"default":     "auto",
		},
		"text_min_confidence": map[string]interface{}{
			"type":        "number",
			"description": "Minimum text confidence (0.0-1.0). Default 0.5 for Tesseract, 0.15 for edges",
		},
		"text_pad": map[string]interface{}{
			"type":        "integer",
			"description": "Pixels added around each text block. Default 4",
			"default":     4,
		},
		"blur_sigma": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian pre-smoothing radius in pixels. 0 disables. Default 0",
			"default":     0,
		},
	}
}

func withDescription(schema map[string]interface{}, description string) map[string]interface{} {
	out := make(map[string]interface{}, len(schema)+1)
	for k, v := range schema {
		out[k] = v
	}
	out["description"] = description
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	extractProps := keypointProperties()
	extractProps["include_descriptors"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Include the 64-value descriptor of each keypoint. Default false",
		"default":     false,
	}

	rawProps := keypointProperties()
	delete(rawProps, "format")
	rawProps["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to a file holding one unencoded camera frame",
	}
	rawProps["width"] = map[string]interface{}{
		"type":        "integer",
		"description": "Frame width in pixels",
	}
	rawProps["height"] = map[string]interface{}{
		"type":        "integer",
		"description": "Frame height in pixels",
	}
	rawProps["raw_format"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"rgb", "bgr", "rgba", "bgra", "argb", "abgr", "mono", "420v", "420f", "nv21", "2vuy", "yuvs"},
		"description": "Pixel layout of the buffer. Planar YUV formats only need the luma plane",
	}
	rawProps["include_descriptors"] = extractProps["include_descriptors"]

	overlayProps := keypointProperties()
	overlayProps["radius_factor"] = map[string]interface{}{
		"type":        "number",
		"description": "Circle radius as a multiple of keypoint scale. Default 2.5",
		"default":     2.5,
	}
	overlayProps["show_labels"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Print each keypoint's index next to it. Default false",
		"default":     false,
	}
	overlayProps["label_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Label color as hex (e.g., '#FFFFFF'). Default white",
		"default":     "#FFFFFF",
	}

	cornerProps := keypointProperties()

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent keypoint operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Keypoints
		{
			Name:        "keypoints_extract",
			Description: "Detect scale- and rotation-invariant keypoints (SURF) in an image. Returns each keypoint's position, scale, orientation, sign and strength in source image coordinates, optionally with its 64-value descriptor.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": extractProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "keypoints_extract_raw",
			Description: "Detect keypoints in an unencoded camera frame (RGB, RGBA, YUV and similar layouts) read from disk. The frame is converted to luminance first.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": rawProps,
				"required":   []string{"path", "width", "height", "raw_format"},
			},
		},
		{
			Name:        "keypoints_overlay",
			Description: "Detect keypoints and draw them over the image as circles sized by scale with a tick along the orientation. Returns a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": overlayProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "keypoints_corners",
			Description: "Detect keypoints and return only their integer pixel positions in source image coordinates.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": cornerProps,
				"required":   []string{"path"},
			},
		},

		// Text Masking
		{
			Name:        "image_detect_text_regions",
			Description: "Find blocks of text without reading them. These are the regions mask_text skips during keypoint extraction.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Minimum confidence (0.0-1.0). Default 0.5 for Tesseract, 0.15 for edges",
					},
					"detector": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"auto", "tesseract", "edges"},
						"description": "Text detector. auto uses Tesseract and falls back to an edge heuristic. Default auto",
						"default":     "auto",
					},
					"pad": map[string]interface{}{
						"type":        "integer",
						"description": "Also return each block grown by this many pixels. Default 0",
						"default":     0,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
