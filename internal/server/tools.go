package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// detectionProperties are the optional per-call overrides of the
// configured detection settings.
func detectionProperties() map[string]interface{} {
	return map[string]interface{}{
		"canny_low": map[string]interface{}{
			"type":        "number",
			"description": "Canny low threshold (default 50)",
		},
		"canny_high": map[string]interface{}{
			"type":        "number",
			"description": "Canny high threshold (default 100)",
		},
		"aperture_size": map[string]interface{}{
			"type":        "integer",
			"enum":        []int{3, 5, 7},
			"description": "Sobel aperture size (default 3)",
		},
		"blur_radius": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius applied before edge detection, 0 to disable (default 0)",
		},
		"min_region_size": map[string]interface{}{
			"type":        "integer",
			"description": "Minimum larger side of a glyph region in pixels (default 8)",
		},
		"max_interior_children": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum glyph-sized contours nested inside a region before it is treated as a container (default 4)",
		},
		"island_padding": map[string]interface{}{
			"type":        "integer",
			"description": "Pixels added around each contour when clustering islands (default 5)",
		},
		"island_min_size": map[string]interface{}{
			"type":        "integer",
			"description": "Islands must be larger than this on at least one side (default 12)",
		},
	}
}

// schema builds an object schema with a required path, the given extra
// properties and, when withDetection is set, the detection overrides.
func schema(extra map[string]interface{}, withDetection bool) map[string]interface{} {
	props := map[string]interface{}{"path": pathProperty()}
	if withDetection {
		for k, v := range detectionProperties() {
			props[k] = v
		}
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"path"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent calls.",
			InputSchema: schema(nil, false),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: schema(nil, false),
		},

		// Pipeline Stages
		{
			Name:        "image_edge_map",
			Description: "Run Canny edge detection on each color channel and return the merged edge image as base64-encoded PNG. Useful for tuning thresholds.",
			InputSchema: schema(nil, true),
		},
		{
			Name:        "image_binarize",
			Description: "Binarize the text of a page image. Each glyph-like region is thresholded on its own, so light-on-dark and dark-on-light text both come out as black ink on white. Returns the mask as base64-encoded PNG with per-region statistics.",
			InputSchema: schema(map[string]interface{}{
				"include_regions": map[string]interface{}{
					"type":        "boolean",
					"description": "Include per-region threshold statistics (default true)",
					"default":     true,
				},
			}, true),
		},
		{
			Name:        "image_text_islands",
			Description: "Find text islands: clusters of nearby contours such as words, lines or labels. Returns their bounding boxes (x, y, width, height) in discovery order.",
			InputSchema: schema(nil, true),
		},
		{
			Name:        "image_crop_islands",
			Description: "Find text islands and return each one cropped from the original image as base64-encoded PNG, ready for OCR or closer inspection.",
			InputSchema: schema(map[string]interface{}{
				"margin": map[string]interface{}{
					"type":        "integer",
					"description": "Pixels kept around each island (default from configuration, 2)",
				},
				"scale": map[string]interface{}{
					"type":        "number",
					"description": "Scale factor applied to each crop (default from configuration, 1.0)",
				},
				"max_islands": map[string]interface{}{
					"type":        "integer",
					"description": "Return at most this many crops, 0 for all (default 0)",
				},
			}, true),
		},
		{
			Name:        "image_debug_overlay",
			Description: "Render the detection result over the image: contour outlines, candidate glyph boxes and numbered island boxes. Returns base64-encoded PNG.",
			InputSchema: schema(map[string]interface{}{
				"draw_contours": map[string]interface{}{
					"type":        "boolean",
					"description": "Draw every contour in a distinct color (default false)",
					"default":     false,
				},
				"draw_rects": map[string]interface{}{
					"type":        "boolean",
					"description": "Draw candidate and island boxes (default true)",
					"default":     true,
				},
			}, true),
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
