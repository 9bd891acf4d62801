package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/text-islands-mcp/internal/detection"
	"github.com/ironsheep/text-islands-mcp/internal/geom"
	"github.com/ironsheep/text-islands-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_binarize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// paramError marks a tool failure caused by the caller's arguments.
type paramError struct {
	err error
}

func (e *paramError) Error() string { return e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

func invalidParams(format string, args ...interface{}) error {
	return &paramError{err: fmt.Errorf(format, args...)}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Malformed arguments return code -32602; any other tool failure returns
// code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := codec.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Warn().Err(err).Str("tool", params.Name).Msg("tool call failed")

		var pe *paramError
		if errors.As(err, &pe) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Pipeline Stages
	case "image_edge_map":
		return s.handleImageEdgeMap(args)
	case "image_binarize":
		return s.handleImageBinarize(args)
	case "image_text_islands":
		return s.handleImageTextIslands(args)
	case "image_crop_islands":
		return s.handleImageCropIslands(args)
	case "image_debug_overlay":
		return s.handleImageDebugOverlay(args)

	default:
		return nil, invalidParams("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := codec.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments and checks that a path was given.
func decodeArgs(args json.RawMessage, dst interface{ imagePath() string }) error {
	if len(args) == 0 {
		return invalidParams("missing arguments")
	}
	if err := codec.Unmarshal(args, dst); err != nil {
		return &paramError{err: fmt.Errorf("invalid arguments: %w", err)}
	}
	if dst.imagePath() == "" {
		return invalidParams("path is required")
	}
	return nil
}

type pathArgs struct {
	Path string `json:"path"`
}

func (a *pathArgs) imagePath() string { return a.Path }

// detectionArgs are optional overrides of the configured detection
// settings. Nil fields keep the configured value.
type detectionArgs struct {
	pathArgs

	CannyLow            *float64 `json:"canny_low"`
	CannyHigh           *float64 `json:"canny_high"`
	ApertureSize        *int     `json:"aperture_size"`
	BlurRadius          *float64 `json:"blur_radius"`
	MinRegionSize       *int     `json:"min_region_size"`
	MaxInteriorChildren *int     `json:"max_interior_children"`
	IslandPadding       *int     `json:"island_padding"`
	IslandMinSize       *int     `json:"island_min_size"`
}

func (a *detectionArgs) apply(opts detection.Options) detection.Options {
	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setFloat(&opts.CannyLow, a.CannyLow)
	setFloat(&opts.CannyHigh, a.CannyHigh)
	setInt(&opts.ApertureSize, a.ApertureSize)
	setFloat(&opts.BlurRadius, a.BlurRadius)
	setInt(&opts.MinRegionSize, a.MinRegionSize)
	setInt(&opts.MaxInteriorChildren, a.MaxInteriorChildren)
	setInt(&opts.IslandPadding, a.IslandPadding)
	setInt(&opts.IslandMinSize, a.IslandMinSize)
	return opts
}

// prepare builds a detector from the configuration plus the call's
// overrides and loads the image. Invalid overrides are parameter errors.
func (s *Server) prepare(a *detectionArgs, drawContours, drawRects bool) (*detection.Detector, *imaging.PixelBuffer, error) {
	opts := a.apply(s.cfg.DetectionOptions())
	opts.DrawContours = drawContours
	opts.DrawRects = drawRects

	d, err := detection.New(opts)
	if err != nil {
		return nil, nil, &paramError{err: err}
	}

	buf, err := s.cache.LoadBuffer(a.Path)
	if err != nil {
		return nil, nil, err
	}
	return d, buf, nil
}

// === Basic Image Information Handlers ===

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Pipeline Stage Handlers ===

// EdgeMapResult is the output of image_edge_map.
type EdgeMapResult struct {
	imaging.EncodedImage

	// EdgePixels is the number of edge pixels in the map.
	EdgePixels int `json:"edge_pixels"`
}

func (s *Server) handleImageEdgeMap(args json.RawMessage) (interface{}, error) {
	var a detectionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	d, buf, err := s.prepare(&a, false, false)
	if err != nil {
		return nil, err
	}

	edges, err := d.EdgeMap(buf)
	if err != nil {
		return nil, err
	}
	count := 0
	for _, v := range edges.Pix {
		if v == imaging.EdgeOn {
			count++
		}
	}

	enc, err := imaging.EncodePNG(edges)
	if err != nil {
		return nil, err
	}
	return &EdgeMapResult{EncodedImage: *enc, EdgePixels: count}, nil
}

type imageBinarizeArgs struct {
	detectionArgs
	IncludeRegions *bool `json:"include_regions"`
}

// BinarizeResult is the output of image_binarize.
type BinarizeResult struct {
	// Mask is the binarized page: black ink on white.
	Mask imaging.EncodedImage `json:"mask"`

	// InkPixels is the number of ink pixels in the mask.
	InkPixels int `json:"ink_pixels"`

	// CandidateCount is the number of regions that were thresholded.
	CandidateCount int `json:"candidate_count"`

	// Regions has the threshold statistics per region, omitted on request.
	Regions []detection.RegionStats `json:"regions,omitempty"`

	// Islands are the text areas found on the page.
	Islands []geom.Rect `json:"islands"`
}

func (s *Server) handleImageBinarize(args json.RawMessage) (interface{}, error) {
	var a imageBinarizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	d, buf, err := s.prepare(&a.detectionArgs, false, false)
	if err != nil {
		return nil, err
	}

	res, err := d.Run(buf)
	if err != nil {
		return nil, err
	}

	enc, err := imaging.EncodePNG(res.Mask)
	if err != nil {
		return nil, err
	}
	ink := 0
	for _, v := range res.Mask.Pix {
		if v == detection.Ink {
			ink++
		}
	}

	out := &BinarizeResult{
		Mask:           *enc,
		InkPixels:      ink,
		CandidateCount: len(res.Candidates),
		Islands:        nonNilRects(res.Islands),
	}
	if a.IncludeRegions == nil || *a.IncludeRegions {
		out.Regions = res.Regions
	}
	return out, nil
}

// IslandsResult is the output of image_text_islands.
type IslandsResult struct {
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Count   int         `json:"count"`
	Islands []geom.Rect `json:"islands"`
}

func (s *Server) handleImageTextIslands(args json.RawMessage) (interface{}, error) {
	var a detectionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	d, buf, err := s.prepare(&a, false, false)
	if err != nil {
		return nil, err
	}

	islands, err := d.Islands(buf)
	if err != nil {
		return nil, err
	}
	return &IslandsResult{
		Width:   buf.Width,
		Height:  buf.Height,
		Count:   len(islands),
		Islands: nonNilRects(islands),
	}, nil
}

type imageCropIslandsArgs struct {
	detectionArgs
	Margin     *int     `json:"margin"`
	Scale      *float64 `json:"scale"`
	MaxIslands int      `json:"max_islands"`
}

// CropIslandsResult is the output of image_crop_islands.
type CropIslandsResult struct {
	// Total is the number of islands found, which may exceed len(Crops)
	// when max_islands is set.
	Total int                  `json:"total"`
	Crops []imaging.RegionCrop `json:"crops"`
}

func (s *Server) handleImageCropIslands(args json.RawMessage) (interface{}, error) {
	var a imageCropIslandsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	margin := s.cfg.Crop.Margin
	if a.Margin != nil {
		margin = *a.Margin
	}
	scale := s.cfg.Crop.Scale
	if a.Scale != nil {
		scale = *a.Scale
	}
	if margin < 0 {
		return nil, invalidParams("margin must not be negative, got %d", margin)
	}
	if scale <= 0 {
		return nil, invalidParams("scale must be positive, got %g", scale)
	}
	if a.MaxIslands < 0 {
		return nil, invalidParams("max_islands must not be negative, got %d", a.MaxIslands)
	}

	d, buf, err := s.prepare(&a.detectionArgs, false, false)
	if err != nil {
		return nil, err
	}
	islands, err := d.Islands(buf)
	if err != nil {
		return nil, err
	}

	total := len(islands)
	if a.MaxIslands > 0 && len(islands) > a.MaxIslands {
		islands = islands[:a.MaxIslands]
	}

	// Crop from the decoded image so the output keeps its original colors.
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	crops, err := imaging.CropRegions(img, islands, margin, scale)
	if err != nil {
		return nil, err
	}
	return &CropIslandsResult{Total: total, Crops: crops}, nil
}

type imageDebugOverlayArgs struct {
	detectionArgs
	DrawContours *bool `json:"draw_contours"`
	DrawRects    *bool `json:"draw_rects"`
}

// DebugOverlayResult is the output of image_debug_overlay.
type DebugOverlayResult struct {
	imaging.EncodedImage

	CandidateCount int `json:"candidate_count"`
	IslandCount    int `json:"island_count"`
}

func (s *Server) handleImageDebugOverlay(args json.RawMessage) (interface{}, error) {
	var a imageDebugOverlayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	drawContours := a.DrawContours != nil && *a.DrawContours
	drawRects := a.DrawRects == nil || *a.DrawRects
	if !drawContours && !drawRects {
		return nil, invalidParams("nothing to draw: enable draw_contours or draw_rects")
	}

	d, buf, err := s.prepare(&a.detectionArgs, drawContours, drawRects)
	if err != nil {
		return nil, err
	}
	res, err := d.Run(buf)
	if err != nil {
		return nil, err
	}

	enc, err := imaging.EncodePNG(res.Debug)
	if err != nil {
		return nil, err
	}
	return &DebugOverlayResult{
		EncodedImage:   *enc,
		CandidateCount: len(res.Candidates),
		IslandCount:    len(res.Islands),
	}, nil
}

// nonNilRects keeps empty results encoded as [] rather than null.
func nonNilRects(rects []geom.Rect) []geom.Rect {
	if rects == nil {
		return []geom.Rect{}
	}
	return rects
}
