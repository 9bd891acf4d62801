// Package server implements the MCP (Model Context Protocol) server that
// exposes the text island detector as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout (one per line)
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
// Pipeline Stages:
//   - image_edge_map: Merged per-channel Canny edges as PNG
//   - image_binarize: Locally thresholded text mask as PNG
//   - image_text_islands: Bounding boxes of text clusters
//   - image_crop_islands: Each island cropped from the original image
//   - image_debug_overlay: Contours, glyph boxes and islands drawn over the image
//
// Every pipeline tool accepts optional overrides of the configured
// detection settings (canny_low, island_padding, and so on) for that call
// only.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the process, so
// running several tools on the same page decodes it once.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC error responses:
//   - -32602: malformed or invalid arguments, unknown tool
//   - -32000: the tool ran and failed (unreadable file, encoding error)
//   - -32601: unknown method
//
// The data field carries the Go error string.
//
// # Usage
//
//	srv, err := server.New(cfg, version)
//	if err != nil {
//	    return err
//	}
//	return srv.Run()
package server
