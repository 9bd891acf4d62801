// Package imaging provides the pixel-level building blocks of the text
// detector: the input pixel buffer, grayscale conversion, edge detection,
// image loading and the PNG/overlay helpers used by the server.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Regions use geom.Rect (origin plus width and height)
//
// # Pixel Buffers
//
// PixelBuffer is the pipeline's input: interleaved 8-bit pixels with 3 or 4
// channels, RGB or BGR order, and an explicit row stride. It is validated
// once at construction; afterwards pixel access panics on out-of-range
// coordinates, the same way slice indexing does.
//
// # Edge Maps
//
// BuildEdgeMap runs an EdgeDetector on each color channel and ORs the
// results. The built-in detector is Canny (pure Go). Other detectors, such
// as an OpenCV binding, plug in through the EdgeDetector interface.
//
// # Grayscale
//
// Luma uses the ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B) in fixed
// point with rounding, so results are bit-identical across platforms.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. A PixelBuffer is
// read-only to every function in this package and may be shared by
// concurrent readers.
package imaging
