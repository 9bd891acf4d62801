// Package detection finds text on page images and binarizes it locally.
//
// It is built for scanned or photographed documents where a single global
// threshold fails: uneven lighting, colored backgrounds, or light text on
// dark panels next to dark text on light paper.
//
// # Pipeline
//
// A Detector runs these stages on an imaging.PixelBuffer:
//
//  1. Edge map: Canny on each color channel, OR-merged into one image
//  2. Contour forest: every outer and hole border with its nesting
//  3. Islands: all contour rects clustered by padded overlap into larger
//     text areas (lines, paragraphs, labels)
//  4. Candidates: contours whose rect looks like one glyph, outermost first
//  5. Binarization: each candidate is thresholded on its own, with the
//     threshold taken from the intensity along the contour and the polarity
//     from the surrounding background
//
// The result is a mask the size of the input where Ink marks text and
// Background everything else, plus the island rects for cropping or
// recognition.
//
// # Candidate Rules
//
// A contour becomes a candidate when its rect is at least MinRegionSize on
// its larger side, has an aspect ratio between 1:10 and 10:1, is at most a
// fifth of the image's larger side, keeps clear of the image border and
// holds no more than MaxInteriorChildren glyph-sized descendants. Holes in
// letters such as "o" or "B" are children but do not disqualify the glyph.
//
// # Backends
//
// Edge detection and contour extraction go through the imaging.EdgeDetector
// and ContourFinder interfaces. The default build uses pure Go
// implementations; building with the gocv tag switches to OpenCV.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Rects are geom.Rect: origin plus width and height
//
// # Debug Output
//
// Options.DrawContours and Options.DrawRects add a rendered overlay to the
// Result. They never change the mask or the islands.
package detection
