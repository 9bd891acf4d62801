package detection

import "fmt"

// Options holds every tunable of the detector. The zero value is not
// useful; start from DefaultOptions.
type Options struct {
	// CannyLow and CannyHigh are the hysteresis thresholds of the edge
	// detector.
	CannyLow  float64
	CannyHigh float64

	// ApertureSize is the Sobel aperture: 3, 5 or 7.
	ApertureSize int

	// BlurRadius enables Gaussian pre-smoothing of the color image before
	// edge detection. Zero disables it.
	BlurRadius float64

	// MinRegionSize is the smallest larger-dimension a candidate region may
	// have, in pixels.
	MinRegionSize int

	// MaxInteriorChildren is the most nested glyph-sized contours a
	// candidate may contain.
	MaxInteriorChildren int

	// IslandPadding is the distance within which contour rects join the
	// same island.
	IslandPadding int

	// IslandMinSize drops islands whose width and height are both at most
	// this many pixels.
	IslandMinSize int

	// DrawContours and DrawRects enable the debug rendering in
	// Result.Debug. They never change the mask or the islands.
	DrawContours bool
	DrawRects    bool
}

// DefaultOptions returns the standard settings.
func DefaultOptions() Options {
	return Options{
		CannyLow:            50,
		CannyHigh:           100,
		ApertureSize:        3,
		MinRegionSize:       8,
		MaxInteriorChildren: 4,
		IslandPadding:       5,
		IslandMinSize:       12,
	}
}

// Validate reports the first invalid setting.
func (o Options) Validate() error {
	switch {
	case o.CannyLow < 0 || o.CannyHigh < 0:
		return fmt.Errorf("canny thresholds must be non-negative, got %v and %v", o.CannyLow, o.CannyHigh)
	case o.CannyLow > o.CannyHigh:
		return fmt.Errorf("canny low threshold %v exceeds high threshold %v", o.CannyLow, o.CannyHigh)
	case o.ApertureSize != 3 && o.ApertureSize != 5 && o.ApertureSize != 7:
		return fmt.Errorf("aperture size must be 3, 5 or 7, got %d", o.ApertureSize)
	case o.BlurRadius < 0:
		return fmt.Errorf("blur radius must be non-negative, got %v", o.BlurRadius)
	case o.MinRegionSize < 1:
		return fmt.Errorf("minimum region size must be at least 1, got %d", o.MinRegionSize)
	case o.MaxInteriorChildren < 0:
		return fmt.Errorf("maximum interior children must be non-negative, got %d", o.MaxInteriorChildren)
	case o.IslandPadding < 0:
		return fmt.Errorf("island padding must be non-negative, got %d", o.IslandPadding)
	case o.IslandMinSize < 0:
		return fmt.Errorf("island minimum size must be non-negative, got %d", o.IslandMinSize)
	}
	return nil
}
