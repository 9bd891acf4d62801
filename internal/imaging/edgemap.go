package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/channel"
)

// EdgeDetector turns one 8-bit channel into a binary edge image of the same
// size. Implementations wrap a vision library (or the built-in Canny).
type EdgeDetector interface {
	DetectEdges(ch *image.Gray, low, high float64, apertureSize int) (*image.Gray, error)
}

// CannyDetector is the pure-Go EdgeDetector backed by Canny.
type CannyDetector struct{}

// DetectEdges implements EdgeDetector.
func (CannyDetector) DetectEdges(ch *image.Gray, low, high float64, apertureSize int) (*image.Gray, error) {
	return Canny(ch, low, high, apertureSize)
}

// EdgeMapParams configures BuildEdgeMap.
type EdgeMapParams struct {
	Low          float64 // Hysteresis low threshold
	High         float64 // Hysteresis high threshold
	ApertureSize int     // Sobel aperture: 3, 5 or 7
	BlurRadius   float64 // Gaussian pre-smoothing radius; 0 disables it
}

// BuildEdgeMap runs det on the red, green and blue channels of buf
// separately and ORs the three results into one binary edge image.
//
// Running per channel catches boundaries between colors of equal
// luminance, which a single grayscale pass would miss.
//
// The returned image has bounds (0,0)-(Width,Height), EdgeOn on edges.
func BuildEdgeMap(buf *PixelBuffer, det EdgeDetector, p EdgeMapParams) (*image.Gray, error) {
	var src image.Image = buf
	if p.BlurRadius > 0 {
		src = blur.Gaussian(buf, p.BlurRadius)
	}

	merged := image.NewGray(buf.Bounds())
	for _, c := range []channel.Channel{channel.Red, channel.Green, channel.Blue} {
		plane := channel.Extract(src, c)
		edges, err := det.DetectEdges(plane, p.Low, p.High, p.ApertureSize)
		if err != nil {
			return nil, fmt.Errorf("edge detection failed: %w", err)
		}
		if err := orInto(merged, edges); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// orInto sets every pixel of dst that is non-zero in src.
func orInto(dst, src *image.Gray) error {
	if dst.Bounds().Size() != src.Bounds().Size() {
		return fmt.Errorf("edge image size %v does not match %v", src.Bounds().Size(), dst.Bounds().Size())
	}
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	for y := 0; y < h; y++ {
		drow := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		srow := src.Pix[y*src.Stride : y*src.Stride+w]
		for x, v := range srow {
			if v != 0 {
				drow[x] = EdgeOn
			}
		}
	}
	return nil
}
