package imaging

import (
	"fmt"
	"image"
	"math"
)

// Edge pixel values in binary edge images.
const (
	EdgeOff uint8 = 0
	EdgeOn  uint8 = 255
)

// Canny performs Canny edge detection on a single 8-bit channel.
//
// Parameters:
//   - src: Single channel to analyze. Its bounds may start anywhere; the
//     result has the same bounds.
//   - low: Hysteresis low threshold on the gradient magnitude.
//   - high: Hysteresis high threshold. Pixels above it seed edges.
//   - apertureSize: Sobel aperture, one of 3, 5 or 7.
//
// Returns:
//   - *image.Gray: Binary edge image, EdgeOn on edges and EdgeOff elsewhere.
//   - error: Non-nil for an unsupported aperture.
//
// # Algorithm
//
//  1. Gradients: separable Sobel derivatives with the aperture's smoothing
//     and difference kernels; borders replicate the nearest pixel.
//
//  2. Magnitude: L2 norm sqrt(Gx² + Gy²).
//
//  3. Non-maximum suppression: keep a pixel only if its magnitude is a
//     local maximum along the gradient direction, quantized to 0°, 45°,
//     90° or 135°. The outermost ring of pixels is never an edge.
//
//  4. Hysteresis: pixels above high are strong edges; pixels above low
//     are kept when 8-connected (directly or through other weak pixels) to
//     a strong edge.
//
// No Gaussian smoothing is applied here; callers that want it blur first.
func Canny(src *image.Gray, low, high float64, apertureSize int) (*image.Gray, error) {
	smooth, diff, err := sobelKernels(apertureSize)
	if err != nil {
		return nil, err
	}
	if low > high {
		low, high = high, low
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	result := image.NewGray(bounds)
	if width < 3 || height < 3 {
		return result, nil
	}

	values := make([]float64, width*height)
	for y := 0; y < height; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+width]
		for x, v := range row {
			values[y*width+x] = float64(v)
		}
	}

	// Gx = smooth(y) * diff(x), Gy = diff(y) * smooth(x)
	gx := convolveSeparable(values, width, height, diff, smooth)
	gy := convolveSeparable(values, width, height, smooth, diff)

	magnitude := make([]float64, width*height)
	for i := range magnitude {
		magnitude[i] = math.Hypot(gx[i], gy[i])
	}

	// Non-maximum suppression, recording strong and weak candidates
	const (
		none = iota
		weak
		strong
	)
	class := make([]uint8, width*height)
	tan22 := math.Tan(math.Pi / 8)
	tan67 := math.Tan(3 * math.Pi / 8)
	stack := make([]int, 0, 256)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag <= low {
				continue
			}

			dx, dy := gx[i], gy[i]
			ax, ay := math.Abs(dx), math.Abs(dy)
			var n1, n2 float64
			switch {
			case ay <= ax*tan22:
				// Horizontal gradient: compare left and right
				n1, n2 = magnitude[i-1], magnitude[i+1]
			case ay >= ax*tan67:
				// Vertical gradient: compare above and below
				n1, n2 = magnitude[i-width], magnitude[i+width]
			case (dx > 0) == (dy > 0):
				// Gradient along the main diagonal (down-right in image space)
				n1, n2 = magnitude[i-width-1], magnitude[i+width+1]
			default:
				n1, n2 = magnitude[i-width+1], magnitude[i+width-1]
			}

			if mag < n1 || mag < n2 {
				continue
			}
			if mag > high {
				class[i] = strong
				stack = append(stack, i)
			} else {
				class[i] = weak
			}
		}
	}

	// Hysteresis: grow strong edges through weak neighbors
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := i%width, i/width
		result.Pix[y*result.Stride+x] = EdgeOn

		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				if kx == 0 && ky == 0 {
					continue
				}
				n := (y+ky)*width + (x + kx)
				if class[n] == weak {
					class[n] = strong
					stack = append(stack, n)
				}
			}
		}
	}

	return result, nil
}

// sobelKernels returns the smoothing and difference kernels for the given
// Sobel aperture, matching the coefficients used by OpenCV.
func sobelKernels(apertureSize int) (smooth, diff []float64, err error) {
	switch apertureSize {
	case 3:
		return []float64{1, 2, 1}, []float64{-1, 0, 1}, nil
	case 5:
		return []float64{1, 4, 6, 4, 1}, []float64{-1, -2, 0, 2, 1}, nil
	case 7:
		return []float64{1, 6, 15, 20, 15, 6, 1}, []float64{-1, -4, -5, 0, 5, 4, 1}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported aperture size %d (want 3, 5 or 7)", apertureSize)
	}
}

// convolveSeparable applies kx along rows and then ky along columns.
// Border pixels use clamped (replicated) edge values.
func convolveSeparable(src []float64, width, height int, kx, ky []float64) []float64 {
	r := len(kx) / 2
	tmp := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for k, w := range kx {
				px := clamp(x+k-r, 0, width-1)
				sum += src[y*width+px] * w
			}
			tmp[y*width+x] = sum
		}
	}

	out := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for k, w := range ky {
				py := clamp(y+k-r, 0, height-1)
				sum += tmp[py*width+x] * w
			}
			out[y*width+x] = sum
		}
	}
	return out
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
