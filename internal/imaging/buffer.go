package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/text-islands-mcp/internal/geom"
)

// ChannelOrder describes how the color components are laid out in each
// pixel of a PixelBuffer. A fourth channel, when present, is ignored.
type ChannelOrder int

const (
	// OrderRGB stores red, green, blue (and optionally alpha) in that order.
	OrderRGB ChannelOrder = iota
	// OrderBGR stores blue, green, red (and optionally alpha) in that order,
	// as produced by most camera pipelines and OpenCV.
	OrderBGR
)

// String returns "rgb" or "bgr".
func (o ChannelOrder) String() string {
	if o == OrderBGR {
		return "bgr"
	}
	return "rgb"
}

// PixelBuffer is an interleaved 8-bit color image with an explicit stride.
//
// The buffer is the input contract of the detection pipeline: 3 or 4
// channels, row-major, Stride bytes per row. Construct it with
// NewPixelBuffer or FromImage so the layout is validated once; accessors
// index the slice directly and panic on out-of-range coordinates.
//
// PixelBuffer implements image.Image so it can be handed to image
// libraries without copying.
type PixelBuffer struct {
	Pix      []byte
	Width    int
	Height   int
	Stride   int
	Channels int
	Order    ChannelOrder
}

// NewPixelBuffer validates the layout and wraps pix without copying.
//
// Returns an error when fewer than 3 or more than 4 channels are given,
// the dimensions are not positive, the stride cannot hold a row, or pix is
// too short for the last row.
func NewPixelBuffer(pix []byte, width, height, stride, channels int, order ChannelOrder) (*PixelBuffer, error) {
	if channels < 3 || channels > 4 {
		return nil, fmt.Errorf("pixel buffer needs 3 or 4 channels, got %d", channels)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid pixel buffer dimensions %dx%d", width, height)
	}
	if stride < width*channels {
		return nil, fmt.Errorf("stride %d too small for %d pixels of %d channels", stride, width, channels)
	}
	if need := (height-1)*stride + width*channels; len(pix) < need {
		return nil, fmt.Errorf("pixel buffer holds %d bytes, need %d", len(pix), need)
	}
	return &PixelBuffer{
		Pix:      pix,
		Width:    width,
		Height:   height,
		Stride:   stride,
		Channels: channels,
		Order:    order,
	}, nil
}

// FromImage converts any image.Image into a 4-channel RGB-ordered buffer.
// The image origin is moved to (0, 0).
func FromImage(img image.Image) *PixelBuffer {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	return &PixelBuffer{
		Pix:      nrgba.Pix,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Stride:   nrgba.Stride,
		Channels: 4,
		Order:    OrderRGB,
	}
}

// RGB returns the red, green and blue components at (x, y).
func (b *PixelBuffer) RGB(x, y int) (r, g, bl uint8) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		panic(fmt.Sprintf("imaging: pixel (%d,%d) outside %dx%d buffer", x, y, b.Width, b.Height))
	}
	i := y*b.Stride + x*b.Channels
	p := b.Pix[i : i+3 : i+3]
	if b.Order == OrderBGR {
		return p[2], p[1], p[0]
	}
	return p[0], p[1], p[2]
}

// Luma returns the rounded ITU-R BT.601 luminance at (x, y).
func (b *PixelBuffer) Luma(x, y int) uint8 {
	r, g, bl := b.RGB(x, y)
	return Luma(r, g, bl)
}

// Luma converts 8-bit RGB to gray with 0.299*R + 0.587*G + 0.114*B,
// rounded to the nearest integer in fixed point.
func Luma(r, g, b uint8) uint8 {
	return uint8((int(b)*114 + int(g)*587 + int(r)*299 + 500) / 1000)
}

// GrayRegion returns a grayscale copy of the pixels under r. The result's
// bounds start at (0, 0), so pixel (x, y) of the result is pixel
// (r.X+x, r.Y+y) of the buffer.
//
// r must lie inside the buffer.
func (b *PixelBuffer) GrayRegion(r geom.Rect) *image.Gray {
	if r.X < 0 || r.Y < 0 || r.Right() > b.Width || r.Bottom() > b.Height || r.Width <= 0 || r.Height <= 0 {
		panic(fmt.Sprintf("imaging: region %v outside %dx%d buffer", r, b.Width, b.Height))
	}
	gray := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+r.Width]
		for x := range row {
			row[x] = b.Luma(r.X+x, r.Y+y)
		}
	}
	return gray
}

// Gray returns the full-frame grayscale image.
func (b *PixelBuffer) Gray() *image.Gray {
	return b.GrayRegion(geom.R(0, 0, b.Width, b.Height))
}

// ColorModel implements image.Image.
func (b *PixelBuffer) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (b *PixelBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width, b.Height) }

// At implements image.Image. Pixels outside the buffer are transparent
// black; any fourth channel is ignored and the color is opaque.
func (b *PixelBuffer) At(x, y int) color.Color {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return color.NRGBA{}
	}
	r, g, bl := b.RGB(x, y)
	return color.NRGBA{R: r, G: g, B: bl, A: 255}
}
