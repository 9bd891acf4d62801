package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/text-islands-mcp/internal/geom"
)

// NewCanvas returns an editable copy of img with its origin at (0, 0),
// used as the base layer for debug overlays.
func NewCanvas(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// NewBlankCanvas returns a black canvas of the given size.
func NewBlankCanvas(width, height int) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.NRGBA{A: 255}), image.Point{}, draw.Src)
	return canvas
}

// DrawRectOutline draws the outline of r with the far corner at
// (X+Width, Y+Height), so the outline encloses every pixel of r.
// Pixels outside dst are skipped.
func DrawRectOutline(dst draw.Image, r geom.Rect, c color.Color) {
	corners := []image.Point{
		{X: r.X, Y: r.Y},
		{X: r.Right(), Y: r.Y},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.X, Y: r.Bottom()},
	}
	DrawPolyline(dst, corners, true, c)
}

// DrawPolyline draws straight segments between consecutive points, closing
// the loop back to the first point when closed is set.
func DrawPolyline(dst draw.Image, pts []image.Point, closed bool, c color.Color) {
	bounds := dst.Bounds()
	set := func(x, y int) {
		if image.Pt(x, y).In(bounds) {
			dst.Set(x, y, c)
		}
	}

	switch len(pts) {
	case 0:
		return
	case 1:
		set(pts[0].X, pts[0].Y)
		return
	}

	for i := 0; i+1 < len(pts); i++ {
		geom.Line(pts[i], pts[i+1], set)
	}
	if closed {
		geom.Line(pts[len(pts)-1], pts[0], set)
	}
}

// DrawLabel writes text with its top-left corner at (x, y) using the 7x13
// basic font over a filled background box.
func DrawLabel(dst draw.Image, x, y int, text string, fg, bg color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()

	box := image.Rect(x-1, y-1, x+width+1, y+height+1).Intersect(dst.Bounds())
	draw.Draw(dst, box, image.NewUniform(bg), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080".
func ParseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		return color.NRGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		return color.NRGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}
}
