package detection

import (
	"image"
	"image/color"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/text-islands-mcp/internal/imaging"
)

var (
	contourRectColor   = color.NRGBA{R: 0, G: 255, B: 255, A: 255}
	candidateRectColor = color.NRGBA{R: 255, G: 255, B: 0, A: 255}
	islandRectColor    = color.NRGBA{R: 255, G: 0, B: 255, A: 255}
	labelBackground    = color.NRGBA{R: 0, G: 0, B: 0, A: 200}
)

// renderDebug draws the requested overlays over a copy of the input.
func (d *Detector) renderDebug(buf *imaging.PixelBuffer, res *Result) *image.NRGBA {
	canvas := imaging.NewCanvas(buf)

	if d.opts.DrawContours {
		for i := range res.Forest.Nodes {
			c := &res.Forest.Nodes[i]
			r, g, b := colorful.FastHappyColor().RGB255()
			imaging.DrawPolyline(canvas, c.Points, c.Closed, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}

	if d.opts.DrawRects {
		for i := range res.Forest.Nodes {
			imaging.DrawRectOutline(canvas, res.Forest.Nodes[i].Rect, contourRectColor)
		}
		for _, s := range res.Regions {
			imaging.DrawRectOutline(canvas, s.Rect, candidateRectColor)
		}
		for i, r := range res.Islands {
			imaging.DrawRectOutline(canvas, r, islandRectColor)
			imaging.DrawLabel(canvas, r.X+2, r.Y+2, strconv.Itoa(i), islandRectColor, labelBackground)
		}
	}

	return canvas
}
