package detection

import (
	"fmt"
	"image"
	"sort"

	"github.com/ironsheep/text-islands-mcp/internal/contour"
	"github.com/ironsheep/text-islands-mcp/internal/geom"
	"github.com/ironsheep/text-islands-mcp/internal/imaging"
)

// Mask pixel values.
const (
	Ink        uint8 = 0
	Background uint8 = 255
)

// NewMask returns a width x height mask filled with Background.
func NewMask(width, height int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, width, height))
	for i := range mask.Pix {
		mask.Pix[i] = Background
	}
	return mask
}

// RegionStats describes how one candidate region was thresholded.
type RegionStats struct {
	// Contour is the forest index of the region's contour.
	Contour int `json:"contour"`

	// Rect is the region in image coordinates.
	Rect geom.Rect `json:"rect"`

	// Foreground is the estimated ink intensity and also the threshold.
	// -1 when the contour had no points.
	Foreground int `json:"foreground"`

	// Background is the median intensity just outside the rect corners.
	Background int `json:"background"`

	// Inverted is set when the ink is lighter than the background.
	Inverted bool `json:"inverted"`
}

// BinarizeRegion thresholds the pixels under the bounding rect of contour i
// of forest into mask.
//
// The threshold is the mean intensity along the contour. The background
// estimate is the median of twelve samples around the rect corners; when
// the contour is brighter than the background the polarity flips, so ink
// is always written as Ink.
//
// The rect must lie at least one pixel inside the image on every side,
// which SelectCandidates guarantees. Out-of-range access panics.
func BinarizeRegion(buf *imaging.PixelBuffer, forest *contour.Forest, i int, mask *image.Gray) RegionStats {
	c := &forest.Nodes[i]
	r := c.Rect
	gray := buf.GrayRegion(r)

	fg := foregroundIntensity(gray, c.Points, c.Closed, image.Pt(r.X, r.Y))
	bg := median(cornerSamples(buf, r))
	invert := fg > bg

	thresholdInto(mask, gray, r, fg, invert)

	return RegionStats{
		Contour:    i,
		Rect:       r,
		Foreground: fg,
		Background: bg,
		Inverted:   invert,
	}
}

// foregroundIntensity averages gray over the contour's vertices and the
// pixels on the lines joining consecutive vertices. gray's (0,0) is origin
// in image coordinates. It returns -1 when there is nothing to sample.
func foregroundIntensity(gray *image.Gray, pts []image.Point, closed bool, origin image.Point) int {
	if len(pts) == 0 {
		return -1
	}

	sum, n := 0, 0
	sample := func(x, y int) {
		sum += grayAt(gray, x-origin.X, y-origin.Y)
		n++
	}

	segments := len(pts)
	if !closed {
		segments--
	}
	for i := 0; i < segments; i++ {
		p1, p2 := pts[i], pts[(i+1)%len(pts)]
		sample(p1.X, p1.Y)
		geom.LineInterior(p1, p2, sample)
	}
	if !closed {
		last := pts[len(pts)-1]
		sample(last.X, last.Y)
	}

	return sum / n
}

func grayAt(img *image.Gray, x, y int) int {
	if !image.Pt(x, y).In(img.Rect) {
		panic(fmt.Sprintf("detection: sample (%d,%d) outside region %v", x, y, img.Rect))
	}
	return int(img.Pix[img.PixOffset(x, y)])
}

// cornerSamples returns the luma of three pixels just outside each corner
// of r.
func cornerSamples(buf *imaging.PixelBuffer, r geom.Rect) []int {
	x, y, w, h := r.X, r.Y, r.Width, r.Height
	pts := [12]image.Point{
		{x - 1, y - 1}, {x - 1, y}, {x, y - 1}, // upper left
		{x + w + 1, y - 1}, {x + w, y - 1}, {x + w + 1, y}, // upper right
		{x - 1, y + h + 1}, {x - 1, y + h}, {x, y + h + 1}, // lower left
		{x + w + 1, y + h + 1}, {x + w, y + h + 1}, {x + w + 1, y + h}, // lower right
	}

	samples := make([]int, len(pts))
	for i, p := range pts {
		samples[i] = int(buf.Luma(p.X, p.Y))
	}
	return samples
}

// median returns the middle value of values, or the rounded-up mean of the
// two middle values for an even count. It returns -1 for no values. The
// input is not modified.
func median(values []int) int {
	if len(values) == 0 {
		return -1
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid] + 1) / 2
}

// thresholdInto writes gray into mask at r: pixels above threshold become
// Background and the rest Ink, or the other way round when invert is set.
func thresholdInto(mask, gray *image.Gray, r geom.Rect, threshold int, invert bool) {
	for y := 0; y < r.Height; y++ {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+r.Width]
		off := mask.PixOffset(r.X, r.Y+y)
		dst := mask.Pix[off : off+r.Width]
		for x, v := range src {
			above := int(v) > threshold
			if above != invert {
				dst[x] = Background
			} else {
				dst[x] = Ink
			}
		}
	}
}
