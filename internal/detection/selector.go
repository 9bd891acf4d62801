package detection

import (
	"github.com/ironsheep/text-islands-mcp/internal/contour"
	"github.com/ironsheep/text-islands-mcp/internal/geom"
)

// aspectScale is the fixed-point scale of the aspect ratio test.
const aspectScale = 1 << 10

// aspectWithinTenthToTen reports whether width/height lies in [0.1, 10],
// computed in integer fixed point so the boundaries are exact.
func aspectWithinTenthToTen(r geom.Rect) bool {
	ratio := aspectScale * r.Width / r.Height
	return ratio >= aspectScale/10 && ratio <= aspectScale*10
}

// SelectCandidates walks the forest parent-first and returns the indices of
// contours whose bounding rects look like a single glyph, in walk order.
//
// A contour is accepted when all of these hold:
//
//  1. its larger dimension is at least minSize;
//  2. its aspect ratio is within [0.1, 10];
//  3. its larger dimension is at most a fifth of the image's larger
//     dimension;
//  4. it stays more than one pixel away from every image edge;
//  5. it contains at most maxChildren glyph-sized descendants.
//
// Accepting a contour prunes its children from the forest, so the
// outermost accepted contour wins and no descendant is reported.
func SelectCandidates(forest *contour.Forest, width, height, minSize, maxChildren int) []int {
	var accepted []int
	larger := max(width, height)

	forest.Walk(func(i int) {
		r := forest.Nodes[i].Rect
		dim := r.LargerDimension()
		if dim < minSize {
			return
		}
		if !aspectWithinTenthToTen(r) {
			return
		}
		if dim > larger/5 {
			return
		}
		if r.X <= 1 || r.Right() >= width-1 || r.Y <= 1 || r.Bottom() >= height-1 {
			return
		}
		if countInteriorChildren(forest, i, maxChildren+1, minSize) > maxChildren {
			return
		}

		accepted = append(accepted, i)
		forest.Prune(i)
	})

	return accepted
}

// countInteriorChildren counts descendants of node i that are larger than
// minSize, have a plausible aspect ratio and lie inside their parent's
// rect, stopping once limit is reached. Descent continues only through
// counted children.
func countInteriorChildren(forest *contour.Forest, i, limit, minSize int) int {
	parent := forest.Nodes[i].Rect
	count := 0
	for c := forest.Nodes[i].FirstChild; c != contour.None && count < limit; c = forest.Nodes[c].NextSibling {
		r := forest.Nodes[c].Rect
		if r.LargerDimension() > minSize && aspectWithinTenthToTen(r) && parent.ContainsRect(r) {
			count++
			if count < limit {
				count += countInteriorChildren(forest, c, limit-count, minSize)
			}
		}
	}
	return count
}
