package detection

import (
	"github.com/ironsheep/text-islands-mcp/internal/bvh"
	"github.com/ironsheep/text-islands-mcp/internal/contour"
	"github.com/ironsheep/text-islands-mcp/internal/geom"
)

// FindIslands groups the bounding rects of every contour in the forest,
// regardless of nesting or pruning, into islands of nearby rects.
func FindIslands(forest *contour.Forest, padding, minSize int) []geom.Rect {
	rects := make([]geom.Rect, len(forest.Nodes))
	for i := range forest.Nodes {
		rects[i] = forest.Nodes[i].Rect
	}
	return ClusterRects(rects, padding, minSize)
}

// ClusterRects merges rects into islands. Two rects share an island when a
// chain of rects connects them in which each one, grown by padding on
// every side, touches the next. Each island is the union of its rects and
// is kept only if its width or height exceeds minSize.
//
// Islands are returned in discovery order.
func ClusterRects(rects []geom.Rect, padding, minSize int) []geom.Rect {
	tree := bvh.New()
	for _, r := range rects {
		tree.Insert(r, true)
	}

	var islands []geom.Rect
	var cluster []geom.Rect
	for !tree.Empty() {
		seed, err := tree.AnyRect(true)
		if err != nil {
			break
		}

		cluster = append(cluster[:0], seed)
		union := seed
		for i := 0; i < len(cluster); i++ {
			c := cluster[i]
			cluster = tree.AllMembersIntersecting(c.Outset(padding, padding), cluster, true)
			union = union.Union(c)
		}

		if union.Width > minSize || union.Height > minSize {
			islands = append(islands, union)
		}
	}
	return islands
}
