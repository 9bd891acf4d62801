package contour

import (
	"fmt"
	"image"

	"github.com/ironsheep/text-islands-mcp/internal/geom"
)

// None marks an absent parent, child or sibling link.
const None = -1

// Contour is one node of a Forest: a traced border and its links to the
// rest of the hierarchy.
type Contour struct {
	// Points are the boundary vertices in tracing order.
	Points []image.Point

	// Closed reports whether the last point connects back to the first.
	Closed bool

	// Hole marks a hole border (the boundary of a background region inside
	// a foreground component).
	Hole bool

	// Rect is the inclusive bounding rect of Points.
	Rect geom.Rect

	Parent      int
	FirstChild  int
	NextSibling int
}

// Forest is an arena of contours linked by index into a set of trees.
//
// Top-level contours are chained as siblings starting at First. Children
// of a node are chained the same way starting at its FirstChild. A Forest
// is built once per detection pass and is not safe for concurrent
// mutation.
type Forest struct {
	Nodes []Contour
	First int

	// tails[p+1] is the last child appended under parent p (None for top
	// level), so AddContour stays O(1).
	tails []int
}

// NewForest returns an empty forest.
func NewForest() *Forest {
	return &Forest{First: None, tails: []int{None}}
}

// Len returns the number of contours.
func (f *Forest) Len() int { return len(f.Nodes) }

// AddContour appends a contour as the last child of parent (None for a
// top-level contour) and returns its index. The bounding rect is computed
// from the points; incoming link fields are overwritten.
func (f *Forest) AddContour(parent int, points []image.Point, closed, hole bool) int {
	if parent != None && (parent < 0 || parent >= len(f.Nodes)) {
		panic(fmt.Sprintf("contour: parent %d out of range [0,%d)", parent, len(f.Nodes)))
	}

	if len(f.tails) != len(f.Nodes)+1 {
		f.rebuildTails()
	}

	idx := len(f.Nodes)
	f.Nodes = append(f.Nodes, Contour{
		Points:      points,
		Closed:      closed,
		Hole:        hole,
		Rect:        geom.BoundingRect(points),
		Parent:      parent,
		FirstChild:  None,
		NextSibling: None,
	})
	f.tails = append(f.tails, None)

	switch tail := f.tails[parent+1]; {
	case tail != None:
		f.Nodes[tail].NextSibling = idx
	case parent == None:
		f.First = idx
	default:
		f.Nodes[parent].FirstChild = idx
	}
	f.tails[parent+1] = idx
	return idx
}

// Prune detaches the children of node i from traversal. Nothing is freed:
// the children keep their Parent links and stay addressable by index.
func (f *Forest) Prune(i int) {
	f.Nodes[i].FirstChild = None
}

// Next returns the node after i in pre-order (parent before children,
// children before later siblings), honouring pruned links. It returns None
// when the walk is finished.
func (f *Forest) Next(i int) int {
	if c := f.Nodes[i].FirstChild; c != None {
		return c
	}
	for i != None {
		if s := f.Nodes[i].NextSibling; s != None {
			return s
		}
		i = f.Nodes[i].Parent
	}
	return None
}

// Walk calls fn for every reachable node in pre-order. fn may prune the
// node it is given; the walk then skips that node's children.
func (f *Forest) Walk(fn func(i int)) {
	for i := f.First; i != None; i = f.Next(i) {
		fn(i)
	}
}

// Depth returns the number of ancestors of node i.
func (f *Forest) Depth(i int) int {
	d := 0
	for p := f.Nodes[i].Parent; p != None; p = f.Nodes[p].Parent {
		d++
	}
	return d
}

// Hierarchy is one row of a flat contour hierarchy as produced by OpenCV's
// findContours: indices of the next and previous sibling, the first child
// and the parent, with negative values meaning none.
type Hierarchy struct {
	Next, Prev, FirstChild, Parent int
}

// FromHierarchy builds a Forest from contours and their flat hierarchy
// rows. Node indices are preserved; contours at odd depth are holes. The
// first top-level contour is the one without a parent or previous sibling.
func FromHierarchy(contours [][]image.Point, rows []Hierarchy) (*Forest, error) {
	if len(contours) != len(rows) {
		return nil, fmt.Errorf("hierarchy has %d rows for %d contours", len(rows), len(contours))
	}

	n := len(contours)
	link := func(v int) (int, error) {
		if v < 0 {
			return None, nil
		}
		if v >= n {
			return None, fmt.Errorf("hierarchy link %d out of range [0,%d)", v, n)
		}
		return v, nil
	}

	f := &Forest{First: None, Nodes: make([]Contour, n)}
	for i, pts := range contours {
		row := rows[i]
		next, err := link(row.Next)
		if err != nil {
			return nil, err
		}
		child, err := link(row.FirstChild)
		if err != nil {
			return nil, err
		}
		parent, err := link(row.Parent)
		if err != nil {
			return nil, err
		}
		f.Nodes[i] = Contour{
			Points:      pts,
			Closed:      true,
			Rect:        geom.BoundingRect(pts),
			Parent:      parent,
			FirstChild:  child,
			NextSibling: next,
		}
		if parent == None && row.Prev < 0 && f.First == None {
			f.First = i
		}
	}

	for i := range f.Nodes {
		d := 0
		for p := f.Nodes[i].Parent; p != None; p = f.Nodes[p].Parent {
			if d++; d > n {
				return nil, fmt.Errorf("hierarchy has a parent cycle through contour %d", i)
			}
		}
		f.Nodes[i].Hole = d%2 == 1
	}

	f.rebuildTails()
	return f, nil
}

// rebuildTails recomputes the append positions after bulk construction.
func (f *Forest) rebuildTails() {
	f.tails = make([]int, len(f.Nodes)+1)
	for i := range f.tails {
		f.tails[i] = None
	}
	for i, c := range f.Nodes {
		if c.NextSibling == None {
			f.tails[c.Parent+1] = i
		}
	}
}
