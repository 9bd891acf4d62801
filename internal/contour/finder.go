package contour

import (
	"image"
)

// Step directions around a pixel. Increasing index turns counterclockwise
// on screen (y grows downward).
var (
	dirX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	dirY = [8]int{0, -1, -1, -1, 0, 1, 1, 1}
)

const (
	dirEast = 0
	dirWest = 4
)

// Finder traces the borders of a binary image into a contour Forest with
// full nesting (every outer and hole border becomes a node).
type Finder struct {
	// ApproxSimple keeps only the vertices where the step direction
	// changes, so straight runs collapse to their end points.
	ApproxSimple bool
}

// NewFinder returns a Finder with ApproxSimple enabled.
func NewFinder() Finder {
	return Finder{ApproxSimple: true}
}

// FindContours traces every border of edges. Any non-zero pixel is
// foreground; the outermost one-pixel frame is treated as background. The
// input image is not modified.
func (f Finder) FindContours(edges *image.Gray) (*Forest, error) {
	t := newTracer(edges)
	t.scan(f.ApproxSimple)
	return t.forest, nil
}

// border records what the tracer knows about a border number.
type border struct {
	hole   bool
	node   int
	parent int
}

// tracer implements Suzuki-Abe border following over a labelled copy of
// the input. Labels: 0 background, 1 unvisited foreground, ±n visited by
// border n (negative when the pixel's east neighbour is background).
type tracer struct {
	width, height int
	labels        []int32
	borders       []border
	forest        *Forest
}

func newTracer(edges *image.Gray) *tracer {
	b := edges.Bounds()
	w, h := b.Dx(), b.Dy()
	t := &tracer{
		width:  w,
		height: h,
		labels: make([]int32, w*h),
		// Border 0 is unused; border 1 is the image frame, a hole with no node.
		borders: []border{{}, {hole: true, node: None, parent: None}},
		forest:  NewForest(),
	}
	for y := 1; y < h-1; y++ {
		row := edges.Pix[y*edges.Stride : y*edges.Stride+w]
		for x := 1; x < w-1; x++ {
			if row[x] != 0 {
				t.labels[y*w+x] = 1
			}
		}
	}
	return t
}

func (t *tracer) scan(approx bool) {
	w := t.width
	for y := 1; y < t.height-1; y++ {
		lnbd := int32(1)
		for x := 1; x < w-1; x++ {
			i := y*w + x
			f := t.labels[i]
			if f == 0 {
				continue
			}

			startDir := -1
			hole := false
			switch {
			case f == 1 && t.labels[i-1] == 0:
				startDir = dirWest
			case f >= 1 && t.labels[i+1] == 0:
				startDir = dirEast
				hole = true
				if f > 1 {
					lnbd = f
				}
			}

			if startDir >= 0 {
				prev := t.borders[lnbd]
				parent := prev.node
				if hole == prev.hole {
					parent = prev.parent
				}

				nbd := int32(len(t.borders))
				points := t.follow(x, y, startDir, nbd, approx)
				node := t.forest.AddContour(parent, points, true, hole)
				t.borders = append(t.borders, border{hole: hole, node: node, parent: parent})
			}

			if v := t.labels[i]; v != 1 {
				if v < 0 {
					v = -v
				}
				lnbd = v
			}
		}
	}
}

func (t *tracer) at(x, y, d int) int32 {
	return t.labels[(y+dirY[d])*t.width+x+dirX[d]]
}

// follow traces the border starting at (x0, y0) whose known background
// neighbour lies in direction startDir, labelling it with nbd. It returns
// the traced points, compressed when approx is set.
func (t *tracer) follow(x0, y0, startDir int, nbd int32, approx bool) []image.Point {
	// Clockwise search for the neighbour that precedes the start pixel.
	d1 := -1
	for k := 0; k < 8; k++ {
		d := (startDir - k + 8) & 7
		if t.at(x0, y0, d) != 0 {
			d1 = d
			break
		}
	}
	if d1 < 0 {
		t.labels[y0*t.width+x0] = -nbd
		return []image.Point{{X: x0, Y: y0}}
	}

	x1, y1 := x0+dirX[d1], y0+dirY[d1]
	x3, y3 := x0, y0
	back := d1 // direction from the current pixel to the previous one

	var points []image.Point
	var steps []int
	for {
		// Counterclockwise search starting just past the previous pixel.
		eastZero := false
		d4 := back
		for k := 1; k <= 8; k++ {
			d := (back + k) & 7
			if t.at(x3, y3, d) != 0 {
				d4 = d
				break
			}
			if d == dirEast {
				eastZero = true
			}
		}

		i3 := y3*t.width + x3
		switch {
		case eastZero:
			t.labels[i3] = -nbd
		case t.labels[i3] == 1:
			t.labels[i3] = nbd
		}

		points = append(points, image.Point{X: x3, Y: y3})
		steps = append(steps, d4)

		x4, y4 := x3+dirX[d4], y3+dirY[d4]
		if x4 == x0 && y4 == y0 && x3 == x1 && y3 == y1 {
			break
		}
		x3, y3 = x4, y4
		back = (d4 + 4) & 7
	}

	if approx {
		return compress(points, steps)
	}
	return points
}

// compress keeps the points of a closed chain where the incoming step
// direction differs from the outgoing one. steps[k] is the direction from
// points[k] to the following point.
func compress(points []image.Point, steps []int) []image.Point {
	n := len(points)
	if n < 3 {
		return points
	}
	out := make([]image.Point, 0, n)
	for k, p := range points {
		if steps[(k+n-1)%n] != steps[k] {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = append(out, points[0])
	}
	return out
}
