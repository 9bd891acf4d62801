// Package geom provides axis-aligned integer rectangles and the handful of
// set operations the detection pipeline needs.
//
// # Coordinate System
//
// Coordinates follow the image convention: origin at the top-left corner,
// X increasing rightward, Y increasing downward. A Rect covers the pixels
// X..X+Width-1 and Y..Y+Height-1.
//
// # Containment vs Intersection
//
// ContainsRect tests the child's far corner at (X+Width-1, Y+Height-1), so a
// rect contains itself. Intersects is inclusive of touching edges: two rects
// that share only a border line (or sit one pixel apart along an axis)
// intersect. The asymmetry is deliberate and callers rely on it.
package geom

import (
	"fmt"
	"image"
)

// Rect is an axis-aligned rectangle in integer pixel coordinates.
type Rect struct {
	X      int `json:"x"`      // Left edge (inclusive)
	Y      int `json:"y"`      // Top edge (inclusive)
	Width  int `json:"width"`  // Horizontal extent in pixels
	Height int `json:"height"` // Vertical extent in pixels
}

// R is shorthand for Rect{X: x, Y: y, Width: w, Height: h}.
func R(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// FromImage converts an image.Rectangle (exclusive Max) into a Rect.
func FromImage(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Image converts the rect into an image.Rectangle with exclusive Max.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Right returns the exclusive right edge X+Width.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge Y+Height.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Area returns Width*Height.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Perimeter returns 2*(Width+Height).
func (r Rect) Perimeter() int {
	return (r.Width + r.Height) * 2
}

// LargerDimension returns max(Width, Height).
func (r Rect) LargerDimension() int {
	if r.Width > r.Height {
		return r.Width
	}
	return r.Height
}

// ContainsPoint reports whether (x, y) lies inside r (half-open on both axes).
func (r Rect) ContainsPoint(x, y int) bool {
	return r.X <= x && x < r.X+r.Width && r.Y <= y && y < r.Y+r.Height
}

// ContainsRect reports whether both the origin and the far corner
// (X+Width-1, Y+Height-1) of child lie inside r.
func (r Rect) ContainsRect(child Rect) bool {
	return r.ContainsPoint(child.X, child.Y) &&
		r.ContainsPoint(child.X+child.Width-1, child.Y+child.Height-1)
}

// Intersects reports whether r and other overlap, counting touching edges.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Union returns the smallest rect enclosing both r and other.
func (r Rect) Union(other Rect) Rect {
	x := min(r.X, other.X)
	y := min(r.Y, other.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  max(r.X+r.Width, other.X+other.Width) - x,
		Height: max(r.Y+r.Height, other.Y+other.Height) - y,
	}
}

// Outset grows r by dx on the left and right and by dy on the top and
// bottom. Negative values shrink it.
func (r Rect) Outset(dx, dy int) Rect {
	r.X -= dx
	r.Y -= dy
	r.Width += dx * 2
	r.Height += dy * 2
	return r
}

// String formats the rect as "(x,y wxh)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// BoundingRect returns the inclusive bounding rect of a point set: a single
// point yields a 1x1 rect. An empty set yields the zero Rect.
func BoundingRect(points []image.Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}
