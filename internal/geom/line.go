package geom

import "image"

// LineInterior calls fn for every pixel strictly between p1 and p2 on the
// 8-connected Bresenham line joining them. The endpoints are not visited.
// It returns the number of pixels visited.
func LineInterior(p1, p2 image.Point, fn func(x, y int)) int {
	dx := abs(p2.X - p1.X)
	dy := -abs(p2.Y - p1.Y)
	sx, sy := 1, 1
	if p1.X > p2.X {
		sx = -1
	}
	if p1.Y > p2.Y {
		sy = -1
	}

	visited := 0
	x, y := p1.X, p1.Y
	err := dx + dy
	for {
		if x == p2.X && y == p2.Y {
			return visited
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		if x == p2.X && y == p2.Y {
			return visited
		}
		fn(x, y)
		visited++
	}
}

// Line calls fn for every pixel on the 8-connected line from p1 to p2,
// both endpoints included.
func Line(p1, p2 image.Point, fn func(x, y int)) {
	fn(p1.X, p1.Y)
	if p1 == p2 {
		return
	}
	LineInterior(p1, p2, fn)
	fn(p2.X, p2.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
