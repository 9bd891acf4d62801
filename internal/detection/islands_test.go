package detection

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/ironsheep/text-islands-mcp/internal/contour"
	"github.com/ironsheep/text-islands-mcp/internal/geom"
)

func sortRects(rects []geom.Rect) {
	sort.Slice(rects, func(i, j int) bool {
		a, b := rects[i], rects[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Width != b.Width {
			return a.Width < b.Width
		}
		return a.Height < b.Height
	})
}

func TestClusterRects_FarApart(t *testing.T) {
	islands := ClusterRects([]geom.Rect{geom.R(0, 0, 10, 10), geom.R(1000, 1000, 10, 10)}, 5, 0)
	if len(islands) != 2 {
		t.Fatalf("got %d islands, want 2: %v", len(islands), islands)
	}
	sortRects(islands)
	if islands[0] != geom.R(0, 0, 10, 10) || islands[1] != geom.R(1000, 1000, 10, 10) {
		t.Errorf("unexpected islands %v", islands)
	}
}

func TestClusterRects_WithinPadding(t *testing.T) {
	islands := ClusterRects([]geom.Rect{geom.R(0, 0, 10, 10), geom.R(13, 0, 10, 10)}, 5, 0)
	if len(islands) != 1 {
		t.Fatalf("got %d islands, want 1: %v", len(islands), islands)
	}
	if islands[0] != geom.R(0, 0, 23, 10) {
		t.Errorf("island: got %v, want (0,0,23,10)", islands[0])
	}
}

func TestClusterRects_Transitive(t *testing.T) {
	rects := []geom.Rect{
		geom.R(28, 0, 10, 10),
		geom.R(0, 0, 10, 10),
		geom.R(14, 3, 10, 10),
		geom.R(200, 0, 4, 4),
	}
	islands := ClusterRects(rects, 5, 0)
	sortRects(islands)

	want := []geom.Rect{geom.R(0, 0, 38, 13), geom.R(200, 0, 4, 4)}
	if len(islands) != len(want) {
		t.Fatalf("got %v, want %v", islands, want)
	}
	for i := range want {
		if islands[i] != want[i] {
			t.Errorf("island %d: got %v, want %v", i, islands[i], want[i])
		}
	}
}

func TestClusterRects_MinSize(t *testing.T) {
	rects := []geom.Rect{
		geom.R(0, 0, 12, 12),  // not larger than 12 on either axis
		geom.R(100, 0, 13, 2), // wide enough
		geom.R(200, 0, 2, 13), // tall enough
		geom.R(300, 0, 6, 6),  // two small rects that together exceed 12
		geom.R(309, 0, 6, 6),
	}
	islands := ClusterRects(rects, 5, 12)
	sortRects(islands)

	want := []geom.Rect{geom.R(100, 0, 13, 2), geom.R(200, 0, 2, 13), geom.R(300, 0, 15, 6)}
	if len(islands) != len(want) {
		t.Fatalf("got %v, want %v", islands, want)
	}
	for i := range want {
		if islands[i] != want[i] {
			t.Errorf("island %d: got %v, want %v", i, islands[i], want[i])
		}
	}
}

func TestClusterRects_Empty(t *testing.T) {
	if islands := ClusterRects(nil, 5, 0); len(islands) != 0 {
		t.Errorf("got %v, want none", islands)
	}
}

// connectedUnions clusters rects by brute force with union-find.
func connectedUnions(rects []geom.Rect, padding int) []geom.Rect {
	parent := make([]int, len(rects))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	for i := range rects {
		for j := range rects {
			if i != j && rects[i].Outset(padding, padding).Intersects(rects[j]) {
				parent[find(i)] = find(j)
			}
		}
	}

	unions := map[int]geom.Rect{}
	for i, r := range rects {
		root := find(i)
		if u, ok := unions[root]; ok {
			unions[root] = u.Union(r)
		} else {
			unions[root] = r
		}
	}

	out := make([]geom.Rect, 0, len(unions))
	for _, u := range unions {
		out = append(out, u)
	}
	return out
}

func TestClusterRects_MatchesConnectedComponents(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 25; trial++ {
		rects := make([]geom.Rect, 40)
		for i := range rects {
			rects[i] = geom.R(rng.Intn(400), rng.Intn(400), 1+rng.Intn(20), 1+rng.Intn(20))
		}

		got := ClusterRects(rects, 5, -1)
		want := connectedUnions(rects, 5)
		sortRects(got)
		sortRects(want)

		if len(got) != len(want) {
			t.Fatalf("trial %d: got %d islands, want %d", trial, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("trial %d: island %d got %v, want %v", trial, i, got[i], want[i])
			}
		}
	}
}

func TestFindIslands_UsesEveryContour(t *testing.T) {
	f := contour.NewForest()
	parent := addRect(f, contour.None, geom.R(10, 10, 40, 20))
	addRect(f, parent, geom.R(12, 12, 10, 10))
	// Reaches beyond the parent, so only visible if children are included
	addRect(f, parent, geom.R(45, 12, 20, 10))
	addRect(f, contour.None, geom.R(300, 300, 20, 20))

	// Pruned children still count
	f.Prune(parent)

	islands := FindIslands(f, 5, 12)
	sortRects(islands)
	want := []geom.Rect{geom.R(10, 10, 55, 20), geom.R(300, 300, 20, 20)}
	if len(islands) != len(want) {
		t.Fatalf("got %v, want %v", islands, want)
	}
	for i := range want {
		if islands[i] != want[i] {
			t.Errorf("island %d: got %v, want %v", i, islands[i], want[i])
		}
	}
}
