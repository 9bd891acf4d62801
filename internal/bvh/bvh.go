// Package bvh implements a bounding volume hierarchy over axis-aligned
// integer rectangles.
//
// The tree is a binary hierarchy: every node is either a leaf holding one
// member rect, or an internal node with exactly two children whose bounding
// rect is the union of both children. Members can be inserted, queried by
// point or by rect, and removed as part of a query. Removal splices out any
// internal node left with a single child, so the tree never holds unary
// nodes.
//
// Nodes live in a slice and refer to each other by index. Freed slots are
// recycled by later inserts.
//
// A Tree is not safe for concurrent use. It has a single owner and no copy
// operation.
package bvh

import (
	"errors"

	"github.com/ironsheep/text-islands-mcp/internal/geom"
)

// ErrEmpty is returned by AnyRect when the tree has no members.
var ErrEmpty = errors.New("bvh: tree is empty")

const none = -1

type nodeKind uint8

const (
	leafNode nodeKind = iota
	internalNode
)

// node is a leaf (rect is the member) or an internal node (rect bounds the
// two children).
type node struct {
	kind   nodeKind
	rect   geom.Rect
	left   int
	right  int
	parent int
}

// Tree is a bounding volume hierarchy of rects. The zero value is not
// ready for use; call New.
type Tree struct {
	nodes []node
	free  []int
	root  int
	count int
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{root: none}
}

// Len returns the number of members in the tree.
func (t *Tree) Len() int { return t.count }

// Empty reports whether the tree has no members.
func (t *Tree) Empty() bool { return t.root == none }

// Clear removes every member.
func (t *Tree) Clear() {
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	t.root = none
	t.count = 0
}

// Bounds returns the bounding rect of all members, or false when empty.
func (t *Tree) Bounds() (geom.Rect, bool) {
	if t.root == none {
		return geom.Rect{}, false
	}
	return t.nodes[t.root].rect, true
}

func (t *Tree) alloc(n node) int {
	if k := len(t.free); k > 0 {
		idx := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[idx] = n
		return idx
	}
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

func (t *Tree) release(idx int) {
	t.nodes[idx] = node{left: none, right: none, parent: none}
	t.free = append(t.free, idx)
}

func (t *Tree) newLeaf(r geom.Rect, parent int) int {
	return t.alloc(node{kind: leafNode, rect: r, left: none, right: none, parent: parent})
}

// Insert adds r to the tree.
//
// When skipContained is set and the descent reaches a leaf whose rect
// already contains r, r is dropped. This only catches duplicates that land
// next to their container; it is not a full containment check.
//
// The descent is greedy: at each internal node it measures how much each
// child's perimeter would grow by absorbing r. It follows the cheaper child
// while that growth stays under 1/8 of the node's new perimeter; otherwise
// it pairs the cheaper child with a new leaf under a fresh internal node.
func (t *Tree) Insert(r geom.Rect, skipContained bool) {
	if t.root == none {
		t.root = t.newLeaf(r, none)
		t.count++
		return
	}

	n := t.root
	for {
		cur := t.nodes[n]
		if skipContained && cur.kind == leafNode && cur.rect.ContainsRect(r) {
			return
		}

		bounds := cur.rect.Union(r)

		if cur.kind == leafNode {
			left := t.newLeaf(cur.rect, n)
			right := t.newLeaf(r, n)
			t.nodes[n] = node{kind: internalNode, rect: bounds, left: left, right: right, parent: cur.parent}
			t.count++
			return
		}

		perimeter := bounds.Perimeter()
		leftRect := t.nodes[cur.left].rect
		rightRect := t.nodes[cur.right].rect
		ifLeft := leftRect.Union(r)
		ifRight := rightRect.Union(r)
		leftGrowth := ifLeft.Perimeter() - leftRect.Perimeter()
		rightGrowth := ifRight.Perimeter() - rightRect.Perimeter()

		t.nodes[n].rect = bounds

		switch {
		case leftGrowth < rightGrowth && leftGrowth < perimeter/8:
			n = cur.left
		case rightGrowth < perimeter/8:
			n = cur.right
		case leftGrowth < rightGrowth:
			wrapped := t.wrap(cur.left, ifLeft, r, n)
			t.nodes[n].left = wrapped
			t.count++
			return
		default:
			wrapped := t.wrap(cur.right, ifRight, r, n)
			t.nodes[n].right = wrapped
			t.count++
			return
		}
	}
}

// wrap places a new internal node between parent and child, pairing child
// with a new leaf for r. It returns the index of the new internal node.
func (t *Tree) wrap(child int, bounds, r geom.Rect, parent int) int {
	idx := t.alloc(node{kind: internalNode, rect: bounds, left: child, right: none, parent: parent})
	t.nodes[child].parent = idx
	leaf := t.newLeaf(r, idx)
	t.nodes[idx].right = leaf
	return idx
}

// MemberContains reports whether any member contains the point (x, y).
func (t *Tree) MemberContains(x, y int) bool {
	if t.root == none {
		return false
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nd := &t.nodes[n]
		if !nd.rect.ContainsPoint(x, y) {
			continue
		}
		if nd.kind == leafNode {
			return true
		}
		stack = append(stack, nd.right, nd.left)
	}
	return false
}

// AllMembersContaining appends every member containing (x, y) to members
// and returns the extended slice. With remove set, those members are
// deleted from the tree.
func (t *Tree) AllMembersContaining(x, y int, members []geom.Rect, remove bool) []geom.Rect {
	return t.collect(func(r geom.Rect) bool { return r.ContainsPoint(x, y) }, members, remove)
}

// AllMembersIntersecting appends every member intersecting rect to members
// and returns the extended slice. With remove set, those members are
// deleted from the tree.
func (t *Tree) AllMembersIntersecting(rect geom.Rect, members []geom.Rect, remove bool) []geom.Rect {
	return t.collect(rect.Intersects, members, remove)
}

func (t *Tree) collect(match func(geom.Rect) bool, members []geom.Rect, remove bool) []geom.Rect {
	if t.root == none {
		return members
	}
	var gone bool
	members, gone = t.collectNode(t.root, match, members, remove)
	if gone {
		t.release(t.root)
		t.root = none
	}
	return members
}

// collectNode reports true when every member under n was removed, in
// which case the caller frees n itself.
func (t *Tree) collectNode(n int, match func(geom.Rect) bool, members []geom.Rect, remove bool) ([]geom.Rect, bool) {
	nd := t.nodes[n]
	if !match(nd.rect) {
		return members, false
	}
	if nd.kind == leafNode {
		members = append(members, nd.rect)
		if remove {
			t.count--
		}
		return members, remove
	}

	var leftGone, rightGone bool
	members, leftGone = t.collectNode(nd.left, match, members, remove)
	members, rightGone = t.collectNode(nd.right, match, members, remove)

	switch {
	case leftGone && rightGone:
		t.release(nd.left)
		t.release(nd.right)
		return members, true
	case leftGone:
		t.release(nd.left)
		t.splice(n, nd.right)
	case rightGone:
		t.release(nd.right)
		t.splice(n, nd.left)
	case remove:
		t.refit(n)
	}
	return members, false
}

// splice moves the surviving child into n's slot, keeping n's parent link.
func (t *Tree) splice(n, survivor int) {
	parent := t.nodes[n].parent
	s := t.nodes[survivor]
	s.parent = parent
	t.nodes[n] = s
	if s.kind == internalNode {
		t.nodes[s.left].parent = n
		t.nodes[s.right].parent = n
	}
	t.release(survivor)
}

func (t *Tree) refit(n int) {
	nd := &t.nodes[n]
	nd.rect = t.nodes[nd.left].rect.Union(t.nodes[nd.right].rect)
}

// AnyRect returns the leftmost member. With remove set the member is
// deleted. It returns ErrEmpty when the tree has no members.
func (t *Tree) AnyRect(remove bool) (geom.Rect, error) {
	if t.root == none {
		return geom.Rect{}, ErrEmpty
	}

	n := t.root
	for t.nodes[n].kind == internalNode {
		n = t.nodes[n].left
	}
	r := t.nodes[n].rect
	if !remove {
		return r, nil
	}

	t.count--
	parent := t.nodes[n].parent
	if parent == none {
		t.release(n)
		t.root = none
		return r, nil
	}

	survivor := t.nodes[parent].right
	t.release(n)
	t.splice(parent, survivor)
	for p := t.nodes[parent].parent; p != none; p = t.nodes[p].parent {
		t.refit(p)
	}
	return r, nil
}

// Members returns every member rect in left-to-right leaf order.
func (t *Tree) Members() []geom.Rect {
	if t.root == none {
		return nil
	}
	out := make([]geom.Rect, 0, t.count)
	stack := []int{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nd := &t.nodes[n]
		if nd.kind == leafNode {
			out = append(out, nd.rect)
			continue
		}
		stack = append(stack, nd.right, nd.left)
	}
	return out
}
