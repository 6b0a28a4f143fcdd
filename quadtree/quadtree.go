// Package quadtree is the broad phase: a region tree over bounding areas that
// is cleared and refilled every physics step.
package quadtree

import "github.com/milk9111/physics2d/collider"

const (
	DefaultMaxObjects = 10
	DefaultMaxLevels  = 5
)

// Bounded is anything the tree can place.
type Bounded interface {
	BoundingArea() collider.BoundingArea
}

type node[T Bounded] struct {
	bounds   collider.BoundingArea
	depth    int
	items    []T
	children [4]*node[T]
}

func (n *node[T]) split() bool {
	return n.children[0] != nil
}

// QuadTree splits a node into four quadrants once it holds more than
// maxObjects items and is shallower than maxLevels. Items that straddle a
// quadrant boundary stay on the parent.
type QuadTree[T Bounded] struct {
	root       *node[T]
	maxObjects int
	maxLevels  int
	count      int
	pool       []*node[T]
}

// New creates an empty tree. Non-positive limits fall back to the defaults.
func New[T Bounded](bounds collider.BoundingArea, maxObjects, maxLevels int) *QuadTree[T] {
	if maxObjects <= 0 {
		maxObjects = DefaultMaxObjects
	}
	if maxLevels <= 0 {
		maxLevels = DefaultMaxLevels
	}
	return &QuadTree[T]{
		root:       &node[T]{bounds: bounds},
		maxObjects: maxObjects,
		maxLevels:  maxLevels,
	}
}

func (q *QuadTree[T]) Bounds() collider.BoundingArea {
	return q.root.bounds
}

// Count returns the number of inserted items.
func (q *QuadTree[T]) Count() int {
	return q.count
}

// Clear drops every item and returns child nodes to the pool.
func (q *QuadTree[T]) Clear() {
	q.release(q.root)
	clear(q.root.items)
	q.root.items = q.root.items[:0]
	q.count = 0
}

func (q *QuadTree[T]) release(n *node[T]) {
	for i, child := range n.children {
		if child == nil {
			continue
		}
		q.release(child)
		clear(child.items)
		child.items = child.items[:0]
		q.pool = append(q.pool, child)
		n.children[i] = nil
	}
}

func (q *QuadTree[T]) acquire(bounds collider.BoundingArea, depth int) *node[T] {
	if last := len(q.pool) - 1; last >= 0 {
		n := q.pool[last]
		q.pool = q.pool[:last]
		n.bounds = bounds
		n.depth = depth
		return n
	}
	return &node[T]{bounds: bounds, depth: depth}
}

func (q *QuadTree[T]) Insert(item T) {
	q.count++
	q.insert(q.root, item, item.BoundingArea())
}

func (q *QuadTree[T]) insert(n *node[T], item T, area collider.BoundingArea) {
	for n.split() {
		i := quadrantIndex(n, area)
		if i < 0 {
			break
		}
		n = n.children[i]
	}

	n.items = append(n.items, item)
	if n.split() || len(n.items) <= q.maxObjects || n.depth >= q.maxLevels {
		return
	}

	for i := range n.children {
		n.children[i] = q.acquire(n.bounds.Quadrant(i), n.depth+1)
	}
	kept := n.items[:0]
	for _, it := range n.items {
		itArea := it.BoundingArea()
		if i := quadrantIndex(n, itArea); i >= 0 {
			q.insert(n.children[i], it, itArea)
			continue
		}
		kept = append(kept, it)
	}
	clear(n.items[len(kept):])
	n.items = kept
}

// quadrantIndex returns the child quadrant area fits inside, or -1.
func quadrantIndex[T Bounded](n *node[T], area collider.BoundingArea) int {
	for i, child := range n.children {
		if area.FitsWithin(child.bounds) {
			return i
		}
	}
	return -1
}

// RetrievePotentialCollisions returns the items stored on every node along
// the path of quadrants that fully contain area. An area spanning several
// quadrants is matched against the parent's items only; the pair is still
// found when the other item runs its own query.
func (q *QuadTree[T]) RetrievePotentialCollisions(area collider.BoundingArea) []T {
	return q.AppendPotentialCollisions(nil, area)
}

// AppendPotentialCollisions is RetrievePotentialCollisions appending to dst.
func (q *QuadTree[T]) AppendPotentialCollisions(dst []T, area collider.BoundingArea) []T {
	n := q.root
	for {
		dst = append(dst, n.items...)
		if !n.split() {
			return dst
		}
		i := quadrantIndex(n, area)
		if i < 0 {
			return dst
		}
		n = n.children[i]
	}
}

// Query returns every item whose bounding area overlaps area, descending into
// all overlapping quadrants.
func (q *QuadTree[T]) Query(area collider.BoundingArea) []T {
	return q.query(nil, q.root, area)
}

func (q *QuadTree[T]) query(dst []T, n *node[T], area collider.BoundingArea) []T {
	for _, it := range n.items {
		if it.BoundingArea().Overlaps(area) {
			dst = append(dst, it)
		}
	}
	if !n.split() {
		return dst
	}
	for _, child := range n.children {
		if child.bounds.Overlaps(area) {
			dst = q.query(dst, child, area)
		}
	}
	return dst
}

// Walk visits every node depth-first, parents before children.
func (q *QuadTree[T]) Walk(fn func(bounds collider.BoundingArea, depth int, items []T)) {
	walk(q.root, fn)
}

func walk[T Bounded](n *node[T], fn func(collider.BoundingArea, int, []T)) {
	fn(n.bounds, n.depth, n.items)
	if !n.split() {
		return
	}
	for _, child := range n.children {
		walk(child, fn)
	}
}
