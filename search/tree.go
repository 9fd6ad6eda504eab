// Package search provides the spatial index the optimization loop uses to
// find a record's Cartesian neighbors cheaply (spec §3 "Search tree",
// §4.3). It is a small hand-rolled 3-D k-d tree, in the teacher's own
// style of writing a bespoke nearest-neighbor helper (see
// motionplan.neighborManager) rather than reaching for a spatial-index
// library.
package search

import (
	"sort"

	"github.com/golang/geo/r3"
)

// Point is one entry in the tree: a stable identifier and its position.
type Point struct {
	ID       string
	Position r3.Vector
}

// Tree is an immutable 3-D k-d tree built once from a snapshot of points.
// It borrows nothing from its caller after New returns; Point values are
// copied in. Safe for concurrent RadiusSearch calls.
type Tree struct {
	root *node
	size int
}

type node struct {
	point       Point
	axis        int
	left, right *node
}

// New builds a balanced k-d tree from points. The slice is not retained or
// mutated by New; it is copied internally.
func New(points []Point) *Tree {
	if len(points) == 0 {
		return &Tree{}
	}
	buf := make([]Point, len(points))
	copy(buf, points)
	return &Tree{root: build(buf, 0), size: len(buf)}
}

func build(points []Point, depth int) *node {
	if len(points) == 0 {
		return nil
	}
	axis := depth % 3
	sort.Slice(points, func(i, j int) bool {
		return axisValue(points[i].Position, axis) < axisValue(points[j].Position, axis)
	})
	mid := len(points) / 2
	n := &node{point: points[mid], axis: axis}
	n.left = build(points[:mid], depth+1)
	n.right = build(points[mid+1:], depth+1)
	return n
}

func axisValue(p r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// Len returns the number of points in the tree.
func (t *Tree) Len() int {
	return t.size
}

// RadiusSearch returns the ids of every indexed point within Euclidean
// distance radius (inclusive) of center, including the query's own point
// when it is itself indexed (spec §4.3: "including the query's own record
// when the query point is itself a target"). Order is deterministic for a
// fixed tree but otherwise unspecified, per spec §4.3.
func (t *Tree) RadiusSearch(center r3.Vector, radius float64) []string {
	if t.root == nil || radius < 0 {
		return nil
	}
	var out []string
	r2 := radius * radius
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		if n.point.Position.Sub(center).Norm2() <= r2 {
			out = append(out, n.point.ID)
		}
		delta := axisValue(center, n.axis) - axisValue(n.point.Position, n.axis)
		// Always descend the side the query point falls on; only descend the
		// far side if the splitting plane is within radius of the query.
		near, far := n.left, n.right
		if delta > 0 {
			near, far = n.right, n.left
		}
		walk(near)
		if delta*delta <= r2 {
			walk(far)
		}
	}
	walk(t.root)
	return out
}
