// Package congestion implements a lazily-propagated multiplicative segment tree
// over a dense range of edge ids. RangeMultiply applies a congestion factor to a
// contiguous edge-id interval; PointQuery reads the current factor of a single
// edge. Both are O(log E).
//
// PointQuery never mutates the lazy array: it accumulates pending factors on
// the way down instead of pushing them to children. A classical segment tree
// point query pushes lazies as it descends, which mutates shared state and
// would force every read to take a write lock. Carrying the pending factors in
// a local accumulator keeps reads pure, which is what lets Router run many
// PointQuery calls concurrently under nothing but a shared RLock.
package congestion

import (
	"math"

	"github.com/georoute/georoute/internal/routeerr"
)

// Tree is a 1-indexed complete binary tree over [0, size) stored in two flat
// arrays sized 4*size. nodeValue[v] is the product of factors applied to v's
// range; lazy[v] is the pending factor applied to v's range but not yet pushed
// to its children.
type Tree struct {
	n         int
	nodeValue []float32
	lazy      []float32
}

// New builds a Tree of the given size with every cell initialized to a
// congestion factor of 1.0.
func New(size int) *Tree {
	t := &Tree{n: size}
	if size == 0 {
		return t
	}
	t.nodeValue = make([]float32, size*4)
	t.lazy = make([]float32, size*4)
	for i := range t.nodeValue {
		t.nodeValue[i] = 1.0
		t.lazy[i] = 1.0
	}
	return t
}

// Size returns E, the number of indexable cells.
func (t *Tree) Size() int {
	return t.n
}

// RangeMultiply multiplies factor into every cell in the inclusive range
// [l, r]. l must be <= r and r must be < Size(); factor may be any finite
// value: Tree performs no sign or finiteness validation, that is the
// Router's job at the public boundary.
func (t *Tree) RangeMultiply(l, r int, factor float32) error {
	if t.n == 0 {
		return routeerr.Newf(routeerr.OutOfRange, "congestion.RangeMultiply", "tree has size 0")
	}
	if l > r {
		return routeerr.Newf(routeerr.InvalidRange, "congestion.RangeMultiply", "l=%d > r=%d", l, r)
	}
	if r >= t.n {
		return routeerr.Newf(routeerr.OutOfRange, "congestion.RangeMultiply", "r=%d >= size=%d", r, t.n)
	}
	t.rangeMultiply(1, 0, t.n-1, l, r, factor)
	return nil
}

// PointQuery returns the current congestion factor at index i, which must be
// < Size().
func (t *Tree) PointQuery(i int) (float32, error) {
	if t.n == 0 || i >= t.n || i < 0 {
		return 0, routeerr.Newf(routeerr.OutOfRange, "congestion.PointQuery", "index %d out of range for size %d", i, t.n)
	}
	return t.pointQuery(1, 0, t.n-1, i, 1.0), nil
}

func (t *Tree) rangeMultiply(node, nodeL, nodeR, ql, qr int, factor float32) {
	if ql <= nodeL && nodeR <= qr {
		t.apply(node, factor, nodeL, nodeR)
		return
	}

	t.push(node, nodeL, nodeR)

	mid := nodeL + (nodeR-nodeL)/2
	left, right := node*2, node*2+1

	if ql <= mid {
		t.rangeMultiply(left, nodeL, mid, ql, min(qr, mid), factor)
	}
	if qr > mid {
		t.rangeMultiply(right, mid+1, nodeR, max(ql, mid+1), qr, factor)
	}

	t.nodeValue[node] = t.nodeValue[left] * t.nodeValue[right]
}

func (t *Tree) pointQuery(node, nodeL, nodeR, idx int, accumulated float32) float32 {
	accumulated *= t.lazy[node]

	if nodeL == nodeR {
		return t.nodeValue[node] * accumulated
	}

	mid := nodeL + (nodeR-nodeL)/2
	if idx <= mid {
		return t.pointQuery(node*2, nodeL, mid, idx, accumulated)
	}
	return t.pointQuery(node*2+1, mid+1, nodeR, idx, accumulated)
}

// apply fully applies factor to a node whose range is wholly covered by the
// current update, without recursing into its children.
func (t *Tree) apply(node int, factor float32, nodeL, nodeR int) {
	t.nodeValue[node] *= factor
	if nodeL != nodeR {
		t.lazy[node] *= factor
	}
}

// push flushes node's pending lazy factor to both children. A no-op for
// leaves and for a lazy value of exactly 1.0: an untouched subtree does no
// work at all.
func (t *Tree) push(node, nodeL, nodeR int) {
	if nodeL == nodeR {
		return
	}
	factor := t.lazy[node]
	if factor == 1.0 {
		return
	}
	mid := nodeL + (nodeR-nodeL)/2
	left, right := node*2, node*2+1
	t.apply(left, factor, nodeL, mid)
	t.apply(right, factor, mid+1, nodeR)
	t.lazy[node] = 1.0
}

// ValidFactor reports whether factor is an acceptable congestion multiplier:
// strictly positive and finite. Zero makes an edge free; negative breaks
// Dijkstra's non-negativity precondition; NaN/Inf are simply not physical.
func ValidFactor(factor float32) bool {
	return factor > 0 && !math.IsNaN(float64(factor)) && !math.IsInf(float64(factor), 0)
}

