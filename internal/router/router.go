// Package router composes the Graph, the congestion Tree, and the Dijkstra
// procedure behind a reader-writer guard: many ComputeRoute calls may run
// concurrently, but ApplyCongestionUpdate excludes all readers and other
// writers for its duration.
package router

import (
	"sync"

	"github.com/georoute/georoute/internal/congestion"
	"github.com/georoute/georoute/internal/graph"
	"github.com/georoute/georoute/internal/routeerr"
	"github.com/georoute/georoute/internal/routing"
)

// Router owns a Graph and a congestion Tree for the lifetime of the process.
// Neither is aliased outside the Router once constructed.
type Router struct {
	graph *graph.Graph
	tree  *congestion.Tree
	mu    sync.RWMutex
}

// New wraps a Graph and a congestion Tree built for it (Tree.Size() ==
// g.EdgeCount()) in a Router.
func New(g *graph.Graph, tree *congestion.Tree) *Router {
	return &Router{graph: g, tree: tree}
}

// ComputeRoute acquires shared access for the full duration of the Dijkstra
// search and returns its computation. Because the congestion tree's read path
// never mutates shared state, any number of ComputeRoute calls may run this
// concurrently with one another; none may run concurrently with
// ApplyCongestionUpdate.
func (r *Router) ComputeRoute(source, target graph.NodeID) (routing.RouteComputation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return routing.ShortestPath(r.graph, r.tree, source, target)
}

// ApplyCongestionUpdate acquires exclusive access, validates the range and
// factor, and multiplies factor into every edge's congestion factor in
// [l, r].
func (r *Router) ApplyCongestionUpdate(l, rr int, factor float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l > rr {
		return routeerr.Newf(routeerr.InvalidRange, "router.ApplyCongestionUpdate", "l=%d > r=%d", l, rr)
	}
	if rr >= r.tree.Size() {
		return routeerr.Newf(routeerr.OutOfRange, "router.ApplyCongestionUpdate", "r=%d >= edge_count=%d", rr, r.tree.Size())
	}
	if !congestion.ValidFactor(factor) {
		return routeerr.Newf(routeerr.InvalidInput, "router.ApplyCongestionUpdate", "factor %v must be finite and strictly positive", factor)
	}
	return r.tree.RangeMultiply(l, rr, factor)
}

// EdgeCount returns the number of edges backing this Router's congestion
// tree, for collaborators that need to report or bound-check against it.
func (r *Router) EdgeCount() int {
	return r.tree.Size()
}

// NodeCount returns the number of nodes in this Router's graph.
func (r *Router) NodeCount() int {
	return r.graph.NodeCount()
}
