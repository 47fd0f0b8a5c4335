// Package graph holds the immutable, load-time-only adjacency structure the
// routing core searches over: a dense node-id space and a dense, insertion-ordered
// edge-id space that the congestion tree indexes into.
package graph

import (
	"github.com/georoute/georoute/internal/routeerr"
)

// NodeID is a dense node identifier in [0, N).
type NodeID uint32

// EdgeID is a dense, insertion-ordered edge identifier in [0, E). Edge ids are
// never renumbered or reused once assigned: they are the bridge between the
// Graph and the congestion tree's segment positions.
type EdgeID uint32

// Edge is an outgoing edge record: destination node, static base travel time,
// and the edge's dense id.
type Edge struct {
	To             NodeID
	BaseTravelTime float32
	ID             EdgeID
}

// Graph is a directed, weighted graph with one contiguous adjacency slice per
// node. It is built once at load time via AddEdge and never mutated again:
// only the congestion factors layered on top of it change at runtime.
type Graph struct {
	adjacency [][]Edge
	edgeCount EdgeID
}

// New allocates a Graph with nodeCount nodes and no edges.
func New(nodeCount int) *Graph {
	return &Graph{adjacency: make([][]Edge, nodeCount)}
}

// AddEdge appends an edge record to from's adjacency list, assigning it the
// next dense edge id. Load-time only; not safe to call once a Router is
// serving queries over this Graph.
func (g *Graph) AddEdge(from, to NodeID, baseTravelTime float32) error {
	n := NodeID(len(g.adjacency))
	if from >= n || to >= n {
		return routeerr.Newf(routeerr.OutOfRange, "graph.AddEdge", "node id out of range: from=%d to=%d node_count=%d", from, to, n)
	}

	g.adjacency[from] = append(g.adjacency[from], Edge{To: to, BaseTravelTime: baseTravelTime, ID: g.edgeCount})
	g.edgeCount++
	return nil
}

// Neighbors returns u's outgoing edges in insertion order. If u is out of
// range it returns an empty slice rather than an error: this is the Dijkstra
// hot loop and must never fail.
func (g *Graph) Neighbors(u NodeID) []Edge {
	if int(u) >= len(g.adjacency) {
		return nil
	}
	return g.adjacency[u]
}

// NodeCount returns N.
func (g *Graph) NodeCount() int {
	return len(g.adjacency)
}

// EdgeCount returns E.
func (g *Graph) EdgeCount() int {
	return int(g.edgeCount)
}
