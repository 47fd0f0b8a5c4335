// Package routing implements the single-source-to-single-target Dijkstra
// procedure that the Router runs under a shared lock. It consults the
// congestion tree once per edge relaxation to get that edge's current
// effective weight.
package routing

import (
	"container/heap"
	"math"

	"github.com/georoute/georoute/internal/congestion"
	"github.com/georoute/georoute/internal/graph"
	"github.com/georoute/georoute/internal/routeerr"
)

// RouteResult is the outcome of a single route query.
type RouteResult struct {
	Nodes           []graph.NodeID
	TotalTravelTime float32
	Reachable       bool
}

// RouteStats counts the work Dijkstra did while computing a RouteResult.
type RouteStats struct {
	ExpandedNodes uint32
	RelaxedEdges  uint32
	VisitedNodes  uint32
}

// RouteComputation bundles a RouteResult with the stats of the search that
// produced it.
type RouteComputation struct {
	Result RouteResult
	Stats  RouteStats
}

// entry is one item on the Dijkstra priority queue: a node and the tentative
// distance at which it was pushed. Stale entries (pushed at a distance that
// has since been improved) are discarded when popped rather than removed in
// place: the procedure never decreases a key in the heap, it only pushes a
// fresh entry at the better distance.
type entry struct {
	node graph.NodeID
	cost float64
}

type entryHeap []entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(entry)) }
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ShortestPath runs Dijkstra from source to target over g, resolving each
// edge's effective weight as base_travel_time * congestion.PointQuery(edge id).
func ShortestPath(g *graph.Graph, tree *congestion.Tree, source, target graph.NodeID) (RouteComputation, error) {
	n := g.NodeCount()
	if int(source) >= n || int(target) >= n {
		return RouteComputation{}, routeerr.Newf(routeerr.OutOfRange, "routing.ShortestPath",
			"node id out of range: source=%d target=%d node_count=%d", source, target, n)
	}

	if source == target {
		return RouteComputation{
			Result: RouteResult{Nodes: []graph.NodeID{source}, TotalTravelTime: 0, Reachable: true},
			Stats:  RouteStats{ExpandedNodes: 1, VisitedNodes: 1},
		}, nil
	}

	dist := make([]float64, n)
	pred := make([]graph.NodeID, n)
	hasPred := make([]bool, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[source] = 0

	var stats RouteStats

	pq := &entryHeap{{node: source, cost: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(entry)

		if cur.cost > dist[cur.node] {
			// Stale heap entry: a better distance was already found. Discard
			// without counting it as an expansion.
			continue
		}

		stats.ExpandedNodes++
		if !visited[cur.node] {
			visited[cur.node] = true
			stats.VisitedNodes++
		}

		if cur.node == target {
			break
		}

		for _, edge := range g.Neighbors(cur.node) {
			factor, err := tree.PointQuery(int(edge.ID))
			if err != nil {
				return RouteComputation{}, routeerr.New(routeerr.Internal, "routing.ShortestPath", err)
			}

			weight := float64(edge.BaseTravelTime) * float64(factor)
			next := cur.cost + weight

			if next < dist[edge.To] {
				dist[edge.To] = next
				pred[edge.To] = cur.node
				hasPred[edge.To] = true
				stats.RelaxedEdges++
				heap.Push(pq, entry{node: edge.To, cost: next})
			}
		}
	}

	if math.IsInf(dist[target], 1) {
		return RouteComputation{Result: RouteResult{}, Stats: stats}, nil
	}

	path := []graph.NodeID{target}
	cur := target
	for cur != source {
		if !hasPred[cur] {
			// Unreachable despite a finite distance should never happen; treat
			// defensively as unreachable rather than returning a broken path.
			return RouteComputation{Result: RouteResult{}, Stats: stats}, nil
		}
		cur = pred[cur]
		path = append(path, cur)
	}
	reverse(path)

	return RouteComputation{
		Result: RouteResult{
			Nodes:           path,
			TotalTravelTime: float32(dist[target]),
			Reachable:       true,
		},
		Stats: stats,
	}, nil
}

func reverse(nodes []graph.NodeID) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}
