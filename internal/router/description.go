package router

import (
	"encoding/json"
	"io"

	"github.com/georoute/georoute/internal/congestion"
	"github.com/georoute/georoute/internal/graph"
	"github.com/georoute/georoute/internal/routeerr"
)

// EdgeDescription is one element of a GraphDescription's edge sequence. Its
// 0-based position in that sequence is the edge id the loader assigns it.
type EdgeDescription struct {
	From           graph.NodeID `json:"from"`
	To             graph.NodeID `json:"to"`
	BaseTravelTime float32      `json:"base_travel_time"`
}

// GraphDescription is the graph-input wire format: a node count and an
// ordered sequence of edges.
type GraphDescription struct {
	Nodes int               `json:"nodes"`
	Edges []EdgeDescription `json:"edges"`
}

// DecodeGraphDescription decodes r as a GraphDescription, rejecting a
// missing 'nodes' key, a missing or non-array 'edges' key, an edge missing a
// required key, or any field whose type doesn't cast cleanly. It does not
// validate node/edge bounds: that is FromDescription's job, via Graph.AddEdge.
func DecodeGraphDescription(r io.Reader) (GraphDescription, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return GraphDescription{}, routeerr.New(routeerr.InvalidInput, "router.DecodeGraphDescription", err)
	}

	nodesRaw, ok := raw["nodes"]
	if !ok {
		return GraphDescription{}, routeerr.Newf(routeerr.InvalidInput, "router.DecodeGraphDescription", "missing 'nodes' field")
	}
	var nodes int
	if err := json.Unmarshal(nodesRaw, &nodes); err != nil {
		return GraphDescription{}, routeerr.New(routeerr.InvalidInput, "router.DecodeGraphDescription", err)
	}

	edgesRaw, ok := raw["edges"]
	if !ok {
		return GraphDescription{}, routeerr.Newf(routeerr.InvalidInput, "router.DecodeGraphDescription", "missing 'edges' field")
	}
	var rawEdges []map[string]json.RawMessage
	if err := json.Unmarshal(edgesRaw, &rawEdges); err != nil {
		return GraphDescription{}, routeerr.New(routeerr.InvalidInput, "router.DecodeGraphDescription", err)
	}

	edges := make([]EdgeDescription, 0, len(rawEdges))
	for i, re := range rawEdges {
		edge, err := decodeEdgeDescription(re)
		if err != nil {
			return GraphDescription{}, routeerr.Newf(routeerr.InvalidInput, "router.DecodeGraphDescription", "edge %d: %v", i, err)
		}
		edges = append(edges, edge)
	}

	return GraphDescription{Nodes: nodes, Edges: edges}, nil
}

func decodeEdgeDescription(raw map[string]json.RawMessage) (EdgeDescription, error) {
	for _, key := range []string{"from", "to", "base_travel_time"} {
		if _, ok := raw[key]; !ok {
			return EdgeDescription{}, routeerr.Newf(routeerr.InvalidInput, "router.decodeEdgeDescription", "missing '%s' field", key)
		}
	}

	var edge EdgeDescription
	if err := json.Unmarshal(raw["from"], &edge.From); err != nil {
		return EdgeDescription{}, err
	}
	if err := json.Unmarshal(raw["to"], &edge.To); err != nil {
		return EdgeDescription{}, err
	}
	if err := json.Unmarshal(raw["base_travel_time"], &edge.BaseTravelTime); err != nil {
		return EdgeDescription{}, err
	}
	return edge, nil
}

// FromDescription constructs a Router from a structured graph-input
// description: it builds the Graph (assigning edge ids by position in
// desc.Edges) and a congestion Tree sized to the resulting edge count, with
// every factor starting at 1.0.
func FromDescription(desc GraphDescription) (*Router, error) {
	if desc.Nodes < 0 {
		return nil, routeerr.Newf(routeerr.InvalidInput, "router.FromDescription", "negative node count %d", desc.Nodes)
	}

	g := graph.New(desc.Nodes)
	for i, e := range desc.Edges {
		if err := g.AddEdge(e.From, e.To, e.BaseTravelTime); err != nil {
			return nil, routeerr.Newf(routeerr.InvalidInput, "router.FromDescription", "edge %d: %v", i, err)
		}
	}

	tree := congestion.New(g.EdgeCount())
	return New(g, tree), nil
}
