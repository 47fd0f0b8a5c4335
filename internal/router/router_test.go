package router_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/georoute/georoute/internal/graph"
	"github.com/georoute/georoute/internal/routeerr"
	"github.com/georoute/georoute/internal/router"
)

func TestRouter_ComputesRoutesWithCongestionApplied(t *testing.T) {
	desc := router.GraphDescription{
		Nodes: 4,
		Edges: []router.EdgeDescription{
			{From: 0, To: 1, BaseTravelTime: 1.0},
			{From: 1, To: 3, BaseTravelTime: 1.0},
			{From: 0, To: 2, BaseTravelTime: 3.0},
			{From: 2, To: 3, BaseTravelTime: 1.0},
		},
	}

	r, err := router.FromDescription(desc)
	require.NoError(t, err)

	baseline, err := r.ComputeRoute(0, 3)
	require.NoError(t, err)
	require.True(t, baseline.Result.Reachable)
	require.InDelta(t, float32(2.0), baseline.Result.TotalTravelTime, 1e-5)
	require.Equal(t, []graph.NodeID{0, 1, 3}, baseline.Result.Nodes)

	require.NoError(t, r.ApplyCongestionUpdate(0, 1, 2.5))

	congested, err := r.ComputeRoute(0, 3)
	require.NoError(t, err)
	require.True(t, congested.Result.Reachable)
	require.InDelta(t, float32(4.0), congested.Result.TotalTravelTime, 1e-5)
	require.Equal(t, []graph.NodeID{0, 2, 3}, congested.Result.Nodes)
}

func TestFromDescription_LoadsFromWireFormat(t *testing.T) {
	body := strings.NewReader(`{
		"nodes": 4,
		"edges": [
			{ "from": 0, "to": 1, "base_travel_time": 1.0 },
			{ "from": 1, "to": 3, "base_travel_time": 1.0 },
			{ "from": 0, "to": 2, "base_travel_time": 3.0 },
			{ "from": 2, "to": 3, "base_travel_time": 1.0 }
		]
	}`)

	desc, err := router.DecodeGraphDescription(body)
	require.NoError(t, err)

	r, err := router.FromDescription(desc)
	require.NoError(t, err)

	route, err := r.ComputeRoute(0, 3)
	require.NoError(t, err)
	require.True(t, route.Result.Reachable)
	require.InDelta(t, float32(2.0), route.Result.TotalTravelTime, 1e-5)
	require.Equal(t, []graph.NodeID{0, 1, 3}, route.Result.Nodes)
}

func TestDecodeGraphDescription_MissingNodes(t *testing.T) {
	body := strings.NewReader(`{"edges": []}`)
	_, err := router.DecodeGraphDescription(body)
	require.Error(t, err)
	require.True(t, routeerr.Is(err, routeerr.InvalidInput))
}

func TestDecodeGraphDescription_MissingEdges(t *testing.T) {
	body := strings.NewReader(`{"nodes": 3}`)
	_, err := router.DecodeGraphDescription(body)
	require.Error(t, err)
	require.True(t, routeerr.Is(err, routeerr.InvalidInput))
}

func TestDecodeGraphDescription_EdgesNotArray(t *testing.T) {
	body := strings.NewReader(`{"nodes": 3, "edges": "nope"}`)
	_, err := router.DecodeGraphDescription(body)
	require.Error(t, err)
	require.True(t, routeerr.Is(err, routeerr.InvalidInput))
}

func TestDecodeGraphDescription_EdgeMissingKey(t *testing.T) {
	body := strings.NewReader(`{"nodes": 2, "edges": [{"from": 0, "to": 1}]}`)
	_, err := router.DecodeGraphDescription(body)
	require.Error(t, err)
	require.True(t, routeerr.Is(err, routeerr.InvalidInput))
}

func TestFromDescription_EndpointOutOfRange(t *testing.T) {
	desc := router.GraphDescription{
		Nodes: 2,
		Edges: []router.EdgeDescription{{From: 0, To: 5, BaseTravelTime: 1.0}},
	}
	_, err := router.FromDescription(desc)
	require.Error(t, err)
	require.True(t, routeerr.Is(err, routeerr.InvalidInput))
}

func TestApplyCongestionUpdate_InvalidRange(t *testing.T) {
	desc := router.GraphDescription{
		Nodes: 2,
		Edges: []router.EdgeDescription{{From: 0, To: 1, BaseTravelTime: 1.0}},
	}
	r, err := router.FromDescription(desc)
	require.NoError(t, err)

	err = r.ApplyCongestionUpdate(1, 0, 2.0)
	require.Error(t, err)
	require.True(t, routeerr.Is(err, routeerr.InvalidRange))
}

func TestApplyCongestionUpdate_OutOfRange(t *testing.T) {
	desc := router.GraphDescription{
		Nodes: 2,
		Edges: []router.EdgeDescription{{From: 0, To: 1, BaseTravelTime: 1.0}},
	}
	r, err := router.FromDescription(desc)
	require.NoError(t, err)

	err = r.ApplyCongestionUpdate(0, 5, 2.0)
	require.Error(t, err)
	require.True(t, routeerr.Is(err, routeerr.OutOfRange))
}

func TestApplyCongestionUpdate_RejectsNonPositiveFactor(t *testing.T) {
	desc := router.GraphDescription{
		Nodes: 2,
		Edges: []router.EdgeDescription{{From: 0, To: 1, BaseTravelTime: 1.0}},
	}
	r, err := router.FromDescription(desc)
	require.NoError(t, err)

	for _, factor := range []float32{0, -1.0} {
		err := r.ApplyCongestionUpdate(0, 0, factor)
		require.Error(t, err)
		require.True(t, routeerr.Is(err, routeerr.InvalidInput))
	}
}

// Concurrent readers must never observe a partially-applied update.
func TestRouter_ConcurrentReadersDuringUpdate(t *testing.T) {
	desc := router.GraphDescription{
		Nodes: 3,
		Edges: []router.EdgeDescription{
			{From: 0, To: 1, BaseTravelTime: 1.0},
			{From: 1, To: 2, BaseTravelTime: 1.0},
		},
	}
	r, err := router.FromDescription(desc)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = r.ApplyCongestionUpdate(0, 1, 1.01)
		}
	}()

	for i := 0; i < 100; i++ {
		comp, err := r.ComputeRoute(0, 2)
		require.NoError(t, err)
		require.True(t, comp.Result.Reachable)
	}
	<-done
}
