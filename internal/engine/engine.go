// Package engine wraps a Router with per-call timing and aggregate counters,
// the way pkg/engine wraps a CRP routing engine for its callers. It never
// touches the Router's own lock directly; everything here is orthogonal
// bookkeeping kept behind its own mutex so stats never block routing.
package engine

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/georoute/georoute/internal/graph"
	"github.com/georoute/georoute/internal/router"
	"github.com/georoute/georoute/internal/routing"
)

// Stats accumulates counters across every Route and ApplyCongestionUpdate
// call an Engine has served since construction or the last ResetStats.
type Stats struct {
	TotalQueries       uint64
	TotalUpdates       uint64
	TotalComputeTimeUs float64
	MaxComputeTimeUs   float64
}

// Engine composes a Router with Stats bookkeeping, guarded by its own mutex
// distinct from the Router's RWMutex so a burst of stats reads or writes
// never delays a route computation in flight.
type Engine struct {
	router *router.Router
	mu     sync.Mutex
	stats  Stats
	log    *zap.Logger
}

// New wraps r, logging at zap.DebugLevel through log on every call.
func New(r *router.Router, log *zap.Logger) *Engine {
	return &Engine{router: r, log: log}
}

// Route computes the shortest path from source to target, measuring
// wall-clock compute time and folding it into Stats. It returns the
// computation, the compute time in microseconds, the avg compute time
// in microseconds observed so far, the full Stats snapshot after this
// call, and any error the Router returned.
func (e *Engine) Route(source, target graph.NodeID) (routing.RouteComputation, uint32, float64, Stats, error) {
	start := time.Now()
	comp, err := e.router.ComputeRoute(source, target)
	elapsedUs := float64(time.Since(start).Microseconds())

	if err != nil {
		e.log.Debug("route query failed",
			zap.Uint32("source", uint32(source)),
			zap.Uint32("target", uint32(target)),
			zap.Error(err),
		)
		return routing.RouteComputation{}, 0, 0, e.Stats(), err
	}

	e.mu.Lock()
	e.stats.TotalQueries++
	e.stats.TotalComputeTimeUs += elapsedUs
	if elapsedUs > e.stats.MaxComputeTimeUs {
		e.stats.MaxComputeTimeUs = elapsedUs
	}
	e.mu.Unlock()

	snapshot := e.Stats()

	e.log.Debug("route query served",
		zap.Uint32("source", uint32(source)),
		zap.Uint32("target", uint32(target)),
		zap.Bool("reachable", comp.Result.Reachable),
		zap.Float64("compute_us", elapsedUs),
	)

	return comp, comp.Stats.ExpandedNodes, elapsedUs, snapshot, nil
}

// ApplyCongestionUpdate delegates to the Router then, on success, records the
// update in Stats.
func (e *Engine) ApplyCongestionUpdate(l, r int, factor float32) error {
	if err := e.router.ApplyCongestionUpdate(l, r, factor); err != nil {
		e.log.Debug("congestion update rejected",
			zap.Int("edge_start", l),
			zap.Int("edge_end", r),
			zap.Float32("factor", factor),
			zap.Error(err),
		)
		return err
	}

	e.mu.Lock()
	e.stats.TotalUpdates++
	e.mu.Unlock()

	e.log.Debug("congestion update applied",
		zap.Int("edge_start", l),
		zap.Int("edge_end", r),
		zap.Float32("factor", factor),
	)
	return nil
}

// Stats returns a snapshot of the current counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// ResetStats zeroes every counter.
func (e *Engine) ResetStats() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats = Stats{}
}
