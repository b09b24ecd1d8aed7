package engine

import (
	"math"

	"github.com/tms-sim/citytraffic/internal/graph"
	"github.com/tms-sim/citytraffic/internal/vehicle"
)

// runRerouteDecisions evaluates every active vehicle against
// reroute triggers and attempts a reroute for those that are eligible,
// honoring the per-vehicle cooldown. It returns the ids of vehicles that
// were actually rerouted this tick.
func (e *Engine) runRerouteDecisions() []string {
	var rerouted []string
	for _, v := range e.Vehicles.Active() {
		if v.Status != vehicle.StatusMoving && v.Status != vehicle.StatusStuck && v.Status != vehicle.StatusRerouting {
			continue
		}
		if !e.shouldReroute(v) {
			continue
		}
		if e.tickCount < v.RerouteEligibleAt {
			continue // rate limited; keep existing plan
		}
		if e.tryReroute(v) {
			rerouted = append(rerouted, v.ID)
		}
	}
	return rerouted
}

// shouldReroute reports whether v's remaining path, as of the current
// analyzer snapshot, warrants a reroute attempt: a blocked or congested
// edge within the lookahead window, a major-or-worse accident ahead, or
// the live remaining cost drifting past RerouteThreshold above the cost
// recorded when the path was last set.
func (e *Engine) shouldReroute(v *vehicle.Vehicle) bool {
	remaining := v.RemainingPath()
	if len(remaining) < 2 {
		return false
	}

	lookahead := e.cfg.RerouteLookaheadEdges
	if lookahead > len(remaining)-1 {
		lookahead = len(remaining) - 1
	}
	for i := 0; i < lookahead; i++ {
		key := graph.EdgeKey(remaining[i], remaining[i+1])
		if e.Incidents.IsBlocked(key) {
			return true
		}
		if e.Incidents.HasMajorAccident(key) {
			return true
		}
		if st, ok := e.Analyzer.State(remaining[i], remaining[i+1]); ok {
			if st.Probability >= e.cfg.RerouteProbabilityThreshold {
				return true
			}
		}
	}

	if v.PathCost > 0 {
		live := e.remainingCost(remaining)
		if live > v.PathCost*(1+e.cfg.RerouteThreshold) {
			return true
		}
	}
	return false
}

// remainingCost sums the analyzer's current per-edge cost over a path,
// returning +Inf if any edge in it no longer exists in the graph.
func (e *Engine) remainingCost(path []graph.NodeID) float64 {
	costFn := e.Analyzer.CostFunc()
	total := 0.0
	for i := 0; i < len(path)-1; i++ {
		edge, ok := e.graph.Edge(path[i], path[i+1])
		if !ok {
			return math.Inf(1)
		}
		total += costFn(edge)
	}
	return total
}

// tryReroute invokes the router against current live costs and, if a
// strictly cheaper route exists, replaces the vehicle's remaining path
// with it. Returns true if the vehicle's plan changed.
func (e *Engine) tryReroute(v *vehicle.Vehicle) bool {
	current := e.remainingCost(v.RemainingPath())

	path, err := e.router.ShortestPath(v.CurrentNode(), v.Goal, v.Type.Mode(), e.blocked, e.Analyzer.CostFunc())
	v.RerouteEligibleAt = e.tickCount + e.cfg.RerouteCooldownTicks
	if err != nil {
		return false
	}
	if !(path.Cost < current) {
		return false // no improvement: keep existing plan
	}

	v.SetPath(path.Route, path.Cost)
	v.RerouteCount++
	v.Status = vehicle.StatusRerouting
	return true
}

// forceReroute attempts an immediate reroute ignoring the cooldown, for
// use when a newly created blockage cuts across a vehicle's path.
// If no alternative route exists the vehicle is marked stuck but kept.
func (e *Engine) forceReroute(v *vehicle.Vehicle) {
	if e.tryReroute(v) {
		return
	}
	v.Status = vehicle.StatusStuck
	v.TargetSpeed = 0
}

// OnBlockage force-reroutes every active vehicle whose path crosses
// edgeKey downstream of its current position. The edge the vehicle is
// already traversing is left alone; it has already committed to it.
// Callers invoke this immediately after registering the blockage with
// the incident manager.
func (e *Engine) OnBlockage(edgeKey string) {
	for _, v := range e.Vehicles.Active() {
		if v.Status == vehicle.StatusArrived {
			continue
		}
		remaining := v.RemainingPath()
		crosses := false
		for i := 1; i < len(remaining)-1; i++ {
			if graph.EdgeKey(remaining[i], remaining[i+1]) == edgeKey {
				crosses = true
				break
			}
		}
		if crosses {
			e.forceReroute(v)
		}
	}
}
