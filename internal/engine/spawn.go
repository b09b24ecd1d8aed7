package engine

import (
	"fmt"

	"github.com/tms-sim/citytraffic/internal/graph"
	"github.com/tms-sim/citytraffic/internal/vehicle"
)

// SpawnVehicle creates one vehicle of the given type. A nil start or goal is
// replaced by a random node (goal is guaranteed distinct from start). The
// initial path is computed with the router against current live costs;
// spawn fails with graph.ErrNoPath if no feasible route exists.
func (e *Engine) SpawnVehicle(vtype vehicle.Type, start, goal *graph.NodeID) (*vehicle.Vehicle, error) {
	nodes := e.graph.Nodes()
	if len(nodes) == 0 {
		return nil, graph.ErrNoPath
	}

	startID := ""
	if start != nil {
		startID = *start
	} else {
		startID = nodes[e.rng.Intn(len(nodes))].ID
	}
	if !e.graph.HasNode(startID) {
		return nil, fmt.Errorf("validation: unknown start node %q", startID)
	}

	goalID := ""
	if goal != nil {
		goalID = *goal
	} else {
		goalID = e.randomOtherNode(startID)
		if goalID == "" {
			return nil, graph.ErrNoPath
		}
	}
	if !e.graph.HasNode(goalID) {
		return nil, fmt.Errorf("validation: unknown goal node %q", goalID)
	}

	path, err := e.router.ShortestPath(startID, goalID, vtype.Mode(), e.blocked, e.Analyzer.CostFunc())
	if err != nil {
		return nil, graph.ErrNoPath
	}
	if len(path.Route) < 2 {
		return nil, graph.ErrNoPath
	}

	e.nextVehicle++
	id := fmt.Sprintf("%s_%d", vtype, e.nextVehicle)
	v := vehicle.New(id, vtype, path.Route, path.Cost, e.tickCount)
	v.Status = vehicle.StatusWaiting
	e.Vehicles.Add(v)
	return v, nil
}

// randomOtherNode returns a uniformly random node id distinct from exclude,
// or "" if the graph has only one node.
func (e *Engine) randomOtherNode(exclude graph.NodeID) graph.NodeID {
	nodes := e.graph.Nodes()
	candidates := make([]graph.NodeID, 0, len(nodes))
	for _, n := range nodes {
		if n.ID != exclude {
			candidates = append(candidates, n.ID)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[e.rng.Intn(len(candidates))]
}

// SpawnMultiple spawns count vehicles with types sampled from distribution
// (proportions keyed by "car"/"bicycle"/"pedestrian"; a nil distribution
// uses the engine's default mix, while a key omitted from a non-nil
// distribution gets zero weight and any probability mass left unassigned
// goes to car). Vehicles that fail to find a path are silently skipped; the
// returned slice holds only the spawned ids, in spawn order.
func (e *Engine) SpawnMultiple(count int, distribution map[string]float64) []string {
	if distribution == nil {
		distribution = e.cfg.AutoSpawnDistribution
	}
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		vtype := e.sampleType(distribution)
		v, err := e.SpawnVehicle(vtype, nil, nil)
		if err != nil {
			continue
		}
		ids = append(ids, v.ID)
	}
	return ids
}

// sampleType draws a vehicle type from a cumulative distribution using the
// engine's seeded RNG, falling back to car if the distribution is empty or
// malformed.
func (e *Engine) sampleType(distribution map[string]float64) vehicle.Type {
	order := []vehicle.Type{vehicle.TypeCar, vehicle.TypeBicycle, vehicle.TypePedestrian}
	r := e.rng.Float64()
	cumulative := 0.0
	for _, t := range order {
		cumulative += distribution[string(t)]
		if r <= cumulative {
			return t
		}
	}
	return vehicle.TypeCar
}

// autoSpawn tops the active vehicle population up toward AutoSpawnTarget,
// spawning at most AutoSpawnBatch vehicles this tick and retrying
// infeasible (start, goal) draws up to AutoSpawnRetries times each before
// giving up for this tick.
func (e *Engine) autoSpawn() []string {
	var spawned []string
	for len(spawned) < e.cfg.AutoSpawnBatch && e.Vehicles.ActiveCount() < e.cfg.AutoSpawnTarget {
		vtype := e.sampleType(e.cfg.AutoSpawnDistribution)
		var v *vehicle.Vehicle
		var err error
		for attempt := 0; attempt < e.cfg.AutoSpawnRetries; attempt++ {
			v, err = e.SpawnVehicle(vtype, nil, nil)
			if err == nil {
				break
			}
		}
		if err != nil {
			break // graph admits no path for this type right now; retry next tick
		}
		spawned = append(spawned, v.ID)
	}
	return spawned
}
