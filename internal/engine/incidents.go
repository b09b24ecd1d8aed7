package engine

import (
	"fmt"

	"github.com/tms-sim/citytraffic/internal/incident"
)

// CreateAccident registers a new accident of the given severity on
// edgeKey, or on a uniformly random currently-occupied edge if edgeKey is
// empty. The clearance tick is derived from cfg.AccidentDefaultDuration;
// a zero duration makes the accident persistent until resolved.
func (e *Engine) CreateAccident(id, edgeKey string, severity incident.Severity) (incident.Accident, error) {
	if edgeKey == "" {
		occupied := e.Occupancy.OccupiedEdges()
		if len(occupied) == 0 {
			return incident.Accident{}, fmt.Errorf("infeasible: no occupied edge to place an accident on")
		}
		edgeKey = occupied[e.rng.Intn(len(occupied))]
	}

	var clearance *int64
	if e.cfg.AccidentDefaultDuration > 0 && e.cfg.TickInterval > 0 {
		ticks := int64(e.cfg.AccidentDefaultDuration / e.cfg.TickInterval)
		if ticks < 1 {
			ticks = 1
		}
		tick := e.tickCount + ticks
		clearance = &tick
	}
	return e.Incidents.CreateAccident(id, edgeKey, severity, e.tickCount, clearance), nil
}

// BlockRoad marks edgeKey impassable and immediately force-reroutes every
// active vehicle whose path crosses it downstream of its current position.
func (e *Engine) BlockRoad(id, edgeKey, reason string) (incident.Blockage, error) {
	b, err := e.Incidents.BlockRoad(id, edgeKey, reason, e.tickCount)
	if err != nil {
		return incident.Blockage{}, err
	}
	e.OnBlockage(edgeKey)
	return b, nil
}

// RemoveVehicle deletes a vehicle from the arena, releasing its occupancy
// entry if it was mid-traversal.
func (e *Engine) RemoveVehicle(id string) error {
	v, ok := e.Vehicles.Get(id)
	if !ok {
		return fmt.Errorf("not_found: vehicle %q", id)
	}
	if v.IsOnEdge() {
		if key, ok := v.EdgeKey(); ok {
			if err := e.Occupancy.Leave(key, id, v.Weight()); err != nil {
				return err
			}
		}
	}
	e.Vehicles.Remove(id)
	return nil
}
