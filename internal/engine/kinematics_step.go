package engine

import (
	"fmt"

	"github.com/tms-sim/citytraffic/internal/graph"
	"github.com/tms-sim/citytraffic/internal/kinematics"
	"github.com/tms-sim/citytraffic/internal/vehicle"
)

// minPositionDelta is the smallest position_on_edge increment that is
// applied; smaller increments are dropped to avoid floating-point drift
// when current_speed is near zero.
const minPositionDelta = 1e-4

// runKinematics advances every active vehicle's position by dt seconds,
// in two passes over the id-sorted active set: first, any waiting vehicle
// is admitted onto its first edge; second, every moving/stuck/rerouting
// vehicle follows the car-following rule, updates speed, and advances
// position, crossing edge boundaries as needed.
func (e *Engine) runKinematics(dt float64) ([]string, error) {
	active := e.Vehicles.Active()

	for _, v := range active {
		if v.Status == vehicle.StatusWaiting {
			if err := e.admitVehicle(v); err != nil {
				return nil, err
			}
		}
	}

	var arrived []string
	for _, v := range active {
		if v.Status != vehicle.StatusMoving && v.Status != vehicle.StatusStuck && v.Status != vehicle.StatusRerouting {
			continue
		}
		didArrive, err := e.stepVehicle(v, dt)
		if err != nil {
			return nil, err
		}
		if v.Status == vehicle.StatusStuck {
			v.WaitTicks++
		}
		if didArrive {
			arrived = append(arrived, v.ID)
		}
	}
	return arrived, nil
}

// admitVehicle moves a freshly spawned vehicle onto the first edge of its
// path and registers it with the occupancy index.
func (e *Engine) admitVehicle(v *vehicle.Vehicle) error {
	key, ok := v.EdgeKey()
	if !ok {
		return fmt.Errorf("vehicle %s: spawned with no edge to enter", v.ID)
	}
	e.Occupancy.Enter(key, v.ID, v.Weight())
	v.Status = vehicle.StatusMoving
	v.PositionOnEdge = 0
	return nil
}

// stepVehicle applies one dt-second physics update to v, including any
// edge-boundary crossings its displacement causes, and reports whether it
// reached its goal this step.
func (e *Engine) stepVehicle(v *vehicle.Vehicle, dt float64) (bool, error) {
	key, ok := v.EdgeKey()
	if !ok {
		return true, nil // already at its last node; nothing left to do
	}
	edge, ok := e.graph.Edge(v.CurrentNode(), v.Path[v.PathIndex+1])
	if !ok {
		return false, fmt.Errorf("vehicle %s: current edge %s no longer exists", v.ID, key)
	}

	gapStop, gapSlow := v.Kinem.FollowGapStop(), v.Kinem.FollowGapSlow()
	target := e.freeFlowSpeed(v, edge)
	if gap, found := e.gapAhead(v, key, edge); found {
		switch {
		case gap < gapStop:
			target = 0
			v.Status = vehicle.StatusStuck
		case gap < gapSlow:
			target *= (gap - gapStop) / (gapSlow - gapStop)
		}
	}
	if target > 0 {
		v.Status = vehicle.StatusMoving
	}

	v.TargetSpeed = kinematics.EMA(v.TargetSpeed, target, e.cfg.TargetSpeedSmoothingAlpha)
	rate := v.Kinem.Accel()
	if v.TargetSpeed < v.CurrentSpeed {
		rate = v.Kinem.Decel()
	}
	v.CurrentSpeed = kinematics.Step(v.CurrentSpeed, v.TargetSpeed, rate, dt)

	distance := v.CurrentSpeed * dt
	return e.advancePosition(v, edge, distance)
}

// freeFlowSpeed returns the vehicle's speed in the absence of a lead
// vehicle: its type's maximum speed, reduced by the edge's live
// congestion multiplier.
func (e *Engine) freeFlowSpeed(v *vehicle.Vehicle, edge graph.Edge) float64 {
	vmax := v.Kinem.VMax()
	st, ok := e.Analyzer.State(edge.From, edge.To)
	if !ok || st.MultiplierEffective <= 0 {
		return vmax
	}
	speed := vmax / st.MultiplierEffective
	if speed > vmax {
		speed = vmax
	}
	return speed
}

// gapAhead returns the distance (graph units) to the nearest vehicle
// strictly ahead of v on the same directed edge, and whether one exists.
func (e *Engine) gapAhead(v *vehicle.Vehicle, edgeKey string, edge graph.Edge) (float64, bool) {
	best := 0.0
	found := false
	for _, id := range e.Occupancy.On(edgeKey) {
		if id == v.ID {
			continue
		}
		other, ok := e.Vehicles.Get(id)
		if !ok || other.PositionOnEdge <= v.PositionOnEdge {
			continue
		}
		gap := (other.PositionOnEdge - v.PositionOnEdge) * edge.CurveLength
		if !found || gap < best {
			best = gap
			found = true
		}
	}
	return best, found
}

// advancePosition moves v forward by distance graph-units along its
// current edge, crossing into subsequent edges as needed (a single tick
// at a coarse dt can legitimately cross more than one short edge).
// Crossing into a blocked edge is refused outright: the vehicle holds at
// the boundary and becomes stuck, which is the hard backstop for the
// "no vehicle enters a blocked edge" invariant.
func (e *Engine) advancePosition(v *vehicle.Vehicle, edge graph.Edge, distance float64) (bool, error) {
	curveLen := edge.CurveLength
	if curveLen <= 0 {
		curveLen = edge.Length
	}
	if curveLen <= 0 {
		return false, fmt.Errorf("vehicle %s: degenerate edge %s", v.ID, edge.Key())
	}

	inc := distance / curveLen
	if inc < minPositionDelta {
		return false, nil
	}
	v.PositionOnEdge += inc

	for v.PositionOnEdge >= 1.0 {
		overshoot := (v.PositionOnEdge - 1.0) * curveLen

		nextID, hasNext := v.NextNode()
		if !hasNext {
			v.PositionOnEdge = 1.0
			break
		}
		currentEdgeKey := graph.EdgeKey(v.CurrentNode(), nextID)

		if v.PathIndex+1 >= len(v.Path)-1 {
			// nextID is the goal itself: crossing this edge completes the trip.
			if err := e.Occupancy.Leave(currentEdgeKey, v.ID, v.Weight()); err != nil {
				return false, err
			}
			v.PathIndex++
			v.PositionOnEdge = 1.0
			v.Status = vehicle.StatusArrived
			tick := e.tickCount
			v.ArrivalTick = &tick
			v.CurrentSpeed = 0
			v.TargetSpeed = 0
			return true, nil
		}

		followingID := v.Path[v.PathIndex+2]
		followingKey := graph.EdgeKey(nextID, followingID)
		if e.Incidents.IsBlocked(followingKey) {
			v.PositionOnEdge = 1.0
			v.CurrentSpeed = 0
			v.TargetSpeed = 0
			v.Status = vehicle.StatusStuck
			break
		}

		followingEdge, ok := e.graph.Edge(nextID, followingID)
		if !ok {
			return false, fmt.Errorf("vehicle %s: route edge %s missing from graph", v.ID, followingKey)
		}
		if err := e.Occupancy.Leave(currentEdgeKey, v.ID, v.Weight()); err != nil {
			return false, err
		}
		v.PathIndex++
		e.Occupancy.Enter(followingKey, v.ID, v.Weight())

		followingLen := followingEdge.CurveLength
		if followingLen <= 0 {
			followingLen = followingEdge.Length
		}
		if followingLen <= 0 {
			v.PositionOnEdge = 0
			break
		}
		v.PositionOnEdge = overshoot / followingLen
		curveLen = followingLen
	}
	return false, nil
}
