package vehicle

import (
	"github.com/tms-sim/citytraffic/internal/graph"
	"github.com/tms-sim/citytraffic/internal/kinematics"
)

// Vehicle is a single autonomous agent traversing the road graph. Fields are
// mutated only by the engine and the kinematics step.
type Vehicle struct {
	ID   string
	Type Type

	Start graph.NodeID
	Goal  graph.NodeID

	Path       []graph.NodeID
	PathIndex  int
	PositionOnEdge float64 // [0, 1] fractional progress along the current edge's curve

	CurrentSpeed float64
	TargetSpeed  float64
	Kinem        kinematics.MotionModel

	Status Status

	RerouteCount      int
	RerouteEligibleAt int64 // next tick this vehicle may reroute; 0 = eligible immediately
	SpawnTick         int64
	ArrivalTick       *int64

	// WaitTicks counts every tick this vehicle has spent stuck behind a
	// blockage or a slower vehicle ahead of it.
	WaitTicks int64

	// PathCost is the total cost of Path as computed at the time it was last
	// set, used to detect when live costs have drifted past the reroute
	// threshold.
	PathCost float64
}

// New constructs a Vehicle at the start of path with zero speed.
func New(id string, t Type, path []graph.NodeID, pathCost float64, spawnTick int64) *Vehicle {
	return &Vehicle{
		ID:           id,
		Type:         t,
		Start:        path[0],
		Goal:         path[len(path)-1],
		Path:         path,
		PathIndex:    0,
		CurrentSpeed: 0,
		TargetSpeed:  0,
		Kinem:        defaultKinematics(t),
		Status:       StatusWaiting,
		SpawnTick:    spawnTick,
		PathCost:     pathCost,
	}
}

// CurrentNode returns the node the vehicle is currently departing from.
func (v *Vehicle) CurrentNode() graph.NodeID { return v.Path[v.PathIndex] }

// NextNode returns the node the vehicle is heading toward, and whether one
// exists (false once the vehicle has reached the last path index).
func (v *Vehicle) NextNode() (graph.NodeID, bool) {
	if v.PathIndex+1 >= len(v.Path) {
		return "", false
	}
	return v.Path[v.PathIndex+1], true
}

// EdgeKey returns the directed-edge key the vehicle currently occupies, or
// false if the vehicle is at its goal.
func (v *Vehicle) EdgeKey() (string, bool) {
	next, ok := v.NextNode()
	if !ok {
		return "", false
	}
	return graph.EdgeKey(v.CurrentNode(), next), true
}

// IsArrived reports whether the vehicle has reached its goal.
func (v *Vehicle) IsArrived() bool { return v.Status == StatusArrived }

// IsOnEdge reports whether the vehicle currently holds an occupancy entry:
// true once admitVehicle has moved it onto its first edge, false while it
// is still StatusWaiting (pre-admission) or once it has StatusArrived
// (already released). EdgeKey alone can't distinguish "waiting to be
// admitted" from "mid-traversal" since both have a next node in Path.
func (v *Vehicle) IsOnEdge() bool {
	return v.Status != StatusWaiting && v.Status != StatusArrived
}

// IsActive reports whether the vehicle still participates in the tick loop.
func (v *Vehicle) IsActive() bool {
	switch v.Status {
	case StatusMoving, StatusStuck, StatusRerouting, StatusWaiting:
		return true
	default:
		return false
	}
}

// Weight returns this vehicle's contribution to an edge's weighted load,
// looked up in CapacityWeight.
func (v *Vehicle) Weight() float64 { return CapacityWeight[v.Type] }

// RemainingPath returns the tail of Path starting at PathIndex, i.e. the
// nodes not yet visited including the current one.
func (v *Vehicle) RemainingPath() []graph.NodeID { return v.Path[v.PathIndex:] }

// SetPath replaces the vehicle's whole route with a freshly computed one
// that starts at its current node, dropping the already-traversed prefix
// and resetting PathIndex to 0 relative to the new slice.
func (v *Vehicle) SetPath(path []graph.NodeID, cost float64) {
	v.Path = path
	v.PathIndex = 0
	v.PathCost = cost
}
