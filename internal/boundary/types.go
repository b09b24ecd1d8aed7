package boundary

import (
	"github.com/tms-sim/citytraffic/internal/analyzer"
	"github.com/tms-sim/citytraffic/internal/graph"
	"github.com/tms-sim/citytraffic/internal/incident"
	"github.com/tms-sim/citytraffic/internal/vehicle"
)

// VehicleRecord is the wire shape of a vehicle,
type VehicleRecord struct {
	ID              string        `json:"id"`
	Type            vehicle.Type  `json:"type"`
	Status          vehicle.Status `json:"status"`
	StartNode       graph.NodeID  `json:"start_node"`
	GoalNode        graph.NodeID  `json:"goal_node"`
	CurrentNode     graph.NodeID  `json:"current_node"`
	NextNode        *graph.NodeID `json:"next_node,omitempty"`
	Path            []graph.NodeID `json:"path"`
	PathIndex       int           `json:"path_index"`
	PositionOnEdge  float64       `json:"position_on_edge"`
	CurrentSpeed    float64       `json:"current_speed"`
	TargetSpeed     float64       `json:"target_speed"`
	SpeedMultiplier float64       `json:"speed_multiplier"`
	RerouteCount    int           `json:"reroute_count"`
	SpawnTick       int64         `json:"spawn_tick"`
	ArrivalTick     *int64        `json:"arrival_tick,omitempty"`
	WaitTicks       int64         `json:"wait_ticks"`
}

// EdgeTrafficRecord is the wire shape of a directed edge's traffic state,
//
type EdgeTrafficRecord struct {
	From                graph.NodeID    `json:"from"`
	To                  graph.NodeID    `json:"to"`
	VehicleCount        int             `json:"vehicle_count"`
	WeightedLoad        float64         `json:"weighted_load"`
	Capacity            float64         `json:"capacity"`
	Density             float64         `json:"density"`
	Level               analyzer.Level  `json:"level"`
	Multiplier          float64         `json:"multiplier"`
	CongestionProbability float64       `json:"congestion_probability"`
}

// AccidentRecord is the wire shape of a live accident.
type AccidentRecord struct {
	ID            string            `json:"id"`
	EdgeKey       string            `json:"edge_key"`
	Severity      incident.Severity `json:"severity"`
	CreatedTick   int64             `json:"created_tick"`
	ClearanceTick *int64            `json:"clearance_tick,omitempty"`
}

// BlockageRecord is the wire shape of a live manual blockage.
type BlockageRecord struct {
	ID          string `json:"id"`
	EdgeKey     string `json:"edge_key"`
	Reason      string `json:"reason"`
	CreatedTick int64  `json:"created_tick"`
}

// CongestionReport is the wire shape of get_congestion_report: the worst
// edges, the worst intersections, and a network-wide summary.
type CongestionReport struct {
	Bottlenecks            []EdgeTrafficRecord       `json:"bottlenecks"`
	CongestedIntersections []analyzer.NodeCongestion `json:"congested_intersections"`
	GlobalStats            analyzer.GlobalStatistics `json:"global_stats"`
}

// StateSnapshot is the full per-tick state returned by get_state.
type StateSnapshot struct {
	Tick         int64                    `json:"tick"`
	Vehicles     []VehicleRecord          `json:"vehicles"`
	EdgeTraffic  []EdgeTrafficRecord      `json:"edge_traffic"`
	VehicleStats vehicle.Statistics       `json:"vehicle_stats"`
	TrafficStats analyzer.GlobalStatistics `json:"traffic_stats"`
}

// ListMapsResponse is the wire shape of list_maps.
type ListMapsResponse struct {
	Maps    []string `json:"maps"`
	Current string   `json:"current"`
}

// SimulationInfo is the wire shape of get_simulation_info.
type SimulationInfo struct {
	MapName      string `json:"map_name"`
	TickCount    int64  `json:"tick_count"`
	VehicleCount int    `json:"vehicle_count"`
	ActiveCount  int    `json:"active_count"`
	Continuous   bool   `json:"continuous"`
}

func vehicleRecord(v *vehicle.Vehicle, a *analyzer.Analyzer) VehicleRecord {
	rec := VehicleRecord{
		ID:             v.ID,
		Type:           v.Type,
		Status:         v.Status,
		StartNode:      v.Start,
		GoalNode:       v.Goal,
		CurrentNode:    v.CurrentNode(),
		Path:           v.Path,
		PathIndex:      v.PathIndex,
		PositionOnEdge: v.PositionOnEdge,
		CurrentSpeed:   v.CurrentSpeed,
		TargetSpeed:    v.TargetSpeed,
		RerouteCount:   v.RerouteCount,
		SpawnTick:      v.SpawnTick,
		ArrivalTick:    v.ArrivalTick,
		WaitTicks:      v.WaitTicks,
	}
	if next, ok := v.NextNode(); ok {
		rec.NextNode = &next
		if st, ok := a.State(v.CurrentNode(), next); ok && st.MultiplierEffective > 0 {
			rec.SpeedMultiplier = st.MultiplierEffective
		} else {
			rec.SpeedMultiplier = 1.0
		}
	} else {
		rec.SpeedMultiplier = 1.0
	}
	return rec
}

func edgeTrafficRecord(s analyzer.EdgeState) EdgeTrafficRecord {
	return EdgeTrafficRecord{
		From:                  s.From,
		To:                    s.To,
		VehicleCount:          s.VehicleCount,
		WeightedLoad:          s.WeightedLoad,
		Capacity:              s.Capacity,
		Density:               s.Density,
		Level:                 s.Level,
		Multiplier:            s.MultiplierEffective,
		CongestionProbability: s.Probability,
	}
}

func accidentRecord(a incident.Accident) AccidentRecord {
	return AccidentRecord{
		ID:            a.ID,
		EdgeKey:       a.EdgeKey,
		Severity:      a.Severity,
		CreatedTick:   a.CreatedTick,
		ClearanceTick: a.ClearanceTick,
	}
}

func blockageRecord(b incident.Blockage) BlockageRecord {
	return BlockageRecord{ID: b.ID, EdgeKey: b.EdgeKey, Reason: b.Reason, CreatedTick: b.CreatedTick}
}
