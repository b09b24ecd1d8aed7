// Package boundary implements the External Boundary: every
// command and query the outside world issues against a simulation,
// serialized behind a single mutex so the engine never observes a
// partially applied tick.
package boundary

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/tms-sim/citytraffic/internal/analyzer"
	"github.com/tms-sim/citytraffic/internal/config"
	"github.com/tms-sim/citytraffic/internal/engine"
	"github.com/tms-sim/citytraffic/internal/graph"
	"github.com/tms-sim/citytraffic/internal/incident"
	"github.com/tms-sim/citytraffic/internal/mapfile"
	"github.com/tms-sim/citytraffic/internal/vehicle"
)

// Boundary owns one live Engine and serializes every operation against
// it with a single mutex — the engine-wide concurrency model chosen for
// this module.
type Boundary struct {
	mu  sync.Mutex
	log *logrus.Logger

	eng     *engine.Engine
	mapName string

	continuousCancel atomic.Bool
	continuousDone   chan struct{}
}

// New constructs a Boundary running the named map with cfg.
func New(cfg config.Config, mapName string, log *logrus.Logger) (*Boundary, error) {
	if log == nil {
		log = logrus.New()
	}
	g, err := mapfile.Load(mapName)
	if err != nil {
		return nil, classify(err)
	}
	return &Boundary{
		log:     log,
		eng:     engine.New(cfg, mapName, g, log),
		mapName: mapName,
	}, nil
}

// Health reports liveness.
func (b *Boundary) Health() string { return "ok" }

// ListMaps returns the map registry and the currently loaded map name.
func (b *Boundary) ListMaps() ListMapsResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ListMapsResponse{Maps: mapfile.Names(), Current: b.mapName}
}

// GetMap returns the raw declarative data of the current map.
func (b *Boundary) GetMap() (graph.GraphData, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, err := mapfile.LoadData(b.mapName)
	if err != nil {
		return graph.GraphData{}, classify(err)
	}
	return data, nil
}

// GetState returns the full per-tick snapshot.
func (b *Boundary) GetState() StateSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Boundary) stateLocked() StateSnapshot {
	stats := b.eng.Analyzer
	vehicles := lo.Map(b.eng.Vehicles.All(), func(v *vehicle.Vehicle, _ int) VehicleRecord {
		return vehicleRecord(v, stats)
	})
	edgeTraffic := lo.Map(stats.All(), func(s analyzer.EdgeState, _ int) EdgeTrafficRecord {
		return edgeTrafficRecord(s)
	})
	return StateSnapshot{
		Tick:         b.eng.TickCount(),
		Vehicles:     vehicles,
		EdgeTraffic:  edgeTraffic,
		VehicleStats: b.eng.Vehicles.Stats(),
		TrafficStats: stats.Global(),
	}
}

// ListVehicles returns every vehicle on the wire, sorted by id.
func (b *Boundary) ListVehicles() []VehicleRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return lo.Map(b.eng.Vehicles.All(), func(v *vehicle.Vehicle, _ int) VehicleRecord {
		return vehicleRecord(v, b.eng.Analyzer)
	})
}

// GetVehicle returns a single vehicle by id.
func (b *Boundary) GetVehicle(id string) (VehicleRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.eng.Vehicles.Get(id)
	if !ok {
		return VehicleRecord{}, newError(KindNotFound, fmt.Errorf("vehicle %q", id))
	}
	return vehicleRecord(v, b.eng.Analyzer), nil
}

// GetTrafficStatistics returns the network-wide congestion summary.
func (b *Boundary) GetTrafficStatistics() analyzer.GlobalStatistics {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.eng.Analyzer.Global()
}

// GetCongestionReport returns the worst bottleneck edges, the worst
// congested intersections, and a network-wide summary. k <= 0 returns
// every tracked edge as a bottleneck; the intersection list is separately
// capped by the engine's CongestedIntersectionLimit.
func (b *Boundary) GetCongestionReport(k int) CongestionReport {
	b.mu.Lock()
	defer b.mu.Unlock()
	cfg := b.eng.Config()
	return CongestionReport{
		Bottlenecks: lo.Map(b.eng.Analyzer.Bottlenecks(k), func(s analyzer.EdgeState, _ int) EdgeTrafficRecord {
			return edgeTrafficRecord(s)
		}),
		CongestedIntersections: b.eng.Analyzer.CongestedIntersections(
			b.eng.Graph(), cfg.CongestedIntersectionThreshold, cfg.CongestedIntersectionLimit),
		GlobalStats: b.eng.Analyzer.Global(),
	}
}

// GetEdgeTraffic returns the traffic state of a single directed edge.
func (b *Boundary) GetEdgeTraffic(from, to graph.NodeID) (EdgeTrafficRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.eng.Analyzer.State(from, to)
	if !ok {
		return EdgeTrafficRecord{}, newError(KindNotFound, fmt.Errorf("edge %s", graph.EdgeKey(from, to)))
	}
	return edgeTrafficRecord(s), nil
}

// ListAccidents returns every active accident, sorted by id.
func (b *Boundary) ListAccidents() []AccidentRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return lo.Map(b.eng.Incidents.ListAccidents(), func(a incident.Accident, _ int) AccidentRecord {
		return accidentRecord(a)
	})
}

// ListBlockedRoads returns every active blockage, sorted by edge key.
func (b *Boundary) ListBlockedRoads() []BlockageRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return lo.Map(b.eng.Incidents.ListBlockages(), func(bl incident.Blockage, _ int) BlockageRecord {
		return blockageRecord(bl)
	})
}

// GetSimulationInfo returns a summary of the running simulation.
func (b *Boundary) GetSimulationInfo() SimulationInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return SimulationInfo{
		MapName:      b.mapName,
		TickCount:    b.eng.TickCount(),
		VehicleCount: b.eng.Vehicles.Count(),
		ActiveCount:  b.eng.Vehicles.ActiveCount(),
		Continuous:   !b.continuousCancel.Load() && b.continuousDone != nil,
	}
}

// SpawnVehicle spawns one vehicle, optionally at a specific start/goal.
func (b *Boundary) SpawnVehicle(vtype string, start, goal *string) (VehicleRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, err := parseVehicleType(vtype)
	if err != nil {
		return VehicleRecord{}, err
	}
	v, spawnErr := b.eng.SpawnVehicle(t, start, goal)
	if spawnErr != nil {
		return VehicleRecord{}, classify(spawnErr)
	}
	return vehicleRecord(v, b.eng.Analyzer), nil
}

// SpawnMultiple spawns count vehicles sampled from distribution, returning
// the ids that succeeded.
func (b *Boundary) SpawnMultiple(count int, distribution map[string]float64) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.eng.SpawnMultiple(count, distribution)
}

// Tick advances the simulation by exactly one step.
func (b *Boundary) Tick() (StateSnapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.eng.Tick(time.Now()); err != nil {
		return StateSnapshot{}, classify(err)
	}
	return b.stateLocked(), nil
}

// RemoveVehicle deletes a vehicle from the arena.
func (b *Boundary) RemoveVehicle(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.eng.RemoveVehicle(id); err != nil {
		return classify(err)
	}
	return nil
}

// ResetSimulation clears vehicles, incidents, and analyzer history.
func (b *Boundary) ResetSimulation() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eng.Reset()
}

// SwitchMap loads a new map and resets the simulation onto it.
func (b *Boundary) SwitchMap(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, err := mapfile.Load(name)
	if err != nil {
		return classify(err)
	}
	b.eng.SwitchMap(name, g)
	b.mapName = name
	return nil
}

// CreateAccident registers an accident, on a specific edge if from/to are
// given, else on a random occupied edge.
func (b *Boundary) CreateAccident(from, to *graph.NodeID, severity string) (AccidentRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sev, err := parseSeverity(severity)
	if err != nil {
		return AccidentRecord{}, err
	}
	edgeKey := ""
	if from != nil && to != nil {
		edgeKey = graph.EdgeKey(*from, *to)
	}
	a, createErr := b.eng.CreateAccident(uuid.NewString(), edgeKey, sev)
	if createErr != nil {
		return AccidentRecord{}, classify(createErr)
	}
	return accidentRecord(a), nil
}

// ResolveAccident removes an accident immediately.
func (b *Boundary) ResolveAccident(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.eng.Incidents.ResolveAccident(id); err != nil {
		return classify(err)
	}
	return nil
}

// BlockRoad marks a directed edge impassable and force-reroutes vehicles
// crossing it downstream of their current position.
func (b *Boundary) BlockRoad(from, to graph.NodeID, reason string) (BlockageRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bl, err := b.eng.BlockRoad(uuid.NewString(), graph.EdgeKey(from, to), reason)
	if err != nil {
		return BlockageRecord{}, classify(err)
	}
	return blockageRecord(bl), nil
}

// UnblockRoad clears a manual blockage.
func (b *Boundary) UnblockRoad(from, to graph.NodeID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.eng.Incidents.UnblockRoad(graph.EdgeKey(from, to)); err != nil {
		return classify(err)
	}
	return nil
}

// StartContinuous begins an automatic tick loop at the given interval,
// running in a dedicated goroutine gated by an atomic cancellation flag
// checked at each tick boundary. It is a no-op if already running.
func (b *Boundary) StartContinuous(interval time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.continuousDone != nil {
		return
	}
	b.continuousCancel.Store(false)
	done := make(chan struct{})
	b.continuousDone = done
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if b.continuousCancel.Load() {
				return
			}
			b.mu.Lock()
			_, err := b.eng.Tick(time.Now())
			b.mu.Unlock()
			if err != nil {
				b.log.WithError(err).Error("continuous tick failed")
				return
			}
		}
	}()
}

// StopContinuous cancels the automatic tick loop and waits for the
// in-flight tick, if any, to finish.
func (b *Boundary) StopContinuous() {
	b.mu.Lock()
	done := b.continuousDone
	b.continuousCancel.Store(true)
	b.mu.Unlock()
	if done != nil {
		<-done
	}
	b.mu.Lock()
	b.continuousDone = nil
	b.mu.Unlock()
}

func parseVehicleType(s string) (vehicle.Type, error) {
	switch vehicle.Type(s) {
	case vehicle.TypeCar, vehicle.TypeBicycle, vehicle.TypePedestrian:
		return vehicle.Type(s), nil
	case "":
		return vehicle.TypeCar, nil
	default:
		return "", validationf("unknown vehicle type %q", s)
	}
}

func parseSeverity(s string) (incident.Severity, error) {
	switch incident.Severity(s) {
	case incident.SeverityMinor, incident.SeverityMajor, incident.SeveritySevere:
		return incident.Severity(s), nil
	default:
		return "", validationf("unknown severity %q", s)
	}
}
