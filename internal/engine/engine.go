// Package engine implements the simulation tick loop that orchestrates the
// graph, router, occupancy index, traffic analyzer, incident manager, and
// vehicle kinematics into one coherent per-tick advance.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tms-sim/citytraffic/internal/analyzer"
	"github.com/tms-sim/citytraffic/internal/config"
	"github.com/tms-sim/citytraffic/internal/graph"
	"github.com/tms-sim/citytraffic/internal/incident"
	"github.com/tms-sim/citytraffic/internal/occupancy"
	"github.com/tms-sim/citytraffic/internal/vehicle"
)

// Engine owns all live simulation state: the graph, the vehicle arena,
// occupancy, the traffic analyzer, the incident manager, and the single
// seeded RNG that every random draw in the simulation goes through.
//
// Engine is not internally synchronized; callers that expose it across
// goroutines (the boundary package) must serialize access themselves.
type Engine struct {
	cfg config.Config
	log *logrus.Logger

	MapName string
	graph   *graph.Graph
	router  *graph.Router

	Vehicles  *vehicle.Manager
	Occupancy *occupancy.Index
	Analyzer  *analyzer.Analyzer
	Incidents *incident.Manager

	rng *rand.Rand

	tickCount    int64
	lastTickTime time.Time
	nextVehicle  int
}

// New constructs an Engine over g, configured by cfg.
func New(cfg config.Config, mapName string, g *graph.Graph, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{
		cfg:          cfg,
		log:          log,
		MapName:      mapName,
		graph:        g,
		router:       graph.NewRouter(g),
		Vehicles:     vehicle.NewManager(),
		Occupancy:    occupancy.NewIndex(),
		Analyzer:     analyzer.New(cfg),
		Incidents:    incident.NewManager(),
		rng:          rand.New(rand.NewSource(cfg.Seed)),
		lastTickTime: time.Time{},
	}
}

// Graph returns the engine's current road network.
func (e *Engine) Graph() *graph.Graph { return e.graph }

// Config returns the engine's configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// TickCount returns the number of ticks executed since the last reset.
func (e *Engine) TickCount() int64 { return e.tickCount }

// blocked adapts the incident manager into a graph.BlockedFunc.
func (e *Engine) blocked(from, to graph.NodeID) bool {
	return e.Incidents.IsBlocked(graph.EdgeKey(from, to))
}

// TickResult summarizes what happened during one Tick call.
type TickResult struct {
	Tick          int64
	Dt            time.Duration
	Rerouted      []string
	Arrived       []string
	ExpiredAccidents []string
	Spawned       []string
}

// Tick advances the simulation by one indivisible step, running each phase
// in order: dt computation, incident expiry, analyzer recompute, reroute
// decisions, kinematics, auto-spawn, tick advance.
func (e *Engine) Tick(now time.Time) (TickResult, error) {
	dt := e.computeDt(now)
	e.lastTickTime = now

	result := TickResult{Tick: e.tickCount, Dt: dt}

	result.ExpiredAccidents = e.Incidents.ExpireAccidents(e.tickCount)

	e.Analyzer.Recompute(e.graph, e.Occupancy, e.Incidents, e.rng)

	result.Rerouted = e.runRerouteDecisions()

	arrived, err := e.runKinematics(dt.Seconds())
	if err != nil {
		return TickResult{}, fmt.Errorf("tick %d: kinematics: %w", e.tickCount, err)
	}
	result.Arrived = arrived

	if e.cfg.AutoSpawnEnabled {
		result.Spawned = e.autoSpawn()
	}

	e.tickCount++
	return result, nil
}

// computeDt returns the wall-clock delta since the previous tick, clamped
// to [MinDt, MaxDt]. The first tick after construction or reset uses MinDt
// since there is no previous timestamp.
func (e *Engine) computeDt(now time.Time) time.Duration {
	if e.lastTickTime.IsZero() {
		return e.cfg.MinDt
	}
	dt := now.Sub(e.lastTickTime)
	if dt < e.cfg.MinDt {
		return e.cfg.MinDt
	}
	if dt > e.cfg.MaxDt {
		return e.cfg.MaxDt
	}
	return dt
}

// Reset clears all vehicles, incidents, and analyzer history, and zeroes
// the tick counter. The graph and configuration are left untouched.
func (e *Engine) Reset() {
	e.Vehicles.Reset()
	e.Occupancy.Reset()
	e.Analyzer.Reset()
	e.Incidents.Reset()
	e.tickCount = 0
	e.lastTickTime = time.Time{}
	e.nextVehicle = 0
}

// SwitchMap replaces the road network, resetting the whole simulation.
func (e *Engine) SwitchMap(name string, g *graph.Graph) {
	e.Reset()
	e.MapName = name
	e.graph = g
	e.router = graph.NewRouter(g)
}

// RNG exposes the engine's single seeded random source: the same stream
// that spawning, type sampling, multiplier sampling and random accident
// placement (CreateAccident) draw from, preserving determinism under a
// fixed seed.
func (e *Engine) RNG() *rand.Rand { return e.rng }
