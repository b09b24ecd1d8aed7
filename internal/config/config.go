// Package config holds the tunable parameters recognized by the simulation
// engine.
package config

import "time"

// Config collects every tunable the engine, analyzer, and incident manager
// read at construction and per tick.
type Config struct {
	// RerouteThreshold is the relative path-cost increase that triggers a
	// reroute: if the live cost of the remaining path (the engine's
	// remainingCost) > vehicle.PathCost*(1+t).
	RerouteThreshold float64

	// RerouteLookaheadEdges bounds how many edges ahead of a vehicle's
	// current position the reroute decision inspects for congestion.
	RerouteLookaheadEdges int

	// RerouteProbabilityThreshold is the congestion probability at or above
	// which a lookahead edge forces a reroute attempt.
	RerouteProbabilityThreshold float64

	// RerouteCooldownTicks is the minimum number of ticks between two
	// reroutes of the same vehicle.
	RerouteCooldownTicks int64

	// BaseEdgeCapacity is the vehicle-count capacity of a unit-length edge;
	// actual capacity scales with edge length.
	BaseEdgeCapacity float64

	// MultiplierSmoothingAlpha is the EMA weight given to a freshly sampled
	// congestion multiplier each tick.
	MultiplierSmoothingAlpha float64

	// TargetSpeedSmoothingAlpha is the EMA weight given to a vehicle's
	// freshly computed target speed each tick.
	TargetSpeedSmoothingAlpha float64

	// HistoryWindow is the number of past multiplier samples retained per
	// edge for the congestion-probability blend.
	HistoryWindow int

	// AutoSpawnEnabled toggles automatic background spawning.
	AutoSpawnEnabled bool

	// AutoSpawnTarget is the active-vehicle count the auto-spawner tries to
	// maintain.
	AutoSpawnTarget int

	// AutoSpawnBatch is the maximum number of vehicles spawned per tick
	// while below AutoSpawnTarget.
	AutoSpawnBatch int

	// AutoSpawnRetries bounds how many (start, goal) pairs the auto-spawner
	// tries per vehicle before giving up for the tick.
	AutoSpawnRetries int

	// AutoSpawnDistribution is the default vehicle-type mix used by
	// auto-spawn and by spawn_multiple when no distribution is given.
	AutoSpawnDistribution map[string]float64

	// TickInterval is the nominal wall-clock period between ticks, used to
	// convert AccidentDefaultDuration into a clearance tick.
	// Boundary.StartContinuous does not read it; it ticks at the interval
	// its caller passes.
	TickInterval time.Duration

	// MinDt and MaxDt clamp the per-tick elapsed wall-clock duration fed
	// into the kinematics step.
	MinDt time.Duration
	MaxDt time.Duration

	// AccidentDefaultDuration is how long an accident persists before
	// auto-clearing. Zero means persistent-until-resolved (Open Question
	// #2: this module picks time-bounded by default).
	AccidentDefaultDuration time.Duration

	// Seed is the seed for the engine's single RNG source.
	Seed int64

	// CongestedIntersectionThreshold is the node-congestion score above
	// which get_congestion_report lists an intersection as congested.
	CongestedIntersectionThreshold float64

	// CongestedIntersectionLimit caps how many intersections
	// get_congestion_report returns, worst first. Zero means unlimited.
	CongestedIntersectionLimit int
}

// Default returns the configuration's baseline tunables.
func Default() Config {
	return Config{
		RerouteThreshold:            0.20,
		RerouteLookaheadEdges:       3,
		RerouteProbabilityThreshold: 0.5,
		RerouteCooldownTicks:        5,
		BaseEdgeCapacity:            4,
		MultiplierSmoothingAlpha:    0.3,
		TargetSpeedSmoothingAlpha:   0.3,
		HistoryWindow:               20,
		AutoSpawnEnabled:            false,
		AutoSpawnTarget:             75,
		AutoSpawnBatch:              3,
		AutoSpawnRetries:            10,
		AutoSpawnDistribution:       map[string]float64{"car": 0.6, "bicycle": 0.25, "pedestrian": 0.15},
		TickInterval:                100 * time.Millisecond,
		MinDt:                       10 * time.Millisecond,
		MaxDt:                       500 * time.Millisecond,
		AccidentDefaultDuration:     60 * time.Second,
		Seed:                        1,
		CongestedIntersectionThreshold: 0.5,
		CongestedIntersectionLimit:     10,
	}
}
