// Package analyzer derives per-edge congestion state from live occupancy:
// density, level, a smoothed cost multiplier, and a fused congestion
// probability, and ranks bottlenecks.
package analyzer

import (
	"math"
	"math/rand"
	"sort"

	"github.com/samber/lo"

	"github.com/tms-sim/citytraffic/internal/config"
	"github.com/tms-sim/citytraffic/internal/graph"
	"github.com/tms-sim/citytraffic/internal/incident"
	"github.com/tms-sim/citytraffic/internal/occupancy"
)

// Level is a discrete congestion classification for an edge.
type Level string

const (
	LevelFreeFlow  Level = "free_flow"
	LevelLight     Level = "light"
	LevelModerate  Level = "moderate"
	LevelHeavy     Level = "heavy"
	LevelCongested Level = "congested"
)

// levelFromDensity classifies density into a Level using fixed thresholds.
func levelFromDensity(density float64) Level {
	switch {
	case density < 0.3:
		return LevelFreeFlow
	case density < 0.6:
		return LevelLight
	case density < 0.85:
		return LevelModerate
	case density < 1.0:
		return LevelHeavy
	default:
		return LevelCongested
	}
}

// multiplierRange returns the sampling range [lo, hi] for a Level.
func multiplierRange(l Level) (float64, float64) {
	switch l {
	case LevelFreeFlow:
		return 0.5, 0.8
	case LevelLight:
		return 0.8, 1.2
	case LevelModerate:
		return 1.2, 2.0
	case LevelHeavy:
		return 2.0, 3.5
	default: // congested
		return 3.5, 5.0
	}
}

// EdgeState is the per-edge traffic snapshot recomputed every tick.
type EdgeState struct {
	From, To           graph.NodeID
	VehicleCount       int
	WeightedLoad       float64
	Capacity           float64
	Density            float64
	Level              Level
	Multiplier         float64 // smoothed sampled multiplier, before incident overlay
	MultiplierEffective float64 // Multiplier * accident severity penalty
	Probability        float64
	Cost               float64 // L0 * MultiplierEffective, or +Inf if blocked
	Blocked            bool
}

// Key returns this edge's canonical "from,to" key.
func (s EdgeState) Key() string { return graph.EdgeKey(s.From, s.To) }

// Analyzer holds the per-edge history needed to compute smoothed
// multipliers and fused congestion probability.
type Analyzer struct {
	cfg     config.Config
	history map[string]*ring
	prevMul map[string]float64
	state   map[string]EdgeState
}

// New constructs an Analyzer bound to cfg's smoothing and history settings.
func New(cfg config.Config) *Analyzer {
	return &Analyzer{
		cfg:     cfg,
		history: make(map[string]*ring),
		prevMul: make(map[string]float64),
		state:   make(map[string]EdgeState),
	}
}

// Recompute derives fresh EdgeState for every edge in g from occ and
// incidents, sampling multipliers with rng. It must run once per tick,
// before the reroute decision and kinematics passes.
func (a *Analyzer) Recompute(g *graph.Graph, occ *occupancy.Index, incidents *incident.Manager, rng *rand.Rand) {
	for _, e := range g.Edges() {
		key := e.Key()
		count := occ.Count(key)
		load := occ.Weighted(key)
		capacity := a.cfg.BaseEdgeCapacity * e.Length
		if capacity <= 0 {
			capacity = a.cfg.BaseEdgeCapacity
		}
		density := load / capacity
		level := levelFromDensity(density)

		lo, hi := multiplierRange(level)
		sample := lo + rng.Float64()*(hi-lo)
		prev, ok := a.prevMul[key]
		if !ok {
			prev = sample
		}
		smoothed := a.cfg.MultiplierSmoothingAlpha*sample + (1-a.cfg.MultiplierSmoothingAlpha)*prev
		a.prevMul[key] = smoothed

		hbuf := a.history[key]
		if hbuf == nil {
			hbuf = newRing(a.cfg.HistoryWindow)
			a.history[key] = hbuf
		}
		hbuf.push(smoothed)

		base := math.Min(density/1.0, 1.0)
		histComponent := math.Min(math.Max(hbuf.mean()-1.0, 0), 1) / 2
		if histComponent > 0.5 {
			histComponent = 0.5
		}
		probability := math.Min(base+histComponent, 1.0)

		blocked := incidents.IsBlocked(key)
		penalty := incidents.SeverityPenalty(key)
		effective := smoothed * penalty

		cost := e.Length * effective
		if blocked {
			cost = math.Inf(1)
		}

		a.state[key] = EdgeState{
			From:                e.From,
			To:                  e.To,
			VehicleCount:        count,
			WeightedLoad:        load,
			Capacity:            capacity,
			Density:             density,
			Level:               level,
			Multiplier:          smoothed,
			MultiplierEffective: effective,
			Probability:         probability,
			Cost:                cost,
			Blocked:             blocked,
		}
	}
}

// State returns the current EdgeState for a directed edge, if known.
func (a *Analyzer) State(from, to graph.NodeID) (EdgeState, bool) {
	s, ok := a.state[graph.EdgeKey(from, to)]
	return s, ok
}

// CostFunc returns a graph.CostFunc backed by this analyzer's current
// per-edge costs, for use by the router.
func (a *Analyzer) CostFunc() graph.CostFunc {
	return func(e graph.Edge) float64 {
		if s, ok := a.state[e.Key()]; ok {
			return s.Cost
		}
		return e.Length
	}
}

// All returns every tracked EdgeState, sorted by edge key.
func (a *Analyzer) All() []EdgeState {
	out := make([]EdgeState, 0, len(a.state))
	for _, s := range a.state {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Bottlenecks returns the top-k edges by descending probability, breaking
// ties by descending vehicle_count then ascending edge id.
func (a *Analyzer) Bottlenecks(k int) []EdgeState {
	all := a.All()
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Probability != all[j].Probability {
			return all[i].Probability > all[j].Probability
		}
		if all[i].VehicleCount != all[j].VehicleCount {
			return all[i].VehicleCount > all[j].VehicleCount
		}
		return all[i].Key() < all[j].Key()
	})
	if k <= 0 || k > len(all) {
		return all
	}
	return all[:k]
}

// GlobalStatistics summarizes congestion across the whole network.
type GlobalStatistics struct {
	TotalEdges       int     `json:"total_edges"`
	CongestedEdges   int     `json:"congested_edges"`
	AverageDensity   float64 `json:"average_density"`
	AverageMultiplier float64 `json:"average_multiplier"`
}

// Global computes an aggregate congestion summary over all tracked edges.
func (a *Analyzer) Global() GlobalStatistics {
	all := a.All()
	if len(all) == 0 {
		return GlobalStatistics{}
	}
	congested := lo.CountBy(all, func(s EdgeState) bool { return s.Level == LevelCongested })
	var densitySum, mulSum float64
	for _, s := range all {
		densitySum += s.Density
		mulSum += s.MultiplierEffective
	}
	n := float64(len(all))
	return GlobalStatistics{
		TotalEdges:        len(all),
		CongestedEdges:    congested,
		AverageDensity:    densitySum / n,
		AverageMultiplier: mulSum / n,
	}
}

// NodeCongestion is a node's aggregate congestion score: the mean
// probability across every edge (incoming or outgoing) touching it.
type NodeCongestion struct {
	Node       graph.NodeID `json:"node"`
	Congestion float64      `json:"congestion"`
}

// NodeCongestion computes the aggregate congestion score for a single
// node: the mean Probability of every edge incident to it, in either
// direction. Returns 0 for a node with no tracked edges.
func (a *Analyzer) NodeCongestion(g *graph.Graph, node graph.NodeID) float64 {
	var sum float64
	var n int
	for _, e := range g.Edges() {
		if e.From != node && e.To != node {
			continue
		}
		if s, ok := a.state[e.Key()]; ok {
			sum += s.Probability
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// CongestedIntersections returns every node whose NodeCongestion exceeds
// threshold, sorted by descending congestion (ties broken by ascending
// node id), capped at the top k (k <= 0 returns every match).
func (a *Analyzer) CongestedIntersections(g *graph.Graph, threshold float64, k int) []NodeCongestion {
	var out []NodeCongestion
	for _, n := range g.Nodes() {
		c := a.NodeCongestion(g, n.ID)
		if c > threshold {
			out = append(out, NodeCongestion{Node: n.ID, Congestion: c})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Congestion != out[j].Congestion {
			return out[i].Congestion > out[j].Congestion
		}
		return out[i].Node < out[j].Node
	})
	if k > 0 && k < len(out) {
		out = out[:k]
	}
	return out
}

// Reset clears all per-edge history and state, for simulation reset.
func (a *Analyzer) Reset() {
	a.history = make(map[string]*ring)
	a.prevMul = make(map[string]float64)
	a.state = make(map[string]EdgeState)
}
