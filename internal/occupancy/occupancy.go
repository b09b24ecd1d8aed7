// Package occupancy tracks, per directed edge, the set of vehicles
// currently traversing it. It must be kept consistent with every edge
// transition applied by the kinematics step.
package occupancy

import (
	"fmt"
	"sort"
)

// Index maps directed edge keys ("from,to") to the vehicles currently on
// them, with O(1) amortized enter/leave/query.
type Index struct {
	byEdge map[string]map[string]struct{}
	weight map[string]float64 // cached Σ weighted load per edge
}

// NewIndex constructs an empty occupancy index.
func NewIndex() *Index {
	return &Index{
		byEdge: make(map[string]map[string]struct{}),
		weight: make(map[string]float64),
	}
}

// Enter records vehicleID as present on edgeKey with the given capacity
// weight.
func (ix *Index) Enter(edgeKey, vehicleID string, weight float64) {
	set := ix.byEdge[edgeKey]
	if set == nil {
		set = make(map[string]struct{})
		ix.byEdge[edgeKey] = set
	}
	if _, already := set[vehicleID]; already {
		return
	}
	set[vehicleID] = struct{}{}
	ix.weight[edgeKey] += weight
}

// Leave removes vehicleID from edgeKey's occupancy set. It returns an error
// if vehicleID was never recorded as present on edgeKey: that is an
// invariant violation (a vehicle leaving an edge it never entered), and
// callers must surface it rather than let occupancy state silently drift
// from the vehicle arena.
func (ix *Index) Leave(edgeKey, vehicleID string, weight float64) error {
	set := ix.byEdge[edgeKey]
	if set == nil {
		return fmt.Errorf("occupancy: vehicle %s left edge %s it was never recorded on", vehicleID, edgeKey)
	}
	if _, ok := set[vehicleID]; !ok {
		return fmt.Errorf("occupancy: vehicle %s left edge %s it was never recorded on", vehicleID, edgeKey)
	}
	delete(set, vehicleID)
	ix.weight[edgeKey] -= weight
	if ix.weight[edgeKey] < 0 {
		ix.weight[edgeKey] = 0
	}
	if len(set) == 0 {
		delete(ix.byEdge, edgeKey)
		delete(ix.weight, edgeKey)
	}
	return nil
}

// On returns the set of vehicle ids currently occupying edgeKey.
func (ix *Index) On(edgeKey string) []string {
	set := ix.byEdge[edgeKey]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// Count returns the number of vehicles currently occupying edgeKey.
func (ix *Index) Count(edgeKey string) int { return len(ix.byEdge[edgeKey]) }

// Weighted returns the cached weighted load (Σ capacity weights) for
// edgeKey.
func (ix *Index) Weighted(edgeKey string) float64 { return ix.weight[edgeKey] }

// OccupiedEdges returns every edge key with at least one vehicle on it,
// sorted for deterministic downstream random selection.
func (ix *Index) OccupiedEdges() []string {
	out := make([]string, 0, len(ix.byEdge))
	for k := range ix.byEdge {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Reset clears all occupancy state.
func (ix *Index) Reset() {
	ix.byEdge = make(map[string]map[string]struct{})
	ix.weight = make(map[string]float64)
}
