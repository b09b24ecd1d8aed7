package graph

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformCost(e Edge) float64 { return e.Length }

func TestShortestPathPicksCheaperRoute(t *testing.T) {
	g := fourNodeSquare(t)
	r := NewRouter(g)

	path, err := r.ShortestPath("A", "D", ModeCar, nil, uniformCost)
	require.NoError(t, err)
	assert.Equal(t, 200.0, path.Cost)
	assert.True(t, path.Route[0] == "A" && path.Route[len(path.Route)-1] == "D")
}

func TestShortestPathSameStartAndGoal(t *testing.T) {
	g := fourNodeSquare(t)
	r := NewRouter(g)

	path, err := r.ShortestPath("A", "A", ModeCar, nil, uniformCost)
	require.NoError(t, err)
	assert.Equal(t, []NodeID{"A"}, path.Route)
	assert.Equal(t, 0.0, path.Cost)
}

func TestShortestPathNoRouteForRestrictedMode(t *testing.T) {
	data := GraphData{
		Nodes: map[NodeID]Coordinate{"A": {X: 0, Y: 0}, "B": {X: 10, Y: 0}},
		Edges: []EdgeData{{From: "A", To: "B", Distance: 10, Allowed: []Mode{ModePedestrian}}},
	}
	g, err := NewGraph(data)
	require.NoError(t, err)
	r := NewRouter(g)

	_, err = r.ShortestPath("A", "B", ModeCar, nil, uniformCost)
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestShortestPathHonorsBlockedEdges(t *testing.T) {
	g := fourNodeSquare(t)
	r := NewRouter(g)

	blocked := func(from, to NodeID) bool { return from == "A" && to == "B" }
	path, err := r.ShortestPath("A", "D", ModeCar, blocked, uniformCost)
	require.NoError(t, err)
	assert.NotContains(t, path.Route[1:], NodeID("B"), "the A->B edge was blocked so B must not appear early in the route")
	if diff := cmp.Diff([]NodeID{"A", "C", "D"}, path.Route); diff != "" {
		t.Errorf("route mismatch (-want +got):\n%s", diff)
	}
}

func TestShortestPathRoutesAroundVariousBlockages(t *testing.T) {
	type setup struct {
		name    string
		blocked func(from, to NodeID) bool
		want    []NodeID
	}
	setups := []setup{
		{"no blockage", nil, []NodeID{"A", "B", "D"}},
		{"direct edge blocked", func(from, to NodeID) bool { return from == "A" && to == "B" }, []NodeID{"A", "C", "D"}},
		{"other direct edge blocked", func(from, to NodeID) bool { return from == "A" && to == "C" }, []NodeID{"A", "B", "D"}},
	}
	for _, s := range setups {
		t.Run(s.name, func(t *testing.T) {
			g := fourNodeSquare(t)
			r := NewRouter(g)
			path, err := r.ShortestPath("A", "D", ModeCar, s.blocked, uniformCost)
			require.NoError(t, err)
			if diff := cmp.Diff(s.want, path.Route); diff != "" {
				t.Errorf("route mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestShortestPathUnknownNodeIsNoPath(t *testing.T) {
	g := fourNodeSquare(t)
	r := NewRouter(g)

	_, err := r.ShortestPath("A", "nowhere", ModeCar, nil, uniformCost)
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestShortestPathMatchesDijkstraUnderDeflatedCosts(t *testing.T) {
	g := fourNodeSquare(t)
	r := NewRouter(g)

	// A cost function that makes every edge artificially cheap relative to
	// distance stresses the admissible-heuristic scaling: both searches must
	// still agree on the optimum.
	cheap := func(e Edge) float64 { return e.Length * 0.1 }

	astar, err := r.ShortestPath("A", "D", ModeCar, nil, cheap)
	require.NoError(t, err)
	dijkstra, err := r.ShortestPathDijkstra("A", "D", ModeCar, nil, cheap)
	require.NoError(t, err)

	assert.InDelta(t, dijkstra.Cost, astar.Cost, 1e-9)
}

func TestShortestPathInfiniteCostActsAsBlocked(t *testing.T) {
	g := fourNodeSquare(t)
	r := NewRouter(g)

	costFn := func(e Edge) float64 {
		if e.From == "A" && e.To == "B" {
			return math.Inf(1)
		}
		return e.Length
	}
	path, err := r.ShortestPath("A", "D", ModeCar, nil, costFn)
	require.NoError(t, err)
	assert.Equal(t, []NodeID{"A", "C", "D"}, path.Route)
}
