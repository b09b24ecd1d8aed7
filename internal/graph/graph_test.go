package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourNodeSquare(t *testing.T) *Graph {
	t.Helper()
	data := GraphData{
		Nodes: map[NodeID]Coordinate{
			"A": {X: 0, Y: 0},
			"B": {X: 100, Y: 0},
			"C": {X: 0, Y: 100},
			"D": {X: 100, Y: 100},
		},
		Edges: []EdgeData{
			{From: "A", To: "B", Distance: 100, Allowed: []Mode{ModeCar, ModeBicycle, ModePedestrian}},
			{From: "B", To: "D", Distance: 100, Allowed: []Mode{ModeCar, ModeBicycle, ModePedestrian}},
			{From: "A", To: "C", Distance: 100, Allowed: []Mode{ModeCar, ModeBicycle, ModePedestrian}},
			{From: "C", To: "D", Distance: 100, Allowed: []Mode{ModeCar, ModeBicycle, ModePedestrian}},
			{From: "B", To: "C", Distance: 140, Allowed: []Mode{ModeBicycle, ModePedestrian}},
		},
	}
	g, err := NewGraph(data)
	require.NoError(t, err)
	return g
}

func TestNewGraphBuildsBidirectionalEdges(t *testing.T) {
	g := fourNodeSquare(t)

	_, ok := g.Edge("A", "B")
	assert.True(t, ok, "forward edge A->B should exist")
	_, ok = g.Edge("B", "A")
	assert.True(t, ok, "reverse edge B->A should be auto-generated for a two-way road")
}

func TestNewGraphOneWayHasNoReverse(t *testing.T) {
	data := GraphData{
		Nodes: map[NodeID]Coordinate{"A": {X: 0, Y: 0}, "B": {X: 10, Y: 0}},
		Edges: []EdgeData{{From: "A", To: "B", Distance: 10, Allowed: []Mode{ModeCar}, OneWay: true}},
	}
	g, err := NewGraph(data)
	require.NoError(t, err)

	_, ok := g.Edge("A", "B")
	assert.True(t, ok)
	_, ok = g.Edge("B", "A")
	assert.False(t, ok, "a one-way edge must not produce a reverse")
}

func TestNewGraphRejectsUnknownNode(t *testing.T) {
	data := GraphData{
		Nodes: map[NodeID]Coordinate{"A": {X: 0, Y: 0}},
		Edges: []EdgeData{{From: "A", To: "Z", Distance: 10, Allowed: []Mode{ModeCar}}},
	}
	_, err := NewGraph(data)
	assert.Error(t, err)
}

func TestNewGraphRejectsNonPositiveLength(t *testing.T) {
	data := GraphData{
		Nodes: map[NodeID]Coordinate{"A": {X: 0, Y: 0}, "B": {X: 10, Y: 0}},
		Edges: []EdgeData{{From: "A", To: "B", Distance: 0, Allowed: []Mode{ModeCar}}},
	}
	_, err := NewGraph(data)
	assert.Error(t, err)
}

func TestNeighborsFiltersByModeAndBlockage(t *testing.T) {
	g := fourNodeSquare(t)

	// Every road in fourNodeSquare is two-way, so B also has the reverse
	// edge B->A generated from A->B.
	carNeighbors := g.Neighbors("B", ModeCar, nil)
	assert.Len(t, carNeighbors, 2, "B->C forbids car traffic, leaving B->D and B->A")

	bikeNeighbors := g.Neighbors("B", ModeBicycle, nil)
	assert.Len(t, bikeNeighbors, 3, "B->D, B->A and B->C all permit bicycles")

	blocked := func(from, to NodeID) bool { return from == "B" && to == "D" }
	filtered := g.Neighbors("B", ModeBicycle, blocked)
	assert.Len(t, filtered, 2, "a blockage predicate removes the blocked edge")
	targets := make([]NodeID, 0, len(filtered))
	for _, e := range filtered {
		targets = append(targets, e.To)
	}
	assert.ElementsMatch(t, []NodeID{"A", "C"}, targets)
}

func TestEdgeKeyFormat(t *testing.T) {
	assert.Equal(t, "A,B", EdgeKey("A", "B"))
}
