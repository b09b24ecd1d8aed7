package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveCurveOffsetIsDeterministic(t *testing.T) {
	a := DeriveCurveOffset("A", "B")
	b := DeriveCurveOffset("A", "B")
	assert.Equal(t, a, b, "the same endpoint pair must always hash to the same offset")

	other := DeriveCurveOffset("B", "A")
	assert.NotEqual(t, a, other, "a directed edge and its reverse should not generally share an offset")
}

func TestDeriveCurveOffsetWithinRange(t *testing.T) {
	for _, pair := range [][2]NodeID{{"A", "B"}, {"N1", "N9"}, {"gate", "cafeteria"}} {
		off := DeriveCurveOffset(pair[0], pair[1])
		assert.GreaterOrEqual(t, off, -20.0)
		assert.LessOrEqual(t, off, 20.0)
	}
}

func TestCurveLengthAtLeastChordLength(t *testing.T) {
	from := Coordinate{X: 0, Y: 0}
	to := Coordinate{X: 100, Y: 0}

	straight := CurveLength(from, to, 0)
	assert.InDelta(t, 100.0, straight, 1e-6, "a zero offset degenerates into the straight chord")

	curved := CurveLength(from, to, 20)
	assert.Greater(t, curved, straight, "a nonzero offset bows the curve longer than the chord")
}

func TestCurvePointEndpoints(t *testing.T) {
	from := Coordinate{X: 0, Y: 0}
	to := Coordinate{X: 100, Y: 0}

	start := CurvePoint(from, to, 15, 0)
	assert.InDelta(t, from.X, start.X, 1e-9)
	assert.InDelta(t, from.Y, start.Y, 1e-9)

	end := CurvePoint(from, to, 15, 1)
	assert.InDelta(t, to.X, end.X, 1e-9)
	assert.InDelta(t, to.Y, end.Y, 1e-9)
}

func TestEuclideanDistance(t *testing.T) {
	d := EuclideanDistance(Coordinate{X: 0, Y: 0}, Coordinate{X: 3, Y: 4})
	assert.InDelta(t, 5.0, d, 1e-9)
}
