package graph

import (
	"hash/fnv"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// curveSamples is the polyline resolution used to approximate a quadratic
// Bézier curve's true length. 24 segments is more than enough fidelity for
// the offsets this simulation uses.
const curveSamples = 24

// DeriveCurveOffset returns a deterministic perpendicular offset (graph
// units) for the edge's Bézier control point, derived from the endpoint ids.
// Because it is a pure function of (from, to), every client — engine or
// viewer — computes the identical curve without exchanging control points.
func DeriveCurveOffset(from, to NodeID) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(from))
	_, _ = h.Write([]byte(","))
	_, _ = h.Write([]byte(to))
	sum := h.Sum32()
	// Map the hash into a signed offset in [-20, 20] graph units. A zero
	// offset would make the curve degenerate into the straight chord, which
	// is intentional for self-paired hash buckets but rare.
	frac := float64(sum%1000) / 1000.0
	return (frac*2 - 1) * 20
}

// controlPoint returns the quadratic Bézier control point for the edge from
// a to b with the given perpendicular offset.
func controlPoint(a, b orb.Point, offset float64) orb.Point {
	mid := orb.Point{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
	dx, dy := b[0]-a[0], b[1]-a[1]
	length := math.Hypot(dx, dy)
	if length == 0 {
		return mid
	}
	// Perpendicular unit vector.
	nx, ny := -dy/length, dx/length
	return orb.Point{mid[0] + nx*offset, mid[1] + ny*offset}
}

// bezierPoint evaluates the quadratic Bézier curve a→c→b at parameter
// t ∈ [0, 1].
func bezierPoint(a, c, b orb.Point, t float64) orb.Point {
	u := 1 - t
	x := u*u*a[0] + 2*u*t*c[0] + t*t*b[0]
	y := u*u*a[1] + 2*u*t*c[1] + t*t*b[1]
	return orb.Point{x, y}
}

// CurvePoint returns the point on edge e's Bézier curve at fractional
// progress t ∈ [0, 1], given the coordinates of its endpoints.
func CurvePoint(from, to Coordinate, offset, t float64) Coordinate {
	a := orb.Point{from.X, from.Y}
	b := orb.Point{to.X, to.Y}
	c := controlPoint(a, b, offset)
	p := bezierPoint(a, c, b, t)
	return Coordinate{X: p[0], Y: p[1]}
}

// CurveLength polyline-samples the quadratic Bézier curve between from and
// to with the given offset and returns its true arc length in graph units.
func CurveLength(from, to Coordinate, offset float64) float64 {
	a := orb.Point{from.X, from.Y}
	b := orb.Point{to.X, to.Y}
	c := controlPoint(a, b, offset)

	total := 0.0
	prev := a
	for i := 1; i <= curveSamples; i++ {
		t := float64(i) / float64(curveSamples)
		cur := bezierPoint(a, c, b, t)
		total += planar.Distance(prev, cur)
		prev = cur
	}
	return total
}

// EuclideanDistance returns the straight-line (chord) distance between two
// coordinates, used by the router's A* heuristic.
func EuclideanDistance(a, b Coordinate) float64 {
	return planar.Distance(orb.Point{a.X, a.Y}, orb.Point{b.X, b.Y})
}
