package graph

import (
	"container/heap"
	"errors"
	"math"
)

// ErrNoPath is returned when no feasible route exists between two nodes
// under the current mode restrictions, blockages, and costs.
var ErrNoPath = errors.New("no-path")

// CostFunc returns the traversal cost of an edge. A cost of +Inf marks the
// edge as impassable (e.g. an active blockage).
type CostFunc func(e Edge) float64

// Path is the result of a successful shortest-path search.
type Path struct {
	Route []NodeID
	Cost  float64
}

// Router computes shortest paths over a Graph using live, caller-supplied
// edge costs.
type Router struct {
	g *Graph
}

// NewRouter constructs a Router bound to g.
func NewRouter(g *Graph) *Router {
	return &Router{g: g}
}

// pqItem is a node queued for expansion, ordered by f-score with
// lexicographic node-id tie-breaking.
type pqItem struct {
	node  NodeID
	f     float64
	index int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].node < pq[j].node
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// admissibleScale is the factor applied to the Euclidean heuristic so that
// it never overestimates true cost: the cheapest a congested edge can ever
// be is free_flow's lower bound, multiplier = 0.5. Scaling the
// heuristic by the same factor keeps A* admissible even though live
// multipliers can drop below 1.0.
const admissibleScale = 0.5

// ShortestPath runs A* with a Euclidean heuristic scaled by admissibleScale
// from start to goal, honoring mode and blockage restrictions and using
// costFn for edge weights.
func (r *Router) ShortestPath(start, goal NodeID, mode Mode, blocked BlockedFunc, costFn CostFunc) (Path, error) {
	return r.search(start, goal, mode, blocked, costFn, true)
}

// ShortestPathDijkstra runs plain Dijkstra (zero heuristic), guaranteeing
// optimality regardless of how low multipliers drop.
func (r *Router) ShortestPathDijkstra(start, goal NodeID, mode Mode, blocked BlockedFunc, costFn CostFunc) (Path, error) {
	return r.search(start, goal, mode, blocked, costFn, false)
}

func (r *Router) search(start, goal NodeID, mode Mode, blocked BlockedFunc, costFn CostFunc, useHeuristic bool) (Path, error) {
	if start == goal {
		return Path{Route: []NodeID{start}, Cost: 0}, nil
	}
	if !r.g.HasNode(start) || !r.g.HasNode(goal) {
		return Path{}, ErrNoPath
	}

	goalNode, _ := r.g.Node(goal)
	heuristic := func(n NodeID) float64 {
		if !useHeuristic {
			return 0
		}
		cur, ok := r.g.Node(n)
		if !ok {
			return 0
		}
		return EuclideanDistance(cur.Loc, goalNode.Loc) * admissibleScale
	}

	gScore := map[NodeID]float64{start: 0}
	cameFrom := map[NodeID]NodeID{}
	closed := map[NodeID]bool{}

	pq := &priorityQueue{{node: start, f: heuristic(start)}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*pqItem)
		if closed[cur.node] {
			continue
		}
		if cur.node == goal {
			return r.reconstruct(cameFrom, gScore, start, goal), nil
		}
		closed[cur.node] = true

		for _, e := range r.g.Neighbors(cur.node, mode, blocked) {
			if closed[e.To] {
				continue
			}
			cost := costFn(e)
			if math.IsInf(cost, 1) {
				continue
			}
			tentativeG := gScore[cur.node] + cost
			if existing, ok := gScore[e.To]; !ok || tentativeG < existing {
				gScore[e.To] = tentativeG
				cameFrom[e.To] = cur.node
				heap.Push(pq, &pqItem{node: e.To, f: tentativeG + heuristic(e.To)})
			}
		}
	}
	return Path{}, ErrNoPath
}

func (r *Router) reconstruct(cameFrom map[NodeID]NodeID, gScore map[NodeID]float64, start, goal NodeID) Path {
	route := []NodeID{goal}
	for route[0] != start {
		route = append([]NodeID{cameFrom[route[0]]}, route...)
	}
	return Path{Route: route, Cost: gScore[goal]}
}
