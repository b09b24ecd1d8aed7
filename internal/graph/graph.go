package graph

import "fmt"

// BlockedFunc reports whether the directed edge (from, to) is currently
// impassable due to an active blockage. The graph itself holds no incident
// state — it is owned by the incident manager — so callers thread this
// predicate through at query time.
type BlockedFunc func(from, to NodeID) bool

// Graph is a directed weighted road network with O(1) node/edge lookup.
type Graph struct {
	nodes       []Node
	edges       []Edge
	nodeMap     map[NodeID]Node
	edgeByNodes map[NodeID]map[NodeID]Edge // from → to → edge
}

// NewGraph builds a Graph from GraphData, deriving curve geometry and the
// reverse edge for any two-way road. Returns an error if any edge references
// an unknown node.
func NewGraph(data GraphData) (*Graph, error) {
	g := &Graph{
		nodeMap:     make(map[NodeID]Node),
		edgeByNodes: make(map[NodeID]map[NodeID]Edge),
	}
	for id, loc := range data.Nodes {
		if err := g.AddNode(Node{ID: id, Loc: loc}); err != nil {
			return nil, err
		}
	}
	for _, ed := range data.Edges {
		if ed.Distance <= 0 {
			return nil, fmt.Errorf("edge %s->%s: length must be > 0", ed.From, ed.To)
		}
		if err := g.addDirectedEdge(ed.From, ed.To, ed.Distance, ed.Allowed, ed.OneWay); err != nil {
			return nil, err
		}
		if !ed.OneWay {
			if err := g.addDirectedEdge(ed.To, ed.From, ed.Distance, ed.Allowed, ed.OneWay); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// AddNode adds a node to the graph. Returns an error if the id already
// exists.
func (g *Graph) AddNode(n Node) error {
	if _, exists := g.nodeMap[n.ID]; exists {
		return fmt.Errorf("node %q already exists", n.ID)
	}
	g.nodes = append(g.nodes, n)
	g.nodeMap[n.ID] = n
	return nil
}

func (g *Graph) addDirectedEdge(from, to NodeID, length float64, allowed []Mode, oneWay bool) error {
	if _, ok := g.nodeMap[from]; !ok {
		return fmt.Errorf("edge %s->%s: source node %q not found", from, to, from)
	}
	if _, ok := g.nodeMap[to]; !ok {
		return fmt.Errorf("edge %s->%s: target node %q not found", from, to, to)
	}
	offset := DeriveCurveOffset(from, to)
	e := Edge{
		From:         from,
		To:           to,
		Length:       length,
		AllowedModes: allowed,
		OneWay:       oneWay,
		CurveOffset:  offset,
		CurveLength:  CurveLength(g.nodeMap[from].Loc, g.nodeMap[to].Loc, offset),
	}
	if g.edgeByNodes[from] == nil {
		g.edgeByNodes[from] = make(map[NodeID]Edge)
	}
	g.edgeByNodes[from][to] = e
	g.edges = append(g.edges, e)
	return nil
}

// Nodes returns all nodes in the graph.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns all directed edges in the graph.
func (g *Graph) Edges() []Edge { return g.edges }

// Node looks up a node by id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodeMap[id]
	return n, ok
}

// HasNode reports whether a node id exists in the graph.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodeMap[id]
	return ok
}

// Edge returns the directed edge from u to v, if one exists.
func (g *Graph) Edge(u, v NodeID) (Edge, bool) {
	m, ok := g.edgeByNodes[u]
	if !ok {
		return Edge{}, false
	}
	e, ok := m[v]
	return e, ok
}

// Neighbors returns the directed edges out of node, filtered to those that
// permit mode and are not currently blocked.
func (g *Graph) Neighbors(node NodeID, mode Mode, blocked BlockedFunc) []Edge {
	m := g.edgeByNodes[node]
	if m == nil {
		return nil
	}
	out := make([]Edge, 0, len(m))
	for to, e := range m {
		if !e.AllowsMode(mode) {
			continue
		}
		if blocked != nil && blocked(node, to) {
			continue
		}
		out = append(out, e)
	}
	return out
}
