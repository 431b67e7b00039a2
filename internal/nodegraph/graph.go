package nodegraph

import (
	"fmt"

	"github.com/Glitch752/RoomLEDs/internal/frame"
)

// Graph is a directed acyclic dataflow graph: nodes drawn from a Registry,
// wired together by Connections. It is compiled once (Compile) and then
// evaluated once per render tick (EvaluateFrame).
type Graph struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`

	registry Registry
	order    []NodeID
	byID     map[NodeID]*Node
	inputs   map[NodeID][]*Connection
}

// NewGraph builds a Graph from raw nodes and connections against registry.
// Compile must be called before EvaluateFrame.
func NewGraph(nodes []Node, connections []Connection, registry Registry) *Graph {
	return &Graph{Nodes: nodes, Connections: connections, registry: registry}
}

// Compile validates the graph against its registry, resolves a topological
// evaluation order, and detects cycles. It must succeed before
// EvaluateFrame is called.
func (g *Graph) Compile(registry Registry) error {
	g.registry = registry
	g.byID = make(map[NodeID]*Node, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if _, exists := g.registry[n.Kind]; !exists {
			return fmt.Errorf("nodegraph: unknown node kind %q", n.Kind)
		}
		if _, dup := g.byID[n.ID]; dup {
			return fmt.Errorf("nodegraph: duplicate node id %s", n.ID)
		}
		g.byID[n.ID] = n
	}

	g.inputs = make(map[NodeID][]*Connection, len(g.Nodes))
	for i := range g.Connections {
		c := &g.Connections[i]
		if _, ok := g.byID[c.FromNode]; !ok {
			return fmt.Errorf("nodegraph: connection references unknown source node %s", c.FromNode)
		}
		to, ok := g.byID[c.ToNode]
		if !ok {
			return fmt.Errorf("nodegraph: connection references unknown destination node %s", c.ToNode)
		}
		def := g.registry[to.Kind]
		if c.ToInput < 0 || c.ToInput >= len(def.Inputs) {
			return fmt.Errorf("nodegraph: node %s kind %q has no input port %d", to.ID, to.Kind, c.ToInput)
		}
		g.inputs[c.ToNode] = append(g.inputs[c.ToNode], c)
	}

	order, err := g.topologicalOrder()
	if err != nil {
		return err
	}
	g.order = order
	return nil
}

// topologicalOrder performs a depth-first topological sort, returning an
// error if the dependency graph (built from Connections, not Nodes) has a
// cycle.
func (g *Graph) topologicalOrder() ([]NodeID, error) {
	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[NodeID]int, len(g.Nodes))
	order := make([]NodeID, 0, len(g.Nodes))

	var visit func(id NodeID) error
	visit = func(id NodeID) error {
		switch state[id] {
		case visited:
			return nil
		case visiting:
			return fmt.Errorf("nodegraph: cycle detected at node %s", id)
		}
		state[id] = visiting
		for _, c := range g.inputs[id] {
			if err := visit(c.FromNode); err != nil {
				return err
			}
		}
		state[id] = visited
		order = append(order, id)
		return nil
	}

	for i := range g.Nodes {
		if err := visit(g.Nodes[i].ID); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// EvaluateFrame evaluates every node in topological order and returns the
// Frame produced at the Output node's input port. pixels sizes any
// Frame-producing node (e.g. SolidFrame).
func (g *Graph) EvaluateFrame(pixels int) (frame.Frame, error) {
	outputs := make(map[NodeID][]Value, len(g.Nodes))

	for _, id := range g.order {
		node := g.byID[id]
		def := g.registry[node.Kind]

		in := make([]Value, len(def.Inputs))
		for _, c := range g.inputs[id] {
			srcOutputs := outputs[c.FromNode]
			if c.FromOutput < 0 || c.FromOutput >= len(srcOutputs) {
				return frame.Frame{}, fmt.Errorf("nodegraph: node %s has no output port %d", c.FromNode, c.FromOutput)
			}
			in[c.ToInput] = srcOutputs[c.FromOutput]
		}

		out, err := def.Eval(node, in, pixels)
		if err != nil {
			return frame.Frame{}, fmt.Errorf("nodegraph: node %s (%s): %w", id, node.Kind, err)
		}
		outputs[id] = out
	}

	for i := range g.Nodes {
		node := &g.Nodes[i]
		if node.Kind != "Output" {
			continue
		}
		conns := g.inputs[node.ID]
		if len(conns) == 0 {
			return frame.Empty(pixels), nil
		}
		src := outputs[conns[0].FromNode]
		if conns[0].FromOutput >= len(src) {
			return frame.Frame{}, fmt.Errorf("nodegraph: Output node %s wired to invalid port", node.ID)
		}
		return src[conns[0].FromOutput].Frame, nil
	}

	return frame.Frame{}, fmt.Errorf("nodegraph: graph has no Output node")
}
