package effects

import (
	"github.com/Glitch752/RoomLEDs/internal/frame"
	"github.com/Glitch752/RoomLEDs/internal/nodegraph"
)

// NodeEditor renders a node-based dataflow graph, looking up the Frame
// produced at the graph's Output node each tick.
type NodeEditor struct {
	Nodes       []nodegraph.Node       `json:"nodes"`
	Connections []nodegraph.Connection `json:"connections"`

	graph *nodegraph.Graph
}

// NewNodeEditor wraps a NodeEditor effect as an Any. The graph is compiled
// immediately; a cyclic or otherwise invalid graph is returned as an error.
func NewNodeEditor(nodes []nodegraph.Node, connections []nodegraph.Connection) (*Any, error) {
	n := &NodeEditor{Nodes: nodes, Connections: connections}
	if err := n.compile(); err != nil {
		return nil, err
	}
	return wrap("NodeEditor", n), nil
}

// nodeRegistry is the built-in node registry, populated once at startup
// and shared by every NodeEditor.
var nodeRegistry = nodegraph.DefaultRegistry()

func (n *NodeEditor) compile() error {
	n.graph = nodegraph.NewGraph(n.Nodes, n.Connections, nodeRegistry)
	return n.graph.Compile(nodeRegistry)
}

// Render implements Effect. A graph evaluation failure (e.g. a graph with
// no Output node) renders a transparent frame rather than blocking the
// render loop.
func (n *NodeEditor) Render(ctx RenderContext, info *RenderInfo) frame.Frame {
	f, err := n.graph.EvaluateFrame(ctx.Pixels)
	if err != nil {
		info.DebugText = err.Error()
		return frame.Empty(ctx.Pixels)
	}
	return f
}
