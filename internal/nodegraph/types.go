// Package nodegraph implements the optional node-based dataflow graph: a
// directed acyclic graph of typed nodes drawn from a registry, evaluated in
// topological order to produce a Frame for the NodeEditor effect.
package nodegraph

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Glitch752/RoomLEDs/internal/frame"
)

// NodeID stably identifies a node within a graph. It is a generated UUID
// rather than a pointer, so edges can be resolved by value lookup instead
// of pointer back-references.
type NodeID uuid.UUID

// NewNodeID generates a fresh, random node identifier.
func NewNodeID() NodeID {
	return NodeID(uuid.New())
}

// String renders the identifier in canonical UUID form.
func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// MarshalJSON implements json.Marshaler.
func (id NodeID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uuid.UUID(id).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *NodeID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("nodegraph: invalid node id %q: %w", s, err)
	}
	*id = NodeID(parsed)
	return nil
}

// PortType is the closed set of value types a port may carry.
type PortType string

// The closed set of port types. No other type may appear in a port
// declaration or a Value.
const (
	PortFloat   PortType = "Float"
	PortInteger PortType = "Integer"
	PortBool    PortType = "Bool"
	PortColor   PortType = "Color"
	PortFrame   PortType = "Frame"
)

// PortInfo names and types one input or output port of a node kind.
type PortInfo struct {
	Name string
	Type PortType
}

// Value holds exactly one of the closed port-type set's representations,
// tagged by Type. Only the field matching Type is meaningful.
type Value struct {
	Type  PortType
	Float float64
	Int   int64
	Bool  bool
	Color frame.PixelColor
	Frame frame.Frame
}

// FloatValue wraps a float64 as a Float-typed Value.
func FloatValue(v float64) Value { return Value{Type: PortFloat, Float: v} }

// IntValue wraps an int64 as an Integer-typed Value.
func IntValue(v int64) Value { return Value{Type: PortInteger, Int: v} }

// BoolValue wraps a bool as a Bool-typed Value.
func BoolValue(v bool) Value { return Value{Type: PortBool, Bool: v} }

// ColorValue wraps a PixelColor as a Color-typed Value.
func ColorValue(v frame.PixelColor) Value { return Value{Type: PortColor, Color: v} }

// FrameValue wraps a Frame as a Frame-typed Value.
func FrameValue(v frame.Frame) Value { return Value{Type: PortFrame, Frame: v} }

// AsFloat coerces a Float or Integer value to float64; any other type
// returns 0. Arithmetic nodes use this so Integer and Float literals can
// feed the same operator without a separate node per type.
func (v Value) AsFloat() float64 {
	switch v.Type {
	case PortFloat:
		return v.Float
	case PortInteger:
		return float64(v.Int)
	default:
		return 0
	}
}

// Node is one vertex of a Graph: an instance of a registered Kind,
// identified by a stable NodeID. Literal is only meaningful for the
// Literal* kinds, which have no inputs and produce Literal as their sole
// output.
type Node struct {
	ID      NodeID   `json:"id"`
	Kind    string   `json:"kind"`
	Literal *Literal `json:"literal,omitempty"`
}

// Literal is the constant carried by a Literal* node, tagged by its own
// Type so JSON round-trips without ambiguity.
type Literal struct {
	Type  PortType `json:"type"`
	Float float64  `json:"float,omitempty"`
	Int   int64    `json:"int,omitempty"`
	Bool  bool     `json:"bool,omitempty"`
}

// Value converts a Literal to the Value it produces.
func (l *Literal) Value() Value {
	if l == nil {
		return Value{}
	}
	switch l.Type {
	case PortFloat:
		return FloatValue(l.Float)
	case PortInteger:
		return IntValue(l.Int)
	case PortBool:
		return BoolValue(l.Bool)
	default:
		return Value{}
	}
}

// Connection wires one node's output port to another node's input port.
type Connection struct {
	FromNode   NodeID `json:"from_node"`
	FromOutput int    `json:"from_output"`
	ToNode     NodeID `json:"to_node"`
	ToInput    int    `json:"to_input"`
}
