package nodegraph

import (
	"math"

	"github.com/Glitch752/RoomLEDs/internal/frame"
)

// Definition describes one node kind: its port shape and its evaluation
// function. Eval receives the node instance (so Literal* kinds can read
// their constant), exactly len(Inputs) values in port order, and the
// destination pixel count (meaningful only to Frame-producing kinds). It
// must return exactly len(Outputs) values, in port order.
type Definition struct {
	Inputs  []PortInfo
	Outputs []PortInfo
	Eval    func(node *Node, inputs []Value, pixels int) ([]Value, error)
}

// Registry maps a node kind name to its Definition. The registry is
// populated once at startup from DefaultRegistry and never mutated by the
// graph evaluator.
type Registry map[string]Definition

func unary(name string, f func(float64) float64) Definition {
	return Definition{
		Inputs:  []PortInfo{{Name: "x", Type: PortFloat}},
		Outputs: []PortInfo{{Name: name, Type: PortFloat}},
		Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
			return []Value{FloatValue(f(in[0].AsFloat()))}, nil
		},
	}
}

func binaryFloat(name string, f func(a, b float64) float64) Definition {
	return Definition{
		Inputs:  []PortInfo{{Name: "a", Type: PortFloat}, {Name: "b", Type: PortFloat}},
		Outputs: []PortInfo{{Name: name, Type: PortFloat}},
		Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
			return []Value{FloatValue(f(in[0].AsFloat(), in[1].AsFloat()))}, nil
		},
	}
}

func comparison(name string, f func(a, b float64) bool) Definition {
	return Definition{
		Inputs:  []PortInfo{{Name: "a", Type: PortFloat}, {Name: "b", Type: PortFloat}},
		Outputs: []PortInfo{{Name: name, Type: PortBool}},
		Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
			return []Value{BoolValue(f(in[0].AsFloat(), in[1].AsFloat()))}, nil
		},
	}
}

func booleanBinary(name string, f func(a, b bool) bool) Definition {
	return Definition{
		Inputs:  []PortInfo{{Name: "a", Type: PortBool}, {Name: "b", Type: PortBool}},
		Outputs: []PortInfo{{Name: name, Type: PortBool}},
		Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
			return []Value{BoolValue(f(in[0].Bool, in[1].Bool))}, nil
		},
	}
}

// DefaultRegistry builds the registry of built-in node kinds: arithmetic,
// comparisons, boolean logic, color composition, and literal constants.
func DefaultRegistry() Registry {
	r := Registry{
		"Add":      binaryFloat("add", func(a, b float64) float64 { return a + b }),
		"Subtract": binaryFloat("subtract", func(a, b float64) float64 { return a - b }),
		"Multiply": binaryFloat("multiply", func(a, b float64) float64 { return a * b }),
		"Divide":   binaryFloat("divide", func(a, b float64) float64 { return a / b }),
		"Min":      binaryFloat("min", math.Min),
		"Max":      binaryFloat("max", math.Max),
		"Pow":      binaryFloat("pow", math.Pow),

		"Abs":   unary("abs", math.Abs),
		"Floor": unary("floor", math.Floor),
		"Ceil":  unary("ceil", math.Ceil),
		"Round": unary("round", math.Round),
		"Sqrt":  unary("sqrt", math.Sqrt),
		"Sin":   unary("sin", math.Sin),
		"Cos":   unary("cos", math.Cos),
		"Tan":   unary("tan", math.Tan),

		"Clamp": {
			Inputs:  []PortInfo{{Name: "x", Type: PortFloat}, {Name: "min", Type: PortFloat}, {Name: "max", Type: PortFloat}},
			Outputs: []PortInfo{{Name: "clamped", Type: PortFloat}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				x, lo, hi := in[0].AsFloat(), in[1].AsFloat(), in[2].AsFloat()
				if x < lo {
					x = lo
				}
				if x > hi {
					x = hi
				}
				return []Value{FloatValue(x)}, nil
			},
		},

		"LessThan":           comparison("less_than", func(a, b float64) bool { return a < b }),
		"LessThanOrEqual":    comparison("less_than_or_equal", func(a, b float64) bool { return a <= b }),
		"Equal":              comparison("equal", func(a, b float64) bool { return a == b }),
		"NotEqual":           comparison("not_equal", func(a, b float64) bool { return a != b }),
		"GreaterThan":        comparison("greater_than", func(a, b float64) bool { return a > b }),
		"GreaterThanOrEqual": comparison("greater_than_or_equal", func(a, b float64) bool { return a >= b }),

		"And": booleanBinary("and", func(a, b bool) bool { return a && b }),
		"Or":  booleanBinary("or", func(a, b bool) bool { return a || b }),
		"Not": {
			Inputs:  []PortInfo{{Name: "a", Type: PortBool}},
			Outputs: []PortInfo{{Name: "not", Type: PortBool}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				return []Value{BoolValue(!in[0].Bool)}, nil
			},
		},

		"LiteralFloat": {
			Outputs: []PortInfo{{Name: "value", Type: PortFloat}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				return []Value{node.Literal.Value()}, nil
			},
		},
		"LiteralInteger": {
			Outputs: []PortInfo{{Name: "value", Type: PortInteger}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				return []Value{node.Literal.Value()}, nil
			},
		},
		"LiteralBool": {
			Outputs: []PortInfo{{Name: "value", Type: PortBool}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				return []Value{node.Literal.Value()}, nil
			},
		},

		"SplitRGB": {
			Inputs:  []PortInfo{{Name: "color", Type: PortColor}},
			Outputs: []PortInfo{{Name: "r", Type: PortFloat}, {Name: "g", Type: PortFloat}, {Name: "b", Type: PortFloat}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				c := in[0].Color
				return []Value{FloatValue(float64(c.R)), FloatValue(float64(c.G)), FloatValue(float64(c.B))}, nil
			},
		},
		"CombineRGB": {
			Inputs:  []PortInfo{{Name: "r", Type: PortFloat}, {Name: "g", Type: PortFloat}, {Name: "b", Type: PortFloat}},
			Outputs: []PortInfo{{Name: "color", Type: PortColor}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				return []Value{ColorValue(frame.NewOpaque(u8(in[0].AsFloat()), u8(in[1].AsFloat()), u8(in[2].AsFloat())))}, nil
			},
		},
		"SplitRGBA": {
			Inputs:  []PortInfo{{Name: "color", Type: PortColor}},
			Outputs: []PortInfo{{Name: "r", Type: PortFloat}, {Name: "g", Type: PortFloat}, {Name: "b", Type: PortFloat}, {Name: "a", Type: PortFloat}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				c := in[0].Color
				return []Value{FloatValue(float64(c.R)), FloatValue(float64(c.G)), FloatValue(float64(c.B)), FloatValue(c.Alpha)}, nil
			},
		},
		"CombineRGBA": {
			Inputs:  []PortInfo{{Name: "r", Type: PortFloat}, {Name: "g", Type: PortFloat}, {Name: "b", Type: PortFloat}, {Name: "a", Type: PortFloat}},
			Outputs: []PortInfo{{Name: "color", Type: PortColor}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				return []Value{ColorValue(frame.NewPixelColor(u8(in[0].AsFloat()), u8(in[1].AsFloat()), u8(in[2].AsFloat()), in[3].AsFloat()))}, nil
			},
		},
		"SplitHSL": {
			Inputs:  []PortInfo{{Name: "color", Type: PortColor}},
			Outputs: []PortInfo{{Name: "h", Type: PortFloat}, {Name: "s", Type: PortFloat}, {Name: "l", Type: PortFloat}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				h, s, l := in[0].Color.HSL()
				return []Value{FloatValue(h), FloatValue(s), FloatValue(l)}, nil
			},
		},
		"CombineHSL": {
			Inputs:  []PortInfo{{Name: "h", Type: PortFloat}, {Name: "s", Type: PortFloat}, {Name: "l", Type: PortFloat}},
			Outputs: []PortInfo{{Name: "color", Type: PortColor}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				return []Value{ColorValue(frame.FromHSL(in[0].AsFloat(), in[1].AsFloat(), in[2].AsFloat(), 1))}, nil
			},
		},
		"SplitHSLA": {
			Inputs:  []PortInfo{{Name: "color", Type: PortColor}},
			Outputs: []PortInfo{{Name: "h", Type: PortFloat}, {Name: "s", Type: PortFloat}, {Name: "l", Type: PortFloat}, {Name: "a", Type: PortFloat}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				h, s, l := in[0].Color.HSL()
				return []Value{FloatValue(h), FloatValue(s), FloatValue(l), FloatValue(in[0].Color.Alpha)}, nil
			},
		},
		"CombineHSLA": {
			Inputs:  []PortInfo{{Name: "h", Type: PortFloat}, {Name: "s", Type: PortFloat}, {Name: "l", Type: PortFloat}, {Name: "a", Type: PortFloat}},
			Outputs: []PortInfo{{Name: "color", Type: PortColor}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				return []Value{ColorValue(frame.FromHSL(in[0].AsFloat(), in[1].AsFloat(), in[2].AsFloat(), in[3].AsFloat()))}, nil
			},
		},
		"LerpColor": {
			Inputs:  []PortInfo{{Name: "a", Type: PortColor}, {Name: "b", Type: PortColor}, {Name: "t", Type: PortFloat}},
			Outputs: []PortInfo{{Name: "color", Type: PortColor}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				return []Value{ColorValue(in[0].Color.Lerp(in[1].Color, in[2].AsFloat()))}, nil
			},
		},

		// SolidFrame and Output bridge the node graph into the effect graph:
		// SolidFrame paints every pixel of a pixels-sized Frame the same
		// color, and Output is the sink Graph.EvaluateFrame looks for.
		"SolidFrame": {
			Inputs:  []PortInfo{{Name: "color", Type: PortColor}},
			Outputs: []PortInfo{{Name: "frame", Type: PortFrame}},
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				f := frame.Empty(pixels)
				for i := 0; i < pixels; i++ {
					f.Set(i, in[0].Color)
				}
				return []Value{FrameValue(f)}, nil
			},
		},
		"Output": {
			Inputs:  []PortInfo{{Name: "frame", Type: PortFrame}},
			Outputs: nil,
			Eval: func(node *Node, in []Value, pixels int) ([]Value, error) {
				return nil, nil
			},
		},
	}
	return r
}

func u8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
