// Package expr implements the composable numeric expression sub-language
// used for effect parameters such as Rotate's rotation amount: a small,
// strict-eval tree of float64-valued nodes that round-trips through JSON as
// a tagged union.
package expr

import (
	"encoding/json"
	"fmt"
	"math"
)

// Context carries the values expressions may read.
type Context struct {
	// CurrentTime is the cumulative render time in seconds.
	CurrentTime float64
}

// Expression is a node in the expression tree.
type Expression interface {
	Compute(ctx Context) float64
}

// Any wraps any Expression for serialization. The zero value is invalid;
// construct via the New* helpers or JSON unmarshaling.
type Any struct {
	kind string
	expr Expression
}

// Compute evaluates the wrapped expression.
func (a Any) Compute(ctx Context) float64 {
	if a.expr == nil {
		return 0
	}
	return a.expr.Compute(ctx)
}

func wrap(kind string, e Expression) *Any {
	return &Any{kind: kind, expr: e}
}

// NewLiteral returns a constant-valued expression.
func NewLiteral(value float64) *Any { return wrap("Literal", Literal{Value: value}) }

// NewCurrentTime returns an expression that reads the render clock.
func NewCurrentTime() *Any { return wrap("CurrentTime", CurrentTime{}) }

// NewAdd returns left + right.
func NewAdd(left, right *Any) *Any { return wrap("Add", Add{Left: left, Right: right}) }

// NewSubtract returns left - right.
func NewSubtract(left, right *Any) *Any { return wrap("Subtract", Subtract{Left: left, Right: right}) }

// NewMultiply returns left * right.
func NewMultiply(left, right *Any) *Any { return wrap("Multiply", Multiply{Left: left, Right: right}) }

// NewDivide returns left / right. Division by zero yields +/-Inf or NaN per
// IEEE-754, never an error.
func NewDivide(left, right *Any) *Any { return wrap("Divide", Divide{Left: left, Right: right}) }

// NewRound returns round(number).
func NewRound(number *Any) *Any { return wrap("Round", Round{Number: number}) }

// NewCeil returns ceil(number).
func NewCeil(number *Any) *Any { return wrap("Ceil", Ceil{Number: number}) }

// NewFloor returns floor(number).
func NewFloor(number *Any) *Any { return wrap("Floor", Floor{Number: number}) }

// Literal is a constant value.
type Literal struct {
	Value float64 `json:"value"`
}

// Compute implements Expression.
func (l Literal) Compute(Context) float64 { return l.Value }

// CurrentTime reads the render context's cumulative time.
type CurrentTime struct{}

// Compute implements Expression.
func (CurrentTime) Compute(ctx Context) float64 { return ctx.CurrentTime }

// Add computes Left + Right.
type Add struct {
	Left, Right *Any
}

// Compute implements Expression.
func (a Add) Compute(ctx Context) float64 { return a.Left.Compute(ctx) + a.Right.Compute(ctx) }

// Subtract computes Left - Right.
type Subtract struct {
	Left, Right *Any
}

// Compute implements Expression.
func (s Subtract) Compute(ctx Context) float64 { return s.Left.Compute(ctx) - s.Right.Compute(ctx) }

// Multiply computes Left * Right.
type Multiply struct {
	Left, Right *Any
}

// Compute implements Expression.
func (m Multiply) Compute(ctx Context) float64 { return m.Left.Compute(ctx) * m.Right.Compute(ctx) }

// Divide computes Left / Right. IEEE-754 semantics apply: division by zero
// produces infinity or NaN rather than an error.
type Divide struct {
	Left, Right *Any
}

// Compute implements Expression.
func (d Divide) Compute(ctx Context) float64 { return d.Left.Compute(ctx) / d.Right.Compute(ctx) }

// Round rounds Number to the nearest integer, ties away from zero.
type Round struct {
	Number *Any
}

// Compute implements Expression.
func (r Round) Compute(ctx Context) float64 { return math.Round(r.Number.Compute(ctx)) }

// Ceil rounds Number up.
type Ceil struct {
	Number *Any
}

// Compute implements Expression.
func (c Ceil) Compute(ctx Context) float64 { return math.Ceil(c.Number.Compute(ctx)) }

// Floor rounds Number down.
type Floor struct {
	Number *Any
}

// Compute implements Expression.
func (f Floor) Compute(ctx Context) float64 { return math.Floor(f.Number.Compute(ctx)) }

// MarshalJSON writes {"type": <kind>, ...fields} so the tree round-trips
// through the same tagged-union shape the render-state JSON API uses for
// effects.
func (a Any) MarshalJSON() ([]byte, error) {
	inner, err := json.Marshal(a.expr)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(inner, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	typeTag, err := json.Marshal(a.kind)
	if err != nil {
		return nil, err
	}
	fields["type"] = typeTag
	return json.Marshal(fields)
}

// UnmarshalJSON dispatches on the "type" discriminator to the concrete
// expression variant.
func (a *Any) UnmarshalJSON(data []byte) error {
	var disc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &disc); err != nil {
		return err
	}

	var expr Expression
	switch disc.Type {
	case "Literal":
		var v Literal
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		expr = v
	case "CurrentTime":
		expr = CurrentTime{}
	case "Add":
		var v Add
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		expr = v
	case "Subtract":
		var v Subtract
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		expr = v
	case "Multiply":
		var v Multiply
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		expr = v
	case "Divide":
		var v Divide
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		expr = v
	case "Round":
		var v Round
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		expr = v
	case "Ceil":
		var v Ceil
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		expr = v
	case "Floor":
		var v Floor
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		expr = v
	default:
		return fmt.Errorf("expr: unknown expression type %q", disc.Type)
	}

	a.kind = disc.Type
	a.expr = expr
	return nil
}
