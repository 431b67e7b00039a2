package expr

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteralAndCurrentTime(t *testing.T) {
	assert.Equal(t, 4.5, NewLiteral(4.5).Compute(Context{}))
	assert.Equal(t, 12.0, NewCurrentTime().Compute(Context{CurrentTime: 12.0}))
}

func TestArithmetic(t *testing.T) {
	ctx := Context{CurrentTime: 2}
	assert.Equal(t, 7.0, NewAdd(NewLiteral(3), NewLiteral(4)).Compute(ctx))
	assert.Equal(t, -1.0, NewSubtract(NewLiteral(3), NewLiteral(4)).Compute(ctx))
	assert.Equal(t, 12.0, NewMultiply(NewLiteral(3), NewLiteral(4)).Compute(ctx))
	assert.Equal(t, 2.0, NewDivide(NewLiteral(8), NewLiteral(4)).Compute(ctx))
}

func TestDivideByZeroIsNotAnError(t *testing.T) {
	ctx := Context{}
	assert.True(t, math.IsInf(NewDivide(NewLiteral(1), NewLiteral(0)).Compute(ctx), 1))
	assert.True(t, math.IsInf(NewDivide(NewLiteral(-1), NewLiteral(0)).Compute(ctx), -1))
	assert.True(t, math.IsNaN(NewDivide(NewLiteral(0), NewLiteral(0)).Compute(ctx)))
}

func TestRounding(t *testing.T) {
	ctx := Context{}
	assert.Equal(t, 2.0, NewRound(NewLiteral(1.5)).Compute(ctx))
	assert.Equal(t, 2.0, NewCeil(NewLiteral(1.1)).Compute(ctx))
	assert.Equal(t, 1.0, NewFloor(NewLiteral(1.9)).Compute(ctx))
}

func TestJSONRoundTrip(t *testing.T) {
	tree := NewRound(NewAdd(NewCurrentTime(), NewDivide(NewLiteral(10), NewLiteral(3))))

	data, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"Round"`)

	var decoded Any
	require.NoError(t, json.Unmarshal(data, &decoded))

	ctx := Context{CurrentTime: 5}
	assert.Equal(t, tree.Compute(ctx), decoded.Compute(ctx))
}

func TestJSONRoundTripAllVariants(t *testing.T) {
	leaf := NewLiteral(1)
	variants := []*Any{
		NewLiteral(3.25),
		NewCurrentTime(),
		NewAdd(leaf, leaf),
		NewSubtract(leaf, leaf),
		NewMultiply(leaf, leaf),
		NewDivide(leaf, leaf),
		NewRound(leaf),
		NewCeil(leaf),
		NewFloor(leaf),
	}

	for _, v := range variants {
		data, err := json.Marshal(v)
		require.NoError(t, err)

		var decoded Any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, v.Compute(Context{CurrentTime: 1}), decoded.Compute(Context{CurrentTime: 1}))
	}
}

func TestUnmarshalUnknownTypeErrors(t *testing.T) {
	var decoded Any
	err := json.Unmarshal([]byte(`{"type":"Modulo","left":{"type":"Literal","value":1},"right":{"type":"Literal","value":1}}`), &decoded)
	assert.Error(t, err)
}
