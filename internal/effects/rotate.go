package effects

import (
	"math"

	"github.com/Glitch752/RoomLEDs/internal/expr"
	"github.com/Glitch752/RoomLEDs/internal/frame"
)

// Rotate renders Child and rotates its output by Rotation pixels, positive
// meaning right. Rotation is an expression evaluated fresh every frame and
// rounded to the nearest integer; indexing uses Euclidean remainder so
// negative rotations and pixel counts that don't divide evenly both behave.
type Rotate struct {
	Child    *Any      `json:"child"`
	Rotation *expr.Any `json:"rotation"`
}

// NewRotate wraps a Rotate effect as an Any.
func NewRotate(child *Any, rotation *expr.Any) *Any {
	return wrap("Rotate", &Rotate{Child: child, Rotation: rotation})
}

// Render implements Effect.
func (r *Rotate) Render(ctx RenderContext, info *RenderInfo) frame.Frame {
	child := r.Child.Render(ctx, info)
	if child.Len() == 0 {
		return child
	}

	rotation := 0
	if r.Rotation != nil {
		rotation = int(math.Round(r.Rotation.Compute(expr.Context{CurrentTime: ctx.Time})))
	}

	n := child.Len()
	out := frame.Empty(n)
	for i := 0; i < n; i++ {
		src := euclideanMod(i-rotation, n)
		out.Set(i, child.Get(src))
	}
	return out
}

func euclideanMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
