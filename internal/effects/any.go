package effects

import (
	"encoding/json"
	"fmt"

	"github.com/Glitch752/RoomLEDs/internal/frame"
)

// Any wraps any Effect for serialization as a tagged JSON object. The zero
// value is invalid; build one with the New* constructors or by unmarshaling
// JSON produced by a previous MarshalJSON call.
type Any struct {
	kind   string
	effect Effect
}

// Render implements Effect by delegating to the wrapped variant. A nil
// wrapped effect renders an empty frame rather than panicking, so a
// zero-value Any is safe to render (e.g. an unset Rotate.Child).
func (a *Any) Render(ctx RenderContext, info *RenderInfo) frame.Frame {
	if a == nil || a.effect == nil {
		return frame.Empty(ctx.Pixels)
	}
	return a.effect.Render(ctx, info)
}

// Kind returns the tagged-union discriminator, e.g. "SolidColor".
func (a *Any) Kind() string {
	if a == nil {
		return ""
	}
	return a.kind
}

// Unwrap returns the concrete effect this Any wraps.
func (a *Any) Unwrap() Effect {
	if a == nil {
		return nil
	}
	return a.effect
}

func wrap(kind string, e Effect) *Any {
	return &Any{kind: kind, effect: e}
}

// MarshalJSON writes {"type": <kind>, ...fields}.
func (a Any) MarshalJSON() ([]byte, error) {
	inner, err := json.Marshal(a.effect)
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
// effect variant. An unrecognized discriminator is an error; callers that
// want "keep the previous effect on decode failure" semantics (the control
// plane's ReplaceEffect contract) must check the error themselves.
func (a *Any) UnmarshalJSON(data []byte) error {
	var disc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &disc); err != nil {
		return err
	}

	var e Effect
	switch disc.Type {
	case "SolidColor":
		var v SolidColor
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		e = &v
	case "FlashingColor":
		var v FlashingColor
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		e = &v
	case "Stripe":
		var v Stripe
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		e = &v
	case "WebsocketInput":
		e = &WebsocketInput{}
	case "MusicVisualizer":
		var v MusicVisualizer
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		if err := v.start(); err != nil {
			return err
		}
		e = &v
	case "Rotate":
		var v Rotate
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		e = &v
	case "AdditiveCompositor":
		var v compositorJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		e = &AdditiveCompositor{Children: v.Children}
	case "AlphaCompositor":
		var v compositorJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		e = &AlphaCompositor{Children: v.Children}
	case "NodeEditor":
		var v NodeEditor
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		if err := v.compile(); err != nil {
			return err
		}
		e = &v
	default:
		return fmt.Errorf("effects: unknown effect type %q", disc.Type)
	}

	a.kind = disc.Type
	a.effect = e
	return nil
}

type compositorJSON struct {
	Children []*Any `json:"children"`
}
