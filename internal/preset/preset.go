// Package preset stores the named effect presets and temporary-effect
// presets the control surface offers, persisted as a single JSON document.
package preset

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/Glitch752/RoomLEDs/internal/effects"
	"github.com/Glitch752/RoomLEDs/internal/expr"
	"github.com/Glitch752/RoomLEDs/internal/frame"
)

// Preset is a named, iconed effect tree a client can select as the root
// effect.
type Preset struct {
	ID     uuid.UUID   `json:"id"`
	Name   string      `json:"name"`
	Icon   string      `json:"icon"`
	Effect *effects.Any `json:"effect"`
}

// TemporaryPreset is a named temporary effect a client can enqueue.
type TemporaryPreset struct {
	ID     uuid.UUID                  `json:"id"`
	Name   string                     `json:"name"`
	Effect *effects.AnyTemporaryEffect `json:"effect"`
}

// Summary is the list-view projection of a Preset: enough to render a
// picker without shipping the full effect tree.
type Summary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Icon string    `json:"icon"`
}

// TemporarySummary is the list-view projection of a TemporaryPreset.
type TemporarySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// document is the on-disk JSON shape.
type document struct {
	Presets          []Preset          `json:"presets"`
	TemporaryEffects []TemporaryPreset `json:"temporary_effects"`
}

// ErrNotFound is returned by the update/remove/get operations when no
// preset or temporary preset matches the given ID.
var ErrNotFound = fmt.Errorf("preset: not found")

// Store is the RWMutex-guarded in-memory preset collection. The zero value
// is an empty store; Load and NewDefault build populated ones.
type Store struct {
	mu               sync.RWMutex
	presets          []Preset
	temporaryEffects []TemporaryPreset
}

// Load reads a Store from r. A decode failure is reported to the caller
// rather than silently substituted, so callers (typically the entrypoint,
// reading a config file at startup) can decide whether to fall back to
// NewDefault themselves — mirroring the "log and revert to defaults" policy
// the original implementation applied at the call site.
func Load(r io.Reader) (*Store, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("preset: decoding store: %w", err)
	}
	return &Store{presets: doc.Presets, temporaryEffects: doc.TemporaryEffects}, nil
}

// Save writes the current Store contents to w as JSON.
func (s *Store) Save(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := document{Presets: s.presets, TemporaryEffects: s.temporaryEffects}
	if doc.Presets == nil {
		doc.Presets = []Preset{}
	}
	if doc.TemporaryEffects == nil {
		doc.TemporaryEffects = []TemporaryPreset{}
	}
	return json.NewEncoder(w).Encode(doc)
}

// NewDefault builds the built-in preset list for a pixels-pixel
// installation: websocket input, rainbow stripes, a rotated music
// visualizer, flashing red, solid white, and solid black.
func NewDefault(pixels int, musicVisualizerPort int) *Store {
	rainbow := []frame.PixelColor{
		frame.NewOpaque(255, 0, 0),
		frame.NewOpaque(255, 100, 0),
		frame.NewOpaque(255, 255, 0),
		frame.NewOpaque(0, 255, 0),
		frame.NewOpaque(0, 0, 255),
		frame.NewOpaque(143, 0, 255),
		frame.NewOpaque(255, 255, 255),
	}

	return &Store{
		presets: []Preset{
			{ID: uuid.New(), Name: "Websocket Input", Icon: "fas fa-plug", Effect: effects.NewWebsocketInput()},
			{ID: uuid.New(), Name: "Rainbow stripes", Icon: "fas fa-rainbow", Effect: effects.NewStripe(pixels/28, rainbow)},
			{
				ID:   uuid.New(),
				Name: "Music visualizer",
				Icon: "fas fa-music",
				Effect: effects.NewRotate(
					effects.NewMusicVisualizer(musicVisualizerPort),
					expr.NewLiteral(-219),
				),
			},
			{
				ID:   uuid.New(),
				Name: "Flashing red",
				Icon: "fas fa-bolt",
				Effect: effects.NewFlashingColor(1, 0,
					frame.NewPixelColor(255, 0, 0, 1),
					frame.NewPixelColor(255, 0, 0, 0)),
			},
			{ID: uuid.New(), Name: "Solid white", Icon: "fas fa-sun", Effect: effects.NewSolidColor(frame.NewOpaque(255, 255, 255), 0, pixels)},
			{ID: uuid.New(), Name: "Solid black", Icon: "fas fa-moon", Effect: effects.NewSolidColor(frame.NewOpaque(0, 0, 0), 0, pixels)},
		},
	}
}

// AddPreset appends a new named preset.
func (s *Store) AddPreset(name, icon string, effect *effects.Any) Preset {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Preset{ID: uuid.New(), Name: name, Icon: icon, Effect: effect}
	s.presets = append(s.presets, p)
	return p
}

// AddTemporaryEffect appends a new named temporary-effect preset.
func (s *Store) AddTemporaryEffect(name string, effect *effects.AnyTemporaryEffect) TemporaryPreset {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := TemporaryPreset{ID: uuid.New(), Name: name, Effect: effect}
	s.temporaryEffects = append(s.temporaryEffects, p)
	return p
}

// UpdatePreset replaces the preset identified by id in place.
func (s *Store) UpdatePreset(id uuid.UUID, name, icon string, effect *effects.Any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.presets {
		if s.presets[i].ID == id {
			s.presets[i] = Preset{ID: id, Name: name, Icon: icon, Effect: effect}
			return nil
		}
	}
	return ErrNotFound
}

// UpdateTemporaryEffect replaces the temporary preset identified by id in
// place.
func (s *Store) UpdateTemporaryEffect(id uuid.UUID, name string, effect *effects.AnyTemporaryEffect) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.temporaryEffects {
		if s.temporaryEffects[i].ID == id {
			s.temporaryEffects[i] = TemporaryPreset{ID: id, Name: name, Effect: effect}
			return nil
		}
	}
	return ErrNotFound
}

// RemovePreset deletes the preset identified by id.
func (s *Store) RemovePreset(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.presets {
		if s.presets[i].ID == id {
			s.presets = append(s.presets[:i], s.presets[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// RemoveTemporaryEffect deletes the temporary preset identified by id.
func (s *Store) RemoveTemporaryEffect(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.temporaryEffects {
		if s.temporaryEffects[i].ID == id {
			s.temporaryEffects = append(s.temporaryEffects[:i], s.temporaryEffects[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// GetPreset returns the effect tree for id.
func (s *Store) GetPreset(id uuid.UUID) (*effects.Any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.presets {
		if p.ID == id {
			return p.Effect, nil
		}
	}
	return nil, ErrNotFound
}

// GetTemporaryEffect returns the temporary effect for id.
func (s *Store) GetTemporaryEffect(id uuid.UUID) (*effects.AnyTemporaryEffect, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.temporaryEffects {
		if p.ID == id {
			return p.Effect, nil
		}
	}
	return nil, ErrNotFound
}

// ListPresets returns the list-view projection of every preset.
func (s *Store) ListPresets() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, len(s.presets))
	for i, p := range s.presets {
		out[i] = Summary{ID: p.ID, Name: p.Name, Icon: p.Icon}
	}
	return out
}

// ListTemporaryEffects returns the list-view projection of every temporary
// preset.
func (s *Store) ListTemporaryEffects() []TemporarySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TemporarySummary, len(s.temporaryEffects))
	for i, p := range s.temporaryEffects {
		out[i] = TemporarySummary{ID: p.ID, Name: p.Name}
	}
	return out
}
