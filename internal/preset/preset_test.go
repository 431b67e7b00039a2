package preset

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Glitch752/RoomLEDs/internal/effects"
	"github.com/Glitch752/RoomLEDs/internal/frame"
)

func TestNewDefaultHasSixPresets(t *testing.T) {
	s := NewDefault(812, 9000)
	assert.Len(t, s.ListPresets(), 6)
	assert.Empty(t, s.ListTemporaryEffects())
}

func TestAddGetUpdateRemovePreset(t *testing.T) {
	s := &Store{}
	added := s.AddPreset("Test", "fas fa-test", effects.NewSolidColor(frame.Black, 0, 10))

	got, err := s.GetPreset(added.ID)
	require.NoError(t, err)
	assert.Equal(t, "SolidColor", got.Kind())

	require.NoError(t, s.UpdatePreset(added.ID, "Renamed", "fas fa-star", effects.NewSolidColor(frame.Black, 0, 10)))
	list := s.ListPresets()
	require.Len(t, list, 1)
	assert.Equal(t, "Renamed", list[0].Name)

	require.NoError(t, s.RemovePreset(added.ID))
	assert.Empty(t, s.ListPresets())
}

func TestGetMissingPresetIsNotFound(t *testing.T) {
	s := &Store{}
	_, err := s.GetPreset(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMissingTemporaryEffectIsNotFound(t *testing.T) {
	s := &Store{}
	err := s.UpdateTemporaryEffect(uuid.New(), "x", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewDefault(812, 9000)
	s.AddTemporaryEffect("Flash", effects.NewDurationTemporaryEffect(
		effects.NewSolidColor(frame.NewOpaque(255, 0, 0), 0, 10), 2))

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Len(t, loaded.ListPresets(), 6)
	assert.Len(t, loaded.ListTemporaryEffects(), 1)
}

func TestLoadMalformedDocumentErrors(t *testing.T) {
	_, err := Load(bytes.NewBufferString("not json"))
	assert.Error(t, err)
}
