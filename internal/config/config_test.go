package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Glitch752/RoomLEDs/internal/output"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 812, cfg.PixelCount)
	assert.Len(t, cfg.Spans, 5)
	assert.Equal(t, output.BaudRate, cfg.DriverBaudRate)
	assert.InDelta(t, 2.2, cfg.Gamma, 1e-9)
	assert.Equal(t, 300.0, cfg.Idle.RisingDebounceSeconds)
	assert.Equal(t, 0.0, cfg.Idle.FallingDebounceSeconds)
	assert.Equal(t, "192.168.68.131", cfg.Idle.PlugIP)
	assert.Equal(t, "kauf_plug", cfg.Idle.PlugSwitchID)
	assert.Equal(t, "kauf_plug_power", cfg.Idle.PlugSensorID)
	assert.Equal(t, 9000, cfg.MusicVisualizerPort)
}

func TestSpatialMapCoversEveryPixel(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	m, err := cfg.SpatialMap()
	require.NoError(t, err)
	assert.Len(t, m.Locations(), cfg.PixelCount)
}

func TestStrandLocationsMatchDefaultsWhenUnset(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	strands := cfg.StrandLocations()
	assert.Equal(t, output.DriverLocations[0], strands[0])
	assert.Equal(t, output.DriverLocations[1], strands[1])
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pixel_count: 100\ngamma: 1.0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.PixelCount)
	assert.InDelta(t, 1.0, cfg.Gamma, 1e-9)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 812, cfg.PixelCount)
}
