// Package config loads the installation's typed configuration: pixel
// count and spatial layout, per-driver strand wiring, render filters, the
// idle-power controller, and the music-visualizer listener. Configuration
// is read with viper, so it can come from environment variables (prefixed
// ROOMLEDS_), a file, or defaults, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Glitch752/RoomLEDs/internal/output"
	"github.com/Glitch752/RoomLEDs/internal/spatialmap"
)

// envPrefix is the environment-variable prefix viper binds every key under,
// e.g. ROOMLEDS_PIXEL_COUNT.
const envPrefix = "ROOMLEDS"

// Span mirrors the arguments of spatialmap.Builder.AddSpan as a plain,
// viper-friendly struct (no constructor, decoded straight off of config).
type Span struct {
	Start      int     `mapstructure:"start"`
	End        int     `mapstructure:"end"`
	FromX      float64 `mapstructure:"from_x_inches"`
	FromY      float64 `mapstructure:"from_y_inches"`
	ToX        float64 `mapstructure:"to_x_inches"`
	ToY        float64 `mapstructure:"to_y_inches"`
}

// DriverStrand mirrors output.StrandLocation for config decoding.
type DriverStrand struct {
	Start int `mapstructure:"start"`
	End   int `mapstructure:"end"`
}

// IdleConfig configures the debounced idle-power controller and the smart
// plug it drives.
type IdleConfig struct {
	RisingDebounceSeconds  float64 `mapstructure:"rising_debounce_seconds"`
	FallingDebounceSeconds float64 `mapstructure:"falling_debounce_seconds"`
	PlugIP                 string  `mapstructure:"plug_ip"`
	PlugSwitchID           string  `mapstructure:"plug_switch_id"`
	PlugSensorID           string  `mapstructure:"plug_sensor_id"`
}

// Config is the fully decoded, typed configuration for one installation.
type Config struct {
	PixelCount int    `mapstructure:"pixel_count"`
	Spans      []Span `mapstructure:"spans"`

	DriverBaudRate int            `mapstructure:"driver_baud_rate"`
	DriverStrands  []DriverStrand `mapstructure:"driver_strands"`

	Gamma float64 `mapstructure:"gamma"`

	Idle IdleConfig `mapstructure:"idle"`

	MusicVisualizerPort int `mapstructure:"music_visualizer_port"`
}

// defaults reproduces the hard-coded installation this system was built
// for: 812 pixels across five wall spans, two driver strands, gamma 2.2,
// a 5-minute rising / 0-second falling idle debounce, and the smart plug
// at its known address.
func defaults(v *viper.Viper) {
	v.SetDefault("pixel_count", 812)
	v.SetDefault("spans", []map[string]interface{}{
		{"start": -14, "end": 187, "from_x_inches": 0.0, "from_y_inches": 0.0, "to_x_inches": 0.0, "to_y_inches": 132.0},
		{"start": 187, "end": 406, "from_x_inches": 0.0, "from_y_inches": 132.0, "to_x_inches": 144.0, "to_y_inches": 132.0},
		{"start": 406, "end": 558, "from_x_inches": 144.0, "from_y_inches": 132.0, "to_x_inches": 144.0, "to_y_inches": 32.0},
		{"start": 558, "end": 623, "from_x_inches": 144.0, "from_y_inches": 32.0, "to_x_inches": 114.0, "to_y_inches": 0.0},
		{"start": 623, "end": 798, "from_x_inches": 114.0, "from_y_inches": 0.0, "to_x_inches": 0.0, "to_y_inches": 0.0},
	})

	v.SetDefault("driver_baud_rate", output.BaudRate)
	v.SetDefault("driver_strands", []map[string]interface{}{
		{"start": output.DriverLocations[0].Start, "end": output.DriverLocations[0].End},
		{"start": output.DriverLocations[1].Start, "end": output.DriverLocations[1].End},
	})

	v.SetDefault("gamma", 2.2)

	v.SetDefault("idle.rising_debounce_seconds", 5*60)
	v.SetDefault("idle.falling_debounce_seconds", 0)
	v.SetDefault("idle.plug_ip", "192.168.68.131")
	v.SetDefault("idle.plug_switch_id", "kauf_plug")
	v.SetDefault("idle.plug_sensor_id", "kauf_plug_power")

	v.SetDefault("music_visualizer_port", 9000)
}

// Load reads configuration from configPath (if non-empty), environment
// variables prefixed ROOMLEDS_, and the installation defaults, in viper's
// usual precedence: env overrides the config file, which overrides
// defaults. A missing configPath is not an error; an unparsable one is.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults(v)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: checking %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	return &cfg, nil
}

// SpatialMap builds the spatialmap.Map this Config describes.
func (c *Config) SpatialMap() (*spatialmap.Map, error) {
	b := spatialmap.NewBuilder(c.PixelCount)
	for _, s := range c.Spans {
		from := spatialmap.FromInches(s.FromX, s.FromY)
		to := spatialmap.FromInches(s.ToX, s.ToY)
		b = b.AddSpan(s.Start, s.End, from, to)
	}
	m, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("config: building spatial map: %w", err)
	}
	return m, nil
}

// StrandLocations converts DriverStrands into output.StrandLocation,
// falling back to the compiled-in defaults when config supplies none.
func (c *Config) StrandLocations() [output.NumDrivers]output.StrandLocation {
	var out [output.NumDrivers]output.StrandLocation
	for i := range out {
		if i < len(c.DriverStrands) {
			out[i] = output.StrandLocation{Start: c.DriverStrands[i].Start, End: c.DriverStrands[i].End}
		} else {
			out[i] = output.DriverLocations[i]
		}
	}
	return out
}
