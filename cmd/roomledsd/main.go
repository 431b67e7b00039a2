// roomledsd renders and drives an LED installation: it evaluates the
// effect graph on a dedicated render thread, writes presented frames
// into a ring buffer, and dispatches them over serial to the
// microcontroller strands, while tracking installation idleness to
// power down the room's smart plug when nothing is lit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Glitch752/RoomLEDs/internal/config"
	"github.com/Glitch752/RoomLEDs/internal/control"
	"github.com/Glitch752/RoomLEDs/internal/filters"
	"github.com/Glitch752/RoomLEDs/internal/idle"
	"github.com/Glitch752/RoomLEDs/internal/output"
	"github.com/Glitch752/RoomLEDs/internal/preset"
	"github.com/Glitch752/RoomLEDs/internal/render"
	"github.com/Glitch752/RoomLEDs/internal/ring"
)

// ringCapacity is the SPSC frame ring's fixed depth between the render and
// output loops.
const ringCapacity = 2

// productionHostname is the single hostname the idle-power controller is
// permitted to act on; every other host only renders and observes.
const productionHostname = "lighting"

func mainImpl() error {
	configPath := flag.String("config", "", "path to a YAML/JSON/TOML configuration file")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	spatial, err := cfg.SpatialMap()
	if err != nil {
		return fmt.Errorf("building spatial map: %w", err)
	}

	state := render.New(cfg.PixelCount, spatial.Locations())
	presets := preset.NewDefault(cfg.PixelCount, cfg.MusicVisualizerPort)
	surface := control.New(state)
	_ = surface // wired in by whatever control-plane transport the deployment adds

	plug := idle.NewESPHomePlug(cfg.Idle.PlugIP, cfg.Idle.PlugSwitchID, cfg.Idle.PlugSensorID, logger)
	tracker := idle.New(
		secondsToDuration(cfg.Idle.RisingDebounceSeconds),
		secondsToDuration(cfg.Idle.FallingDebounceSeconds),
		plug,
	)

	frameRing := ring.New(ringCapacity)

	renderLoop := &render.Loop{
		State:              state,
		Ring:               frameRing,
		Filters:            []filters.Filter{filters.NewGammaCorrection(cfg.Gamma)},
		IdleTracker:        tracker,
		IdleTrackerEnabled: os.Getenv("HOSTNAME") == productionHostname,
		Logger:             logger,
	}

	outputLoop := output.Discover(frameRing, cfg.DriverBaudRate, cfg.StrandLocations(), logger)
	defer outputLoop.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go renderLoop.Run(ctx)
	go outputLoop.Run(ctx)

	logger.Info("roomledsd started",
		zap.Int("pixels", cfg.PixelCount),
		zap.Int("drivers_connected", len(outputLoop.Drivers)),
		zap.Int("presets", len(presets.ListPresets())),
	)

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "roomledsd: %s.\n", err)
		os.Exit(1)
	}
}
