package output

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Glitch752/RoomLEDs/internal/frame"
	"github.com/Glitch752/RoomLEDs/internal/priority"
	"github.com/Glitch752/RoomLEDs/internal/ring"
)

// idleSleep is how long the output loop sleeps between iterations when no
// drivers are connected, to avoid busy-spinning while still rendering
// frames that remain observable elsewhere (e.g. a web preview).
const idleSleep = 50 * time.Millisecond

// DefaultBrightness is applied to every driver as soon as it is opened.
const DefaultBrightness = 255

// Loop pops presented frames from a ring and dispatches them to every open
// Driver in parallel, unparking the render loop after each attempt
// regardless of outcome.
type Loop struct {
	Ring    *ring.Ring
	Drivers []*Driver
	Logger  *zap.Logger
}

// Discover opens a Loop against every currently connected driver matching
// ArduinoVID/ArduinoPID, using baudRate and strands (normally
// Config.DriverBaudRate and Config.StrandLocations) for every port opened.
// Drivers that fail to open are logged and skipped; it is normal, not
// fatal, for zero or one driver to be present.
func Discover(r *ring.Ring, baudRate int, strands [NumDrivers]StrandLocation, logger *zap.Logger) *Loop {
	names, err := DiscoverPorts()
	if err != nil {
		logger.Warn("failed to discover serial ports", zap.Error(err))
		names = nil
	}

	var drivers []*Driver
	for _, name := range names {
		d, err := OpenDriver(name, baudRate, strands, logger)
		if err != nil {
			logger.Warn("failed to open driver port", zap.String("port", name), zap.Error(err))
			continue
		}
		if err := d.SetBrightness(DefaultBrightness); err != nil {
			logger.Warn("failed to set initial brightness", zap.String("port", name), zap.Error(err))
		}
		drivers = append(drivers, d)
	}

	return &Loop{Ring: r, Drivers: drivers, Logger: logger}
}

// Run pins the calling goroutine to its OS thread, attempts to elevate its
// scheduling priority, and then pops and dispatches frames until ctx is
// canceled.
func (l *Loop) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	priority.Elevate(l.Logger)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		l.tick()
	}
}

// tick runs one output-loop iteration: pop a frame (logging a drop if
// none is ready), dispatch it to every driver concurrently, sleep if no
// driver is connected, and unpark the render loop.
func (l *Loop) tick() {
	presented, ok := l.Ring.TryPop()
	if !ok {
		l.Logger.Warn("output: no frame available from render loop, dropped a tick")
	} else if err := l.dispatch(presented); err != nil {
		l.Logger.Warn("one or more drivers failed to receive a frame", zap.Error(err))
	}

	if len(l.Drivers) == 0 {
		time.Sleep(idleSleep)
	}

	l.Ring.Unpark()
}

// dispatch sends presented to every driver concurrently, aggregating any
// per-driver failures into a single error rather than letting one slow or
// failing board block or mask the others.
func (l *Loop) dispatch(presented frame.PresentedFrame) error {
	g := new(errgroup.Group)
	var mu sync.Mutex
	var errs *multierror.Error

	for _, d := range l.Drivers {
		d := d
		g.Go(func() error {
			if err := d.SendFrame(presented); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("driver %s: %w", d.PortName, err))
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	if errs != nil {
		return errs.ErrorOrNil()
	}
	return nil
}

// Close closes every open driver.
func (l *Loop) Close() {
	for _, d := range l.Drivers {
		if err := d.Close(); err != nil {
			l.Logger.Warn("failed to close driver port", zap.String("port", d.PortName), zap.Error(err))
		}
	}
}
