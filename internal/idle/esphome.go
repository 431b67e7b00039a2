package idle

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ESPHomePlug drives an ESPHome-flashed HTTP smart plug: a POST to toggle
// its switch entity, a GET to read its power sensor.
type ESPHomePlug struct {
	IP            string
	SwitchID      string
	PowerSensorID string

	Client *http.Client
	Logger *zap.Logger
}

// NewESPHomePlug builds an ESPHomePlug using http.DefaultClient.
func NewESPHomePlug(ip, switchID, powerSensorID string, logger *zap.Logger) *ESPHomePlug {
	return &ESPHomePlug{
		IP:            ip,
		SwitchID:      switchID,
		PowerSensorID: powerSensorID,
		Client:        http.DefaultClient,
		Logger:        logger,
	}
}

// SetPower implements PowerDevice. Failures are logged, never panicked.
func (p *ESPHomePlug) SetPower(on bool) {
	state := "off"
	if on {
		state = "on"
	}
	url := fmt.Sprintf("http://%s/switch/%s/turn_%s", p.IP, p.SwitchID, state)

	resp, err := p.Client.Post(url, "application/json", nil)
	if err != nil {
		p.Logger.Warn("failed to set smart-plug power", zap.Bool("on", on), zap.Error(err))
		return
	}
	defer resp.Body.Close()
}

type sensorReading struct {
	Value float64 `json:"value"`
}

// GetStats implements PowerDevice.
func (p *ESPHomePlug) GetStats() (PowerStats, bool) {
	url := fmt.Sprintf("http://%s/sensor/%s", p.IP, p.PowerSensorID)

	resp, err := p.Client.Get(url)
	if err != nil {
		p.Logger.Warn("failed to read smart-plug power sensor", zap.Error(err))
		return PowerStats{}, false
	}
	defer resp.Body.Close()

	var reading sensorReading
	if err := json.NewDecoder(resp.Body).Decode(&reading); err != nil {
		p.Logger.Warn("failed to decode smart-plug power sensor response", zap.Error(err))
		return PowerStats{}, false
	}
	return PowerStats{CurrentPowerUsageWatts: reading.Value}, true
}

// LoggingPowerDevice is a PowerDevice test/development double that logs
// instead of driving real hardware.
type LoggingPowerDevice struct {
	Logger *zap.Logger
	Power  bool
	Stats  PowerStats
}

// NewLoggingPowerDevice returns a LoggingPowerDevice.
func NewLoggingPowerDevice(logger *zap.Logger) *LoggingPowerDevice {
	return &LoggingPowerDevice{Logger: logger}
}

// SetPower implements PowerDevice.
func (d *LoggingPowerDevice) SetPower(on bool) {
	d.Power = on
	d.Logger.Info("power set", zap.Bool("on", on))
}

// GetStats implements PowerDevice.
func (d *LoggingPowerDevice) GetStats() (PowerStats, bool) {
	return d.Stats, true
}
