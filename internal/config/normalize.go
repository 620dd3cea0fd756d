// internal/config/normalize.go
package config

import (
	"time"

	"github.com/tamzrod/scb-bridge/internal/poller"
)

// Defaults applied by Normalize.
const (
	DefaultPollIntervalMs = int(poller.DefaultInterval / time.Millisecond)
	DefaultTimeoutMs      = 2000
	DefaultReconnectMs    = 5000
	DefaultMirrorTimeout  = 1000
	DefaultMetricsListen  = ":9108"

	deviceNameMaxChars = 16
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultMetricsListen
	}

	for di := range cfg.Bridge.Devices {
		d := &cfg.Bridge.Devices[di]

		if d.Poll.IntervalMs == 0 {
			d.Poll.IntervalMs = DefaultPollIntervalMs
		}
		if d.Source.TimeoutMs == 0 {
			d.Source.TimeoutMs = DefaultTimeoutMs
		}
		if d.ReconnectMs == 0 {
			d.ReconnectMs = DefaultReconnectMs
		}

		m := d.Mirror
		if m == nil {
			continue
		}
		if m.TimeoutMs == 0 {
			m.TimeoutMs = DefaultMirrorTimeout
		}
		for ri := range m.Registers {
			if m.Registers[ri].Scale == 0 {
				m.Registers[ri].Scale = 1
			}
		}

		// device_name: ASCII already validated, truncate to the block size.
		if m.DeviceName == "" {
			m.DeviceName = d.ID
		}
		if len(m.DeviceName) > deviceNameMaxChars {
			m.DeviceName = m.DeviceName[:deviceNameMaxChars]
		}
	}
}
