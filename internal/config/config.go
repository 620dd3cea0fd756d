// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tamzrod/scb-bridge/internal/logging"
)

type Config struct {
	Bridge  BridgeConfig   `yaml:"bridge"`
	Log     logging.Config `yaml:"log"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

type BridgeConfig struct {
	Devices []DeviceConfig `yaml:"devices"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	ID          string           `yaml:"id"`
	Source      SourceConfig     `yaml:"source"`
	Poll        PollConfig       `yaml:"poll"`
	ReconnectMs int              `yaml:"reconnect_ms"`
	Feedbacks   []FeedbackConfig `yaml:"feedbacks"`
	Mirror      *MirrorConfig    `yaml:"mirror"` // optional
}

// ---- SOURCE ----

type SourceConfig struct {
	Host      string `yaml:"host"` // IPv4 literal
	Port      int    `yaml:"port"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- FEEDBACK ----

// FeedbackConfig is one feedback predicate. Which fields apply depends on
// Command: status (RELAY_STATUS), index (ASPECT_RATIO), unit + value
// (SCREEN_POSITION).
type FeedbackConfig struct {
	ID      string   `yaml:"id"`
	Command string   `yaml:"command"` // name or token
	Status  string   `yaml:"status"`
	Index   int      `yaml:"index"`
	Unit    string   `yaml:"unit"`
	Value   *float64 `yaml:"value"`
}

// ---- MIRROR ----

// MirrorConfig pushes projected state into a Modbus TCP target.
type MirrorConfig struct {
	Endpoint  string           `yaml:"endpoint"`
	UnitID    uint8            `yaml:"unit_id"`
	TimeoutMs int              `yaml:"timeout_ms"`
	Registers []RegisterConfig `yaml:"registers"`
	Coils     []CoilConfig     `yaml:"coils"`

	// Health block (optional, opt-in)
	StatusSlot *uint16 `yaml:"status_slot"`
	DeviceName string  `yaml:"device_name"`
}

// RegisterConfig maps one projected variable to a holding register.
type RegisterConfig struct {
	Variable string  `yaml:"variable"`
	Address  uint16  `yaml:"address"`
	Scale    float64 `yaml:"scale"` // default 1
}

// CoilConfig maps one feedback to a coil.
type CoilConfig struct {
	Feedback string `yaml:"feedback"`
	Address  uint16 `yaml:"address"`
}

// ---- METRICS ----

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Load reads and decodes a YAML config file. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &cfg, nil
}
