// internal/config/validate.go
package config

import (
	"fmt"
	"net"

	"github.com/tamzrod/scb-bridge/internal/command"
	"github.com/tamzrod/scb-bridge/internal/feedback"
	"github.com/tamzrod/scb-bridge/internal/projector"
	"github.com/tamzrod/scb-bridge/internal/status"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if len(cfg.Bridge.Devices) == 0 {
		return fmt.Errorf("bridge: no devices defined")
	}

	reg := command.NewRegistry()

	// ------------------------------------------------------------
	// DEVICE SOURCE + FEEDBACK VALIDATION
	// ------------------------------------------------------------

	ids := make(map[string]bool)

	for _, d := range cfg.Bridge.Devices {
		if d.ID == "" {
			return fmt.Errorf("device: id is required")
		}
		if ids[d.ID] {
			return fmt.Errorf("device %q: duplicate id", d.ID)
		}
		ids[d.ID] = true

		ip := net.ParseIP(d.Source.Host)
		if ip == nil || ip.To4() == nil {
			return fmt.Errorf("device %q: source.host %q is not an IPv4 address", d.ID, d.Source.Host)
		}
		if d.Source.Port < 1 || d.Source.Port > 65535 {
			return fmt.Errorf("device %q: source.port %d out of range 1..65535", d.ID, d.Source.Port)
		}
		if d.Source.TimeoutMs < 0 || d.Poll.IntervalMs < 0 || d.ReconnectMs < 0 {
			return fmt.Errorf("device %q: durations must not be negative", d.ID)
		}

		if err := validateFeedbacks(reg, d); err != nil {
			return err
		}
	}

	// ------------------------------------------------------------
	// MIRROR VALIDATION (OPT-IN)
	// ------------------------------------------------------------

	for _, d := range cfg.Bridge.Devices {
		if err := validateMirror(reg, d); err != nil {
			return err
		}
	}

	return validateMirrorGeometry(cfg.Bridge.Devices)
}

func validateFeedbacks(reg *command.Registry, d DeviceConfig) error {
	seen := make(map[string]bool)

	for _, f := range d.Feedbacks {
		if f.ID == "" {
			return fmt.Errorf("device %q: feedback id is required", d.ID)
		}
		if seen[f.ID] {
			return fmt.Errorf("device %q: duplicate feedback id %q", d.ID, f.ID)
		}
		seen[f.ID] = true

		cmd, err := reg.Resolve(f.Command)
		if err != nil {
			return fmt.Errorf("device %q feedback %q: %w", d.ID, f.ID, err)
		}
		if !supported(reg, cmd.ID) {
			return fmt.Errorf("device %q feedback %q: command %s has no feedback", d.ID, f.ID, cmd.Name)
		}

		switch cmd.ID {
		case command.RelayStatus:
			if !command.ValidRelayStatus(f.Status) {
				return fmt.Errorf("device %q feedback %q: invalid status %q", d.ID, f.ID, f.Status)
			}
		case command.AspectRatio:
			if err := command.ValidAspectIndex(f.Index); err != nil {
				return fmt.Errorf("device %q feedback %q: %w", d.ID, f.ID, err)
			}
		case command.ScreenPosition:
			if f.Unit != "" {
				if _, err := command.UnitByName(f.Unit); err != nil {
					return fmt.Errorf("device %q feedback %q: %w", d.ID, f.ID, err)
				}
			}
			if f.Value == nil {
				return fmt.Errorf("device %q feedback %q: value is required", d.ID, f.ID)
			}
		}
	}
	return nil
}

func supported(reg *command.Registry, id command.ID) bool {
	for _, c := range feedback.Supported(reg) {
		if c.ID == id {
			return true
		}
	}
	return false
}

func validateMirror(reg *command.Registry, d DeviceConfig) error {
	m := d.Mirror
	if m == nil {
		return nil
	}

	if m.Endpoint == "" {
		return fmt.Errorf("device %q: mirror.endpoint is required", d.ID)
	}
	if _, _, err := net.SplitHostPort(m.Endpoint); err != nil {
		return fmt.Errorf("device %q: mirror.endpoint %q: %w", d.ID, m.Endpoint, err)
	}
	if m.TimeoutMs < 0 {
		return fmt.Errorf("device %q: mirror.timeout_ms must not be negative", d.ID)
	}

	// device_name sanity (ASCII only)
	for i := 0; i < len(m.DeviceName); i++ {
		if m.DeviceName[i] > 0x7F {
			return fmt.Errorf("device %q: device_name must contain ASCII characters only", d.ID)
		}
	}

	for _, r := range m.Registers {
		if !projector.Known(reg, r.Variable) {
			return fmt.Errorf("device %q: mirror register: unknown variable %q", d.ID, r.Variable)
		}
		if r.Scale < 0 {
			return fmt.Errorf("device %q: mirror register %q: scale must not be negative", d.ID, r.Variable)
		}
	}

	fb := make(map[string]bool, len(d.Feedbacks))
	for _, f := range d.Feedbacks {
		fb[f.ID] = true
	}
	for _, c := range m.Coils {
		if !fb[c.Feedback] {
			return fmt.Errorf("device %q: mirror coil: unknown feedback %q", d.ID, c.Feedback)
		}
	}

	if len(m.Registers) == 0 && len(m.Coils) == 0 && m.StatusSlot == nil {
		return fmt.Errorf("device %q: mirror has nothing to write", d.ID)
	}
	return nil
}

// validateMirrorGeometry rejects overlapping writes on a shared target.
// Registers and the status block share the holding register space; coils
// are checked separately.
func validateMirrorGeometry(devices []DeviceConfig) error {
	type span struct {
		start uint32
		end   uint32
		owner string
	}

	// key = endpoint | unit_id | area
	spans := make(map[string][]span)

	claim := func(key string, start, end uint32, owner string) error {
		for _, s := range spans[key] {
			// overlap check (inclusive)
			if !(end < s.start || start > s.end) {
				return fmt.Errorf(
					"mirror overlap: %s range=%d-%d (%s) overlaps range=%d-%d (%s)",
					key, start, end, owner, s.start, s.end, s.owner,
				)
			}
		}
		spans[key] = append(spans[key], span{start: start, end: end, owner: owner})
		return nil
	}

	for _, d := range devices {
		m := d.Mirror
		if m == nil {
			continue
		}
		hr := fmt.Sprintf("%s|%d|holding", m.Endpoint, m.UnitID)
		co := fmt.Sprintf("%s|%d|coils", m.Endpoint, m.UnitID)

		for _, r := range m.Registers {
			a := uint32(r.Address)
			if err := claim(hr, a, a, d.ID+"/"+r.Variable); err != nil {
				return err
			}
		}
		for _, c := range m.Coils {
			a := uint32(c.Address)
			if err := claim(co, a, a, d.ID+"/"+c.Feedback); err != nil {
				return err
			}
		}
		if m.StatusSlot != nil {
			start := uint32(*m.StatusSlot) * status.SlotsPerDevice
			end := start + status.SlotsPerDevice - 1
			if end > 0xFFFF {
				return fmt.Errorf("device %q: status_slot %d exceeds the register space", d.ID, *m.StatusSlot)
			}
			if err := claim(hr, start, end, d.ID+"/status"); err != nil {
				return err
			}
		}
	}
	return nil
}
