// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/scb-bridge/internal/config"
	wmodbus "github.com/tamzrod/scb-bridge/internal/writer/modbus"
)

// ErrNoMirror is returned for a device without a mirror section.
var ErrNoMirror = errors.New("writer: device has no mirror")

// BuildPlan converts one device config into a mirror Plan.
// Assumes config has already passed validation and normalization.
func BuildPlan(d cfg.DeviceConfig) (Plan, error) {
	if d.ID == "" {
		return Plan{}, errors.New("writer: device.id required")
	}
	m := d.Mirror
	if m == nil {
		return Plan{}, ErrNoMirror
	}

	plan := Plan{
		DeviceID: d.ID,
		Endpoint: m.Endpoint,
		UnitID:   m.UnitID,
	}

	for _, r := range m.Registers {
		plan.Registers = append(plan.Registers, RegisterDest{
			Variable: r.Variable,
			Address:  r.Address,
			Scale:    r.Scale,
		})
	}
	for _, c := range m.Coils {
		plan.Coils = append(plan.Coils, CoilDest{
			Feedback: c.Feedback,
			Address:  c.Address,
		})
	}

	if m.StatusSlot != nil {
		plan.Status = &StatusPlan{
			UnitID:     m.UnitID,
			BaseSlot:   *m.StatusSlot,
			DeviceName: m.DeviceName,
		}
	}

	return plan, nil
}

// BuildEndpointClient creates the TCP client for a device's mirror target.
func BuildEndpointClient(d cfg.DeviceConfig) (*wmodbus.EndpointClient, error) {
	if d.Mirror == nil {
		return nil, ErrNoMirror
	}
	return wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: d.Mirror.Endpoint,
		Timeout:  time.Duration(d.Mirror.TimeoutMs) * time.Millisecond,
	})
}
