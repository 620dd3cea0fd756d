// internal/device/builder.go
package device

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	cfg "github.com/tamzrod/scb-bridge/internal/config"
	"github.com/tamzrod/scb-bridge/internal/command"
	"github.com/tamzrod/scb-bridge/internal/feedback"
	"github.com/tamzrod/scb-bridge/internal/metrics"
)

// Build constructs the adapter and session config for one device.
// Assumes config has already passed validation and normalization.
func Build(d cfg.DeviceConfig, reg *command.Registry, log logrus.FieldLogger, m *metrics.Metrics) (*Adapter, SessionConfig, error) {
	reqs, err := FeedbackRequests(reg, d.Feedbacks)
	if err != nil {
		return nil, SessionConfig{}, fmt.Errorf("device %q: %w", d.ID, err)
	}

	sc := SessionConfig{
		Address:      net.JoinHostPort(d.Source.Host, strconv.Itoa(d.Source.Port)),
		Timeout:      time.Duration(d.Source.TimeoutMs) * time.Millisecond,
		PollInterval: time.Duration(d.Poll.IntervalMs) * time.Millisecond,
	}

	return NewAdapter(d.ID, reg, reqs, log, m), sc, nil
}

// FeedbackRequests resolves configured feedbacks against the catalog.
// An empty unit means millimeters.
func FeedbackRequests(reg *command.Registry, fbs []cfg.FeedbackConfig) ([]feedback.Request, error) {
	out := make([]feedback.Request, 0, len(fbs))

	for _, f := range fbs {
		c, err := reg.Resolve(f.Command)
		if err != nil {
			return nil, fmt.Errorf("feedback %q: %w", f.ID, err)
		}

		r := feedback.Request{
			ID:      f.ID,
			Command: c.ID,
			Status:  f.Status,
			Index:   f.Index,
			Unit:    command.Millimeters,
			Value:   f.Value,
		}
		if f.Unit != "" {
			u, err := command.UnitByName(f.Unit)
			if err != nil {
				return nil, fmt.Errorf("feedback %q: %w", f.ID, err)
			}
			r.Unit = u
		}
		out = append(out, r)
	}
	return out, nil
}
