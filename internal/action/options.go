// internal/action/options.go
package action

import (
	"fmt"
	"strconv"

	"github.com/tamzrod/scb-bridge/internal/command"
)

// FromOptions builds a Request from a command name or token and loosely
// typed key/value options (action, status, type, unit, value, index).
func FromOptions(reg *command.Registry, cmd string, opts map[string]string) (Request, error) {
	c, err := reg.Resolve(cmd)
	if err != nil {
		return Request{}, err
	}

	req := Request{Command: c.ID}

	switch c.ID {
	case command.RelayStatus:
		req.Status = opts["action"]
		if req.Status == "" {
			req.Status = opts["status"]
		}
		if req.Status == "" {
			req.Status = command.RelayStop
		}

	case command.ScreenPosition, command.TargetPosition:
		req.Position = opts["type"]
		req.Unit = command.Millimeters
		if name, ok := opts["unit"]; ok {
			if req.Unit, err = command.UnitByName(name); err != nil {
				return Request{}, err
			}
		}
		if raw, ok := opts["value"]; ok && raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return Request{}, fmt.Errorf("action: value %q: %w", raw, err)
			}
			req.Value = &v
		}

	case command.AspectRatio:
		if raw, ok := opts["index"]; ok {
			if req.Index, err = strconv.Atoi(raw); err != nil {
				return Request{}, fmt.Errorf("action: index %q: %w", raw, err)
			}
		}
	}

	return req, nil
}
