// cmd/scbbridge/action.go
package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/scb-bridge/internal/action"
	"github.com/tamzrod/scb-bridge/internal/command"
	"github.com/tamzrod/scb-bridge/internal/config"
	"github.com/tamzrod/scb-bridge/internal/device"
)

// runAction connects once, sends one translated button action and returns.
func runAction(ctx context.Context, cfg *config.Config, reg *command.Registry, log logrus.FieldLogger, deviceID, name string, opts map[string]string) error {
	d, err := pickDevice(cfg, deviceID)
	if err != nil {
		return err
	}

	req, err := action.FromOptions(reg, name, opts)
	if err != nil {
		return err
	}

	a, sc, err := device.Build(d, reg, log, nil)
	if err != nil {
		return err
	}
	sc.PollInterval = 0

	sess, err := device.Dial(ctx, sc, a, log, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	sent, err := sess.Dispatch(req)
	if err != nil {
		return err
	}
	fields := logrus.Fields{"device": d.ID, "command": req.Command}
	if !sent {
		log.WithFields(fields).Warn("action suppressed, nothing sent")
		return nil
	}
	log.WithFields(fields).Info("action sent")
	return nil
}

// pickDevice finds id, or the only device when id is empty.
func pickDevice(cfg *config.Config, id string) (config.DeviceConfig, error) {
	devices := cfg.Bridge.Devices
	if id == "" {
		if len(devices) == 1 {
			return devices[0], nil
		}
		return config.DeviceConfig{}, fmt.Errorf("-device is required with %d devices configured", len(devices))
	}
	for _, d := range devices {
		if d.ID == id {
			return d, nil
		}
	}
	return config.DeviceConfig{}, fmt.Errorf("unknown device %q", id)
}
