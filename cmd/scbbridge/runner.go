// cmd/scbbridge/runner.go
package main

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/scb-bridge/internal/device"
	"github.com/tamzrod/scb-bridge/internal/metrics"
	"github.com/tamzrod/scb-bridge/internal/status"
	"github.com/tamzrod/scb-bridge/internal/writer"
)

// runner owns one device: connect, read until failure, wait, reconnect.
// It also owns the device's health snapshot and the 1Hz seconds ticker.
type runner struct {
	adapter   *device.Adapter
	session   device.SessionConfig
	reconnect time.Duration
	log       logrus.FieldLogger
	m         *metrics.Metrics

	mirror writer.Writer       // nil: no mirror
	status writer.StatusWriter // nil: no health block

	snap status.Snapshot
}

// run blocks until ctx is done. Device failures never end it.
func (r *runner) run(ctx context.Context) error {
	id := r.adapter.ID()
	r.snap.DeviceID = id

	updates := make(chan device.Update, 16)
	sec := time.NewTicker(time.Second)
	defer sec.Stop()

	// full block write on start (identity re-assert)
	r.writeStatus()

	for ctx.Err() == nil {
		if r.snap.Connecting() {
			r.writeStatus()
		}

		sess, err := device.Dial(ctx, r.session, r.adapter, r.log, r.m)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			r.failed(err)
			r.wait(ctx, sec, updates)
			continue
		}

		r.m.Connection(id, true)
		if r.snap.Connected() {
			r.writeStatus()
		}
		r.log.WithField("addr", r.session.Address).Info("device connected")

		done := make(chan error, 1)
		go func() { done <- sess.Run(ctx, updates) }()

		err = r.serve(sec, updates, done)
		r.m.Connection(id, false)
		if err == nil {
			break
		}
		r.failed(err)
		r.wait(ctx, sec, updates)
	}

	if r.snap.Disabled() {
		r.writeStatus()
	}
	r.log.Info("device stopped")
	return nil
}

// serve pumps updates until the session ends and returns its error.
func (r *runner) serve(sec *time.Ticker, updates <-chan device.Update, done <-chan error) error {
	for {
		select {
		case u := <-updates:
			r.deliver(u)
		case <-sec.C:
			r.tick()
		case err := <-done:
			// updates emitted before the session ended still count
			for {
				select {
				case u := <-updates:
					r.deliver(u)
				default:
					return err
				}
			}
		}
	}
}

// wait sleeps for the reconnect delay, still ticking and delivering.
func (r *runner) wait(ctx context.Context, sec *time.Ticker, updates <-chan device.Update) {
	t := time.NewTimer(r.reconnect)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			return
		case u := <-updates:
			r.deliver(u)
		case <-sec.C:
			r.tick()
		}
	}
}

func (r *runner) deliver(u device.Update) {
	if r.mirror == nil {
		return
	}
	if err := r.mirror.Write(u); err != nil {
		r.log.WithError(err).Warn("mirror write failed")
	}
}

func (r *runner) tick() {
	if r.snap.Tick() {
		r.writeStatus()
	}
}

func (r *runner) failed(err error) {
	code := errorCode(err)
	r.log.WithError(err).WithField("code", code).Error("device connection failed")
	if r.snap.Failed(code) {
		r.writeStatus()
	}
}

func (r *runner) writeStatus() {
	if r.status == nil {
		return
	}
	if err := r.status.WriteStatus(r.snap); err != nil {
		r.log.WithError(err).WithField("health", status.HealthName(r.snap.Health)).Warn("status write failed")
	}
}

// errorCode extracts a health-block code from an error without assuming
// concrete types. If the error does not expose a code, returns generic.
func errorCode(err error) uint16 {
	if err == nil {
		return status.ErrCodeNone
	}

	type coder interface{ Code() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return status.ErrCodeGeneric
}
