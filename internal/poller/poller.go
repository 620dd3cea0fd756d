// internal/poller/poller.go
package poller

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/tamzrod/scb-bridge/internal/codec"
	"github.com/tamzrod/scb-bridge/internal/command"
)

// DefaultInterval is the device poll cadence.
const DefaultInterval = time.Second

// Sender is the outbound half of the device connection.
type Sender interface {
	Send(b []byte) error
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	DeviceID string
	Interval time.Duration
}

// Poller is a dumb, clock-driven reader: it only asks, the inbound path
// handles the answers.
type Poller struct {
	cfg      Config
	sender   Sender
	batch    []byte
	requests int
}

// New creates a poller with an immutable batch built from the registry.
func New(cfg Config, reg *command.Registry, sender Sender) (*Poller, error) {
	if cfg.DeviceID == "" {
		return nil, errors.New("poller: device id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if sender == nil {
		return nil, errors.New("poller: sender required")
	}

	batch, n, err := Batch(codec.New(reg), reg)
	if err != nil {
		return nil, err
	}
	return &Poller{cfg: cfg, sender: sender, batch: batch, requests: n}, nil
}

// Batch builds one read request per readable scalar command, in catalog
// order, followed by one per wire slot of the indexed command.
func Batch(c *codec.Codec, reg *command.Registry) ([]byte, int, error) {
	var buf bytes.Buffer
	n := 0

	for _, cmd := range reg.Readable() {
		if cmd.Indexed() {
			continue
		}
		b, err := c.BuildGet(cmd)
		if err != nil {
			return nil, 0, fmt.Errorf("poller: %w", err)
		}
		buf.Write(b)
		n++
	}

	if ix := reg.Indexed(); ix.Readable() {
		for slot := 0; slot < ix.Slots; slot++ {
			b, err := c.BuildGetSlot(ix, slot)
			if err != nil {
				return nil, 0, fmt.Errorf("poller: %w", err)
			}
			buf.Write(b)
			n++
		}
	}

	return buf.Bytes(), n, nil
}

// PollOnce performs exactly one poll cycle: the whole batch in one write.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		DeviceID: p.cfg.DeviceID,
		At:       time.Now(),
		Requests: p.requests,
	}

	if err := p.sender.Send(p.batch); err != nil {
		res.Err = err
		return res
	}
	res.Bytes = len(p.batch)
	return res
}
