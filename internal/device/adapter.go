// internal/device/adapter.go
package device

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/scb-bridge/internal/action"
	"github.com/tamzrod/scb-bridge/internal/codec"
	"github.com/tamzrod/scb-bridge/internal/command"
	"github.com/tamzrod/scb-bridge/internal/feedback"
	"github.com/tamzrod/scb-bridge/internal/framer"
	"github.com/tamzrod/scb-bridge/internal/metrics"
	"github.com/tamzrod/scb-bridge/internal/projector"
	"github.com/tamzrod/scb-bridge/internal/state"
)

// maxLine bounds an unterminated response line. Real lines are well under
// a hundred bytes.
const maxLine = 1024

// Sender is the outbound half of a device connection.
type Sender interface {
	Send(b []byte) error
}

// Update is everything one inbound chunk produced.
type Update struct {
	DeviceID  string
	At        time.Time
	Lines     int // complete lines framed from the chunk
	Variables []projector.Variable
	Feedbacks []feedback.Result
}

// Adapter is the per-device protocol core: framing, parsing, cache,
// projection, feedback and outbound command building. Its cache outlives
// individual connections.
type Adapter struct {
	id  string
	reg *command.Registry
	log logrus.FieldLogger
	m   *metrics.Metrics

	codec      *codec.Codec
	projector  *projector.Projector
	evaluator  *feedback.Evaluator
	translator *action.Translator
	feedbacks  []feedback.Request

	// mu serializes chunk processing; framer and lastMatch are only
	// touched under it.
	mu        sync.Mutex
	framer    *framer.Framer
	cache     *state.Cache
	lastMatch map[string]bool
}

// NewAdapter builds the core for one device. feedbacks are evaluated after
// every inbound chunk.
func NewAdapter(id string, reg *command.Registry, feedbacks []feedback.Request, log logrus.FieldLogger, m *metrics.Metrics) *Adapter {
	c := codec.New(reg)
	log = log.WithField("device", id)

	return &Adapter{
		id:         id,
		reg:        reg,
		log:        log,
		m:          m,
		codec:      c,
		projector:  projector.New(reg),
		evaluator:  feedback.New(log),
		translator: action.New(reg, c),
		feedbacks:  feedbacks,
		framer:     framer.New(codec.Delimiter, maxLine),
		cache:      state.New(),
		lastMatch:  make(map[string]bool),
	}
}

// ID is the device id.
func (a *Adapter) ID() string { return a.id }

// Cache exposes the state cache for read access.
func (a *Adapter) Cache() *state.Cache { return a.cache }

// Registry is the catalog the adapter was built with.
func (a *Adapter) Registry() *command.Registry { return a.reg }

// HandleChunk runs one inbound chunk through the whole pipeline as a single
// ordered unit. A bad line is discarded without touching other entries.
func (a *Adapter) HandleChunk(chunk []byte) Update {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	a.m.Received(a.id, len(chunk))

	lines := a.framer.Push(chunk)
	if n := a.framer.TakeDropped(); n > 0 {
		for i := 0; i < n; i++ {
			a.m.Discarded(a.id, metrics.ReasonMalformed)
		}
		a.log.WithField("limit", maxLine).Warn("discarding unterminated response data")
	}
	for _, line := range lines {
		r, err := a.codec.Parse(line)
		if err != nil {
			reason := metrics.ReasonMalformed
			if errors.Is(err, command.ErrUnknownCommand) {
				reason = metrics.ReasonUnknown
			}
			a.m.Discarded(a.id, reason)
			a.log.WithError(err).WithField("reason", reason).Debug("discarding response line")
			continue
		}
		codec.Apply(a.cache, r)
		a.m.Parsed(a.id)
	}

	snap := a.cache.Snapshot()
	vars := a.projector.Project(snap)
	results := a.evaluator.EvaluateAll(a.feedbacks, projector.Touched(vars), snap)

	for _, res := range results {
		a.m.Feedback(a.id, res.ID, res.Match)
		if prev, seen := a.lastMatch[res.ID]; !seen || prev != res.Match {
			a.log.WithFields(logrus.Fields{
				"feedback": res.ID,
				"command":  res.Command,
				"match":    res.Match,
			}).Info("feedback changed")
		}
		a.lastMatch[res.ID] = res.Match
	}

	a.m.ObserveChunk(time.Since(start))
	a.log.WithFields(logrus.Fields{
		"bytes":   len(chunk),
		"lines":   len(lines),
		"pending": a.framer.Pending(),
		"cached":  a.cache.Len(),
	}).Debug("chunk processed")

	return Update{
		DeviceID:  a.id,
		At:        start,
		Lines:     len(lines),
		Variables: vars,
		Feedbacks: results,
	}
}

// ResetFramer drops any partial line left by a previous connection.
func (a *Adapter) ResetFramer() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.framer.Reset()
}

// Get requests the current value of a scalar command. For the indexed
// command every slot is requested. Access violations send nothing.
func (a *Adapter) Get(s Sender, id command.ID) error {
	cmd := a.reg.Get(id)

	if cmd.Indexed() {
		for slot := 0; slot < cmd.Slots; slot++ {
			b, buildErr := a.codec.BuildGetSlot(cmd, slot)
			if err := a.send(s, "get", b, buildErr); err != nil {
				return err
			}
		}
		return nil
	}

	b, err := a.codec.BuildGet(cmd)
	return a.send(s, "get", b, err)
}

// Set writes a raw value. Access violations send nothing.
func (a *Adapter) Set(s Sender, id command.ID, value string) error {
	b, err := a.codec.BuildSet(a.reg.Get(id), value)
	return a.send(s, "set", b, err)
}

// Dispatch translates and sends a button action. sent is false when the
// action was suppressed (no value, access violation) and nothing went out.
func (a *Adapter) Dispatch(s Sender, req action.Request) (sent bool, err error) {
	b, err := a.translator.Translate(req)
	if errors.Is(err, action.ErrNoValue) {
		a.log.WithField("command", req.Command).Debug("action without value ignored")
		return false, nil
	}
	if errors.Is(err, action.ErrNoHandler) {
		a.log.WithField("command", req.Command).Error("no button action handler for command")
		return false, err
	}
	return a.transmit(s, "set", b, err)
}

func (a *Adapter) send(s Sender, kind string, b []byte, buildErr error) error {
	_, err := a.transmit(s, kind, b, buildErr)
	return err
}

func (a *Adapter) transmit(s Sender, kind string, b []byte, buildErr error) (bool, error) {
	if errors.Is(buildErr, command.ErrAccessViolation) {
		a.log.WithError(buildErr).Debug("request suppressed")
		return false, nil
	}
	if buildErr != nil {
		return false, buildErr
	}
	if err := s.Send(b); err != nil {
		return false, err
	}
	a.m.Sent(a.id, kind)
	return true, nil
}
