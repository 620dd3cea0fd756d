// internal/feedback/feedback.go
package feedback

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/scb-bridge/internal/command"
	"github.com/tamzrod/scb-bridge/internal/state"
)

// Window half-widths in device units. Protocol constants, not configurable.
const (
	AspectWindow   = 15
	PositionWindow = 50
)

// Request is one feedback predicate. Which option fields are used depends
// on Command.
type Request struct {
	ID      string
	Command command.ID

	Status string       // RELAY_STATUS
	Index  int          // ASPECT_RATIO, logical index
	Unit   command.Unit // SCREEN_POSITION
	Value  *float64     // SCREEN_POSITION; nil means no value entered
}

// Result is the outcome of one request.
type Result struct {
	ID      string
	Command command.ID
	Match   bool
}

// Evaluator decides feedback matches against cached state.
type Evaluator struct {
	log logrus.FieldLogger
}

func New(log logrus.FieldLogger) *Evaluator {
	return &Evaluator{log: log}
}

// Evaluate reports whether req matches snap. Missing or unparsable state is
// a no-match, never an error.
func (e *Evaluator) Evaluate(req Request, snap state.Snapshot) bool {
	switch req.Command {
	case command.RelayStatus:
		v, ok := snap.Scalar(command.RelayStatus)
		return ok && v == req.Status

	case command.AspectRatio:
		value, ok := number(snap.Slot(command.AspectRatio, command.WireSlot(req.Index)))
		if !ok {
			return false
		}
		target, ok := number(snap.Scalar(command.TargetPosition))
		if !ok {
			return false
		}
		return within(value, target, AspectWindow)

	case command.ScreenPosition:
		if req.Value == nil {
			return false
		}
		cached, ok := number(snap.Scalar(command.ScreenPosition))
		if !ok {
			return false
		}
		return within(*req.Value*req.Unit.Factor, cached, PositionWindow)

	default:
		e.log.WithField("command", req.Command).Debug("no feedback rule for command")
		return false
	}
}

// EvaluateAll evaluates every request whose command is in touched.
// A nil touched evaluates everything.
func (e *Evaluator) EvaluateAll(reqs []Request, touched []command.ID, snap state.Snapshot) []Result {
	var filter map[command.ID]bool
	if touched != nil {
		filter = make(map[command.ID]bool, len(touched))
		for _, id := range touched {
			filter[id] = true
		}
	}

	out := make([]Result, 0, len(reqs))
	for _, r := range reqs {
		if filter != nil && !filter[r.Command] {
			continue
		}
		out = append(out, Result{ID: r.ID, Command: r.Command, Match: e.Evaluate(r, snap)})
	}
	return out
}

func within(value, center, half float64) bool {
	return center-half <= value && value <= center+half
}

func number(raw string, ok bool) (float64, bool) {
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Supported lists the commands that accept feedback requests, in catalog order.
func Supported(reg *command.Registry) []command.Command {
	var out []command.Command
	for _, c := range reg.List(command.ReadWrite) {
		if command.Internal(c.ID) {
			continue
		}
		out = append(out, c)
	}
	return out
}
