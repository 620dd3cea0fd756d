// internal/action/action.go
package action

import (
	"errors"
	"fmt"

	"github.com/tamzrod/scb-bridge/internal/codec"
	"github.com/tamzrod/scb-bridge/internal/command"
)

var (
	// ErrNoHandler is returned for commands that have no button action.
	ErrNoHandler = errors.New("action: no handler for command")

	// ErrNoValue is returned when a position action carries no value.
	// Nothing is sent.
	ErrNoValue = errors.New("action: no value")
)

// Request is one inbound button action.
type Request struct {
	Command command.ID

	Status   string       // RELAY_STATUS
	Position string       // SCREEN_POSITION / TARGET_POSITION move type
	Unit     command.Unit // SCREEN_POSITION / TARGET_POSITION
	Value    *float64     // SCREEN_POSITION / TARGET_POSITION
	Index    int          // ASPECT_RATIO, logical index
}

// Translator turns action requests into wire commands.
type Translator struct {
	reg   *command.Registry
	codec *codec.Codec
}

func New(reg *command.Registry, c *codec.Codec) *Translator {
	return &Translator{reg: reg, codec: c}
}

// Translate builds the outbound bytes for req. Access violations surface as
// command.ErrAccessViolation with no bytes.
func (t *Translator) Translate(req Request) ([]byte, error) {
	switch req.Command {
	case command.RelayStatus:
		if !command.ValidRelayStatus(req.Status) {
			return nil, fmt.Errorf("action: invalid relay status %q", req.Status)
		}
		return t.codec.BuildSet(t.reg.Get(command.RelayStatus), req.Status)

	case command.ScreenPosition, command.TargetPosition:
		if req.Value == nil {
			return nil, ErrNoValue
		}
		kind := req.Position
		if kind == "" {
			kind = command.PositionSet
		}
		if !command.ValidPositionType(kind) {
			return nil, fmt.Errorf("action: invalid position type %q", kind)
		}
		unit := req.Unit
		if unit.Factor == 0 {
			unit = command.Millimeters
		}
		value := kind + " " + codec.PositionValue(unit, *req.Value)
		return t.codec.BuildSet(t.reg.Get(req.Command), value)

	case command.AspectRatio:
		if err := command.ValidAspectIndex(req.Index); err != nil {
			return nil, err
		}
		target := codec.AspectTarget(t.reg.Indexed(), req.Index)
		return t.codec.BuildSet(t.reg.Get(command.TargetPosition), target)

	default:
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, req.Command)
	}
}

// Actionable lists the commands that accept button actions, in catalog order.
func Actionable(reg *command.Registry) []command.Command {
	var out []command.Command
	for _, c := range reg.Writable() {
		if command.Internal(c.ID) {
			continue
		}
		out = append(out, c)
	}
	return out
}
