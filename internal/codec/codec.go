// internal/codec/codec.go
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tamzrod/scb-bridge/internal/command"
	"github.com/tamzrod/scb-bridge/internal/state"
)

// Delimiter terminates every line on the wire, in both directions.
const Delimiter = '\r'

const minFields = 5

// ErrMalformedLine is returned for empty or short response lines.
var ErrMalformedLine = errors.New("codec: malformed line")

// Response is one parsed inbound line.
type Response struct {
	Kind    string // read-ack vs write-ack marker, not interpreted
	Command command.Command
	Slot    int // wire slot for indexed commands, -1 otherwise
	Raw     string
}

// Codec builds outbound requests and parses inbound lines.
type Codec struct {
	reg *command.Registry
}

func New(reg *command.Registry) *Codec {
	return &Codec{reg: reg}
}

// BuildGet builds a read request. Indexed commands must use BuildGetSlot.
func (c *Codec) BuildGet(cmd command.Command) ([]byte, error) {
	if !cmd.Readable() {
		return nil, fmt.Errorf("%w: get %s", command.ErrAccessViolation, cmd.Name)
	}
	return []byte("$ 0 GE " + cmd.Token + string(Delimiter)), nil
}

// BuildGetSlot builds a read request for one wire slot of an indexed command.
func (c *Codec) BuildGetSlot(cmd command.Command, wireSlot int) ([]byte, error) {
	ix, err := c.reg.ResolveIndexed(cmd.Token, byte('0'+wireSlot))
	if err != nil || wireSlot < 0 || wireSlot >= command.SlotCount {
		return nil, fmt.Errorf("%w: %s slot %d", command.ErrUnknownCommand, cmd.Name, wireSlot)
	}
	if !ix.Readable() {
		return nil, fmt.Errorf("%w: get %s", command.ErrAccessViolation, cmd.Name)
	}
	return []byte("$ 0 GE " + ix.WireToken() + string(Delimiter)), nil
}

// BuildSet builds a write request.
func (c *Codec) BuildSet(cmd command.Command, value string) ([]byte, error) {
	if !cmd.Writable() {
		return nil, fmt.Errorf("%w: set %s", command.ErrAccessViolation, cmd.Name)
	}
	return []byte("# 0 SE " + cmd.Token + " " + value + string(Delimiter)), nil
}

// PositionValue encodes a display value in unit as a native integer.
func PositionValue(u command.Unit, v float64) string {
	return strconv.Itoa(u.ToNative(v))
}

// AspectTarget is the target-position value selecting a logical
// aspect-ratio preset.
func AspectTarget(aspect command.Command, logical int) string {
	return aspect.Token + strconv.Itoa(command.WireSlot(logical))
}

// Parse decodes one response line (without its delimiter):
//
//	{ignored} {ignored} {kind} {token} {value...}
func (c *Codec) Parse(line string) (Response, error) {
	parts := strings.Split(line, " ")
	if line == "" || len(parts) < minFields {
		return Response{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	cmd, slot, err := c.reg.ParseWireToken(parts[3])
	if err != nil {
		return Response{}, err
	}

	return Response{
		Kind:    parts[2],
		Command: cmd,
		Slot:    slot,
		Raw:     strings.Join(parts[4:], " "),
	}, nil
}

// Apply stores a parsed response in the cache.
func Apply(cache *state.Cache, r Response) {
	if r.Command.Indexed() {
		cache.SetSlot(r.Command.ID, r.Slot, r.Raw)
		return
	}
	cache.Set(r.Command.ID, r.Raw)
}
