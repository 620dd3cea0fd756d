// internal/command/command.go
package command

import "errors"

var (
	// ErrUnknownCommand is returned when a name or token resolves to nothing.
	ErrUnknownCommand = errors.New("command: unknown command")

	// ErrAccessViolation is returned when a get/set is not permitted by the
	// command's access mode. Callers treat it as a silent no-op.
	ErrAccessViolation = errors.New("command: access violation")
)

// AccessMode governs which of get/set a command accepts.
type AccessMode uint8

const (
	ReadOnly AccessMode = iota + 1
	WriteOnly
	ReadWrite
)

func (m AccessMode) String() string {
	switch m {
	case ReadOnly:
		return "R"
	case WriteOnly:
		return "W"
	case ReadWrite:
		return "RW"
	default:
		return "?"
	}
}

// ID identifies one command in the catalog.
type ID uint8

const (
	Enabled ID = iota + 1
	Location
	Version
	TargetDensity
	RollerDiameter
	SlackWrap
	ScreenThickness
	ScreenWidth
	ScreenHeight
	MacAddress
	SensorStatus
	RelayStatus
	UpperLimit
	LowerLimit
	ScreenPosition
	TargetPosition
	AspectRatio
	AC
	IPAddress
	SubnetMask
	DHCP
)

// Command is one immutable catalog entry.
type Command struct {
	ID     ID
	Name   string // symbolic name, e.g. RELAY_STATUS
	Token  string // wire token, e.g. RE
	Access AccessMode

	// Slots is non-zero for indexed commands (token + digit on the wire).
	Slots int
}

// Readable reports whether get/poll is permitted.
func (c Command) Readable() bool {
	return c.Access == ReadOnly || c.Access == ReadWrite
}

// Writable reports whether set is permitted.
func (c Command) Writable() bool {
	return c.Access == WriteOnly || c.Access == ReadWrite
}

// Indexed reports whether the command is addressed by slot on the wire.
func (c Command) Indexed() bool {
	return c.Slots > 0
}

// IsPosition reports whether the raw value is a linear measure in the
// device's native unit.
func (c Command) IsPosition() bool {
	switch c.ID {
	case ScreenHeight, ScreenWidth, UpperLimit, LowerLimit, ScreenPosition:
		return true
	default:
		return false
	}
}

func (c Command) String() string {
	return c.Name
}

// SlotCount is the number of aspect-ratio slots on the device.
const SlotCount = 10

// WireSlot maps a logical aspect-ratio index to the slot used on the wire.
// The device numbers its presets one ahead of the logical index.
func WireSlot(logical int) int {
	return (logical + 1) % SlotCount
}

// Indexed is one slot of an indexed command.
type Indexed struct {
	Command
	Slot int // wire slot 0..9
}

// WireToken is the token as it appears on the wire, e.g. "A3".
func (ix Indexed) WireToken() string {
	return ix.Token + string(rune('0'+ix.Slot))
}
