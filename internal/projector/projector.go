// internal/projector/projector.go
package projector

import (
	"strconv"
	"strings"

	"github.com/tamzrod/scb-bridge/internal/command"
	"github.com/tamzrod/scb-bridge/internal/state"
)

// Variable is one display-ready value derived from the cache.
type Variable struct {
	Name    string
	Command command.ID
	Value   string
}

// Projector derives display variables from raw cached state.
type Projector struct {
	reg   *command.Registry
	units []command.Unit
}

func New(reg *command.Registry) *Projector {
	return &Projector{reg: reg, units: command.Units()}
}

// Project expands the whole snapshot into variables, in catalog order.
// Commands absent from the snapshot produce nothing.
func (p *Projector) Project(snap state.Snapshot) []Variable {
	var out []Variable

	for _, c := range p.reg.Readable() {
		e, ok := snap[c.ID]
		if !ok {
			continue
		}

		switch {
		case c.Indexed():
			for logical := 0; logical < command.SlotCount; logical++ {
				raw, ok := e.Slots[command.WireSlot(logical)]
				if !ok {
					continue
				}
				out = append(out, Variable{
					Name:    SlotName(c, logical),
					Command: c.ID,
					Value:   raw,
				})
			}

		case c.IsPosition():
			out = append(out, p.positions(c, e.Value)...)

		default:
			out = append(out, Variable{Name: c.Token, Command: c.ID, Value: e.Value})
		}
	}
	return out
}

func (p *Projector) positions(c command.Command, raw string) []Variable {
	native, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)

	var out []Variable
	for _, u := range p.units {
		if u.Native() {
			out = append(out, Variable{Name: c.Token, Command: c.ID, Value: raw})
			continue
		}
		if err != nil {
			continue
		}
		out = append(out, Variable{
			Name:    UnitName(c, u),
			Command: c.ID,
			Value:   strconv.FormatFloat(u.FromNative(native), 'f', 2, 64),
		})
	}
	return out
}

// UnitName is the variable key of a position command in a non-native unit.
func UnitName(c command.Command, u command.Unit) string {
	if u.Native() {
		return c.Token
	}
	return c.Token + ":" + u.Name
}

// SlotName is the variable key of one logical aspect-ratio slot.
func SlotName(c command.Command, logical int) string {
	return c.Token + strconv.Itoa(logical)
}

// Touched returns the distinct commands present in vars, in order.
func Touched(vars []Variable) []command.ID {
	seen := make(map[command.ID]bool)
	var out []command.ID
	for _, v := range vars {
		if seen[v.Command] {
			continue
		}
		seen[v.Command] = true
		out = append(out, v.Command)
	}
	return out
}
