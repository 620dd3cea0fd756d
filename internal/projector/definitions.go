// internal/projector/definitions.go
package projector

import (
	"strings"

	"github.com/tamzrod/scb-bridge/internal/command"
)

// Definition names one variable the projector can produce.
type Definition struct {
	Name  string
	Label string
}

// Definitions lists every variable key Project may emit, in catalog order.
func Definitions(reg *command.Registry) []Definition {
	var out []Definition

	for _, c := range reg.Readable() {
		base := ProperCase(c.Name, "_")

		switch {
		case c.Indexed():
			for i, name := range command.AspectRatios {
				out = append(out, Definition{
					Name:  SlotName(c, i),
					Label: base + " (" + name + ")",
				})
			}

		case c.IsPosition():
			for _, u := range command.Units() {
				out = append(out, Definition{
					Name:  UnitName(c, u),
					Label: base + " (" + ProperCase(u.Name, " ") + ")",
				})
			}

		default:
			out = append(out, Definition{Name: c.Token, Label: base})
		}
	}
	return out
}

// Known reports whether name is a variable key Project may emit.
func Known(reg *command.Registry, name string) bool {
	for _, d := range Definitions(reg) {
		if d.Name == name {
			return true
		}
	}
	return false
}

// ProperCase turns "SCREEN_POSITION" into "Screen Position".
func ProperCase(s, sep string) string {
	words := strings.Split(s, sep)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
