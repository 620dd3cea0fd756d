// internal/command/options.go
package command

import "fmt"

// Choice is one selectable option value with its display label.
type Choice struct {
	Label string
	Value string
}

// Relay status tokens.
const (
	RelayStop = "ST"
	RelayUp   = "UP"
	RelayDown = "DN"
)

// RelayStatuses lists the relay status choices.
var RelayStatuses = []Choice{
	{Label: "Stop", Value: RelayStop},
	{Label: "Up", Value: RelayUp},
	{Label: "Down", Value: RelayDown},
}

// Position move types.
const (
	PositionSet   = "FIX"
	PositionRaise = "DEC"
	PositionLower = "INC"
)

// PositionTypes lists the position move choices.
var PositionTypes = []Choice{
	{Label: "Set", Value: PositionSet},
	{Label: "Raise", Value: PositionRaise},
	{Label: "Lower", Value: PositionLower},
}

// AspectRatios names the logical aspect-ratio presets, indexed 0..9.
var AspectRatios = [SlotCount]string{
	"1:1",
	"1.25:1",
	"1.33:1 (4x3)",
	"1.66:1 (5x4)",
	"1.78:1 (16x9)",
	"Custom 1",
	"Custom 2",
	"Custom 3",
	"Custom 4",
	"Custom 5",
}

// ValidRelayStatus reports whether s is a relay status token.
func ValidRelayStatus(s string) bool {
	return hasValue(RelayStatuses, s)
}

// ValidPositionType reports whether s is a position move type.
func ValidPositionType(s string) bool {
	return hasValue(PositionTypes, s)
}

// ValidAspectIndex checks a logical aspect-ratio index.
func ValidAspectIndex(i int) error {
	if i < 0 || i >= SlotCount {
		return fmt.Errorf("command: aspect ratio index %d out of range 0..%d", i, SlotCount-1)
	}
	return nil
}

func hasValue(choices []Choice, v string) bool {
	for _, c := range choices {
		if c.Value == v {
			return true
		}
	}
	return false
}
