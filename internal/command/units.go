// internal/command/units.go
package command

import (
	"fmt"
	"math"
)

// Unit is a display unit expressed against the device's native unit.
type Unit struct {
	Name   string
	Factor float64 // native units per one display unit
}

// Native reports whether the unit is the device's own (factor 1).
func (u Unit) Native() bool {
	return u.Factor == 1
}

// ToNative converts a display value into native units, rounded to an integer.
func (u Unit) ToNative(v float64) int {
	return int(Round(v * u.Factor))
}

// FromNative converts a native value into this unit, unrounded.
func (u Unit) FromNative(raw float64) float64 {
	return raw / u.Factor
}

// Millimeters is the device's native unit.
var Millimeters = Unit{Name: "MILLIMETERS", Factor: 1.0}

var units = []Unit{
	Millimeters,
	{Name: "CENTIMETERS", Factor: 10.0},
	{Name: "INCHES", Factor: 25.4},
}

// Units returns the unit table in declaration order.
func Units() []Unit {
	out := make([]Unit, len(units))
	copy(out, units)
	return out
}

// UnitByName looks up a unit by its table name, e.g. INCHES.
func UnitByName(name string) (Unit, error) {
	for _, u := range units {
		if u.Name == name {
			return u, nil
		}
	}
	return Unit{}, fmt.Errorf("command: unknown unit %q", name)
}

// Round rounds half up, the way the device driver has always encoded integers.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}
