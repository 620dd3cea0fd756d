// internal/projector/projector_test.go
package projector

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/scb-bridge/internal/codec"
	"github.com/tamzrod/scb-bridge/internal/command"
	"github.com/tamzrod/scb-bridge/internal/state"
)

func feed(t *testing.T, c *codec.Codec, cache *state.Cache, lines ...string) {
	t.Helper()
	for _, l := range lines {
		r, err := c.Parse(l)
		require.NoError(t, err, "line %q", l)
		codec.Apply(cache, r)
	}
}

func byName(vars []Variable) map[string]string {
	out := make(map[string]string, len(vars))
	for _, v := range vars {
		out[v.Name] = v.Value
	}
	return out
}

func TestProject_PositionUnitExpansion(t *testing.T) {
	reg := command.NewRegistry()
	c := codec.New(reg)
	cache := state.New()

	feed(t, c, cache, "0 0 GE MM 2032", "0 0 GE SH 1500")

	got := byName(New(reg).Project(cache.Snapshot()))
	assert.Equal(t, map[string]string{
		"SH":             "1500",
		"SH:CENTIMETERS": "150.00",
		"SH:INCHES":      "59.06",
		"MM":             "2032",
		"MM:CENTIMETERS": "203.20",
		"MM:INCHES":      "80.00",
	}, got)
}

func TestProject_NonNumericPositionKeepsNativeOnly(t *testing.T) {
	reg := command.NewRegistry()
	cache := state.New()
	cache.Set(command.ScreenPosition, "ERR")

	got := New(reg).Project(cache.Snapshot())
	require.Len(t, got, 1)
	assert.Equal(t, Variable{Name: "MM", Command: command.ScreenPosition, Value: "ERR"}, got[0])
}

func TestProject_PaddedPositionIsNumeric(t *testing.T) {
	reg := command.NewRegistry()
	c := codec.New(reg)
	cache := state.New()

	// double space after the token leaves a leading blank in the value
	feed(t, c, cache, "0 0 GE MM  1200")

	got := byName(New(reg).Project(cache.Snapshot()))
	assert.Equal(t, map[string]string{
		"MM":             " 1200",
		"MM:CENTIMETERS": "120.00",
		"MM:INCHES":      "47.24",
	}, got)
}

func TestProject_Passthrough(t *testing.T) {
	reg := command.NewRegistry()
	c := codec.New(reg)
	cache := state.New()

	feed(t, c, cache, "0 0 GE RE ST", "0 0 GE LO Main Hall")

	got := New(reg).Project(cache.Snapshot())
	assert.Equal(t, []Variable{
		{Name: "LO", Command: command.Location, Value: "Main Hall"},
		{Name: "RE", Command: command.RelayStatus, Value: "ST"},
	}, got)
}

func TestProject_UnitRoundTrip(t *testing.T) {
	reg := command.NewRegistry()
	p := New(reg)

	for raw := 0; raw <= 5000; raw += 7 {
		cache := state.New()
		cache.Set(command.ScreenPosition, strconv.Itoa(raw))

		for _, v := range p.Project(cache.Snapshot()) {
			unit := command.Millimeters
			if i := strings.IndexByte(v.Name, ':'); i >= 0 {
				var err error
				unit, err = command.UnitByName(v.Name[i+1:])
				require.NoError(t, err)
			}
			display, err := strconv.ParseFloat(v.Value, 64)
			require.NoError(t, err)

			back := unit.ToNative(display)
			assert.InDelta(t, raw, back, 1, "raw=%d unit=%s display=%s", raw, unit.Name, v.Value)
		}
	}
}

func TestProject_AspectRotationSelfConsistent(t *testing.T) {
	reg := command.NewRegistry()
	c := codec.New(reg)
	p := New(reg)
	aspect := reg.Indexed()

	for logical := 0; logical < command.SlotCount; logical++ {
		cache := state.New()

		// selecting preset `logical` targets wire slot A{(logical+1)%10};
		// the device echoes that slot's stored position
		target := codec.AspectTarget(aspect, logical)
		value := strconv.Itoa(1000 + logical)
		feed(t, c, cache, "0 0 GE "+target+" "+value)

		got := byName(p.Project(cache.Snapshot()))
		assert.Equal(t, value, got[SlotName(aspect, logical)], "logical %d", logical)
		assert.Len(t, got, 1)
	}
}

func TestProject_AspectSlotsRekeyed(t *testing.T) {
	reg := command.NewRegistry()
	c := codec.New(reg)
	cache := state.New()

	feed(t, c, cache, "0 0 GE A0 1200", "0 0 GE A1 900")

	got := byName(New(reg).Project(cache.Snapshot()))
	assert.Equal(t, map[string]string{"A9": "1200", "A0": "900"}, got)
}

func TestDefinitions(t *testing.T) {
	reg := command.NewRegistry()
	defs := Definitions(reg)

	labels := map[string]string{}
	for _, d := range defs {
		labels[d.Name] = d.Label
	}

	assert.Equal(t, "Screen Position (Inches)", labels["MM:INCHES"])
	assert.Equal(t, "Screen Position (Millimeters)", labels["MM"])
	assert.Equal(t, "Aspect Ratio (1.78:1 (16x9))", labels["A4"])
	assert.Equal(t, "Relay Status", labels["RE"])
	assert.True(t, Known(reg, "A9"))
	assert.False(t, Known(reg, "A"))
	assert.False(t, Known(reg, "RE:INCHES"))
}

func TestTouched(t *testing.T) {
	vars := []Variable{
		{Name: "MM", Command: command.ScreenPosition},
		{Name: "MM:INCHES", Command: command.ScreenPosition},
		{Name: "RE", Command: command.RelayStatus},
	}
	assert.Equal(t, []command.ID{command.ScreenPosition, command.RelayStatus}, Touched(vars))
}
