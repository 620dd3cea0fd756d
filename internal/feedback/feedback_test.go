// internal/feedback/feedback_test.go
package feedback

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/scb-bridge/internal/command"
	"github.com/tamzrod/scb-bridge/internal/state"
)

func newEvaluator() (*Evaluator, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return New(log), hook
}

func ptr(f float64) *float64 { return &f }

func TestRelayStatus(t *testing.T) {
	e, _ := newEvaluator()
	cache := state.New()

	req := Request{Command: command.RelayStatus, Status: command.RelayStop}
	assert.False(t, e.Evaluate(req, cache.Snapshot()), "empty cache")

	cache.Set(command.RelayStatus, "ST")
	assert.True(t, e.Evaluate(req, cache.Snapshot()))

	req.Status = command.RelayUp
	assert.False(t, e.Evaluate(req, cache.Snapshot()))
}

func TestAspectRatio_Window(t *testing.T) {
	e, _ := newEvaluator()
	cache := state.New()
	cache.SetSlot(command.AspectRatio, 0, "1200")

	// logical 9 reads wire slot 0
	req := Request{Command: command.AspectRatio, Index: 9}
	assert.False(t, e.Evaluate(req, cache.Snapshot()), "no target position yet")

	cache.Set(command.TargetPosition, "1205")
	assert.True(t, e.Evaluate(req, cache.Snapshot()))

	cache.Set(command.TargetPosition, "1215")
	assert.True(t, e.Evaluate(req, cache.Snapshot()), "lower bound inclusive")

	cache.Set(command.TargetPosition, "1185")
	assert.True(t, e.Evaluate(req, cache.Snapshot()), "upper bound inclusive")

	cache.Set(command.TargetPosition, "1216")
	assert.False(t, e.Evaluate(req, cache.Snapshot()))

	// logical 0 reads wire slot 1, which is empty
	req.Index = 0
	assert.False(t, e.Evaluate(req, cache.Snapshot()))
}

func TestAspectRatio_NonNumeric(t *testing.T) {
	e, _ := newEvaluator()
	cache := state.New()
	cache.SetSlot(command.AspectRatio, 1, "n/a")
	cache.Set(command.TargetPosition, "1000")

	assert.False(t, e.Evaluate(Request{Command: command.AspectRatio, Index: 0}, cache.Snapshot()))
}

func TestAspectRatio_ZeroIsAValue(t *testing.T) {
	e, _ := newEvaluator()
	cache := state.New()
	cache.SetSlot(command.AspectRatio, 1, "0")
	cache.Set(command.TargetPosition, "10")

	assert.True(t, e.Evaluate(Request{Command: command.AspectRatio, Index: 0}, cache.Snapshot()))
}

func TestScreenPosition_WindowEdges(t *testing.T) {
	e, _ := newEvaluator()
	cache := state.New()
	cache.Set(command.ScreenPosition, "2000")

	mm := command.Millimeters
	cases := []struct {
		value float64
		want  bool
	}{
		{1950, true},
		{2050, true},
		{2000, true},
		{1949, false},
		{2051, false},
	}
	for _, tc := range cases {
		req := Request{Command: command.ScreenPosition, Unit: mm, Value: ptr(tc.value)}
		assert.Equal(t, tc.want, e.Evaluate(req, cache.Snapshot()), "value %v", tc.value)
	}
}

func TestScreenPosition_UnitAndMissingValue(t *testing.T) {
	e, _ := newEvaluator()
	cache := state.New()
	cache.Set(command.ScreenPosition, "2032")

	in, err := command.UnitByName("INCHES")
	require.NoError(t, err)

	assert.True(t, e.Evaluate(Request{Command: command.ScreenPosition, Unit: in, Value: ptr(80)}, cache.Snapshot()))
	assert.False(t, e.Evaluate(Request{Command: command.ScreenPosition, Unit: in, Value: ptr(90)}, cache.Snapshot()))
	assert.False(t, e.Evaluate(Request{Command: command.ScreenPosition, Unit: in}, cache.Snapshot()))
	assert.True(t, e.Evaluate(Request{Command: command.ScreenPosition, Unit: in, Value: ptr(0)}, stateWith(command.ScreenPosition, "0")))
}

func TestPaddedValuesAreNumeric(t *testing.T) {
	e, _ := newEvaluator()
	mm := command.Millimeters

	assert.True(t, e.Evaluate(Request{Command: command.ScreenPosition, Unit: mm, Value: ptr(1200)},
		stateWith(command.ScreenPosition, " 1200")))

	cache := state.New()
	cache.SetSlot(command.AspectRatio, 1, " 1200 ")
	cache.Set(command.TargetPosition, " 1210")
	assert.True(t, e.Evaluate(Request{Command: command.AspectRatio, Index: 0}, cache.Snapshot()))
}

func stateWith(id command.ID, raw string) state.Snapshot {
	c := state.New()
	c.Set(id, raw)
	return c.Snapshot()
}

func TestUnhandledCommandIsNoMatch(t *testing.T) {
	e, hook := newEvaluator()

	assert.False(t, e.Evaluate(Request{Command: command.Version}, stateWith(command.Version, "1")))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
}

func TestEvaluateAll_FiltersByTouched(t *testing.T) {
	e, _ := newEvaluator()
	snap := stateWith(command.RelayStatus, "UP")

	reqs := []Request{
		{ID: "up", Command: command.RelayStatus, Status: command.RelayUp},
		{ID: "pos", Command: command.ScreenPosition, Unit: command.Millimeters, Value: ptr(1)},
	}

	got := e.EvaluateAll(reqs, []command.ID{command.RelayStatus}, snap)
	assert.Equal(t, []Result{{ID: "up", Command: command.RelayStatus, Match: true}}, got)

	got = e.EvaluateAll(reqs, nil, snap)
	assert.Len(t, got, 2)
}

func TestSupported(t *testing.T) {
	var names []string
	for _, c := range Supported(command.NewRegistry()) {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"RELAY_STATUS", "SCREEN_POSITION", "ASPECT_RATIO"}, names)
}
