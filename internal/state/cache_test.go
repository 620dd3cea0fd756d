// internal/state/cache_test.go
package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/scb-bridge/internal/command"
)

func TestCache_LastWriteWins(t *testing.T) {
	c := New()

	_, ok := c.Scalar(command.RelayStatus)
	assert.False(t, ok)

	c.Set(command.RelayStatus, "UP")
	c.Set(command.RelayStatus, "ST")

	v, ok := c.Scalar(command.RelayStatus)
	require.True(t, ok)
	assert.Equal(t, "ST", v)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Slots(t *testing.T) {
	c := New()

	c.SetSlot(command.AspectRatio, 0, "1200")
	c.SetSlot(command.AspectRatio, 3, "900")
	c.SetSlot(command.AspectRatio, 0, "1210")

	v, ok := c.Slot(command.AspectRatio, 0)
	require.True(t, ok)
	assert.Equal(t, "1210", v)

	_, ok = c.Slot(command.AspectRatio, 5)
	assert.False(t, ok)

	// an indexed entry is not a scalar
	_, ok = c.Scalar(command.AspectRatio)
	assert.False(t, ok)
}

func TestCache_SnapshotIsDetached(t *testing.T) {
	c := New()
	c.SetSlot(command.AspectRatio, 1, "100")
	c.Set(command.ScreenPosition, "2000")

	snap := c.Snapshot()
	c.SetSlot(command.AspectRatio, 1, "200")
	c.Set(command.ScreenPosition, "0")

	v, _ := snap.Slot(command.AspectRatio, 1)
	assert.Equal(t, "100", v)
	v, _ = snap.Scalar(command.ScreenPosition)
	assert.Equal(t, "2000", v)
}
