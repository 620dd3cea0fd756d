// internal/writer/device_status_writer_test.go
package writer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/scb-bridge/internal/status"
)

func statusPlan() Plan {
	return Plan{
		Endpoint: "status-endpoint",
		Status: &StatusPlan{
			UnitID:     1,
			BaseSlot:   2,
			DeviceName: "SCB-01",
		},
	}
}

func TestStatusWriter_Disabled(t *testing.T) {
	_, enabled := NewDeviceStatusWriter(Plan{}, &fakeEndpointClient{})
	assert.False(t, enabled)
}

func TestDeviceNameWrittenOnFullAssertOnly(t *testing.T) {
	cli := &fakeEndpointClient{}
	plan := statusPlan()

	sw, enabled := NewDeviceStatusWriter(plan, cli)
	require.True(t, enabled)

	// ---- first write: FULL ASSERT ----
	require.NoError(t, sw.WriteStatus(status.Snapshot{Health: status.HealthOK, Connects: 1}))

	require.Len(t, cli.lastRegs, status.SlotsPerDevice)
	assert.Equal(t, uint16(2*status.SlotsPerDevice), cli.lastRegsAddr)
	assert.Equal(t, status.HealthOK, cli.lastRegs[status.SlotHealthCode])
	assert.Equal(t, uint16(1), cli.lastRegs[status.SlotConnects])

	name := status.EncodeName(plan.Status.DeviceName)
	assert.Equal(t, name, cli.lastRegs[status.SlotDeviceNameStart:status.SlotDeviceNameEnd+1])
	assert.Equal(t, uint16('S')<<8|uint16('C'), name[0])

	// ---- second write: INCREMENTAL ONLY ----
	require.NoError(t, sw.WriteStatus(status.Snapshot{
		Health:         status.HealthError,
		LastErrorCode:  status.ErrCodeRead,
		SecondsInError: 0,
		Connects:       1,
	}))

	assert.Len(t, cli.writes, 3, "health and last error as single-slot writes")
	for _, w := range cli.writes[1:] {
		assert.Len(t, w.regs, 1)
	}
}

func TestStatusWriter_UnchangedWritesNothing(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw, _ := NewDeviceStatusWriter(statusPlan(), cli)

	s := status.Snapshot{Health: status.HealthConnecting}
	require.NoError(t, sw.WriteStatus(s))
	require.NoError(t, sw.WriteStatus(s))
	assert.Len(t, cli.writes, 1)
}

func TestSecondsInErrorResetOnRecovery(t *testing.T) {
	cli := &fakeEndpointClient{}
	plan := statusPlan()
	sw, _ := NewDeviceStatusWriter(plan, cli)

	errSnap := status.Snapshot{Health: status.HealthOK, Connects: 1}
	require.NoError(t, sw.WriteStatus(errSnap))

	errSnap.Failed(status.ErrCodeDial)
	errSnap.Tick()
	errSnap.Tick()
	errSnap.Tick()
	require.NoError(t, sw.WriteStatus(errSnap))

	// recovery clears health, error and seconds; connects goes up
	okSnap := errSnap
	okSnap.Connected()
	cli.writes = nil
	require.NoError(t, sw.WriteStatus(okSnap))

	base := plan.Status.BaseSlot * status.SlotsPerDevice
	got := map[uint16]uint16{}
	for _, w := range cli.writes {
		require.Len(t, w.regs, 1)
		got[w.addr-base] = w.regs[0]
	}
	assert.Equal(t, map[uint16]uint16{
		status.SlotHealthCode:     status.HealthOK,
		status.SlotLastErrorCode:  status.ErrCodeNone,
		status.SlotSecondsInError: 0,
		status.SlotConnects:       2,
	}, got)
}

func TestStatusWriter_FailureForcesFullBlock(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw, _ := NewDeviceStatusWriter(statusPlan(), cli)

	require.NoError(t, sw.WriteStatus(status.Snapshot{Health: status.HealthOK}))

	cli.fail = errors.New("timeout")
	assert.Error(t, sw.WriteStatus(status.Snapshot{Health: status.HealthError}))

	cli.fail = nil
	require.NoError(t, sw.WriteStatus(status.Snapshot{Health: status.HealthError}))
	assert.Len(t, cli.lastRegs, status.SlotsPerDevice)
}
