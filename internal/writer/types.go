// internal/writer/types.go
package writer

import "github.com/tamzrod/scb-bridge/internal/device"

// RegisterDest maps one projected variable to a holding register.
type RegisterDest struct {
	Variable string
	Address  uint16
	Scale    float64
}

// CoilDest maps one feedback to a coil.
type CoilDest struct {
	Feedback string
	Address  uint16
}

// StatusPlan places the health block of one device.
type StatusPlan struct {
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Plan is the fully-built mirror plan for one device. All writes go to a
// single endpoint and unit id.
type Plan struct {
	DeviceID  string
	Endpoint  string
	UnitID    uint8
	Registers []RegisterDest
	Coils     []CoilDest
	Status    *StatusPlan // nil: health block disabled
}

// Writer mirrors adapter updates into a target.
type Writer interface {
	Write(u device.Update) error
}

// Client is the exact contract the writers use against a target.
type Client interface {
	WriteCoils(unitID uint8, addr uint16, bits []bool) error
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
