// internal/status/constants.go
package status

// Health block layout constants.
// These values define the mirror layout and MUST NOT be configurable.

// SlotsPerDevice is the fixed number of registers per device block.
const SlotsPerDevice = 20

const (
	SlotHealthCode     = 0
	SlotLastErrorCode  = 1
	SlotSecondsInError = 2
	SlotConnects       = 3 // successful connections since start, saturating
)

// Slots 4..10 are reserved.
const (
	SlotReservedStart = 4
	SlotReservedEnd   = 10
)

// The device name always lives at the end of the block.
const (
	SlotDeviceNameStart = 11
	SlotDeviceNameSlots = 8
	SlotDeviceNameEnd   = SlotDeviceNameStart + SlotDeviceNameSlots - 1
)

// DeviceNameMaxChars is the maximum number of ASCII characters stored for the device name.
const DeviceNameMaxChars = 16

// Health codes.
const (
	HealthUnknown    uint16 = 0 // boot, never connected
	HealthOK         uint16 = 1 // connected
	HealthError      uint16 = 2 // transport error or closed
	HealthConnecting uint16 = 3 // dial in progress
	HealthDisabled   uint16 = 4 // shut down
)

// Last error codes. Transport errors carry no device code, so the mirror
// distinguishes only the failure stage.
const (
	ErrCodeNone    uint16 = 0
	ErrCodeGeneric uint16 = 1
	ErrCodeDial    uint16 = 2
	ErrCodeRead    uint16 = 3
	ErrCodeWrite   uint16 = 4
)

// HealthName is a log-friendly name for a health code.
func HealthName(h uint16) string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthConnecting:
		return "connecting"
	case HealthDisabled:
		return "disabled"
	default:
		return "invalid"
	}
}
