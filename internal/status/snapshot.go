// internal/status/snapshot.go
package status

const maxCounter = 65535

// Snapshot is the connection health of one device.
// It contains no memory of the past beyond current state.
type Snapshot struct {
	DeviceID       string
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
	Connects       uint16
}

// Connecting marks a dial attempt. Reports whether anything changed.
func (s *Snapshot) Connecting() bool {
	if s.Health == HealthConnecting {
		return false
	}
	s.Health = HealthConnecting
	return true
}

// Connected marks recovery: health OK, error state cleared.
func (s *Snapshot) Connected() bool {
	changed := s.Health != HealthOK || s.LastErrorCode != ErrCodeNone || s.SecondsInError != 0
	s.Health = HealthOK
	s.LastErrorCode = ErrCodeNone
	s.SecondsInError = 0
	if s.Connects < maxCounter {
		s.Connects++
		changed = true
	}
	return changed
}

// Failed marks a transport error with the given code.
// seconds_in_error only advances on Tick.
func (s *Snapshot) Failed(code uint16) bool {
	if code == ErrCodeNone {
		code = ErrCodeGeneric
	}
	changed := s.Health != HealthError || s.LastErrorCode != code
	s.Health = HealthError
	s.LastErrorCode = code
	return changed
}

// Disabled marks an orderly shutdown.
func (s *Snapshot) Disabled() bool {
	if s.Health == HealthDisabled {
		return false
	}
	s.Health = HealthDisabled
	return true
}

// Tick advances seconds_in_error by one while not OK. It saturates and
// never wraps. Reports whether anything changed.
func (s *Snapshot) Tick() bool {
	if s.Health == HealthOK || s.Health == HealthDisabled || s.Health == HealthUnknown {
		return false
	}
	if s.SecondsInError >= maxCounter {
		return false
	}
	s.SecondsInError++
	return true
}
