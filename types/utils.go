package types

import "encoding/hex"

// IsZero reports whether the session id is the all-zero identifier,
// which is never produced by NewSessionID and is treated as invalid input.
func (id SessionID) IsZero() bool {
	return id == SessionID{}
}

// String renders the session id as lowercase hex for logs and debug output.
func (id SessionID) String() string {
	return hex.EncodeToString(id[:])
}

// String helps with making clock states more readable in logs and debug output.
func (cs ClockState) String() string {
	switch cs {
	case ClockUnset:
		return "Unset"
	case ClockSecure:
		return "SecureClock"
	case ClockAntiRollback:
		return "AntiRollbackClock"
	default:
		return "Unknown"
	}
}

// IsEstablished reports whether a trusted time source has been established.
func (cs ClockState) IsEstablished() bool {
	return cs == ClockSecure || cs == ClockAntiRollback
}

// CanTransitionTo checks if a transition from the current clock state to the
// target state is valid. Clock state transitions are one-directional per
// process lifetime: once established, a clock is never downgraded or replaced.
func (cs ClockState) CanTransitionTo(target ClockState) bool {
	return cs == ClockUnset && target.IsEstablished()
}
