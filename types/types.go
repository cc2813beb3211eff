package types

import (
	"fmt"

	"github.com/google/uuid"
)

// SessionIDSize is the fixed length, in bytes, of a secure-stop session identifier.
const SessionIDSize = 16

// SessionID uniquely identifies a DRM session and the secure-stop challenge
// generated for it. It matches the engine's fixed 16-byte identifier format.
type SessionID [SessionIDSize]byte

// NewSessionID returns a freshly generated random session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.New())
}

// SessionIDFromBytes converts a raw byte slice into a SessionID.
// The slice must be exactly SessionIDSize bytes long.
func SessionIDFromBytes(b []byte) (SessionID, error) {
	var id SessionID
	if len(b) != SessionIDSize {
		return id, fmt.Errorf("session id must be %d bytes, got %d", SessionIDSize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// ClockState represents which trusted-time source has been established
// for the engine within the current process lifetime.
type ClockState int

const (
	// ClockUnset indicates no trusted time source has been established yet.
	// This is the only state from which a transition is possible.
	ClockUnset ClockState = iota

	// ClockSecure indicates the engine's network-backed secure clock has
	// been provisioned via the time-challenge protocol.
	ClockSecure

	// ClockAntiRollback indicates the engine does not support a secure clock
	// and a rollback-resistant software clock was seeded from wall-clock time.
	ClockAntiRollback
)
