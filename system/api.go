package system

import "github.com/jvbreda/drmcore/types"

// MediaSystem is the host-facing surface of the coordination layer.
//
// All methods are synchronous and serialized against each other: one
// process-wide lock guards the engine context and everything derived from it.
// No method may be assumed cancellable once entered.
type MediaSystem interface {
	// Initialize wires the system to the host's persistent path and JSON
	// configuration line, then brings up the engine context. Bring-up
	// failure leaves the system without a context; session creation fails
	// until a later attempt succeeds.
	Initialize(persistentDir string, configLine string) error

	// Deinitialize tears down the engine context. Idempotent.
	Deinitialize()

	// CreateSession ensures a valid context (rebuilding it when the store
	// file was deleted externally) and returns a new opaque session.
	// Ownership transfers to the caller, who must destroy it exactly once.
	CreateSession(initData, cdmData []byte) (*Session, error)

	// DestroySession releases a session created by this system. Passing a
	// foreign or already-destroyed session is a programmer error and panics.
	DestroySession(sess *Session)

	// SecureStopIDs fills dst with the identifiers of outstanding
	// secure-stop sessions and returns how many were written. Zero is a
	// valid result, not an error.
	SecureStopIDs(dst []types.SessionID) (int, error)

	// SecureStop retrieves the secure-stop challenge for a session using
	// the two-phase convention: a nil dst queries the required length
	// without copying; a dst of at least that length receives the
	// challenge. Both shapes return the challenge length. Each successful
	// call records the session's nonce in the ledger.
	SecureStop(id types.SessionID, dst []byte) (int, error)

	// CommitSecureStop applies the server's secure-stop response for a
	// session and removes its nonce from the ledger. Empty ids or responses
	// are rejected before the engine is consulted.
	CommitSecureStop(id types.SessionID, response []byte) error

	// SecureStoreHash writes the SHA-256 of the whole store file into dst,
	// whose length must equal the digest size exactly.
	SecureStoreHash(dst []byte) error

	// DeleteSecureStore removes the on-disk store file.
	DeleteSecureStore() error

	// ClockState reports the trusted-time state of this process.
	ClockState() types.ClockState

	// LDLSessionLimit reports the nonce ledger capacity: the number of
	// outstanding license challenges a client may safely hold.
	LDLSessionLimit() uint32

	// DRMSystemTime returns wall-clock seconds for legacy callers.
	DRMSystemTime() uint64

	// Version reports the engine client version string.
	Version() string
}

var _ MediaSystem = (*System)(nil)
