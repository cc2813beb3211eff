package system

import "errors"

var (
	// ErrSystemInitialization is the collapsed result of any bring-up
	// failure: platform join, allocation, engine initialize, clock bootstrap
	// or revocation load. The underlying cause is logged and wrapped; the
	// process keeps running with no context and a later ensureContext may
	// recover.
	ErrSystemInitialization = errors.New("drm: system initialization failed")

	// ErrNotConfigured is returned when an operation runs before Initialize
	// has provided the store location.
	ErrNotConfigured = errors.New("drm: system not configured")

	// ErrNoContext is returned when an operation requires a live engine
	// context and none exists.
	ErrNoContext = errors.New("drm: no engine context")

	// ErrInvalidSessionID is returned for a zero session id.
	ErrInvalidSessionID = errors.New("drm: invalid session id")

	// ErrEmptyResponse is returned when a secure-stop commit carries no
	// server response.
	ErrEmptyResponse = errors.New("drm: empty server response")

	// ErrUnknownSecureStopSession is returned when a commit references a
	// session whose nonce is not outstanding (never challenged, already
	// committed, or evicted from the ledger).
	ErrUnknownSecureStopSession = errors.New("drm: unknown secure stop session")

	// ErrSecureStop is returned when the engine rejects a secure-stop
	// operation. The context remains valid.
	ErrSecureStop = errors.New("drm: secure stop operation failed")

	// ErrHashLength is returned when the store-hash output buffer does not
	// match the digest length exactly. This is a contract precondition, not
	// a recoverable condition.
	ErrHashLength = errors.New("drm: hash buffer length mismatch")

	// ErrStoreOpen is returned when the store file cannot be read for hashing.
	ErrStoreOpen = errors.New("drm: cannot read store file")
)
