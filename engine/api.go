// Package engine defines the capability surface of the vendor-supplied DRM
// engine consumed by the coordination layer. The engine performs all license
// parsing, key derivation and decryption internally; this package only models
// the narrow set of calls the lifecycle and protocol coordinators need, so the
// coordination logic can be exercised against a fake without the real
// cryptographic library.
package engine

import (
	"time"

	"github.com/jvbreda/drmcore/types"
)

// Engine is the process-level entry point into the vendor library.
// Implementations must be safe for use by a single coordinator; per-call
// serialization is owned by the caller.
type Engine interface {
	// Version returns the vendor client version string, for reporting only.
	Version() string

	// SupportsRevocation reports whether the platform build carries
	// revocation support. When false, no revocation buffer is registered
	// and no revocation package is loaded.
	SupportsRevocation() bool

	// Open allocates a new engine context bound to the given on-disk store.
	// The returned context owns its internal buffers until Close is called.
	//
	// Returns:
	//   - ErrPlatform if joining the underlying platform fails.
	//   - ErrAllocation if the opaque working buffer cannot be allocated.
	//   - ErrInitialize if the engine rejects the store or configuration.
	Open(cfg ContextConfig) (Context, error)
}

// ContextConfig carries the parameters for opening an engine context.
type ContextConfig struct {
	// StoreDir is the directory holding all engine state. It must exist.
	StoreDir string

	// StorePath is the license/state store file inside StoreDir. The engine
	// creates it on first use if absent.
	StorePath string

	// OpaqueBufferSize is the size in bytes of the engine's working buffer.
	// Must be at least MinOpaqueBufferSize.
	OpaqueBufferSize uint32
}

// Context is one live engine instance bound to one on-disk store.
// All methods are blocking and must be serialized by the caller; none of them
// may be invoked after Close.
type Context interface {
	// CleanupStore deletes expired licenses from the store and performs
	// maintenance. Called best-effort during teardown.
	CleanupStore() error

	// ResizeLicenseStore sets the initial size of the in-memory license
	// store. The store grows above this size if required during usage, so
	// getting the size right up front is an efficiency matter, not a
	// correctness one.
	ResizeLicenseStore(size uint32) error

	// SetProperty configures a content property on the context, for example
	// the decryption output mode.
	SetProperty(prop Property, value []byte) error

	// SecureTimeStatus queries the trusted clock.
	//
	// Returns:
	//   - the current trusted time and clock type when a clock is set.
	//   - ErrClockNotSet or ErrProvisioningRequired when the secure clock
	//     must be (re)provisioned via the time-challenge protocol.
	//   - ErrClockNotSupported when the platform has no secure clock at all.
	SecureTimeStatus() (time.Time, ClockType, error)

	// GenerateTimeChallenge produces an opaque time-challenge blob to be
	// submitted to the time service.
	GenerateTimeChallenge() ([]byte, error)

	// ProcessTimeResponse applies the time service's response blob,
	// establishing the secure clock.
	ProcessTimeResponse(response []byte) error

	// InitAntiRollbackClock seeds the rollback-resistant software clock from
	// the given wall-clock time. Used only when the secure clock is
	// categorically unsupported.
	InitAntiRollbackClock(seed time.Time) error

	// SetRevocationBuffer registers a revocation working buffer of the given
	// size with the context. Must be called before StoreRevocationPackage.
	SetRevocationBuffer(size uint32) error

	// StoreRevocationPackage ingests a signed revocation package.
	StoreRevocationPackage(pkg []byte) error

	// SecureStopSessions returns the identifiers of all outstanding
	// secure-stop sessions.
	//
	// Returns:
	//   - ErrNoMoreSessions when there are no outstanding sessions; callers
	//     must treat this as an empty result, not a failure.
	SecureStopSessions(meteringCert []byte) ([]types.SessionID, error)

	// SecureStopChallenge generates the secure-stop challenge for one
	// session, authorized by the metering certificate.
	SecureStopChallenge(id types.SessionID, meteringCert []byte) ([]byte, error)

	// ProcessSecureStopResponse applies the server's secure-stop response
	// for one session. Any custom data returned by the server is surfaced
	// for logging only.
	ProcessSecureStopResponse(id types.SessionID, meteringCert []byte, response []byte) (customData []byte, err error)

	// Close releases the context and all buffers it owns.
	Close() error
}
