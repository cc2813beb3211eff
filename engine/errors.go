package engine

import "errors"

var (
	// ErrPlatform is returned when the engine cannot join its underlying platform.
	ErrPlatform = errors.New("engine: platform join failed")

	// ErrAllocation is returned when an engine-side buffer allocation fails.
	ErrAllocation = errors.New("engine: memory allocation failed")

	// ErrInitialize is returned when the engine rejects context initialization.
	ErrInitialize = errors.New("engine: context initialization failed")

	// ErrClockNotSet is returned by SecureTimeStatus when the secure clock
	// exists but has not been provisioned yet.
	ErrClockNotSet = errors.New("engine: secure clock not set")

	// ErrProvisioningRequired is returned by SecureTimeStatus when the trusted
	// execution environment requires (re)provisioning of the secure clock.
	ErrProvisioningRequired = errors.New("engine: clock provisioning required")

	// ErrClockNotSupported is returned by SecureTimeStatus when the platform
	// has no secure clock; callers fall back to the anti-rollback clock.
	ErrClockNotSupported = errors.New("engine: secure clock not supported")

	// ErrNoMoreSessions is returned by SecureStopSessions when no secure-stop
	// sessions are outstanding. It is a non-error outcome for callers.
	ErrNoMoreSessions = errors.New("engine: no more secure stop sessions")

	// ErrRevocationRejected is returned when the engine refuses a revocation package.
	ErrRevocationRejected = errors.New("engine: revocation package rejected")

	// ErrContextClosed is returned when a context is used after Close.
	ErrContextClosed = errors.New("engine: context is closed")
)
