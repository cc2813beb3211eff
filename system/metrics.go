package system

import "github.com/jvbreda/drmcore/types"

// Metrics defines the interface for recording coordination-layer metrics.
// All methods must be safe for concurrent use.
type Metrics interface {
	// IncrSystemInit increments counters for system initialization attempts.
	IncrSystemInit(success bool)

	// IncrContextRecovery increments counters for lazy context rebuilds
	// triggered by an externally deleted store file.
	IncrContextRecovery()

	// ObserveClockBootstrap records the clock state reached by a bootstrap run.
	ObserveClockBootstrap(state types.ClockState)

	// IncrSecureStopChallenge increments counters for secure-stop challenge
	// generations.
	IncrSecureStopChallenge(success bool)

	// IncrSecureStopCommit increments counters for secure-stop commits.
	IncrSecureStopCommit(success bool)

	// IncrNonceEviction increments counters for nonces rolled off the ledger.
	IncrNonceEviction()

	// SetOutstandingNonces sets the current number of outstanding nonces.
	SetOutstandingNonces(count int)

	// IncrStoreHash increments counters for store integrity reports.
	IncrStoreHash(success bool)
}

// NoOpMetrics is a Metrics implementation that discards all measurements.
type NoOpMetrics struct{}

var _ Metrics = (*NoOpMetrics)(nil)

func (NoOpMetrics) IncrSystemInit(bool)                    {}
func (NoOpMetrics) IncrContextRecovery()                   {}
func (NoOpMetrics) ObserveClockBootstrap(types.ClockState) {}
func (NoOpMetrics) IncrSecureStopChallenge(bool)           {}
func (NoOpMetrics) IncrSecureStopCommit(bool)              {}
func (NoOpMetrics) IncrNonceEviction()                     {}
func (NoOpMetrics) SetOutstandingNonces(int)               {}
func (NoOpMetrics) IncrStoreHash(bool)                     {}
