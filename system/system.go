// Package system coordinates the lifecycle, timing and revocation/audit
// protocols of an opaque DRM engine. It owns the single engine context per
// process, recovers it when the backing store vanishes, bootstraps trusted
// time at first use, ingests revocation packages, drives the secure-stop
// protocol over a bounded nonce ledger and reports store integrity.
package system

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jvbreda/drmcore/engine"
	"github.com/jvbreda/drmcore/logger"
	"github.com/jvbreda/drmcore/nonce"
	"github.com/jvbreda/drmcore/securetime"
	"github.com/jvbreda/drmcore/types"
)

// System provides a concrete implementation of the MediaSystem interface.
// One mutex serializes every operation that touches the engine context and
// its derived state; the lock is never held across a network call because
// the only network activity (clock bootstrap) happens while the context is
// being brought up, before it is published for concurrent use.
type System struct {
	mu sync.Mutex // Protects all fields below.

	eng engine.Engine
	drm engine.Context // nil while no context exists.

	config    Config
	logger    logger.Logger
	metrics   Metrics
	transport securetime.Transport
	clock     securetime.Clock
	boot      *securetime.Bootstrapper

	clockState types.ClockState
	ledger     *nonce.Ledger

	storeDir  string
	storePath string

	meteringCert []byte
}

// New creates a System around the given engine. The system is inert until
// Initialize provides the host's persistent path and configuration line.
func New(eng engine.Engine, opts ...SystemOption) (*System, error) {
	if eng == nil {
		return nil, fmt.Errorf("drm: engine must not be nil")
	}

	s := &System{
		eng:     eng,
		config:  DefaultConfig(),
		logger:  &logger.NoOpLogger{},
		metrics: NoOpMetrics{},
		ledger:  nonce.NewLedger(nonce.StoreSize),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	s.logger = s.logger.WithComponent("system")
	return s, nil
}

// Initialize wires the system to the host: derives the store location from
// the persistent path, folds in the JSON config line, loads the metering
// certificate and brings up the engine context. A bring-up failure is
// returned but not fatal to the process; session creation degrades until a
// later ensureContext succeeds.
func (s *System) Initialize(persistentDir string, configLine string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meteringPath := s.applyHostConfigLocked(configLine)

	s.storeDir = filepath.Join(persistentDir, s.config.StoreDirName)
	s.storePath = filepath.Join(s.storeDir, s.config.StoreFileName)
	s.logger = s.logger.WithStore(s.storePath)
	s.logger.Infow("Configuring DRM system", "storeDir", s.storeDir)

	if meteringPath != "" {
		cert, err := os.ReadFile(meteringPath)
		if err != nil {
			// The certificate only authorizes secure-stop exchanges;
			// a missing one is not fatal to the rest of the system.
			s.logger.Warnw("Failed to load metering certificate", "path", meteringPath, "error", err)
		} else {
			s.meteringCert = cert
			s.logger.Infow("Metering certificate loaded", "path", meteringPath, "bytes", len(cert))
		}
	}

	boot, err := securetime.NewBootstrapper(s.config.SecureTime, s.transport, s.clock, s.logger)
	if err != nil {
		return err
	}
	s.boot = boot

	return s.initializeSystemLocked()
}

// Deinitialize tears down the engine context. Safe to call repeatedly.
func (s *System) Deinitialize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deinitializeSystemLocked()
}

// initializeSystemLocked brings up a fresh engine context. Any existing
// context is torn down first, making re-initialization idempotent. On
// failure every partial allocation is released, no context remains and the
// collapsed ErrSystemInitialization is returned; the underlying cause is
// logged with its stage.
func (s *System) initializeSystemLocked() error {
	if s.storePath == "" || s.boot == nil {
		return ErrNotConfigured
	}

	if s.drm != nil {
		s.deinitializeSystemLocked()
	}

	if err := os.MkdirAll(s.storeDir, 0o755); err != nil {
		s.metrics.IncrSystemInit(false)
		s.logger.Errorw("System initialization failed", "stage", "store directory", "error", err)
		return fmt.Errorf("%w: store directory: %v", ErrSystemInitialization, err)
	}

	drm, err := s.eng.Open(engine.ContextConfig{
		StoreDir:         s.storeDir,
		StorePath:        s.storePath,
		OpaqueBufferSize: s.config.OpaqueBufferSize,
	})
	if err != nil {
		s.metrics.IncrSystemInit(false)
		s.logger.Errorw("System initialization failed", "stage", "context open", "error", err)
		return fmt.Errorf("%w: context open: %v", ErrSystemInitialization, err)
	}

	// From here on, a failing step must release the context before leaving.
	fail := func(stage string, err error) error {
		if cerr := drm.Close(); cerr != nil {
			s.logger.Warnw("Context close failed during cleanup", "error", cerr)
		}
		s.metrics.IncrSystemInit(false)
		s.logger.Errorw("System initialization failed", "stage", stage, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrSystemInitialization, stage, err)
	}

	if s.clockState == types.ClockUnset {
		state, err := s.boot.Establish(drm)
		if err != nil {
			return fail("clock bootstrap", err)
		}
		s.clockState = state
		s.metrics.ObserveClockBootstrap(state)
		s.logger.Infow("Trusted clock established", "state", state)
	}

	if err := drm.ResizeLicenseStore(s.config.LicenseStoreSize); err != nil {
		return fail("license store resize", err)
	}

	if s.eng.SupportsRevocation() {
		if err := drm.SetRevocationBuffer(s.config.RevocationBufferSize); err != nil {
			return fail("revocation buffer", err)
		}
		if err := s.loadRevocationList(drm, s.config.RevocationListPath); err != nil {
			return fail("revocation list", err)
		}
	}

	mode := engine.Uint32Value(uint32(engine.DecryptionModeSecureHandle))
	if err := drm.SetProperty(engine.PropertyDecryptionOutputMode, mode); err != nil {
		return fail("decryption output mode", err)
	}

	s.drm = drm
	s.metrics.IncrSystemInit(true)
	s.logger.Infow("System initialized", "engine", s.eng.Version(), "clock", s.clockState)
	return nil
}

// deinitializeSystemLocked releases the context. The store cleanup pass is
// best-effort maintenance; its failure is logged, never propagated.
func (s *System) deinitializeSystemLocked() {
	if s.drm == nil {
		return
	}

	if err := s.drm.CleanupStore(); err != nil {
		s.logger.Warnw("Store cleanup failed", "error", err)
	}
	if err := s.drm.Close(); err != nil {
		s.logger.Warnw("Context close failed", "error", err)
	}
	s.drm = nil
	s.logger.Infow("System deinitialized")
}

// ensureContextLocked guarantees a valid context before a session operation.
// The host exposes a store-deletion operation independently of context
// lifetime, so the only safe recovery point is lazily, right before the next
// use: when the store file is gone the context is stale and is rebuilt.
func (s *System) ensureContextLocked() error {
	if s.storePath == "" {
		return ErrNotConfigured
	}

	if s.drm != nil {
		if _, err := os.Stat(s.storePath); err == nil {
			return nil
		}
		s.logger.Infow("Store file missing, rebuilding context")
		s.metrics.IncrContextRecovery()
	}

	return s.initializeSystemLocked()
}

// ClockState returns the trusted-time state reached in this process.
func (s *System) ClockState() types.ClockState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clockState
}

// DeleteSecureStore removes the on-disk store. As a reference
// implementation this deletes the file directly; the next session operation
// rebuilds the context from scratch.
func (s *System) DeleteSecureStore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.storePath == "" {
		return ErrNotConfigured
	}
	if err := os.Remove(s.storePath); err != nil && !os.IsNotExist(err) {
		s.logger.Warnw("Error removing DRM store file", "error", err)
	}
	return nil
}

// LDLSessionLimit reports the maximum number of limited-duration-license
// sessions a client may keep outstanding without risking silent loss of the
// oldest secure-stop challenge.
func (s *System) LDLSessionLimit() uint32 {
	return nonce.StoreSize
}

// DRMSystemTime returns wall-clock seconds. Trusted time lives entirely in
// the opaque blobs exchanged between engine and server; this value exists
// for legacy callers that still want a client time.
func (s *System) DRMSystemTime() uint64 {
	return uint64(time.Now().Unix())
}

// Version reports the engine client version string.
func (s *System) Version() string {
	return s.eng.Version()
}

// IsSecureStopEnabled reports whether the secure-stop protocol is active.
// It always is for this engine generation.
func (s *System) IsSecureStopEnabled() bool {
	return true
}

// ResetSecureStops is a host-interface stub retained for compatibility;
// this engine generation has no bulk reset.
func (s *System) ResetSecureStops() uint32 {
	return 0
}
