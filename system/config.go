package system

import (
	"encoding/json"
	"fmt"

	"github.com/jvbreda/drmcore/engine"
	"github.com/jvbreda/drmcore/logger"
	"github.com/jvbreda/drmcore/securetime"
)

// Config holds the tunables of the coordination layer. Store paths are
// derived from the host's persistent path at Initialize and are not part of
// the configuration.
type Config struct {
	// StoreDirName is the subdirectory of the persistent path for engine state.
	StoreDirName string

	// StoreFileName is the store file name inside StoreDirName.
	StoreFileName string

	// RevocationListPath is where the optional revocation package lives.
	RevocationListPath string

	// OpaqueBufferSize is the engine working buffer size for the context.
	OpaqueBufferSize uint32

	// RevocationBufferSize is the revocation working buffer registered on
	// revocation-capable platforms.
	RevocationBufferSize uint32

	// LicenseStoreSize is the initial in-memory license store size in bytes.
	LicenseStoreSize uint32

	// SecureTime configures the clock bootstrap protocol.
	SecureTime securetime.Config
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		StoreDirName:         DefaultStoreDirName,
		StoreFileName:        DefaultStoreFileName,
		RevocationListPath:   DefaultRevocationListFile,
		OpaqueBufferSize:     DefaultOpaqueBufferSize,
		RevocationBufferSize: engine.DefaultRevocationBufferSize,
		LicenseStoreSize:     DefaultLicenseStoreSize,
		SecureTime:           securetime.DefaultConfig(),
	}
}

// Validate checks the configuration for obvious mistakes.
func (c Config) Validate() error {
	if c.StoreDirName == "" {
		return fmt.Errorf("drm: store directory name must not be empty")
	}
	if c.StoreFileName == "" {
		return fmt.Errorf("drm: store file name must not be empty")
	}
	if c.OpaqueBufferSize < engine.MinOpaqueBufferSize {
		return fmt.Errorf("drm: opaque buffer size %d below engine minimum %d",
			c.OpaqueBufferSize, engine.MinOpaqueBufferSize)
	}
	if c.LicenseStoreSize == 0 {
		return fmt.Errorf("drm: license store size must be positive")
	}
	return c.SecureTime.Validate()
}

// hostConfig is the JSON configuration string handed over by the host at
// Initialize. All fields are optional.
type hostConfig struct {
	// Metering names the metering certificate file authorizing secure-stop
	// exchanges.
	Metering string `json:"metering"`

	// Revocation overrides the revocation package path.
	Revocation string `json:"revocation"`

	// SecureTimeURL overrides the time-service petition URL.
	SecureTimeURL string `json:"secureTimeUrl"`

	// LogLevel selects the minimum level of the host-provided logger.
	LogLevel string `json:"logLevel"`
}

// applyHostConfigLocked folds the host's config line into the configuration
// and returns the metering certificate path, if any. A malformed line is
// logged and ignored; host configuration is glue and never fatal.
func (s *System) applyHostConfigLocked(configLine string) string {
	if configLine == "" {
		return ""
	}

	var hc hostConfig
	if err := json.Unmarshal([]byte(configLine), &hc); err != nil {
		s.logger.Warnw("Ignoring malformed host config line", "error", err)
		return ""
	}

	if hc.Revocation != "" {
		s.config.RevocationListPath = hc.Revocation
	}
	if hc.SecureTimeURL != "" {
		s.config.SecureTime.PetitionURL = hc.SecureTimeURL
	}
	if hc.LogLevel != "" {
		s.logger = logger.NewStdLogger(hc.LogLevel).WithComponent("system")
	}
	return hc.Metering
}

// SystemOption configures a System during construction.
type SystemOption func(*System)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) SystemOption {
	return func(s *System) { s.config = cfg }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log logger.Logger) SystemOption {
	return func(s *System) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithMetrics sets the metrics sink. Defaults to no-op metrics.
func WithMetrics(m Metrics) SystemOption {
	return func(s *System) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTransport overrides the clock-bootstrap HTTP transport, mainly for tests.
func WithTransport(t securetime.Transport) SystemOption {
	return func(s *System) { s.transport = t }
}

// WithClock overrides the wall clock used to seed the anti-rollback fallback.
func WithClock(c securetime.Clock) SystemOption {
	return func(s *System) { s.clock = c }
}
