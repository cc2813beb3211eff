package system

import "github.com/jvbreda/drmcore/engine"

// Store layout
const (
	// DefaultStoreDirName is the subdirectory of the host's persistent path
	// holding all engine state.
	DefaultStoreDirName = "drm"

	// DefaultStoreFileName is the license/state store file inside the store
	// directory. Its existence is the liveness signal for the context.
	DefaultStoreFileName = "drmstore"

	// DefaultRevocationListFile is the well-known revocation package path.
	// The file is optional; absence is not an error.
	DefaultRevocationListFile = "/tmp/revpackage.xml"
)

// Capacity
const (
	// DefaultMaxLicenses sizes the in-memory license store. The store grows
	// beyond this with a memory-doubling scheme if required, so this is a
	// starting point, not a cap.
	DefaultMaxLicenses = 200

	// DefaultLicenseSizeBytes is the per-license sizing estimate used with
	// DefaultMaxLicenses.
	DefaultLicenseSizeBytes = 10 * 1024

	// DefaultLicenseStoreSize is the initial in-memory license store size.
	DefaultLicenseStoreSize uint32 = DefaultMaxLicenses * DefaultLicenseSizeBytes

	// DefaultOpaqueBufferSize is the engine working buffer size for a context.
	DefaultOpaqueBufferSize = engine.MinOpaqueBufferSize
)
