package engine

import "encoding/binary"

// Buffer sizes
const (
	// MinOpaqueBufferSize is the smallest working buffer the engine accepts
	// for a context.
	MinOpaqueBufferSize uint32 = 64 * 1024

	// DefaultRevocationBufferSize is the revocation working buffer size
	// registered during context bring-up on revocation-capable platforms.
	DefaultRevocationBufferSize uint32 = 100 * 1024
)

// Property identifies a content property configurable on a context.
type Property int

const (
	// PropertyDecryptionOutputMode selects where decrypted payloads are
	// delivered. Value is a little-endian uint32 DecryptionMode.
	PropertyDecryptionOutputMode Property = iota
)

// DecryptionMode enumerates the values of PropertyDecryptionOutputMode.
type DecryptionMode uint32

const (
	// DecryptionModeNotSecure delivers decrypted payloads into the open domain.
	DecryptionModeNotSecure DecryptionMode = iota

	// DecryptionModeSecureHandle delivers decrypted payloads as opaque secure
	// handles; cleartext never crosses into the open domain.
	DecryptionModeSecureHandle
)

// ClockType identifies which trusted clock a context reports.
type ClockType int

const (
	ClockTypeNone ClockType = iota
	ClockTypeSecure
	ClockTypeAntiRollback
)

// String helps with making clock types more readable in logs and debug output.
func (ct ClockType) String() string {
	switch ct {
	case ClockTypeNone:
		return "None"
	case ClockTypeSecure:
		return "Secure"
	case ClockTypeAntiRollback:
		return "AntiRollback"
	default:
		return "Unknown"
	}
}

// Uint32Value encodes a uint32 property value in the engine's wire order.
func Uint32Value(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}
