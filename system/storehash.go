package system

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// StoreHashSize is the length of the digest written by StoreHash.
const StoreHashSize = sha256.Size

// StoreHash computes the SHA-256 over the whole file at path and writes it
// into dst. The length of dst must equal StoreHashSize exactly; anything
// else is a contract violation, reported as ErrHashLength independent of
// the file's contents.
func StoreHash(path string, dst []byte) error {
	if len(dst) != StoreHashSize {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrHashLength, StoreHashSize, len(dst))
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreOpen, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreOpen, err)
	}

	copy(dst, h.Sum(nil))
	return nil
}

// SecureStoreHash reports the content hash of the persisted store for
// external integrity verification.
func (s *System) SecureStoreHash(dst []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.storePath == "" {
		return ErrNotConfigured
	}

	if err := StoreHash(s.storePath, dst); err != nil {
		s.metrics.IncrStoreHash(false)
		s.logger.Errorw("Store hash failed", "error", err)
		return err
	}
	s.metrics.IncrStoreHash(true)
	return nil
}
