package system

import (
	"fmt"
	"os"

	"github.com/jvbreda/drmcore/engine"
)

// loadRevocationList reads the revocation package at path and hands it to
// the engine. A missing file is success: revocation lists are optional and
// most deployments never ship one. Any other read failure or an engine-side
// rejection aborts initialization, because the revocation buffer is already
// wired into the context and must stay consistent with it.
func (s *System) loadRevocationList(drm engine.Context, path string) error {
	pkg, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debugw("No revocation list present", "path", path)
			return nil
		}
		return fmt.Errorf("read revocation list %s: %w", path, err)
	}

	if err := drm.StoreRevocationPackage(pkg); err != nil {
		return fmt.Errorf("store revocation package: %w", err)
	}

	s.logger.Infow("Revocation list loaded", "path", path, "bytes", len(pkg))
	return nil
}
