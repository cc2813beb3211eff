package system

import (
	"errors"
	"fmt"

	"github.com/jvbreda/drmcore/engine"
	"github.com/jvbreda/drmcore/types"
)

// SecureStopIDs asks the engine for all outstanding secure-stop session
// identifiers, bounded by the capacity of dst. The engine reporting "no
// more" and a true enumeration are both non-error outcomes, distinguished
// only by the returned count.
func (s *System) SecureStopIDs(dst []types.SessionID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drm == nil {
		return 0, ErrNoContext
	}

	ids, err := s.drm.SecureStopSessions(s.meteringCert)
	if err != nil && !errors.Is(err, engine.ErrNoMoreSessions) {
		s.logger.Errorw("Secure stop enumeration failed", "error", err)
		return 0, fmt.Errorf("%w: enumerate: %v", ErrSecureStop, err)
	}

	n := copy(dst, ids)
	if n > 0 {
		s.logger.Infow("Found pending secure stops", "count", n)
	}
	return n, nil
}

// SecureStop retrieves the secure-stop challenge for one session, using the
// two-phase convention: a nil dst is a size query returning the required
// length without copying; a dst of at least that length receives the
// challenge bytes. These are the only two supported call shapes. Every
// successful challenge generation records the session's nonce; when the
// ledger is full the oldest nonce silently rolls off.
func (s *System) SecureStop(id types.SessionID, dst []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id.IsZero() {
		return 0, ErrInvalidSessionID
	}
	if s.drm == nil {
		return 0, ErrNoContext
	}

	challenge, err := s.drm.SecureStopChallenge(id, s.meteringCert)
	if err != nil {
		s.metrics.IncrSecureStopChallenge(false)
		s.logger.Errorw("Secure stop challenge failed", "session", id, "error", err)
		return 0, fmt.Errorf("%w: challenge: %v", ErrSecureStop, err)
	}
	s.metrics.IncrSecureStopChallenge(true)
	s.recordNonceLocked(id)

	if dst != nil && len(dst) >= len(challenge) {
		copy(dst, challenge)
	}
	return len(challenge), nil
}

// CommitSecureStop applies the server's response for one secure-stop
// session. Empty session ids and empty responses are rejected before the
// engine is consulted; so are sessions whose nonce is no longer outstanding.
// On success the nonce is removed; server custom data, if any, is logged and
// has no behavioral effect. An engine failure is reported to the caller but
// leaves the context valid.
func (s *System) CommitSecureStop(id types.SessionID, response []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id.IsZero() {
		s.logger.Errorw("Secure stop commit with empty session id")
		return ErrInvalidSessionID
	}
	if len(response) == 0 {
		return ErrEmptyResponse
	}
	if s.drm == nil {
		return ErrNoContext
	}
	if !s.ledger.Has(id) {
		s.logger.Warnw("Secure stop commit for unknown session", "session", id)
		return ErrUnknownSecureStopSession
	}

	customData, err := s.drm.ProcessSecureStopResponse(id, s.meteringCert, response)
	if err != nil {
		s.metrics.IncrSecureStopCommit(false)
		s.logger.Errorw("Secure stop commit failed", "session", id, "error", err)
		return fmt.Errorf("%w: commit: %v", ErrSecureStop, err)
	}

	s.ledger.Remove(id)
	s.metrics.IncrSecureStopCommit(true)
	s.metrics.SetOutstandingNonces(s.ledger.Len())
	s.logger.Infow("Secure stop commit successful", "session", id)

	if len(customData) > 0 {
		// Custom data from the server is not acted upon, only logged.
		s.logger.Infow("Secure stop custom data", "session", id, "data", string(customData))
	}
	return nil
}

// recordNonceLocked adds the session's nonce to the ledger and accounts for
// a possible eviction of the oldest outstanding nonce.
func (s *System) recordNonceLocked(id types.SessionID) {
	evicted, didEvict := s.ledger.Add(id)
	if didEvict {
		s.metrics.IncrNonceEviction()
		s.logger.Warnw("Nonce ledger full, oldest challenge rolled off", "evicted", evicted)
	}
	s.metrics.SetOutstandingNonces(s.ledger.Len())
}
