// Package securetime establishes trusted time for an engine context.
//
// The bootstrap is a one-shot protocol run from system initialization:
// generate a time challenge, petition the well-known time-service URL,
// follow at most one redirect hop to the challenge-submission endpoint,
// POST the challenge and hand the response back to the engine. Platforms
// without a secure clock fall back to a rollback-resistant software clock
// seeded from wall-clock time.
package securetime

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jvbreda/drmcore/engine"
	"github.com/jvbreda/drmcore/logger"
	"github.com/jvbreda/drmcore/types"
)

// Clock abstracts wall-clock reads so the anti-rollback seed is testable.
type Clock interface {
	// Now returns the current local time.
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the real wall clock.
func SystemClock() Clock { return systemClock{} }

// Bootstrapper runs the clock bootstrap protocol against an engine context.
// It holds no state between runs; one-shot semantics are enforced by the
// caller, which stops invoking Establish once a clock state is recorded.
type Bootstrapper struct {
	cfg       Config
	transport Transport
	clock     Clock
	logger    logger.Logger
}

// NewBootstrapper creates a Bootstrapper. A nil transport selects the
// production HTTP transport; a nil clock selects the system clock.
func NewBootstrapper(cfg Config, transport Transport, clock Clock, log logger.Logger) (*Bootstrapper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = &logger.NoOpLogger{}
	}
	if transport == nil {
		transport = NewHTTPTransport(cfg, log)
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Bootstrapper{
		cfg:       cfg,
		transport: transport,
		clock:     clock,
		logger:    log.WithComponent("securetime"),
	}, nil
}

// Establish queries the engine's clock and brings it to an established state.
//
// Returns:
//   - ClockSecure when the clock is already valid or was provisioned via the
//     time-challenge protocol.
//   - ClockAntiRollback when the platform lacks a secure clock and the
//     software fallback was seeded.
//   - ClockUnset and an error on any other outcome; the caller treats this
//     as fatal to system initialization.
func (b *Bootstrapper) Establish(drm engine.Context) (types.ClockState, error) {
	_, clockType, err := drm.SecureTimeStatus()
	switch {
	case err == nil:
		b.logger.Debugw("trusted clock already established", "clockType", clockType)
		return types.ClockSecure, nil

	case errors.Is(err, engine.ErrClockNotSet), errors.Is(err, engine.ErrProvisioningRequired):
		if err := b.provision(drm); err != nil {
			return types.ClockUnset, err
		}
		b.logger.Infow("secure clock established")
		return types.ClockSecure, nil

	case errors.Is(err, engine.ErrClockNotSupported):
		seed := b.clock.Now().UTC()
		b.logger.Infow("secure clock not supported, trying the anti-rollback clock", "seed", seed)
		if err := drm.InitAntiRollbackClock(seed); err != nil {
			return types.ClockUnset, fmt.Errorf("%w: %v", ErrAntiRollback, err)
		}
		return types.ClockAntiRollback, nil

	default:
		return types.ClockUnset, fmt.Errorf("%w: %v", ErrClockQuery, err)
	}
}

// provision runs the challenge/petition/response exchange.
func (b *Bootstrapper) provision(drm engine.Context) error {
	challenge, err := drm.GenerateTimeChallenge()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrChallenge, err)
	}

	endpoint, err := b.resolveEndpoint()
	if err != nil {
		return err
	}

	response, err := b.transport.PostChallenge(endpoint, challenge)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrChallengePost, err)
	}

	if err := drm.ProcessTimeResponse(response); err != nil {
		return fmt.Errorf("%w: %v", ErrResponse, err)
	}
	return nil
}

// resolveEndpoint petitions the time service for the challenge-submission URL,
// following at most one redirect hop.
func (b *Bootstrapper) resolveEndpoint() (string, error) {
	status, forward, err := b.transport.Petition(b.cfg.PetitionURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPetition, err)
	}

	switch status {
	case http.StatusOK:
		// Petition answered with the endpoint directly.

	case http.StatusMovedPermanently, http.StatusFound:
		redirected := forward
		if err := validateForwardURL(redirected); err != nil {
			return "", err
		}
		b.logger.Debugw("petition redirected", "url", redirected)

		status, forward, err = b.transport.Petition(redirected)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrPetition, err)
		}
		if status != http.StatusOK {
			return "", fmt.Errorf("%w: redirected petition answered %d", ErrRedirectLimit, status)
		}

	default:
		return "", fmt.Errorf("%w: %d", ErrPetitionStatus, status)
	}

	if err := validateForwardURL(forward); err != nil {
		return "", err
	}
	return forward, nil
}

func validateForwardURL(url string) error {
	if url == "" {
		return fmt.Errorf("%w: empty", ErrForwardURL)
	}
	if len(url) > MaxURLLength {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrForwardURL, len(url), MaxURLLength)
	}
	return nil
}
