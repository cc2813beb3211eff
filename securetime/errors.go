package securetime

import "errors"

var (
	// ErrClockQuery is returned when the engine reports a clock status that
	// is neither "set", "needs provisioning", nor "unsupported".
	ErrClockQuery = errors.New("securetime: unexpected clock status")

	// ErrChallenge is returned when the engine cannot generate a time challenge.
	ErrChallenge = errors.New("securetime: time challenge generation failed")

	// ErrPetition is returned when the petition request itself fails.
	ErrPetition = errors.New("securetime: petition request failed")

	// ErrPetitionStatus is returned when a petition answers with a status
	// other than 200, 301 or 302.
	ErrPetitionStatus = errors.New("securetime: unsupported petition status")

	// ErrRedirectLimit is returned when the redirected petition does not
	// resolve to a final endpoint; the protocol follows at most one hop.
	ErrRedirectLimit = errors.New("securetime: petition redirect did not resolve")

	// ErrForwardURL is returned when a petition yields an empty or oversized
	// forward-link URL.
	ErrForwardURL = errors.New("securetime: invalid forward link URL")

	// ErrChallengePost is returned when submitting the challenge fails.
	ErrChallengePost = errors.New("securetime: challenge submission failed")

	// ErrResponse is returned when the engine rejects the time-service response.
	ErrResponse = errors.New("securetime: time response rejected")

	// ErrAntiRollback is returned when seeding the anti-rollback clock fails.
	ErrAntiRollback = errors.New("securetime: anti-rollback clock init failed")
)
