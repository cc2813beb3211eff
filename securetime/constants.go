package securetime

import "time"

const (
	// DefaultPetitionURL is the well-known time-service petition endpoint.
	// A GET here yields either the challenge-submission URL directly or a
	// single redirect to the regional service that does.
	DefaultPetitionURL = "http://go.microsoft.com/fwlink/?LinkID=746341"

	// DefaultPostRetries bounds how often the challenge POST is retried.
	DefaultPostRetries = 1

	// DefaultRequestTimeout bounds each HTTP request/response exchange.
	// Timeouts exist only at this transport layer; the protocol itself
	// cannot be cancelled mid-flight.
	DefaultRequestTimeout = 150 * time.Second

	// MaxChallengeResponseLength caps the time-service response size.
	MaxChallengeResponseLength = 64 * 1024

	// MaxURLLength caps the forward-link URL returned by a petition.
	MaxURLLength = 512
)
