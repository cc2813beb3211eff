package securetime

import (
	"fmt"
	"time"
)

// Config holds the clock bootstrap protocol configuration.
type Config struct {
	// PetitionURL is the well-known time-service URL petitioned first.
	PetitionURL string

	// PostRetries bounds retries of the challenge POST.
	PostRetries int

	// RequestTimeout bounds each HTTP exchange.
	RequestTimeout time.Duration
}

// DefaultConfig returns the standard protocol configuration.
func DefaultConfig() Config {
	return Config{
		PetitionURL:    DefaultPetitionURL,
		PostRetries:    DefaultPostRetries,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Validate checks the configuration for obvious mistakes.
func (c Config) Validate() error {
	if c.PetitionURL == "" {
		return fmt.Errorf("securetime: petition URL must not be empty")
	}
	if len(c.PetitionURL) > MaxURLLength {
		return fmt.Errorf("securetime: petition URL exceeds %d bytes", MaxURLLength)
	}
	if c.PostRetries < 0 {
		return fmt.Errorf("securetime: post retries must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("securetime: request timeout must be positive")
	}
	return nil
}
