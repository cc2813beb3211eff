package securetime

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/jvbreda/drmcore/logger"
)

// Transport is the HTTP capability consumed by the bootstrapper. It reports
// redirect statuses instead of following them so the protocol layer can
// enforce the single-hop rule.
type Transport interface {
	// Petition performs a GET against url and returns the HTTP status code
	// together with the forward-link URL: the Location header for a
	// redirect, or the response body for a 200.
	Petition(url string) (status int, forward string, err error)

	// PostChallenge submits the challenge blob to url and returns the
	// time-service response body. Retries and timeouts are bounded by
	// configuration; a non-200 answer is an error.
	PostChallenge(url string, challenge []byte) ([]byte, error)
}

// HTTPTransport implements Transport on top of a retrying HTTP client.
type HTTPTransport struct {
	client *retryablehttp.Client
	logger logger.Logger
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport builds the production transport from cfg.
func NewHTTPTransport(cfg Config, log logger.Logger) *HTTPTransport {
	if log == nil {
		log = &logger.NoOpLogger{}
	}

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.PostRetries
	client.HTTPClient.Timeout = cfg.RequestTimeout
	client.Logger = nil

	// Redirect statuses must surface to the protocol layer, not be chased
	// by the HTTP client.
	client.HTTPClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &HTTPTransport{
		client: client,
		logger: log.WithComponent("securetime"),
	}
}

// Petition implements Transport.Petition.
func (t *HTTPTransport) Petition(url string) (int, string, error) {
	resp, err := t.client.Get(url)
	if err != nil {
		return 0, "", fmt.Errorf("petition GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	var forward string
	switch resp.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound:
		forward = resp.Header.Get("Location")
	default:
		body, err := io.ReadAll(io.LimitReader(resp.Body, MaxURLLength+1))
		if err != nil {
			return resp.StatusCode, "", fmt.Errorf("petition body read: %w", err)
		}
		forward = strings.TrimSpace(string(body))
	}

	t.logger.Debugw("petition answered", "url", url, "status", resp.StatusCode)
	return resp.StatusCode, forward, nil
}

// PostChallenge implements Transport.PostChallenge.
func (t *HTTPTransport) PostChallenge(url string, challenge []byte) ([]byte, error) {
	req, err := retryablehttp.NewRequest(http.MethodPost, url, bytes.NewReader(challenge))
	if err != nil {
		return nil, fmt.Errorf("challenge POST request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("challenge POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("challenge POST %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxChallengeResponseLength))
	if err != nil {
		return nil, fmt.Errorf("challenge response read: %w", err)
	}

	t.logger.Debugw("challenge answered", "url", url, "responseBytes", len(body))
	return body, nil
}
