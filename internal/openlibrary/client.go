// Package openlibrary provides a client for the Open Library search API.
package openlibrary

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openshelf/openshelf/internal/ratelimit"
)

const (
	defaultBaseURL      = "https://openlibrary.org"
	defaultCoverBaseURL = "https://covers.openlibrary.org"
	defaultMaxAttempts  = 3
	defaultTimeout      = 8 * time.Second

	// DefaultLimit is the number of search results requested from the API.
	DefaultLimit = 5

	// Open Library asks clients to stay around 1 request per second.
	defaultRatePerSecond = 1
)

// ErrNoCover is returned when a document has no usable cover reference.
var ErrNoCover = errors.New("cover not available")

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is an Open Library API client.
type Client struct {
	baseURL       string
	coverBaseURL  string
	httpClient    HTTPDoer
	rateLimiter   *ratelimit.Limiter
	retryAttempts int
}

// NewClient creates a new Open Library API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:       defaultBaseURL,
		coverBaseURL:  defaultCoverBaseURL,
		httpClient:    &http.Client{Timeout: defaultTimeout},
		rateLimiter:   ratelimit.New("OpenLibrary", defaultRatePerSecond),
		retryAttempts: defaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets a custom base URL for the Open Library site and API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithCoverBaseURL sets a custom base URL for cover images.
func WithCoverBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.coverBaseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRetryAttempts sets the number of retry attempts for failed requests.
func WithRetryAttempts(attempts int) Option {
	return func(client *Client) {
		if attempts > 0 {
			client.retryAttempts = attempts
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}
