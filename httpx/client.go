// Package httpx is the request wrapper every API service goes through. It
// owns the base URL, the JSON codec, the per-request deadline and the mapping
// from transport/status failures onto the typed errors the rest of the SDK
// branches on. It knows nothing about sessions; authorization is injected as
// an http.RoundTripper.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

const (
	// DefaultTimeout bounds every request. A stalled connection surfaces as
	// ErrTimeout rather than hanging the caller.
	DefaultTimeout = 30 * time.Second

	contentTypeJSON = "application/json; charset=utf-8"

	maxErrorBodyBytes = 4 << 10
)

// Client wraps an http.Client with the conventions of the marketplace API:
// JSON in/out, bearer authorization via the injected transport, request IDs
// and a circuit breaker in front of the network.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithTimeout overrides the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithTransport sets the round tripper used for every request. The session
// layer uses this to install its authorizing/refreshing transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

// WithLogger sets the logger used for request debug logging.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a Client for the given API base URL, e.g.
// "http://192.168.1.101:8000/api/v1".
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: DefaultTimeout,
		log:     zerolog.Nop(),
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "httpx",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		// An expired session is an auth outcome, not a network fault.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrSessionExpired)
		},
	})

	for _, opt := range options {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

// Patch issues a PATCH request with a JSON body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPatch, path, in, out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "[Client.do] marshal %s %s", method, path)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrapf(err, "[Client.do] new request %s %s", method, path)
	}
	if in != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("X-Request-ID", uuid.New().String())

	result, err := c.breaker.Execute(func() (any, error) {
		return c.http.Do(req) //nolint:bodyclose // closed below
	})
	if err != nil {
		return c.mapTransportError(err, method, path)
	}
	resp := result.(*http.Response)
	defer resp.Body.Close()

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("request")

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errors.Wrapf(ErrUnauthorized, "[Client.do] %s %s status %d", method, path, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "[Client.do] decode %s %s", method, path)
	}
	return nil
}

func (c *Client) mapTransportError(err error, method, path string) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return errors.Wrapf(ErrUnavailable, "[Client.do] %s %s", method, path)
	case errors.Is(err, ErrSessionExpired):
		// Raised by the session transport once its retry is exhausted.
		return fmt.Errorf("[Client.do] %s %s: %w", method, path, ErrSessionExpired)
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Wrapf(ErrTimeout, "[Client.do] %s %s", method, path)
	}
	return errors.Wrapf(err, "[Client.do] %s %s", method, path)
}
