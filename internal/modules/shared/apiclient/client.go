// Package apiclient is the JSON-over-HTTP client shared by the keyword and
// ad library providers. Calls are throttled, and transient failures (network
// errors, 429, 5xx) are retried with exponential backoff.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gaborage/go-bricks/logger"

	"github.com/gaborage/total-search/internal/modules/shared/ratelimit"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultMaxTries        = 3
	defaultInitialInterval = 500 * time.Millisecond
	defaultMaxInterval     = 8 * time.Second
	maxErrorBody           = 512
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

type Client struct {
	httpClient      *http.Client
	limiter         *ratelimit.Limiter
	headers         http.Header
	maxTries        uint
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithRetry sets the attempt count and the backoff bounds.
func WithRetry(maxTries uint, initial, maxInterval time.Duration) Option {
	return func(c *Client) {
		c.maxTries = max(maxTries, 1)
		c.initialInterval = initial
		c.maxInterval = maxInterval
	}
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

func New(log logger.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient:      &http.Client{Timeout: defaultTimeout},
		limiter:         ratelimit.PerMinute(0),
		headers:         http.Header{},
		maxTries:        defaultMaxTries,
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
		logger:          log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON issues a GET with query appended and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, out any) error {
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, rawURL, nil, out)
}

// PostJSON encodes body as JSON and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, rawURL string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, rawURL, payload, out)
}

func (c *Client) do(ctx context.Context, method, rawURL string, payload []byte, out any) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxInterval = c.maxInterval

	notify := func(err error, wait time.Duration) {
		c.logger.Warn().Err(err).Str("method", method).Dur("retryIn", wait).Msg("Retrying provider request")
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, c.attempt(ctx, method, rawURL, payload, out)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(c.maxTries), backoff.WithNotify(notify))
	return err
}

func (c *Client) attempt(ctx context.Context, method, rawURL string, payload []byte, out any) error {
	if c.limiter.Remaining() == 0 {
		c.logger.Debug().
			Int("perMinute", c.limiter.PerMinuteLimit()).
			Str("method", method).
			Msg("Provider rate limit reached, waiting for a token")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return backoff.Permanent(fmt.Errorf("rate limiter error: %w", err))
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
		if statusErr.Retryable() {
			return statusErr
		}
		return backoff.Permanent(statusErr)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("failed to parse JSON response: %w", err))
	}
	return nil
}
