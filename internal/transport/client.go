// Package transport sends JSON payloads over HTTP and classifies the outcome.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultUserAgent is sent when no other agent is configured.
const DefaultUserAgent = "formkit"

// Client posts JSON documents to a single endpoint.
//
// It sets no timeout and never retries: callers bound a request with the
// context deadline and decide on retries with IsRetriable.
type Client struct {
	endpoint  string
	token     string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the debug logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a client for endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:  endpoint,
		userAgent: DefaultUserAgent,
		http:      &http.Client{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SendDataRequest POSTs payload as JSON and returns the decoded response
// body unchanged. A payload that cannot be encoded yields *EncodeError and
// nothing is sent. A non-2xx response yields *HTTPError. An empty success
// body decodes to nil.
func (c *Client) SendDataRequest(ctx context.Context, payload any) (any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}

	var data any
	if err := c.do(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	op := method + " " + req.URL.Path
	start := time.Now()
	c.logger.Debug("sending request", "op", op, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug("request finished",
		"op", op,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewHTTPError(op, resp, respBody)
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// GetJSON fetches url and decodes a JSON response into out.
func GetJSON(ctx context.Context, hc *http.Client, url string, out any) error {
	if hc == nil {
		hc = http.DefaultClient
	}
	c := &Client{
		endpoint:  url,
		userAgent: DefaultUserAgent,
		http:      hc,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return c.do(ctx, http.MethodGet, url, nil, out)
}
