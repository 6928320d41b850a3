package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kaizendigilabs/coffee-shop-pwa/internal/config"
)

// ErrInvalidConfig is returned when the client cannot be constructed from
// the provided configuration.
var ErrInvalidConfig = errors.New("invalid backend configuration")

// defaultTimeout bounds a single round trip to the backend. The hosted
// service answers in well under a second; anything slower is a network
// problem the caller should hear about.
const defaultTimeout = 15 * time.Second

// Client is a scoped connection handle to the hosted backend. It holds the
// project URL and publishable key but no caller credentials; those travel
// per call.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Used by tests to point
// the adapter at a fake backend.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a backend client from configuration.
// Returns an error if the configuration is incomplete.
func New(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: backend URL cannot be empty", ErrInvalidConfig)
	}
	if cfg.PublishableKey == "" {
		return nil, fmt.Errorf("%w: publishable key cannot be empty", ErrInvalidConfig)
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("%w: backend URL is not parseable: %v", ErrInvalidConfig, err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.PublishableKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do performs one request against the backend. Every request carries the
// project's publishable key; accessToken, when non-empty, is attached as the
// caller's bearer credential. A non-2xx response is decoded into *Error.
// When out is non-nil the response body is decoded into it.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	headers map[string]string,
	body interface{},
	accessToken string,
	out interface{},
) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode backend response: %w", err)
		}
	}
	return nil
}
