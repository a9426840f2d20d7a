// Package checkers holds health checks for external dependencies.
package checkers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPChecker checks that an HTTP endpoint answers without a server error.
type HTTPChecker struct {
	url    string
	name   string
	method string
	client *http.Client
}

// Option configures an HTTPChecker.
type Option func(*HTTPChecker)

// WithClient replaces the default client, which has a 10 second timeout.
func WithClient(client *http.Client) Option {
	return func(h *HTTPChecker) {
		if client != nil {
			h.client = client
		}
	}
}

// WithMethod sets the request method. Default is HEAD.
func WithMethod(method string) Option {
	return func(h *HTTPChecker) {
		if method != "" {
			h.method = method
		}
	}
}

// NewHTTPChecker creates a checker for url. name defaults to the URL.
func NewHTTPChecker(url, name string, opts ...Option) *HTTPChecker {
	if name == "" {
		name = url
	}

	h := &HTTPChecker{
		url:    url,
		name:   name,
		method: http.MethodHead,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTPChecker) Name() string {
	return h.name
}

// Check sends one request to the endpoint. Transport errors and 5xx
// responses are failures. 4xx counts as reachable since the recipe API
// rejects unauthenticated checks.
func (h *HTTPChecker) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, h.method, h.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode >= 500 {
		return fmt.Errorf("unhealthy status code: %d", resp.StatusCode)
	}
	return nil
}
