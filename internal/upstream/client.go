// Package upstream holds the HTTP clients for the backends this service
// orchestrates: the patient, billing, doctor, appointment and notification
// services. Each client wraps one endpoint with a bounded per-call timeout
// and resolves failures into a declared fallback value instead of an error,
// except for the lookups booking treats as fatal.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Endpoint describes one remote backend. Built once at startup, never mutated.
type Endpoint struct {
	Name    string
	BaseURL string
	Timeout time.Duration
}

// Client executes JSON GET calls against a single endpoint.
type Client struct {
	endpoint Endpoint
	http     *http.Client
	log      *zap.Logger
}

func NewClient(endpoint Endpoint, log *zap.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{},
		log:      log.With(zap.String("backend", endpoint.Name)),
	}
}

// getJSON performs a GET bounded by the endpoint timeout and decodes the
// response body into out. Non-2xx statuses are errors; a nil out discards
// the body after checking it is readable.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	callCtx, cancel := context.WithTimeout(ctx, c.endpoint.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, c.endpoint.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s%s: %w", c.endpoint.Name, path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s%s: %w", c.endpoint.Name, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s%s returned status %d", c.endpoint.Name, path, resp.StatusCode)
	}

	if out == nil {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// ping issues a lightweight existence call; any parseable response counts
// as the backend being up.
func (c *Client) ping(ctx context.Context, path string) bool {
	var out any
	if err := c.getJSON(ctx, path, &out); err != nil {
		c.log.Warn("health probe failed", zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}

// fallback logs a branch failure at the gateway layer. Failures here are
// absorbed, never propagated.
func (c *Client) fallback(op string, err error) {
	c.log.Warn("upstream call failed, substituting fallback",
		zap.String("operation", op),
		zap.Error(err),
	)
}
