package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weather-lookup/internal/config"
	"weather-lookup/pkg/logging"
	"weather-lookup/pkg/metrics"
)

// UpstreamError represents a failed third-party call: network error, timeout,
// non-2xx status, or a payload that could not be decoded. Maps to HTTP 502.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsTransient returns true; upstream failures may succeed on a later request.
func (e *UpstreamError) IsTransient() bool {
	return true
}

// Client is the shared HTTP client for every third-party provider. All calls
// carry the configured User-Agent, obey a single bounded timeout, and are
// observed per provider.
type Client struct {
	http    *http.Client
	cfg     config.UpstreamConfig
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewClient creates an upstream client from configuration.
func NewClient(cfg config.UpstreamConfig, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *Client {
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		cfg:     cfg,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// Config exposes the upstream configuration, mostly for base URLs.
func (c *Client) Config() config.UpstreamConfig {
	return c.cfg
}

// GetJSON issues a GET to the given URL and decodes the 2xx response body
// into dest. Any failure is wrapped as an UpstreamError tagged with provider.
func (c *Client) GetJSON(ctx context.Context, provider, rawURL string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &UpstreamError{Provider: provider, Err: err}
	}
	return c.doJSON(provider, req, dest)
}

// PostFormJSON issues a form-encoded POST and decodes the JSON response.
func (c *Client) PostFormJSON(ctx context.Context, provider, rawURL string, form url.Values, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return &UpstreamError{Provider: provider, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.doJSON(provider, req, dest)
}

func (c *Client) doJSON(provider string, req *http.Request, dest interface{}) error {
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	c.metrics.UpstreamRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())

	if err != nil {
		c.metrics.RecordUpstreamError(provider, "network_error")
		c.logger.Error(req.Context(), "[UPSTREAM_ERROR] Provider request failed", logging.Fields{
			"provider": provider,
			"url":      req.URL.Redacted(),
		}, err)
		return &UpstreamError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.RecordUpstreamError(provider, "bad_status")
		c.logger.Error(req.Context(), "[UPSTREAM_ERROR] Provider returned non-2xx status", logging.Fields{
			"provider": provider,
			"status":   resp.StatusCode,
			"url":      req.URL.Redacted(),
		}, nil)
		return &UpstreamError{Provider: provider, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		c.metrics.RecordUpstreamError(provider, "decode_error")
		c.logger.Error(req.Context(), "[UPSTREAM_ERROR] Failed to decode provider payload", logging.Fields{
			"provider": provider,
		}, err)
		return &UpstreamError{Provider: provider, Err: fmt.Errorf("malformed payload: %w", err)}
	}

	c.logger.Debug(req.Context(), "[UPSTREAM_OK] Provider request completed", logging.Fields{
		"provider":    provider,
		"duration_ms": duration.Milliseconds(),
	})

	return nil
}
