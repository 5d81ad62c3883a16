package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Tenderly API root used when no override is configured
	DefaultBaseURL = "https://api.tenderly.co/api/v1"

	// DefaultTimeout is the per-request timeout used when none is configured
	DefaultTimeout = 30 * time.Second

	accessKeyHeader = "X-Access-Key"
)

// Client performs authenticated HTTP calls against a Tenderly project.
// All API packages (simulate, vnet) share one Client.
type Client struct {
	httpClient *http.Client
	projectURL string
	accessKey  string
	limiter    *rate.Limiter
	metrics    *Metrics
	logger     *zap.Logger
}

// Config holds client configuration
type Config struct {
	// Account is the Tenderly account slug
	Account string

	// Project is the project slug within the account
	Project string

	// AccessKey is the API access key sent with every request
	AccessKey string

	// BaseURL overrides the API root (used by tests against a mock server)
	BaseURL string

	// Timeout is the per-request timeout
	Timeout time.Duration

	// RequestsPerSecond enables client-side rate limiting when > 0
	RequestsPerSecond float64

	// Burst is the rate limiter burst size (defaults to 1 when rate limiting is on)
	Burst int

	// Metrics enables Prometheus instrumentation when non-nil
	Metrics *Metrics

	// Logger defaults to a no-op logger
	Logger *zap.Logger

	// HTTPClient overrides the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a new Tenderly API client
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Account == "" {
		return nil, fmt.Errorf("account cannot be empty")
	}
	if cfg.Project == "" {
		return nil, fmt.Errorf("project cannot be empty")
	}
	if cfg.AccessKey == "" {
		return nil, fmt.Errorf("access key cannot be empty")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	projectURL := fmt.Sprintf("%s/account/%s/project/%s",
		strings.TrimSuffix(baseURL, "/"),
		EncodePathSegment(cfg.Account),
		EncodePathSegment(cfg.Project))

	return &Client{
		httpClient: httpClient,
		projectURL: projectURL,
		accessKey:  cfg.AccessKey,
		limiter:    limiter,
		metrics:    cfg.Metrics,
		logger:     logger,
	}, nil
}

// EncodePathSegment percent-encodes a single URL path segment.
// Identifiers containing '/', '?' or non-ASCII characters must pass through
// this before being interpolated into a route.
func EncodePathSegment(s string) string {
	return url.PathEscape(s)
}

// Get performs a GET request and decodes the response body into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post performs a POST request with a JSON body and decodes the response into out
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// PostEmpty performs a POST request and discards the response body
func (c *Client) PostEmpty(ctx context.Context, path string, body interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	fullURL := c.projectURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(accessKeyHeader, c.accessKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, path, "error", start)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, path, "error", start)
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.observe(method, path, strconv.Itoa(resp.StatusCode), start)
	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &DecodeError{Err: err, Body: respBody}
	}

	return nil
}

func (c *Client) observe(method, path, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RequestsTotal.WithLabelValues(method, path, status).Inc()
	c.metrics.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
}
