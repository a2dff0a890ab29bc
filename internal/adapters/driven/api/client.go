package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driven"
	"github.com/serviceops-labs/fabric-studio/internal/logger"
)

// Ensure Client implements the driven ports.
var (
	_ driven.FabricAPI     = (*Client)(nil)
	_ driven.ChatAPI       = (*Client)(nil)
	_ driven.ConnectionAPI = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:4000"
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit caps outgoing requests per second. The poller plus
	// an impatient user can otherwise hammer the backend.
	DefaultRateLimit = rate.Limit(10)
	DefaultRateBurst = 20
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend base URL (default: http://localhost:4000).
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RateLimit caps requests per second, 0 for the default.
	RateLimit rate.Limit

	// RateBurst is the limiter burst size, 0 for the default.
	RateBurst int
}

// Client talks HTTP/JSON to the fabric backend.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a backend client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = DefaultRateBurst
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(cfg.RateLimit, cfg.RateBurst),
	}
}

// errorEnvelope matches the backend's error convention: non-2xx bodies
// carry either {error} or {message}.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into out (which may be nil for void responses). op names the
// operation for error reporting.
func (c *Client) doJSON(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(op, req, out)
}

// send runs the request through the rate limiter and decodes the response.
func (c *Client) send(op string, req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}

	logger.Debug("%s %s", req.Method, req.URL.Path)

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.ServerError{
			StatusCode: resp.StatusCode,
			Message:    extractServerMessage(respBody),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// extractServerMessage pulls the server's own text out of an error body.
// The message is surfaced verbatim; when the body is not the expected
// envelope the raw text is better than nothing.
func extractServerMessage(body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return strings.TrimSpace(string(body))
}

// Health checks backend reachability.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, "health check", http.MethodGet, "/api/health", nil, nil)
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
