package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// DefaultEndpoint is the NHS API Management service-search base URL
	DefaultEndpoint = "https://nhsuk-apim-int-uks.azure-api.net/service-search"

	// APIVersion is sent on every search backend request
	APIVersion = "2"

	// SubscriptionKeyHeader carries the API Management subscription key
	SubscriptionKeyHeader = "subscription-key"

	// DefaultTimeout bounds a single backend request
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is kept
	maxErrorBody = 4096
)

// ErrNotConfigured is returned when no subscription key is available
var ErrNotConfigured = errors.New("search backend not configured")

// StatusError is returned for non-2xx backend responses
type StatusError struct {
	Operation string
	Code      int
	Body      string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API Management %s request failed: %d - %s", e.Operation, e.Code, e.Body)
}

// Config configures a Client
type Config struct {
	Endpoint        string
	SubscriptionKey string
	Timeout         time.Duration
	HTTPClient      *http.Client // Optional; built from Timeout when nil
	Metrics         *Metrics     // Optional
	Logger          *slog.Logger // Optional
}

// Client talks to the NHS search backend. Each call is a single attempt
type Client struct {
	endpoint        string
	subscriptionKey string
	httpClient      *http.Client
	metrics         *Metrics
	logger          *slog.Logger
}

// New creates a backend client
func New(cfg Config) *Client {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoint:        endpoint,
		subscriptionKey: cfg.SubscriptionKey,
		httpClient:      httpClient,
		metrics:         cfg.Metrics,
		logger:          logger,
	}
}

// Configured reports whether a subscription key is set
func (c *Client) Configured() bool {
	return c.subscriptionKey != ""
}

// Endpoint returns the service-search base URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// contentBaseURL is the API root for non-search resources such as conditions.
// Only a trailing /service-search segment is removed
func (c *Client) contentBaseURL() string {
	return strings.TrimSuffix(c.endpoint, "/service-search")
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(SubscriptionKeyHeader, c.subscriptionKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do executes req and returns the body of a 2xx response. A 404 is reported
// as a StatusError so callers can decide whether it means "not found"
func (c *Client) do(req *http.Request, operation string) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(operation, "error", start)
		return nil, fmt.Errorf("%s request: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.observe(operation, fmt.Sprintf("%d", resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.ErrorContext(req.Context(), "backend request failed",
			"operation", operation,
			"status", resp.StatusCode,
			"body", strings.TrimSpace(string(b)),
		)
		return nil, &StatusError{
			Operation: operation,
			Code:      resp.StatusCode,
			Body:      strings.TrimSpace(string(b)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", operation, err)
	}
	return body, nil
}

func (c *Client) observe(operation, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveRequest(operation, status, time.Since(start).Seconds())
}

// IsStatus reports whether err is a StatusError with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
