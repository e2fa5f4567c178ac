// Package apiclient talks JSON over HTTP to the events backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

// maxErrorBody caps how much of a failed response is kept in APIError.
const maxErrorBody = 4 << 10

// APIError is returned for any response outside the 2xx range.
type APIError struct {
	StatusCode int
	// Message is the backend's {"error": "..."} text when present.
	Message string
	// Body is the raw (truncated) response text.
	Body string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, msg)
}

// StatusCode extracts the HTTP status from err, or 0 if err is not an
// APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Options configures a Client. Zero values take defaults.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	// Logger receives one line per request when set.
	Logger *log.Logger
	// Registerer receives the client's metrics when set.
	Registerer prometheus.Registerer
}

// Client is the HTTP collaborator used by the pages.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	logger    *log.Logger
	metrics   *metrics
}

// New returns a client for the backend at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "eventdesk"
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = newHTTPClient(opts.Timeout)
	}
	m, err := newMetrics(opts.Registerer)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      hc,
		userAgent: opts.UserAgent,
		logger:    opts.Logger,
		metrics:   m,
	}, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        16,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// Do sends one request. body, when non-nil, is encoded as JSON; token,
// when non-empty, is sent as a bearer token; out, when non-nil, receives
// the decoded 2xx response. op names the call in logs and metrics.
func (c *Client) Do(ctx context.Context, op, method, path string, body any, token string, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(op, "error", elapsed)
		c.logf("%s %s %s -> transport error after %s: %v", reqID, method, path, elapsed, err)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	c.metrics.observe(op, strconv.Itoa(resp.StatusCode), elapsed)
	c.logf("%s %s %s -> %d in %s", reqID, method, path, resp.StatusCode, elapsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
		var env model.ErrorResponse
		if json.Unmarshal(raw, &env) == nil {
			apiErr.Message = env.Error
		}
		return fmt.Errorf("%s: %w", op, apiErr)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
