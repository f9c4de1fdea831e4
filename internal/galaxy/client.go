package galaxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-galaxy/internal/version"
)

const (
	// DefaultBaseURL is where the galaxy development server listens.
	DefaultBaseURL = "http://127.0.0.1:3333"

	// CreatePath is the generation endpoint.
	CreatePath = "/galaxy/create"

	// RequestIDHeader carries a per-request id for correlating logs.
	RequestIDHeader = "X-Request-ID"
)

// ErrRequest is matched by every request or parse failure.
var ErrRequest = errors.New("galaxy request failed")

// RequestError is the single failure kind of a create call: network
// failure, rejected status, or a body that is not a list of systems.
type RequestError struct {
	Op         string // "fetch", "status", "read" or "parse"
	StatusCode int    // set when Op is "status"
	Err        error
}

func (e *RequestError) Error() string {
	if e.Op == "status" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Is reports ErrRequest for every RequestError.
func (e *RequestError) Is(target error) bool { return target == ErrRequest }

// Client talks to the galaxy generation endpoint.
type Client struct {
	client    *http.Client
	baseURL   string
	timeout   time.Duration
	userAgent string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the server root, e.g. "http://127.0.0.1:3333".
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets a request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client. The caller owns its cookie jar.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a galaxy client. The default HTTP client keeps a
// cookie jar so session cookies set by the server are sent back.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: "ls-galaxy/" + version.Version,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		jar, _ := cookiejar.New(nil) // never fails with nil options
		c.client = &http.Client{
			Timeout: c.timeout,
			Jar:     jar,
		}
	}

	return c
}

// FetchResult contains the result of a create call.
type FetchResult struct {
	Systems   []StarSystem
	RawBytes  []byte
	RequestID string
	FetchedAt time.Time
	Duration  time.Duration
	Error     error
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool { return r.Error == nil }

// CreateURL returns the full create URL for p.
func (c *Client) CreateURL(p Params) string {
	return c.baseURL + CreatePath + "?" + p.Query()
}

// BaseURL returns the configured server root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Create requests a new galaxy and returns its systems in server order.
func (c *Client) Create(ctx context.Context, p Params) ([]StarSystem, error) {
	res := c.Fetch(ctx, p)
	return res.Systems, res.Error
}

// Fetch requests a new galaxy and returns a timed result.
func (c *Client) Fetch(ctx context.Context, p Params) FetchResult {
	start := time.Now()
	result := FetchResult{
		RequestID: uuid.NewString(),
		FetchedAt: start,
	}

	raw, err := c.fetchRaw(ctx, p, result.RequestID)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		return result
	}
	result.RawBytes = raw

	systems, err := Parse(raw)
	if err != nil {
		result.Error = &RequestError{Op: "parse", Err: err}
		return result
	}
	result.Systems = systems

	return result
}

func (c *Client) fetchRaw(ctx context.Context, p Params, requestID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.CreateURL(p), nil)
	if err != nil {
		return nil, &RequestError{Op: "fetch", Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &RequestError{Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{Op: "status", StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Op: "read", Err: err}
	}

	return body, nil
}
