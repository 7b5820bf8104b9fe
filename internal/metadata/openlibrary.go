package metadata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public OpenLibrary API root
	DefaultBaseURL = "https://openlibrary.org"
	// DefaultUserAgent identifies the service to OpenLibrary
	DefaultUserAgent = "BookInsights/1.0 (contact@example.com)"
	// DefaultTimeout bounds a single catalog request
	DefaultTimeout = 10 * time.Second
)

// Client issues JSON requests against the OpenLibrary API
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *RateLimiter
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithBaseURL points the client at another API root (tests, mirrors)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithUserAgent overrides the outbound User-Agent header
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithRateLimiter throttles outbound requests
func WithRateLimiter(limiter *RateLimiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// NewClient creates an OpenLibrary client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchJSON GETs path relative to the base URL and decodes the body into out.
// Params are merged into any query already present on path, last value per key wins.
func (c *Client) FetchJSON(ctx context.Context, path string, params url.Values, out any) error {
	target, err := c.resolve(path)
	if err != nil {
		return &RemoteError{Path: path, Err: err}
	}

	if len(params) > 0 {
		query := target.Query()
		for key, values := range params {
			if len(values) == 0 {
				continue
			}
			query.Set(key, values[len(values)-1])
		}
		target.RawQuery = query.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &RemoteError{Path: target.Path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return &RemoteError{Path: target.Path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return &RemoteError{Path: target.Path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{Path: target.Path, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Path: target.Path, Err: err}
	}
	return nil
}

func (c *Client) resolve(path string) (*url.URL, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return url.Parse(path)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return url.Parse(c.baseURL + path)
}
