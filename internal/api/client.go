// Package api provides HTTP clients for the wallhaven search API and the
// single-image secondary source.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the wallhaven site root; the search path is appended.
	DefaultBaseURL = "https://wallhaven.cc"
	// DefaultSingleSourceURL returns one random image per request.
	DefaultSingleSourceURL = "https://pic.re/image?compress=false"
	// DefaultResolution is the exact resolution filter sent with every search.
	DefaultResolution = "1920x1080"
)

// ClientOptions configures a new Client.
type ClientOptions struct {
	BaseURL         string
	SingleSourceURL string
	APIKey          string
	Resolution      string
	Verbose         bool
	UserAgent       string
	// Timeout bounds each search request. Image downloads are unbounded
	// apart from the caller's context.
	Timeout time.Duration
}

// Client wraps an HTTP client for search and image download calls.
type Client struct {
	http            *http.Client
	baseURL         string
	singleSourceURL string
	apiKey          string
	resolution      string
	userAgent       string
	searchTimeout   time.Duration
}

// NewClient builds a Client. Requests are single-shot; verbose mode adds
// slog request logging.
func NewClient(opts ClientOptions) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	single := opts.SingleSourceURL
	if single == "" {
		single = DefaultSingleSourceURL
	}

	resolution := opts.Resolution
	if resolution == "" {
		resolution = DefaultResolution
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "wallctl/dev"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport
	if opts.Verbose {
		transport = &loggingTransport{base: transport}
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
		},
		baseURL:         baseURL,
		singleSourceURL: single,
		apiKey:          opts.APIKey,
		resolution:      resolution,
		userAgent:       ua,
		searchTimeout:   timeout,
	}
}

// SingleSourceURL is the fixed endpoint used by single-source categories.
func (c *Client) SingleSourceURL() string { return c.singleSourceURL }

// get executes a GET request with standard headers.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	return resp, nil
}

type clientCtxKey struct{}

// WithClient stores a Client in the context.
func WithClient(ctx context.Context, cl *Client) context.Context {
	return context.WithValue(ctx, clientCtxKey{}, cl)
}

// ClientFromContext retrieves the Client from the context.
func ClientFromContext(ctx context.Context) *Client {
	if v := ctx.Value(clientCtxKey{}); v != nil {
		if cl, ok := v.(*Client); ok {
			return cl
		}
	}

	return nil
}
