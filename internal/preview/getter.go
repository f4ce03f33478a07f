package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

const (
	defaultUserAgent    = "uplink-preview/1.0 (+link preview bot)"
	defaultMaxBodyBytes = 2 << 20
	defaultHTTPTimeout  = 10 * time.Second
)

// ErrNotHTML is returned when a link does not point at an HTML page.
var ErrNotHTML = errors.New("response is not html")

// StatusError reports a non-success HTTP status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// HTTPGetter retrieves the HTML body at url.
type HTTPGetter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// GetterFunc adapts a function to HTTPGetter.
type GetterFunc func(ctx context.Context, url string) ([]byte, error)

func (f GetterFunc) Get(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

// HTTPClient is the default HTTPGetter backed by net/http.
type HTTPClient struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *HTTPClient) {
		if c != nil {
			h.client = c
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(h *HTTPClient) {
		if ua != "" {
			h.userAgent = ua
		}
	}
}

// WithMaxBodyBytes caps how much of a page is read.
func WithMaxBodyBytes(n int64) ClientOption {
	return func(h *HTTPClient) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// NewHTTPClient builds an HTTPClient with sane defaults.
func NewHTTPClient(opts ...ClientOption) *HTTPClient {
	h := &HTTPClient{
		client:    &http.Client{Timeout: defaultHTTPTimeout},
		userAgent: defaultUserAgent,
		maxBody:   defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Get fetches url and returns at most maxBody bytes of its HTML body.
func (h *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || (mediaType != "text/html" && mediaType != "application/xhtml+xml") {
			return nil, fmt.Errorf("%w: %s", ErrNotHTML, ct)
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
