// Package http provides net/http implementations of the crawler's fetching,
// sitemap discovery and status inspection.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/linguacrawl"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodySize is the largest body read from a single response.
// Longer bodies are truncated.
const DefaultMaxBodySize = 5 << 20

// DefaultUserAgent identifies the crawler to servers.
const DefaultUserAgent = "linguacrawl/1.0 (+https://github.com/fwojciec/linguacrawl)"

// Ensure Fetcher implements linguacrawl.Fetcher at compile time.
var _ linguacrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves raw responses using plain HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize limits how many bytes of a body are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithClient replaces the underlying HTTP client. The client's Timeout is
// overwritten by the configured timeout.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{}
	}
	f.client.Timeout = f.timeout

	return f
}

// Fetch retrieves link. Any status code is returned as a response; only
// transport failures are errors.
func (f *Fetcher) Fetch(ctx context.Context, link linguacrawl.Link) (*linguacrawl.Response, error) {
	if link.IsZero() {
		return nil, linguacrawl.Errorf(linguacrawl.EINVALID, "empty URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", link, err)
	}

	// Redirects may land on a different URL; links must resolve against it.
	final := link
	if resp.Request != nil && resp.Request.URL != nil {
		if l, err := linguacrawl.NewLink(resp.Request.URL.String()); err == nil {
			final = l
		}
	}

	return &linguacrawl.Response{
		URL:         final,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
