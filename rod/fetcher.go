// Package rod fetches JavaScript-rendered pages with a headless Chrome
// browser driven by go-rod.
package rod

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/fwojciec/linguacrawl"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 10 * time.Second

// renderedContentType is reported for every rendered page; the DOM is
// serialized as UTF-8 regardless of the original encoding.
const renderedContentType = "text/html; charset=utf-8"

// Ensure Fetcher implements linguacrawl.Fetcher at compile time.
var _ linguacrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
	closed  atomic.Bool
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the page load timeout.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a Fetcher backed by a recycling BrowserManager.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	manager, err := NewBrowserManager()
	if err != nil {
		return nil, err
	}
	return NewFetcherWithManager(manager, opts...), nil
}

// NewFetcherWithManager creates a Fetcher that uses an existing manager.
// The Fetcher takes ownership and closes the manager on Close.
func NewFetcherWithManager(manager *BrowserManager, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		manager: manager,
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates to link and returns the rendered DOM with status 200.
func (f *Fetcher) Fetch(ctx context.Context, link linguacrawl.Link) (*linguacrawl.Response, error) {
	if f.closed.Load() {
		return nil, linguacrawl.Errorf(linguacrawl.EINVALID, "fetcher is closed")
	}
	if link.IsZero() {
		return nil, linguacrawl.Errorf(linguacrawl.EINVALID, "empty URL")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	browser := f.manager.Browser()
	if browser == nil {
		return nil, linguacrawl.Errorf(linguacrawl.EINTERNAL, "browser unavailable")
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer page.Close()
	defer f.manager.IncrementPageCount()

	page = page.Context(ctx)

	if err := page.Navigate(link.String()); err != nil {
		return nil, contextErr(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, contextErr(ctx, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, contextErr(ctx, err)
	}

	final := link
	if info, err := page.Info(); err == nil {
		if l, err := linguacrawl.NewLink(info.URL); err == nil {
			final = l
		}
	}

	return &linguacrawl.Response{
		URL:         final,
		StatusCode:  200,
		ContentType: renderedContentType,
		Body:        []byte(html),
	}, nil
}

// contextErr prefers the context's error so callers can detect timeouts.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return errors.Join(ctxErr, err)
	}
	return err
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
