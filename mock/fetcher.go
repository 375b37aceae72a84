package mock

import (
	"context"

	"github.com/fwojciec/linguacrawl"
)

var _ linguacrawl.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of linguacrawl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, link linguacrawl.Link) (*linguacrawl.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, link linguacrawl.Link) (*linguacrawl.Response, error) {
	return f.FetchFn(ctx, link)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ linguacrawl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of linguacrawl.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
