package mock

import (
	"context"

	"github.com/fwojciec/linguacrawl"
)

var _ linguacrawl.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of linguacrawl.SitemapService.
type SitemapService struct {
	DiscoverLinksFn func(ctx context.Context, site linguacrawl.Link, filter *linguacrawl.URLFilter) ([]linguacrawl.Link, error)
}

func (s *SitemapService) DiscoverLinks(ctx context.Context, site linguacrawl.Link, filter *linguacrawl.URLFilter) ([]linguacrawl.Link, error) {
	return s.DiscoverLinksFn(ctx, site, filter)
}
