package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linguacrawl"
)

// Ensure LoggingSitemapService implements linguacrawl.SitemapService.
var _ linguacrawl.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs sitemap seed discovery.
type LoggingSitemapService struct {
	next   linguacrawl.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next linguacrawl.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverLinks logs one line per host. A discovery that yields no seed
// links is logged as a warning since the crawl then starts from the
// command-line URLs alone.
func (s *LoggingSitemapService) DiscoverLinks(ctx context.Context, site linguacrawl.Link, filter *linguacrawl.URLFilter) (links []linguacrawl.Link, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil || len(links) == 0 {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "sitemap discovery",
			"host", site.Host(),
			"seeds", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverLinks(ctx, site, filter)
}
