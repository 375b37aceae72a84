// Package slog adds structured logging to linguacrawl services by wrapping
// them in decorators built on log/slog.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linguacrawl"
)

// Ensure LoggingFetcher implements linguacrawl.Fetcher.
var _ linguacrawl.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs every request made by the wrapped Fetcher.
type LoggingFetcher struct {
	next   linguacrawl.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next linguacrawl.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs one line per request. Transport errors and non-2xx responses
// are logged at WARN, and a redirect adds the final URL.
func (f *LoggingFetcher) Fetch(ctx context.Context, link linguacrawl.Link) (resp *linguacrawl.Response, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", link.String()}
		level := slog.LevelInfo
		if !resp.OK() {
			level = slog.LevelWarn
		}
		if resp != nil {
			attrs = append(attrs,
				"status", resp.StatusCode,
				"type", resp.ContentType,
				"bytes", len(resp.Body),
			)
			if !resp.URL.IsZero() && resp.URL != link {
				attrs = append(attrs, "final", resp.URL.String())
			}
		}
		attrs = append(attrs, "duration", time.Since(begin))
		if err != nil {
			attrs = append(attrs, "err", err)
		}
		f.logger.Log(ctx, level, "fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, link)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
