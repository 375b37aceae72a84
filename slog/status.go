package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linguacrawl"
)

// Ensure LoggingStatusStore implements linguacrawl.StatusStore.
var _ linguacrawl.StatusStore = (*LoggingStatusStore)(nil)

// LoggingStatusStore wraps a StatusStore with logging.
type LoggingStatusStore struct {
	next   linguacrawl.StatusStore
	logger *slog.Logger
}

// NewLoggingStatusStore creates a new LoggingStatusStore.
func NewLoggingStatusStore(next linguacrawl.StatusStore, logger *slog.Logger) *LoggingStatusStore {
	return &LoggingStatusStore{next: next, logger: logger}
}

// SaveStatus delegates to the wrapped store and logs the checkpoint.
func (s *LoggingStatusStore) SaveStatus(ctx context.Context, st *linguacrawl.Status) (err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin), "err", err}
		if st != nil {
			attrs = append(attrs, "processed", len(st.Processed), "pending", len(st.Pending), "attempts", st.Attempts)
		}
		s.logger.Info("save checkpoint", attrs...)
	}(time.Now())
	return s.next.SaveStatus(ctx, st)
}

// LoadStatus delegates to the wrapped store and logs the checkpoint found.
func (s *LoggingStatusStore) LoadStatus(ctx context.Context) (st *linguacrawl.Status, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin), "err", err}
		if st != nil {
			attrs = append(attrs, "processed", len(st.Processed), "pending", len(st.Pending))
		}
		s.logger.Info("load checkpoint", attrs...)
	}(time.Now())
	return s.next.LoadStatus(ctx)
}
