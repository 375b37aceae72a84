package slog

import (
	"iter"
	"log/slog"

	"github.com/fwojciec/linguacrawl"
)

// Ensure LoggingFrontier implements linguacrawl.Frontier.
var _ linguacrawl.Frontier = (*LoggingFrontier)(nil)

// LoggingFrontier wraps a Frontier with logging. Per-link events are logged
// at debug level, feedback and checkpoints at info level.
type LoggingFrontier struct {
	next   linguacrawl.Frontier
	logger *slog.Logger
}

// NewLoggingFrontier creates a new LoggingFrontier.
func NewLoggingFrontier(next linguacrawl.Frontier, logger *slog.Logger) *LoggingFrontier {
	return &LoggingFrontier{next: next, logger: logger}
}

func (f *LoggingFrontier) Len() int { return f.next.Len() }

func (f *LoggingFrontier) Contains(link linguacrawl.Link) bool { return f.next.Contains(link) }

func (f *LoggingFrontier) All() iter.Seq[linguacrawl.Entry] { return f.next.All() }

// Admit delegates to the wrapped frontier and logs the admission.
func (f *LoggingFrontier) Admit(link linguacrawl.Link) error {
	err := f.next.Admit(link)
	f.logger.Debug("admit", "url", link.String(), "err", err)
	return err
}

// AdmitMany delegates to the wrapped frontier and logs the batch size.
func (f *LoggingFrontier) AdmitMany(links []linguacrawl.Link) error {
	before := f.next.Len()
	err := f.next.AdmitMany(links)
	f.logger.Debug("admit many",
		"count", len(links),
		"live", f.next.Len()-before,
		"err", err,
	)
	return err
}

// PopNext delegates to the wrapped frontier and logs the entry served.
func (f *LoggingFrontier) PopNext() (linguacrawl.Entry, error) {
	e, err := f.next.PopNext()
	if err != nil {
		f.logger.Debug("pop", "err", err)
		return e, err
	}
	f.logger.Debug("pop",
		"url", e.Link.String(),
		"class", e.Class.String(),
		"seq", e.Seq,
	)
	return e, nil
}

// DocumentProcessed logs the feedback and delegates to the wrapped frontier.
func (f *LoggingFrontier) DocumentProcessed(doc *linguacrawl.Document) {
	f.next.DocumentProcessed(doc)
	if doc == nil {
		return
	}
	f.logger.Info("document processed",
		"url", doc.URL.String(),
		"language", doc.Language,
		"analyzable", doc.Analyzable(),
		"links", len(doc.Links),
		"live", f.next.Len(),
	)
}

// URLHandled delegates to the wrapped frontier and logs the link.
func (f *LoggingFrontier) URLHandled(link linguacrawl.Link) {
	f.next.URLHandled(link)
	f.logger.Debug("handled", "url", link.String())
}

// ExportStatus delegates to the wrapped frontier and logs the snapshot size.
func (f *LoggingFrontier) ExportStatus() *linguacrawl.Status {
	s := f.next.ExportStatus()
	f.logger.Info("export status",
		"processed", len(s.Processed),
		"pending", len(s.Pending),
	)
	return s
}

// ImportStatus delegates to the wrapped frontier and logs the outcome.
func (f *LoggingFrontier) ImportStatus(s *linguacrawl.Status) error {
	err := f.next.ImportStatus(s)
	attrs := []any{"live", f.next.Len(), "err", err}
	if s != nil {
		attrs = append(attrs, "processed", len(s.Processed), "pending", len(s.Pending))
	}
	f.logger.Info("import status", attrs...)
	return err
}
