package linguacrawl

import "context"

// Document is the analysis of one fetched URL.
type Document struct {
	URL Link

	// FetchSucceeded is false when the fetch failed after retries or the
	// server answered with a non-2xx status.
	FetchSucceeded bool
	StatusCode     int

	// Encoding is the character encoding used to decode the body.
	Encoding string

	// Text is the decoded markup. Empty if decoding failed.
	Text string

	// BodyText is the main content with boilerplate removed.
	BodyText string

	// Language is the detected ISO 639-1 code, or "" if unknown.
	Language string

	// Links are the outgoing links in discovery order.
	Links []Link
}

// Analyzable reports whether the document carries evidence the frontier can use.
func (d *Document) Analyzable() bool {
	return d != nil && d.FetchSucceeded && d.Text != ""
}

// Analyzer fetches a URL and produces its Document.
// Implementations hide fetching, retries, decoding, link extraction and
// language identification.
type Analyzer interface {
	// Analyze returns a Document for link. Fetch failures are reported
	// through Document.FetchSucceeded, not the error, which is reserved
	// for context cancellation.
	Analyze(ctx context.Context, link Link) (*Document, error)
}
