package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/linguacrawl"
)

var _ linguacrawl.Analyzer = (*Analyzer)(nil)

// Analyzer fetches a URL and turns the response into a Document.
type Analyzer struct {
	Fetcher          linguacrawl.Fetcher
	Decoder          linguacrawl.Decoder
	TextExtractor    linguacrawl.TextExtractor
	LanguageDetector linguacrawl.LanguageDetector
	LinkExtractor    linguacrawl.LinkExtractor

	// RetryDelays overrides DefaultRetryDelays when non-nil.
	RetryDelays []time.Duration
}

// Analyze fetches link and analyzes the response.
//
// A transport failure after all retries or a non-2xx status yields a
// document with FetchSucceeded false. A body that decodes to nothing
// yields a document with empty Text. Link and body text extraction
// failures leave Links empty and Language unknown. The error is non-nil
// only when ctx is done.
func (a *Analyzer) Analyze(ctx context.Context, link linguacrawl.Link) (*linguacrawl.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := &linguacrawl.Document{URL: link}

	resp, err := FetchWithRetry(ctx, link, a.Fetcher.Fetch, a.retryDelays())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return doc, nil
	}
	doc.StatusCode = resp.StatusCode
	if !resp.OK() {
		return doc, nil
	}
	doc.FetchSucceeded = true

	text, encoding, err := a.Decoder.Decode(resp.Body, resp.ContentType)
	if err != nil || text == "" {
		return doc, nil
	}
	doc.Text = text
	doc.Encoding = encoding

	// Relative links resolve against the final URL after redirects.
	base := resp.URL
	if base.IsZero() {
		base = link
	}
	if links, err := a.LinkExtractor.ExtractLinks(text, base); err == nil {
		doc.Links = links
	}

	if body, err := a.TextExtractor.ExtractText(text); err == nil {
		doc.BodyText = body
		doc.Language = a.LanguageDetector.DetectLanguage(body)
	}

	return doc, nil
}

func (a *Analyzer) retryDelays() []time.Duration {
	if a.RetryDelays != nil {
		return a.RetryDelays
	}
	return DefaultRetryDelays()
}
