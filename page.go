package linguacrawl

import (
	"context"
	"time"
)

// Page is a crawled page kept for the corpus.
type Page struct {
	ID          string        `json:"id"`
	URL         string        `json:"url"`
	Language    string        `json:"language"`
	Class       PriorityClass `json:"class"`
	Encoding    string        `json:"encoding"`
	StatusCode  int           `json:"statusCode"`
	ContentHash string        `json:"contentHash"`
	Text        string        `json:"text"`
	FetchedAt   time.Time     `json:"fetchedAt"`
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if p.Class != 0 && !p.Class.Valid() {
		return Errorf(EINVALID, "invalid priority class %d", p.Class)
	}
	return nil
}

// PageWriter writes crawled pages to storage.
type PageWriter interface {
	SavePage(ctx context.Context, page *Page) error
}

// PageService represents a service for managing crawled pages.
type PageService interface {
	PageWriter

	// FindPageByURL retrieves the most recent page for a URL.
	// Returns ENOTFOUND if no page exists.
	FindPageByURL(ctx context.Context, url string) (*Page, error)

	// FindPages retrieves pages matching the filter.
	FindPages(ctx context.Context, filter PageFilter) ([]*Page, error)

	// CountByLanguage returns the number of stored pages per language.
	// Pages of unknown language are counted under "".
	CountByLanguage(ctx context.Context) (map[string]int, error)
}

// PageFilter represents a filter for FindPages.
type PageFilter struct {
	Language *string `json:"language"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
