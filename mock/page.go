package mock

import (
	"context"

	"github.com/fwojciec/linguacrawl"
)

var _ linguacrawl.PageWriter = (*PageWriter)(nil)

// PageWriter is a mock implementation of linguacrawl.PageWriter.
type PageWriter struct {
	SavePageFn func(ctx context.Context, page *linguacrawl.Page) error
}

func (w *PageWriter) SavePage(ctx context.Context, page *linguacrawl.Page) error {
	return w.SavePageFn(ctx, page)
}

var _ linguacrawl.PageService = (*PageService)(nil)

// PageService is a mock implementation of linguacrawl.PageService.
type PageService struct {
	SavePageFn        func(ctx context.Context, page *linguacrawl.Page) error
	FindPageByURLFn   func(ctx context.Context, url string) (*linguacrawl.Page, error)
	FindPagesFn       func(ctx context.Context, filter linguacrawl.PageFilter) ([]*linguacrawl.Page, error)
	CountByLanguageFn func(ctx context.Context) (map[string]int, error)
}

func (s *PageService) SavePage(ctx context.Context, page *linguacrawl.Page) error {
	return s.SavePageFn(ctx, page)
}

func (s *PageService) FindPageByURL(ctx context.Context, url string) (*linguacrawl.Page, error) {
	return s.FindPageByURLFn(ctx, url)
}

func (s *PageService) FindPages(ctx context.Context, filter linguacrawl.PageFilter) ([]*linguacrawl.Page, error) {
	return s.FindPagesFn(ctx, filter)
}

func (s *PageService) CountByLanguage(ctx context.Context) (map[string]int, error) {
	return s.CountByLanguageFn(ctx)
}
