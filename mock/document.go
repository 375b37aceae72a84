package mock

import (
	"context"

	"github.com/fwojciec/linguacrawl"
)

var _ linguacrawl.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of linguacrawl.Analyzer.
type Analyzer struct {
	AnalyzeFn func(ctx context.Context, link linguacrawl.Link) (*linguacrawl.Document, error)
}

func (a *Analyzer) Analyze(ctx context.Context, link linguacrawl.Link) (*linguacrawl.Document, error) {
	return a.AnalyzeFn(ctx, link)
}
