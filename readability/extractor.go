package readability

import (
	"strings"

	"github.com/fwojciec/linguacrawl"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements linguacrawl.TextExtractor at compile time.
var _ linguacrawl.TextExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main body text from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the readable text of the page's main article.
func (e *Extractor) ExtractText(rawHTML string) (string, error) {
	if rawHTML == "" {
		return "", linguacrawl.Errorf(linguacrawl.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return "", err
	}
	return linguacrawl.CollapseBlankLines(article.TextContent), nil
}
