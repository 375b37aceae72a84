package trafilatura

import (
	"strings"

	"github.com/fwojciec/linguacrawl"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements linguacrawl.TextExtractor at compile time.
var _ linguacrawl.TextExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main body text from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor with fallback extraction enabled.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback: true,
		},
	}
}

// ExtractText returns the page's main text with navigation, footers and
// other boilerplate removed.
func (e *Extractor) ExtractText(rawHTML string) (string, error) {
	if rawHTML == "" {
		return "", linguacrawl.Errorf(linguacrawl.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return "", err
	}
	return linguacrawl.CollapseBlankLines(result.ContentText), nil
}
