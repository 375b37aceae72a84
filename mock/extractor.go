package mock

import "github.com/fwojciec/linguacrawl"

var _ linguacrawl.Decoder = (*Decoder)(nil)

// Decoder is a mock implementation of linguacrawl.Decoder.
type Decoder struct {
	DecodeFn func(body []byte, contentType string) (string, string, error)
}

func (d *Decoder) Decode(body []byte, contentType string) (string, string, error) {
	return d.DecodeFn(body, contentType)
}

var _ linguacrawl.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of linguacrawl.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(html string) (string, error)
}

func (e *TextExtractor) ExtractText(html string) (string, error) {
	return e.ExtractTextFn(html)
}

var _ linguacrawl.LanguageDetector = (*LanguageDetector)(nil)

// LanguageDetector is a mock implementation of linguacrawl.LanguageDetector.
type LanguageDetector struct {
	DetectLanguageFn func(text string) string
}

func (d *LanguageDetector) DetectLanguage(text string) string {
	return d.DetectLanguageFn(text)
}

var _ linguacrawl.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of linguacrawl.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, base linguacrawl.Link) ([]linguacrawl.Link, error)
}

func (e *LinkExtractor) ExtractLinks(html string, base linguacrawl.Link) ([]linguacrawl.Link, error) {
	return e.ExtractLinksFn(html, base)
}
