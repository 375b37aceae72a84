package linguacrawl

import "strings"

// Decoder converts a raw response body to UTF-8 text.
type Decoder interface {
	// Decode returns the decoded text and the name of the encoding used.
	// The contentType header, if any, is used as an encoding hint.
	Decode(body []byte, contentType string) (text string, encoding string, err error)
}

// TextExtractor extracts the main body text from an HTML page, removing boilerplate.
type TextExtractor interface {
	ExtractText(html string) (string, error)
}

// LanguageDetector identifies the language of a text.
type LanguageDetector interface {
	// DetectLanguage returns an ISO 639-1 code, or "" if the language
	// cannot be determined reliably.
	DetectLanguage(text string) string
}

// LinkExtractor extracts outgoing links from HTML.
type LinkExtractor interface {
	// ExtractLinks returns links resolved against base, deduplicated,
	// in document order.
	ExtractLinks(html string, base Link) ([]Link, error)
}

// CollapseBlankLines trims every line of text and drops the empty ones, so
// extractor output has a stable shape for language detection and storage.
func CollapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
