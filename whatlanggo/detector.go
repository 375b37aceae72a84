// Package whatlanggo provides an implementation of linguacrawl.LanguageDetector
// backed by the whatlanggo n-gram language classifier.
package whatlanggo

import (
	"strings"

	"github.com/RadhiFadlillah/whatlanggo"
	"github.com/fwojciec/linguacrawl"
)

// Ensure Detector implements linguacrawl.LanguageDetector at compile time.
var _ linguacrawl.LanguageDetector = (*Detector)(nil)

// DefaultMinConfidence is the confidence below which a detection is treated
// as unknown.
const DefaultMinConfidence = 0.5

// Detector identifies the dominant language of a text.
type Detector struct {
	minConfidence float64
}

// Option configures a Detector.
type Option func(*Detector)

// WithMinConfidence sets the minimum confidence for a detection to count.
func WithMinConfidence(c float64) Option {
	return func(d *Detector) {
		d.minConfidence = c
	}
}

// NewDetector creates a new Detector.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{minConfidence: DefaultMinConfidence}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectLanguage returns the ISO 639-1 code of the text's language, or ""
// when the text is empty, the detection is not confident enough, or the
// language has no two-letter code.
func (d *Detector) DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	info := whatlanggo.Detect(text)
	if info.Confidence < d.minConfidence {
		return ""
	}
	code := info.Lang.Iso6391()
	if len(code) != 2 {
		return ""
	}
	return code
}
