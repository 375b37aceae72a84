// Package charset provides an implementation of linguacrawl.Decoder that
// detects the character encoding of fetched pages and decodes them to UTF-8.
package charset

import (
	"bytes"
	"unicode/utf8"

	"github.com/fwojciec/linguacrawl"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Ensure Decoder implements linguacrawl.Decoder at compile time.
var _ linguacrawl.Decoder = (*Decoder)(nil)

// fallback is tried in order when the detected encoding does not produce
// valid UTF-8.
var fallback = []struct {
	name string
	enc  encoding.Encoding
}{
	{"utf-8", unicode.UTF8},
	{"iso-8859-1", charmap.ISO8859_1},
	{"windows-1252", charmap.Windows1252},
}

// Decoder decodes HTML bodies using the Content-Type header, byte order
// marks and <meta> declarations to pick the encoding.
type Decoder struct{}

// NewDecoder creates a new Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode returns the body as UTF-8 text and the name of the encoding used.
// An empty body decodes to empty text.
func (d *Decoder) Decode(body []byte, contentType string) (string, string, error) {
	if len(body) == 0 {
		return "", "", nil
	}

	detected, name, _ := charset.DetermineEncoding(body, contentType)
	if canonical, err := htmlindex.Name(detected); err == nil {
		name = canonical
	}
	if text, ok := decodeWith(detected, body); ok {
		return text, name, nil
	}

	for _, fb := range fallback {
		if text, ok := decodeWith(fb.enc, body); ok {
			return text, fb.name, nil
		}
	}
	return "", "", linguacrawl.Errorf(linguacrawl.EINVALID, "unable to decode %d bytes", len(body))
}

// decodeWith decodes body and reports whether the result is usable. A UTF-8
// body must already be valid, since decoding would hide bad bytes behind
// U+FFFD and a literal U+FFFD in the page is legitimate.
func decodeWith(enc encoding.Encoding, body []byte) (string, bool) {
	var out []byte
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		if !utf8.Valid(body) {
			return "", false
		}
		out = body
	} else {
		var err error
		if out, err = enc.NewDecoder().Bytes(body); err != nil || !utf8.Valid(out) {
			return "", false
		}
	}
	return string(bytes.TrimPrefix(out, []byte("\ufeff"))), true
}
