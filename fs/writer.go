// Package fs provides file-based storage for crawl checkpoints and the
// crawled text corpus.
package fs

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/linguacrawl"
)

// unknownLanguageDir holds pages whose language was not identified.
const unknownLanguageDir = "unknown"

// URLToPath converts a page URL to a relative corpus file path under its
// host. Pages that differ only by query string get distinct files.
// Example: https://example.fi/uutiset/?page=2 → example.fi/uutiset/index-1f2e3d4c.txt
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Hostname() == "" {
		return "", linguacrawl.Errorf(linguacrawl.EINVALID, "missing host in %q", rawURL)
	}

	// Cleaning a rooted path removes any ".." that could escape the host dir.
	p := path.Clean("/" + u.Path)
	if strings.HasSuffix(u.Path, "/") || p == "/" {
		p = path.Join(p, "index")
	}
	p = strings.TrimPrefix(p, "/")

	if u.RawQuery != "" {
		p += "-" + shortHash(u.RawQuery)
	}
	return path.Join(strings.ToLower(u.Hostname()), p) + ".txt", nil
}

func shortHash(s string) string {
	sum := xxhash.Sum64String(s)
	b := []byte{byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum)}
	return hex.EncodeToString(b)
}

// FormatPage formats a page's text with a front-matter header.
func FormatPage(page *linguacrawl.Page) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "source: %s\n", page.URL)
	fmt.Fprintf(&b, "language: %s\n", languageOrUnknown(page.Language))
	if page.Class.Valid() {
		fmt.Fprintf(&b, "class: %s\n", page.Class)
	}
	if page.Encoding != "" {
		fmt.Fprintf(&b, "encoding: %s\n", page.Encoding)
	}
	fmt.Fprintf(&b, "crawled: %s\n", page.FetchedAt.Format("2006-01-02"))
	b.WriteString("---\n\n")
	b.WriteString(page.Text)
	return b.String()
}

func languageOrUnknown(lang string) string {
	if lang == "" {
		return unknownLanguageDir
	}
	return lang
}

// Ensure CorpusWriter implements linguacrawl.PageWriter at compile time.
var _ linguacrawl.PageWriter = (*CorpusWriter)(nil)

// CorpusWriter writes page text to a directory tree grouped by language:
// <dir>/<language>/<host>/<path>.txt.
type CorpusWriter struct {
	baseDir string
}

// NewCorpusWriter creates a CorpusWriter rooted at baseDir.
func NewCorpusWriter(baseDir string) *CorpusWriter {
	return &CorpusWriter{baseDir: baseDir}
}

// SavePage writes page to disk, replacing any earlier file for its URL.
func (w *CorpusWriter) SavePage(ctx context.Context, page *linguacrawl.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	rel, err := URLToPath(page.URL)
	if err != nil {
		return err
	}
	full := filepath.Join(w.baseDir, languageOrUnknown(page.Language), filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, []byte(FormatPage(page)), 0o644)
}
