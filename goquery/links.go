// Package goquery extracts outgoing links from HTML documents using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/linguacrawl"
)

// Ensure LinkExtractor implements linguacrawl.LinkExtractor at compile time.
var _ linguacrawl.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor collects every href in a document, not only anchors, so
// links from area, link and other elements are followed too.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks parses html and returns its outgoing links resolved against
// base. A <base href> element in the document overrides base. Links that
// point back to the page itself are dropped, as are duplicates and
// references that are not HTTP(S). Document order is preserved.
func (e *LinkExtractor) ExtractLinks(html string, base linguacrawl.Link) ([]linguacrawl.Link, error) {
	if base.IsZero() {
		return nil, linguacrawl.Errorf(linguacrawl.EINVALID, "empty base URL")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, linguacrawl.Errorf(linguacrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	resolveBase := base
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if b, err := linguacrawl.ResolveLink(href, base); err == nil {
			resolveBase = b
		}
	}

	seen := map[string]struct{}{base.String(): {}}
	var links []linguacrawl.Link

	doc.Find("[href]").Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "base" {
			return
		}
		href, _ := sel.Attr("href")
		if strings.TrimSpace(href) == "" {
			return
		}

		link, err := linguacrawl.ResolveLink(href, resolveBase)
		if err != nil {
			return
		}
		if _, ok := seen[link.String()]; ok {
			return
		}
		seen[link.String()] = struct{}{}
		links = append(links, link)
	})

	return links, nil
}
