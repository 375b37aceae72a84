package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/linguacrawl"
)

// maxSitemapDepth bounds recursion through nested sitemap indexes.
const maxSitemapDepth = 5

// Ensure SitemapService implements linguacrawl.SitemapService.
var _ linguacrawl.SitemapService = (*SitemapService)(nil)

// SitemapService discovers seed links from website sitemaps via HTTP.
type SitemapService struct {
	client *http.Client
	langs  linguacrawl.LanguageSet
}

// SitemapOption configures a SitemapService.
type SitemapOption func(*SitemapService)

// WithHreflang makes each urlset list its hreflang alternates in langs
// ahead of its <loc> entries, so pages declared to be in a target language
// are seeded first. Alternates in other languages are ignored.
func WithHreflang(langs linguacrawl.LanguageSet) SitemapOption {
	return func(s *SitemapService) {
		s.langs = langs
	}
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client, opts ...SitemapOption) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	s := &SitemapService{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscoverLinks returns the deduplicated links listed in the sitemaps of
// site's host, in sitemap order. Entries that are not valid HTTP(S) URLs
// are skipped. Returns an empty slice (not nil) if no sitemaps are found.
func (s *SitemapService) DiscoverLinks(ctx context.Context, site linguacrawl.Link, filter *linguacrawl.URLFilter) ([]linguacrawl.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if site.IsZero() {
		return nil, linguacrawl.Errorf(linguacrawl.EINVALID, "empty site URL")
	}

	root, err := linguacrawl.ResolveLink("/", site)
	if err != nil {
		return nil, err
	}

	sitemaps, err := s.findSitemaps(ctx, root)
	if err != nil {
		return nil, err
	}

	links := []linguacrawl.Link{}
	seenLinks := make(map[linguacrawl.Link]bool)
	seenSitemaps := make(map[string]bool)

	for _, sm := range sitemaps {
		locs, err := s.processSitemap(ctx, sm, seenSitemaps, 0)
		if err != nil {
			return nil, err
		}
		for _, loc := range locs {
			link, err := linguacrawl.NewLink(loc)
			if err != nil || seenLinks[link] || !filter.Allow(link) {
				continue
			}
			seenLinks[link] = true
			links = append(links, link)
		}
	}

	return links, nil
}

// findSitemaps discovers sitemap URLs from robots.txt or falls back to /sitemap.xml.
func (s *SitemapService) findSitemaps(ctx context.Context, root linguacrawl.Link) ([]string, error) {
	robots, _ := linguacrawl.ResolveLink("/robots.txt", root)
	sitemaps, err := s.sitemapsFromRobots(ctx, robots.String())
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}

	fallback, _ := linguacrawl.ResolveLink("/sitemap.xml", root)
	ok, err := s.exists(ctx, fallback.String())
	if err != nil {
		// Context errors propagate, anything else means "no sitemap".
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return []string{fallback.String()}, nil
}

// sitemapsFromRobots extracts Sitemap: directives from robots.txt.
func (s *SitemapService) sitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "sitemap") {
			continue
		}
		if v := strings.TrimSpace(value); v != "" {
			sitemaps = append(sitemaps, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return sitemaps, nil
}

// processSitemap fetches one sitemap and returns the <loc> values it lists,
// descending into <sitemapindex> documents.
func (s *SitemapService) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool, depth int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] || depth > maxSitemapDepth {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("parsing sitemap %s: %w", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap %s", sitemapURL)
	}

	if root.Tag != "sitemapindex" {
		return append(s.alternates(root), locs(root, "url")...), nil
	}

	var all []string
	for _, child := range locs(root, "sitemap") {
		urls, err := s.processSitemap(ctx, child, seen, depth+1)
		if err != nil {
			return nil, err
		}
		all = append(all, urls...)
	}
	return all, nil
}

// locs returns the trimmed <loc> text of each tag child of root.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// alternates returns the hrefs of <xhtml:link rel="alternate"> children of
// each <url> whose hreflang primary subtag is a target language.
func (s *SitemapService) alternates(root *etree.Element) []string {
	if len(s.langs) == 0 {
		return nil
	}
	var out []string
	for _, u := range root.SelectElements("url") {
		for _, link := range u.SelectElements("link") {
			if link.SelectAttrValue("rel", "") != "alternate" {
				continue
			}
			lang, _, _ := strings.Cut(link.SelectAttrValue("hreflang", ""), "-")
			if !s.langs.Contains(lang) {
				continue
			}
			if href := strings.TrimSpace(link.SelectAttrValue("href", "")); href != "" {
				out = append(out, href)
			}
		}
	}
	return out
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}

func (s *SitemapService) exists(ctx context.Context, target string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
