package linguacrawl

import (
	"context"
	"regexp"
	"slices"
	"strings"
)

// SitemapService discovers seed links from website sitemaps.
type SitemapService interface {
	// DiscoverLinks finds the links listed in the sitemaps of site's host.
	// It first checks robots.txt for sitemap directives, then falls back
	// to /sitemap.xml. Sitemap indexes are resolved recursively.
	//
	// If filter is nil, all links are returned.
	DiscoverLinks(ctx context.Context, site Link, filter *URLFilter) ([]Link, error)
}

// URLFilter restricts which discovered URLs enter the frontier.
type URLFilter struct {
	// AllowedHosts, if set, restricts URLs to hosts equal to or ending in
	// one of the entries (e.g. "fi" admits any .fi host, "example.com"
	// admits example.com and its subdomains).
	AllowedHosts []string

	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// Match reports whether url matches at least one Include pattern (when any
// are set) and no Exclude pattern. A nil filter matches everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	matches := func(re *regexp.Regexp) bool { return re.MatchString(url) }
	if len(f.Include) > 0 && !slices.ContainsFunc(f.Include, matches) {
		return false
	}
	return !slices.ContainsFunc(f.Exclude, matches)
}

// Allow reports whether link passes both the host restriction and the patterns.
func (f *URLFilter) Allow(link Link) bool {
	if f == nil {
		return true
	}
	if len(f.AllowedHosts) > 0 && !hostAllowed(link.Host(), f.AllowedHosts) {
		return false
	}
	return f.Match(link.String())
}

func hostAllowed(host string, allowed []string) bool {
	for _, suffix := range allowed {
		suffix = strings.ToLower(strings.TrimPrefix(suffix, "."))
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}
