package linguacrawl

import (
	"net"
	"net/url"
	"strings"
)

// Link is a normalized absolute HTTP(S) URL.
// Two links are equal when their canonical string forms are equal.
// The zero Link is not a valid link.
type Link struct {
	canonical string
	host      string
}

// NewLink parses and normalizes raw into a Link.
// Scheme and host are lowercased, default ports and fragments are removed,
// and an empty path becomes "/".
func NewLink(raw string) (Link, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Link{}, Errorf(EINVALID, "invalid URL %q: %v", raw, err)
	}
	return linkFromURL(u, raw)
}

// ResolveLink resolves href against base and normalizes the result.
// Non-HTTP references such as mailto: or javascript: are rejected.
func ResolveLink(href string, base Link) (Link, error) {
	if base.IsZero() {
		return Link{}, Errorf(EINVALID, "cannot resolve %q against an empty base", href)
	}
	href = strings.TrimSpace(href)
	if isNonHTTPRef(href) {
		return Link{}, Errorf(EINVALID, "non-HTTP reference %q", href)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return Link{}, Errorf(EINVALID, "invalid reference %q: %v", href, err)
	}
	b, err := url.Parse(base.canonical)
	if err != nil {
		return Link{}, Errorf(EINVALID, "invalid base %q: %v", base.canonical, err)
	}
	return linkFromURL(b.ResolveReference(ref), href)
}

// MustLink is like NewLink but panics on error. It is intended for tests and
// static seed lists.
func MustLink(raw string) Link {
	l, err := NewLink(raw)
	if err != nil {
		panic(err)
	}
	return l
}

func linkFromURL(u *url.URL, raw string) (Link, error) {
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return Link{}, Errorf(EINVALID, "unsupported scheme in %q", raw)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return Link{}, Errorf(EINVALID, "missing host in %q", raw)
	}

	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	hostport := host
	if strings.Contains(host, ":") {
		hostport = "[" + host + "]"
	}
	if port != "" {
		hostport = net.JoinHostPort(host, port)
	}

	n := url.URL{
		Scheme:   scheme,
		User:     u.User,
		Host:     hostport,
		Path:     u.Path,
		RawPath:  u.RawPath,
		RawQuery: u.RawQuery,
	}
	if n.Path == "" {
		n.Path = "/"
		n.RawPath = ""
	}
	return Link{canonical: n.String(), host: host}, nil
}

// String returns the canonical form of the link.
func (l Link) String() string { return l.canonical }

// Host returns the lowercased host name without port.
func (l Link) Host() string { return l.host }

// IsZero reports whether l is the zero Link.
func (l Link) IsZero() bool { return l.canonical == "" }

// MarshalText implements encoding.TextMarshaler.
func (l Link) MarshalText() ([]byte, error) {
	return []byte(l.canonical), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Link) UnmarshalText(b []byte) error {
	parsed, err := NewLink(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// isNonHTTPRef checks if a reference uses a scheme that can never be crawled.
func isNonHTTPRef(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
