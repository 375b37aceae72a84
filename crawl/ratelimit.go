package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/linguacrawl"
	"golang.org/x/time/rate"
)

var _ linguacrawl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter keeps one token bucket per host so that a crawl spread over
// many hosts is not serialized by a single slow one. A "www." host shares
// its bucket with the bare domain.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each host, with no bursting. A non-positive rps disables throttling.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    1,
	}
}

// Wait blocks until a request to host is allowed.
// Returns the context's error if it is done first.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.limiter(host).Wait(ctx)
}

// Hosts returns the number of distinct buckets created so far.
func (d *DomainLimiter) Hosts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.limiters)
}

func (d *DomainLimiter) limiter(host string) *rate.Limiter {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.limiters[host]
	if !ok {
		l = rate.NewLimiter(d.limit, d.burst)
		d.limiters[host] = l
	}
	return l
}
