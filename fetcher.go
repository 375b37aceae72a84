package linguacrawl

import "context"

// Response is a raw fetched resource.
type Response struct {
	URL         Link
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports whether the response has a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Fetcher retrieves raw responses from URLs.
type Fetcher interface {
	// Fetch retrieves link. Non-2xx statuses are returned as responses,
	// transport failures as errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, link Link) (*Response, error)

	// Close releases resources held by the fetcher.
	Close() error
}

// DomainLimiter throttles requests per host.
type DomainLimiter interface {
	// Wait blocks until a request to host is allowed or ctx is done.
	Wait(ctx context.Context, host string) error
}
