package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/linguacrawl"
)

// FetchFunc fetches a single link.
type FetchFunc func(ctx context.Context, link linguacrawl.Link) (*linguacrawl.Response, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry calls fetch until it returns a response, sleeping delays[i]
// before retry i+1, so there are at most len(delays)+1 attempts.
//
// Any response ends the loop whatever its status code. EINVALID errors are
// returned at once since another attempt cannot succeed. Once ctx is done
// the context's error is returned instead of the fetch error.
func FetchWithRetry(ctx context.Context, link linguacrawl.Link, fetch FetchFunc, delays []time.Duration) (*linguacrawl.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := fetch(ctx, link)
		switch {
		case err == nil:
			return resp, nil
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case linguacrawl.ErrorCode(err) == linguacrawl.EINVALID, attempt >= len(delays):
			return nil, err
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
