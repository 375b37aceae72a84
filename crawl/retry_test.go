package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/linguacrawl"
	"github.com/fwojciec/linguacrawl/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	link := linguacrawl.MustLink("https://example.com/")
	noDelays := []time.Duration{0, 0, 0}

	t.Run("returns first successful response", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ linguacrawl.Link) (*linguacrawl.Response, error) {
			calls++
			return &linguacrawl.Response{URL: link, StatusCode: 200}, nil
		}

		resp, err := crawl.FetchWithRetry(context.Background(), link, fetch, noDelays)

		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transport errors until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ linguacrawl.Link) (*linguacrawl.Response, error) {
			calls++
			if calls < 3 {
				return nil, errors.New("connection reset")
			}
			return &linguacrawl.Response{URL: link, StatusCode: 200}, nil
		}

		resp, err := crawl.FetchWithRetry(context.Background(), link, fetch, noDelays)

		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry non-2xx responses", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ linguacrawl.Link) (*linguacrawl.Response, error) {
			calls++
			return &linguacrawl.Response{URL: link, StatusCode: 503}, nil
		}

		resp, err := crawl.FetchWithRetry(context.Background(), link, fetch, noDelays)

		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns last error after all attempts", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ linguacrawl.Link) (*linguacrawl.Response, error) {
			calls++
			return nil, errors.New("timeout")
		}

		_, err := crawl.FetchWithRetry(context.Background(), link, fetch, noDelays)

		require.EqualError(t, err, "timeout")
		assert.Equal(t, 4, calls)
	})

	t.Run("does not retry invalid requests", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ linguacrawl.Link) (*linguacrawl.Response, error) {
			calls++
			return nil, linguacrawl.Errorf(linguacrawl.EINVALID, "fetcher is closed")
		}

		_, err := crawl.FetchWithRetry(context.Background(), link, fetch, noDelays)

		assert.Equal(t, linguacrawl.EINVALID, linguacrawl.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("retries per-request timeouts", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ linguacrawl.Link) (*linguacrawl.Response, error) {
			calls++
			if calls == 1 {
				return nil, context.DeadlineExceeded
			}
			return &linguacrawl.Response{URL: link, StatusCode: 200}, nil
		}

		resp, err := crawl.FetchWithRetry(context.Background(), link, fetch, noDelays)

		require.NoError(t, err)
		assert.True(t, resp.OK())
		assert.Equal(t, 2, calls)
	})

	t.Run("makes one attempt without delays", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ linguacrawl.Link) (*linguacrawl.Response, error) {
			calls++
			return nil, errors.New("refused")
		}

		_, err := crawl.FetchWithRetry(context.Background(), link, fetch, nil)

		require.EqualError(t, err, "refused")
		assert.Equal(t, 1, calls)
	})

	t.Run("stops waiting when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(_ context.Context, _ linguacrawl.Link) (*linguacrawl.Response, error) {
			cancel()
			return nil, errors.New("timeout")
		}

		_, err := crawl.FetchWithRetry(ctx, link, fetch, []time.Duration{time.Hour})

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestDefaultRetryDelays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, crawl.DefaultRetryDelays())
}
