package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/linguacrawl"
	"github.com/fwojciec/linguacrawl/mock"
	lcslog "github.com/fwojciec/linguacrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fetchLog runs one Fetch through a LoggingFetcher and returns the log text.
func fetchLog(t *testing.T, raw string, fetch func(context.Context, linguacrawl.Link) (*linguacrawl.Response, error)) (string, *linguacrawl.Response, error) {
	t.Helper()

	var buf bytes.Buffer
	f := lcslog.NewLoggingFetcher(&mock.Fetcher{FetchFn: fetch}, slog.New(slog.NewTextHandler(&buf, nil)))
	resp, err := f.Fetch(context.Background(), linguacrawl.MustLink(raw))
	return buf.String(), resp, err
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs a successful page at INFO", func(t *testing.T) {
		t.Parallel()

		out, resp, err := fetchLog(t, "https://example.fi/sivu", func(_ context.Context, link linguacrawl.Link) (*linguacrawl.Response, error) {
			return &linguacrawl.Response{
				URL:         link,
				StatusCode:  200,
				ContentType: "text/html; charset=iso-8859-1",
				Body:        []byte("<p>hei</p>"),
			}, nil
		})

		require.NoError(t, err)
		assert.Equal(t, "<p>hei</p>", string(resp.Body))
		assert.Contains(t, out, "level=INFO")
		assert.Contains(t, out, "msg=fetch")
		assert.Contains(t, out, "url=https://example.fi/sivu")
		assert.Contains(t, out, "status=200")
		assert.Contains(t, out, `type="text/html; charset=iso-8859-1"`)
		assert.Contains(t, out, "bytes=10")
		assert.NotContains(t, out, "final=")
		assert.NotContains(t, out, "err=")
	})

	t.Run("adds the final URL after a redirect", func(t *testing.T) {
		t.Parallel()

		out, _, err := fetchLog(t, "http://example.fi/", func(context.Context, linguacrawl.Link) (*linguacrawl.Response, error) {
			return &linguacrawl.Response{URL: linguacrawl.MustLink("https://example.fi/fi/"), StatusCode: 200}, nil
		})

		require.NoError(t, err)
		assert.Contains(t, out, "final=https://example.fi/fi/")
	})

	t.Run("warns on non-2xx status", func(t *testing.T) {
		t.Parallel()

		out, _, err := fetchLog(t, "https://example.fi/puuttuu", func(_ context.Context, link linguacrawl.Link) (*linguacrawl.Response, error) {
			return &linguacrawl.Response{URL: link, StatusCode: 404}, nil
		})

		require.NoError(t, err)
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "status=404")
	})

	t.Run("warns with the transport error", func(t *testing.T) {
		t.Parallel()

		out, _, err := fetchLog(t, "https://example.fi/", func(context.Context, linguacrawl.Link) (*linguacrawl.Response, error) {
			return nil, errors.New("network error")
		})

		require.Error(t, err)
		assert.Contains(t, out, "level=WARN")
		assert.NotContains(t, out, "status=")
		assert.Contains(t, out, `err="network error"`)
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	closed := false
	inner := &mock.Fetcher{
		CloseFn: func() error {
			closed = true
			return nil
		},
	}

	fetcher := lcslog.NewLoggingFetcher(inner, slog.New(slog.DiscardHandler))

	require.NoError(t, fetcher.Close())
	assert.True(t, closed)
}
