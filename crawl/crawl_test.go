package crawl_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/fwojciec/linguacrawl"
	"github.com/fwojciec/linguacrawl/crawl"
	"github.com/fwojciec/linguacrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// site is a fake web: each URL maps to the document the analyzer returns.
// URLs missing from the map fail to fetch.
type site struct {
	mu       sync.Mutex
	pages    map[string]*linguacrawl.Document
	analyzed []string
}

func newSite(pages ...*linguacrawl.Document) *site {
	s := &site{pages: make(map[string]*linguacrawl.Document)}
	for _, p := range pages {
		s.pages[p.URL.String()] = p
	}
	return s
}

func (s *site) analyzer() *mock.Analyzer {
	return &mock.Analyzer{
		AnalyzeFn: func(_ context.Context, l linguacrawl.Link) (*linguacrawl.Document, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.analyzed = append(s.analyzed, l.String())
			p, ok := s.pages[l.String()]
			if !ok {
				return &linguacrawl.Document{URL: l, StatusCode: 404}, nil
			}
			cp := *p
			cp.Links = append([]linguacrawl.Link(nil), p.Links...)
			return &cp, nil
		},
	}
}

func (s *site) visited() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.analyzed...)
}

// pageRecorder collects saved pages.
type pageRecorder struct {
	mu    sync.Mutex
	pages map[string]*linguacrawl.Page
}

func (r *pageRecorder) writer() *mock.PageWriter {
	r.pages = make(map[string]*linguacrawl.Page)
	return &mock.PageWriter{
		SavePageFn: func(_ context.Context, p *linguacrawl.Page) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.pages[p.URL] = p
			return nil
		},
	}
}

// statusRecorder keeps every saved checkpoint.
type statusRecorder struct {
	mu    sync.Mutex
	saved []*linguacrawl.Status
}

func (r *statusRecorder) store(load func() (*linguacrawl.Status, error)) *mock.StatusStore {
	return &mock.StatusStore{
		SaveStatusFn: func(_ context.Context, s *linguacrawl.Status) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.saved = append(r.saved, s)
			return nil
		},
		LoadStatusFn: func(_ context.Context) (*linguacrawl.Status, error) {
			return load()
		},
	}
}

func (r *statusRecorder) last(t *testing.T) *linguacrawl.Status {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.saved)
	return r.saved[len(r.saved)-1]
}

func noCheckpoint() (*linguacrawl.Status, error) {
	return nil, linguacrawl.Errorf(linguacrawl.ENOTFOUND, "no checkpoint")
}

func page(raw, lang string, links ...string) *linguacrawl.Document {
	d := &linguacrawl.Document{
		URL:            linguacrawl.MustLink(raw),
		FetchSucceeded: true,
		StatusCode:     200,
		Encoding:       "utf-8",
		Text:           "<html><body>" + raw + "</body></html>",
		BodyText:       "body of " + raw,
		Language:       lang,
	}
	for _, l := range links {
		d.Links = append(d.Links, linguacrawl.MustLink(l))
	}
	return d
}

func seeds(raws ...string) []linguacrawl.Link {
	links := make([]linguacrawl.Link, 0, len(raws))
	for _, raw := range raws {
		links = append(links, linguacrawl.MustLink(raw))
	}
	return links
}

func TestCrawler_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires a frontier and an analyzer", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{}

		_, err := c.Run(context.Background(), nil, nil)

		assert.Equal(t, linguacrawl.ECONFIG, linguacrawl.ErrorCode(err))
	})

	t.Run("crawls every reachable page once", func(t *testing.T) {
		t.Parallel()

		web := newSite(
			page("https://fr.example/", "fr", "https://fr.example/a", "https://en.example/"),
			page("https://fr.example/a", "fr", "https://fr.example/"),
			page("https://en.example/", "en", "https://en.example/b"),
			page("https://en.example/b", "en"),
		)
		c := &crawl.Crawler{
			Frontier: newTestFrontier(t, "fr"),
			Analyzer: web.analyzer(),
		}

		result, err := c.Run(context.Background(), seeds("https://fr.example/"), nil)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			"https://fr.example/",
			"https://fr.example/a",
			"https://en.example/",
			"https://en.example/b",
		}, web.visited())
		assert.Equal(t, 4, result.Fetched)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, 0, result.Pending)
		assert.Equal(t, 4, result.Attempts)
		assert.Equal(t, map[string]int{"fr": 2, "en": 2}, result.ByLanguage)
	})

	t.Run("saves pages with the class they were popped with", func(t *testing.T) {
		t.Parallel()

		web := newSite(
			page("https://fr.example/", "fr", "https://fr.example/a"),
			page("https://fr.example/a", "fr"),
			page("https://en.example/", "en", "https://en.example/b"),
			page("https://en.example/b", "", "https://fr.example/c"),
		)
		var rec pageRecorder
		c := &crawl.Crawler{
			Frontier: newTestFrontier(t, "fr"),
			Analyzer: web.analyzer(),
			Pages:    rec.writer(),
		}

		result, err := c.Run(context.Background(), seeds("https://fr.example/", "https://en.example/"), nil)

		require.NoError(t, err)
		assert.Equal(t, 4, result.Saved)
		assert.Equal(t, 1, result.Failed) // fr.example/c is not in the fake web
		require.Len(t, rec.pages, 4)

		root := rec.pages["https://fr.example/"]
		assert.Equal(t, linguacrawl.ClassUnknown, root.Class)
		assert.Equal(t, "fr", root.Language)
		assert.Equal(t, "body of https://fr.example/", root.Text)
		assert.Equal(t, "utf-8", root.Encoding)
		assert.Equal(t, 200, root.StatusCode)
		assert.Equal(t, linguacrawl.ClassTarget, rec.pages["https://fr.example/a"].Class)
		assert.Equal(t, linguacrawl.ClassOffTarget, rec.pages["https://en.example/b"].Class)
		assert.Empty(t, rec.pages["https://en.example/b"].Language)
	})

	t.Run("visits target pages before off-target pages", func(t *testing.T) {
		t.Parallel()

		web := newSite(
			page("https://mixed.example/", "fr",
				"https://mixed.example/fr1", "https://mixed.example/fr2"),
			page("https://mixed.example/fr1", "fr"),
			page("https://mixed.example/fr2", "en",
				"https://mixed.example/en1", "https://mixed.example/en2"),
			page("https://mixed.example/en1", "en"),
			page("https://mixed.example/en2", "en"),
		)
		c := &crawl.Crawler{
			Frontier:    newTestFrontier(t, "fr"),
			Analyzer:    web.analyzer(),
			Concurrency: 1,
		}

		_, err := c.Run(context.Background(), seeds("https://mixed.example/"), nil)

		require.NoError(t, err)
		visited := web.visited()
		require.Len(t, visited, 5)
		assert.Equal(t, "https://mixed.example/", visited[0])
		assert.ElementsMatch(t, []string{"https://mixed.example/fr1", "https://mixed.example/fr2"}, visited[1:3])
		assert.ElementsMatch(t, []string{"https://mixed.example/en1", "https://mixed.example/en2"}, visited[3:])
	})

	t.Run("drops links outside the scope", func(t *testing.T) {
		t.Parallel()

		web := newSite(
			page("https://www.example.fi/", "fi",
				"https://www.example.fi/docs/", "https://other.example.com/", "https://www.example.fi/login"),
			page("https://www.example.fi/docs/", "fi"),
		)
		c := &crawl.Crawler{
			Frontier: newTestFrontier(t, "fi"),
			Analyzer: web.analyzer(),
			Scope: &linguacrawl.URLFilter{
				AllowedHosts: []string{"fi"},
				Exclude:      []*regexp.Regexp{regexp.MustCompile(`/login`)},
			},
		}

		result, err := c.Run(context.Background(), seeds("https://www.example.fi/"), nil)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"https://www.example.fi/", "https://www.example.fi/docs/"}, web.visited())
		assert.Equal(t, 2, result.Fetched)
	})

	t.Run("stops dispatching after max pages", func(t *testing.T) {
		t.Parallel()

		web := newSite(
			page("https://example.com/", "en", "https://example.com/1", "https://example.com/2", "https://example.com/3"),
			page("https://example.com/1", "en"),
			page("https://example.com/2", "en"),
			page("https://example.com/3", "en"),
		)
		rec := &statusRecorder{}
		c := &crawl.Crawler{
			Frontier:    newTestFrontier(t, "en"),
			Analyzer:    web.analyzer(),
			Checkpoints: rec.store(noCheckpoint),
			MaxPages:    2,
		}

		result, err := c.Run(context.Background(), seeds("https://example.com/"), nil)

		require.NoError(t, err)
		assert.Len(t, web.visited(), 2)
		assert.Equal(t, 2, result.Pending)
		final := rec.last(t)
		assert.Len(t, final.Processed, 2)
		assert.Len(t, final.Pending, 2)
		assert.Equal(t, 2, final.Attempts)
	})

	t.Run("marks failed fetches handled without saving them", func(t *testing.T) {
		t.Parallel()

		web := newSite(page("https://example.com/", "en", "https://example.com/missing"))
		var rec pageRecorder
		var failed []crawl.ProgressEvent
		c := &crawl.Crawler{
			Frontier: newTestFrontier(t, "en"),
			Analyzer: web.analyzer(),
			Pages:    rec.writer(),
		}

		result, err := c.Run(context.Background(), seeds("https://example.com/"), func(e crawl.ProgressEvent) {
			if e.Type == crawl.ProgressFailed {
				failed = append(failed, e)
			}
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Fetched)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 1, result.Saved)
		require.Len(t, failed, 1)
		assert.Equal(t, "https://example.com/missing", failed[0].URL)
		require.Error(t, failed[0].Error)
		assert.NotContains(t, rec.pages, "https://example.com/missing")
	})

	t.Run("treats analyzer errors as failed fetches", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Frontier: newTestFrontier(t, "en"),
			Analyzer: &mock.Analyzer{
				AnalyzeFn: func(_ context.Context, _ linguacrawl.Link) (*linguacrawl.Document, error) {
					return nil, errors.New("boom")
				},
			},
		}

		result, err := c.Run(context.Background(), seeds("https://example.com/"), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 0, result.Pending)
	})

	t.Run("counts save failures", func(t *testing.T) {
		t.Parallel()

		web := newSite(page("https://example.com/", "en"))
		c := &crawl.Crawler{
			Frontier: newTestFrontier(t, "en"),
			Analyzer: web.analyzer(),
			Pages: &mock.PageWriter{
				SavePageFn: func(_ context.Context, _ *linguacrawl.Page) error {
					return errors.New("disk full")
				},
			},
		}

		result, err := c.Run(context.Background(), seeds("https://example.com/"), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Fetched)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 0, result.Saved)
	})

	t.Run("waits on the rate limiter for each host", func(t *testing.T) {
		t.Parallel()

		web := newSite(
			page("https://a.example/", "en", "https://b.example/"),
			page("https://b.example/", "en"),
		)
		var mu sync.Mutex
		var hosts []string
		c := &crawl.Crawler{
			Frontier: newTestFrontier(t, "en"),
			Analyzer: web.analyzer(),
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, host string) error {
					mu.Lock()
					defer mu.Unlock()
					hosts = append(hosts, host)
					return nil
				},
			},
		}

		_, err := c.Run(context.Background(), seeds("https://a.example/"), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"a.example", "b.example"}, hosts)
	})

	t.Run("checkpoints periodically and at the end", func(t *testing.T) {
		t.Parallel()

		web := newSite(
			page("https://example.com/", "en", "https://example.com/1", "https://example.com/2"),
			page("https://example.com/1", "en"),
			page("https://example.com/2", "en"),
		)
		rec := &statusRecorder{}
		var checkpoints int
		c := &crawl.Crawler{
			Frontier:        newTestFrontier(t, "en"),
			Analyzer:        web.analyzer(),
			Checkpoints:     rec.store(noCheckpoint),
			CheckpointEvery: 2,
		}

		_, err := c.Run(context.Background(), seeds("https://example.com/"), func(e crawl.ProgressEvent) {
			if e.Type == crawl.ProgressCheckpoint {
				checkpoints++
				assert.NoError(t, e.Error)
			}
		})

		require.NoError(t, err)
		assert.Equal(t, 1, checkpoints)
		assert.Len(t, rec.saved, 2)
		final := rec.last(t)
		assert.Equal(t, []string{
			"https://example.com/",
			"https://example.com/1",
			"https://example.com/2",
		}, final.Processed)
		assert.Empty(t, final.Pending)
		assert.Equal(t, 3, final.Attempts)
	})

	t.Run("resumes from a checkpoint instead of the seeds", func(t *testing.T) {
		t.Parallel()

		web := newSite(page("https://example.com/next", "en"))
		rec := &statusRecorder{}
		c := &crawl.Crawler{
			Frontier: newTestFrontier(t, "en"),
			Analyzer: web.analyzer(),
			Checkpoints: rec.store(func() (*linguacrawl.Status, error) {
				return &linguacrawl.Status{
					Processed:      []string{"https://example.com/"},
					Pending:        []string{"https://example.com/next"},
					PendingClasses: []linguacrawl.PriorityClass{linguacrawl.ClassTarget},
					Attempts:       5,
				}, nil
			}),
			Resume: true,
		}

		result, err := c.Run(context.Background(), seeds("https://example.com/seed"), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/next"}, web.visited())
		assert.Equal(t, 6, result.Attempts)
		assert.Equal(t, 6, rec.last(t).Attempts)
	})

	t.Run("starts from the seeds when no checkpoint exists", func(t *testing.T) {
		t.Parallel()

		web := newSite(page("https://example.com/", "en"))
		c := &crawl.Crawler{
			Frontier:    newTestFrontier(t, "en"),
			Analyzer:    web.analyzer(),
			Checkpoints: (&statusRecorder{}).store(noCheckpoint),
			Resume:      true,
		}

		result, err := c.Run(context.Background(), seeds("https://example.com/"), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/"}, web.visited())
		assert.Equal(t, 1, result.Attempts)
	})

	t.Run("fails when the checkpoint cannot be loaded", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Frontier: newTestFrontier(t, "en"),
			Analyzer: newSite().analyzer(),
			Checkpoints: (&statusRecorder{}).store(func() (*linguacrawl.Status, error) {
				return nil, linguacrawl.Errorf(linguacrawl.ECORRUPT, "bad json")
			}),
			Resume: true,
		}

		_, err := c.Run(context.Background(), seeds("https://example.com/"), nil)

		assert.Equal(t, linguacrawl.ECORRUPT, linguacrawl.ErrorCode(err))
	})

	t.Run("rejects zero seeds", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Frontier: newTestFrontier(t, "en"),
			Analyzer: newSite().analyzer(),
		}

		_, err := c.Run(context.Background(), []linguacrawl.Link{{}}, nil)

		assert.Equal(t, linguacrawl.EINVALID, linguacrawl.ErrorCode(err))
	})

	t.Run("keeps in-flight URLs pending when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		rec := &statusRecorder{}
		c := &crawl.Crawler{
			Frontier: newTestFrontier(t, "en"),
			Analyzer: &mock.Analyzer{
				AnalyzeFn: func(ctx context.Context, _ linguacrawl.Link) (*linguacrawl.Document, error) {
					cancel()
					<-ctx.Done()
					return nil, ctx.Err()
				},
			},
			Checkpoints: rec.store(noCheckpoint),
			Concurrency: 1,
		}

		result, err := c.Run(ctx, seeds("https://example.com/a", "https://example.com/b"), nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Pending)
		final := rec.last(t)
		assert.Empty(t, final.Processed)
		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, final.Pending)
		assert.Equal(t, []linguacrawl.PriorityClass{linguacrawl.ClassUnknown, linguacrawl.ClassUnknown}, final.PendingClasses)
	})

	t.Run("reports the final checkpoint error", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Frontier: newTestFrontier(t, "en"),
			Analyzer: newSite(page("https://example.com/", "en")).analyzer(),
			Checkpoints: &mock.StatusStore{
				SaveStatusFn: func(_ context.Context, _ *linguacrawl.Status) error {
					return errors.New("read-only file system")
				},
			},
		}

		result, err := c.Run(context.Background(), seeds("https://example.com/"), nil)

		require.ErrorContains(t, err, "final checkpoint")
		require.NotNil(t, result)
		assert.Equal(t, 1, result.Fetched)
	})

	t.Run("emits started and finished events", func(t *testing.T) {
		t.Parallel()

		var types []crawl.ProgressType
		c := &crawl.Crawler{
			Frontier: newTestFrontier(t, "en"),
			Analyzer: newSite(page("https://example.com/", "en")).analyzer(),
		}

		_, err := c.Run(context.Background(), seeds("https://example.com/"), func(e crawl.ProgressEvent) {
			types = append(types, e.Type)
		})

		require.NoError(t, err)
		assert.Equal(t, []crawl.ProgressType{crawl.ProgressStarted, crawl.ProgressCompleted, crawl.ProgressFinished}, types)
	})
}

func TestCrawler_Run_Queue(t *testing.T) {
	t.Parallel()

	web := newSite(
		page("https://example.com/", "de", "https://example.com/1"),
		page("https://example.com/1", "de"),
	)
	c := &crawl.Crawler{
		Frontier: crawl.NewQueue(),
		Analyzer: web.analyzer(),
	}

	result, err := c.Run(context.Background(), seeds("https://example.com/"), nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/", "https://example.com/1"}, web.visited())
	assert.Equal(t, map[string]int{"de": 2}, result.ByLanguage)
}
