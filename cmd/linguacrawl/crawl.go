package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"slices"
	"time"

	"github.com/fwojciec/linguacrawl"
	"github.com/fwojciec/linguacrawl/crawl"
	"github.com/fwojciec/linguacrawl/fs"
	lchttp "github.com/fwojciec/linguacrawl/http"
	lcprom "github.com/fwojciec/linguacrawl/prometheus"
	lcslog "github.com/fwojciec/linguacrawl/slog"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// bloomFalsePositiveRate is the false positive rate of the --bloom seen set.
const bloomFalsePositiveRate = 0.01

// shutdownTimeout bounds the status server shutdown after the crawl.
const shutdownTimeout = 5 * time.Second

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	langs, err := linguacrawl.ParseLanguages(c.Langs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linguacrawl.ErrorMessage(err))
		fmt.Fprintln(deps.Stderr, "Hint: pass --langs or set LINGUACRAWL_LANGS")
		return err
	}

	seeds, err := c.seeds()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linguacrawl.ErrorMessage(err))
		return err
	}

	scope, err := c.scope()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	if c.Sitemaps && deps.Sitemaps != nil {
		seeds = c.withSitemapLinks(deps, seeds, scope)
	}

	base, err := c.newFrontier(langs)
	if err != nil {
		return err
	}

	var frontier linguacrawl.Frontier = base
	var gatherer prometheus.Gatherer
	if c.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		instrumented, err := lcprom.NewFrontier(frontier, reg)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		frontier = instrumented
		gatherer = reg
	}
	if deps.Logger != nil {
		frontier = lcslog.NewLoggingFrontier(frontier, deps.Logger)
	}

	var pages linguacrawl.PageWriter
	if c.Out != "" {
		pages = fs.NewCorpusWriter(c.Out)
	} else if deps.Pages != nil {
		pages = deps.Pages
	}

	crawler := &crawl.Crawler{
		Frontier:        frontier,
		Analyzer:        deps.Analyzer,
		Pages:           pages,
		Checkpoints:     deps.Checkpoints,
		RateLimiter:     deps.RateLimiter,
		Scope:           scope,
		Concurrency:     c.Concurrency,
		MaxPages:        c.MaxPages,
		CheckpointEvery: c.CheckpointEvery,
		Resume:          c.Resume,
	}

	var result *crawl.Result
	g, gctx := errgroup.WithContext(deps.Ctx)
	crawlCtx, stopServer := context.WithCancel(gctx)

	if c.MetricsAddr != "" {
		server := &http.Server{
			Addr:    c.MetricsAddr,
			Handler: lchttp.NewStatusServer(base, gatherer).Handler(),
		}
		g.Go(func() error {
			return serve(crawlCtx, server)
		})
		fmt.Fprintf(deps.Stdout, "Serving status on %s\n", c.MetricsAddr)
	}

	g.Go(func() error {
		defer stopServer()
		var err error
		result, err = crawler.Run(crawlCtx, seeds, progressPrinter(deps.Stdout, deps.Stderr))
		return err
	})

	err = g.Wait()
	stopServer()
	if result != nil {
		printResult(deps.Stdout, result)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}
	return nil
}

func (c *CrawlCmd) seeds() ([]linguacrawl.Link, error) {
	seeds := make([]linguacrawl.Link, 0, len(c.URLs))
	for _, raw := range c.URLs {
		link, err := linguacrawl.NewLink(raw)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, link)
	}
	if len(seeds) == 0 && !c.Resume {
		return nil, linguacrawl.Errorf(linguacrawl.EINVALID, "at least one seed URL required")
	}
	return seeds, nil
}

// scope compiles the host and pattern flags. A nil filter admits everything.
func (c *CrawlCmd) scope() (*linguacrawl.URLFilter, error) {
	if len(c.AllowHost) == 0 && len(c.Include) == 0 && len(c.Exclude) == 0 {
		return nil, nil
	}
	filter := &linguacrawl.URLFilter{AllowedHosts: c.AllowHost}
	for _, pattern := range c.Include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		filter.Include = append(filter.Include, re)
	}
	for _, pattern := range c.Exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		filter.Exclude = append(filter.Exclude, re)
	}
	return filter, nil
}

// withSitemapLinks appends the sitemap URLs of each distinct seed host.
// Discovery failures are reported and skipped.
func (c *CrawlCmd) withSitemapLinks(deps *Dependencies, seeds []linguacrawl.Link, scope *linguacrawl.URLFilter) []linguacrawl.Link {
	var hosts []string
	out := slices.Clone(seeds)
	for _, seed := range seeds {
		if slices.Contains(hosts, seed.Host()) {
			continue
		}
		hosts = append(hosts, seed.Host())

		links, err := deps.Sitemaps.DiscoverLinks(deps.Ctx, seed, scope)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "  skip sitemap for %s: %v\n", seed.Host(), err)
			continue
		}
		fmt.Fprintf(deps.Stdout, "Found %d sitemap URLs for %s\n", len(links), seed.Host())
		out = append(out, links...)
	}
	return out
}

// inspectableFrontier is a frontier the status server can summarize.
type inspectableFrontier interface {
	linguacrawl.Frontier
	linguacrawl.Summarizer
}

func (c *CrawlCmd) newFrontier(langs linguacrawl.LanguageSet) (inspectableFrontier, error) {
	var opts []crawl.Option
	if c.Bloom > 0 {
		opts = append(opts, crawl.WithBloomSeen(c.Bloom, bloomFalsePositiveRate))
	}
	if c.Queue == "fifo" {
		return crawl.NewQueue(opts...), nil
	}
	return crawl.NewFrontier(langs, opts...)
}

// serve runs server until ctx is done.
func serve(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("status server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("status server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("status server: %w", err)
	}
	return nil
}

func progressPrinter(stdout, stderr io.Writer) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(stdout, "Crawling from %d URLs\n", event.Pending)
		case crawl.ProgressFailed:
			fmt.Fprintf(stderr, "  skip %s: %v\n", event.URL, event.Error)
		case crawl.ProgressCheckpoint:
			if event.Error != nil {
				fmt.Fprintf(stderr, "  checkpoint failed: %v\n", event.Error)
				return
			}
			fmt.Fprintf(stdout, "  checkpoint: %d handled, %d pending\n", event.Completed, event.Pending)
		}
	}
}

func printResult(w io.Writer, r *crawl.Result) {
	fmt.Fprintf(w, "Fetched %d pages (%d failed, %d saved, %d pending)\n", r.Fetched, r.Failed, r.Saved, r.Pending)

	langs := make([]string, 0, len(r.ByLanguage))
	for lang := range r.ByLanguage {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	for _, lang := range langs {
		fmt.Fprintf(w, "  %-8s %d\n", languageLabel(lang), r.ByLanguage[lang])
	}
}

func languageLabel(lang string) string {
	if lang == "" {
		return "unknown"
	}
	return lang
}
