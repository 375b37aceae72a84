// Package crawl implements the crawl frontiers and the crawl driver.
// The driver pops URLs from a frontier, analyzes them with a worker pool
// and feeds each document back so the frontier can reprioritize.
package crawl

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/fwojciec/linguacrawl"
)

// Crawler defaults.
const (
	DefaultConcurrency     = 4
	DefaultCheckpointEvery = 100

	// drainTimeout bounds the wait for in-flight workers after a cancellation.
	drainTimeout = 5 * time.Second
)

// Crawler drives a crawl over a Frontier.
type Crawler struct {
	Frontier linguacrawl.Frontier
	Analyzer linguacrawl.Analyzer

	// Pages receives every analyzable page. Optional.
	Pages linguacrawl.PageWriter

	// Checkpoints receives periodic and final snapshots. Optional.
	Checkpoints linguacrawl.StatusStore

	// RateLimiter throttles fetches per host. Optional.
	RateLimiter linguacrawl.DomainLimiter

	// Scope filters outgoing links before they reach the frontier. Optional.
	Scope *linguacrawl.URLFilter

	Concurrency int

	// MaxPages caps the number of URLs dispatched. Zero means unlimited.
	MaxPages int

	// CheckpointEvery is the number of handled URLs between checkpoints.
	CheckpointEvery int

	// Resume restores the frontier from Checkpoints instead of the seeds
	// when a checkpoint exists.
	Resume bool
}

// Result holds the outcome of a crawl.
type Result struct {
	// Fetched counts URLs fetched with a 2xx status.
	Fetched int
	// Failed counts failed fetches and pages that could not be saved.
	Failed int
	// Saved counts pages written to Pages.
	Saved int
	// ByLanguage counts analyzable documents per language.
	// Documents of unknown language are counted under "".
	ByLanguage map[string]int
	// Pending is the number of URLs left for a resumed crawl.
	Pending int
	// Attempts is the total number of handled URLs, including resumed runs.
	Attempts int
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Pending   int
	URL       string
	Class     linguacrawl.PriorityClass
	Language  string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressCheckpoint
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// analysis is the outcome of analyzing one popped entry.
type analysis struct {
	entry linguacrawl.Entry
	doc   *linguacrawl.Document
	err   error
}

// Run crawls until the frontier is exhausted, MaxPages URLs were
// dispatched or ctx is done. A final checkpoint is always attempted.
//
// The calling goroutine is the only writer of the frontier. Workers only
// run the analyzer.
func (c *Crawler) Run(ctx context.Context, seeds []linguacrawl.Link, progress ProgressFunc) (*Result, error) {
	if c.Frontier == nil || c.Analyzer == nil {
		return nil, linguacrawl.Errorf(linguacrawl.ECONFIG, "crawler requires a frontier and an analyzer")
	}

	attempts, err := c.start(ctx, seeds)
	if err != nil {
		return nil, err
	}

	r := &run{
		crawler:  c,
		progress: progress,
		inFlight: make(map[string]linguacrawl.Entry),
		attempts: attempts,
		result:   Result{ByLanguage: make(map[string]int)},
	}
	r.emit(ProgressEvent{Type: ProgressStarted, Pending: c.Frontier.Len()})

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	workCh := make(chan linguacrawl.Entry, concurrency)
	resultCh := make(chan analysis)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range workCh {
				res := c.analyze(ctx, entry)
				select {
				case resultCh <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	dispatched := 0
	next, ok := r.pop(dispatched)

coordinatorLoop:
	for {
		if !ok && len(r.inFlight) == 0 {
			break coordinatorLoop
		}
		if ctx.Err() != nil {
			break coordinatorLoop
		}

		if ok {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case workCh <- next:
				r.inFlight[next.Link.String()] = next
				dispatched++
				ok = false
			case res := <-resultCh:
				r.handle(ctx, res)
			}
		} else {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case res, open := <-resultCh:
				if !open {
					break coordinatorLoop
				}
				r.handle(ctx, res)
			}
		}

		if !ok {
			next, ok = r.pop(dispatched)
		}
	}

	// An entry popped but never dispatched goes back with the in-flight ones.
	if ok {
		r.inFlight[next.Link.String()] = next
	}

	close(workCh)
	r.drain(resultCh)

	// The final checkpoint must survive a canceled crawl.
	saveErr := r.checkpoint(context.WithoutCancel(ctx))

	r.result.Pending = c.Frontier.Len() + len(r.inFlight)
	r.result.Attempts = r.attempts
	r.emit(ProgressEvent{Type: ProgressFinished, Completed: r.attempts, Pending: r.result.Pending})

	if saveErr != nil {
		return &r.result, fmt.Errorf("final checkpoint: %w", saveErr)
	}
	return &r.result, nil
}

// start seeds the frontier and returns the restored attempts counter.
func (c *Crawler) start(ctx context.Context, seeds []linguacrawl.Link) (int, error) {
	if c.Resume && c.Checkpoints != nil {
		status, err := c.Checkpoints.LoadStatus(ctx)
		switch {
		case err == nil:
			if err := c.Frontier.ImportStatus(status); err != nil {
				return 0, fmt.Errorf("restore checkpoint: %w", err)
			}
			return status.Attempts, nil
		case linguacrawl.ErrorCode(err) != linguacrawl.ENOTFOUND:
			return 0, fmt.Errorf("load checkpoint: %w", err)
		}
	}
	if err := c.Frontier.AdmitMany(seeds); err != nil {
		return 0, fmt.Errorf("admit seeds: %w", err)
	}
	return 0, nil
}

// analyze runs in a worker goroutine.
func (c *Crawler) analyze(ctx context.Context, entry linguacrawl.Entry) analysis {
	res := analysis{entry: entry}
	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, entry.Link.Host()); err != nil {
			res.err = err
			return res
		}
	}
	res.doc, res.err = c.Analyzer.Analyze(ctx, entry.Link)
	return res
}

// run holds the coordinator state of one Run call.
type run struct {
	crawler  *Crawler
	progress ProgressFunc
	inFlight map[string]linguacrawl.Entry
	attempts int
	handled  int
	result   Result
}

func (r *run) emit(event ProgressEvent) {
	if r.progress != nil {
		r.progress(event)
	}
}

// pop returns the next entry unless the dispatch budget is spent.
func (r *run) pop(dispatched int) (linguacrawl.Entry, bool) {
	if limit := r.crawler.MaxPages; limit > 0 && dispatched >= limit {
		return linguacrawl.Entry{}, false
	}
	entry, err := r.crawler.Frontier.PopNext()
	if err != nil {
		return linguacrawl.Entry{}, false
	}
	return entry, true
}

// handle applies one analysis to the frontier and the page store.
func (r *run) handle(ctx context.Context, res analysis) {
	c := r.crawler
	url := res.entry.Link.String()

	if res.err != nil {
		// Canceled work stays in flight and is checkpointed as pending.
		if ctx.Err() != nil {
			return
		}
		res.doc = &linguacrawl.Document{URL: res.entry.Link}
	}
	delete(r.inFlight, url)

	doc := res.doc
	if doc == nil {
		doc = &linguacrawl.Document{URL: res.entry.Link}
	}
	doc.Links = r.inScope(doc.Links)

	c.Frontier.DocumentProcessed(doc)

	event := ProgressEvent{URL: url, Class: res.entry.Class, Language: doc.Language, Error: res.err}
	if doc.FetchSucceeded {
		r.result.Fetched++
	} else {
		r.result.Failed++
		if event.Error == nil {
			event.Error = fetchError(doc)
		}
	}

	if doc.Analyzable() {
		r.result.ByLanguage[doc.Language]++
		if err := r.save(ctx, res.entry, doc); err != nil {
			r.result.Failed++
			event.Error = err
		}
	}

	c.Frontier.URLHandled(res.entry.Link)
	r.attempts++
	r.handled++

	event.Type = ProgressCompleted
	if event.Error != nil {
		event.Type = ProgressFailed
	}
	event.Completed = r.attempts
	event.Pending = c.Frontier.Len()
	r.emit(event)

	every := c.CheckpointEvery
	if every <= 0 {
		every = DefaultCheckpointEvery
	}
	if c.Checkpoints != nil && r.handled%every == 0 {
		err := r.checkpoint(ctx)
		r.emit(ProgressEvent{Type: ProgressCheckpoint, Completed: r.attempts, Pending: c.Frontier.Len(), Error: err})
	}
}

func fetchError(doc *linguacrawl.Document) error {
	if doc.StatusCode == 0 {
		return linguacrawl.Errorf(linguacrawl.EINTERNAL, "fetch failed")
	}
	return linguacrawl.Errorf(linguacrawl.EINTERNAL, "unexpected status %d", doc.StatusCode)
}

func (r *run) inScope(links []linguacrawl.Link) []linguacrawl.Link {
	scope := r.crawler.Scope
	if scope == nil {
		return links
	}
	kept := make([]linguacrawl.Link, 0, len(links))
	for _, link := range links {
		if scope.Allow(link) {
			kept = append(kept, link)
		}
	}
	return kept
}

func (r *run) save(ctx context.Context, entry linguacrawl.Entry, doc *linguacrawl.Document) error {
	if r.crawler.Pages == nil {
		return nil
	}
	text := doc.BodyText
	if text == "" {
		text = doc.Text
	}
	page := &linguacrawl.Page{
		URL:        entry.Link.String(),
		Language:   doc.Language,
		Class:      entry.Class,
		Encoding:   doc.Encoding,
		StatusCode: doc.StatusCode,
		Text:       text,
	}
	if err := r.crawler.Pages.SavePage(ctx, page); err != nil {
		return fmt.Errorf("save page %s: %w", page.URL, err)
	}
	r.result.Saved++
	return nil
}

// drain waits for workers to finish after a stop. Late results are
// discarded and their entries stay in flight.
func (r *run) drain(resultCh <-chan analysis) {
	timeout := time.After(drainTimeout)
	for {
		select {
		case _, open := <-resultCh:
			if !open {
				return
			}
		case <-timeout:
			return
		}
	}
}

// checkpoint saves the frontier snapshot with in-flight entries restored
// to the pending list.
func (r *run) checkpoint(ctx context.Context) error {
	if r.crawler.Checkpoints == nil {
		return nil
	}
	status := withInFlight(r.crawler.Frontier.ExportStatus(), r.inFlight)
	status.Attempts = r.attempts
	return r.crawler.Checkpoints.SaveStatus(ctx, status)
}

// withInFlight returns s with the in-flight entries merged into Pending.
// In-flight entries go ahead of the pending entries of their class, in
// sequence order.
func withInFlight(s *linguacrawl.Status, inFlight map[string]linguacrawl.Entry) *linguacrawl.Status {
	if len(inFlight) == 0 {
		return s
	}

	popped := make([]linguacrawl.Entry, 0, len(inFlight))
	for _, e := range inFlight {
		popped = append(popped, e)
	}
	slices.SortFunc(popped, func(a, b linguacrawl.Entry) int {
		return cmp.Or(cmp.Compare(a.Class, b.Class), cmp.Compare(a.Seq, b.Seq))
	})

	withClasses := len(s.PendingClasses) > 0 || len(s.Pending) == 0
	pending := make([]string, 0, len(s.Pending)+len(popped))
	var classes []linguacrawl.PriorityClass
	if withClasses {
		classes = make([]linguacrawl.PriorityClass, 0, cap(pending))
	}

	i := 0
	for _, e := range popped {
		for withClasses && i < len(s.Pending) && s.PendingClass(i) < e.Class {
			pending = append(pending, s.Pending[i])
			classes = append(classes, s.PendingClass(i))
			i++
		}
		pending = append(pending, e.Link.String())
		if withClasses {
			classes = append(classes, e.Class)
		}
	}
	for ; i < len(s.Pending); i++ {
		pending = append(pending, s.Pending[i])
		if withClasses {
			classes = append(classes, s.PendingClass(i))
		}
	}

	s.Pending = pending
	s.PendingClasses = classes
	return s
}
