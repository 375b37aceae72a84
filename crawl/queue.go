package crawl

import (
	"iter"
	"sync"

	"github.com/fwojciec/linguacrawl"
)

// Compile-time interface verification.
var (
	_ linguacrawl.Frontier   = (*Queue)(nil)
	_ linguacrawl.Summarizer = (*Queue)(nil)
)

// Queue is a first-in first-out frontier with no language policy.
// Every link is queued with ClassUnknown, so links are served in discovery
// order. Queue is safe for concurrent use by multiple goroutines.
type Queue struct {
	mu     sync.Mutex
	opts   options
	ledger *ledger
}

// NewQueue creates an empty Queue.
func NewQueue(opts ...Option) *Queue {
	o := buildOptions(opts)
	return &Queue{
		opts:   o,
		ledger: newLedger(o),
	}
}

// Len returns the number of live entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ledger.heap.Len()
}

// Contains reports whether link is live.
func (q *Queue) Contains(link linguacrawl.Link) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.ledger.heap.get(link.String())
	return ok
}

// All iterates over the live entries in heap order.
func (q *Queue) All() iter.Seq[linguacrawl.Entry] {
	return iterate(func() []linguacrawl.Entry {
		q.mu.Lock()
		defer q.mu.Unlock()
		return q.ledger.heap.snapshot()
	})
}

// Lookup returns the live entry for link.
func (q *Queue) Lookup(link linguacrawl.Link) (linguacrawl.Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ledger.lookup(link.String())
}

// Admit appends link unless it is live or was seen before.
func (q *Queue) Admit(link linguacrawl.Link) error {
	if err := validLink(link); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.admit(link)
	return nil
}

// AdmitMany appends links in order.
func (q *Queue) AdmitMany(links []linguacrawl.Link) error {
	for _, link := range links {
		if err := validLink(link); err != nil {
			return err
		}
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, link := range links {
		q.admit(link)
	}
	return nil
}

func (q *Queue) admit(link linguacrawl.Link) {
	url := link.String()
	if q.ledger.isProcessed(url) || q.ledger.seen.Has(url) {
		return
	}
	q.ledger.insert(link, linguacrawl.ClassUnknown)
}

// PopNext removes and returns the oldest live entry.
func (q *Queue) PopNext() (linguacrawl.Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ledger.popNext()
}

// DocumentProcessed appends the document's outgoing links.
func (q *Queue) DocumentProcessed(doc *linguacrawl.Document) {
	if !doc.Analyzable() {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, link := range doc.Links {
		if !link.IsZero() {
			q.admit(link)
		}
	}
}

// URLHandled marks link as processed.
func (q *Queue) URLHandled(link linguacrawl.Link) {
	if link.IsZero() {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ledger.markHandled(link.String())
}

// ExportStatus returns the processed set and the live URLs in queue order.
func (q *Queue) ExportStatus() *linguacrawl.Status {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ledger.export(false)
}

// Summarize returns the live and processed counts and up to head upcoming
// entries in queue order.
func (q *Queue) Summarize(head int) linguacrawl.Summary {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ledger.summarize(head)
}

// ImportStatus replaces the queue state with s, keeping the pending order.
// Recorded classes are ignored.
func (q *Queue) ImportStatus(s *linguacrawl.Status) error {
	if err := s.Validate(); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.ledger = newLedger(q.opts)
	for _, raw := range s.Processed {
		link, _ := linguacrawl.NewLink(raw) // validated above
		q.ledger.processed[link.String()] = struct{}{}
	}
	for _, raw := range s.Pending {
		link, _ := linguacrawl.NewLink(raw) // validated above
		q.admit(link)
	}
	return nil
}
