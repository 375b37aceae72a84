package crawl

import (
	"iter"
	"slices"

	"github.com/fwojciec/linguacrawl"
	"github.com/fwojciec/linguacrawl/bloom"
)

// urlSet records URLs that have ever been admitted.
type urlSet interface {
	Add(url string)
	Has(url string) bool
}

type exactSet map[string]struct{}

func (s exactSet) Add(url string) { s[url] = struct{}{} }

func (s exactSet) Has(url string) bool {
	_, ok := s[url]
	return ok
}

// Option configures a frontier.
type Option func(*options)

type options struct {
	newSeen func() urlSet
}

// WithBloomSeen replaces the exact seen-set with a Bloom filter sized for n
// URLs at false positive rate fpRate. Memory stays bounded on very large
// crawls at the cost of occasionally dropping a never-seen URL.
// The processed set is always exact.
func WithBloomSeen(n uint, fpRate float64) Option {
	return func(o *options) {
		o.newSeen = func() urlSet { return bloom.NewSeenSet(n, fpRate) }
	}
}

func buildOptions(opts []Option) options {
	o := options{
		newSeen: func() urlSet { return make(exactSet) },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ledger holds the live heap and the dedup bookkeeping shared by both
// frontier variants. Callers must hold the owning frontier's lock.
type ledger struct {
	heap      *entryHeap
	seen      urlSet
	processed map[string]struct{}
	counter   uint64
}

func newLedger(o options) *ledger {
	return &ledger{
		heap:      newEntryHeap(),
		seen:      o.newSeen(),
		processed: make(map[string]struct{}),
	}
}

func (l *ledger) isProcessed(url string) bool {
	_, ok := l.processed[url]
	return ok
}

// insert queues link with a fresh sequence number.
func (l *ledger) insert(link linguacrawl.Link, class linguacrawl.PriorityClass) {
	l.counter++
	l.heap.push(linguacrawl.Entry{Class: class, Seq: l.counter, Link: link})
	l.seen.Add(link.String())
}

func (l *ledger) popNext() (linguacrawl.Entry, error) {
	if l.heap.Len() == 0 {
		return linguacrawl.Entry{}, linguacrawl.Errorf(linguacrawl.EEMPTY, "frontier is empty")
	}
	return l.heap.pop(), nil
}

// markHandled records url as processed and drops any live entry for it.
func (l *ledger) markHandled(url string) {
	l.processed[url] = struct{}{}
	if item, ok := l.heap.get(url); ok {
		l.heap.remove(item)
	}
}

func (l *ledger) lookup(url string) (linguacrawl.Entry, bool) {
	item, ok := l.heap.get(url)
	if !ok {
		return linguacrawl.Entry{}, false
	}
	return item.Entry, true
}

// export builds a snapshot. Classes are recorded only when withClasses is set.
func (l *ledger) export(withClasses bool) *linguacrawl.Status {
	s := &linguacrawl.Status{
		Processed: make([]string, 0, len(l.processed)),
		Pending:   make([]string, 0, l.heap.Len()),
	}
	for url := range l.processed {
		s.Processed = append(s.Processed, url)
	}
	slices.Sort(s.Processed)

	for _, e := range l.heap.sorted() {
		s.Pending = append(s.Pending, e.Link.String())
		if withClasses {
			s.PendingClasses = append(s.PendingClasses, e.Class)
		}
	}
	return s
}

func (l *ledger) summarize(head int) linguacrawl.Summary {
	return linguacrawl.Summary{
		Live:      l.heap.Len(),
		Processed: len(l.processed),
		ByClass:   l.heap.classCounts(),
		Next:      l.heap.head(head),
	}
}

// iterate returns a sequence over a snapshot of the live entries taken when
// iteration starts, so callers may use the frontier while ranging.
func iterate(snapshot func() []linguacrawl.Entry) iter.Seq[linguacrawl.Entry] {
	return func(yield func(linguacrawl.Entry) bool) {
		for _, e := range snapshot() {
			if !yield(e) {
				return
			}
		}
	}
}

func validLink(link linguacrawl.Link) error {
	if link.IsZero() {
		return linguacrawl.Errorf(linguacrawl.EINVALID, "link required")
	}
	return nil
}
