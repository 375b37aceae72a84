package crawl

import (
	"iter"
	"sync"

	"github.com/fwojciec/linguacrawl"
)

// Compile-time interface verification.
var (
	_ linguacrawl.Frontier   = (*Frontier)(nil)
	_ linguacrawl.Summarizer = (*Frontier)(nil)
)

// Frontier is a language-aware URL frontier.
//
// Links found on pages in a target language are fetched first, links with no
// language evidence next, and links found on pages in other languages last.
// Within a class links are served in discovery order.
//
// The first classification a link receives from document feedback is sticky.
// A link admitted without evidence may be upgraded or downgraded once, in
// place, when a document later links to it.
//
// Frontier is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu        sync.Mutex
	opts      options
	languages linguacrawl.LanguageSet
	ledger    *ledger
	hints     map[string]linguacrawl.PriorityClass
	noUpdate  map[string]struct{}
}

// NewFrontier creates a Frontier for the given target languages.
// Returns ECONFIG if languages is empty.
func NewFrontier(languages linguacrawl.LanguageSet, opts ...Option) (*Frontier, error) {
	if len(languages) == 0 {
		return nil, linguacrawl.Errorf(linguacrawl.ECONFIG, "at least one target language required")
	}
	f := &Frontier{
		opts:      buildOptions(opts),
		languages: languages,
	}
	f.reset()
	return f, nil
}

func (f *Frontier) reset() {
	f.ledger = newLedger(f.opts)
	f.hints = make(map[string]linguacrawl.PriorityClass)
	f.noUpdate = make(map[string]struct{})
}

// Len returns the number of live entries.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.heap.Len()
}

// Contains reports whether link is live.
func (f *Frontier) Contains(link linguacrawl.Link) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.ledger.heap.get(link.String())
	return ok
}

// All iterates over the live entries in heap order.
func (f *Frontier) All() iter.Seq[linguacrawl.Entry] {
	return iterate(func() []linguacrawl.Entry {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.ledger.heap.snapshot()
	})
}

// Lookup returns the live entry for link.
func (f *Frontier) Lookup(link linguacrawl.Link) (linguacrawl.Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.lookup(link.String())
}

// Hint returns the class most recently assigned to link by document feedback.
func (f *Frontier) Hint(link linguacrawl.Link) (linguacrawl.PriorityClass, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.hints[link.String()]
	return c, ok
}

// Admit queues link unless it was already handled or is a duplicate with
// no new evidence.
func (f *Frontier) Admit(link linguacrawl.Link) error {
	if err := validLink(link); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admit(link)
	return nil
}

// AdmitMany admits links in order. It validates every link before
// admitting any of them.
func (f *Frontier) AdmitMany(links []linguacrawl.Link) error {
	for _, link := range links {
		if err := validLink(link); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, link := range links {
		f.admit(link)
	}
	return nil
}

// admit applies the admission policy. Must be called with mu held.
func (f *Frontier) admit(link linguacrawl.Link) {
	url := link.String()
	if f.ledger.isProcessed(url) {
		return
	}

	hinted, hasHint := f.hints[url]
	alreadySeen := f.ledger.seen.Has(url)
	_, locked := f.noUpdate[url]
	eligibleForUpdate := alreadySeen && hasHint && !locked

	if alreadySeen && !eligibleForUpdate {
		return
	}

	class := linguacrawl.ClassUnknown
	if hasHint {
		class = hinted
	}

	if eligibleForUpdate {
		// Re-prioritize in place. A seen link that is no longer live is
		// in flight with the driver and must not be queued twice.
		if item, ok := f.ledger.heap.get(url); ok && item.Class != class {
			f.ledger.heap.reclassify(item, class)
		}
		return
	}

	f.ledger.insert(link, class)
}

// PopNext removes and returns the best live entry.
func (f *Frontier) PopNext() (linguacrawl.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.popNext()
}

// DocumentProcessed classifies the document's outgoing links by the
// document's language and admits them.
func (f *Frontier) DocumentProcessed(doc *linguacrawl.Document) {
	if !doc.Analyzable() {
		return
	}

	childClass := linguacrawl.ClassOffTarget
	if f.languages.Contains(doc.Language) {
		childClass = linguacrawl.ClassTarget
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, link := range doc.Links {
		if link.IsZero() {
			continue
		}
		url := link.String()
		if _, locked := f.noUpdate[url]; !locked {
			f.hints[url] = childClass
		}
		f.admit(link)
		f.noUpdate[url] = struct{}{}
	}
}

// URLHandled marks link as processed.
func (f *Frontier) URLHandled(link linguacrawl.Link) {
	if link.IsZero() {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ledger.markHandled(link.String())
}

// ExportStatus returns the processed set and the live URLs best first,
// together with each live URL's class.
func (f *Frontier) ExportStatus() *linguacrawl.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.export(true)
}

// Summarize returns the live and processed counts and up to head upcoming
// entries. It does not copy or sort the heap.
func (f *Frontier) Summarize(head int) linguacrawl.Summary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.summarize(head)
}

// ImportStatus replaces the frontier state with s.
//
// Pending URLs are re-admitted in snapshot order. A URL restored with a
// target or off-target class keeps it and stays sticky; a URL restored with
// the unknown class may still be reclassified by later feedback.
func (f *Frontier) ImportStatus(s *linguacrawl.Status) error {
	if err := s.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.reset()
	for _, raw := range s.Processed {
		link, _ := linguacrawl.NewLink(raw) // validated above
		f.ledger.processed[link.String()] = struct{}{}
	}
	for i, raw := range s.Pending {
		link, _ := linguacrawl.NewLink(raw) // validated above
		url := link.String()
		if class := s.PendingClass(i); class != linguacrawl.ClassUnknown {
			f.hints[url] = class
			f.noUpdate[url] = struct{}{}
		}
		f.admit(link)
	}
	return nil
}
