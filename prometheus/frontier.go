// Package prometheus exposes frontier activity as Prometheus metrics.
package prometheus

import (
	"iter"

	"github.com/fwojciec/linguacrawl"
	"github.com/prometheus/client_golang/prometheus"
)

// Ensure Frontier implements linguacrawl.Frontier.
var _ linguacrawl.Frontier = (*Frontier)(nil)

// unknownLanguage labels documents whose language was not identified.
const unknownLanguage = "unknown"

// Frontier wraps a Frontier and records admissions, pops and document
// languages on a registry supplied by the caller.
type Frontier struct {
	next linguacrawl.Frontier

	live      prometheus.Gauge
	admitted  *prometheus.CounterVec
	popped    *prometheus.CounterVec
	documents *prometheus.CounterVec
}

// NewFrontier wraps next and registers its collectors on reg.
func NewFrontier(next linguacrawl.Frontier, reg prometheus.Registerer) (*Frontier, error) {
	f := &Frontier{
		next: next,
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "linguacrawl_frontier_live",
			Help: "Number of live URLs waiting in the frontier.",
		}),
		admitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linguacrawl_frontier_admitted_total",
			Help: "URLs that became live, labeled by priority class.",
		}, []string{"class"}),
		popped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linguacrawl_frontier_popped_total",
			Help: "URLs served by the frontier, labeled by priority class.",
		}, []string{"class"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linguacrawl_documents_total",
			Help: "Analyzable documents fed back to the frontier, labeled by language.",
		}, []string{"language"}),
	}
	for _, c := range []prometheus.Collector{f.live, f.admitted, f.popped, f.documents} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	// Pre-create class series so dashboards see zeros instead of gaps.
	for _, c := range []linguacrawl.PriorityClass{linguacrawl.ClassTarget, linguacrawl.ClassUnknown, linguacrawl.ClassOffTarget} {
		f.admitted.WithLabelValues(c.String())
		f.popped.WithLabelValues(c.String())
	}
	f.live.Set(float64(next.Len()))
	return f, nil
}

func (f *Frontier) Len() int { return f.next.Len() }

func (f *Frontier) Contains(link linguacrawl.Link) bool { return f.next.Contains(link) }

func (f *Frontier) All() iter.Seq[linguacrawl.Entry] { return f.next.All() }

// Admit delegates to the wrapped frontier and counts the link if it became live.
func (f *Frontier) Admit(link linguacrawl.Link) error {
	wasLive := f.next.Contains(link)
	if err := f.next.Admit(link); err != nil {
		return err
	}
	if !wasLive {
		f.countAdmitted([]linguacrawl.Link{link})
	}
	f.sync()
	return nil
}

// AdmitMany delegates to the wrapped frontier and counts the links that
// became live.
func (f *Frontier) AdmitMany(links []linguacrawl.Link) error {
	fresh := f.notLive(links)
	err := f.next.AdmitMany(links)
	f.countAdmitted(fresh)
	f.sync()
	return err
}

// PopNext delegates to the wrapped frontier and counts the entry by class.
func (f *Frontier) PopNext() (linguacrawl.Entry, error) {
	e, err := f.next.PopNext()
	if err != nil {
		return e, err
	}
	f.popped.WithLabelValues(e.Class.String()).Inc()
	f.sync()
	return e, nil
}

// DocumentProcessed counts the document's language and counts the outgoing
// links that became live.
func (f *Frontier) DocumentProcessed(doc *linguacrawl.Document) {
	if !doc.Analyzable() {
		f.next.DocumentProcessed(doc)
		return
	}
	fresh := f.notLive(doc.Links)
	f.next.DocumentProcessed(doc)

	lang := doc.Language
	if lang == "" {
		lang = unknownLanguage
	}
	f.documents.WithLabelValues(lang).Inc()
	f.countAdmitted(fresh)
	f.sync()
}

func (f *Frontier) URLHandled(link linguacrawl.Link) {
	f.next.URLHandled(link)
	f.sync()
}

func (f *Frontier) ExportStatus() *linguacrawl.Status { return f.next.ExportStatus() }

// ImportStatus delegates to the wrapped frontier and resets the live gauge.
func (f *Frontier) ImportStatus(s *linguacrawl.Status) error {
	err := f.next.ImportStatus(s)
	f.sync()
	return err
}

// notLive returns the links that are not live before an admission.
func (f *Frontier) notLive(links []linguacrawl.Link) []linguacrawl.Link {
	var out []linguacrawl.Link
	for _, l := range links {
		if !l.IsZero() && !f.next.Contains(l) {
			out = append(out, l)
		}
	}
	return out
}

// lookuper is implemented by frontiers that can report a live entry without
// a full scan.
type lookuper interface {
	Lookup(link linguacrawl.Link) (linguacrawl.Entry, bool)
}

// countAdmitted counts, by their class after admission, the candidates that
// are now live.
func (f *Frontier) countAdmitted(candidates []linguacrawl.Link) {
	if len(candidates) == 0 {
		return
	}
	if lk, ok := f.next.(lookuper); ok {
		for _, l := range candidates {
			if e, ok := lk.Lookup(l); ok {
				f.admitted.WithLabelValues(e.Class.String()).Inc()
			}
		}
		return
	}
	want := make(map[linguacrawl.Link]struct{}, len(candidates))
	for _, l := range candidates {
		want[l] = struct{}{}
	}
	for e := range f.next.All() {
		if _, ok := want[e.Link]; ok {
			f.admitted.WithLabelValues(e.Class.String()).Inc()
			delete(want, e.Link)
		}
	}
}

func (f *Frontier) sync() {
	f.live.Set(float64(f.next.Len()))
}
