package mock

import (
	"iter"

	"github.com/fwojciec/linguacrawl"
)

var _ linguacrawl.Frontier = (*Frontier)(nil)

// Frontier is a mock implementation of linguacrawl.Frontier.
type Frontier struct {
	LenFn               func() int
	ContainsFn          func(link linguacrawl.Link) bool
	AllFn               func() iter.Seq[linguacrawl.Entry]
	AdmitFn             func(link linguacrawl.Link) error
	AdmitManyFn         func(links []linguacrawl.Link) error
	PopNextFn           func() (linguacrawl.Entry, error)
	ExportStatusFn      func() *linguacrawl.Status
	ImportStatusFn      func(s *linguacrawl.Status) error
	DocumentProcessedFn func(doc *linguacrawl.Document)
	URLHandledFn        func(link linguacrawl.Link)
}

func (f *Frontier) Len() int {
	return f.LenFn()
}

func (f *Frontier) Contains(link linguacrawl.Link) bool {
	return f.ContainsFn(link)
}

func (f *Frontier) All() iter.Seq[linguacrawl.Entry] {
	return f.AllFn()
}

func (f *Frontier) Admit(link linguacrawl.Link) error {
	return f.AdmitFn(link)
}

func (f *Frontier) AdmitMany(links []linguacrawl.Link) error {
	return f.AdmitManyFn(links)
}

func (f *Frontier) PopNext() (linguacrawl.Entry, error) {
	return f.PopNextFn()
}

func (f *Frontier) ExportStatus() *linguacrawl.Status {
	return f.ExportStatusFn()
}

func (f *Frontier) ImportStatus(s *linguacrawl.Status) error {
	return f.ImportStatusFn(s)
}

func (f *Frontier) DocumentProcessed(doc *linguacrawl.Document) {
	f.DocumentProcessedFn(doc)
}

func (f *Frontier) URLHandled(link linguacrawl.Link) {
	f.URLHandledFn(link)
}
