package linguacrawl

import (
	"iter"
	"strconv"
)

// PriorityClass is the coarse crawl priority of a queued URL.
// Lower values are fetched first.
type PriorityClass int

// Priority classes, best first.
const (
	// ClassTarget marks links found on a page in a target language.
	ClassTarget PriorityClass = 1
	// ClassUnknown marks links with no language evidence.
	ClassUnknown PriorityClass = 2
	// ClassOffTarget marks links found on a page in a known non-target language.
	ClassOffTarget PriorityClass = 3
)

// Valid reports whether c is one of the defined classes.
func (c PriorityClass) Valid() bool {
	return c >= ClassTarget && c <= ClassOffTarget
}

// String returns a short label used in logs and metrics.
func (c PriorityClass) String() string {
	switch c {
	case ClassTarget:
		return "target"
	case ClassUnknown:
		return "unknown"
	case ClassOffTarget:
		return "off_target"
	default:
		return "class(" + strconv.Itoa(int(c)) + ")"
	}
}

// Entry is a queued link with its priority class and admission sequence number.
type Entry struct {
	Class PriorityClass
	Seq   uint64
	Link  Link
}

// Less orders entries by class, then by admission order.
func (e Entry) Less(other Entry) bool {
	if e.Class != other.Class {
		return e.Class < other.Class
	}
	return e.Seq < other.Seq
}

// Frontier schedules URLs for crawling.
//
// Admitting a duplicate or an already handled URL is a silent no-op.
// Implementations must be safe for use by a single coordinator goroutine
// concurrently with read-only inspection.
type Frontier interface {
	// Len returns the number of live (not yet popped) entries.
	Len() int

	// Contains reports whether link is currently live.
	Contains(link Link) bool

	// All iterates over the live entries in an unspecified but consistent order.
	All() iter.Seq[Entry]

	// Admit queues link if the admission policy allows it.
	// Returns EINVALID for a zero Link.
	Admit(link Link) error

	// AdmitMany admits links in order.
	AdmitMany(links []Link) error

	// PopNext removes and returns the best live entry.
	// Returns EEMPTY if the frontier is empty.
	PopNext() (Entry, error)

	// ExportStatus returns a snapshot sufficient to rebuild the frontier.
	ExportStatus() *Status

	// ImportStatus restores a snapshot. Returns ECORRUPT if it is invalid.
	ImportStatus(s *Status) error

	// DocumentProcessed feeds analysis results back into the frontier.
	// A nil document is a no-op.
	DocumentProcessed(doc *Document)

	// URLHandled marks link as fully processed so it is never queued again.
	URLHandled(link Link)
}

// Summary is a bounded view of a frontier.
type Summary struct {
	Live      int
	Processed int
	ByClass   map[PriorityClass]int

	// Next holds up to the requested number of live entries, best first.
	Next []Entry
}

// Summarizer reports a Summary without copying the whole frontier, so it
// may be called while a crawl is running.
type Summarizer interface {
	Summarize(head int) Summary
}
