// Package bloom implements the frontier's approximate seen-URL set.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// SeenSet remembers admitted URLs in bounded memory. Has may report a URL
// that was never added; it never misses one that was.
// SeenSet is not safe for concurrent use.
type SeenSet struct {
	f *bloom.BloomFilter
}

// NewSeenSet sizes the set for capacity URLs at false positive rate fpRate.
func NewSeenSet(capacity uint, fpRate float64) *SeenSet {
	return &SeenSet{f: bloom.NewWithEstimates(capacity, fpRate)}
}

func (s *SeenSet) Add(url string) {
	s.f.AddString(url)
}

func (s *SeenSet) Has(url string) bool {
	return s.f.TestString(url)
}
