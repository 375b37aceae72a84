package crawl

import (
	"container/heap"
	"slices"

	"github.com/fwojciec/linguacrawl"
)

// heapItem is a live entry together with its position in the heap.
type heapItem struct {
	linguacrawl.Entry
	index int
}

// entryHeap is an addressable min-heap of entries ordered by Entry.Less.
// It implements heap.Interface; use the push, pop, fix and remove helpers
// rather than the interface methods directly.
type entryHeap struct {
	items   []*heapItem
	byURL   map[string]*heapItem
	byClass map[linguacrawl.PriorityClass]int
}

func newEntryHeap() *entryHeap {
	return &entryHeap{
		byURL:   make(map[string]*heapItem),
		byClass: make(map[linguacrawl.PriorityClass]int),
	}
}

func (h *entryHeap) Len() int { return len(h.items) }

func (h *entryHeap) Less(i, j int) bool {
	return h.items[i].Entry.Less(h.items[j].Entry)
}

func (h *entryHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

func (h *entryHeap) Push(x any) {
	item, _ := x.(*heapItem)
	item.index = len(h.items)
	h.items = append(h.items, item)
	h.byURL[item.Link.String()] = item
	h.byClass[item.Class]++
}

func (h *entryHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	h.items = old[:n-1]
	item.index = -1
	delete(h.byURL, item.Link.String())
	h.byClass[item.Class]--
	return item
}

func (h *entryHeap) push(e linguacrawl.Entry) {
	heap.Push(h, &heapItem{Entry: e})
}

func (h *entryHeap) pop() linguacrawl.Entry {
	item, _ := heap.Pop(h).(*heapItem)
	return item.Entry
}

// get returns the live item for a canonical URL.
func (h *entryHeap) get(url string) (*heapItem, bool) {
	item, ok := h.byURL[url]
	return item, ok
}

// reclassify changes the class of a live item and restores heap order.
func (h *entryHeap) reclassify(item *heapItem, class linguacrawl.PriorityClass) {
	h.byClass[item.Class]--
	h.byClass[class]++
	item.Class = class
	heap.Fix(h, item.index)
}

func (h *entryHeap) remove(item *heapItem) {
	heap.Remove(h, item.index)
}

// snapshot copies the live entries in heap array order.
func (h *entryHeap) snapshot() []linguacrawl.Entry {
	entries := make([]linguacrawl.Entry, len(h.items))
	for i, item := range h.items {
		entries[i] = item.Entry
	}
	return entries
}

// sorted copies the live entries best first.
func (h *entryHeap) sorted() []linguacrawl.Entry {
	entries := h.snapshot()
	slices.SortFunc(entries, func(a, b linguacrawl.Entry) int {
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})
	return entries
}

// classCounts copies the number of live entries per class.
func (h *entryHeap) classCounts() map[linguacrawl.PriorityClass]int {
	counts := make(map[linguacrawl.PriorityClass]int, len(h.byClass))
	for class, n := range h.byClass {
		if n > 0 {
			counts[class] = n
		}
	}
	return counts
}

// head returns up to k entries best first. Only the top of the heap is
// visited: a candidate heap of positions starts at the root and grows by
// the children of each position taken.
func (h *entryHeap) head(k int) []linguacrawl.Entry {
	if k <= 0 || len(h.items) == 0 {
		return nil
	}
	out := make([]linguacrawl.Entry, 0, min(k, len(h.items)))
	cand := &positionHeap{items: h.items, pos: []int{0}}
	for len(out) < k && cand.Len() > 0 {
		i, _ := heap.Pop(cand).(int)
		out = append(out, h.items[i].Entry)
		for _, child := range [2]int{2*i + 1, 2*i + 2} {
			if child < len(h.items) {
				heap.Push(cand, child)
			}
		}
	}
	return out
}

// positionHeap orders positions in an entryHeap's backing slice by the
// entries stored there.
type positionHeap struct {
	items []*heapItem
	pos   []int
}

func (p *positionHeap) Len() int { return len(p.pos) }

func (p *positionHeap) Less(i, j int) bool {
	return p.items[p.pos[i]].Entry.Less(p.items[p.pos[j]].Entry)
}

func (p *positionHeap) Swap(i, j int) { p.pos[i], p.pos[j] = p.pos[j], p.pos[i] }

func (p *positionHeap) Push(x any) {
	i, _ := x.(int)
	p.pos = append(p.pos, i)
}

func (p *positionHeap) Pop() any {
	n := len(p.pos)
	i := p.pos[n-1]
	p.pos = p.pos[:n-1]
	return i
}
