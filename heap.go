package tinyvecdb

import (
	"container/heap"
	"sort"
)

// scoredID is one (similarity, id) candidate tracked by the top-k heap.
// metadata is carried along so the heap doubles as the result
// buffer — the query engine never re-reads a record after scoring it.
type scoredID struct {
	similarity float32
	id         uint32
	metadata   []byte
}

// topKHeap is a bounded min-heap of capacity k: the smallest similarity
// sits at the root so a new candidate can be compared against it in
// O(log k). Ties are broken by id (ascending) so draining it produces a
// deterministic order (spec.md §4.4/§8).
type topKHeap struct {
	items []scoredID
	k     int
}

func newTopKHeap(k int) *topKHeap {
	h := &topKHeap{k: k}
	heap.Init(h)
	return h
}

// Offer adds a candidate if there is room, or if it beats the current
// minimum; otherwise it is dropped. Returns true if it entered the heap.
func (h *topKHeap) Offer(c scoredID) bool {
	if h.k <= 0 {
		return false
	}
	if len(h.items) < h.k {
		heap.Push(h, c)
		return true
	}
	if less(h.items[0], c) {
		heap.Pop(h)
		heap.Push(h, c)
		return true
	}
	return false
}

// less reports whether a should be evicted before b: a has the smaller
// similarity, or equal similarity and the larger id (since results are
// ultimately ordered by similarity desc, id asc — the heap root should
// be the "worst" candidate by that ordering).
func less(a, b scoredID) bool {
	if a.similarity != b.similarity {
		return a.similarity < b.similarity
	}
	return a.id > b.id
}

// Drain empties the heap into a slice ordered by descending similarity,
// ascending id as tiebreaker.
func (h *topKHeap) Drain() []scoredID {
	out := make([]scoredID, len(h.items))
	for i := len(h.items) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(scoredID)
	}
	// out is now ascending by the heap's "worst first" order reversed;
	// sort explicitly for determinism against equal-similarity runs.
	sort.Slice(out, func(i, j int) bool { return scoredLess(out[i], out[j]) })
	return out
}

// container/heap.Interface

func (h *topKHeap) Len() int            { return len(h.items) }
func (h *topKHeap) Less(i, j int) bool  { return less(h.items[i], h.items[j]) }
func (h *topKHeap) Swap(i, j int)       { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *topKHeap) Push(x interface{})  { h.items = append(h.items, x.(scoredID)) }
func (h *topKHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// scoredLess orders the final result list: similarity descending, id
// ascending on ties.
func scoredLess(a, b scoredID) bool {
	if a.similarity != b.similarity {
		return a.similarity > b.similarity
	}
	return a.id < b.id
}
