// Package merge implements the Merger primitive: a k-way merge over
// sorted, duplicate-free runs that drops adjacent-equal keys across run
// boundaries, plus a bounded-fan-in reduction driver that collapses an
// arbitrary number of runs down to a small, final-mergeable set.
//
// The k-way merge is a binary-heap tournament over one iterator per run,
// the same shape the retrieval pack's dolthub external sorter uses to
// merge spilled runs (container/heap over a set of file-backed
// iterators) rather than a hand-rolled loser tree; spec note 9 sanctions
// either, and container/heap is the correct vehicle here since no
// off-the-shelf k-way-merge-with-dedup library exists for arbitrary
// fixed-width binary keys.
package merge

import (
	"container/heap"
	"io"
)

// Less reports whether a sorts strictly before b under the caller's
// comparator.
type Less func(a, b []byte) bool

// Run describes one sorted, duplicate-free run of keys previously
// written to a Source: Count keys of a fixed width, starting at Offset.
type Run struct {
	Offset int64
	Count  int64
}

// Source is the random-access read side of the file a merge reads runs
// from. spillfile.File satisfies it structurally.
type Source interface {
	ReadAt(p []byte, off int64) (int, error)
}

// ReadWriter is the file a reduction pass both reads prior runs from and
// appends newly merged runs to. spillfile.File satisfies it
// structurally.
type ReadWriter interface {
	Source
	io.Writer
	Tell() int64
	Flush() error
}

// runIterator reads one run's keys sequentially off a Source.
type runIterator struct {
	src       Source
	width     int
	offset    int64
	remaining int64
	cur       []byte
	err       error
}

func newRunIterator(src Source, width int, run Run) *runIterator {
	return &runIterator{src: src, width: width, offset: run.Offset, remaining: run.Count}
}

// advance loads the next key into cur. It returns false when the run is
// exhausted or a read error occurred (check err).
func (it *runIterator) advance() bool {
	if it.remaining == 0 {
		return false
	}
	buf := make([]byte, it.width)
	n, err := it.src.ReadAt(buf, it.offset)
	if err != nil && err != io.EOF {
		it.err = err
		return false
	}
	if n < it.width {
		it.err = io.ErrUnexpectedEOF
		return false
	}
	it.cur = buf
	it.offset += int64(it.width)
	it.remaining--
	return true
}

// mergeHeap is a min-heap of live run iterators ordered by their current
// key under the caller's comparator.
type mergeHeap struct {
	iters []*runIterator
	less  Less
}

func (h *mergeHeap) Len() int { return len(h.iters) }
func (h *mergeHeap) Less(i, j int) bool {
	return h.less(h.iters[i].cur, h.iters[j].cur)
}
func (h *mergeHeap) Swap(i, j int) { h.iters[i], h.iters[j] = h.iters[j], h.iters[i] }
func (h *mergeHeap) Push(x any)    { h.iters = append(h.iters, x.(*runIterator)) }
func (h *mergeHeap) Pop() any {
	old := h.iters
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	h.iters = old[:n-1]
	return it
}

// KWayMerge merges runs (already sorted and duplicate-free individually)
// read from src, writing the merged sequence to out. When
// dropDuplicates is true, adjacent-equal keys across run boundaries are
// collapsed to a single emitted copy; which source run supplied the
// surviving copy is unspecified. It returns the number of keys written.
func KWayMerge(width int, less Less, src Source, runs []Run, out io.Writer, dropDuplicates bool) (int64, error) {
	if len(runs) == 0 {
		return 0, nil
	}

	h := &mergeHeap{less: less}
	for _, r := range runs {
		if r.Count == 0 {
			continue
		}
		it := newRunIterator(src, width, r)
		if it.advance() {
			h.iters = append(h.iters, it)
		} else if it.err != nil {
			return 0, it.err
		}
	}
	heap.Init(h)

	var emitted int64
	var lastEmitted []byte
	haveLast := false

	for h.Len() > 0 {
		it := h.iters[0]
		key := it.cur

		emit := true
		if dropDuplicates && haveLast && !less(lastEmitted, key) && !less(key, lastEmitted) {
			emit = false
		}
		if emit {
			if _, err := out.Write(key); err != nil {
				return emitted, err
			}
			emitted++
			lastEmitted = append(lastEmitted[:0], key...)
			haveLast = true
		}

		if it.advance() {
			heap.Fix(h, 0)
		} else {
			if it.err != nil {
				return emitted, it.err
			}
			heap.Pop(h)
		}
	}

	return emitted, nil
}

// GroupSizes splits n runs into fan-in-sized groups, walking left to
// right: each group normally holds fanIn runs, except the final group,
// which absorbs the remainder when the remainder would otherwise be
// smaller than fanIn/2 runs — avoiding a pathological trailing straggler
// group. The final group therefore never holds more than
// fanIn + fanIn/2 - 1 runs.
func GroupSizes(n, fanIn int) []int {
	if n <= 0 {
		return nil
	}
	if n <= fanIn {
		return []int{n}
	}

	half := fanIn / 2
	full, remainder := n/fanIn, n%fanIn

	var groups []int
	if remainder == 0 {
		for i := 0; i < full; i++ {
			groups = append(groups, fanIn)
		}
		return groups
	}

	if remainder < half {
		for i := 0; i < full-1; i++ {
			groups = append(groups, fanIn)
		}
		groups = append(groups, fanIn+remainder)
		return groups
	}

	for i := 0; i < full; i++ {
		groups = append(groups, fanIn)
	}
	groups = append(groups, remainder)
	return groups
}

// ReduceMany collapses runs down to at most fanInThreshold runs by
// repeated bounded-fan-in passes: each pass merges runs in groups of
// fanIn (per GroupSizes) and appends the merged result to rw, dropping
// duplicates within each group just as the final merge does. The
// caller is expected to follow a final ReduceMany call with one last
// KWayMerge over the returned runs, writing to the real output sink.
func ReduceMany(width int, less Less, rw ReadWriter, runs []Run, fanIn, fanInThreshold int) ([]Run, error) {
	for len(runs) > fanInThreshold {
		groupSizes := GroupSizes(len(runs), fanIn)
		newRuns := make([]Run, 0, len(groupSizes))

		idx := 0
		for _, gc := range groupSizes {
			group := runs[idx : idx+gc]
			idx += gc

			offset := rw.Tell()
			count, err := KWayMerge(width, less, rw, group, rw, true)
			if err != nil {
				return nil, err
			}
			newRuns = append(newRuns, Run{Offset: offset, Count: count})
		}

		if err := rw.Flush(); err != nil {
			return nil, err
		}
		runs = newRuns
	}
	return runs, nil
}
