// Package orderedset is the in-memory ordered container the Deduper spills
// out of once it hits its memory ceiling. It wraps google/btree the same
// way the rest of the retrieval pack does for in-memory ordered sets,
// instead of the teacher's on-disk, paged B+Tree (internal/btree), which
// solves a different problem: persistent page layout, not a pure
// in-memory ordered set with an O(1) live-count.
package orderedset

import (
	"github.com/google/btree"
)

// NodeOverhead is the estimated per-key bookkeeping cost (pointer slots,
// btree node fan-out slack) charged against the memory budget alongside
// the key's own width. It is a constant approximation, not a measurement
// of any particular btree.BTreeG build; callers that need a tighter bound
// should fold their own overhead into the memory budget before calling
// New.
const NodeOverhead = 48

// btreeDegree controls google/btree's node fan-out. 32 keeps node splits
// infrequent for the key counts this package expects (a handful to a few
// hundred thousand live keys before a spill clears the tree).
const btreeDegree = 32

// Less reports whether a sorts strictly before b. It must implement a
// total order; equal keys satisfy !Less(a,b) && !Less(b,a).
type Less func(a, b []byte) bool

// InsertResult classifies the outcome of Insert.
type InsertResult int

const (
	Inserted InsertResult = iota
	AlreadyPresent
)

// Tree is a comparator-ordered, duplicate-absorbing in-memory set of
// fixed-width byte keys.
type Tree struct {
	bt   *btree.BTreeG[[]byte]
	less Less
}

// New creates an empty ordered set using less as the total order.
func New(less Less) *Tree {
	return &Tree{
		bt:   btree.NewG(btreeDegree, less),
		less: less,
	}
}

// Insert copies key into the set. If an equal key is already present
// (under less), it is replaced in place and the set's size does not
// change; otherwise the set grows by one.
func (t *Tree) Insert(key []byte) InsertResult {
	owned := append([]byte(nil), key...)
	_, existed := t.bt.ReplaceOrInsert(owned)
	if existed {
		return AlreadyPresent
	}
	return Inserted
}

// Size returns the number of live keys currently held.
func (t *Tree) Size() int {
	return t.bt.Len()
}

// WalkInOrder visits every key in ascending order. The visitor must not
// retain the slice it is given beyond the call; Tree owns the backing
// array.
func (t *Tree) WalkInOrder(visit func(key []byte) bool) {
	t.bt.Ascend(func(item []byte) bool {
		return visit(item)
	})
}

// Clear empties the set. Its nodes are not kept on the btree's freelist;
// they are left to the garbage collector.
func (t *Tree) Clear() {
	t.bt.Clear(false)
}
