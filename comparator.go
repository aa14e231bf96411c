package rowdedup

// Comparator is the caller-supplied total order over fixed-width keys.
// It returns a negative number when a sorts before b, zero when they are
// equal, and a positive number when a sorts after b. ctx is an opaque,
// caller-owned value threaded through unchanged on every call (a
// collation, a column-type descriptor, whatever the comparator needs);
// the Deduper never inspects it.
//
// cmp must be a pure function: given the same a, b, ctx it must always
// return the same sign, and it must define a valid total order (it is
// used both to order a btree.BTreeG and to merge independently-sorted
// runs, and a non-total order would desynchronize the two).
type Comparator func(a, b []byte, ctx any) int

// less adapts the width-aware Comparator into the boolean less-than
// predicates orderedset.Tree and merge.KWayMerge are built around.
func (d *Deduper) less(a, b []byte) bool {
	return d.cfg.Comparator(a, b, d.cfg.Context) < 0
}
