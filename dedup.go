// Package rowdedup implements a bounded-memory duplicate-eliminating set
// for fixed-width row-identifier keys: a Deduper accumulates keys under a
// caller-supplied total order, spilling to disk when its in-memory
// budget is exhausted, then extracts the unique keys in sorted order
// through an external merge. It is meant to sit inside a relational
// execution engine's multi-table delete path, ahead of the pass that
// actually deletes rows, so that row identifiers are visited in an order
// that minimises random I/O.
package rowdedup

import (
	"rowdedup/merge"
	"rowdedup/orderedset"
	"rowdedup/spillfile"
)

type phase int

const (
	phaseAccumulating phase = iota
	phaseExtracted
	phasePoisoned
)

// Deduper is the façade tying the ordered in-memory set, the spill file,
// the run directory and the merge driver together. It is single
// threaded and not reentrant: every method assumes exclusive ownership
// by one caller for the Deduper's whole lifetime.
type Deduper struct {
	cfg  Config
	kMax int64

	tree *orderedset.Tree
	file *spillfile.File
	runs []merge.Run

	spilledCount int64
	phase        phase
}

// New constructs a Deduper. It opens the spill file immediately against
// cfg.Temp, eagerly rather than waiting for the first spill, since the
// file must exist under a stable name for the Deduper's whole lifetime.
func New(cfg Config) (*Deduper, error) {
	if cfg.Width <= 0 {
		return nil, wrapErr(InvalidArgument, ErrWrongKeyWidth)
	}
	if cfg.Comparator == nil {
		return nil, wrapErr(InvalidArgument, ErrComparatorRequired)
	}
	kMax := cfg.MemBudget / (int64(cfg.Width) + orderedset.NodeOverhead)
	if kMax <= 0 {
		return nil, wrapErr(InvalidArgument, ErrMemBudgetTooSmall)
	}

	d := &Deduper{cfg: cfg, kMax: kMax, phase: phaseAccumulating}
	d.tree = orderedset.New(d.less)

	f, err := spillfile.Open(cfg.Temp.Dir, cfg.Temp.Prefix)
	if err != nil {
		return nil, wrapErr(SpillWriteFailure, err)
	}
	d.file = f

	return d, nil
}

// Put inserts a width-byte key into the logical set. Inserting a key
// equal (under the comparator) to one already present is a no-op: the
// ordered set absorbs it and the Deduper's memory footprint does not
// grow.
func (d *Deduper) Put(key []byte) error {
	if err := d.requireAccumulating(); err != nil {
		return err
	}
	if len(key) != d.cfg.Width {
		return wrapErr(InvalidArgument, ErrWrongKeyWidth)
	}

	if int64(d.tree.Size()) >= d.kMax {
		if err := d.spill(); err != nil {
			return err
		}
	}

	d.tree.Insert(key)
	return nil
}

// spill writes the current tree to the spill file as one sorted run and
// clears it. It is a no-op if the tree is empty. A run descriptor is
// only appended once the walk and the flush both succeed, so an aborted
// spill never leaves a partial run visible to the merge driver.
func (d *Deduper) spill() error {
	if d.tree.Size() == 0 {
		return nil
	}

	offset := d.file.Tell()
	var count int64
	var writeErr error
	d.tree.WalkInOrder(func(key []byte) bool {
		if _, err := d.file.Write(key); err != nil {
			writeErr = err
			return false
		}
		count++
		return true
	})
	if writeErr != nil {
		return wrapErr(SpillWriteFailure, writeErr)
	}
	if err := d.file.Flush(); err != nil {
		return wrapErr(SpillWriteFailure, err)
	}

	d.runs = append(d.runs, merge.Run{Offset: offset, Count: count})
	d.spilledCount += count
	d.tree.Clear()
	return nil
}

// ExtractInto finalises the set and emits sorted, duplicate-free keys
// to sink, transitioning the Deduper to Extracted on success or
// Poisoned when the chosen extraction path fails. A sink that does not
// implement StreamSink when the slow path is needed is rejected with
// InvalidArgument and leaves the Deduper Accumulating. Once it has
// succeeded, ExtractInto cannot be called again.
//
// The fast path (no runs spilled, sink implements BufferSink) builds one
// contiguous output buffer directly from the in-memory tree. Every other
// case — at least one spill occurred, cfg.ForceSlowPath is set, or sink
// does not implement BufferSink — takes the slow path: flush the
// residual tree as a final run, reduce all runs to a small number via
// bounded fan-in passes, then k-way merge the remainder into the sink's
// stream, dropping adjacent-equal keys across run boundaries.
func (d *Deduper) ExtractInto(sink Sink) error {
	if err := d.requireAccumulating(); err != nil {
		return err
	}

	if len(d.runs) == 0 && !d.cfg.ForceSlowPath {
		if bs, ok := sink.(BufferSink); ok {
			if err := d.extractFastPath(bs); err != nil {
				d.phase = phasePoisoned
				return err
			}
			d.phase = phaseExtracted
			return nil
		}
	}

	ss, ok := sink.(StreamSink)
	if !ok {
		return wrapErr(InvalidArgument, ErrStreamSinkRequired)
	}
	if err := d.extractSlowPath(ss); err != nil {
		d.phase = phasePoisoned
		return err
	}
	d.phase = phaseExtracted
	return nil
}

func (d *Deduper) extractFastPath(sink BufferSink) error {
	buf := make([]byte, d.cfg.Width*d.tree.Size())
	i := 0
	d.tree.WalkInOrder(func(key []byte) bool {
		copy(buf[i*d.cfg.Width:], key)
		i++
		return true
	})
	if err := sink.AcceptBuffer(buf, d.cfg.Width); err != nil {
		return wrapErr(MergeFailure, err)
	}
	return nil
}

func (d *Deduper) extractSlowPath(sink StreamSink) error {
	if err := d.spill(); err != nil {
		return err
	}

	if len(d.runs) == 0 {
		if err := sink.Finalize(); err != nil {
			return wrapErr(MergeFailure, err)
		}
		return nil
	}

	if err := d.file.FlushAndSwitchToRead(); err != nil {
		return wrapErr(MergeFailure, err)
	}

	reduced, err := merge.ReduceMany(d.cfg.Width, d.less, d.file, d.runs, d.cfg.fanIn(), d.cfg.fanInThreshold())
	if err != nil {
		return wrapErr(MergeFailure, err)
	}
	d.runs = reduced

	if _, err := merge.KWayMerge(d.cfg.Width, d.less, d.file, d.runs, sink.Writer(), true); err != nil {
		return wrapErr(MergeFailure, err)
	}

	if err := sink.Finalize(); err != nil {
		return wrapErr(MergeFailure, err)
	}
	return nil
}

// Close releases the tree, closes and unlinks the spill file. It is
// safe to call in any phase, including after Poisoned, and is the only
// valid operation once the Deduper is Poisoned or Extracted.
func (d *Deduper) Close() error {
	d.tree = nil
	if d.file == nil {
		return nil
	}
	err := d.file.CloseAndUnlink()
	d.file = nil
	if err != nil {
		return wrapErr(SpillWriteFailure, err)
	}
	return nil
}

// requireAccumulating reports an InvalidPhase error unless the Deduper is
// still Accumulating; both Put and ExtractInto require that.
func (d *Deduper) requireAccumulating() error {
	switch d.phase {
	case phaseExtracted:
		return wrapErr(InvalidPhase, ErrAlreadyExtracted)
	case phasePoisoned:
		return wrapErr(InvalidPhase, ErrPoisoned)
	default:
		return nil
	}
}
