package rowdedup

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every error rowdedup can return, per the five
// kinds the core's error contract names: allocation failure, spill I/O
// failure, merge I/O/comparator failure, an out-of-order call, and a
// bad constructor argument.
//
// No third-party error-wrapping library is used here: the teacher's own
// internal/ packages wrap errors with plain fmt.Errorf("...: %w", err)
// throughout (transaction.go, tree.go), and Go's stdlib %w verb already
// gives callers errors.Is/errors.As against the sentinels below, so
// there is nothing a library like github.com/pkg/errors would add.
type ErrorKind int

const (
	AllocationFailure ErrorKind = iota
	SpillWriteFailure
	MergeFailure
	InvalidPhase
	InvalidArgument
)

func (k ErrorKind) String() string {
	switch k {
	case AllocationFailure:
		return "allocation failure"
	case SpillWriteFailure:
		return "spill write failure"
	case MergeFailure:
		return "merge failure"
	case InvalidPhase:
		return "invalid phase"
	case InvalidArgument:
		return "invalid argument"
	default:
		return "unknown error"
	}
}

// Error is the typed error every rowdedup call fails with. Kind is
// always set; Err carries the underlying cause when one exists (an OS
// error, a sink error) or a sentinel describing a contract violation.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rowdedup: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapErr(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

var (
	// ErrAlreadyExtracted is wrapped as InvalidPhase when Put or
	// ExtractInto is called after a successful ExtractInto.
	ErrAlreadyExtracted = errors.New("deduper already extracted")
	// ErrPoisoned is wrapped as InvalidPhase when Put or ExtractInto is
	// called after a failed extraction.
	ErrPoisoned = errors.New("deduper poisoned by a prior extraction failure")
	// ErrWrongKeyWidth is wrapped as InvalidArgument when Put is given a
	// key whose length does not equal the configured width.
	ErrWrongKeyWidth = errors.New("key length does not match configured width")
	// ErrStreamSinkRequired is wrapped as InvalidArgument when the slow
	// extraction path is reached with a sink that does not implement
	// StreamSink.
	ErrStreamSinkRequired = errors.New("extraction requires a StreamSink once any run has spilled")
	// ErrComparatorRequired is wrapped as InvalidArgument when Config.Comparator is nil.
	ErrComparatorRequired = errors.New("config comparator must not be nil")
	// ErrMemBudgetTooSmall is wrapped as InvalidArgument when MemBudget
	// cannot hold even one key plus its ordered-set overhead.
	ErrMemBudgetTooSmall = errors.New("mem budget too small to hold one key plus node overhead")
)
