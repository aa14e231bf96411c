package rowdedup

import (
	"bytes"
	"io"
)

// Sink is the marker interface ExtractInto accepts. A concrete sink
// implements BufferSink, StreamSink, or both; ExtractInto type-asserts
// to pick the fast or slow path at run time, following the teacher's
// preference for small, narrowly-scoped interfaces (transaction.go's
// TreeInterface) over one large sum-typed parameter.
type Sink interface {
	isSink()
}

// BufferSink is the fast-path sink: ExtractInto hands it one
// heap-allocated buffer holding n*width bytes of sorted, unique keys
// back to back. The sink takes ownership of buf; it must not be reused
// by the Deduper afterward, and ExtractInto never touches it again.
type BufferSink interface {
	Sink
	AcceptBuffer(buf []byte, width int) error
}

// StreamSink is the slow-path sink: the merger writes sorted, unique
// keys to Writer() as they're emitted, then Finalize is called once to
// flush and switch the sink from accepting writes to being iterable by
// the caller.
type StreamSink interface {
	Sink
	Writer() io.Writer
	Finalize() error
}

// MemoryBufferSink is a reference BufferSink that simply retains the
// buffer it is handed. Len and At let a caller iterate the result
// without knowing the width up front.
type MemoryBufferSink struct {
	width int
	buf   []byte
}

func (s *MemoryBufferSink) isSink() {}

func (s *MemoryBufferSink) AcceptBuffer(buf []byte, width int) error {
	s.buf = buf
	s.width = width
	return nil
}

// Len returns the number of keys the sink received.
func (s *MemoryBufferSink) Len() int {
	if s.width == 0 {
		return 0
	}
	return len(s.buf) / s.width
}

// At returns the i'th key in sorted order.
func (s *MemoryBufferSink) At(i int) []byte {
	return s.buf[i*s.width : (i+1)*s.width]
}

// MemoryStreamSink is a reference StreamSink backed by an in-memory
// buffer. It is the natural stand-in for tests and the demo command,
// where a real engine would instead hand the merger a sink wired to its
// own result-set buffer or wire protocol.
type MemoryStreamSink struct {
	width     int
	buf       bytes.Buffer
	final     []byte
	finalized bool
}

// NewMemoryStreamSink creates a stream sink for width-byte keys.
func NewMemoryStreamSink(width int) *MemoryStreamSink {
	return &MemoryStreamSink{width: width}
}

func (s *MemoryStreamSink) isSink() {}

func (s *MemoryStreamSink) Writer() io.Writer { return &s.buf }

// Finalize switches the sink from accept-writes mode into the read
// cache a caller iterates via Len/At.
func (s *MemoryStreamSink) Finalize() error {
	s.final = append([]byte(nil), s.buf.Bytes()...)
	s.finalized = true
	return nil
}

// Len returns the number of keys finalized. It is zero until Finalize
// has been called.
func (s *MemoryStreamSink) Len() int {
	if !s.finalized || s.width == 0 {
		return 0
	}
	return len(s.final) / s.width
}

// At returns the i'th key in sorted order.
func (s *MemoryStreamSink) At(i int) []byte {
	return s.final[i*s.width : (i+1)*s.width]
}
