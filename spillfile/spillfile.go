// Package spillfile implements the BufferedFile primitive: an
// append-only scratch file written during accumulation and re-read at
// arbitrary offsets during merge. It is adapted from the teacher's
// internal/page.PageManager (os.OpenFile + WriteAt/ReadAt + Sync),
// generalized from fixed-size page slots to an unstructured append-only
// byte stream with an explicit write/read phase boundary.
package spillfile

import (
	"bufio"
	"os"

	"github.com/google/uuid"
)

// File is a process-local temporary file used to hold spilled runs. It is
// not safe for concurrent use; the Deduper that owns it is single
// threaded for its whole lifetime.
type File struct {
	f      *os.File
	path   string
	writer *bufio.Writer
	offset int64
}

// Open creates a new temp file under dir. If prefix is empty, a random
// uuid is used so that multiple Dedupers sharing a temp directory never
// collide on a filename, per the host's temp-file naming contract.
func Open(dir, prefix string) (*File, error) {
	if prefix == "" {
		prefix = uuid.New().String()
	}
	f, err := os.CreateTemp(dir, prefix+"-*.spill")
	if err != nil {
		return nil, err
	}
	return &File{
		f:      f,
		path:   f.Name(),
		writer: bufio.NewWriter(f),
	}, nil
}

// Tell returns the logical offset the next Write call will append at.
func (f *File) Tell() int64 {
	return f.offset
}

// Write appends p sequentially. Writes are buffered; call Flush (or
// FlushAndSwitchToRead) before reading back bytes written through this
// call.
func (f *File) Write(p []byte) (int, error) {
	n, err := f.writer.Write(p)
	f.offset += int64(n)
	return n, err
}

// Flush pushes any buffered writes to the OS and fsyncs the file,
// without otherwise changing how the file is used. Callers append more
// after a Flush; it only guarantees visibility to subsequent ReadAt
// calls.
func (f *File) Flush() error {
	if err := f.writer.Flush(); err != nil {
		return err
	}
	return f.f.Sync()
}

// FlushAndSwitchToRead flushes pending writes and marks the transition
// from the accumulation/reduction write phase to the final read phase
// the merger scans during the last k-way merge. Semantically it is the
// same guarantee as Flush; the distinct name documents the phase
// boundary spec'd for BufferedFile rather than adding new behavior.
func (f *File) FlushAndSwitchToRead() error {
	return f.Flush()
}

// ReadAt reads len(p) bytes starting at off, bypassing the write buffer.
// Bytes written but not yet flushed are not guaranteed to be visible.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	return f.f.ReadAt(p, off)
}

// Close closes the underlying OS file without removing it.
func (f *File) Close() error {
	return f.f.Close()
}

// CloseAndUnlink closes the file and removes it from disk. Close is always
// attempted first and Remove is attempted even if Close fails; a Close
// error is returned in preference to a Remove error.
func (f *File) CloseAndUnlink() error {
	closeErr := f.f.Close()
	removeErr := os.Remove(f.path)
	if closeErr != nil {
		return closeErr
	}
	return removeErr
}
