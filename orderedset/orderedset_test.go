package orderedset_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowdedup/orderedset"
)

func lessBytes(a, b []byte) bool { return bytes.Compare(a, b) < 0 }

func TestInsertGrowsSizeOnce(t *testing.T) {
	tr := orderedset.New(lessBytes)

	require.Equal(t, orderedset.Inserted, tr.Insert([]byte{1, 2}))
	require.Equal(t, 1, tr.Size())

	require.Equal(t, orderedset.AlreadyPresent, tr.Insert([]byte{1, 2}))
	require.Equal(t, 1, tr.Size())

	require.Equal(t, orderedset.Inserted, tr.Insert([]byte{1, 3}))
	require.Equal(t, 2, tr.Size())
}

func TestInsertCopiesKey(t *testing.T) {
	tr := orderedset.New(lessBytes)
	key := []byte{9, 9}
	tr.Insert(key)
	key[0] = 0 // mutate caller's buffer after insert

	var seen []byte
	tr.WalkInOrder(func(k []byte) bool {
		seen = append([]byte(nil), k...)
		return true
	})
	assert.Equal(t, []byte{9, 9}, seen)
}

func TestWalkInOrderIsSorted(t *testing.T) {
	tr := orderedset.New(lessBytes)
	for _, b := range [][]byte{{5}, {1}, {3}, {1}, {5}, {2}, {4}} {
		tr.Insert(b)
	}

	var walked [][]byte
	tr.WalkInOrder(func(k []byte) bool {
		walked = append(walked, append([]byte(nil), k...))
		return true
	})

	require.Len(t, walked, 5)
	for i := 1; i < len(walked); i++ {
		assert.True(t, bytes.Compare(walked[i-1], walked[i]) < 0)
	}
}

func TestWalkInOrderCanStopEarly(t *testing.T) {
	tr := orderedset.New(lessBytes)
	for _, b := range [][]byte{{1}, {2}, {3}, {4}} {
		tr.Insert(b)
	}

	var visited int
	tr.WalkInOrder(func(k []byte) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited)
}

func TestClearEmptiesSet(t *testing.T) {
	tr := orderedset.New(lessBytes)
	tr.Insert([]byte{1})
	tr.Insert([]byte{2})
	require.Equal(t, 2, tr.Size())

	tr.Clear()
	assert.Equal(t, 0, tr.Size())

	var walked int
	tr.WalkInOrder(func(k []byte) bool { walked++; return true })
	assert.Equal(t, 0, walked)
}
