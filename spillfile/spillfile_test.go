package spillfile_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"rowdedup/spillfile"
)

func TestWriteFlushReadAt(t *testing.T) {
	f, err := spillfile.Open(t.TempDir(), "test")
	require.NoError(t, err)
	defer f.CloseAndUnlink()

	off0 := f.Tell()
	n, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)

	off1 := f.Tell()
	n, err = f.Write([]byte("world!"))
	require.NoError(t, err)
	require.Equal(t, 6, n)

	require.NoError(t, f.Flush())

	buf := make([]byte, 5)
	n, err = f.ReadAt(buf, off0)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", string(buf))

	buf2 := make([]byte, 6)
	n, err = f.ReadAt(buf2, off1)
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, "world!", string(buf2))
}

func TestEmptyPrefixGeneratesUniqueNames(t *testing.T) {
	dir := t.TempDir()

	f1, err := spillfile.Open(dir, "")
	require.NoError(t, err)
	defer f1.CloseAndUnlink()

	f2, err := spillfile.Open(dir, "")
	require.NoError(t, err)
	defer f2.CloseAndUnlink()

	require.NoError(t, f1.Flush())
	require.NoError(t, f2.Flush())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestCloseAndUnlinkRemovesFile(t *testing.T) {
	dir := t.TempDir()
	f, err := spillfile.Open(dir, "gone")
	require.NoError(t, err)

	_, err = f.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, f.Flush())

	require.NoError(t, f.CloseAndUnlink())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), "gone")
	}
}
