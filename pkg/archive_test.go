package zipcdir

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenArchiveMapsWholeFile(t *testing.T) {
	data := buildZip(t, "", sampleFiles()...)
	path := writeTempArchive(t, "sample.zip", data)

	view, err := OpenArchive(path)
	require.NoError(t, err)
	assert.Equal(t, len(data), view.Len())
	assert.Equal(t, data, view.Bytes())

	require.NoError(t, view.Release())
	assert.Nil(t, view.Bytes())
	// A second release is a no-op with the same result
	assert.NoError(t, view.Release())
}

func TestOpenArchiveEmptyFile(t *testing.T) {
	path := writeTempArchive(t, "empty.zip", nil)

	view, err := OpenArchive(path)
	assert.Nil(t, view)
	assert.True(t, errors.Is(err, ErrEmptyArchive))
}

func TestOpenArchiveMissingFile(t *testing.T) {
	_, err := OpenArchive(filepath.Join(t.TempDir(), "missing.zip"))
	assert.Equal(t, KindBadFileDesc, KindOf(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpenArchiveRejectsDirectory(t *testing.T) {
	_, err := OpenArchive(t.TempDir())
	assert.Equal(t, KindInvalidArg, KindOf(err))
}

func TestReadFileView(t *testing.T) {
	data := buildZip(t, "heap", sampleFiles()...)
	path := writeTempArchive(t, "heap.zip", data)

	file, err := os.Open(path)
	require.NoError(t, err)
	view, err := ReadFileView(file)
	require.NoError(t, err)
	assert.Equal(t, data, view.Bytes())
	require.NoError(t, view.Release())

	// Release closed the file
	_, err = file.Stat()
	assert.Error(t, err)
}

// countingView records how often Release is called
type countingView struct {
	data     []byte
	releases int
}

func (cv *countingView) Bytes() []byte { return cv.data }
func (cv *countingView) Len() int      { return len(cv.data) }
func (cv *countingView) Release() error {
	cv.releases++
	return nil
}

func TestReadDirectoryFromReleasesView(t *testing.T) {
	good := &countingView{data: buildZip(t, "", sampleFiles()...)}
	dir, err := ReadDirectoryFrom(good, ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, dir.Len())
	assert.Equal(t, 1, good.releases)

	bad := &countingView{data: make([]byte, 10)}
	_, err = ReadDirectoryFrom(bad, ParseOptions{})
	assert.Equal(t, KindFileTooSmall, KindOf(err))
	assert.Equal(t, 1, bad.releases)

	_, err = ReadDirectoryFrom(nil, ParseOptions{})
	assert.Equal(t, KindInvalidArg, KindOf(err))
}

func TestEntriesOutliveView(t *testing.T) {
	data := buildZip(t, "", sampleFiles()...)
	view := NewBytesView(append([]byte(nil), data...))
	raw := view.Bytes()

	dir, err := ReadDirectoryFrom(view, ParseOptions{})
	require.NoError(t, err)

	// Scribble over the archive bytes; the directory owns its names
	for i := range raw {
		raw[i] = 0
	}
	assert.Equal(t, "src/main.go", dir.Entries[2].Name)
}

func TestOpenDirectory(t *testing.T) {
	data := buildZip(t, "", sampleFiles()...)
	path := writeTempArchive(t, "sample.zip", data)

	mapped, err := OpenDirectory(path, ParseOptions{})
	require.NoError(t, err)
	read, err := OpenDirectory(path, ParseOptions{NoMmap: true})
	require.NoError(t, err)
	assert.Equal(t, mapped.Entries, read.Entries)
	assert.Equal(t, 4, mapped.Len())
}

func TestOpenDirectoryEmptyFile(t *testing.T) {
	path := writeTempArchive(t, "empty.zip", nil)

	for _, opts := range []ParseOptions{{}, {NoMmap: true}} {
		dir, err := OpenDirectory(path, opts)
		require.NoError(t, err)
		assert.True(t, dir.EmptyFile)
		assert.Equal(t, 0, dir.Len())
	}
}

func TestOpenDirectoryWrapsPath(t *testing.T) {
	path := writeTempArchive(t, "junk.zip", make([]byte, 64))

	_, err := OpenDirectory(path, ParseOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.Equal(t, KindEocdNotFound, KindOf(err))
}
