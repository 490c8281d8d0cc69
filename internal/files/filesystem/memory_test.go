package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystem_OpenAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem("/data")
	mfs.AddFile("1523.csv", "key,pkey\na,1\n")

	r, err := mfs.Open("/data/1523.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, mfs.OpenCount())

	content, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "key,pkey\na,1\n", string(content))

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Equal(t, 0, mfs.OpenCount())

	direct, err := mfs.ReadFile("1523.csv")
	require.NoError(t, err)
	assert.Equal(t, content, direct)
}

func TestMemoryFileSystem_NotExist(t *testing.T) {
	mfs := NewMemoryFileSystem("/data")

	_, err := mfs.Open("missing.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = mfs.ReadFile("missing.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = mfs.Stat("missing.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemoryFileSystem_DirectoryCannotBeOpened(t *testing.T) {
	mfs := NewMemoryFileSystem("/data")
	mfs.AddFile("2022/1523.csv", "")

	_, err := mfs.Open("/data/2022")
	assert.Error(t, err)

	info, err := mfs.Stat("/data/2022")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMemoryFileSystem_ReadDir(t *testing.T) {
	mfs := NewMemoryFileSystem("/data")
	mfs.AddFile("1600.csv", "b")
	mfs.AddFile("1523.csv", "a")
	mfs.AddFile("archive/1400.csv", "c")

	entries, err := mfs.ReadDir("/data")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"1523.csv", "1600.csv", "archive"}, names)
}
