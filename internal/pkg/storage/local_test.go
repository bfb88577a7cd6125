package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSaveOpenDelete(t *testing.T) {
	store := NewLocal(t.TempDir())

	require.NoError(t, store.Save("plans/free/a.pdf", strings.NewReader("pdf-bytes")))

	exists, err := store.Exists("plans/free/a.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	f, err := store.Open("plans/free/a.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "pdf-bytes", string(data))

	size, err := store.Size("plans/free/a.pdf")
	require.NoError(t, err)
	assert.EqualValues(t, 9, size)

	mtime, err := store.ModifiedTime("plans/free/a.pdf")
	require.NoError(t, err)
	assert.False(t, mtime.IsZero())

	require.NoError(t, store.Delete("plans/free/a.pdf"))
	exists, err = store.Exists("plans/free/a.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalDeleteMissingIsNoop(t *testing.T) {
	store := NewLocal(t.TempDir())
	assert.NoError(t, store.Delete("does/not/exist.pdf"))
}

func TestLocalSaveOverwrites(t *testing.T) {
	store := NewLocal(t.TempDir())
	require.NoError(t, store.Save("a.txt", strings.NewReader("one")))
	require.NoError(t, store.Save("a.txt", strings.NewReader("two")))

	f, err := store.Open("a.txt")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestLocalRejectsEscapingNames(t *testing.T) {
	store := NewLocal(t.TempDir())

	err := store.Save("../outside.txt", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = store.Open("/etc/passwd")
	assert.Error(t, err)
}
