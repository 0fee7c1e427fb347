package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverStore_SaveListRemove(t *testing.T) {
	store, err := NewCoverStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("cover one.png", strings.NewReader("data"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, ServePrefix+"/"))
	assert.True(t, strings.HasSuffix(path, "-cover_one.png"))

	files, err := store.List()
	require.NoError(t, err)
	require.Len(t, files, 1)
	_, ok := files[path]
	assert.True(t, ok, "listed paths must match served paths")

	require.NoError(t, store.Remove(path))
	files, err = store.List()
	require.NoError(t, err)
	assert.Empty(t, files)

	// Removing an already-gone file is not an error.
	assert.NoError(t, store.Remove(path))
}

func TestCoverStore_SaveStripsPath(t *testing.T) {
	store, err := NewCoverStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.False(t, strings.Contains(strings.TrimPrefix(path, ServePrefix+"/"), "/"))
}

func TestCoverStore_RemoveRejectsForeignPath(t *testing.T) {
	store, err := NewCoverStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Remove("/etc/passwd"))
	assert.Error(t, store.Remove(ServePrefix+"/../secret"))
}
