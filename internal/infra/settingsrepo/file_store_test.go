package settingsrepo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, found, err := store.Get("farmSettings")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.Set("farmSettings", `{"cropType":"Mango"}`))

	val, found, err := store.Get("farmSettings")
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, `{"cropType":"Mango"}`, val)
}

func TestFileStoreOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("k", "one"))
	require.NoError(t, store.Set("k", "two"))

	val, _, err := store.Get("k")
	require.NoError(t, err)
	require.Equal(t, "two", val)
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))
}

func TestFileStoreKeySanitization(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("../escape", "v"))
	val, found, err := store.Get("../escape")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "v", val)
}
