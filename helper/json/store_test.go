package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expandEntry struct {
	Path     string `json:"path"`
	Priority int    `json:"priority"`
}

func newTestStore(t *testing.T) *JSONStore {
	store, err := NewJSONStore(t.TempDir(), "sessions")
	require.NoError(t, err)
	return store
}

func TestSetGetDelete(t *testing.T) {
	store := newTestStore(t)

	var missing map[string]interface{}
	err := store.Get("demo", &missing)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set("demo", map[string]string{"name": "proj"}))
	assert.True(t, store.Exists("demo"))

	var got map[string]string
	require.NoError(t, store.Get("demo.json", &got))
	assert.Equal(t, "proj", got["name"])

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"demo"}, names)

	require.NoError(t, store.Delete("demo"))
	assert.False(t, store.Exists("demo"))
	assert.ErrorIs(t, store.Delete("demo"), ErrNotFound)
}

func TestNestedValues(t *testing.T) {
	store := newTestStore(t)
	key := "ProjectTree.ExpandData"

	var entries []expandEntry
	found, err := store.GetValue("session", key, &entries)
	require.NoError(t, err)
	assert.False(t, found)

	want := []expandEntry{{Path: "/proj/src", Priority: 200000}}
	require.NoError(t, store.SetValue("session", key, want))
	require.NoError(t, store.SetValue("session", "ProjectTree.Other", true))

	found, err = store.GetValue("session", key, &entries)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, entries)

	require.NoError(t, store.DeleteKey("session", key))
	found, err = store.GetValue("session", key, &entries)
	require.NoError(t, err)
	assert.False(t, found)

	var other bool
	found, err = store.GetValue("session", "ProjectTree.Other", &other)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, other)

	assert.Error(t, store.DeleteKey("session", "Missing.Key"))
}
