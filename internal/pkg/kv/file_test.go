package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SetGetDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get("attendance_v5")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set("attendance_v5", []byte(`[{"id":"a1"}]`)))

	got, err := store.Get("attendance_v5")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"a1"}]`), got)

	require.NoError(t, store.Delete("attendance_v5"))
	_, err = store.Get("attendance_v5")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, store.Delete("attendance_v5"))
}

func TestFileStore_Overwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("session_v5", []byte(`{"type":"employee"}`)))
	require.NoError(t, store.Set("session_v5", []byte(`{"type":"admin"}`)))

	got, err := store.Get("session_v5")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"type":"admin"}`), got)
}

func TestFileStore_RejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = store.Set("../escape", []byte("x"))
	assert.Error(t, err)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	store := NewMemoryStore()
	value := []byte(`{"type":"employee"}`)
	require.NoError(t, store.Set("session_v5", value))

	value[0] = 'X'
	got, err := store.Get("session_v5")
	require.NoError(t, err)
	assert.Equal(t, byte('{'), got[0])
}
