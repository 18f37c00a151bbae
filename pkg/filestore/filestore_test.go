package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/jotter/pkg/notes"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := New(filepath.Join(t.TempDir(), "nested", "state"))
	require.NoError(t, err)

	_, err = s.GetItem(ctx, notes.StorageKey)
	assert.ErrorIs(t, err, notes.ErrNoItem)

	require.NoError(t, s.SetItem(ctx, notes.StorageKey, []byte(`{"a":1}`)))
	require.NoError(t, s.SetItem(ctx, notes.StorageKey, []byte(`{"a":2}`)))

	data, err := s.GetItem(ctx, notes.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	assert.Equal(t, filepath.Join(s.Dir(), "note-app-storage.json"), s.PathFor(notes.StorageKey))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), TempFilePrefix), "temp file left behind: %s", e.Name())
	}
}

func TestStoreEscapesKeys(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	path := s.PathFor("../escape/me")
	assert.Equal(t, s.Dir(), filepath.Dir(path))
}

func TestStoreHonoursContext(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.SetItem(ctx, "k", []byte("v")), context.Canceled)
	_, err = s.GetItem(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreBacksNoteStore(t *testing.T) {
	ctx := context.Background()
	fs, err := New(t.TempDir())
	require.NoError(t, err)

	store, err := notes.Open(ctx, fs)
	require.NoError(t, err)
	id := store.CreateNote()
	store.UpdateNote(id, notes.NoteUpdate{Tags: notes.Tags([]string{"disk"})})

	reopened, err := notes.Open(ctx, fs)
	require.NoError(t, err)
	n, ok := reopened.Note(id)
	require.True(t, ok)
	assert.Equal(t, []string{"disk"}, n.Tags)
}
