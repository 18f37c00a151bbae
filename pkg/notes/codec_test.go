package notes

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeState(t *testing.T) {
	active := "n1"
	state := State{
		Notes: []Note{{
			ID:        "n1",
			Title:     "Title",
			Content:   "<p>body</p>",
			CreatedAt: time.Date(2024, 3, 1, 8, 30, 0, 123000000, time.UTC),
			UpdatedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
			Tags:      []string{"a"},
			IsPinned:  true,
		}},
		ActiveNoteID: &active,
		SearchTerm:   "bo",
		SelectedTag:  "a",
		IsDarkMode:   true,
	}

	data, err := EncodeState(state)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version":0`)
	assert.Contains(t, string(data), `"activeNoteId":"n1"`)
	assert.Contains(t, string(data), `"createdAt":"2024-03-01T08:30:00.123Z"`)

	got, err := DecodeState(data)
	require.NoError(t, err)
	assert.Equal(t, state.ActiveNoteID, got.ActiveNoteID)
	assert.Equal(t, state.SearchTerm, got.SearchTerm)
	assert.Equal(t, state.SelectedTag, got.SelectedTag)
	assert.Equal(t, state.IsDarkMode, got.IsDarkMode)
	require.Len(t, got.Notes, 1)
	assert.True(t, state.Notes[0].CreatedAt.Equal(got.Notes[0].CreatedAt))
	assert.Equal(t, state.Notes[0].Tags, got.Notes[0].Tags)
}

func TestEncodeStateNullActive(t *testing.T) {
	data, err := EncodeState(State{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"activeNoteId":null`)
	assert.Contains(t, string(data), `"notes":[]`)
}

func TestDecodeStateAcceptsBrowserSnapshot(t *testing.T) {
	raw := `{"state":{"notes":[{"id":"k3j9x0a1b","title":"Untitled Note","content":"","createdAt":"2024-06-01T10:00:00.000Z","updatedAt":"2024-06-01T10:05:00.000Z","tags":[],"isPinned":false}],"activeNoteId":"k3j9x0a1b","searchTerm":"","selectedTag":"","isDarkMode":false},"version":0}`

	got, err := DecodeState([]byte(raw))
	require.NoError(t, err)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "k3j9x0a1b", got.Notes[0].ID)
	assert.Equal(t, 5*time.Minute, got.Notes[0].UpdatedAt.Sub(got.Notes[0].CreatedAt))
}

func TestDecodeStateRejects(t *testing.T) {
	for _, raw := range []string{"", "[]", `{"state":{"notes":"x"},"version":0}`, `{"state":{},"version":3}`} {
		_, err := DecodeState([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidState, "input %q", raw)
	}
}

func TestMarshalNotes(t *testing.T) {
	data, err := MarshalNotes([]Note{{ID: "a", Title: "A"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n    \"id\": \"a\""))
	assert.Contains(t, string(data), `"tags": []`)

	empty, err := MarshalNotes(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestParseNotes(t *testing.T) {
	notes, err := ParseNotes([]byte("  \n[{\"id\":\"a\",\"title\":\"A\",\"tags\":null}]"))
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, []string{}, notes[0].Tags)

	_, err = ParseNotes([]byte(`[{"id":"a"}`))
	assert.ErrorIs(t, err, ErrInvalidImport)
}

func TestExportFileName(t *testing.T) {
	ts := time.Date(2026, 10, 18, 23, 0, 0, 0, time.FixedZone("X", -3*3600))
	assert.Equal(t, "notes-backup-2026-10-19.json", ExportFileName(ts))
}
