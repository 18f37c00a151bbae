package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/jotter/pkg/notes"
)

func setupTestStore(t *testing.T) *notes.Store {
	t.Helper()
	var tick int
	base := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	var seq int
	store, err := notes.Open(context.Background(), notes.NewMemoryStorage(),
		notes.WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}),
		notes.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("note-%d", seq)
		}),
	)
	require.NoError(t, err)
	return store
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err, "handlers report failures in the result, not as Go errors")
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text, res.IsError
}

func decodeNote(t *testing.T, s string) notes.Note {
	t.Helper()
	var n notes.Note
	require.NoError(t, json.Unmarshal([]byte(s), &n))
	return n
}

func TestPing(t *testing.T) {
	text, isErr := call(t, pingHandler, nil)
	assert.False(t, isErr)
	assert.Equal(t, "pong_jotter", text)
}

func TestCreateNoteTool(t *testing.T) {
	store := setupTestStore(t)

	text, isErr := call(t, createNoteHandler(store), map[string]any{
		"title":   "Plan",
		"content": "<p>ship it</p>",
		"tags":    "work, q3, work",
	})
	require.False(t, isErr, text)

	n := decodeNote(t, text)
	assert.Equal(t, "Plan", n.Title)
	assert.Equal(t, "<p>ship it</p>", n.Content)
	assert.Equal(t, []string{"work", "q3"}, n.Tags)

	active, ok := store.ActiveNote()
	require.True(t, ok)
	assert.Equal(t, n.ID, active.ID)
}

func TestCreateNoteToolDefaults(t *testing.T) {
	store := setupTestStore(t)
	text, isErr := call(t, createNoteHandler(store), nil)
	require.False(t, isErr)
	n := decodeNote(t, text)
	assert.Equal(t, notes.DefaultTitle, n.Title)
	assert.Equal(t, []string{}, n.Tags)
}

func TestListNotesTool(t *testing.T) {
	store := setupTestStore(t)
	a := store.CreateNote()
	store.UpdateNote(a, notes.NoteUpdate{Title: notes.String("Alpha"), Tags: notes.Tags([]string{"x"})})
	b := store.CreateNote()
	store.UpdateNote(b, notes.NoteUpdate{Title: notes.String("Beta")})
	store.TogglePinNote(a)

	text, isErr := call(t, listNotesHandler(store), nil)
	require.False(t, isErr)
	var all []notes.Note
	require.NoError(t, json.Unmarshal([]byte(text), &all))
	require.Len(t, all, 2)
	assert.Equal(t, a, all[0].ID, "pinned note first")

	text, _ = call(t, listNotesHandler(store), map[string]any{"search": "BET"})
	var found []notes.Note
	require.NoError(t, json.Unmarshal([]byte(text), &found))
	require.Len(t, found, 1)
	assert.Equal(t, b, found[0].ID)

	text, _ = call(t, listNotesHandler(store), map[string]any{"tag": "missing"})
	assert.Equal(t, "[]", text)

	store.SetSelectedTag("x")
	text, _ = call(t, listNotesHandler(store), map[string]any{"use_saved_filter": true})
	var saved []notes.Note
	require.NoError(t, json.Unmarshal([]byte(text), &saved))
	require.Len(t, saved, 1)
	assert.Equal(t, a, saved[0].ID)
}

func TestGetAndActiveNoteTools(t *testing.T) {
	store := setupTestStore(t)

	_, isErr := call(t, getActiveNoteHandler(store), nil)
	assert.True(t, isErr)

	a := store.CreateNote()
	b := store.CreateNote()

	text, isErr := call(t, getNoteHandler(store), map[string]any{"id": a})
	require.False(t, isErr)
	assert.Equal(t, a, decodeNote(t, text).ID)

	_, isErr = call(t, getNoteHandler(store), map[string]any{"id": "nope"})
	assert.True(t, isErr)
	_, isErr = call(t, getNoteHandler(store), map[string]any{})
	assert.True(t, isErr)

	text, _ = call(t, getActiveNoteHandler(store), nil)
	assert.Equal(t, b, decodeNote(t, text).ID)

	_, isErr = call(t, setActiveNoteHandler(store), map[string]any{"id": a})
	require.False(t, isErr)
	text, _ = call(t, getActiveNoteHandler(store), nil)
	assert.Equal(t, a, decodeNote(t, text).ID)

	_, isErr = call(t, setActiveNoteHandler(store), map[string]any{"id": "ghost"})
	assert.True(t, isErr)

	_, isErr = call(t, setActiveNoteHandler(store), map[string]any{"id": ""})
	require.False(t, isErr)
	_, ok := store.ActiveNote()
	assert.False(t, ok)
}

func TestUpdateNoteTool(t *testing.T) {
	store := setupTestStore(t)
	id := store.CreateNote()
	before, _ := store.Note(id)

	_, isErr := call(t, updateNoteHandler(store), map[string]any{"id": id})
	assert.True(t, isErr, "an update with no fields is rejected")

	text, isErr := call(t, updateNoteHandler(store), map[string]any{
		"id":     id,
		"title":  "Renamed",
		"tags":   "a,b",
		"pinned": true,
	})
	require.False(t, isErr, text)
	n := decodeNote(t, text)
	assert.Equal(t, "Renamed", n.Title)
	assert.Equal(t, []string{"a", "b"}, n.Tags)
	assert.True(t, n.IsPinned)
	assert.Equal(t, before.CreatedAt, n.CreatedAt)
	assert.True(t, n.UpdatedAt.After(before.UpdatedAt))

	text, _ = call(t, updateNoteHandler(store), map[string]any{"id": id, "tags": ""})
	assert.Equal(t, []string{}, decodeNote(t, text).Tags)

	_, isErr = call(t, updateNoteHandler(store), map[string]any{"id": "ghost", "title": "x"})
	assert.True(t, isErr)
}

func TestDeleteNoteTool(t *testing.T) {
	store := setupTestStore(t)
	id := store.CreateNote()

	text, isErr := call(t, deleteNoteHandler(store), map[string]any{"id": id})
	require.False(t, isErr)
	assert.Contains(t, text, "deleted")

	text, isErr = call(t, deleteNoteHandler(store), map[string]any{"id": id})
	assert.False(t, isErr, "second delete is a no-op")
	assert.Contains(t, text, "nothing to delete")
	assert.Empty(t, store.Notes())
}

func TestTogglePinNoteTool(t *testing.T) {
	store := setupTestStore(t)
	id := store.CreateNote()

	text, isErr := call(t, togglePinNoteHandler(store), map[string]any{"id": id})
	require.False(t, isErr)
	assert.True(t, decodeNote(t, text).IsPinned)

	text, _ = call(t, togglePinNoteHandler(store), map[string]any{"id": id})
	assert.False(t, decodeNote(t, text).IsPinned)

	_, isErr = call(t, togglePinNoteHandler(store), map[string]any{"id": "ghost"})
	assert.True(t, isErr)
}

func TestManageNoteTagsTool(t *testing.T) {
	store := setupTestStore(t)
	id := store.CreateNote()
	store.UpdateNote(id, notes.NoteUpdate{Tags: notes.Tags([]string{"old"})})

	_, isErr := call(t, manageNoteTagsHandler(store), map[string]any{"id": id})
	assert.True(t, isErr)

	text, isErr := call(t, manageNoteTagsHandler(store), map[string]any{
		"id":          id,
		"add_tags":    " new , old,extra",
		"remove_tags": "old",
	})
	require.False(t, isErr, text)
	assert.Equal(t, []string{"new", "extra"}, decodeNote(t, text).Tags)

	text, _ = call(t, listTagsHandler(store), nil)
	assert.JSONEq(t, `["new","extra"]`, text)
}

func TestExportImportTools(t *testing.T) {
	store := setupTestStore(t)
	id := store.CreateNote()
	store.UpdateNote(id, notes.NoteUpdate{Title: notes.String("Keep me")})

	exported, isErr := call(t, exportNotesHandler(store), nil)
	require.False(t, isErr)

	other := setupTestStore(t)
	other.CreateNote()

	_, isErr = call(t, importNotesHandler(other), map[string]any{"notes_json": exported})
	assert.True(t, isErr, "import without confirm is refused")
	assert.Len(t, other.Notes(), 1)

	_, isErr = call(t, importNotesHandler(other), map[string]any{"notes_json": "{not json", "confirm": true})
	assert.True(t, isErr)
	assert.Len(t, other.Notes(), 1, "bad input keeps the collection")

	text, isErr := call(t, importNotesHandler(other), map[string]any{"notes_json": exported, "confirm": true})
	require.False(t, isErr, text)
	assert.Equal(t, "Imported 1 notes.", text)
	assert.Equal(t, store.Notes(), other.Notes())
}

func TestRenderNoteTextTool(t *testing.T) {
	store := setupTestStore(t)
	id := store.CreateNote()
	store.UpdateNote(id, notes.NoteUpdate{
		Title:   notes.String("Recipe"),
		Content: notes.String("<p>flour</p><script>x()</script>"),
	})

	text, isErr := call(t, renderNoteTextHandler(store), map[string]any{"id": id})
	require.False(t, isErr)
	assert.Contains(t, text, "Recipe\n\nflour\n\nTags: ")

	text, isErr = call(t, renderNoteTextHandler(store), map[string]any{"id": id, "format": "html"})
	require.False(t, isErr)
	assert.Contains(t, text, "<p>flour</p>")
	assert.NotContains(t, text, "<script>")

	_, isErr = call(t, renderNoteTextHandler(store), map[string]any{"id": id, "format": "docx"})
	assert.True(t, isErr)
}

func TestNewJotterMCPServerRegistersTools(t *testing.T) {
	store := setupTestStore(t)
	s := NewJotterMCPServer(store, nil)
	require.NotNil(t, s.MCPRawServer())
	assert.Same(t, store, s.Store())
}
