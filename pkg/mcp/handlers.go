package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/jotter/pkg/notes"
	"github.com/unowned-ai/jotter/pkg/render"
)

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Jotter MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_jotter"), nil
}

// RegisterCreateNoteTool registers the create_note tool.
func RegisterCreateNoteTool(s *server.MCPServer, store *notes.Store) {
	createNote := mcp.NewTool("create_note",
		mcp.WithDescription("Creates a new note, makes it the active note and returns it."),
		mcp.WithString("title", mcp.Description("Optional title. Defaults to 'Untitled Note'.")),
		mcp.WithString("content", mcp.Description("Optional HTML content.")),
		mcp.WithString("tags", mcp.Description("Optional comma-separated list of tags.")),
	)
	s.AddTool(createNote, createNoteHandler(store))
}

func createNoteHandler(store *notes.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := store.CreateNote()

		var u notes.NoteUpdate
		if title, ok := request.Params.Arguments["title"].(string); ok && title != "" {
			u.Title = &title
		}
		if content, ok := request.Params.Arguments["content"].(string); ok && content != "" {
			u.Content = &content
		}
		if tagsStr, ok := request.Params.Arguments["tags"].(string); ok && tagsStr != "" {
			var tags []string
			for _, t := range notes.ParseTagList(tagsStr) {
				tags, _ = notes.AddTag(tags, t)
			}
			u.Tags = &tags
		}
		if u.Title != nil || u.Content != nil || u.Tags != nil {
			store.UpdateNote(id, u)
		}

		return noteResult(store, id)
	}
}

// RegisterListNotesTool registers the list_notes tool.
func RegisterListNotesTool(s *server.MCPServer, store *notes.Store) {
	listNotes := mcp.NewTool("list_notes",
		mcp.WithDescription("Lists notes, pinned first then most recently updated. Filters are optional."),
		mcp.WithString("search", mcp.Description("Case-insensitive text matched against title and content.")),
		mcp.WithString("tag", mcp.Description("Only notes carrying this exact tag.")),
		mcp.WithBoolean("use_saved_filter", mcp.Description("Apply the search term and tag saved in the app state instead.")),
	)
	s.AddTool(listNotes, listNotesHandler(store))
}

func listNotesHandler(store *notes.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var list []notes.Note
		if saved, _ := request.Params.Arguments["use_saved_filter"].(bool); saved {
			list = store.FilteredNotes()
		} else {
			search, _ := request.Params.Arguments["search"].(string)
			tag, _ := request.Params.Arguments["tag"].(string)
			list = notes.Filter(store.Notes(), notes.Query{Search: search, Tag: tag})
		}

		if len(list) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}
		return jsonResult(list, "notes")
	}
}

// RegisterGetNoteTool registers the get_note tool.
func RegisterGetNoteTool(s *server.MCPServer, store *notes.Store) {
	getNote := mcp.NewTool("get_note",
		mcp.WithDescription("Retrieves a note by its id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Id of the note to retrieve.")),
	)
	s.AddTool(getNote, getNoteHandler(store))
}

func getNoteHandler(store *notes.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := requiredID(request)
		if !ok {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}
		return noteResult(store, id)
	}
}

// RegisterGetActiveNoteTool registers the get_active_note tool.
func RegisterGetActiveNoteTool(s *server.MCPServer, store *notes.Store) {
	getActive := mcp.NewTool("get_active_note",
		mcp.WithDescription("Retrieves the note currently open in the editor."),
	)
	s.AddTool(getActive, getActiveNoteHandler(store))
}

func getActiveNoteHandler(store *notes.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		n, ok := store.ActiveNote()
		if !ok {
			return mcp.NewToolResultError("No note is active."), nil
		}
		return jsonResult(n, "note")
	}
}

// RegisterSetActiveNoteTool registers the set_active_note tool.
func RegisterSetActiveNoteTool(s *server.MCPServer, store *notes.Store) {
	setActive := mcp.NewTool("set_active_note",
		mcp.WithDescription("Opens a note in the editor. An empty id clears the selection."),
		mcp.WithString("id", mcp.Description("Id of the note to open.")),
	)
	s.AddTool(setActive, setActiveNoteHandler(store))
}

func setActiveNoteHandler(store *notes.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, _ := request.Params.Arguments["id"].(string)
		if id == "" {
			store.SetActiveNote("")
			return mcp.NewToolResultText("Active note cleared."), nil
		}
		if _, ok := store.Note(id); !ok {
			return notFound(id), nil
		}
		store.SetActiveNote(id)
		return mcp.NewToolResultText(fmt.Sprintf("Note '%s' is now active.", id)), nil
	}
}

// RegisterUpdateNoteTool registers the update_note tool.
func RegisterUpdateNoteTool(s *server.MCPServer, store *notes.Store) {
	updateNote := mcp.NewTool("update_note",
		mcp.WithDescription("Updates fields of a note. Omitted fields are left unchanged."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Id of the note to update.")),
		mcp.WithString("title", mcp.Description("Optional new title.")),
		mcp.WithString("content", mcp.Description("Optional new HTML content.")),
		mcp.WithString("tags", mcp.Description("Optional comma-separated list replacing all tags. An empty string clears them.")),
		mcp.WithBoolean("pinned", mcp.Description("Optional new pinned status.")),
	)
	s.AddTool(updateNote, updateNoteHandler(store))
}

func updateNoteHandler(store *notes.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := requiredID(request)
		if !ok {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}

		var u notes.NoteUpdate
		if title, ok := request.Params.Arguments["title"].(string); ok {
			u.Title = &title
		}
		if content, ok := request.Params.Arguments["content"].(string); ok {
			u.Content = &content
		}
		if tagsStr, ok := request.Params.Arguments["tags"].(string); ok {
			tags := []string{}
			for _, t := range notes.ParseTagList(tagsStr) {
				tags, _ = notes.AddTag(tags, t)
			}
			u.Tags = &tags
		}
		if pinned, ok := request.Params.Arguments["pinned"].(bool); ok {
			u.IsPinned = &pinned
		}

		if u.Title == nil && u.Content == nil && u.Tags == nil && u.IsPinned == nil {
			return mcp.NewToolResultError("No fields provided for update. Please specify title, content, tags or pinned."), nil
		}

		if !store.UpdateNote(id, u) {
			return notFound(id), nil
		}
		return noteResult(store, id)
	}
}

// RegisterDeleteNoteTool registers the delete_note tool.
func RegisterDeleteNoteTool(s *server.MCPServer, store *notes.Store) {
	deleteNote := mcp.NewTool("delete_note",
		mcp.WithDescription("Deletes a note by its id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Id of the note to delete.")),
	)
	s.AddTool(deleteNote, deleteNoteHandler(store))
}

func deleteNoteHandler(store *notes.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := requiredID(request)
		if !ok {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}
		if !store.DeleteNote(id) {
			// Deleting twice is not an error.
			return mcp.NewToolResultText(fmt.Sprintf("Note '%s' not found, nothing to delete.", id)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Note '%s' deleted successfully.", id)), nil
	}
}

// RegisterTogglePinNoteTool registers the toggle_pin_note tool.
func RegisterTogglePinNoteTool(s *server.MCPServer, store *notes.Store) {
	togglePin := mcp.NewTool("toggle_pin_note",
		mcp.WithDescription("Pins an unpinned note or unpins a pinned one. Pinned notes sort first."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Id of the note to toggle.")),
	)
	s.AddTool(togglePin, togglePinNoteHandler(store))
}

func togglePinNoteHandler(store *notes.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := requiredID(request)
		if !ok {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}
		if !store.TogglePinNote(id) {
			return notFound(id), nil
		}
		return noteResult(store, id)
	}
}

// RegisterManageNoteTagsTool registers the manage_note_tags tool.
func RegisterManageNoteTagsTool(s *server.MCPServer, store *notes.Store) {
	manageTags := mcp.NewTool("manage_note_tags",
		mcp.WithDescription("Adds or removes tags for a specific note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Id of the note whose tags will be managed.")),
		mcp.WithString("add_tags", mcp.Description("Comma-separated list of tags to add.")),
		mcp.WithString("remove_tags", mcp.Description("Comma-separated list of tags to remove.")),
	)
	s.AddTool(manageTags, manageNoteTagsHandler(store))
}

func manageNoteTagsHandler(store *notes.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := requiredID(request)
		if !ok {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}

		addTagsStr, _ := request.Params.Arguments["add_tags"].(string)
		removeTagsStr, _ := request.Params.Arguments["remove_tags"].(string)
		if addTagsStr == "" && removeTagsStr == "" {
			return mcp.NewToolResultError("At least one of 'add_tags' or 'remove_tags' must be provided."), nil
		}

		n, found := store.Note(id)
		if !found {
			return notFound(id), nil
		}

		tags := n.Tags
		changed := false
		for _, t := range notes.ParseTagList(addTagsStr) {
			var added bool
			tags, added = notes.AddTag(tags, t)
			changed = changed || added
		}
		for _, t := range notes.ParseTagList(removeTagsStr) {
			var removed bool
			tags, removed = notes.RemoveTag(tags, t)
			changed = changed || removed
		}

		if changed && !store.UpdateNote(id, notes.NoteUpdate{Tags: &tags}) {
			return notFound(id), nil
		}
		return noteResult(store, id)
	}
}

// RegisterListTagsTool registers the list_tags tool.
func RegisterListTagsTool(s *server.MCPServer, store *notes.Store) {
	listTags := mcp.NewTool("list_tags",
		mcp.WithDescription("Lists every tag in use, in first-seen order."),
	)
	s.AddTool(listTags, listTagsHandler(store))
}

func listTagsHandler(store *notes.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(store.Tags(), "tags")
	}
}

// RegisterExportNotesTool registers the export_notes tool.
func RegisterExportNotesTool(s *server.MCPServer, store *notes.Store) {
	exportNotes := mcp.NewTool("export_notes",
		mcp.WithDescription("Returns every note as a pretty-printed JSON array suitable for import_notes."),
	)
	s.AddTool(exportNotes, exportNotesHandler(store))
}

func exportNotesHandler(store *notes.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := store.ExportNotes()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to export notes: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// RegisterImportNotesTool registers the import_notes tool.
func RegisterImportNotesTool(s *server.MCPServer, store *notes.Store) {
	importNotes := mcp.NewTool("import_notes",
		mcp.WithDescription("Replaces ALL notes with the given JSON array. Existing notes are lost."),
		mcp.WithString("notes_json", mcp.Required(), mcp.Description("JSON array of notes, as produced by export_notes.")),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true to acknowledge that existing notes are replaced.")),
	)
	s.AddTool(importNotes, importNotesHandler(store))
}

func importNotesHandler(store *notes.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, ok := request.Params.Arguments["notes_json"].(string)
		if !ok || data == "" {
			return mcp.NewToolResultError("'notes_json' parameter is required and must be a non-empty string."), nil
		}
		if confirm, _ := request.Params.Arguments["confirm"].(bool); !confirm {
			return mcp.NewToolResultError("Import replaces all existing notes; set 'confirm' to true to proceed."), nil
		}

		count, err := store.ImportJSON([]byte(data))
		if errors.Is(err, notes.ErrInvalidImport) {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid notes file, nothing was imported: %v", err)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to import notes: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Imported %d notes.", count)), nil
	}
}

// RegisterRenderNoteTextTool registers the render_note_text tool.
func RegisterRenderNoteTextTool(s *server.MCPServer, store *notes.Store) {
	renderNote := mcp.NewTool("render_note_text",
		mcp.WithDescription("Renders a note the way it is downloaded: plain text or a sanitized HTML document."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Id of the note to render.")),
		mcp.WithString("format", mcp.DefaultString("text"), mcp.Enum("text", "html"), mcp.Description("Output format. Defaults to 'text'.")),
	)
	s.AddTool(renderNote, renderNoteTextHandler(store))
}

func renderNoteTextHandler(store *notes.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := requiredID(request)
		if !ok {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}
		n, found := store.Note(id)
		if !found {
			return notFound(id), nil
		}

		format, _ := request.Params.Arguments["format"].(string)
		switch format {
		case "", "text":
			return mcp.NewToolResultText(render.PlainText(n)), nil
		case "html":
			return mcp.NewToolResultText(render.HTML(n)), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("Unsupported format '%s'. Use 'text' or 'html'.", format)), nil
		}
	}
}
