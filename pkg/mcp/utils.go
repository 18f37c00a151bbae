package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/unowned-ai/jotter/pkg/notes"
)

// requiredID reads the non-empty "id" argument.
func requiredID(request mcp.CallToolRequest) (string, bool) {
	id, ok := request.Params.Arguments["id"].(string)
	return id, ok && id != ""
}

func notFound(id string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Note '%s' not found.", id))
}

// noteResult returns the current version of a note as JSON.
func noteResult(store *notes.Store, id string) (*mcp.CallToolResult, error) {
	n, ok := store.Note(id)
	if !ok {
		return notFound(id), nil
	}
	return jsonResult(n, "note")
}

func jsonResult(v any, what string) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize %s to JSON: %v", what, err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
