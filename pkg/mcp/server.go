package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	jotter "github.com/unowned-ai/jotter/pkg"
	"github.com/unowned-ai/jotter/pkg/notes"
)

type JotterMCPServer struct {
	mcpServer *server.MCPServer
	store     *notes.Store
	logger    *zap.Logger
}

// NewJotterMCPServer builds an MCP server over an already opened store and
// registers every note tool on it.
func NewJotterMCPServer(store *notes.Store, logger *zap.Logger) *JotterMCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := server.NewMCPServer(
		"Jotter MCP Server",
		jotter.Version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	js := &JotterMCPServer{
		mcpServer: s,
		store:     store,
		logger:    logger,
	}
	RegisterTools(s, store)
	return js
}

// RegisterTools adds every jotter tool to s.
func RegisterTools(s *server.MCPServer, store *notes.Store) {
	RegisterPingTool(s)
	RegisterCreateNoteTool(s, store)
	RegisterListNotesTool(s, store)
	RegisterGetNoteTool(s, store)
	RegisterGetActiveNoteTool(s, store)
	RegisterSetActiveNoteTool(s, store)
	RegisterUpdateNoteTool(s, store)
	RegisterDeleteNoteTool(s, store)
	RegisterTogglePinNoteTool(s, store)
	RegisterManageNoteTagsTool(s, store)
	RegisterListTagsTool(s, store)
	RegisterExportNotesTool(s, store)
	RegisterImportNotesTool(s, store)
	RegisterRenderNoteTextTool(s, store)
}

// Start runs the stdio event loop until stdin closes.
func (s *JotterMCPServer) Start() error {
	s.logger.Info("starting MCP server on stdio", zap.Int("notes", len(s.store.Notes())))
	return server.ServeStdio(s.mcpServer)
}

// Store returns the note store the tools operate on.
func (s *JotterMCPServer) Store() *notes.Store {
	return s.store
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *JotterMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}
