package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/jotter/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the jotter MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes jotter notes, tags, the
active note, import/export and text rendering as MCP tools via STDIO.

When editor.watch is enabled in the config, changes written by another jotter process
(for example the terminal editor) are reloaded while the server runs.

The --db flag is optional. If not provided, a system-specific default location will be used:
- Windows: %USERPROFILE%\AppData\Roaming\jotter\jotter.db
- macOS: ~/Library/Application Support/jotter/jotter.db
- Linux: ~/.local/share/jotter/jotter.db

Example:
  jotter mcp
  jotter mcp --db notes.db --wal
  jotter mcp --storage file --db ~/notes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		w, err := s.startWatcher(cmd.Context())
		if err != nil {
			return err
		}
		if w != nil {
			defer w.Close()
		}

		srv := mcp.NewJotterMCPServer(s.store, s.logger)

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		fmt.Fprintf(os.Stderr, "Jotter MCP server started. Storage: %s (%s, watching: %t)\n", s.info, s.cfg.Storage.Driver, w != nil)
		fmt.Fprintln(os.Stderr, "Available tools: ping, create_note, list_notes, get_note, get_active_note, set_active_note, update_note, delete_note, toggle_pin_note, manage_note_tags, list_tags, export_notes, import_notes, render_note_text")
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		if err := srv.Start(); err != nil {
			return err
		}
		return s.Close()
	},
}

func initMCPCmd() {
	rootCmd.AddCommand(mcpCmd)
}
