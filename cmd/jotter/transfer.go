package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/jotter/pkg/notes"
	"github.com/unowned-ai/jotter/pkg/render"
	"github.com/unowned-ai/jotter/pkg/utils"
)

var (
	exportOutputFlag   string
	importYesFlag      bool
	downloadFormatFlag string
	downloadOutputFlag string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all notes as a JSON backup",
	Long: `Write every note as a pretty-printed JSON array. Without --output the file is named
notes-backup-YYYY-MM-DD.json and placed in the configured export directory. Use --output -
to write to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		data, err := s.store.ExportNotes()
		if err != nil {
			return err
		}

		if exportOutputFlag == "-" {
			_, err := cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}

		path := exportOutputFlag
		if path == "" {
			path = filepath.Join(s.cfg.Export.Dir, notes.ExportFileName(time.Now()))
		}
		if path, err = utils.ExpandHome(path); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write export file '%s': %w", path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d notes to %s\n", len(s.store.Notes()), path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace all notes with the contents of a JSON backup",
	Long: `Replace every note with the notes in a JSON backup file ('-' for stdin). This discards
the current notes, so --yes is required. The file must hold a JSON array of notes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !importYesFlag {
			return errors.New("import replaces all existing notes; re-run with --yes to confirm")
		}

		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read import file: %w", err)
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		count, err := s.store.ImportJSON(data)
		if err != nil {
			if errors.Is(err, notes.ErrInvalidImport) {
				return fmt.Errorf("failed to import notes. Please check the file format: %w", err)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d notes.\n", count)
		return s.Close()
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download [note-id]",
	Short: "Save a note as a text, PDF or HTML file (the active note by default)",
	Long: `Save a note to a file named after its title. The text format holds the title, content,
tags and dates; PDF lays the same out on an A4 page; HTML is a standalone sanitized document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := downloadFormatFlag
		if format == "text" {
			format = "txt"
		}
		if !slices.Contains(render.Formats, format) {
			return fmt.Errorf("unsupported format '%s' (want txt, pdf or html)", downloadFormatFlag)
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := resolveNote(s.store, noteArg(args))
		if err != nil {
			return err
		}

		dir := downloadOutputFlag
		if dir == "" {
			dir = s.cfg.Export.Dir
		}
		if dir, err = utils.ExpandHome(dir); err != nil {
			return err
		}
		path, err := render.WriteFile(n, format, dir)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
		return nil
	},
}

func initTransferCmd() {
	exportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "", "Output file ('-' for stdout)")

	importCmd.Flags().BoolVarP(&importYesFlag, "yes", "y", false, "Confirm replacing all existing notes")

	downloadCmd.Flags().StringVarP(&downloadFormatFlag, "format", "f", "txt", "File format: txt, pdf or html")
	downloadCmd.Flags().StringVarP(&downloadOutputFlag, "output", "o", "", "Output directory (default from config: export.dir)")

	rootCmd.AddCommand(exportCmd, importCmd, downloadCmd)
}
