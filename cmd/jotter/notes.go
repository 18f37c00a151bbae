package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/jotter/pkg/notes"
	"github.com/unowned-ai/jotter/pkg/render"
)

var (
	titleFlag       string
	contentFlag     string
	contentFileFlag string
	tagsFlag        string
	pinFlag         bool
	showFormatFlag  string
	listSearchFlag  string
	listTagFlag     string
	listSavedFlag   bool
	openClearFlag   bool
)

var newNoteCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new note",
	Long:  `Create a new note at the top of the list and make it the active note. Title, content and tags are optional.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := contentFromFlags(cmd)
		if err != nil {
			return err
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		id := s.store.CreateNote()

		var u notes.NoteUpdate
		if titleFlag != "" {
			u.Title = &titleFlag
		}
		if content != nil {
			u.Content = content
		}
		if tagsFlag != "" {
			tags := collectTags(nil, notes.ParseTagList(tagsFlag))
			u.Tags = &tags
		}
		if cmd.Flags().Changed("pin") {
			u.IsPinned = &pinFlag
		}
		if u.Title != nil || u.Content != nil || u.Tags != nil || u.IsPinned != nil {
			s.store.UpdateNote(id, u)
		}

		n, _ := s.store.Note(id)
		printNote(cmd.OutOrStdout(), n)
		return s.Close()
	},
}

var listNotesCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List notes, pinned first then most recently updated",
	Long: `List notes. Without flags every note is shown. --search and --tag filter the list
for this invocation only; --saved applies the search term and tag stored by the 'search'
command or the editor.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		var list []notes.Note
		if listSavedFlag {
			list = s.store.FilteredNotes()
		} else {
			list = notes.Filter(s.store.Notes(), notes.Query{Search: listSearchFlag, Tag: listTagFlag})
		}

		printNoteTable(cmd.OutOrStdout(), list, s.store.Snapshot().ActiveID())
		return nil
	},
}

var showNoteCmd = &cobra.Command{
	Use:   "show [note-id]",
	Short: "Show a note (the active note by default)",
	Long:  `Show a note as readable text, JSON or a sanitized HTML document. Ids may be abbreviated to an unambiguous prefix.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := resolveNote(s.store, noteArg(args))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch showFormatFlag {
		case "text":
			fmt.Fprintln(out, render.PlainText(n))
		case "json":
			data, err := json.MarshalIndent(n, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to serialize note: %w", err)
			}
			fmt.Fprintln(out, string(data))
		case "html":
			fmt.Fprint(out, render.HTML(n))
		default:
			return fmt.Errorf("unsupported format '%s' (want text, json or html)", showFormatFlag)
		}
		return nil
	},
}

var editNoteCmd = &cobra.Command{
	Use:   "edit [note-id]",
	Short: "Update a note's title, content, tags or pin (the active note by default)",
	Long: `Update the given fields of a note. Only flags that are set are applied; --tags replaces
the whole tag list and an empty value clears it. Use --content-file - to read content from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := contentFromFlags(cmd)
		if err != nil {
			return err
		}

		var u notes.NoteUpdate
		flags := cmd.Flags()
		if flags.Changed("title") {
			u.Title = &titleFlag
		}
		if content != nil {
			u.Content = content
		}
		if flags.Changed("tags") {
			tags := collectTags([]string{}, notes.ParseTagList(tagsFlag))
			u.Tags = &tags
		}
		if flags.Changed("pin") {
			u.IsPinned = &pinFlag
		}
		if u.Title == nil && u.Content == nil && u.Tags == nil && u.IsPinned == nil {
			return errors.New("nothing to update: set --title, --content, --content-file, --tags or --pin")
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
		if !s.store.UpdateNote(n.ID, u) {
			return fmt.Errorf("note not found: %s", n.ID)
		}

		n, _ = s.store.Note(n.ID)
		fmt.Fprintln(cmd.OutOrStdout(), "Note updated successfully!")
		printNote(cmd.OutOrStdout(), n)
		return s.Close()
	},
}

var deleteNoteCmd = &cobra.Command{
	Use:     "delete [note-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a note",
	Long:    `Delete a note permanently. If it was the active note, the first remaining note becomes active.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := resolveNote(s.store, args[0])
		if err != nil {
			return err
		}
		s.store.DeleteNote(n.ID)

		fmt.Fprintf(cmd.OutOrStdout(), "Note %s (%s) deleted.\n", n.ID, n.Title)
		return s.Close()
	},
}

var pinNoteCmd = &cobra.Command{
	Use:   "pin [note-id]",
	Short: "Toggle whether a note is pinned (the active note by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := resolveNote(s.store, noteArg(args))
		if err != nil {
			return err
		}
		s.store.TogglePinNote(n.ID)

		n, _ = s.store.Note(n.ID)
		state := "unpinned"
		if n.IsPinned {
			state = "pinned"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note %s is now %s.\n", n.ID, state)
		return s.Close()
	},
}

var openNoteCmd = &cobra.Command{
	Use:   "open [note-id]",
	Short: "Make a note the active note",
	Long:  `Make a note the active note, the one the editor opens. --clear leaves no note active.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !openClearFlag && len(args) == 0 {
			return errors.New("a note id is required unless --clear is set")
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if openClearFlag {
			s.store.SetActiveNote("")
			fmt.Fprintln(cmd.OutOrStdout(), "No note is active.")
			return s.Close()
		}

		n, err := resolveNote(s.store, args[0])
		if err != nil {
			return err
		}
		s.store.SetActiveNote(n.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Active note: %s (%s)\n", n.ID, n.Title)
		return s.Close()
	},
}

// contentFromFlags returns the content set by --content or --content-file,
// or nil if neither was given.
func contentFromFlags(cmd *cobra.Command) (*string, error) {
	flags := cmd.Flags()
	if flags.Changed("content") && flags.Changed("content-file") {
		return nil, errors.New("--content and --content-file are mutually exclusive")
	}
	if flags.Changed("content") {
		return &contentFlag, nil
	}
	if !flags.Changed("content-file") {
		return nil, nil
	}

	var (
		data []byte
		err  error
	)
	if contentFileFlag == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(contentFileFlag)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	content := string(data)
	return &content, nil
}

// collectTags adds each tag to base, skipping blanks and duplicates.
func collectTags(base, add []string) []string {
	tags := base
	for _, t := range add {
		tags, _ = notes.AddTag(tags, t)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags
}

func printNote(w io.Writer, n notes.Note) {
	fmt.Fprintf(w, "ID:       %s\n", n.ID)
	fmt.Fprintf(w, "Title:    %s\n", n.Title)
	fmt.Fprintf(w, "Pinned:   %t\n", n.IsPinned)
	fmt.Fprintf(w, "Tags:     %s\n", formatTags(n.Tags))
	fmt.Fprintf(w, "Created:  %s\n", render.DateTime(n.CreatedAt))
	fmt.Fprintf(w, "Updated:  %s (%s)\n", render.DateTime(n.UpdatedAt), humanize.Time(n.UpdatedAt))
	if text := render.ContentText(n.Content); text != "" {
		fmt.Fprintln(w, "Content:")
		fmt.Fprintln(w, text)
	}
}

func printNoteTable(w io.Writer, list []notes.Note, activeID string) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No notes found.")
		return
	}

	fmt.Fprintln(w, "  ID | Pin | Title | Tags | Updated")
	fmt.Fprintln(w, "------------------------------------------------------------")
	for _, n := range list {
		marker := " "
		if n.ID == activeID {
			marker = ">"
		}
		pin := " "
		if n.IsPinned {
			pin = "*"
		}
		fmt.Fprintf(w, "%s %s | %s | %s | %s | %s\n",
			marker, n.ID, pin, n.Title, formatTags(n.Tags), humanize.Time(n.UpdatedAt))
	}
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}

func initNotesCmd() {
	for _, c := range []*cobra.Command{newNoteCmd, editNoteCmd} {
		c.Flags().StringVar(&titleFlag, "title", "", "Note title")
		c.Flags().StringVar(&contentFlag, "content", "", "Note content (HTML)")
		c.Flags().StringVar(&contentFileFlag, "content-file", "", "Read note content from a file ('-' for stdin)")
		c.Flags().StringVar(&tagsFlag, "tags", "", "Comma-separated list of tags")
		c.Flags().BoolVar(&pinFlag, "pin", false, "Pin the note")
	}

	listNotesCmd.Flags().StringVarP(&listSearchFlag, "search", "s", "", "Only notes whose title or content contains this text")
	listNotesCmd.Flags().StringVarP(&listTagFlag, "tag", "t", "", "Only notes with this tag")
	listNotesCmd.Flags().BoolVar(&listSavedFlag, "saved", false, "Apply the saved search term and tag filter")

	showNoteCmd.Flags().StringVarP(&showFormatFlag, "format", "f", "text", "Output format: text, json or html")

	openNoteCmd.Flags().BoolVar(&openClearFlag, "clear", false, "Clear the active note")

	rootCmd.AddCommand(newNoteCmd, listNotesCmd, showNoteCmd, editNoteCmd, deleteNoteCmd, pinNoteCmd, openNoteCmd)
}
