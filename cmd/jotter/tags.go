package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/jotter/pkg/notes"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Add or remove tags on a note",
}

var tagAddCmd = &cobra.Command{
	Use:   "add [note-id] [tag]...",
	Short: "Add tags to a note",
	Long:  `Add one or more tags to a note. Tags are trimmed; blank tags and tags the note already has are skipped.`,
	Args:  cobra.MinimumNArgs(2),
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

		tags := n.Tags
		var added, skipped []string
		for _, t := range args[1:] {
			var ok bool
			tags, ok = notes.AddTag(tags, t)
			if ok {
				added = append(added, strings.TrimSpace(t))
			} else {
				skipped = append(skipped, t)
			}
		}

		out := cmd.OutOrStdout()
		if len(added) > 0 {
			s.store.UpdateNote(n.ID, notes.NoteUpdate{Tags: &tags})
			fmt.Fprintf(out, "Note %s tagged with: %s\n", n.ID, strings.Join(added, ", "))
		}
		if len(skipped) > 0 {
			fmt.Fprintf(out, "Skipped blank or existing tags: %s\n", strings.Join(skipped, ", "))
		}
		return s.Close()
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:     "remove [note-id] [tag]...",
	Aliases: []string{"rm"},
	Short:   "Remove tags from a note",
	Args:    cobra.MinimumNArgs(2),
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

		tags := n.Tags
		var removed, missing []string
		for _, t := range args[1:] {
			var ok bool
			tags, ok = notes.RemoveTag(tags, t)
			if ok {
				removed = append(removed, t)
			} else {
				missing = append(missing, t)
			}
		}

		out := cmd.OutOrStdout()
		if len(removed) > 0 {
			s.store.UpdateNote(n.ID, notes.NoteUpdate{Tags: &tags})
			fmt.Fprintf(out, "Tags removed from note %s: %s\n", n.ID, strings.Join(removed, ", "))
		}
		if len(missing) > 0 {
			fmt.Fprintf(out, "Some tags were not found on note %s: %s\n", n.ID, strings.Join(missing, ", "))
		}
		return s.Close()
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every tag in use",
	Long:  `List every tag used by any note, in the order tags first appear, with the number of notes carrying each.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		tags := s.store.Tags()
		out := cmd.OutOrStdout()
		if len(tags) == 0 {
			fmt.Fprintln(out, "No tags found.")
			return nil
		}

		counts := make(map[string]int)
		for _, n := range s.store.Notes() {
			for _, t := range n.Tags {
				counts[t]++
			}
		}
		for _, t := range tags {
			fmt.Fprintf(out, "%s (%d)\n", t, counts[t])
		}
		return nil
	},
}

func initTagsCmd() {
	tagCmd.AddCommand(tagAddCmd, tagRemoveCmd)
	rootCmd.AddCommand(tagCmd, tagsCmd)
}
