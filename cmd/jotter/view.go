package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchTagFlag   string
	searchClearFlag bool
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Set the saved search term and tag filter, then list matching notes",
	Long: `Store a search term and an optional tag filter in the app state, the same filter the
editor applies, and list the notes that match. Matching is case-insensitive on title and
content; the tag must match exactly. --clear removes both.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if searchClearFlag {
			s.store.SetSearchTerm("")
			s.store.SetSelectedTag("")
		} else {
			if len(args) > 0 {
				s.store.SetSearchTerm(args[0])
			}
			if cmd.Flags().Changed("tag") {
				s.store.SetSelectedTag(searchTagFlag)
			}
		}

		printNoteTable(cmd.OutOrStdout(), s.store.FilteredNotes(), s.store.Snapshot().ActiveID())
		return s.Close()
	},
}

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light|toggle]",
	Short:     "Show or change the display theme",
	ValidArgs: []string{"dark", "light", "toggle"},
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		dark := s.store.Snapshot().IsDarkMode
		switch noteArg(args) {
		case "toggle":
			dark = s.store.ToggleDarkMode()
		case "dark":
			if !dark {
				dark = s.store.ToggleDarkMode()
			}
		case "light":
			if dark {
				dark = s.store.ToggleDarkMode()
			}
		}

		theme := "light"
		if dark {
			theme = "dark"
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.ToUpper(theme[:1])+theme[1:]+" mode")
		return s.Close()
	},
}

func initViewCmd() {
	searchCmd.Flags().StringVarP(&searchTagFlag, "tag", "t", "", "Only notes with this tag (empty for all)")
	searchCmd.Flags().BoolVar(&searchClearFlag, "clear", false, "Clear the saved search term and tag filter")

	rootCmd.AddCommand(searchCmd, themeCmd)
}
