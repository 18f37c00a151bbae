package main

import (
	"github.com/spf13/cobra"

	"github.com/unowned-ai/jotter/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"ui"},
	Short:   "Open the terminal note editor",
	Long: `Display the three-column terminal editor: tags, the filtered note list and the active
note. Content edits are saved after editor.debounce of idle time and again on quit.`,
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

		err = tui.ShowTUI(s.store, tui.Options{
			Debounce:    s.cfg.Editor.Debounce,
			ExportDir:   s.cfg.Export.Dir,
			StorageInfo: s.info,
			Watching:    w != nil,
		})
		if err != nil {
			return err
		}
		return s.Close()
	},
}

func initTUICmd() {
	rootCmd.AddCommand(tuiCmd)
}
