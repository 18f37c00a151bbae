package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	jotter "github.com/unowned-ai/jotter/pkg"
)

var (
	configPath    string
	dbPath        string
	storageDriver string
	walMode       bool
	syncMode      string
	logLevel      string
)

var rootCmd = &cobra.Command{
	Use:           "jotter",
	Short:         "Take short rich-text notes, tag them, pin them and find them again.",
	Long:          ``,
	Version:       fmt.Sprintf("v%s", jotter.Version),
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for jotter.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(jotter completion bash)

  Bash (persist):
    $ jotter completion bash > /etc/bash_completion.d/jotter

  Zsh:
    $ jotter completion zsh > "${fpath[1]}/_jotter"

  Fish:
    $ jotter completion fish | source
    $ jotter completion fish > ~/.config/fish/completions/jotter.fish

  PowerShell:
    PS> jotter completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of jotter",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), jotter.Version)
	},
}

func initCmd() {
	// Persistent flags override the config file for every command.
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: per-OS config dir)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file (sqlite) or state directory (file); uses a system-specific default if not provided")
	rootCmd.PersistentFlags().StringVar(&storageDriver, "storage", "", "Storage driver: sqlite or file (default from config: sqlite)")
	rootCmd.PersistentFlags().BoolVar(&walMode, "wal", false, "Enable SQLite WAL (Write-Ahead Logging) mode")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", "FULL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config: warn)")

	initNotesCmd()
	initTagsCmd()
	initViewCmd()
	initTransferCmd()
	initDBCmd()
	initConfigCmd()
	initMCPCmd()
	initTUICmd()

	rootCmd.AddCommand(completionCmd, versionCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
