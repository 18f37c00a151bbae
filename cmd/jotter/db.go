package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/jotter/pkg/config"
	pkgdb "github.com/unowned-ai/jotter/pkg/db"
	"github.com/unowned-ai/jotter/pkg/logging"
	"github.com/unowned-ai/jotter/pkg/notes"
	"github.com/unowned-ai/jotter/pkg/utils"
)

var dbResetYesFlag bool

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management commands",
	Long:  `Commands for managing the jotter SQLite database: schema upgrades and raw key maintenance.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the jotter database schema to the latest version",
	Long: `Connects to the SQLite database (the --db flag or the configured default) and brings the
state schema up to the current application version. A missing or uninitialized database is
created and initialized.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := sqliteConfig(cmd)
		if err != nil {
			return err
		}
		path, err := utils.ResolveAndEnsureDBPath(cfg.Storage.Path)
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		defer logger.Sync()

		fmt.Fprintf(cmd.OutOrStdout(), "Upgrading database at: %s (WAL: %t, Sync: %s)\n", path, cfg.Storage.WAL, cfg.Storage.Sync)

		conn, err := pkgdb.Open(pkgdb.Options{Path: path, WAL: cfg.Storage.WAL, Sync: cfg.Storage.Sync})
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := pkgdb.UpgradeDB(conn, path, pkgdb.TargetSchemaVersion, logger); err != nil {
			return err
		}
		version, err := pkgdb.GetComponentSchemaVersion(conn, pkgdb.StateDBComponent)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d\n", version)
		return nil
	},
}

var dbKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the storage keys held in the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := connectKV(cmd)
		if err != nil {
			return err
		}
		defer kv.Close()

		keys, err := kv.Keys(cmd.Context())
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No keys stored.")
			return nil
		}
		for _, k := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
		return nil
	},
}

var dbResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Delete a storage key, discarding the state stored under it",
	Long: `Delete the value stored under a key (the configured storage key by default). The next
command starts from an empty state. Requires --yes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !dbResetYesFlag {
			return errors.New("reset discards stored state; re-run with --yes to confirm")
		}

		kv, err := connectKV(cmd)
		if err != nil {
			return err
		}
		defer kv.Close()

		key := noteArg(args)
		if key == "" {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			key = cfg.Storage.Key
		}

		if err := kv.RemoveItem(cmd.Context(), key); err != nil {
			if errors.Is(err, notes.ErrNoItem) {
				fmt.Fprintf(cmd.OutOrStdout(), "Key '%s' not found, nothing to reset.\n", key)
				return nil
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Key '%s' removed.\n", key)
		return nil
	},
}

// sqliteConfig loads the config and rejects the file driver.
func sqliteConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Driver != config.DriverSQLite {
		return nil, fmt.Errorf("db commands need the %s storage driver (configured: %s)", config.DriverSQLite, cfg.Storage.Driver)
	}
	return cfg, nil
}

func connectKV(cmd *cobra.Command) (*pkgdb.KVStore, error) {
	cfg, err := sqliteConfig(cmd)
	if err != nil {
		return nil, err
	}
	path, err := utils.ResolveAndEnsureDBPath(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return pkgdb.Connect(pkgdb.Options{Path: path, WAL: cfg.Storage.WAL, Sync: cfg.Storage.Sync}, logger)
}

func initDBCmd() {
	dbResetCmd.Flags().BoolVarP(&dbResetYesFlag, "yes", "y", false, "Confirm deleting the key")

	dbCmd.AddCommand(dbUpgradeCmd, dbKeysCmd, dbResetCmd)
	rootCmd.AddCommand(dbCmd)
}
