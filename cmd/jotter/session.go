package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unowned-ai/jotter/pkg/config"
	pkgdb "github.com/unowned-ai/jotter/pkg/db"
	"github.com/unowned-ai/jotter/pkg/filestore"
	"github.com/unowned-ai/jotter/pkg/logging"
	"github.com/unowned-ai/jotter/pkg/notes"
	"github.com/unowned-ai/jotter/pkg/utils"
	"github.com/unowned-ai/jotter/pkg/watch"
)

// session bundles everything a command needs: the effective config, the
// logger and an opened note store.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *notes.Store

	// watchFiles are the files another process rewrites when it saves.
	watchFiles []string
	info       string
	kv         *pkgdb.KVStore
	closed     bool
}

// loadConfig reads the config file and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = utils.GetDefaultConfigPath()
	}
	path, err := utils.ExpandHome(path)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("storage") {
		cfg.Storage.Driver = storageDriver
	}
	if flags.Changed("db") {
		cfg.Storage.Path = dbPath
	}
	if flags.Changed("wal") {
		cfg.Storage.WAL = walMode
	}
	if flags.Changed("sync") {
		cfg.Storage.Sync = strings.ToUpper(syncMode)
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession loads config, builds the logger and opens the configured
// storage backend.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, logger: logger}

	var storage notes.Storage
	switch cfg.Storage.Driver {
	case config.DriverFile:
		dir, err := utils.ResolveStateDir(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		fs, err := filestore.New(dir)
		if err != nil {
			return nil, err
		}
		storage = fs
		s.watchFiles = []string{fs.PathFor(cfg.Storage.Key)}
		s.info = fs.PathFor(cfg.Storage.Key)

	default:
		path, err := utils.ResolveAndEnsureDBPath(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		kv, err := pkgdb.Connect(pkgdb.Options{Path: path, WAL: cfg.Storage.WAL, Sync: cfg.Storage.Sync}, logger)
		if err != nil {
			return nil, err
		}
		storage = kv
		s.kv = kv
		s.watchFiles = []string{path, path + "-wal"}
		s.info = path
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := notes.Open(ctx, storage,
		notes.WithLogger(logger),
		notes.WithStorageKey(cfg.Storage.Key),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open notes: %w", err)
	}
	s.store = store

	logger.Debug("opened note store",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("location", s.info),
		zap.Int("notes", len(store.Notes())))
	return s, nil
}

// Close reports a pending persistence failure and releases the backend.
func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.store != nil {
		if err := s.store.Err(); err != nil {
			errs = append(errs, fmt.Errorf("last save failed: %w", err))
		}
	}
	if s.kv != nil {
		if err := s.kv.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	_ = s.logger.Sync()
	return errors.Join(errs...)
}

// startWatcher reloads the store when another process saves. It returns nil
// when watching is disabled in the config.
func (s *session) startWatcher(ctx context.Context) (*watch.Watcher, error) {
	if !s.cfg.Editor.WatchEnabled() {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	w, err := watch.Start(ctx, s.watchFiles, s.store, watch.Options{Logger: s.logger})
	if err != nil {
		return nil, fmt.Errorf("failed to watch storage: %w", err)
	}
	return w, nil
}

// resolveNote finds a note by full id or by an unambiguous id prefix.
func resolveNote(store *notes.Store, ref string) (notes.Note, error) {
	if ref == "" {
		n, ok := store.ActiveNote()
		if !ok {
			return notes.Note{}, errors.New("no note id given and no note is active")
		}
		return n, nil
	}
	if n, ok := store.Note(ref); ok {
		return n, nil
	}

	var matches []notes.Note
	for _, n := range store.Notes() {
		if strings.HasPrefix(n.ID, ref) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return notes.Note{}, fmt.Errorf("note not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return notes.Note{}, fmt.Errorf("note id prefix '%s' is ambiguous (%d matches)", ref, len(matches))
	}
}

// noteArg returns the optional first positional argument.
func noteArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
