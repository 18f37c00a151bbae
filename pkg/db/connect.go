package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// validSyncModes lists the allowed values for the synchronous pragma.
var validSyncModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true,
}

// Options controls how the SQLite file is opened.
type Options struct {
	// Path is the database file, or ":memory:".
	Path string
	// WAL sets journal_mode=WAL.
	WAL bool
	// Sync is the synchronous pragma (OFF, NORMAL, FULL, EXTRA). Empty keeps the SQLite default.
	Sync string
}

// DSN builds the go-sqlite3 connection string for o.
func (o Options) DSN() (string, error) {
	params := url.Values{}

	if o.WAL {
		params.Add("_journal_mode", "WAL")
	}

	if o.Sync != "" {
		mode := strings.ToUpper(o.Sync)
		if !validSyncModes[mode] {
			return "", fmt.Errorf("invalid sync pragma value: %s. Must be one of OFF, NORMAL, FULL, EXTRA", o.Sync)
		}
		params.Add("_synchronous", mode)
	}

	dsn := o.Path
	if len(params) > 0 {
		if strings.Contains(dsn, "?") {
			dsn += "&" + params.Encode()
		} else {
			dsn += "?" + params.Encode()
		}
	}
	return dsn, nil
}

// Open connects to the SQLite database described by o and pings it.
func Open(o Options) (*sql.DB, error) {
	dsn, err := o.DSN()
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with DSN '%s': %w", dsn, err)
	}

	// A single connection keeps ":memory:" databases shared and serialises writers.
	conn.SetMaxOpenConns(1)

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database with DSN '%s': %w", dsn, err)
	}

	return conn, nil
}
