package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	// TargetSchemaVersion is the highest schema version this build understands.
	TargetSchemaVersion int64 = 1
	// StateDBComponent names the key-value state component in jotter_versions.
	StateDBComponent = "statedb"
)

// GetComponentSchemaVersion returns the stored schema version for a component,
// or 0 when the component or the version table does not exist yet.
func GetComponentSchemaVersion(db *sql.DB, componentName string) (int64, error) {
	var version int64
	err := db.QueryRow(`SELECT version FROM jotter_versions WHERE component = ?;`, componentName).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") && strings.Contains(err.Error(), "jotter_versions") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates every table and records schemaVersionToSet for the
// state component.
func InitializeSchema(db *sql.DB, schemaVersionToSet int64) error {
	if _, err := db.Exec(SchemaV1); err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	upsertVersion := `
INSERT INTO jotter_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

	if _, err := db.Exec(upsertVersion, StateDBComponent, schemaVersionToSet); err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", StateDBComponent, schemaVersionToSet, err)
	}
	return nil
}

// UpgradeDB brings the state component to targetVersion. A fresh database is
// initialized; an older or newer one is refused since no migrations exist yet.
func UpgradeDB(db *sql.DB, dbIdentifierForLog string, targetVersion int64, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("component", StateDBComponent), zap.String("db", dbIdentifierForLog))

	current, err := GetComponentSchemaVersion(db, StateDBComponent)
	if err != nil {
		return err
	}

	switch {
	case current == 0:
		log.Info("initializing schema", zap.Int64("version", targetVersion))
		if err := InitializeSchema(db, targetVersion); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", StateDBComponent, dbIdentifierForLog, err)
		}
		return nil
	case current == targetVersion:
		log.Debug("schema up to date", zap.Int64("version", current))
		return nil
	case current < targetVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d. Automatic migration from this older version is not yet supported", StateDBComponent, dbIdentifierForLog, current, targetVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", StateDBComponent, dbIdentifierForLog, current, targetVersion)
	}
}
