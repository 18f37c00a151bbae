package db

const (
	// SchemaV1 creates the version table and the key-value table that holds
	// serialized application state.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS jotter_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS kv_store (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at REAL DEFAULT (unixepoch())
);
`
)
