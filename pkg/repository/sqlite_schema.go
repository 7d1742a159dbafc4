package repository

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the repository schema.
const Schema = `
-- Nodes table, one row per node
CREATE TABLE IF NOT EXISTS nodes (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL UNIQUE,
    parent_path TEXT,
    name TEXT NOT NULL,
    node_type TEXT NOT NULL,
    position INTEGER NOT NULL
);

-- Properties table, one row per node property
CREATE TABLE IF NOT EXISTS properties (
    node_id TEXT NOT NULL,
    name TEXT NOT NULL,
    value_type INTEGER NOT NULL,
    string_value TEXT,
    long_value INTEGER,
    binary_value BLOB,
    PRIMARY KEY (node_id, name)
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nodes_parent_position ON nodes(parent_path, position);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

// InsertRootNode creates the root node if it does not exist.
const InsertRootNode = `
INSERT INTO nodes (id, path, parent_path, name, node_type, position)
VALUES (?, '/', NULL, '', ?, 0)
ON CONFLICT(path) DO NOTHING;
`
