package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the archive database schema.
const Schema = `
-- Query records table
CREATE TABLE IF NOT EXISTS query_records (
    id TEXT PRIMARY KEY,
    endpoint TEXT NOT NULL,
    expr TEXT,

    -- Queried time window (range queries and filtered lookups)
    range_start TIMESTAMP,
    range_end TIMESTAMP,
    step_ms INTEGER,

    -- Execution
    executed_at TIMESTAMP NOT NULL,
    duration_ms INTEGER NOT NULL,
    status TEXT NOT NULL,

    -- Outcome
    error_type TEXT,
    error TEXT,
    result_type TEXT,
    warning_count INTEGER,
    status_code INTEGER,
    attempts INTEGER,

    -- Origin
    server_url TEXT
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_query_records_executed_at ON query_records(executed_at);
CREATE INDEX IF NOT EXISTS idx_query_records_endpoint ON query_records(endpoint);
CREATE INDEX IF NOT EXISTS idx_query_records_status ON query_records(status);
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
