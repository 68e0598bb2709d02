package db

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the single source of truth for the database schema. Tests load it
// via GetSchemaSQL() instead of declaring their own tables, so a repository
// that references a missing column fails immediately with "no such column".
const SchemaSQL = `
-- Work drafts (technician buffers per order, seeded from the server copy)
CREATE TABLE IF NOT EXISTS work_drafts (
	order_id TEXT PRIMARY KEY,
	radicado TEXT NOT NULL DEFAULT '',
	work_json TEXT NOT NULL DEFAULT '{}',
	signature TEXT,
	email TEXT,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_work_drafts_updated ON work_drafts(updated_at);

-- Session (single row holding the bearer credential)
CREATE TABLE IF NOT EXISTS session (
	id INTEGER PRIMARY KEY CHECK(id = 1),
	username TEXT NOT NULL,
	token TEXT NOT NULL,
	saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		// schema_version table exists - run any pending migrations
		return RunMigrations()
	}

	// Fresh install - create the current schema directly and mark every
	// migration as applied
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
