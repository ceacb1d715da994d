// ABOUTME: SQLite schema definition and versioned initialization.
// ABOUTME: A version bump drops and recreates every table; the data is recreatable cache state.
package storage

import "fmt"

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 2

const schema = `
	CREATE TABLE IF NOT EXISTS draft_routine (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		routine_name TEXT NOT NULL DEFAULT '',
		routine_description TEXT NOT NULL DEFAULT '',
		routine_duration TEXT NOT NULL DEFAULT '',
		selected_exercises TEXT NOT NULL DEFAULT '[]',
		last_modified INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cached_exercises (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		exercise TEXT NOT NULL,
		cached_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS active_workout (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		routine_id TEXT NOT NULL,
		routine_name TEXT NOT NULL,
		exercise_count INTEGER NOT NULL,
		duration INTEGER NOT NULL,
		started_at INTEGER NOT NULL
	);
`

var dropStatements = []string{
	"DROP TABLE IF EXISTS draft_routine",
	"DROP TABLE IF EXISTS cached_exercises",
	"DROP TABLE IF EXISTS active_workout",
}

// initSchema creates the schema, discarding older versions.
func (d *DB) initSchema() error {
	var version int
	if err := d.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version != 0 && version != schemaVersion {
		for _, stmt := range dropStatements {
			if _, err := d.db.Exec(stmt); err != nil {
				return fmt.Errorf("drop old schema: %w", err)
			}
		}
	}

	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := d.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}
