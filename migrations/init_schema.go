package migrations

import (
	"database/sql"
	"fmt"
)

// InitSchema creates the synchronization tables when they do not exist yet,
// so the call is safe on every startup. The join tables are asymmetric:
// events_classrooms carries a primary key on the pair while
// events_instructors keeps whatever cardinality the source reports.
func InitSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS classrooms (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS instructors (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			department TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS unites (
			id BIGINT PRIMARY KEY,
			name TEXT,
			code TEXT,
			branch TEXT,
			label TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id BIGINT PRIMARY KEY,
			activity_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			start_at TIMESTAMPTZ NOT NULL,
			end_at TIMESTAMPTZ NOT NULL,
			unite_id BIGINT,
			description TEXT,
			category TEXT,
			info TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS events_classrooms (
			event_id BIGINT NOT NULL,
			classroom_id BIGINT NOT NULL,
			PRIMARY KEY (event_id, classroom_id)
		)`,
		`CREATE TABLE IF NOT EXISTS events_instructors (
			event_id BIGINT NOT NULL,
			instructor_id BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sync_runs (
			id UUID PRIMARY KEY,
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL,
			classrooms INTEGER NOT NULL,
			instructors INTEGER NOT NULL,
			unites INTEGER NOT NULL,
			events INTEGER NOT NULL,
			events_classrooms INTEGER NOT NULL,
			events_instructors INTEGER NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
