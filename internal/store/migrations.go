package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// migrations are applied in order; migrations[i] brings the schema to
// version i+1.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			taken_at    TEXT NOT NULL,
			command     TEXT NOT NULL,
			filter      TEXT NOT NULL,
			version     TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS aggregate_metrics (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id),
			metric_name  TEXT NOT NULL,
			metric_value REAL NOT NULL,
			detail       TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS insights (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id),
			insight_key  TEXT NOT NULL,
			type         TEXT NOT NULL,
			priority     TEXT NOT NULL,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL,
			confidence   REAL NOT NULL,
			status       TEXT NOT NULL DEFAULT 'open'
		)`,
		`CREATE TABLE IF NOT EXISTS stock_predictions (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id         INTEGER NOT NULL REFERENCES snapshots(id),
			item                TEXT NOT NULL,
			days_left           INTEGER NOT NULL,
			current_stock       REAL NOT NULL,
			recommended_reorder REAL NOT NULL,
			confidence          REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_aggregate_snapshot ON aggregate_metrics(snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_insights_snapshot ON insights(snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_insights_status ON insights(status)`,
		`CREATE INDEX IF NOT EXISTS idx_insights_key ON insights(insight_key)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_snapshot ON stock_predictions(snapshot_id)`,
	},
}

// currentSchemaVersion is the version after every migration has run.
var currentSchemaVersion = len(migrations)

// Migrate applies every migration newer than the stored schema version.
// It is safe to call repeatedly.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var version int
	err := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for v := version; v < currentSchemaVersion; v++ {
		if err := db.applyMigration(v+1, migrations[v]); err != nil {
			return fmt.Errorf("migration v%d: %w", v+1, err)
		}
	}
	return nil
}

// applyMigration runs one migration's statements and records its version
// in the same transaction.
func (db *DB) applyMigration(version int, statements []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %.40q: %w", stmt, err)
		}
	}
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}
