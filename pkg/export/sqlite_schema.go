// Package export provides SQLite schema creation for solved-dataset export:
// a schema version constant, one function per table group, indexes created
// last.
package export

import (
	"database/sql"
	"fmt"
)

// SchemaVersion tracks the export schema for migrations.
const SchemaVersion = 1

// CreateSchema creates all tables and indexes in the database.
func CreateSchema(db *sql.DB) error {
	if err := createCellsTable(db); err != nil {
		return fmt.Errorf("create cells table: %w", err)
	}
	if err := createDiagnosticsTable(db); err != nil {
		return fmt.Errorf("create diagnostics table: %w", err)
	}
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	if err := createMetaTable(db); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}

	return nil
}

// createCellsTable creates the table holding every (period, variable, value)
// observation of the solved working dataset.
func createCellsTable(db *sql.DB) error {
	cellsSQL := `
		CREATE TABLE IF NOT EXISTS cells (
			period   INTEGER NOT NULL,
			variable TEXT NOT NULL,
			value    REAL NOT NULL,
			solved   INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (period, variable)
		)
	`
	if _, err := db.Exec(cellsSQL); err != nil {
		return fmt.Errorf("create cells table: %w", err)
	}

	return nil
}

// createDiagnosticsTable creates the table holding per-block solve
// diagnostics: one row for every attempted block solve, converged or not.
func createDiagnosticsTable(db *sql.DB) error {
	diagSQL := `
		CREATE TABLE IF NOT EXISTS diagnostics (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			period      INTEGER NOT NULL,
			block_index INTEGER NOT NULL,
			status      TEXT NOT NULL,
			endogenous  TEXT NOT NULL,
			exogenous   TEXT NOT NULL
		)
	`
	if _, err := db.Exec(diagSQL); err != nil {
		return fmt.Errorf("create diagnostics table: %w", err)
	}

	return nil
}

// createIndexes creates performance indexes for common queries.
func createIndexes(db *sql.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_cells_variable ON cells(variable)`,
		`CREATE INDEX IF NOT EXISTS idx_cells_period ON cells(period)`,
		`CREATE INDEX IF NOT EXISTS idx_diag_period ON diagnostics(period)`,
		`CREATE INDEX IF NOT EXISTS idx_diag_status ON diagnostics(status)`,
	}

	for _, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

// createMetaTable creates the export metadata table.
func createMetaTable(db *sql.DB) error {
	metaSQL := `
		CREATE TABLE IF NOT EXISTS export_meta (
			key   TEXT PRIMARY KEY,
			value TEXT
		)
	`
	if _, err := db.Exec(metaSQL); err != nil {
		return fmt.Errorf("create export_meta table: %w", err)
	}

	return nil
}

// OptimizeDatabase runs pragmas and a final VACUUM, sized for range-request
// (httpvfs-style) serving of the exported file.
func OptimizeDatabase(db *sql.DB, pageSize int) error {
	if pageSize <= 0 {
		pageSize = 4096
	}

	pragmas := []string{
		`PRAGMA journal_mode=DELETE`,
		fmt.Sprintf(`PRAGMA page_size=%d`, pageSize),
		`ANALYZE`,
		`PRAGMA optimize`,
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			continue
		}
	}

	if _, err := db.Exec(`VACUUM`); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}

	return nil
}

// InsertMetaValue inserts or updates a single export_meta key-value pair.
func InsertMetaValue(db *sql.DB, key, value string) error {
	_, err := db.Exec(`INSERT OR REPLACE INTO export_meta (key, value) VALUES (?, ?)`, key, value)
	return err
}
