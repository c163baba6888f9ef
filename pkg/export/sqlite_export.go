// Package export writes a solved working dataset to a SQLite database for
// offline inspection: open db, create schema, insert in transactions,
// write meta, close.
package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanderheijden86/eqmodel/pkg/dataset"
	"github.com/vanderheijden86/eqmodel/pkg/driver"

	_ "modernc.org/sqlite"
)

// Exporter writes a solved dataset.Dataset and its driver.Report to SQLite.
type Exporter struct {
	Data       dataset.Dataset
	Report     *driver.Report
	Endogenous map[string]bool // canonical variable name -> true if solved by the model
	Config     SQLiteExportConfig
}

// NewExporter creates an Exporter for the given solved data, solve report,
// and the set of endogenous variable names (used to set ExportCell.Solved).
func NewExporter(data dataset.Dataset, report *driver.Report, endogenousNames []string) *Exporter {
	endo := make(map[string]bool, len(endogenousNames))
	for _, name := range endogenousNames {
		endo[name] = true
	}
	return &Exporter{
		Data:       data,
		Report:     report,
		Endogenous: endo,
		Config:     DefaultSQLiteExportConfig(),
	}
}

// Export writes the SQLite database to outputDir/eqmodel.sqlite3.
func (e *Exporter) Export(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	dbPath := filepath.Join(outputDir, "eqmodel.sqlite3")
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := CreateSchema(db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if err := e.insertCells(db); err != nil {
		return fmt.Errorf("insert cells: %w", err)
	}

	if err := e.insertDiagnostics(db); err != nil {
		return fmt.Errorf("insert diagnostics: %w", err)
	}

	if err := e.insertMeta(db); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	if err := OptimizeDatabase(db, e.Config.PageSize); err != nil {
		return fmt.Errorf("optimize database: %w", err)
	}

	return nil
}

// insertCells writes one row per (period, variable) observation in Data.
func (e *Exporter) insertCells(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO cells (period, variable, value, solved)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	variables := e.Data.Variables()
	for p := 0; p < e.Data.Periods(); p++ {
		for _, v := range variables {
			value, err := e.Data.Get(p, v)
			if err != nil {
				return fmt.Errorf("read (%d,%s): %w", p, v, err)
			}
			solved := 0
			if e.Endogenous[v] {
				solved = 1
			}
			if _, err := stmt.Exec(p, v, value, solved); err != nil {
				return fmt.Errorf("insert (%d,%s): %w", p, v, err)
			}
		}
	}

	return tx.Commit()
}

// insertDiagnostics writes one row per driver.Diagnostic recorded by the
// solve. Array fields (Endogenous, Exogenous) are comma-joined into a TEXT
// column since names never contain commas, avoiding an encoding/json
// dependency for two string slices.
func (e *Exporter) insertDiagnostics(db *sql.DB) error {
	if e.Report == nil || len(e.Report.Diagnostics) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO diagnostics (period, block_index, status, endogenous, exogenous)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range e.Report.Diagnostics {
		_, err := stmt.Exec(
			d.Period,
			d.BlockIndex,
			d.Status.String(),
			strings.Join(d.Endogenous, ","),
			strings.Join(d.Exogenous, ","),
		)
		if err != nil {
			return fmt.Errorf("insert diagnostic (period %d, block %d): %w", d.Period, d.BlockIndex, err)
		}
	}

	return tx.Commit()
}

// insertMeta inserts export metadata as key/value rows.
func (e *Exporter) insertMeta(db *sql.DB) error {
	meta := map[string]string{
		"version":        "1.0.0",
		"generated_at":   time.Now().UTC().Format(time.RFC3339),
		"period_count":   fmt.Sprintf("%d", e.Data.Periods()),
		"variable_count": fmt.Sprintf("%d", len(e.Data.Variables())),
		"schema_version": fmt.Sprintf("%d", SchemaVersion),
	}
	if e.Config.Title != "" {
		meta["title"] = e.Config.Title
	}

	for key, value := range meta {
		if err := InsertMetaValue(db, key, value); err != nil {
			return fmt.Errorf("insert meta %s: %w", key, err)
		}
	}

	return nil
}
