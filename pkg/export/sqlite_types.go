// Package export writes a solved working dataset to a SQLite database for
// offline inspection, using a client-side-query oriented schema (one row
// per period/variable, plus a meta table).
package export

import "time"

// ExportCell is a single (period, variable, value) observation from a
// solved working dataset.
type ExportCell struct {
	Period   int     `json:"period"`
	Variable string  `json:"variable"`
	Value    float64 `json:"value"`
	Solved   bool    `json:"solved"` // true for endogenous cells written by the solve
}

// ExportDiagnostic mirrors a driver.Diagnostic for export.
type ExportDiagnostic struct {
	Period     int      `json:"period"`
	BlockIndex int      `json:"block_index"`
	Status     string   `json:"status"`
	Endogenous []string `json:"endogenous"`
	Exogenous  []string `json:"exogenous"`
}

// ExportMeta contains metadata about the export.
type ExportMeta struct {
	Version       string    `json:"version"`
	GeneratedAt   time.Time `json:"generated_at"`
	PeriodCount   int       `json:"period_count"`
	VariableCount int       `json:"variable_count"`
	BlockCount    int       `json:"block_count"`
	Title         string    `json:"title,omitempty"`
}

// SQLiteExportConfig configures the SQLite export process.
type SQLiteExportConfig struct {
	// Title is a custom title recorded in the meta table.
	Title string

	// PageSize is the SQLite page size.
	PageSize int
}

// DefaultSQLiteExportConfig returns sensible defaults for export configuration.
func DefaultSQLiteExportConfig() SQLiteExportConfig {
	return SQLiteExportConfig{
		PageSize: 4096,
	}
}
