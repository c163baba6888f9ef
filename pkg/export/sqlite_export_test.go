package export

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/eqmodel/pkg/dataset"
	"github.com/vanderheijden86/eqmodel/pkg/driver"

	_ "modernc.org/sqlite"
)

func TestNewExporter(t *testing.T) {
	data := dataset.NewMatrix([]string{"x", "z"}, 2)
	exp := NewExporter(data, &driver.Report{}, []string{"x"})

	if exp == nil {
		t.Fatal("NewExporter returned nil")
	}
	if !exp.Endogenous["x"] {
		t.Error("expected x recorded as endogenous")
	}
	if exp.Endogenous["z"] {
		t.Error("did not expect z recorded as endogenous")
	}
	if exp.Config.PageSize != 4096 {
		t.Errorf("expected default page size 4096, got %d", exp.Config.PageSize)
	}
}

func TestExport_CreatesDatabaseWithCellsAndMeta(t *testing.T) {
	tmpDir := t.TempDir()

	data := dataset.NewMatrix([]string{"x", "z"}, 2)
	_ = data.Set(0, "x", 1)
	_ = data.Set(0, "z", 2)
	_ = data.Set(1, "x", 3)
	_ = data.Set(1, "z", 4)

	report := &driver.Report{
		Diagnostics: []driver.Diagnostic{
			{Period: 1, BlockIndex: 0, Status: driver.StatusConverged, Iterations: 3, Endogenous: []string{"x"}, Exogenous: []string{"z"}},
		},
	}

	exp := NewExporter(data, report, []string{"x"})
	if err := exp.Export(tmpDir); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "eqmodel.sqlite3")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file was not created")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open exported database: %v", err)
	}
	defer db.Close()

	var cellCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM cells`).Scan(&cellCount); err != nil {
		t.Fatalf("count cells: %v", err)
	}
	if cellCount != 4 {
		t.Errorf("expected 4 cells (2 periods x 2 variables), got %d", cellCount)
	}

	var solved int
	if err := db.QueryRow(`SELECT solved FROM cells WHERE period=1 AND variable='x'`).Scan(&solved); err != nil {
		t.Fatalf("query solved flag: %v", err)
	}
	if solved != 1 {
		t.Error("expected x marked solved")
	}

	var diagCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM diagnostics`).Scan(&diagCount); err != nil {
		t.Fatalf("count diagnostics: %v", err)
	}
	if diagCount != 1 {
		t.Errorf("expected 1 diagnostic row, got %d", diagCount)
	}

	var version string
	if err := db.QueryRow(`SELECT value FROM export_meta WHERE key='version'`).Scan(&version); err != nil {
		t.Fatalf("query meta version: %v", err)
	}
	if version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", version)
	}
}

func TestExport_NoDiagnosticsIsNotAnError(t *testing.T) {
	tmpDir := t.TempDir()
	data := dataset.NewMatrix([]string{"x"}, 1)

	exp := NewExporter(data, nil, []string{"x"})
	if err := exp.Export(tmpDir); err != nil {
		t.Fatalf("Export with nil report failed: %v", err)
	}
}
