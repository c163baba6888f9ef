package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/eqmodel/pkg/loader"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadModelFile_Valid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "model.yaml", `
equations:
  - "income = consumption + investment"
  - "consumption = 0.8 * income"
endogenous:
  - income
  - consumption
`)

	mf, err := loader.LoadModelFile(path)
	if err != nil {
		t.Fatalf("LoadModelFile failed: %v", err)
	}
	if len(mf.Equations) != 2 {
		t.Errorf("expected 2 equations, got %d", len(mf.Equations))
	}
	if len(mf.Endogenous) != 2 {
		t.Errorf("expected 2 endogenous names, got %d", len(mf.Endogenous))
	}
}

func TestLoadModelFile_NoEquations(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "model.yaml", "endogenous: [x]\n")

	_, err := loader.LoadModelFile(path)
	if err == nil || !strings.Contains(err.Error(), "no equations") {
		t.Fatalf("expected 'no equations' error, got %v", err)
	}
}

func TestLoadModelFile_NoEndogenous(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "model.yaml", "equations: [\"x = 1\"]\n")

	_, err := loader.LoadModelFile(path)
	if err == nil || !strings.Contains(err.Error(), "no endogenous") {
		t.Fatalf("expected 'no endogenous' error, got %v", err)
	}
}

func TestLoadModelFile_NonExistent(t *testing.T) {
	_, err := loader.LoadModelFile("/nonexistent/model.yaml")
	if err == nil {
		t.Fatal("expected error for missing model file")
	}
}

func TestLoadPanelCSV_Valid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "panel.csv", "x,z\n1,2\n3,4\n")

	data, err := loader.LoadPanelCSV(path)
	if err != nil {
		t.Fatalf("LoadPanelCSV failed: %v", err)
	}
	if data.Periods() != 2 {
		t.Fatalf("expected 2 periods, got %d", data.Periods())
	}
	got, err := data.Get(1, "z")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != 4 {
		t.Errorf("expected 4, got %v", got)
	}
}

func TestLoadPanelCSV_RaggedRow(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "panel.csv", "x,z\n1,2\n3\n")

	_, err := loader.LoadPanelCSV(path)
	if err == nil {
		t.Fatal("expected error for ragged row")
	}
}

func TestLoadPanelCSV_NonNumericField(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "panel.csv", "x,z\nabc,2\n")

	_, err := loader.LoadPanelCSV(path)
	if err == nil {
		t.Fatal("expected error for non-numeric field")
	}
}

func TestLoadAll_BothFilesLoaded(t *testing.T) {
	dir := t.TempDir()
	modelPath := writeFile(t, dir, "model.yaml", "equations: [\"x = z\"]\nendogenous: [x]\n")
	panelPath := writeFile(t, dir, "panel.csv", "x,z\n0,5\n")

	bundle, err := loader.LoadAll(context.Background(), modelPath, panelPath)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(bundle.Model.Equations) != 1 {
		t.Errorf("expected 1 equation, got %d", len(bundle.Model.Equations))
	}
	if bundle.Data.Periods() != 1 {
		t.Errorf("expected 1 period, got %d", bundle.Data.Periods())
	}
}

func TestLoadAll_FailsOnMissingModelFile(t *testing.T) {
	dir := t.TempDir()
	panelPath := writeFile(t, dir, "panel.csv", "x\n1\n")

	_, err := loader.LoadAll(context.Background(), "/nonexistent/model.yaml", panelPath)
	if err == nil {
		t.Fatal("expected error for missing model file")
	}
}
