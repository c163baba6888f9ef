package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/vanderheijden86/eqmodel/pkg/dataset"
	"github.com/vanderheijden86/eqmodel/pkg/driver"
)

// AssertNoCycles verifies that a GraphFixture's edges contain no cycle.
// Simple DFS-based check suitable for small test graphs.
func AssertNoCycles(t *testing.T, gf GraphFixture) {
	t.Helper()
	if hasCycle(gf) {
		t.Error("expected no cycle in fixture, found one")
	}
}

// AssertHasCycle verifies that a GraphFixture's edges contain at least one cycle.
func AssertHasCycle(t *testing.T, gf GraphFixture) {
	t.Helper()
	if !hasCycle(gf) {
		t.Error("expected a cycle in fixture, found none")
	}
}

func hasCycle(gf GraphFixture) bool {
	adj := make(map[int][]int)
	for _, e := range gf.Edges {
		adj[e[0]] = append(adj[e[0]], e[1])
	}

	visited := make(map[int]bool)
	inPath := make(map[int]bool)

	var visit func(n int) bool
	visit = func(n int) bool {
		if inPath[n] {
			return true
		}
		if visited[n] {
			return false
		}
		visited[n] = true
		inPath[n] = true
		for _, next := range adj[n] {
			if visit(next) {
				return true
			}
		}
		inPath[n] = false
		return false
	}

	for i := range gf.Nodes {
		if visit(i) {
			return true
		}
	}
	return false
}

// AssertConverged verifies every diagnostic in a driver.Report converged.
func AssertConverged(t *testing.T, report *driver.Report) {
	t.Helper()
	if report == nil {
		t.Fatal("expected a non-nil report")
	}
	if !report.Converged() {
		for _, d := range report.Diagnostics {
			if d.Status != driver.StatusConverged {
				t.Errorf("period %d block %d did not converge after %d iterations", d.Period, d.BlockIndex, d.Iterations)
			}
		}
	}
}

// AssertFinite verifies every cell of data at every period is finite
// (neither NaN nor +-Inf), catching a diverged Newton-Raphson iterate that
// was nonetheless accepted.
func AssertFinite(t *testing.T, data dataset.Dataset) {
	t.Helper()
	for p := 0; p < data.Periods(); p++ {
		for _, v := range data.Variables() {
			value, err := data.Get(p, v)
			if err != nil {
				t.Fatalf("Get(%d, %s): %v", p, v, err)
				continue
			}
			if math.IsNaN(value) || math.IsInf(value, 0) {
				t.Errorf("period %d variable %s is non-finite: %v", p, v, value)
			}
		}
	}
}

// AssertCloseTo verifies data.Get(period, name) is within tol of want.
func AssertCloseTo(t *testing.T, data dataset.Dataset, period int, name string, want, tol float64) {
	t.Helper()
	got, err := data.Get(period, name)
	if err != nil {
		t.Fatalf("Get(%d, %s): %v", period, name, err)
	}
	if math.Abs(got-want) > tol {
		t.Errorf("period %d variable %s: expected %v, got %v", period, name, want, got)
	}
}

// AssertJSONEqual compares two values after JSON round-tripping. Useful
// for comparing structs that may have different Go representations but
// equivalent JSON forms.
func AssertJSONEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}

	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}

	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()

	if g.update {
		if err := os.MkdirAll(g.dir, 0755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) != actual {
		expectedLines := strings.Split(string(expected), "\n")
		actualLines := strings.Split(actual, "\n")

		for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
			var expLine, actLine string
			if i < len(expectedLines) {
				expLine = expectedLines[i]
			}
			if i < len(actualLines) {
				actLine = actualLines[i]
			}
			if expLine != actLine {
				g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s\n\nFull diff (expected vs actual):\n%s\nvs\n%s",
					i+1, expLine, actLine, string(expected), actual)
				return
			}
		}
		g.t.Errorf("golden file mismatch (length differs)")
	}
}

// AssertJSON compares actual value as JSON against the golden file.
func (g *GoldenFile) AssertJSON(actual interface{}) {
	g.t.Helper()

	data, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		g.t.Fatalf("failed to marshal actual value: %v", err)
	}

	g.Assert(string(data))
}

// TempDir helpers

// WriteModelYAML writes a model definition YAML file to dir/model.yaml and
// returns its path.
func WriteModelYAML(t *testing.T, dir string, equations, endogenous []string) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("equations:\n")
	for _, eq := range equations {
		sb.WriteString("  - \"" + strings.ReplaceAll(eq, `"`, `\"`) + "\"\n")
	}
	sb.WriteString("endogenous:\n")
	for _, name := range endogenous {
		sb.WriteString("  - " + name + "\n")
	}

	path := filepath.Join(dir, "model.yaml")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatalf("failed to write model file: %v", err)
	}
	return path
}

// WritePanelCSV writes a panel CSV file to dir/panel.csv with the given
// header and rows, and returns its path.
func WritePanelCSV(t *testing.T, dir string, columns []string, rows [][]float64) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString(strings.Join(columns, ","))
	sb.WriteString("\n")
	for _, row := range rows {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		sb.WriteString(strings.Join(fields, ","))
		sb.WriteString("\n")
	}

	path := filepath.Join(dir, "panel.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatalf("failed to write panel file: %v", err)
	}
	return path
}
