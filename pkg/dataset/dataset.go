// Package dataset defines the time-indexed panel dataset the solver reads
// exogenous/lagged values from and writes solved endogenous values back
// into.
package dataset

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/eqmodel/pkg/model"
)

// Dataset is a labeled, mutable 2-D panel: one row per time period, one
// column per variable. Periods are addressed by zero-based offset into the
// panel, not by a calendar label, matching the solver's "period - lag"
// indexing.
type Dataset interface {
	// Periods returns the number of rows (time periods) in the panel.
	Periods() int

	// Variables returns the column names, in column order.
	Variables() []string

	// ColumnIndex returns the column index of name, or false if absent.
	ColumnIndex(name string) (int, bool)

	// Get returns the value of column name at period p.
	Get(p int, name string) (float64, error)

	// Set writes value into column name at period p. Set must succeed for
	// any column that already exists in Variables(); it never grows the
	// dataset with new columns.
	Set(p int, name string, value float64) error
}

// Matrix is a dense, in-memory reference Dataset implementation: a
// row-major [][]float64 plus a name-to-column index.
type Matrix struct {
	columns []string
	index   map[string]int
	rows    [][]float64
}

// NewMatrix builds a Matrix with the given column names and periods rows,
// all initialized to 0. Column lookup by name is case-insensitive.
func NewMatrix(columns []string, periods int) *Matrix {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[strings.ToLower(c)] = i
	}
	rows := make([][]float64, periods)
	for p := range rows {
		rows[p] = make([]float64, len(columns))
	}
	return &Matrix{columns: append([]string(nil), columns...), index: idx, rows: rows}
}

// NewMatrixFromRows builds a Matrix directly from pre-populated rows, one
// []float64 per period, each sized len(columns).
func NewMatrixFromRows(columns []string, rows [][]float64) (*Matrix, error) {
	m := NewMatrix(columns, 0)
	for p, row := range rows {
		if len(row) != len(columns) {
			return nil, model.NewError(model.KindInputShapeMismatch,
				fmt.Sprintf("row %d has %d values, expected %d columns", p, len(row), len(columns)))
		}
		m.rows = append(m.rows, append([]float64(nil), row...))
	}
	return m, nil
}

func (m *Matrix) Periods() int { return len(m.rows) }

func (m *Matrix) Variables() []string { return append([]string(nil), m.columns...) }

func (m *Matrix) ColumnIndex(name string) (int, bool) {
	i, ok := m.index[strings.ToLower(name)]
	return i, ok
}

func (m *Matrix) Get(p int, name string) (float64, error) {
	if p < 0 || p >= len(m.rows) {
		return 0, model.NewError(model.KindInputShapeMismatch, fmt.Sprintf("period %d out of range [0,%d)", p, len(m.rows)))
	}
	i, ok := m.index[strings.ToLower(name)]
	if !ok {
		return 0, model.NewError(model.KindUnknownVariable, fmt.Sprintf("dataset has no column %q", name))
	}
	return m.rows[p][i], nil
}

func (m *Matrix) Set(p int, name string, value float64) error {
	if p < 0 || p >= len(m.rows) {
		return model.NewError(model.KindInputShapeMismatch, fmt.Sprintf("period %d out of range [0,%d)", p, len(m.rows)))
	}
	i, ok := m.index[strings.ToLower(name)]
	if !ok {
		return model.NewError(model.KindUnknownVariable, fmt.Sprintf("dataset has no column %q", name))
	}
	m.rows[p][i] = value
	return nil
}
