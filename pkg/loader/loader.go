// Package loader reads an equation-definition YAML file and a panel CSV
// file from disk, the two inputs cmd/eqmodel needs to call
// eqmodel.BuildModel and Model.Solve. The two files are read concurrently
// via errgroup since neither depends on the other.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/eqmodel/pkg/dataset"
)

// ModelFile is the on-disk shape of an equation-definition YAML file.
type ModelFile struct {
	Equations  []string `yaml:"equations"`
	Endogenous []string `yaml:"endogenous"`
}

// LoadModelFile reads and parses a ModelFile from path.
func LoadModelFile(path string) (*ModelFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file %s: %w", path, err)
	}

	var mf ModelFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parsing model file %s: %w", path, err)
	}
	if len(mf.Equations) == 0 {
		return nil, fmt.Errorf("model file %s declares no equations", path)
	}
	if len(mf.Endogenous) == 0 {
		return nil, fmt.Errorf("model file %s declares no endogenous variables", path)
	}

	for i, name := range mf.Endogenous {
		mf.Endogenous[i] = strings.ToLower(name)
	}

	return &mf, nil
}

// LoadPanelCSV reads a panel dataset from a CSV file whose header row gives
// the column (variable) names and each subsequent row one time period.
func LoadPanelCSV(path string) (*dataset.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening panel file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading panel header %s: %w", path, err)
	}

	var rows [][]float64
	for lineNum := 2; ; lineNum++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading panel row %d of %s: %w", lineNum, path, err)
		}
		if len(record) != len(header) {
			return nil, fmt.Errorf("panel row %d of %s has %d fields, expected %d", lineNum, path, len(record), len(header))
		}

		row := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("panel row %d of %s, column %q: %w", lineNum, path, header[i], err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	return dataset.NewMatrixFromRows(header, rows)
}

// Bundle is the pair of inputs needed to build and solve a model.
type Bundle struct {
	Model *ModelFile
	Data  *dataset.Matrix
}

// LoadAll reads modelPath and panelPath concurrently and returns both, or
// the first error encountered. A failure here is always fatal: both files
// are required to build a model.
func LoadAll(ctx context.Context, modelPath, panelPath string) (*Bundle, error) {
	var bundle Bundle

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		mf, err := LoadModelFile(modelPath)
		if err != nil {
			return err
		}
		bundle.Model = mf
		return nil
	})
	g.Go(func() error {
		data, err := LoadPanelCSV(panelPath)
		if err != nil {
			return err
		}
		bundle.Data = data
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &bundle, nil
}
