// Package eqmodel builds and solves a simultaneous system of algebraic
// equations with lagged terms over a time-indexed panel dataset: lex and
// normalize lag notation, find the variable partition and block structure,
// compile each block to an objective/Jacobian pair, and drive Newton-Raphson
// forward period by period.
package eqmodel

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/vanderheijden86/eqmodel/pkg/compiler"
	"github.com/vanderheijden86/eqmodel/pkg/dataset"
	"github.com/vanderheijden86/eqmodel/pkg/driver"
	"github.com/vanderheijden86/eqmodel/pkg/lexer"
	"github.com/vanderheijden86/eqmodel/pkg/metrics"
	"github.com/vanderheijden86/eqmodel/pkg/model"
	"github.com/vanderheijden86/eqmodel/pkg/structural"
	"github.com/vanderheijden86/eqmodel/pkg/symbolic"
)

// BlockView is the read-only, user-facing view of one compiled simultaneous
// block, with lagged exogenous names restored to display notation
// ("gdp(-1)") for diagnostics and reporting.
type BlockView struct {
	Endogenous []string
	Exogenous  []string
	Equations  []string
}

// Model is a fully analyzed and compiled equation system: the structural
// partition into blocks, each block's symbolic residual/Jacobian, and the
// solver configuration. Apart from the report of the latest Solve, which is
// stored atomically, a *Model is immutable after BuildModel returns and is
// safe to share across concurrent Solve calls, each supplying its own
// dataset.Dataset.
type Model struct {
	blocks     []*compiler.Compiled
	endogenous map[string]int // canonical name -> block index
	maxLag     int
	cfg        model.SolveConfig
	lastReport atomic.Pointer[driver.Report]
}

// Option configures a Model at construction time.
type Option func(*Model) error

// WithRootTolerance overrides the default Newton-Raphson convergence
// tolerance.
func WithRootTolerance(tol float64) Option {
	return func(m *Model) error {
		m.cfg.RootTolerance = tol
		return nil
	}
}

// WithMaxIterations overrides the default per-block iteration cap.
func WithMaxIterations(n int) Option {
	return func(m *Model) error {
		m.cfg.MaxIterations = n
		return nil
	}
}

// BuildModel lexes and normalizes every raw equation, finds the maximum
// bipartite matching and block partition over endogenousNames, and compiles
// each block's residual and Jacobian. It fails fast: on any error no
// partial *Model is returned.
func BuildModel(equations []string, endogenousNames []string, opts ...Option) (*Model, error) {
	building := &Model{cfg: model.DefaultSolveConfig()}
	for _, opt := range opts {
		if err := opt(building); err != nil {
			return nil, err
		}
	}
	cfg := building.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(equations) == 0 {
		return nil, model.NewError(model.KindBlankInput, "no equations supplied")
	}

	stopLex := metrics.Timer(metrics.LexAndNormalize)
	analyzed := make([]*model.Analyzed, 0, len(equations))
	for _, raw := range equations {
		a, err := lexer.Analyze(raw)
		if err != nil {
			stopLex()
			return nil, err
		}
		analyzed = append(analyzed, a)
	}
	stopLex()

	lowerEndogenous := make([]string, len(endogenousNames))
	for i, name := range endogenousNames {
		lowerEndogenous[i] = strings.ToLower(name)
	}

	stopStruct := metrics.Timer(metrics.StructuralAnalysis)
	analysis, err := structural.Analyze(analyzed, lowerEndogenous)
	stopStruct()
	if err != nil {
		return nil, err
	}

	stopCompile := metrics.Timer(metrics.BlockCompile)
	builder := symbolic.NewBuilder()
	compiled := make([]*compiler.Compiled, 0, len(analysis.Blocks))
	endogenousIndex := make(map[string]int)
	for bi, blk := range analysis.Blocks {
		c, err := compiler.Compile(builder, analyzed, blk)
		if err != nil {
			stopCompile()
			return nil, err
		}
		compiled = append(compiled, c)
		for _, name := range blk.Endogenous {
			endogenousIndex[name] = bi
		}
	}
	stopCompile()

	return &Model{
		blocks:     compiled,
		endogenous: endogenousIndex,
		maxLag:     analysis.MaxLag,
		cfg:        cfg,
	}, nil
}

// Blocks returns the model's blocks in solve order: each block's endogenous
// names, its exogenous names with lag references restored to display
// notation, and the original equation source strings it compiles.
func (m *Model) Blocks() []BlockView {
	out := make([]BlockView, 0, len(m.blocks))
	for _, c := range m.blocks {
		exo := make([]string, len(c.Exogenous))
		for i, name := range c.Exogenous {
			exo[i] = model.DisplayName(name)
		}
		out = append(out, BlockView{
			Endogenous: append([]string(nil), c.Endogenous...),
			Exogenous:  exo,
			Equations:  append([]string(nil), c.EquationStrings...),
		})
	}
	return out
}

// FindEndogenous returns the index of the block that solves for name, or
// false if name is not an endogenous variable of this model.
func (m *Model) FindEndogenous(name string) (int, bool) {
	i, ok := m.endogenous[name]
	return i, ok
}

// MaxLag returns the largest lag referenced anywhere in the model.
func (m *Model) MaxLag() int {
	return m.maxLag
}

// LastReport returns the driver.Report from the most recent Solve call, or
// nil if Solve has never been called.
func (m *Model) LastReport() *driver.Report {
	return m.lastReport.Load()
}

// Solve drives data forward from period MaxLag() through its last period,
// solving each block in topological order at every period, and returns data
// with its endogenous columns filled in. The same mutated data is returned
// for convenience; callers that need to preserve the input should copy it
// first. A singular-jacobian failure at any block aborts the solve and is
// returned as an error; did-not-converge failures are recorded in
// LastReport() and do not stop the run.
func (m *Model) Solve(ctx context.Context, data dataset.Dataset) (dataset.Dataset, error) {
	report, err := driver.Run(ctx, driver.Blocks{Compiled: m.blocks, MaxLag: m.maxLag}, data, m.cfg)
	m.lastReport.Store(report)
	if err != nil {
		return data, err
	}
	return data, nil
}
