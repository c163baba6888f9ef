// Package driver iterates a compiled model's blocks over every solvable
// period of a panel dataset, invoking pkg/solver for each block and writing
// converged values back into the dataset.
package driver

import (
	"context"

	"github.com/vanderheijden86/eqmodel/pkg/compiler"
	"github.com/vanderheijden86/eqmodel/pkg/dataset"
	"github.com/vanderheijden86/eqmodel/pkg/debug"
	"github.com/vanderheijden86/eqmodel/pkg/metrics"
	"github.com/vanderheijden86/eqmodel/pkg/model"
)

// Status classifies how a single block solve at a single period ended.
type Status int

const (
	StatusConverged Status = iota
	StatusDidNotConverge
)

func (s Status) String() string {
	if s == StatusConverged {
		return "converged"
	}
	return "did-not-converge"
}

// Diagnostic records the outcome of solving one block at one period.
type Diagnostic struct {
	Period     int
	BlockIndex int
	Status     Status
	Iterations int
	Endogenous []string
	Exogenous  []string
	// Values holds the current numeric value of every name in Endogenous
	// and Exogenous at the point this diagnostic was recorded: the seed
	// (or converged) endogenous values and the exogenous inputs read for
	// this block/period, keyed by canonical name.
	Values map[string]float64
	Err    error
}

// Report is the accumulated diagnostics for an entire Run: one Diagnostic
// per (period, block) pair actually attempted.
type Report struct {
	Diagnostics []Diagnostic
}

// Converged reports whether every diagnostic in the report converged.
func (r *Report) Converged() bool {
	for _, d := range r.Diagnostics {
		if d.Status != StatusConverged {
			return false
		}
	}
	return true
}

// Blocks is the ordered list of compiled blocks a Run drives, alongside the
// model's maximum lag, which sets the first period solved.
type Blocks struct {
	Compiled []*compiler.Compiled
	MaxLag   int
}

// Run drives data period-by-period from period MaxLag through the last
// period of data, in topological block order. It mutates data in place
// and returns a Report describing every block solve
// attempted. A singular-jacobian failure aborts the run immediately and is
// returned as an error; a did-not-converge failure is recorded in the
// Report and the run continues with the next block.
func Run(ctx context.Context, blocks Blocks, data dataset.Dataset, cfg model.SolveConfig) (*Report, error) {
	report := &Report{}
	periods := data.Periods()

	for p := blocks.MaxLag; p < periods; p++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		for bi, blk := range blocks.Compiled {
			stop := metrics.Timer(metrics.PeriodSolve)
			diag, err := runBlock(blk, bi, p, data, cfg)
			stop()

			report.Diagnostics = append(report.Diagnostics, diag)

			if err != nil {
				var modelErr *model.Error
				if asModelError(err, &modelErr) && modelErr.Kind == model.KindSingularJacobian {
					debug.Log("period %d block %d: singular jacobian, aborting run", p, bi)
					return report, err
				}
				debug.Log("period %d block %d: did not converge: %v", p, bi, err)
				continue
			}
		}
	}

	return report, nil
}

func asModelError(err error, out **model.Error) bool {
	me, ok := err.(*model.Error)
	if ok {
		*out = me
	}
	return ok
}
