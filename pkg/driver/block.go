package driver

import (
	"fmt"

	"github.com/vanderheijden86/eqmodel/pkg/compiler"
	"github.com/vanderheijden86/eqmodel/pkg/dataset"
	"github.com/vanderheijden86/eqmodel/pkg/model"
	"github.com/vanderheijden86/eqmodel/pkg/solver"
)

// runBlock builds the seed and exogenous vectors for blk at period p by
// reading data, runs Newton-Raphson, and writes the converged values back
// into data. The returned Diagnostic always reflects what happened,
// independent of the returned error (which is nil only on convergence).
func runBlock(blk *compiler.Compiled, blockIndex, p int, data dataset.Dataset, cfg model.SolveConfig) (Diagnostic, error) {
	diag := Diagnostic{
		Period:     p,
		BlockIndex: blockIndex,
		Endogenous: blk.Endogenous,
		Exogenous:  blk.Exogenous,
	}
	values := make(map[string]float64, len(blk.Endogenous)+len(blk.Exogenous))

	fail := func(err error) (Diagnostic, error) {
		diag.Status = StatusDidNotConverge
		diag.Values = values
		if modelErr, ok := err.(*model.Error); ok {
			err = modelErr.WithBlock(blockIndex, fmt.Sprint(p), blk.Endogenous, blk.Exogenous, values)
		}
		diag.Err = err
		return diag, err
	}

	seed := make([]float64, len(blk.Endogenous))
	for i, name := range blk.Endogenous {
		v, err := data.Get(p, name)
		if err != nil {
			return fail(err)
		}
		seed[i] = v
		values[name] = v
	}

	exo := make([]float64, len(blk.Exogenous))
	for i, name := range blk.Exogenous {
		period, base := resolvePeriod(p, name)
		v, err := data.Get(period, base)
		if err != nil {
			return fail(err)
		}
		exo[i] = v
		values[name] = v
	}

	res, err := solver.Solve(blk, seed, exo, cfg)
	if err != nil {
		return fail(err)
	}

	for i, name := range blk.Endogenous {
		values[name] = res.Values[i]
		if setErr := data.Set(p, name, res.Values[i]); setErr != nil {
			return fail(setErr)
		}
	}

	diag.Status = StatusConverged
	diag.Iterations = res.Iterations
	diag.Values = values
	return diag, nil
}

// resolvePeriod decodes canonical exogenous name into the dataset column to
// read (the base variable name) and the period to read it at (p - lag for
// a lagged reference, p itself for a current-period one).
func resolvePeriod(p int, canonical string) (period int, base string) {
	ref, ok := model.DecodeLag(canonical)
	if !ok {
		// Unreachable for names produced by pkg/lexer; defensive only.
		panic(fmt.Sprintf("driver: malformed canonical name %q", canonical))
	}
	return p - ref.Lag, ref.Base
}
