// Package solver runs block-wise Newton-Raphson iteration over a compiled
// block's residual system.
package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/vanderheijden86/eqmodel/pkg/compiler"
	"github.com/vanderheijden86/eqmodel/pkg/model"
)

// Result is the outcome of one successful block solve: the converged
// endogenous values, in the same order as the compiled block's Endogenous,
// plus how many iterations it took.
type Result struct {
	Values     []float64
	Iterations int
}

// Solve runs Newton-Raphson on blk starting from seed (the block's initial
// guess for its own endogenous variables) with exogenous holding the
// block's exogenous inputs, both ordered to match blk.Endogenous/Exogenous.
//
// Iteration stops with success when the residual F is exactly zero
// (Iterations then counts the Newton steps already taken), or, after
// solving the linear system J*delta = -F for the Newton step, as soon as
// the step itself is within tolerance (no extra residual evaluation after
// acceptance) — unlike the source, which re-evaluated F one extra time
// purely to decide whether to stop.
func Solve(blk *compiler.Compiled, seed, exogenous []float64, cfg model.SolveConfig) (*Result, error) {
	n := blk.Size()
	if len(seed) != n {
		return nil, model.NewError(model.KindInputShapeMismatch,
			fmt.Sprintf("block expects %d endogenous seed values, got %d", n, len(seed)))
	}
	if len(exogenous) != len(blk.Exogenous) {
		return nil, model.NewError(model.KindInputShapeMismatch,
			fmt.Sprintf("block expects %d exogenous values, got %d", len(blk.Exogenous), len(exogenous)))
	}

	args := make([]float64, n+len(exogenous))
	x := append([]float64(nil), seed...)
	copy(args[n:], exogenous)

	fVec := mat.NewVecDense(n, nil)
	jMat := mat.NewDense(n, n, nil)
	delta := mat.NewVecDense(n, nil)

	for iter := 1; ; iter++ {
		copy(args[:n], x)

		blk.F(fVec, args)
		zero := true
		for i := 0; i < n; i++ {
			if fVec.AtVec(i) != 0 {
				zero = false
				break
			}
		}
		if zero {
			return &Result{Values: x, Iterations: iter - 1}, nil
		}
		if iter > cfg.MaxIterations {
			break
		}
		blk.J(jMat, args)

		// Solve J*delta = -F; delta.SolveVec treats its receiver as x in
		// a*x = b.
		neg := mat.NewVecDense(n, nil)
		neg.ScaleVec(-1, fVec)
		if err := delta.SolveVec(jMat, neg); err != nil {
			return nil, model.NewError(model.KindSingularJacobian,
				fmt.Sprintf("jacobian is singular or ill-conditioned at iteration %d", iter))
		}

		maxStep := 0.0
		for i := 0; i < n; i++ {
			step := delta.AtVec(i)
			x[i] += step
			if a := math.Abs(step); a > maxStep {
				maxStep = a
			}
		}

		if maxStep <= cfg.RootTolerance {
			return &Result{Values: x, Iterations: iter}, nil
		}
	}

	return nil, model.NewError(model.KindDidNotConverge,
		fmt.Sprintf("block did not converge within %d iterations (tolerance %g)", cfg.MaxIterations, cfg.RootTolerance))
}
