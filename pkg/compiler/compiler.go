// Package compiler turns one structurally analyzed block into a compiled
// residual vector F and Jacobian J over that block's endogenous variables,
// ready for the Newton-Raphson solver.
package compiler

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/vanderheijden86/eqmodel/pkg/model"
	"github.com/vanderheijden86/eqmodel/pkg/structural"
	"github.com/vanderheijden86/eqmodel/pkg/symbolic"
)

// Compiled is a block's residual system, lowered to numeric closures over a
// fixed argument ordering: args[0:len(Endogenous)] are the block's own
// current-period unknowns, args[len(Endogenous):] are its exogenous inputs
// (current-period or lagged), in the order recorded by Endogenous/Exogenous.
type Compiled struct {
	Endogenous []string
	Exogenous  []string

	// residuals[i] is equation Equations[i]'s (lhs - rhs) expression tree,
	// diffs[i][j] is its derivative with respect to endogenous variable j.
	residuals []*symbolic.Node
	diffs     [][]*symbolic.Node

	// Equations holds the original equation indices this block compiles, in
	// the same order as residuals/diffs, carried through from
	// structural.Block for diagnostics.
	Equations []int

	// EquationStrings holds the original raw source text of each equation
	// in Equations, same order, for user-facing reporting.
	EquationStrings []string
}

// Compile builds the residual and derivative expression trees for blk using
// b's builder (shared across the whole model so common subexpressions
// across blocks still intern together) and the original analyzed equations.
func Compile(b *symbolic.Builder, equations []*model.Analyzed, blk structural.Block) (*Compiled, error) {
	n := len(blk.Endogenous)
	if n != len(blk.Equations) {
		return nil, model.NewError(model.KindInputShapeMismatch,
			fmt.Sprintf("block has %d equations but %d endogenous variables", len(blk.Equations), n))
	}

	varIndex := make(map[string]int, n+len(blk.Exogenous))
	for i, name := range blk.Endogenous {
		varIndex[name] = i
	}
	for i, name := range blk.Exogenous {
		varIndex[name] = n + i
	}

	residuals := make([]*symbolic.Node, n)
	eqStrings := make([]string, n)
	for i, eqIdx := range blk.Equations {
		r, err := symbolic.ParseResidual(b, equations[eqIdx].Rewritten, varIndex)
		if err != nil {
			return nil, err
		}
		residuals[i] = r
		eqStrings[i] = equations[eqIdx].Raw
	}

	diffs := make([][]*symbolic.Node, n)
	for i, r := range residuals {
		row := make([]*symbolic.Node, n)
		for j := 0; j < n; j++ {
			row[j] = symbolic.Diff(b, r, j)
		}
		diffs[i] = row
	}

	return &Compiled{
		Endogenous:      append([]string(nil), blk.Endogenous...),
		Exogenous:       append([]string(nil), blk.Exogenous...),
		residuals:       residuals,
		diffs:           diffs,
		Equations:       append([]int(nil), blk.Equations...),
		EquationStrings: eqStrings,
	}, nil
}

// F evaluates the residual vector at the given argument vector (length
// len(Endogenous)+len(Exogenous), ordered per Endogenous then Exogenous)
// into dst, which must already be sized len(Endogenous).
func (c *Compiled) F(dst *mat.VecDense, args []float64) {
	for i, r := range c.residuals {
		dst.SetVec(i, symbolic.Eval(r, args))
	}
}

// J evaluates the Jacobian of F with respect to the endogenous block of args
// into dst, which must already be sized len(Endogenous) x len(Endogenous).
func (c *Compiled) J(dst *mat.Dense, args []float64) {
	n := len(c.Endogenous)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dst.Set(i, j, symbolic.Eval(c.diffs[i][j], args))
		}
	}
}

// Size returns the block's dimension (number of simultaneous equations).
func (c *Compiled) Size() int {
	return len(c.Endogenous)
}
