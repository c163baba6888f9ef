package structural

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/vanderheijden86/eqmodel/pkg/model"
)

// Block is one simultaneous block of the solved model: a set of equations
// matched one-to-one to a set of current-period endogenous variables, in
// the order they must be solved relative to every other block.
type Block struct {
	// Equations holds the original equation indices (into the slice passed
	// to Analyze) belonging to this block, ordered to align with Endogenous
	// via the matching (Equations[i] solves for Endogenous[i]).
	Equations []int

	// Endogenous holds the canonical names of the current-period endogenous
	// variables this block solves for.
	Endogenous []string

	// Exogenous holds every other canonical name (current-period exogenous,
	// or any lagged reference, endogenous or exogenous) this block's
	// equations depend on but do not solve for.
	Exogenous []string
}

// Analysis is the result of structural analysis: the model's equations
// partitioned into topologically ordered simultaneous blocks.
type Analysis struct {
	Blocks []Block

	// MaxLag is the largest lag referenced by any equation in the model.
	MaxLag int

	// graph and varNames are retained only to let BuildAugmentedGraph
	// (augmented.go) render the diagnostic endogenous-to-endogenous
	// dependency picture without re-running the matcher. varNames[v] is the
	// canonical name backing internal node ID idToNode[v].
	graph    *simple.DirectedGraph
	idToNode []int64
	varNames []string
}

// Analyze builds the bipartite equation/variable graph over equations and
// endogenousNames, finds a maximum matching, derives the dependency digraph
// over matched endogenous variables, and condenses it into topologically
// ordered blocks. It returns model.KindStructuralSingularity
// if the matching is not perfect (some endogenous variable, or some
// equation, is left unmatched).
func Analyze(equations []*model.Analyzed, endogenousNames []string) (*Analysis, error) {
	if len(equations) == 0 {
		return nil, model.NewError(model.KindBlankInput, "no equations supplied")
	}
	if len(endogenousNames) != len(equations) {
		return nil, model.NewError(model.KindStructuralSingularity,
			fmt.Sprintf("%d equations but %d endogenous variables named", len(equations), len(endogenousNames)))
	}

	universe := model.BuildUniverse(equations, endogenousNames)
	varNames := universe.EndogenousNames
	varIndex := make(map[string]int, len(varNames))
	for i, name := range varNames {
		varIndex[name] = i
	}
	nv := len(varNames)
	nu := len(equations)

	equationVars := make([][]int, nu)
	maxLag := 0
	for u, eq := range equations {
		if eq.MaxLag > maxLag {
			maxLag = eq.MaxLag
		}
		seen := make(map[int]struct{})
		for _, cur := range eq.CurrentVariables() {
			if idx, ok := varIndex[cur]; ok {
				if _, dup := seen[idx]; !dup {
					seen[idx] = struct{}{}
					equationVars[u] = append(equationVars[u], idx)
				}
			}
		}
	}

	matchU, matched := matchBipartite(nu, nv, equationVars)
	if matched != nv || matched != nu {
		unmatchedEndo := unmatchedVariables(matchU, varNames)
		return nil, model.NewError(model.KindStructuralSingularity,
			fmt.Sprintf("maximum matching covers %d of %d equations and %d of %d endogenous variables; unmatched: %v",
				matched, nu, matched, nv, unmatchedEndo))
	}

	g, idToNode := buildDependencyDigraph(nv, equationVars, matchU)
	order, members, err := condense(g, idToNode)
	if err != nil {
		return nil, model.NewError(model.KindStructuralSingularity, "failed to order simultaneous blocks")
	}

	// invert matchU (equation -> variable) into variable -> equation.
	matchV := make([]int, nv)
	for i := range matchV {
		matchV[i] = -1
	}
	for u, v := range matchU {
		matchV[v] = u
	}

	blocks := make([]Block, 0, len(order))
	for _, sccID := range order {
		vs := append([]int(nil), members[sccID]...)
		sort.Ints(vs)

		endo := make([]string, 0, len(vs))
		eqs := make([]int, 0, len(vs))
		for _, v := range vs {
			endo = append(endo, varNames[v])
			eqs = append(eqs, matchV[v])
		}

		exo := exogenousFor(eqs, equations, endo)

		blocks = append(blocks, Block{
			Equations:  eqs,
			Endogenous: endo,
			Exogenous:  exo,
		})
	}

	return &Analysis{
		Blocks:   blocks,
		MaxLag:   maxLag,
		graph:    g,
		idToNode: idToNode,
		varNames: varNames,
	}, nil
}

// exogenousFor collects every canonical name referenced by eqs that is not
// itself solved within this block (i.e. every lagged reference, plus any
// current-period reference to a variable outside endogenousNames or to an
// endogenous variable resolved in an earlier block).
func exogenousFor(eqs []int, equations []*model.Analyzed, endo []string) []string {
	inBlock := make(map[int]struct{}, len(eqs))
	for _, u := range eqs {
		inBlock[u] = struct{}{}
	}
	blockVars := make(map[string]struct{}, len(endo))
	for _, name := range endo {
		blockVars[name] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string
	for u := range inBlock {
		for _, canon := range equations[u].AllCanonicalNames() {
			if _, inThisBlock := blockVars[canon]; inThisBlock {
				continue
			}
			if _, dup := seen[canon]; dup {
				continue
			}
			seen[canon] = struct{}{}
			out = append(out, canon)
		}
	}
	sort.Strings(out)
	return out
}

func unmatchedVariables(matchU []int, varNames []string) []string {
	covered := make(map[int]struct{}, len(matchU))
	for _, v := range matchU {
		if v >= 0 {
			covered[v] = struct{}{}
		}
	}
	var out []string
	for i, name := range varNames {
		if _, ok := covered[i]; !ok {
			out = append(out, name)
		}
	}
	return out
}
