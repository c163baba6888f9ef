package structural_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/eqmodel/pkg/lexer"
	"github.com/vanderheijden86/eqmodel/pkg/model"
	"github.com/vanderheijden86/eqmodel/pkg/structural"
	"github.com/vanderheijden86/eqmodel/pkg/testutil"
)

// topologyFixture returns a random small GraphFixture, built by gen, using
// the topology rapid selects.
func topologyFixture(t *rapid.T, gen *testutil.Generator) testutil.GraphFixture {
	switch rapid.SampledFrom([]string{"chain", "cycle", "diamond", "tree", "disconnected", "randomdag"}).Draw(t, "topology") {
	case "chain":
		return gen.Chain(rapid.IntRange(1, 12).Draw(t, "size"))
	case "cycle":
		return gen.Cycle(rapid.IntRange(2, 8).Draw(t, "size"))
	case "diamond":
		return gen.Diamond(rapid.IntRange(1, 6).Draw(t, "width"))
	case "tree":
		return gen.Tree(rapid.IntRange(1, 3).Draw(t, "depth"), rapid.IntRange(1, 3).Draw(t, "breadth"))
	case "disconnected":
		return gen.Disconnected(rapid.IntRange(1, 4).Draw(t, "components"), rapid.IntRange(1, 4).Draw(t, "size"))
	default:
		return gen.RandomDAG(rapid.IntRange(1, 15).Draw(t, "n"), rapid.Float64Range(0.1, 0.9).Draw(t, "density"))
	}
}

// TestStructuralInvariantsOverRandomTopologies checks that block count/size
// bounds, endogenous partitioning, and dependency ordering across blocks all
// hold for any equation system built from a random graph topology.
func TestStructuralInvariantsOverRandomTopologies(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64Range(1, 1<<62).Draw(rt, "seed")
		gen := testutil.New(testutil.GeneratorConfig{Seed: seed, VarPrefix: "v"})
		gf := topologyFixture(rt, gen)
		rawEquations, endogenousNames := gen.ToEquations(gf)

		analyzed := make([]*model.Analyzed, 0, len(rawEquations))
		for _, raw := range rawEquations {
			a, err := lexer.Analyze(raw)
			if err != nil {
				rt.Fatalf("lexing generated equation %q failed: %v", raw, err)
			}
			analyzed = append(analyzed, a)
		}

		analysis, err := structural.Analyze(analyzed, endogenousNames)
		if err != nil {
			// A self-loop topology (n0 <- n0) is a legitimate size-1 block
			// with its own equation as dependency, which Analyze accepts;
			// any other error here means the fixture generator or Analyze
			// disagree about a well-formed system.
			rt.Fatalf("Analyze failed on a generated system: %v", err)
		}

		// Invariant 1: block count bounded by equation count, and block
		// sizes sum to exactly the number of equations/endogenous names.
		if len(analysis.Blocks) > len(rawEquations) {
			rt.Fatalf("block count %d exceeds equation count %d", len(analysis.Blocks), len(rawEquations))
		}
		totalSize := 0
		for _, blk := range analysis.Blocks {
			totalSize += len(blk.Endogenous)
		}
		if totalSize != len(endogenousNames) {
			rt.Fatalf("block sizes sum to %d, want %d", totalSize, len(endogenousNames))
		}

		// Invariant 2: union of block-endogenous sets equals the endogenous
		// set, pairwise disjoint.
		seen := make(map[string]int)
		for bi, blk := range analysis.Blocks {
			for _, name := range blk.Endogenous {
				if prev, dup := seen[name]; dup {
					rt.Fatalf("variable %q appears in both block %d and block %d", name, prev, bi)
				}
				seen[name] = bi
			}
		}
		for _, name := range endogenousNames {
			if _, ok := seen[name]; !ok {
				rt.Fatalf("endogenous variable %q is not covered by any block", name)
			}
		}

		// Invariant 3: every current-period endogenous reference within a
		// block's own equations that isn't solved by this block must be
		// solved by some strictly earlier block.
		for bi, blk := range analysis.Blocks {
			own := make(map[string]bool, len(blk.Endogenous))
			for _, name := range blk.Endogenous {
				own[name] = true
			}
			for _, eqIdx := range blk.Equations {
				for _, ref := range analyzed[eqIdx].CurrentVariables() {
					blockOf, isEndo := seen[ref]
					if !isEndo || own[ref] {
						continue
					}
					if blockOf >= bi {
						rt.Fatalf("block %d equation %d references endogenous %q solved in block %d (not earlier)", bi, eqIdx, ref, blockOf)
					}
				}
			}
		}
	})
}
