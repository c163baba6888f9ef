package structural

import (
	"sort"

	"github.com/vanderheijden86/eqmodel/pkg/model"
)

// AugmentedNode is one node of the diagnostic augmented graph: either a
// current-period endogenous variable (solved within the model) or a
// current-period exogenous input pulled in from outside it. Lagged
// references get no node.
type AugmentedNode struct {
	Name       string
	Endogenous bool
	BlockIndex int // index into Analysis.Blocks; -1 for exogenous nodes
}

// AugmentedEdge is a directed "needs" edge: From must be known before To
// can be solved.
type AugmentedEdge struct {
	From, To string
}

// AugmentedGraph is a read-only rendering of the full dependency picture —
// endogenous variables grouped by block, plus every current-period exogenous
// input they consume (lagged references are left out) — intended for external visualization tooling, not for the
// solve path itself.
type AugmentedGraph struct {
	Nodes []AugmentedNode
	Edges []AugmentedEdge
}

// BuildAugmentedGraph renders a's internal dependency digraph plus the
// exogenous inputs of every block into a single diagnostic graph. It does
// not mutate a and does not participate in solving.
func (a *Analysis) BuildAugmentedGraph() *AugmentedGraph {
	out := &AugmentedGraph{}

	blockOfVar := make(map[string]int, len(a.varNames))
	for bi, blk := range a.Blocks {
		for _, name := range blk.Endogenous {
			blockOfVar[name] = bi
			out.Nodes = append(out.Nodes, AugmentedNode{Name: name, Endogenous: true, BlockIndex: bi})
		}
	}

	exoSeen := make(map[string]struct{})
	for _, blk := range a.Blocks {
		for _, ex := range blk.Exogenous {
			// Lagged references (endogenous or exogenous) are predetermined
			// at solve time and not part of the diagnostic dependency
			// picture; only current-period exogenous inputs get an edge.
			if model.ContainsSentinel(ex) {
				continue
			}
			if _, dup := exoSeen[ex]; !dup {
				exoSeen[ex] = struct{}{}
				out.Nodes = append(out.Nodes, AugmentedNode{Name: ex, Endogenous: false, BlockIndex: -1})
			}
			for _, endo := range blk.Endogenous {
				out.Edges = append(out.Edges, AugmentedEdge{From: ex, To: endo})
			}
		}
	}

	if a.graph != nil {
		idxToName := make(map[int64]string, len(a.idToNode))
		for v, id := range a.idToNode {
			idxToName[id] = a.varNames[v]
		}
		nodes := a.graph.Nodes()
		for nodes.Next() {
			u := nodes.Node()
			uName := idxToName[u.ID()]
			to := a.graph.From(u.ID())
			for to.Next() {
				v := to.Node()
				vName := idxToName[v.ID()]
				if blockOfVar[uName] == blockOfVar[vName] {
					continue // intra-block edge: both vars solved simultaneously
				}
				out.Edges = append(out.Edges, AugmentedEdge{From: uName, To: vName})
			}
		}
	}

	sort.Slice(out.Nodes, func(i, j int) bool { return out.Nodes[i].Name < out.Nodes[j].Name })
	sort.Slice(out.Edges, func(i, j int) bool {
		if out.Edges[i].From != out.Edges[j].From {
			return out.Edges[i].From < out.Edges[j].From
		}
		return out.Edges[i].To < out.Edges[j].To
	})

	return out
}
