package structural

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// buildDependencyDigraph constructs D over endogenous variable indices:
// for matched equation u (-> variable m(u)), and every other current-period
// endogenous variable w it references, add edge w -> m(u) ("w is needed to
// solve for m(u)"). Built the same way as a dependency graph over any
// other domain's named entities: a simple.DirectedGraph plus
// idToNode/nodeToID maps translating between domain names and gonum's
// int64 node IDs.
func buildDependencyDigraph(nv int, equationVars [][]int, matchU []int) (g *simple.DirectedGraph, idToNode []int64) {
	g = simple.NewDirectedGraph()
	idToNode = make([]int64, nv)
	for v := 0; v < nv; v++ {
		n := g.NewNode()
		g.AddNode(n)
		idToNode[v] = n.ID()
	}

	for u, mv := range matchU {
		if mv < 0 {
			continue
		}
		for _, w := range equationVars[u] {
			if w == mv {
				continue
			}
			from := simple.Node(idToNode[w])
			to := simple.Node(idToNode[mv])
			if g.HasEdgeFromTo(from.ID(), to.ID()) {
				continue
			}
			g.SetEdge(g.NewEdge(from, to))
		}
	}

	return g, idToNode
}

// condense runs Tarjan's algorithm to get SCC membership, then builds the
// condensation digraph over SCC ids and topologically sorts it with
// topo.Sort — giving the dependencies-first block execution order directly,
// rather than relying on any particular ordering convention of
// topo.TarjanSCC's own return value.
func condense(g *simple.DirectedGraph, idToNode []int64) (order []int, members [][]int, err error) {
	sccs := topo.TarjanSCC(g)

	nodeToV := make(map[int64]int, len(idToNode))
	for v, id := range idToNode {
		nodeToV[id] = v
	}

	sccOfNode := make(map[int64]int, len(idToNode))
	members = make([][]int, len(sccs))
	for sccID, nodes := range sccs {
		vs := make([]int, 0, len(nodes))
		for _, n := range nodes {
			sccOfNode[n.ID()] = sccID
			vs = append(vs, nodeToV[n.ID()])
		}
		members[sccID] = vs
	}

	cg := simple.NewDirectedGraph()
	for i := range sccs {
		cg.AddNode(simple.Node(int64(i)))
	}
	nodes := g.Nodes()
	for nodes.Next() {
		u := nodes.Node()
		from := cg.Node(int64(sccOfNode[u.ID()]))
		to := g.From(u.ID())
		for to.Next() {
			v := to.Node()
			su, sv := sccOfNode[u.ID()], sccOfNode[v.ID()]
			if su == sv {
				continue
			}
			fromN := simple.Node(from.ID())
			toN := simple.Node(int64(sv))
			if cg.HasEdgeFromTo(fromN.ID(), toN.ID()) {
				continue
			}
			cg.SetEdge(cg.NewEdge(fromN, toN))
		}
	}

	sorted, sortErr := topo.Sort(cg)
	if sortErr != nil {
		// A cycle in the condensation is impossible by construction (it is
		// a DAG over SCCs); surfaced only defensively.
		return nil, nil, sortErr
	}

	order = make([]int, len(sorted))
	for i, n := range sorted {
		order[i] = int(n.ID())
	}

	return order, members, nil
}
