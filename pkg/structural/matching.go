// Package structural builds the bipartite equation/variable graph, finds a
// maximum matching, derives the dependency digraph over endogenous
// variables, and condenses it into topologically ordered simultaneous
// blocks.
package structural

// matchBipartite runs Hopcroft-Karp over the bipartite graph U (equations)
// vs. V (endogenous variables), given as an adjacency list adj[u] = list of
// v indices equation u references at the current period.
//
// No bipartite-matching library appears anywhere in the retrieved example
// pack; this BFS-layering-then-DFS-augmenting shape is modeled on
// katalvlaran-lvlath/flow's Dinic implementation (level graph built by BFS,
// blocking flow pushed by DFS), adapted from a flow network to unit-capacity
// bipartite matching (see DESIGN.md).
//
// Returns matchU (matchU[u] = matched v index, or -1) and the number of
// matched pairs.
func matchBipartite(nu, nv int, adj [][]int) (matchU []int, matched int) {
	matchU = make([]int, nu)
	matchV := make([]int, nv)
	for i := range matchU {
		matchU[i] = -1
	}
	for i := range matchV {
		matchV[i] = -1
	}

	const infinity = int(^uint(0) >> 1)
	dist := make([]int, nu)

	bfs := func() bool {
		queue := make([]int, 0, nu)
		for u := 0; u < nu; u++ {
			if matchU[u] == -1 {
				dist[u] = 0
				queue = append(queue, u)
			} else {
				dist[u] = infinity
			}
		}
		reachableNil := false
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range adj[u] {
				w := matchV[v]
				if w == -1 {
					reachableNil = true
				} else if dist[w] == infinity {
					dist[w] = dist[u] + 1
					queue = append(queue, w)
				}
			}
		}
		return reachableNil
	}

	var dfs func(u int) bool
	dfs = func(u int) bool {
		for _, v := range adj[u] {
			w := matchV[v]
			if w == -1 || (dist[w] == dist[u]+1 && dfs(w)) {
				matchV[v] = u
				matchU[u] = v
				return true
			}
		}
		dist[u] = infinity
		return false
	}

	for bfs() {
		for u := 0; u < nu; u++ {
			if matchU[u] == -1 {
				dfs(u)
			}
		}
	}

	for _, v := range matchU {
		if v != -1 {
			matched++
		}
	}

	return matchU, matched
}
