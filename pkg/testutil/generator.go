// Package testutil provides test fixture generators for the abstract graph
// topologies exercised by pkg/structural (chains, stars, diamonds, cycles,
// trees, ...), plus helpers for turning those topologies into equation
// systems and assertions against solved datasets. All generators produce
// deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"
	"time"
)

// GraphFixture represents an abstract directed graph for testing graph
// algorithms. Edge [from, to] means "node `from` references node `to`".
type GraphFixture struct {
	Description string     `json:"description"`
	Nodes       []string   `json:"nodes"`
	Edges       [][2]int   `json:"edges"`
	Properties  Properties `json:"properties,omitempty"`
}

// Properties holds optional metadata about the fixture.
type Properties struct {
	HasCycles     bool `json:"has_cycles,omitempty"`
	IsConnected   bool `json:"is_connected,omitempty"`
	ExpectedDepth int  `json:"expected_depth,omitempty"`
}

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed      int64     // Random seed for determinism (0 = use current time)
	VarPrefix string    // Prefix for generated variable names (default: "v")
	BaseTime  time.Time // reserved for future timestamp-bearing fixtures
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:      42, // Deterministic
		VarPrefix: "v",
		BaseTime:  time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Generator creates test fixtures with various topologies.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.VarPrefix == "" {
		cfg.VarPrefix = "v"
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// ============================================================================
// Graph Topology Generators
// ============================================================================

// Chain creates a linear chain: n0 <- n1 <- n2 <- ... <- n{size-1}
// (n1 references n0, n2 references n1, etc). n0 has no references.
// Properties: acyclic, depth = size-1, single path.
func (g *Generator) Chain(size int) GraphFixture {
	nodes := make([]string, size)
	edges := make([][2]int, 0, size-1)

	for i := 0; i < size; i++ {
		nodes[i] = fmt.Sprintf("n%d", i)
		if i > 0 {
			edges = append(edges, [2]int{i, i - 1})
		}
	}

	return GraphFixture{
		Description: fmt.Sprintf("Linear chain of %d nodes: n0 <- n1 <- ... <- n%d", size, size-1),
		Nodes:       nodes,
		Edges:       edges,
		Properties: Properties{
			HasCycles:     false,
			IsConnected:   true,
			ExpectedDepth: size - 1,
		},
	}
}

// Star creates a star topology with a central hub; spokes reference the hub.
// Properties: acyclic, depth = 1.
func (g *Generator) Star(spokes int) GraphFixture {
	size := spokes + 1
	nodes := make([]string, size)
	edges := make([][2]int, spokes)

	nodes[0] = "hub"
	for i := 1; i < size; i++ {
		nodes[i] = fmt.Sprintf("spoke%d", i)
		edges[i-1] = [2]int{i, 0}
	}

	return GraphFixture{
		Description: fmt.Sprintf("Star with hub and %d spokes; spokes reference hub", spokes),
		Nodes:       nodes,
		Edges:       edges,
		Properties: Properties{
			HasCycles:     false,
			IsConnected:   true,
			ExpectedDepth: 1,
		},
	}
}

// ReverseStar creates a star where the hub references all spokes.
func (g *Generator) ReverseStar(spokes int) GraphFixture {
	size := spokes + 1
	nodes := make([]string, size)
	edges := make([][2]int, spokes)

	nodes[0] = "hub"
	for i := 1; i < size; i++ {
		nodes[i] = fmt.Sprintf("spoke%d", i)
		edges[i-1] = [2]int{0, i}
	}

	return GraphFixture{
		Description: fmt.Sprintf("Reverse star with hub referencing %d spokes", spokes),
		Nodes:       nodes,
		Edges:       edges,
		Properties: Properties{
			HasCycles:     false,
			IsConnected:   true,
			ExpectedDepth: 1,
		},
	}
}

// Diamond creates a diamond pattern: top references `width` middle nodes,
// each of which references bottom.
func (g *Generator) Diamond(width int) GraphFixture {
	if width < 1 {
		width = 1
	}

	size := width + 2
	nodes := make([]string, size)
	edges := make([][2]int, 0, width*2)

	nodes[0] = "top"
	nodes[size-1] = "bottom"

	for i := 1; i <= width; i++ {
		nodes[i] = fmt.Sprintf("mid%d", i)
		edges = append(edges, [2]int{0, i})
		edges = append(edges, [2]int{i, size - 1})
	}

	return GraphFixture{
		Description: fmt.Sprintf("Diamond with %d middle nodes: top -> mid1..mid%d -> bottom", width, width),
		Nodes:       nodes,
		Edges:       edges,
		Properties: Properties{
			HasCycles:     false,
			IsConnected:   true,
			ExpectedDepth: 2,
		},
	}
}

// Cycle creates a circular reference chain: n0 -> n1 -> ... -> n{size-1} -> n0.
func (g *Generator) Cycle(size int) GraphFixture {
	nodes := make([]string, size)
	edges := make([][2]int, size)

	for i := 0; i < size; i++ {
		nodes[i] = fmt.Sprintf("n%d", i)
		edges[i] = [2]int{i, (i + 1) % size}
	}

	return GraphFixture{
		Description: fmt.Sprintf("Cycle of %d nodes: n0 -> n1 -> ... -> n%d -> n0", size, size-1),
		Nodes:       nodes,
		Edges:       edges,
		Properties: Properties{
			HasCycles:   true,
			IsConnected: true,
		},
	}
}

// SelfLoop creates a single node that references itself.
func (g *Generator) SelfLoop() GraphFixture {
	return GraphFixture{
		Description: "Single node with self-loop",
		Nodes:       []string{"n0"},
		Edges:       [][2]int{{0, 0}},
		Properties: Properties{
			HasCycles:   true,
			IsConnected: true,
		},
	}
}

// Tree creates a tree with given depth and branching factor; each
// non-leaf node's children reference it.
func (g *Generator) Tree(depth, breadth int) GraphFixture {
	if depth < 1 {
		depth = 1
	}
	if breadth < 1 {
		breadth = 1
	}

	var nodes []string
	var edges [][2]int

	nodeID := 0
	nodes = append(nodes, fmt.Sprintf("n%d", nodeID))
	nodeID++

	currentLevel := []int{0}
	for d := 0; d < depth; d++ {
		var nextLevel []int
		for _, parent := range currentLevel {
			for b := 0; b < breadth; b++ {
				child := nodeID
				nodes = append(nodes, fmt.Sprintf("n%d", child))
				edges = append(edges, [2]int{child, parent})
				nextLevel = append(nextLevel, child)
				nodeID++
			}
		}
		currentLevel = nextLevel
	}

	return GraphFixture{
		Description: fmt.Sprintf("Tree with depth=%d, breadth=%d (%d nodes)", depth, breadth, len(nodes)),
		Nodes:       nodes,
		Edges:       edges,
		Properties: Properties{
			HasCycles:     false,
			IsConnected:   true,
			ExpectedDepth: depth,
		},
	}
}

// Disconnected creates multiple isolated chains of componentSize nodes each.
func (g *Generator) Disconnected(components, componentSize int) GraphFixture {
	var nodes []string
	var edges [][2]int

	nodeID := 0
	for c := 0; c < components; c++ {
		for i := 0; i < componentSize; i++ {
			nodes = append(nodes, fmt.Sprintf("c%d_n%d", c, i))
			if i > 0 {
				edges = append(edges, [2]int{nodeID, nodeID - 1})
			}
			nodeID++
		}
	}

	return GraphFixture{
		Description: fmt.Sprintf("%d disconnected components, each a chain of %d nodes", components, componentSize),
		Nodes:       nodes,
		Edges:       edges,
		Properties: Properties{
			HasCycles:     false,
			IsConnected:   false,
			ExpectedDepth: componentSize - 1,
		},
	}
}

// Complete creates a dense acyclic graph where every earlier node
// references every later node (n*(n-1)/2 edges).
func (g *Generator) Complete(size int) GraphFixture {
	nodes := make([]string, size)
	edges := make([][2]int, 0, size*(size-1)/2)

	for i := 0; i < size; i++ {
		nodes[i] = fmt.Sprintf("n%d", i)
		for j := i + 1; j < size; j++ {
			edges = append(edges, [2]int{i, j})
		}
	}

	return GraphFixture{
		Description: fmt.Sprintf("Complete acyclic graph with %d nodes (%d edges)", size, len(edges)),
		Nodes:       nodes,
		Edges:       edges,
		Properties: Properties{
			HasCycles:     false,
			IsConnected:   true,
			ExpectedDepth: size - 1,
		},
	}
}

// RandomDAG creates a random acyclic graph; density is the probability of
// an edge existing between any ordered pair (0.0 to 1.0).
func (g *Generator) RandomDAG(size int, density float64) GraphFixture {
	if density < 0 {
		density = 0
	}
	if density > 1 {
		density = 1
	}

	nodes := make([]string, size)
	var edges [][2]int

	for i := 0; i < size; i++ {
		nodes[i] = fmt.Sprintf("n%d", i)
	}

	for i := 0; i < size; i++ {
		for j := i + 1; j < size; j++ {
			if g.rng.Float64() < density {
				edges = append(edges, [2]int{i, j})
			}
		}
	}

	return GraphFixture{
		Description: fmt.Sprintf("Random acyclic graph with %d nodes, density=%.2f (%d edges)", size, density, len(edges)),
		Nodes:       nodes,
		Edges:       edges,
		Properties: Properties{
			HasCycles:   false,
			IsConnected: false,
		},
	}
}

// ============================================================================
// Equation Generators (convert graph fixtures to raw equation strings)
// ============================================================================

// ToEquations converts a GraphFixture into a raw equation string per node
// and the list of all node names (all treated as endogenous): node i's
// equation sums its referenced nodes plus a per-node constant, or is just
// the constant if it references nothing. Cycles and self-loops become
// equations that reference each other, exercising pkg/structural's block
// partitioning directly.
func (g *Generator) ToEquations(gf GraphFixture) (equations []string, endogenous []string) {
	refs := make(map[int][]int)
	for _, e := range gf.Edges {
		refs[e[0]] = append(refs[e[0]], e[1])
	}

	names := make([]string, len(gf.Nodes))
	for i, n := range gf.Nodes {
		names[i] = fmt.Sprintf("%s_%s", g.cfg.VarPrefix, n)
	}

	equations = make([]string, len(gf.Nodes))
	for i := range gf.Nodes {
		constant := fmt.Sprintf("%d", i+1)
		deps := refs[i]
		if len(deps) == 0 {
			equations[i] = fmt.Sprintf("%s = %s", names[i], constant)
			continue
		}
		rhs := constant
		for _, d := range deps {
			rhs += " + " + names[d]
		}
		equations[i] = fmt.Sprintf("%s = %s", names[i], rhs)
	}

	return equations, append([]string(nil), names...)
}

// QuickChain builds equations for a chain of size nodes.
func QuickChain(size int) ([]string, []string) {
	gen := NewDefault()
	return gen.ToEquations(gen.Chain(size))
}

// QuickCycle builds equations for a cyclic reference chain of size nodes,
// which collapses to a single simultaneous block.
func QuickCycle(size int) ([]string, []string) {
	gen := NewDefault()
	return gen.ToEquations(gen.Cycle(size))
}

// QuickDiamond builds equations for a diamond with width middle nodes.
func QuickDiamond(width int) ([]string, []string) {
	gen := NewDefault()
	return gen.ToEquations(gen.Diamond(width))
}

// QuickTree builds equations for a tree of the given depth and breadth.
func QuickTree(depth, breadth int) ([]string, []string) {
	gen := NewDefault()
	return gen.ToEquations(gen.Tree(depth, breadth))
}
