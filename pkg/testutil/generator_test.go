package testutil

import (
	"strings"
	"testing"
)

func TestChain(t *testing.T) {
	gen := NewDefault()

	tests := []struct {
		name      string
		size      int
		wantNodes int
		wantEdges int
		wantDepth int
	}{
		{"chain_1", 1, 1, 0, 0},
		{"chain_2", 2, 2, 1, 1},
		{"chain_5", 5, 5, 4, 4},
		{"chain_10", 10, 10, 9, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gf := gen.Chain(tt.size)

			if len(gf.Nodes) != tt.wantNodes {
				t.Errorf("Chain(%d) nodes = %d, want %d", tt.size, len(gf.Nodes), tt.wantNodes)
			}
			if len(gf.Edges) != tt.wantEdges {
				t.Errorf("Chain(%d) edges = %d, want %d", tt.size, len(gf.Edges), tt.wantEdges)
			}
			if gf.Properties.HasCycles {
				t.Error("Chain should not have cycles")
			}
			AssertNoCycles(t, gf)
			if gf.Properties.ExpectedDepth != tt.wantDepth {
				t.Errorf("Chain(%d) depth = %d, want %d", tt.size, gf.Properties.ExpectedDepth, tt.wantDepth)
			}

			for i, e := range gf.Edges {
				if e[0] != i+1 || e[1] != i {
					t.Errorf("Edge %d: got [%d,%d], want [%d,%d]", i, e[0], e[1], i+1, i)
				}
			}
		})
	}
}

func TestStar(t *testing.T) {
	gen := NewDefault()

	tests := []struct {
		name      string
		spokes    int
		wantNodes int
		wantEdges int
	}{
		{"star_1", 1, 2, 1},
		{"star_5", 5, 6, 5},
		{"star_10", 10, 11, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gf := gen.Star(tt.spokes)

			if len(gf.Nodes) != tt.wantNodes {
				t.Errorf("Star(%d) nodes = %d, want %d", tt.spokes, len(gf.Nodes), tt.wantNodes)
			}
			if len(gf.Edges) != tt.wantEdges {
				t.Errorf("Star(%d) edges = %d, want %d", tt.spokes, len(gf.Edges), tt.wantEdges)
			}
			if gf.Nodes[0] != "hub" {
				t.Errorf("Star hub should be 'hub', got %s", gf.Nodes[0])
			}
			for i, e := range gf.Edges {
				if e[1] != 0 {
					t.Errorf("Edge %d target should be hub (0), got %d", i, e[1])
				}
			}
		})
	}
}

func TestReverseStar(t *testing.T) {
	gen := NewDefault()
	gf := gen.ReverseStar(5)

	for i, e := range gf.Edges {
		if e[0] != 0 {
			t.Errorf("Edge %d source should be hub (0), got %d", i, e[0])
		}
	}
}

func TestDiamond(t *testing.T) {
	gen := NewDefault()

	tests := []struct {
		name      string
		width     int
		wantNodes int
		wantEdges int
	}{
		{"diamond_1", 1, 3, 2},
		{"diamond_2", 2, 4, 4},
		{"diamond_5", 5, 7, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gf := gen.Diamond(tt.width)

			if len(gf.Nodes) != tt.wantNodes {
				t.Errorf("Diamond(%d) nodes = %d, want %d", tt.width, len(gf.Nodes), tt.wantNodes)
			}
			if len(gf.Edges) != tt.wantEdges {
				t.Errorf("Diamond(%d) edges = %d, want %d", tt.width, len(gf.Edges), tt.wantEdges)
			}
			if gf.Properties.ExpectedDepth != 2 {
				t.Errorf("Diamond depth should be 2, got %d", gf.Properties.ExpectedDepth)
			}
			AssertNoCycles(t, gf)
		})
	}
}

func TestCycle(t *testing.T) {
	gen := NewDefault()

	tests := []struct {
		name      string
		size      int
		wantEdges int
	}{
		{"cycle_2", 2, 2},
		{"cycle_3", 3, 3},
		{"cycle_5", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gf := gen.Cycle(tt.size)

			if len(gf.Edges) != tt.wantEdges {
				t.Errorf("Cycle(%d) edges = %d, want %d", tt.size, len(gf.Edges), tt.wantEdges)
			}
			AssertHasCycle(t, gf)

			lastEdge := gf.Edges[len(gf.Edges)-1]
			if lastEdge[1] != 0 {
				t.Errorf("Last edge should point back to n0, points to %d", lastEdge[1])
			}
		})
	}
}

func TestSelfLoop(t *testing.T) {
	gen := NewDefault()
	gf := gen.SelfLoop()

	if len(gf.Nodes) != 1 {
		t.Errorf("SelfLoop should have 1 node, got %d", len(gf.Nodes))
	}
	if len(gf.Edges) != 1 {
		t.Errorf("SelfLoop should have 1 edge, got %d", len(gf.Edges))
	}
	if gf.Edges[0][0] != gf.Edges[0][1] {
		t.Error("SelfLoop edge should point to itself")
	}
	AssertHasCycle(t, gf)
}

func TestTree(t *testing.T) {
	gen := NewDefault()

	tests := []struct {
		name      string
		depth     int
		breadth   int
		wantNodes int
	}{
		{"tree_1_2", 1, 2, 3},
		{"tree_2_2", 2, 2, 7},
		{"tree_3_2", 3, 2, 15},
		{"tree_2_3", 2, 3, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gf := gen.Tree(tt.depth, tt.breadth)

			if len(gf.Nodes) != tt.wantNodes {
				t.Errorf("Tree(%d,%d) nodes = %d, want %d", tt.depth, tt.breadth, len(gf.Nodes), tt.wantNodes)
			}
			AssertNoCycles(t, gf)
			if gf.Properties.ExpectedDepth != tt.depth {
				t.Errorf("Tree depth = %d, want %d", gf.Properties.ExpectedDepth, tt.depth)
			}
		})
	}
}

func TestDisconnected(t *testing.T) {
	gen := NewDefault()

	tests := []struct {
		name          string
		components    int
		componentSize int
		wantNodes     int
	}{
		{"disconnected_2_3", 2, 3, 6},
		{"disconnected_3_2", 3, 2, 6},
		{"disconnected_5_1", 5, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gf := gen.Disconnected(tt.components, tt.componentSize)

			if len(gf.Nodes) != tt.wantNodes {
				t.Errorf("Disconnected nodes = %d, want %d", len(gf.Nodes), tt.wantNodes)
			}
			if gf.Properties.IsConnected {
				t.Error("Disconnected should not be connected")
			}
		})
	}
}

func TestComplete(t *testing.T) {
	gen := NewDefault()

	tests := []struct {
		name      string
		size      int
		wantEdges int
	}{
		{"complete_2", 2, 1},
		{"complete_3", 3, 3},
		{"complete_4", 4, 6},
		{"complete_5", 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gf := gen.Complete(tt.size)

			if len(gf.Edges) != tt.wantEdges {
				t.Errorf("Complete(%d) edges = %d, want %d", tt.size, len(gf.Edges), tt.wantEdges)
			}
			AssertNoCycles(t, gf)
		})
	}
}

func TestRandomDAG(t *testing.T) {
	gen := NewDefault()

	gf1 := gen.RandomDAG(10, 0.5)

	gen2 := New(DefaultConfig())
	gf2 := gen2.RandomDAG(10, 0.5)

	if len(gf1.Edges) != len(gf2.Edges) {
		t.Errorf("RandomDAG not deterministic: %d vs %d edges", len(gf1.Edges), len(gf2.Edges))
	}

	for _, e := range gf1.Edges {
		if e[0] >= e[1] {
			t.Errorf("RandomDAG has invalid edge [%d,%d] (should be from lower to higher)", e[0], e[1])
		}
	}
}

func TestToEquations(t *testing.T) {
	gen := NewDefault()
	gf := gen.Chain(3) // n0 <- n1 <- n2
	equations, endogenous := gen.ToEquations(gf)

	if len(equations) != 3 {
		t.Errorf("ToEquations should produce 3 equations, got %d", len(equations))
	}
	if len(endogenous) != 3 {
		t.Errorf("ToEquations should produce 3 endogenous names, got %d", len(endogenous))
	}

	if !strings.Contains(equations[0], "= 1") {
		t.Errorf("root equation should be a bare constant, got %q", equations[0])
	}
	if !strings.Contains(equations[1], endogenous[0]) {
		t.Errorf("second equation should reference %s, got %q", endogenous[0], equations[1])
	}
	if !strings.Contains(equations[2], endogenous[1]) {
		t.Errorf("third equation should reference %s, got %q", endogenous[1], equations[2])
	}

	for i, name := range endogenous {
		if !strings.HasPrefix(name, "v_") {
			t.Errorf("endogenous name %d should start with v_, got %s", i, name)
		}
	}
}

func TestToEquationsCycleIsSimultaneous(t *testing.T) {
	gen := NewDefault()
	gf := gen.Cycle(3)
	equations, endogenous := gen.ToEquations(gf)

	if len(equations) != 3 || len(endogenous) != 3 {
		t.Fatalf("expected 3 equations/names, got %d/%d", len(equations), len(endogenous))
	}
	for i, eq := range equations {
		next := endogenous[(i+1)%3]
		if !strings.Contains(eq, next) {
			t.Errorf("cycle equation %d should reference %s, got %q", i, next, eq)
		}
	}
}

func TestQuickFunctions(t *testing.T) {
	tests := []struct {
		name   string
		fn     func() ([]string, []string)
		minLen int
	}{
		{"QuickChain", func() ([]string, []string) { return QuickChain(5) }, 5},
		{"QuickCycle", func() ([]string, []string) { return QuickCycle(4) }, 4},
		{"QuickDiamond", func() ([]string, []string) { return QuickDiamond(3) }, 5},
		{"QuickTree", func() ([]string, []string) { return QuickTree(2, 2) }, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			equations, endogenous := tt.fn()
			if len(equations) < tt.minLen {
				t.Errorf("%s returned %d equations, want at least %d", tt.name, len(equations), tt.minLen)
			}
			if len(endogenous) != len(equations) {
				t.Errorf("%s: equations/endogenous length mismatch: %d vs %d", tt.name, len(equations), len(endogenous))
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	cfg := DefaultConfig()

	gen1 := New(cfg)
	eq1, _ := gen1.ToEquations(gen1.RandomDAG(20, 0.4))

	gen2 := New(cfg)
	eq2, _ := gen2.ToEquations(gen2.RandomDAG(20, 0.4))

	if len(eq1) != len(eq2) {
		t.Fatalf("Different lengths: %d vs %d", len(eq1), len(eq2))
	}
	for i := range eq1 {
		if eq1[i] != eq2[i] {
			t.Errorf("equation %d differs: %q vs %q", i, eq1[i], eq2[i])
		}
	}
}

func BenchmarkChain100(b *testing.B) {
	gen := NewDefault()
	for i := 0; i < b.N; i++ {
		_, _ = gen.ToEquations(gen.Chain(100))
	}
}

func BenchmarkComplete50(b *testing.B) {
	gen := NewDefault()
	for i := 0; i < b.N; i++ {
		_, _ = gen.ToEquations(gen.Complete(50))
	}
}

func BenchmarkRandomDAG500(b *testing.B) {
	gen := NewDefault()
	for i := 0; i < b.N; i++ {
		_, _ = gen.ToEquations(gen.RandomDAG(500, 0.1))
	}
}
