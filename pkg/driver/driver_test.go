package driver_test

import (
	"context"
	"math"
	"testing"

	"github.com/vanderheijden86/eqmodel/pkg/compiler"
	"github.com/vanderheijden86/eqmodel/pkg/dataset"
	"github.com/vanderheijden86/eqmodel/pkg/driver"
	"github.com/vanderheijden86/eqmodel/pkg/lexer"
	"github.com/vanderheijden86/eqmodel/pkg/model"
	"github.com/vanderheijden86/eqmodel/pkg/structural"
	"github.com/vanderheijden86/eqmodel/pkg/symbolic"
)

// buildBlocks compiles raws (equations) against the given endogenous
// variable names via full structural analysis, for use as driver.Blocks.
func buildBlocks(t *testing.T, raws []string, endogenousNames []string) driver.Blocks {
	t.Helper()
	analyzed := make([]*model.Analyzed, 0, len(raws))
	for _, raw := range raws {
		a, err := lexer.Analyze(raw)
		if err != nil {
			t.Fatalf("Analyze(%q): %v", raw, err)
		}
		analyzed = append(analyzed, a)
	}
	an, err := structural.Analyze(analyzed, endogenousNames)
	if err != nil {
		t.Fatalf("structural.Analyze: %v", err)
	}
	b := symbolic.NewBuilder()
	compiled := make([]*compiler.Compiled, 0, len(an.Blocks))
	for _, blk := range an.Blocks {
		c, err := compiler.Compile(b, analyzed, blk)
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		compiled = append(compiled, c)
	}
	return driver.Blocks{Compiled: compiled, MaxLag: an.MaxLag}
}

// TestRunPropagatesLaggedRecurrence: x(t) = x(t-1) + growth, driven forward
// from a seeded period 0, should fill the whole panel with the cumulative
// sum.
func TestRunPropagatesLaggedRecurrence(t *testing.T) {
	blocks := buildBlocks(t, []string{"x = x(-1) + growth"}, []string{"x"})

	data := dataset.NewMatrix([]string{"x", "growth"}, 5)
	for p := 0; p < 5; p++ {
		_ = data.Set(p, "growth", 2)
	}
	_ = data.Set(0, "x", 10) // initial condition at the one lag period

	report, err := driver.Run(context.Background(), blocks, data, model.DefaultSolveConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !report.Converged() {
		t.Fatalf("expected every block to converge, got %+v", report.Diagnostics)
	}

	want := 10.0
	for p := 1; p < 5; p++ {
		want += 2
		got, err := data.Get(p, "x")
		if err != nil {
			t.Fatalf("Get(%d): %v", p, err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("period %d: expected x=%v, got %v", p, want, got)
		}
	}
}

// TestRunAbortsOnSingularJacobian ensures a structurally-solvable-but-
// numerically-singular block stops the whole run and surfaces the error.
func TestRunAbortsOnSingularJacobian(t *testing.T) {
	blocks := buildBlocks(t, []string{"x - x = z"}, []string{"x"})

	data := dataset.NewMatrix([]string{"x", "z"}, 3)
	for p := 0; p < 3; p++ {
		_ = data.Set(p, "z", 1)
	}

	_, err := driver.Run(context.Background(), blocks, data, model.DefaultSolveConfig())
	if err == nil {
		t.Fatal("expected singular-jacobian error to abort the run")
	}
	me, ok := err.(*model.Error)
	if !ok {
		t.Fatalf("expected *model.Error, got %T", err)
	}
	if me.Kind != model.KindSingularJacobian {
		t.Errorf("expected KindSingularJacobian, got %v", me.Kind)
	}
}
