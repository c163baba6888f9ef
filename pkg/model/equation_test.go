package model_test

import (
	"sort"
	"testing"

	"github.com/vanderheijden86/eqmodel/pkg/lexer"
	"github.com/vanderheijden86/eqmodel/pkg/model"
)

func analyze(t *testing.T, raw string) *model.Analyzed {
	t.Helper()
	a, err := lexer.Analyze(raw)
	if err != nil {
		t.Fatalf("Analyze(%q) failed: %v", raw, err)
	}
	return a
}

func sorted(xs []string) []string {
	out := append([]string(nil), xs...)
	sort.Strings(out)
	return out
}

func TestCurrentVariablesExcludesLaggedNames(t *testing.T) {
	a := analyze(t, "c = a + c(-1)")
	got := sorted(a.CurrentVariables())
	want := []string{"a", "c"}
	if len(got) != len(want) {
		t.Fatalf("CurrentVariables() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CurrentVariables()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAllCanonicalNamesIncludesLaggedNames(t *testing.T) {
	a := analyze(t, "c = a + c(-1)")
	all := a.AllCanonicalNames()
	if len(all) != 3 {
		t.Fatalf("AllCanonicalNames() returned %d names, want 3, got %v", len(all), all)
	}

	laggedC := model.EncodeLag("c", 1)
	found := false
	for _, n := range all {
		if n == laggedC {
			found = true
		}
	}
	if !found {
		t.Errorf("AllCanonicalNames() = %v, want it to include %q", all, laggedC)
	}
}

func TestBuildUniversePartitionsEndogenousAndExogenous(t *testing.T) {
	eqs := []*model.Analyzed{
		analyze(t, "c = a + b"),
		analyze(t, "d = c * 2"),
	}
	u := model.BuildUniverse(eqs, []string{"c", "d"})

	for _, name := range []string{"c", "d"} {
		if _, ok := u.Endogenous[name]; !ok {
			t.Errorf("expected %q to be endogenous", name)
		}
	}
	for _, name := range []string{"a", "b"} {
		if _, ok := u.Exogenous[name]; !ok {
			t.Errorf("expected %q to be exogenous", name)
		}
	}
	if _, ok := u.Exogenous["c"]; ok {
		t.Error("endogenous variable c should not also appear in Exogenous")
	}
}

func TestBuildUniverseStripsLagFromExogenous(t *testing.T) {
	eqs := []*model.Analyzed{
		analyze(t, "c = g(-1) + a"),
	}
	u := model.BuildUniverse(eqs, []string{"c"})

	if _, ok := u.Exogenous["g"]; !ok {
		t.Errorf("a lagged reference to exogenous g(-1) should register base name g, got %v", u.Exogenous)
	}
	if _, ok := u.Exogenous[model.EncodeLag("g", 1)]; ok {
		t.Error("Exogenous should hold base names, not canonical lagged names")
	}
}

func TestBuildUniverseLaggedEndogenousNotAddedToExogenous(t *testing.T) {
	// A lagged reference to an endogenous variable (c(-1)) strips to base
	// name c, which is already endogenous, so BuildUniverse does not add it
	// to Exogenous.
	eqs := []*model.Analyzed{
		analyze(t, "c = c(-1) + 1"),
	}
	u := model.BuildUniverse(eqs, []string{"c"})

	if _, ok := u.Endogenous["c"]; !ok {
		t.Error("c should remain endogenous (it was supplied explicitly)")
	}
	if _, ok := u.Exogenous["c"]; ok {
		t.Error("c must not also appear in Exogenous since it is endogenous")
	}
}
