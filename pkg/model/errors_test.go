package model_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/vanderheijden86/eqmodel/pkg/model"
)

func TestErrorMessageWithoutContext(t *testing.T) {
	err := model.NewError(model.KindBlankInput, "equation is blank")
	want := "blank-input: equation is blank"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorMessageWithBlockContext(t *testing.T) {
	base := model.NewError(model.KindDidNotConverge, "residual above tolerance")
	annotated := base.WithBlock(2, "1990", []string{"c", "y"}, []string{"g"}, map[string]float64{"c": 1.5})

	msg := annotated.Error()
	if !strings.Contains(msg, "block 2") {
		t.Errorf("Error() = %q, want it to mention block 2", msg)
	}
	if !strings.Contains(msg, "period 1990") {
		t.Errorf("Error() = %q, want it to mention period 1990", msg)
	}
	if annotated.Endogenous[0] != "c" || annotated.Exogenous[0] != "g" {
		t.Errorf("WithBlock did not carry endogenous/exogenous names through")
	}
	// the original error must be unmodified (WithBlock copies).
	if strings.Contains(base.Error(), "block") {
		t.Error("NewError's BlockIndex should default to -1 and stay that way")
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("underlying cause")
	wrapped := &model.Error{Kind: model.KindSingularJacobian, Message: "matrix is singular", BlockIndex: -1, Err: inner}

	if !errors.Is(wrapped, inner) {
		t.Error("errors.Is should see through Error.Unwrap to the wrapped cause")
	}
	if !strings.Contains(wrapped.Error(), "underlying cause") {
		t.Errorf("Error() = %q, want it to include the wrapped cause", wrapped.Error())
	}
}

func TestErrorKindStrings(t *testing.T) {
	kinds := []model.ErrorKind{
		model.KindMalformedEquation,
		model.KindBlankInput,
		model.KindUnknownVariable,
		model.KindStructuralSingularity,
		model.KindAmbiguousMatching,
		model.KindLagCollision,
		model.KindInvalidConfiguration,
		model.KindInputShapeMismatch,
		model.KindDidNotConverge,
		model.KindSingularJacobian,
	}
	seen := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		s := k.String()
		if s == "" || s == "unknown-error-kind" {
			t.Errorf("ErrorKind(%d).String() = %q, want a distinct, non-empty name", k, s)
		}
		if seen[s] {
			t.Errorf("ErrorKind %q is not unique among kind strings", s)
		}
		seen[s] = true
	}
}
