package model

import "math"

// Solve-time defaults applied when a model is built without explicit overrides.
const (
	DefaultRootTolerance = 1e-7
	DefaultMaxIterations = 10
)

// SolveConfig holds the Newton-Raphson configuration attached to a built
// model. It is set at construction, through BuildModel's options.
type SolveConfig struct {
	RootTolerance float64
	MaxIterations int
}

// DefaultSolveConfig returns the default root tolerance and iteration cap.
func DefaultSolveConfig() SolveConfig {
	return SolveConfig{
		RootTolerance: DefaultRootTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate checks that the configuration's values are legal, returning a
// *Error of KindInvalidConfiguration otherwise.
func (c SolveConfig) Validate() error {
	if !(c.RootTolerance > 0) {
		return NewError(KindInvalidConfiguration, "root_tolerance must be a positive finite number")
	}
	if math.IsInf(c.RootTolerance, 1) {
		return NewError(KindInvalidConfiguration, "root_tolerance must be finite")
	}
	if c.MaxIterations <= 0 {
		return NewError(KindInvalidConfiguration, "max_iterations must be a positive integer")
	}
	return nil
}
