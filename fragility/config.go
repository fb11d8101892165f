// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fragility combines gradient norm, Hessian Frobenius norm,
// condition number and constraint proximity into a single bounded score per
// grid node, and classifies the resulting regions, generalising gofem's
// sweep-and-accumulate domain pass (iterate every element, accumulate
// statistics, skip local failures) from a finite-element domain sweep to a
// grid-wide fragility sweep.
package fragility

import (
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/tembolo1284/georisk"
)

// Config holds the user-tunable weights, scales and thresholds combining
// the four fragility components.
type Config struct {
	WeightGradient  float64
	WeightCurvature float64
	WeightCondition float64
	WeightConstraint float64

	GradientScale  float64
	CurvatureScale float64

	ConditionThreshold  float64
	ConstraintThreshold float64
	FragilityThreshold  float64

	// Bump is passed through to the per-node Jacobian and Hessian. The
	// Jacobian always uses it as a fractional step, h_d = Bump*(max_d-min_d);
	// the Hessian uses it only as the fallback step when a dimension's grid
	// step is degenerate.
	Bump float64

	// Verbose gates diagnostic printing during Compute.
	Verbose bool
}

// DefaultConfig returns the spec-mandated component-weight defaults
// (0.25, 0.30, 0.25, 0.20) and reasonable scale/threshold defaults.
func DefaultConfig() Config {
	return Config{
		WeightGradient:   0.25,
		WeightCurvature:  0.30,
		WeightCondition:  0.25,
		WeightConstraint: 0.20,

		GradientScale:  1.0,
		CurvatureScale: 1.0,

		ConditionThreshold:  100.0,
		ConstraintThreshold: 1.0,
		FragilityThreshold:  0.5,

		Bump: 1e-4,
	}
}

// NewConfigFromParams builds a Config from a named parameter list, the way
// gofem's model Init(prms dbf.Params) methods build a model from named
// parameters (mdl/solid/elasticity.go). Unrecognised names are ignored;
// missing names keep their DefaultConfig value.
func NewConfigFromParams(prms dbf.Params) (Config, error) {
	cfg := DefaultConfig()
	for _, p := range prms {
		if p == nil {
			return cfg, risk.Errf(risk.NullPointer, "fragility config: nil parameter entry")
		}
		switch p.N {
		case "wg":
			cfg.WeightGradient = p.V
		case "wc":
			cfg.WeightCurvature = p.V
		case "wk":
			cfg.WeightCondition = p.V
		case "wb":
			cfg.WeightConstraint = p.V
		case "gradient_scale":
			cfg.GradientScale = p.V
		case "curvature_scale":
			cfg.CurvatureScale = p.V
		case "condition_threshold":
			cfg.ConditionThreshold = p.V
		case "constraint_threshold":
			cfg.ConstraintThreshold = p.V
		case "fragility_threshold":
			cfg.FragilityThreshold = p.V
		case "bump":
			cfg.Bump = p.V
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects non-sensical configuration values.
func (c Config) Validate() error {
	if c.WeightGradient < 0 || c.WeightCurvature < 0 || c.WeightCondition < 0 || c.WeightConstraint < 0 {
		return risk.Errf(risk.InvalidArgument, "fragility config: weights must be non-negative")
	}
	if c.GradientScale <= 0 || c.CurvatureScale <= 0 {
		return risk.Errf(risk.InvalidArgument, "fragility config: scales must be positive")
	}
	if c.ConditionThreshold <= 1 {
		return risk.Errf(risk.InvalidArgument, "fragility config: condition_threshold must be > 1")
	}
	if c.ConstraintThreshold <= 0 {
		return risk.Errf(risk.InvalidArgument, "fragility config: constraint_threshold must be > 0")
	}
	if c.FragilityThreshold < 0 || c.FragilityThreshold > 1 {
		return risk.Errf(risk.InvalidArgument, "fragility config: fragility_threshold must be in [0,1]")
	}
	return nil
}
