// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package constraint models the admissible region of a state space as a
// tagged-union constraint surface: threshold-based constraints compared
// against a single dimension, or callback-based constraints evaluated
// against the full point, per spec.md's "polymorphism over constraints"
// design note.
package constraint

import (
	"math"

	"github.com/tembolo1284/georisk"
)

// Kind tags what the constraint represents.
type Kind int

// Constraint kinds.
const (
	Liquidity Kind = iota
	PositionLimit
	Margin
	Regulatory
	Custom
)

// Direction says which side of Threshold is admissible.
type Direction int

// Constraint directions.
const (
	Upper Direction = iota
	Lower
	Equality
)

// Hardness distinguishes constraints that are fatal when violated from
// those that merely accrue a penalty.
type Hardness int

// Constraint hardness levels.
const (
	Hard Hardness = iota
	Soft
	Dynamic
)

// Constraint is a single tagged record: either a simple threshold
// comparison against DimIndex, or an arbitrary Eval callback over the full
// point.
type Constraint struct {
	Kind        Kind
	Name        string
	Direction   Direction
	Hardness    Hardness
	Threshold   float64
	DimIndex    int
	Eval        risk.Func
	User        interface{}
	PenaltyRate float64
	Tolerance   float64
	Active      bool
}

// value extracts the constrained quantity from point: the selected
// dimension's coordinate for a threshold constraint, or Eval(point) for a
// callback constraint.
func (c *Constraint) value(point []float64) (float64, error) {
	if c.Eval != nil {
		return c.Eval(point, c.User)
	}
	if c.DimIndex < 0 || c.DimIndex >= len(point) {
		return 0, risk.Errf(risk.InvalidArgument, "constraint %q: dimension index %d out of range [0,%d)", c.Name, c.DimIndex, len(point))
	}
	return point[c.DimIndex], nil
}

// SignedDistance returns the signed distance of point to this constraint:
// positive inside, zero on the boundary, negative when violated. Returns
// +Inf for an inactive constraint.
func (c *Constraint) SignedDistance(point []float64) (float64, error) {
	if !c.Active {
		return math.Inf(1), nil
	}
	v, err := c.value(point)
	if err != nil {
		return 0, err
	}
	switch c.Direction {
	case Upper:
		return c.Threshold - v, nil
	case Lower:
		return v - c.Threshold, nil
	case Equality:
		return c.Tolerance - math.Abs(v-c.Threshold), nil
	}
	return 0, risk.Errf(risk.InvalidArgument, "constraint %q: unknown direction", c.Name)
}

// IsViolated reports whether point violates this constraint. An inactive
// constraint is never violated.
func (c *Constraint) IsViolated(point []float64) (bool, error) {
	if !c.Active {
		return false, nil
	}
	d, err := c.SignedDistance(point)
	if err != nil {
		return false, err
	}
	return d < 0, nil
}

// Penalty returns the soft-constraint penalty at point: PenaltyRate *
// max(0, -signed_distance). Hard constraints carry no penalty.
func (c *Constraint) Penalty(point []float64) (float64, error) {
	if c.Hardness == Hard || !c.Active {
		return 0, nil
	}
	d, err := c.SignedDistance(point)
	if err != nil {
		return 0, err
	}
	if d >= 0 {
		return 0, nil
	}
	return c.PenaltyRate * -d, nil
}

// defaults returns the type-appropriate (direction, hardness, penalty rate)
// defaults used by Surface.Add.
func defaults(kind Kind) (Direction, Hardness, float64) {
	switch kind {
	case Liquidity:
		return Lower, Soft, 1.0
	case PositionLimit:
		return Upper, Hard, 0.0
	case Margin:
		return Upper, Soft, 5.0
	case Regulatory:
		return Upper, Hard, 0.0
	default:
		return Upper, Soft, 1.0
	}
}
