// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jacobian computes the gradient of a scalar pricing function by
// central finite differences, either directly against a callable or
// grid-backed via multilinear interpolation.
package jacobian

import (
	"math"

	"github.com/tembolo1284/georisk"
	"github.com/tembolo1284/georisk/diff"
	"github.com/tembolo1284/georisk/grid"
)

// DefaultBump is the fractional per-dimension bump used when none is given:
// h_d = Bump * (max_d - min_d).
const DefaultBump = 1e-4

// directionEpsilon is the gradient-norm floor below which Direction returns
// the zero vector rather than dividing by (near) zero.
const directionEpsilon = 1e-15

// Jacobian holds the gradient of f at a point, valid only after a
// successful Compute/ComputeDirect.
type Jacobian struct {
	N      int
	Point  []float64
	Grad   []float64
	Center float64
	Bump   float64
	Valid  bool
}

// New allocates a Jacobian for a fixed dimension count n.
func New(n int) (*Jacobian, error) {
	if n <= 0 {
		return nil, risk.Errf(risk.InvalidArgument, "jacobian: n must be positive, got %d", n)
	}
	return &Jacobian{
		N:    n,
		Bump: DefaultBump,
	}, nil
}

// Compute evaluates the gradient at point using the state space's sampled
// price field via multilinear interpolation. The bump per dimension is
// scaled by the axis extent: h_d = Bump * (max_d - min_d).
func (j *Jacobian) Compute(space *grid.StateSpace, point []float64) error {
	if space == nil {
		return risk.Errf(risk.NullPointer, "jacobian compute: nil state space")
	}
	if space.NDim() != j.N {
		return risk.Errf(risk.DimensionMismatch, "jacobian has n=%d, state space has n=%d", j.N, space.NDim())
	}
	if !space.Valid {
		return risk.Errf(risk.NotInitialized, "jacobian compute: state space prices are not valid")
	}
	if len(point) != j.N {
		return risk.Errf(risk.DimensionMismatch, "jacobian compute: point has %d coords, expected %d", len(point), j.N)
	}

	center, err := space.Interpolate(point)
	if err != nil {
		return err
	}

	fn := func(p []float64, _ interface{}) (float64, error) {
		return space.Interpolate(p)
	}

	grad := make([]float64, j.N)
	for d := 0; d < j.N; d++ {
		dim := space.Dims[d]
		h := j.Bump * (dim.Max - dim.Min)
		g, err := diff.Central(diff.Func(fn), point, d, h, nil)
		if err != nil {
			return err
		}
		grad[d] = g
	}

	j.Point = append([]float64(nil), point...)
	j.Grad = grad
	j.Center = center
	j.Valid = true
	return nil
}

// ComputeDirect evaluates the gradient at point directly against fn (not
// grid-backed), using a fixed absolute step h in every dimension.
func (j *Jacobian) ComputeDirect(fn risk.Func, user interface{}, point []float64, h float64) error {
	if fn == nil {
		return risk.Errf(risk.NullPointer, "jacobian compute_direct: nil function")
	}
	if len(point) != j.N {
		return risk.Errf(risk.DimensionMismatch, "jacobian compute_direct: point has %d coords, expected %d", len(point), j.N)
	}

	wrapped := diff.Func(fn)
	center, err := fn(point, user)
	if err != nil {
		return risk.Errf(risk.PricingEngineFailed, "jacobian compute_direct: centre evaluation failed: %v", err)
	}

	grad := make([]float64, j.N)
	for d := 0; d < j.N; d++ {
		g, err := diff.Central(wrapped, point, d, h, user)
		if err != nil {
			return risk.Errf(risk.PricingEngineFailed, "jacobian compute_direct: axis %d: %v", d, err)
		}
		grad[d] = g
	}

	j.Point = append([]float64(nil), point...)
	j.Grad = grad
	j.Center = center
	j.Valid = true
	return nil
}

// Get returns the i-th partial derivative. Value is meaningful only when
// Valid.
func (j *Jacobian) Get(i int) (float64, error) {
	if !j.Valid {
		return 0, risk.Errf(risk.NotInitialized, "jacobian: not computed")
	}
	if i < 0 || i >= j.N {
		return 0, risk.Errf(risk.InvalidArgument, "jacobian: axis %d out of range [0,%d)", i, j.N)
	}
	return j.Grad[i], nil
}

// Norm returns the L2 norm of the gradient.
func (j *Jacobian) Norm() float64 {
	var sum float64
	for _, g := range j.Grad {
		sum += g * g
	}
	return math.Sqrt(sum)
}

// LInfNorm returns the L-infinity (max absolute component) norm of the
// gradient.
func (j *Jacobian) LInfNorm() float64 {
	var max float64
	for _, g := range j.Grad {
		a := math.Abs(g)
		if a > max {
			max = a
		}
	}
	return max
}

// MostSensitiveDim returns the index of the axis with the largest absolute
// partial derivative.
func (j *Jacobian) MostSensitiveDim() int {
	best := 0
	bestAbs := -1.0
	for i, g := range j.Grad {
		a := math.Abs(g)
		if a > bestAbs {
			bestAbs = a
			best = i
		}
	}
	return best
}

// Direction writes the unit gradient into out, or the zero vector if the
// gradient norm is below 1e-15.
func (j *Jacobian) Direction(out []float64) error {
	if len(out) != j.N {
		return risk.Errf(risk.DimensionMismatch, "jacobian direction: out has %d entries, expected %d", len(out), j.N)
	}
	norm := j.Norm()
	if norm < directionEpsilon {
		for i := range out {
			out[i] = 0
		}
		return nil
	}
	for i, g := range j.Grad {
		out[i] = g / norm
	}
	return nil
}

// DirectionalDerivative returns the directional derivative ∑ ∂_i f · v_i.
func (j *Jacobian) DirectionalDerivative(v []float64) (float64, error) {
	if len(v) != j.N {
		return 0, risk.Errf(risk.DimensionMismatch, "jacobian directional derivative: v has %d entries, expected %d", len(v), j.N)
	}
	var sum float64
	for i, g := range j.Grad {
		sum += g * v[i]
	}
	return sum, nil
}
