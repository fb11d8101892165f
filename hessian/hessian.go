// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hessian computes the symmetric curvature matrix of a scalar
// pricing function by central and four-corner mixed-partial stencils, and
// its eigendecomposition via classical Jacobi rotations for condition
// number and definiteness.
package hessian

import (
	"math"

	"github.com/cpmech/gosl/la"

	"github.com/tembolo1284/georisk"
	"github.com/tembolo1284/georisk/diff"
	"github.com/tembolo1284/georisk/grid"
)

// DefaultBump is the fallback step used when a dimension's grid step is not
// finite or is not positive; see the Compute bump-sizing note below.
const DefaultBump = 1e-4

// negligibleEigenvalue is the floor below which an eigenvalue is excluded
// from the condition-number computation.
const negligibleEigenvalue = 1e-15

// conditionSentinel is returned when every eigenvalue is below the
// negligible floor, so none is retained.
const conditionSentinel = 1e15

// Definiteness classifies the sign pattern of the Hessian's eigenvalues.
type Definiteness int

// Definiteness values.
const (
	Indefinite Definiteness = iota
	PositiveDefinite
	NegativeDefinite
)

// Hessian holds the symmetric n×n curvature matrix of f at a point, valid
// only after a successful Compute/ComputeDirect. Each Compute/ComputeDirect
// rewrites H and invalidates the cached eigenvalues; assigning to H directly
// does not.
type Hessian struct {
	N          int
	Point      []float64
	H          [][]float64
	Center     float64
	Bump       float64
	Valid      bool
	eigen      []float64
	eigenValid bool
}

// New allocates a Hessian for a fixed dimension count n.
func New(n int) (*Hessian, error) {
	if n <= 0 {
		return nil, risk.Errf(risk.InvalidArgument, "hessian: n must be positive, got %d", n)
	}
	return &Hessian{
		N:    n,
		H:    la.MatAlloc(n, n),
		Bump: DefaultBump,
	}, nil
}

// stepOf returns the per-dimension stencil step: the dimension's grid step
// when it is finite and positive, otherwise h.Bump. Using the context
// bump directly against an interpolated grid can produce sub-grid shifts
// that collapse to the same node under nearest-neighbour evaluation and
// explode the second derivative — this is the bug the bump-sizing rule
// corrects.
func (h *Hessian) stepOf(dim *grid.Dimension) float64 {
	step := dim.Step
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		return h.Bump
	}
	return step
}

// Compute evaluates the Hessian at point using the state space's sampled
// price field via multilinear interpolation. Per-dimension bump is the grid
// step size (falling back to Bump only when that step is degenerate).
func (h *Hessian) Compute(space *grid.StateSpace, point []float64) error {
	if space == nil {
		return risk.Errf(risk.NullPointer, "hessian compute: nil state space")
	}
	if space.NDim() != h.N {
		return risk.Errf(risk.DimensionMismatch, "hessian has n=%d, state space has n=%d", h.N, space.NDim())
	}
	if !space.Valid {
		return risk.Errf(risk.NotInitialized, "hessian compute: state space prices are not valid")
	}
	if len(point) != h.N {
		return risk.Errf(risk.DimensionMismatch, "hessian compute: point has %d coords, expected %d", len(point), h.N)
	}

	center, err := space.Interpolate(point)
	if err != nil {
		return err
	}

	fn := diff.Func(func(p []float64, _ interface{}) (float64, error) {
		return space.Interpolate(p)
	})

	steps := make([]float64, h.N)
	for d := 0; d < h.N; d++ {
		steps[d] = h.stepOf(space.Dims[d])
	}

	return h.fill(fn, nil, point, center, steps)
}

// ComputeDirect evaluates the Hessian at point directly against fn (not
// grid-backed), using a fixed absolute step h in every dimension.
func (h *Hessian) ComputeDirect(fn risk.Func, user interface{}, point []float64, step float64) error {
	if fn == nil {
		return risk.Errf(risk.NullPointer, "hessian compute_direct: nil function")
	}
	if len(point) != h.N {
		return risk.Errf(risk.DimensionMismatch, "hessian compute_direct: point has %d coords, expected %d", len(point), h.N)
	}
	center, err := fn(point, user)
	if err != nil {
		return risk.Errf(risk.PricingEngineFailed, "hessian compute_direct: centre evaluation failed: %v", err)
	}
	steps := make([]float64, h.N)
	for d := range steps {
		steps[d] = step
	}
	return h.fill(diff.Func(fn), user, point, center, steps)
}

// fill computes the centre-known Hessian: diagonal via the three-point
// stencil, upper triangle via the four-corner mixed stencil, mirrored into
// the lower triangle.
func (h *Hessian) fill(fn diff.Func, user interface{}, point []float64, center float64, steps []float64) error {
	for i := 0; i < h.N; i++ {
		v, err := diff.Diagonal(fn, point, i, steps[i], user)
		if err != nil {
			return err
		}
		h.H[i][i] = v
	}
	for i := 0; i < h.N; i++ {
		for j := i + 1; j < h.N; j++ {
			v, err := diff.Mixed(fn, point, i, j, steps[i], steps[j], user)
			if err != nil {
				return err
			}
			h.H[i][j] = v
			h.H[j][i] = v
		}
	}
	h.Point = append([]float64(nil), point...)
	h.Center = center
	h.Valid = true
	h.eigenValid = false
	h.eigen = nil
	return nil
}

// Trace returns ∑ H_ii.
func (h *Hessian) Trace() (float64, error) {
	if !h.Valid {
		return 0, risk.Errf(risk.NotInitialized, "hessian: not computed")
	}
	var sum float64
	for i := 0; i < h.N; i++ {
		sum += h.H[i][i]
	}
	return sum, nil
}

// Frobenius returns sqrt(∑ H_ij²).
func (h *Hessian) Frobenius() (float64, error) {
	if !h.Valid {
		return 0, risk.Errf(risk.NotInitialized, "hessian: not computed")
	}
	var sum float64
	for i := 0; i < h.N; i++ {
		for j := 0; j < h.N; j++ {
			sum += h.H[i][j] * h.H[i][j]
		}
	}
	return math.Sqrt(sum), nil
}

// Eigenvalues returns the cached eigendecomposition (computing it on first
// use, or after H was last written), sorted descending by absolute value.
func (h *Hessian) Eigenvalues() ([]float64, error) {
	if !h.Valid {
		return nil, risk.Errf(risk.NotInitialized, "hessian: not computed")
	}
	if h.eigenValid {
		return h.eigen, nil
	}
	eig, err := jacobiEigen(h.H)
	if err != nil {
		return nil, err
	}
	h.eigen = eig
	h.eigenValid = true
	return h.eigen, nil
}

// Condition returns |λ_max| / |λ_min| over non-negligible eigenvalues
// (|λ| >= 1e-15). Returns the sentinel 1e15 if every eigenvalue is
// negligible.
func (h *Hessian) Condition() (float64, error) {
	eig, err := h.Eigenvalues()
	if err != nil {
		return 0, err
	}
	var retained []float64
	for _, v := range eig {
		if math.Abs(v) >= negligibleEigenvalue {
			retained = append(retained, math.Abs(v))
		}
	}
	if len(retained) == 0 {
		return conditionSentinel, nil
	}
	max, min := retained[0], retained[0]
	for _, v := range retained {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	if min == 0 {
		return conditionSentinel, nil
	}
	return max / min, nil
}

// Definiteness reports positive-/negative-definite/indefinite by the strict
// signs of all eigenvalues.
func (h *Hessian) Definiteness() (Definiteness, error) {
	eig, err := h.Eigenvalues()
	if err != nil {
		return Indefinite, err
	}
	allPos, allNeg := true, true
	for _, v := range eig {
		if v <= 0 {
			allPos = false
		}
		if v >= 0 {
			allNeg = false
		}
	}
	switch {
	case allPos:
		return PositiveDefinite, nil
	case allNeg:
		return NegativeDefinite, nil
	default:
		return Indefinite, nil
	}
}
