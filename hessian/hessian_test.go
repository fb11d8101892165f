// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hessian

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/tembolo1284/georisk/grid"
)

func quadraticSpace(t *testing.T) *grid.StateSpace {
	t.Helper()
	s := grid.NewStateSpace()
	dx, err := grid.NewDimension(grid.KindSpot, "x", -5, 5, 21)
	if err != nil {
		t.Fatal(err)
	}
	dy, err := grid.NewDimension(grid.KindVol, "y", -5, 5, 21)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddDimension(dx); err != nil {
		t.Fatal(err)
	}
	if err := s.AddDimension(dy); err != nil {
		t.Fatal(err)
	}
	f := func(coords []float64, user interface{}) (float64, error) {
		return coords[0]*coords[0] + coords[1]*coords[1], nil
	}
	if err := s.MapPrices(f, nil); err != nil {
		t.Fatal(err)
	}
	return s
}

// end-to-end scenario #2 from spec.md §8.
func TestHessianScenario2(t *testing.T) {
	chk.PrintTitle("hessian_scenario_2")
	s := quadraticSpace(t)
	h, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Compute(s, []float64{2, 3}); err != nil {
		t.Fatal(err)
	}
	chk.Matrix(t, "H", 0.2, h.H, [][]float64{
		{2, 0},
		{0, 2},
	})

	trace, err := h.Trace()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(trace-4.0) > 0.4 {
		t.Fatalf("trace = %v, want within 0.4 of 4.0", trace)
	}

	eig, err := h.Eigenvalues()
	if err != nil {
		t.Fatal(err)
	}
	chk.Scalar(t, "lambda0", 0.2, eig[0], 2.0)
	chk.Scalar(t, "lambda1", 0.2, eig[1], 2.0)

	cond, err := h.Condition()
	if err != nil {
		t.Fatal(err)
	}
	chk.Scalar(t, "condition", 0.2, cond, 1.0)
}

func TestHessianSymmetricByConstruction(t *testing.T) {
	s := quadraticSpace(t)
	h, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Compute(s, []float64{1.5, -2.5}); err != nil {
		t.Fatal(err)
	}
	chk.Scalar(t, "H[0][1] == H[1][0]", 1e-15, h.H[0][1], h.H[1][0])
}

func TestEigenSumMatchesTraceAndFrobenius(t *testing.T) {
	s := quadraticSpace(t)
	h, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Compute(s, []float64{1, 1}); err != nil {
		t.Fatal(err)
	}
	eig, err := h.Eigenvalues()
	if err != nil {
		t.Fatal(err)
	}
	trace, err := h.Trace()
	if err != nil {
		t.Fatal(err)
	}
	frob, err := h.Frobenius()
	if err != nil {
		t.Fatal(err)
	}

	var eigSum, eigSq float64
	for _, v := range eig {
		eigSum += v
		eigSq += v * v
	}
	if math.Abs(eigSum-trace) > 1e-9*math.Max(1, math.Abs(trace)) {
		t.Fatalf("sum(eigenvalues)=%v != trace=%v", eigSum, trace)
	}
	if math.Abs(eigSq-frob*frob) > 1e-9*math.Max(1, frob*frob) {
		t.Fatalf("sum(eigenvalues^2)=%v != frobenius^2=%v", eigSq, frob*frob)
	}
}

// end-to-end scenario #3 from spec.md §8: kink at S=100 produces large
// curvature at the kink, ~0 away from it.
func TestHessianScenario3Kink(t *testing.T) {
	s := grid.NewStateSpace()
	d, err := grid.NewDimension(grid.KindSpot, "S", 80, 120, 41)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddDimension(d); err != nil {
		t.Fatal(err)
	}
	f := func(coords []float64, user interface{}) (float64, error) {
		v := coords[0] - 100
		if v < 0 {
			v = 0
		}
		return v, nil
	}
	if err := s.MapPrices(f, nil); err != nil {
		t.Fatal(err)
	}

	at := func(x float64) float64 {
		h, err := New(1)
		if err != nil {
			t.Fatal(err)
		}
		if err := h.Compute(s, []float64{x}); err != nil {
			t.Fatal(err)
		}
		return h.H[0][0]
	}

	kink := at(100)
	left := at(90)
	right := at(110)

	if kink <= left || kink <= right {
		t.Fatalf("curvature at the kink (%v) should exceed flat-region curvature (left=%v, right=%v)", kink, left, right)
	}
	if math.Abs(left) > 1e-9 || math.Abs(right) > 1e-9 {
		t.Fatalf("flat-region curvature should be ~0, got left=%v right=%v", left, right)
	}
}

func TestHessianBumpFallsBackWhenStepDegenerate(t *testing.T) {
	h, err := New(1)
	if err != nil {
		t.Fatal(err)
	}
	// a degenerate (zero-step) dimension should fall back to Bump, not
	// collapse adjacent stencil points.
	step := h.stepOf(&grid.Dimension{Step: 0})
	chk.Scalar(t, "fallback step", 1e-15, step, DefaultBump)
}

func TestHessianDefiniteness(t *testing.T) {
	s := quadraticSpace(t)
	h, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Compute(s, []float64{0, 0}); err != nil {
		t.Fatal(err)
	}
	def, err := h.Definiteness()
	if err != nil {
		t.Fatal(err)
	}
	if def != PositiveDefinite {
		t.Fatalf("definiteness = %v, want PositiveDefinite", def)
	}
}

func TestHessianComputeDirectQuadraticForm(t *testing.T) {
	// f(x) = x^T A x with symmetric A converges to 2A.
	a := [][]float64{{3, 1}, {1, 2}}
	f := func(coords []float64, user interface{}) (float64, error) {
		x, y := coords[0], coords[1]
		return a[0][0]*x*x + 2*a[0][1]*x*y + a[1][1]*y*y, nil
	}
	h, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.ComputeDirect(f, nil, []float64{0.3, -0.4}, 1e-3); err != nil {
		t.Fatal(err)
	}
	chk.Matrix(t, "H ~ 2A", 1e-3, h.H, [][]float64{
		{2 * a[0][0], 2 * a[0][1]},
		{2 * a[1][0], 2 * a[1][1]},
	})
}
