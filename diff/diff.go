// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff implements finite-difference stencils over a user callable,
// promoting the analytical-vs-numerical derivative checking idiom used
// throughout the gofem model test suites to a production primitive.
package diff

import (
	"github.com/tembolo1284/georisk"
)

// Func evaluates f at a point of length n, given opaque user data.
type Func func(point []float64, user interface{}) (float64, error)

// bump writes x[i] += h into point, evaluates fn, then restores point
// byte-for-byte before returning, per the differentiation contract: the
// scratch point is never left mutated and is never the caller's own slice.
func bump(fn Func, point []float64, i int, h float64, user interface{}) (float64, error) {
	orig := point[i]
	point[i] = orig + h
	v, err := fn(point, user)
	point[i] = orig
	return v, err
}

// scratch returns an owned copy of point; callers must never pass the
// caller's own input slice into the stencils below.
func scratch(point []float64) []float64 {
	cp := make([]float64, len(point))
	copy(cp, point)
	return cp
}

// Forward computes the forward-difference partial ∂f/∂x_i at point with
// step h: (f(x+h·e_i) - f(x)) / h, O(h).
func Forward(fn Func, point []float64, i int, h float64, user interface{}) (float64, error) {
	if fn == nil {
		return 0, risk.Errf(risk.NullPointer, "forward partial: nil function")
	}
	if i < 0 || i >= len(point) {
		return 0, risk.Errf(risk.InvalidArgument, "forward partial: axis %d out of range [0,%d)", i, len(point))
	}
	p := scratch(point)
	f0, err := fn(p, user)
	if err != nil {
		return 0, err
	}
	fp, err := bump(fn, p, i, h, user)
	if err != nil {
		return 0, err
	}
	return (fp - f0) / h, nil
}

// Central computes the central-difference partial ∂f/∂x_i at point with
// step h: (f(x+h·e_i) - f(x-h·e_i)) / (2h), O(h²). This is the default
// partial-derivative routine used by Jacobian; Hessian uses Diagonal and
// Mixed.
func Central(fn Func, point []float64, i int, h float64, user interface{}) (float64, error) {
	if fn == nil {
		return 0, risk.Errf(risk.NullPointer, "central partial: nil function")
	}
	if i < 0 || i >= len(point) {
		return 0, risk.Errf(risk.InvalidArgument, "central partial: axis %d out of range [0,%d)", i, len(point))
	}
	p := scratch(point)
	fp, err := bump(fn, p, i, h, user)
	if err != nil {
		return 0, err
	}
	fm, err := bump(fn, p, i, -h, user)
	if err != nil {
		return 0, err
	}
	return (fp - fm) / (2 * h), nil
}

// FivePoint computes the five-point partial ∂f/∂x_i at point with step h:
// (-f(x+2h) + 8f(x+h) - 8f(x-h) + f(x-2h)) / (12h), O(h⁴).
func FivePoint(fn Func, point []float64, i int, h float64, user interface{}) (float64, error) {
	if fn == nil {
		return 0, risk.Errf(risk.NullPointer, "five-point partial: nil function")
	}
	if i < 0 || i >= len(point) {
		return 0, risk.Errf(risk.InvalidArgument, "five-point partial: axis %d out of range [0,%d)", i, len(point))
	}
	p := scratch(point)
	fp2, err := bump(fn, p, i, 2*h, user)
	if err != nil {
		return 0, err
	}
	fp1, err := bump(fn, p, i, h, user)
	if err != nil {
		return 0, err
	}
	fm1, err := bump(fn, p, i, -h, user)
	if err != nil {
		return 0, err
	}
	fm2, err := bump(fn, p, i, -2*h, user)
	if err != nil {
		return 0, err
	}
	return (-fp2 + 8*fp1 - 8*fm1 + fm2) / (12 * h), nil
}

// Diagonal computes the diagonal second partial ∂²f/∂x_i² at point with
// step h: (f(x+h) - 2f(x) + f(x-h)) / h².
func Diagonal(fn Func, point []float64, i int, h float64, user interface{}) (float64, error) {
	if fn == nil {
		return 0, risk.Errf(risk.NullPointer, "diagonal second partial: nil function")
	}
	if i < 0 || i >= len(point) {
		return 0, risk.Errf(risk.InvalidArgument, "diagonal second partial: axis %d out of range [0,%d)", i, len(point))
	}
	p := scratch(point)
	f0, err := fn(p, user)
	if err != nil {
		return 0, err
	}
	fp, err := bump(fn, p, i, h, user)
	if err != nil {
		return 0, err
	}
	fm, err := bump(fn, p, i, -h, user)
	if err != nil {
		return 0, err
	}
	return (fp - 2*f0 + fm) / (h * h), nil
}

// Mixed computes the mixed second partial ∂²f/∂x_i∂x_j at point with steps
// hi, hj using the four-corner stencil:
// (f_++ - f_+- - f_-+ + f_--) / (4 hi hj).
func Mixed(fn Func, point []float64, i, j int, hi, hj float64, user interface{}) (float64, error) {
	if fn == nil {
		return 0, risk.Errf(risk.NullPointer, "mixed second partial: nil function")
	}
	n := len(point)
	if i < 0 || i >= n || j < 0 || j >= n {
		return 0, risk.Errf(risk.InvalidArgument, "mixed second partial: axes (%d,%d) out of range [0,%d)", i, j, n)
	}
	if i == j {
		return 0, risk.Errf(risk.InvalidArgument, "mixed second partial: axes must differ, got (%d,%d)", i, j)
	}
	p := scratch(point)

	oi, oj := p[i], p[j]
	eval := func(di, dj float64) (float64, error) {
		p[i] = oi + di
		p[j] = oj + dj
		v, err := fn(p, user)
		p[i], p[j] = oi, oj
		return v, err
	}

	fpp, err := eval(hi, hj)
	if err != nil {
		return 0, err
	}
	fpm, err := eval(hi, -hj)
	if err != nil {
		return 0, err
	}
	fmp, err := eval(-hi, hj)
	if err != nil {
		return 0, err
	}
	fmm, err := eval(-hi, -hj)
	if err != nil {
		return 0, err
	}
	return (fpp - fpm - fmp + fmm) / (4 * hi * hj), nil
}
