// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp implements the input data read from a (.scn) JSON scenario
// file: the state-space dimensions, the named pricing function to sweep,
// the constraint surface, and the fragility configuration.
package inp

import (
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/tembolo1284/georisk"
)

// PricerData names a registered pricing function together with the
// parameters it is built with, mirroring how a simulation names a loaded
// boundary condition function by (name, type, prms).
type PricerData struct {
	Name string     `json:"name"` // registry key; e.g. "quadratic_bowl", "butterfly", "barrier_kink"
	Prms dbf.Params `json:"prms"` // named parameters passed to the builder
}

// builder constructs a risk.Func from a pricer's parameters.
type builder func(prms dbf.Params) (risk.Func, error)

// registry holds every named pricing function this CLI knows how to build.
// Unlike an arbitrary user callback (risk.Func, wired in library use), a CLI
// scenario file can only reference analytic functions known ahead of time.
var registry = map[string]builder{
	"quadratic_bowl": buildQuadraticBowl,
	"butterfly":      buildButterfly,
	"barrier_kink":   buildBarrierKink,
	"saddle":         buildSaddle,
}

// Get builds the named pricing function from its parameters.
func (o PricerData) Get() (risk.Func, error) {
	b, ok := registry[o.Name]
	if !ok {
		return nil, risk.Errf(risk.InvalidArgument, "inp: no pricer registered under name %q", o.Name)
	}
	return b(o.Prms)
}

// prm looks up a named parameter's value, returning def if absent.
func prm(prms dbf.Params, name string, def float64) float64 {
	for _, p := range prms {
		if p != nil && p.N == name {
			return p.V
		}
	}
	return def
}

// buildQuadraticBowl returns f(x) = sum_i scale_i * x_i^2, a smooth convex
// bowl with a single stable minimum.
func buildQuadraticBowl(prms dbf.Params) (risk.Func, error) {
	scale := prm(prms, "scale", 1.0)
	return func(coords []float64, user interface{}) (float64, error) {
		var sum float64
		for _, x := range coords {
			sum += scale * x * x
		}
		return sum, nil
	}, nil
}

// buildButterfly returns a 1-D butterfly-spread payoff centred at strike k
// with wing width w: max(w-|x-k|,0). It is piecewise linear with kinks at
// k-w, k, k+w, producing concentrated curvature at those three points.
func buildButterfly(prms dbf.Params) (risk.Func, error) {
	k := prm(prms, "strike", 100.0)
	w := prm(prms, "width", 10.0)
	return func(coords []float64, user interface{}) (float64, error) {
		v := w - absf(coords[0]-k)
		if v < 0 {
			v = 0
		}
		return v, nil
	}, nil
}

// buildBarrierKink returns a 1-D call-like payoff max(x-k,0), the kinked
// payoff used in spec.md's curvature scenario.
func buildBarrierKink(prms dbf.Params) (risk.Func, error) {
	k := prm(prms, "strike", 100.0)
	return func(coords []float64, user interface{}) (float64, error) {
		v := coords[0] - k
		if v < 0 {
			v = 0
		}
		return v, nil
	}, nil
}

// buildSaddle returns f(x,y) = x^2 - y^2, an indefinite surface useful for
// exercising the Definiteness classification on a 2-D grid.
func buildSaddle(prms dbf.Params) (risk.Func, error) {
	return func(coords []float64, user interface{}) (float64, error) {
		if len(coords) < 2 {
			return 0, risk.Errf(risk.DimensionMismatch, "saddle: requires at least 2 dimensions")
		}
		return coords[0]*coords[0] - coords[1]*coords[1], nil
	}, nil
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
