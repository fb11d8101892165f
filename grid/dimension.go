// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid implements the uniform axis grids and the Cartesian-product
// state space that sample a pricing function over a bounded n-dimensional
// box, with nearest-neighbour and multilinear interpolation.
package grid

import (
	"github.com/tembolo1284/georisk"
)

// Kind tags the risk-factor a Dimension represents. Custom dimensions use
// KindCustom with an arbitrary Name.
type Kind int

// Recognised risk-factor tags.
const (
	KindCustom Kind = iota
	KindSpot
	KindVol
	KindRate
	KindTime
	KindLiquidity
)

// Dimension is an immutable uniform axis grid: N >= 2 nodes spaced evenly
// over [Min, Max], with the last node forced equal to Max to avoid floating
// drift.
type Dimension struct {
	Kind  Kind
	Name  string
	Min   float64
	Max   float64
	N     int
	Step  float64
	Nodes []float64
}

// NewDimension builds an immutable Dimension. It fails with InvalidArgument
// if min >= max or n < 2.
func NewDimension(kind Kind, name string, min, max float64, n int) (*Dimension, error) {
	if !(min < max) {
		return nil, risk.Errf(risk.InvalidArgument, "dimension %q: min (%v) must be < max (%v)", name, min, max)
	}
	if n < 2 {
		return nil, risk.Errf(risk.InvalidArgument, "dimension %q: N (%d) must be >= 2", name, n)
	}
	d := &Dimension{
		Kind: kind,
		Name: name,
		Min:  min,
		Max:  max,
		N:    n,
	}
	d.Step = (max - min) / float64(n-1)
	d.Nodes = make([]float64, n)
	for i := 0; i < n; i++ {
		d.Nodes[i] = min + float64(i)*d.Step
	}
	d.Nodes[n-1] = max
	return d, nil
}

// Bracket clamps v to [Min, Max] and returns the enclosing node indices
// lo <= hi (lo == hi only at or beyond either boundary) together with the
// interpolation fraction t = (v - Nodes[lo]) / (Nodes[hi] - Nodes[lo]),
// or 0 when the bracket is degenerate.
func (d *Dimension) Bracket(v float64) (lo, hi int, t float64) {
	if v <= d.Min {
		return 0, 0, 0
	}
	if v >= d.Max {
		return d.N - 1, d.N - 1, 0
	}
	// locate the bracket via the uniform spacing, then clamp for safety
	// against floating error at the edges of a bracket.
	lo = int((v - d.Min) / d.Step)
	if lo < 0 {
		lo = 0
	}
	if lo > d.N-2 {
		lo = d.N - 2
	}
	hi = lo + 1
	span := d.Nodes[hi] - d.Nodes[lo]
	if span == 0 {
		return lo, hi, 0
	}
	t = (v - d.Nodes[lo]) / span
	return lo, hi, t
}

// NearestIndex clamps v to [Min, Max] then returns the node index closest
// to it; ties resolve to the lower index.
func (d *Dimension) NearestIndex(v float64) int {
	lo, hi, t := d.Bracket(v)
	if lo == hi {
		return lo
	}
	if t <= 0.5 {
		return lo
	}
	return hi
}

// Clamp restricts v to [Min, Max].
func (d *Dimension) Clamp(v float64) float64 {
	if v < d.Min {
		return d.Min
	}
	if v > d.Max {
		return d.Max
	}
	return v
}
