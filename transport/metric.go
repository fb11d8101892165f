// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transport implements a sampled Riemannian tensor field with
// inverse-distance interpolation and midpoint geodesic integration for path
// cost, following the tabulated-sample-plus-interpolation idiom gofem's
// porous-media models use for retention and conductivity curves.
package transport

import (
	"math"

	"github.com/cpmech/gosl/la"

	"github.com/tembolo1284/georisk"
)

// SMax is the maximum number of samples a Metric may hold.
const SMax = 1024

// geodesicSteps is the number of midpoint-rule segments used to discretise
// a geodesic evaluation (K in spec.md §4.6).
const geodesicSteps = 100

// idwEpsilon and idwPower parameterise the inverse-distance weighting:
// w_k = 1 / (d_k + idwEpsilon)^idwPower.
const (
	idwEpsilon = 1e-10
	idwPower   = 2.0
)

// Sample is a single tensor-field anchor (x, G) with G required to be
// symmetric positive-definite (the producer's responsibility; not
// re-verified on read).
type Sample struct {
	X []float64
	G [][]float64
}

// Metric holds an ordered sequence of samples, a default tensor (identity
// unless overridden) and an interpolation radius.
type Metric struct {
	N       int
	Samples []Sample
	Default [][]float64
	Radius  float64
}

// New returns a Metric over n-dimensional points with the identity as its
// default tensor and radius 0 (meaning: consider all samples).
func New(n int) (*Metric, error) {
	if n <= 0 {
		return nil, risk.Errf(risk.InvalidArgument, "transport metric: n must be positive, got %d", n)
	}
	m := &Metric{N: n, Default: identity(n)}
	return m, nil
}

func identity(n int) [][]float64 {
	g := la.MatAlloc(n, n)
	for i := 0; i < n; i++ {
		g[i][i] = 1
	}
	return g
}

// SetDefault overrides the default tensor used when no sample is within
// range.
func (m *Metric) SetDefault(g [][]float64) error {
	if err := m.validateTensor(g); err != nil {
		return err
	}
	m.Default = g
	return nil
}

// SetRadius sets the interpolation radius (r >= 0; 0 means "consider all
// samples").
func (m *Metric) SetRadius(r float64) error {
	if r < 0 {
		return risk.Errf(risk.InvalidArgument, "transport metric: radius must be >= 0, got %v", r)
	}
	m.Radius = r
	return nil
}

// AddSample appends a tensor-field anchor, up to SMax.
func (m *Metric) AddSample(x []float64, g [][]float64) error {
	if len(m.Samples) >= SMax {
		return risk.Errf(risk.InvalidArgument, "transport metric already holds the maximum of %d samples", SMax)
	}
	if len(x) != m.N {
		return risk.Errf(risk.DimensionMismatch, "transport metric: sample point has %d coords, expected %d", len(x), m.N)
	}
	if err := m.validateTensor(g); err != nil {
		return err
	}
	m.Samples = append(m.Samples, Sample{X: append([]float64(nil), x...), G: g})
	return nil
}

func (m *Metric) validateTensor(g [][]float64) error {
	if len(g) != m.N {
		return risk.Errf(risk.DimensionMismatch, "transport metric: tensor has %d rows, expected %d", len(g), m.N)
	}
	for _, row := range g {
		if len(row) != m.N {
			return risk.Errf(risk.DimensionMismatch, "transport metric: tensor row has %d entries, expected %d", len(row), m.N)
		}
	}
	return nil
}

// Interpolate returns the tensor G(x): the default if there are no samples
// or none fall within Radius (or radius 0, meaning all samples), otherwise
// the inverse-distance-weighted average of in-range samples.
func (m *Metric) Interpolate(x []float64) ([][]float64, error) {
	if len(x) != m.N {
		return nil, risk.Errf(risk.DimensionMismatch, "transport metric: point has %d coords, expected %d", len(x), m.N)
	}
	if len(m.Samples) == 0 {
		return m.Default, nil
	}

	sum := la.MatAlloc(m.N, m.N)
	var weightSum float64
	for _, s := range m.Samples {
		d := euclidean(x, s.X)
		if m.Radius > 0 && d > m.Radius {
			continue
		}
		w := 1.0 / math.Pow(d+idwEpsilon, idwPower)
		weightSum += w
		for i := 0; i < m.N; i++ {
			for j := 0; j < m.N; j++ {
				sum[i][j] += w * s.G[i][j]
			}
		}
	}
	if weightSum <= 0 {
		return m.Default, nil
	}
	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			sum[i][j] /= weightSum
		}
	}
	return sum, nil
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// quadForm returns v^T G v.
func quadForm(g [][]float64, v []float64) float64 {
	n := len(v)
	var sum float64
	for i := 0; i < n; i++ {
		var row float64
		for j := 0; j < n; j++ {
			row += g[i][j] * v[j]
		}
		sum += v[i] * row
	}
	return sum
}

// GeodesicCost approximates the geodesic cost from a to b by discretising
// the straight segment into geodesicSteps midpoint evaluations of the
// interpolated tensor.
func (m *Metric) GeodesicCost(a, b []float64) (float64, error) {
	if len(a) != m.N || len(b) != m.N {
		return 0, risk.Errf(risk.DimensionMismatch, "transport metric: endpoints must have %d coords", m.N)
	}
	delta := make([]float64, m.N)
	for i := range delta {
		delta[i] = (b[i] - a[i]) / geodesicSteps
	}
	var total float64
	mid := make([]float64, m.N)
	for step := 0; step < geodesicSteps; step++ {
		for i := range mid {
			mid[i] = a[i] + (float64(step)+0.5)*delta[i]
		}
		g, err := m.Interpolate(mid)
		if err != nil {
			return 0, err
		}
		q := quadForm(g, delta)
		if q < 0 {
			q = 0
		}
		total += math.Sqrt(q)
	}
	return total, nil
}

// TransportDistance is an alias for GeodesicCost, the name used in the
// public query surface (§6).
func (m *Metric) TransportDistance(a, b []float64) (float64, error) {
	return m.GeodesicCost(a, b)
}

// PathCost sums the geodesic cost of every consecutive pair of waypoints in
// a polyline.
func (m *Metric) PathCost(waypoints [][]float64) (float64, error) {
	if len(waypoints) < 2 {
		return 0, nil
	}
	var total float64
	for i := 0; i+1 < len(waypoints); i++ {
		c, err := m.GeodesicCost(waypoints[i], waypoints[i+1])
		if err != nil {
			return 0, err
		}
		total += c
	}
	return total, nil
}

// FrictionRatio returns TransportDistance(a,b) / Euclidean(a,b); 1 for the
// identity metric, >1 indicating friction. Reported as 1 for coincident
// endpoints, where the ratio is otherwise undefined.
func (m *Metric) FrictionRatio(a, b []float64) (float64, error) {
	euc := euclidean(a, b)
	if euc == 0 {
		return 1, nil
	}
	dist, err := m.TransportDistance(a, b)
	if err != nil {
		return 0, err
	}
	return dist / euc, nil
}
