package grid

import (
	"github.com/tembolo1284/georisk"
)

// DMax is the maximum number of dimensions a StateSpace may hold.
const DMax = 16

// StateSpace is the Cartesian product of an ordered sequence of Dimensions.
// Strides are row-major, last dimension fastest. A flat prices buffer is
// optional and only Valid after a successful MapPrices pass; adding a
// dimension invalidates it.
type StateSpace struct {
	Dims    []*Dimension
	Strides []int
	Total   int
	Prices  []float64
	Valid   bool
}

// NewStateSpace returns an empty state space.
func NewStateSpace() *StateSpace {
	return &StateSpace{}
}

// NDim returns the number of dimensions currently held.
func (s *StateSpace) NDim() int { return len(s.Dims) }

// TotalPoints returns the product of all dimension sizes (0 if empty).
func (s *StateSpace) TotalPoints() int { return s.Total }

// AddDimension appends a dimension, recomputing strides and total size in
// O(n), and invalidates any previously mapped prices.
func (s *StateSpace) AddDimension(d *Dimension) error {
	if d == nil {
		return risk.Errf(risk.NullPointer, "cannot add a nil dimension")
	}
	if len(s.Dims) >= DMax {
		return risk.Errf(risk.InvalidArgument, "state space already holds the maximum of %d dimensions", DMax)
	}
	s.Dims = append(s.Dims, d)
	s.recompute()
	s.Prices = nil
	s.Valid = false
	return nil
}

// recompute rebuilds Strides and Total from Dims, row-major with the last
// dimension varying fastest.
func (s *StateSpace) recompute() {
	n := len(s.Dims)
	s.Strides = make([]int, n)
	if n == 0 {
		s.Total = 0
		return
	}
	s.Strides[n-1] = 1
	for d := n - 2; d >= 0; d-- {
		s.Strides[d] = s.Strides[d+1] * s.Dims[d+1].N
	}
	total := 1
	for _, dim := range s.Dims {
		total *= dim.N
	}
	s.Total = total
}

// FlatIndex converts a multi-index into a flat buffer index.
func (s *StateSpace) FlatIndex(multi []int) (int, error) {
	if len(multi) != len(s.Dims) {
		return 0, risk.Errf(risk.DimensionMismatch, "multi-index has %d entries, state space has %d dimensions", len(multi), len(s.Dims))
	}
	flat := 0
	for d, i := range multi {
		if i < 0 || i >= s.Dims[d].N {
			return 0, risk.Errf(risk.InvalidArgument, "index %d out of range [0,%d) in dimension %d", i, s.Dims[d].N, d)
		}
		flat += i * s.Strides[d]
	}
	return flat, nil
}

// MultiIndex converts a flat buffer index back into per-dimension indices,
// via iterative division with remainder in stride order.
func (s *StateSpace) MultiIndex(flat int) ([]int, error) {
	if flat < 0 || flat >= s.Total {
		return nil, risk.Errf(risk.InvalidArgument, "flat index %d out of range [0,%d)", flat, s.Total)
	}
	n := len(s.Dims)
	multi := make([]int, n)
	rem := flat
	for d := 0; d < n; d++ {
		multi[d] = rem / s.Strides[d]
		rem = rem % s.Strides[d]
	}
	return multi, nil
}

// CoordsAt reconstructs the coordinate vector for a flat index. The
// returned slice is a fresh copy, never aliasing grid storage.
func (s *StateSpace) CoordsAt(flat int) ([]float64, error) {
	multi, err := s.MultiIndex(flat)
	if err != nil {
		return nil, err
	}
	coords := make([]float64, len(s.Dims))
	for d, i := range multi {
		coords[d] = s.Dims[d].Nodes[i]
	}
	return coords, nil
}

// Nearest returns the flat index of the grid node nearest to x.
func (s *StateSpace) Nearest(x []float64) (int, error) {
	if len(x) != len(s.Dims) {
		return 0, risk.Errf(risk.DimensionMismatch, "point has %d coords, state space has %d dimensions", len(x), len(s.Dims))
	}
	multi := make([]int, len(s.Dims))
	for d, dim := range s.Dims {
		multi[d] = dim.NearestIndex(x[d])
	}
	return s.FlatIndex(multi)
}

// MapPrices visits every flat index in order, reconstructs coordinates,
// invokes fn with a coordinate copy (never a pointer into grid storage),
// and stores the returned scalar. Marks Prices valid on completion; leaves
// the state space untouched on error.
func (s *StateSpace) MapPrices(fn risk.Func, user interface{}) error {
	if fn == nil {
		return risk.Errf(risk.NullPointer, "cannot map prices with a nil pricing function")
	}
	if s.Total == 0 {
		return risk.Errf(risk.InvalidArgument, "state space has no dimensions")
	}
	prices := make([]float64, s.Total)
	for flat := 0; flat < s.Total; flat++ {
		coords, err := s.CoordsAt(flat)
		if err != nil {
			return err
		}
		v, err := fn(coords, user)
		if err != nil {
			return risk.Errf(risk.PricingEngineFailed, "mapping prices at node %d: %v", flat, err)
		}
		prices[flat] = v
	}
	s.Prices = prices
	s.Valid = true
	return nil
}

// GetPrice returns the stored price at a flat index.
func (s *StateSpace) GetPrice(flat int) (float64, error) {
	if !s.Valid {
		return 0, risk.Errf(risk.NotInitialized, "prices are not valid; call MapPrices first")
	}
	if flat < 0 || flat >= s.Total {
		return 0, risk.Errf(risk.InvalidArgument, "flat index %d out of range [0,%d)", flat, s.Total)
	}
	return s.Prices[flat], nil
}

// Interpolate returns the multilinear interpolation of the sampled price
// field at x. At or beyond a boundary, interpolation collapses to the
// boundary value (no extrapolation).
func (s *StateSpace) Interpolate(x []float64) (float64, error) {
	if !s.Valid {
		return 0, risk.Errf(risk.NotInitialized, "prices are not valid; call MapPrices first")
	}
	n := len(s.Dims)
	if len(x) != n {
		return 0, risk.Errf(risk.DimensionMismatch, "point has %d coords, state space has %d dimensions", len(x), n)
	}
	if n == 0 {
		return 0, risk.Errf(risk.InvalidArgument, "state space has no dimensions")
	}
	los := make([]int, n)
	his := make([]int, n)
	ts := make([]float64, n)
	for d, dim := range s.Dims {
		lo, hi, t := dim.Bracket(dim.Clamp(x[d]))
		los[d], his[d], ts[d] = lo, hi, t
	}
	corners := 1 << uint(n)
	multi := make([]int, n)
	var sum float64
	for c := 0; c < corners; c++ {
		weight := 1.0
		for d := 0; d < n; d++ {
			if c&(1<<uint(d)) != 0 {
				multi[d] = his[d]
				weight *= ts[d]
			} else {
				multi[d] = los[d]
				weight *= 1 - ts[d]
			}
		}
		if weight == 0 {
			continue
		}
		flat, err := s.FlatIndex(multi)
		if err != nil {
			return 0, err
		}
		sum += weight * s.Prices[flat]
	}
	return sum, nil
}
