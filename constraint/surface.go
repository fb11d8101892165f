package constraint

import (
	"math"

	"github.com/tembolo1284/georisk"
)

// CMax is the maximum number of constraints a Surface may hold.
const CMax = 64

// Surface owns up to CMax constraints and answers admissibility queries
// against them.
type Surface struct {
	Constraints []*Constraint
}

// New returns an empty constraint surface.
func New() *Surface {
	return &Surface{}
}

func (s *Surface) checkCapacity() error {
	if len(s.Constraints) >= CMax {
		return risk.Errf(risk.InvalidArgument, "constraint surface already holds the maximum of %d constraints", CMax)
	}
	return nil
}

// Add creates a simple threshold constraint against dimIndex, with
// type-appropriate defaults for direction, hardness and penalty rate.
func (s *Surface) Add(kind Kind, name string, dimIndex int, threshold float64) (*Constraint, error) {
	if err := s.checkCapacity(); err != nil {
		return nil, err
	}
	dir, hardness, penalty := defaults(kind)
	c := &Constraint{
		Kind:        kind,
		Name:        name,
		Direction:   dir,
		Hardness:    hardness,
		Threshold:   threshold,
		DimIndex:    dimIndex,
		PenaltyRate: penalty,
		Tolerance:   1e-6,
		Active:      true,
	}
	s.Constraints = append(s.Constraints, c)
	return c, nil
}

// AddFull creates a constraint with every field given explicitly.
func (s *Surface) AddFull(kind Kind, name string, dimIndex int, direction Direction, hardness Hardness, threshold, penaltyRate, tolerance float64) (*Constraint, error) {
	if err := s.checkCapacity(); err != nil {
		return nil, err
	}
	c := &Constraint{
		Kind:        kind,
		Name:        name,
		Direction:   direction,
		Hardness:    hardness,
		Threshold:   threshold,
		DimIndex:    dimIndex,
		PenaltyRate: penaltyRate,
		Tolerance:   tolerance,
		Active:      true,
	}
	s.Constraints = append(s.Constraints, c)
	return c, nil
}

// AddCustom creates a constraint evaluated by an arbitrary callback over
// the full point rather than a single dimension.
func (s *Surface) AddCustom(name string, eval risk.Func, user interface{}, direction Direction, threshold float64, hardness Hardness) (*Constraint, error) {
	if err := s.checkCapacity(); err != nil {
		return nil, err
	}
	if eval == nil {
		return nil, risk.Errf(risk.NullPointer, "constraint %q: nil evaluator", name)
	}
	c := &Constraint{
		Kind:        Custom,
		Name:        name,
		Direction:   direction,
		Hardness:    hardness,
		Threshold:   threshold,
		DimIndex:    -1,
		Eval:        eval,
		User:        user,
		PenaltyRate: 1.0,
		Tolerance:   1e-6,
		Active:      true,
	}
	s.Constraints = append(s.Constraints, c)
	return c, nil
}

// IsViolated returns, for every constraint in order, whether point violates
// it.
func (s *Surface) IsViolated(point []float64) ([]bool, error) {
	out := make([]bool, len(s.Constraints))
	for i, c := range s.Constraints {
		v, err := c.IsViolated(point)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Check reports whether any constraint is violated at point.
func (s *Surface) Check(point []float64) (bool, error) {
	for _, c := range s.Constraints {
		v, err := c.IsViolated(point)
		if err != nil {
			return false, err
		}
		if v {
			return true, nil
		}
	}
	return false, nil
}

// Distance returns the minimum signed distance to the surface across all
// constraints (+Inf if there are none or all are inactive).
func (s *Surface) Distance(point []float64) (float64, error) {
	min := math.Inf(1)
	for _, c := range s.Constraints {
		d, err := c.SignedDistance(point)
		if err != nil {
			return 0, err
		}
		if d < min {
			min = d
		}
	}
	return min, nil
}

// Nearest returns the index of the most-binding constraint (the one with
// the minimum signed distance), or -1 if there are none.
func (s *Surface) Nearest(point []float64) (int, error) {
	best := -1
	min := math.Inf(1)
	for i, c := range s.Constraints {
		d, err := c.SignedDistance(point)
		if err != nil {
			return -1, err
		}
		if d < min {
			min = d
			best = i
		}
	}
	return best, nil
}

// Penalty returns the penalty contribution of the most-binding constraint.
func (s *Surface) Penalty(point []float64) (float64, error) {
	idx, err := s.Nearest(point)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		return 0, nil
	}
	return s.Constraints[idx].Penalty(point)
}

// TotalPenalty sums the penalty contribution of every soft/dynamic
// constraint at point.
func (s *Surface) TotalPenalty(point []float64) (float64, error) {
	var total float64
	for _, c := range s.Constraints {
		p, err := c.Penalty(point)
		if err != nil {
			return 0, err
		}
		total += p
	}
	return total, nil
}

// AnyHardViolation reports whether any hard constraint is violated at
// point.
func (s *Surface) AnyHardViolation(point []float64) (bool, error) {
	for _, c := range s.Constraints {
		if c.Hardness != Hard {
			continue
		}
		v, err := c.IsViolated(point)
		if err != nil {
			return false, err
		}
		if v {
			return true, nil
		}
	}
	return false, nil
}
