package fragility

import (
	"github.com/cpmech/gosl/io"

	"github.com/tembolo1284/georisk"
	"github.com/tembolo1284/georisk/constraint"
	"github.com/tembolo1284/georisk/grid"
	"github.com/tembolo1284/georisk/hessian"
	"github.com/tembolo1284/georisk/jacobian"
)

// Stats summarises a completed sweep.
type Stats struct {
	Max             float64
	Mean            float64
	FragileFraction float64
}

// Map is a handle to a StateSpace (borrowed, not owned) plus an optional
// constraint Surface, a configuration, and the results of the last Compute.
type Map struct {
	Space    *grid.StateSpace
	Surface  *constraint.Surface
	Config   Config
	Scores   []float64
	Computed bool
	Stats    Stats

	fragile *regionList
}

// New returns a Map over space with cfg. surface may be nil.
func New(space *grid.StateSpace, surface *constraint.Surface, cfg Config) (*Map, error) {
	if space == nil {
		return nil, risk.Errf(risk.NullPointer, "fragility map: nil state space")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Map{
		Space:   space,
		Surface: surface,
		Config:  cfg,
		fragile: newRegionList(),
	}, nil
}

// Compute sweeps every grid node, scoring it and recording fragile regions.
// Nodes where the Jacobian or Hessian cannot be computed (degenerate
// boundary neighbourhoods) are skipped silently, per spec.md §4.8/§7; a
// global allocation or dimension failure aborts the sweep.
func (m *Map) Compute() error {
	if !m.Space.Valid {
		return risk.Errf(risk.NotInitialized, "fragility map: state space prices are not valid")
	}
	n := m.Space.NDim()
	total := m.Space.TotalPoints()
	if total == 0 {
		return risk.Errf(risk.InvalidArgument, "fragility map: state space has no dimensions")
	}

	scores := make([]float64, total)
	m.fragile = newRegionList()

	jac, err := jacobian.New(n)
	if err != nil {
		return err
	}
	hes, err := hessian.New(n)
	if err != nil {
		return err
	}
	jac.Bump = m.Config.Bump
	hes.Bump = m.Config.Bump

	var sum float64
	var max float64
	fragileCount := 0

	for flat := 0; flat < total; flat++ {
		coords, err := m.Space.CoordsAt(flat)
		if err != nil {
			return err
		}

		if err := jac.Compute(m.Space, coords); err != nil {
			if m.Config.Verbose {
				io.Pf("fragility: skipping node %d (jacobian): %v\n", flat, err)
			}
			continue
		}
		if err := hes.Compute(m.Space, coords); err != nil {
			if m.Config.Verbose {
				io.Pf("fragility: skipping node %d (hessian): %v\n", flat, err)
			}
			continue
		}

		gradNorm := jac.Norm()
		frob, err := hes.Frobenius()
		if err != nil {
			continue
		}
		cond, err := hes.Condition()
		if err != nil {
			continue
		}

		constraintDist := 0.0
		hasConstraint := m.Surface != nil
		if hasConstraint {
			d, err := m.Surface.Distance(coords)
			if err != nil {
				return err
			}
			constraintDist = d
		}

		gradScore := gradientComponent(gradNorm, m.Config.GradientScale)
		curvScore := curvatureComponent(frob, m.Config.CurvatureScale)
		condScore := conditionComponent(cond, m.Config.ConditionThreshold)
		var constrScore float64
		if hasConstraint {
			constrScore = constraintComponent(constraintDist, m.Config.ConstraintThreshold)
		}

		score := combine(m.Config, gradScore, curvScore, condScore, constrScore)
		scores[flat] = score
		sum += score
		if score > max {
			max = score
		}

		if score >= m.Config.FragilityThreshold {
			fragileCount++
			m.fragile.append(Region{
				Coords:         coords,
				Score:          score,
				Curvature:      frob,
				GradientNorm:   gradNorm,
				NearConstraint: hasConstraint && constraintDist < m.Config.ConstraintThreshold,
			})
		}
	}

	m.Scores = scores
	m.Stats = Stats{
		Max:             max,
		Mean:            sum / float64(total),
		FragileFraction: float64(fragileCount) / float64(total),
	}
	m.Computed = true
	return nil
}

// NumFragileRegions returns the number of recorded fragile points.
func (m *Map) NumFragileRegions() int {
	if m.fragile == nil {
		return 0
	}
	return len(m.fragile.items)
}

// GetRegion returns a borrowed view of the i-th fragile-point record. The
// caller must not retain it across a further Compute call.
func (m *Map) GetRegion(i int) (*Region, error) {
	if m.fragile == nil || i < 0 || i >= len(m.fragile.items) {
		return nil, risk.Errf(risk.InvalidArgument, "fragility map: region index %d out of range", i)
	}
	return &m.fragile.items[i], nil
}

// FragilityAt returns the score at the grid node nearest x, or 0 if the map
// has not been computed.
func (m *Map) FragilityAt(x []float64) (float64, error) {
	if !m.Computed {
		return 0, nil
	}
	flat, err := m.Space.Nearest(x)
	if err != nil {
		return 0, err
	}
	return m.Scores[flat], nil
}

// Report builds a short text summary of the top-N fragile regions, sorted
// by descending score.
func (m *Map) Report(topN int) string {
	if !m.Computed {
		return io.Sf("fragility map: not computed\n")
	}
	items := append([]Region(nil), m.fragile.items...)
	for i := 1; i < len(items); i++ {
		v := items[i]
		j := i - 1
		for j >= 0 && items[j].Score < v.Score {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = v
	}
	if topN > len(items) {
		topN = len(items)
	}
	out := io.Sf("fragility report: max=%.4f mean=%.4f fragile_fraction=%.4f\n", m.Stats.Max, m.Stats.Mean, m.Stats.FragileFraction)
	for i := 0; i < topN; i++ {
		r := items[i]
		out += io.Sf("  #%d score=%.4f class=%s coords=%v near_constraint=%v\n", i, r.Score, Classify(r.Score), r.Coords, r.NearConstraint)
	}
	return out
}
