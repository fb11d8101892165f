// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"

	"github.com/tembolo1284/georisk"
	"github.com/tembolo1284/georisk/constraint"
	"github.com/tembolo1284/georisk/fragility"
	"github.com/tembolo1284/georisk/grid"
)

// DimensionSpec describes one state-space dimension.
type DimensionSpec struct {
	Kind string  `json:"kind"` // "spot", "vol", "rate", "time", "liquidity", "custom"
	Name string  `json:"name"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	N    int     `json:"n"`
}

// kindOf maps a scenario file's kind string onto grid.Kind.
func kindOf(s string) grid.Kind {
	switch s {
	case "spot":
		return grid.KindSpot
	case "vol":
		return grid.KindVol
	case "rate":
		return grid.KindRate
	case "time":
		return grid.KindTime
	case "liquidity":
		return grid.KindLiquidity
	default:
		return grid.KindCustom
	}
}

// ConstraintSpec describes one admissibility constraint on a dimension.
type ConstraintSpec struct {
	Kind        string  `json:"kind"`      // "liquidity", "position_limit", "margin", "regulatory"
	Name        string  `json:"name"`
	DimIndex    int     `json:"dim_index"`
	Direction   string  `json:"direction"` // "upper", "lower", "equality"
	Hardness    string  `json:"hardness"`  // "hard", "soft", "dynamic"
	Threshold   float64 `json:"threshold"`
	PenaltyRate float64 `json:"penalty_rate"`
	Tolerance   float64 `json:"tolerance"`
}

func constraintKindOf(s string) constraint.Kind {
	switch s {
	case "liquidity":
		return constraint.Liquidity
	case "position_limit":
		return constraint.PositionLimit
	case "margin":
		return constraint.Margin
	case "regulatory":
		return constraint.Regulatory
	default:
		return constraint.Custom
	}
}

func directionOf(s string) constraint.Direction {
	switch s {
	case "lower":
		return constraint.Lower
	case "equality":
		return constraint.Equality
	default:
		return constraint.Upper
	}
}

func hardnessOf(s string) constraint.Hardness {
	switch s {
	case "soft":
		return constraint.Soft
	case "dynamic":
		return constraint.Dynamic
	default:
		return constraint.Hard
	}
}

// Scenario is the top-level shape of a .scn JSON input file: the state
// space to sweep, the pricing function to map over it, the admissible
// region, and the fragility configuration.
type Scenario struct {
	Desc        string           `json:"desc"`
	DirOut      string           `json:"dirout"`
	Dimensions  []DimensionSpec  `json:"dimensions"`
	Pricer      PricerData       `json:"pricer"`
	Constraints []ConstraintSpec `json:"constraints"`
	ConfigPrms  dbf.Params       `json:"config"`
}

// ReadScenario reads and decodes a scenario file, panicking on malformed
// input the way gofem's simulation reader does.
func ReadScenario(fnpath string) *Scenario {
	b, err := io.ReadFile(fnpath)
	if err != nil {
		chk.Panic("ReadScenario: cannot read scenario file %q: %v", fnpath, err)
	}
	var o Scenario
	if err := json.Unmarshal(b, &o); err != nil {
		chk.Panic("ReadScenario: cannot unmarshal scenario file %q: %v", fnpath, err)
	}
	return &o
}

// BuildSpace constructs the state space described by the scenario and maps
// the named pricer over it.
func (o *Scenario) BuildSpace() (*grid.StateSpace, error) {
	space := grid.NewStateSpace()
	for _, d := range o.Dimensions {
		dim, err := grid.NewDimension(kindOf(d.Kind), d.Name, d.Min, d.Max, d.N)
		if err != nil {
			return nil, err
		}
		if err := space.AddDimension(dim); err != nil {
			return nil, err
		}
	}
	fn, err := o.Pricer.Get()
	if err != nil {
		return nil, err
	}
	if err := space.MapPrices(risk.Func(fn), nil); err != nil {
		return nil, err
	}
	return space, nil
}

// BuildSurface constructs the constraint surface described by the
// scenario, or nil if it has none.
func (o *Scenario) BuildSurface() (*constraint.Surface, error) {
	if len(o.Constraints) == 0 {
		return nil, nil
	}
	s := constraint.New()
	for _, c := range o.Constraints {
		if _, err := s.AddFull(
			constraintKindOf(c.Kind), c.Name, c.DimIndex,
			directionOf(c.Direction), hardnessOf(c.Hardness),
			c.Threshold, c.PenaltyRate, c.Tolerance,
		); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// BuildConfig constructs the fragility configuration described by the
// scenario's named parameters.
func (o *Scenario) BuildConfig() (fragility.Config, error) {
	return fragility.NewConfigFromParams(o.ConfigPrms)
}
