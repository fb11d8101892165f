package constraint

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// end-to-end scenario #4 from spec.md §8: an upper limit on dimension 0 at
// threshold 100, soft, penalty rate 10.
func TestConstraintScenario4(t *testing.T) {
	chk.PrintTitle("constraint_scenario_4")
	s := New()
	if _, err := s.AddFull(PositionLimit, "pos_limit", 0, Upper, Soft, 100, 10, 1e-6); err != nil {
		t.Fatal(err)
	}

	inside := []float64{98, 0}
	d, err := s.Distance(inside)
	if err != nil {
		t.Fatal(err)
	}
	chk.Scalar(t, "distance(98)", 1e-9, d, 2.0)
	violated, err := s.Check(inside)
	if err != nil {
		t.Fatal(err)
	}
	if violated {
		t.Fatal("point inside the limit must not be violated")
	}
	pen, err := s.Penalty(inside)
	if err != nil {
		t.Fatal(err)
	}
	chk.Scalar(t, "penalty(98)", 1e-9, pen, 0.0)

	outside := []float64{101, 0}
	d, err = s.Distance(outside)
	if err != nil {
		t.Fatal(err)
	}
	chk.Scalar(t, "distance(101)", 1e-9, d, -1.0)
	violated, err = s.Check(outside)
	if err != nil {
		t.Fatal(err)
	}
	if !violated {
		t.Fatal("point beyond the limit must be violated")
	}
	pen, err = s.Penalty(outside)
	if err != nil {
		t.Fatal(err)
	}
	chk.Scalar(t, "penalty(101)", 1e-9, pen, 10.0)
}

func TestConstraintBoundaryIsZeroDistance(t *testing.T) {
	s := New()
	if _, err := s.Add(PositionLimit, "pos_limit", 0, 100); err != nil {
		t.Fatal(err)
	}
	d, err := s.Distance([]float64{100, 0})
	if err != nil {
		t.Fatal(err)
	}
	chk.Scalar(t, "distance at boundary", 1e-9, d, 0.0)
}

func TestSignedDistanceMonotone(t *testing.T) {
	c := &Constraint{
		Kind: PositionLimit, Name: "upper", Direction: Upper,
		Hardness: Soft, Threshold: 100, DimIndex: 0, PenaltyRate: 1, Active: true,
	}
	prev := math.Inf(1)
	for _, x := range []float64{80, 90, 100, 110, 120} {
		d, err := c.SignedDistance([]float64{x})
		if err != nil {
			t.Fatal(err)
		}
		if d >= prev {
			t.Fatalf("signed distance must strictly decrease as x grows toward/past threshold: got %v after %v", d, prev)
		}
		prev = d
	}
}

func TestLowerDirectionConstraint(t *testing.T) {
	c := &Constraint{
		Kind: Liquidity, Name: "min_liquidity", Direction: Lower,
		Hardness: Soft, Threshold: 1000, DimIndex: 0, PenaltyRate: 2, Active: true,
	}
	d, err := c.SignedDistance([]float64{1500})
	if err != nil {
		t.Fatal(err)
	}
	chk.Scalar(t, "above floor distance", 1e-9, d, 500)
	d, err = c.SignedDistance([]float64{700})
	if err != nil {
		t.Fatal(err)
	}
	chk.Scalar(t, "below floor distance", 1e-9, d, -300)
	violated, err := c.IsViolated([]float64{700})
	if err != nil {
		t.Fatal(err)
	}
	if !violated {
		t.Fatal("expected violation below the liquidity floor")
	}
}

func TestEqualityDirectionConstraint(t *testing.T) {
	c := &Constraint{
		Kind: Custom, Name: "peg", Direction: Equality,
		Hardness: Hard, Threshold: 1.0, Tolerance: 0.01, DimIndex: 0, Active: true,
	}
	d, err := c.SignedDistance([]float64{1.005})
	if err != nil {
		t.Fatal(err)
	}
	chk.Scalar(t, "inside tolerance band", 1e-9, d, 0.005)
	d, err = c.SignedDistance([]float64{1.05})
	if err != nil {
		t.Fatal(err)
	}
	if d >= 0 {
		t.Fatalf("peg deviation of 0.05 should violate a 0.01 tolerance band, got distance %v", d)
	}
}

func TestInactiveConstraintNeverViolated(t *testing.T) {
	c := &Constraint{Kind: PositionLimit, Direction: Upper, Threshold: 1, DimIndex: 0, Active: false}
	d, err := c.SignedDistance([]float64{1000})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(d, 1) {
		t.Fatalf("inactive constraint distance = %v, want +Inf", d)
	}
	violated, err := c.IsViolated([]float64{1000})
	if err != nil {
		t.Fatal(err)
	}
	if violated {
		t.Fatal("inactive constraint must never be violated")
	}
}

func TestHardConstraintCarriesNoPenalty(t *testing.T) {
	c := &Constraint{
		Kind: Regulatory, Direction: Upper, Hardness: Hard,
		Threshold: 10, DimIndex: 0, PenaltyRate: 999, Active: true,
	}
	p, err := c.Penalty([]float64{1000})
	if err != nil {
		t.Fatal(err)
	}
	chk.Scalar(t, "hard constraint penalty", 1e-15, p, 0.0)
}

func TestNearestPicksMostBinding(t *testing.T) {
	s := New()
	if _, err := s.AddFull(PositionLimit, "loose", 0, Upper, Soft, 1000, 1, 1e-6); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddFull(PositionLimit, "tight", 0, Upper, Soft, 50, 1, 1e-6); err != nil {
		t.Fatal(err)
	}
	idx, err := s.Nearest([]float64{40})
	if err != nil {
		t.Fatal(err)
	}
	if s.Constraints[idx].Name != "tight" {
		t.Fatalf("expected the tight constraint to be nearest, got %q", s.Constraints[idx].Name)
	}
}

func TestNearestEmptySurface(t *testing.T) {
	s := New()
	idx, err := s.Nearest([]float64{0})
	if err != nil {
		t.Fatal(err)
	}
	if idx != -1 {
		t.Fatalf("nearest on an empty surface = %d, want -1", idx)
	}
}

func TestTotalPenaltySumsAllSoftConstraints(t *testing.T) {
	s := New()
	if _, err := s.AddFull(PositionLimit, "a", 0, Upper, Soft, 10, 5, 1e-6); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddFull(Margin, "b", 0, Upper, Soft, 20, 3, 1e-6); err != nil {
		t.Fatal(err)
	}
	total, err := s.TotalPenalty([]float64{30})
	if err != nil {
		t.Fatal(err)
	}
	// a: distance = 10-30 = -20, penalty = 5*20 = 100
	// b: distance = 20-30 = -10, penalty = 3*10 = 30
	chk.Scalar(t, "total penalty", 1e-9, total, 130.0)
}

func TestAnyHardViolationIgnoresSoft(t *testing.T) {
	s := New()
	if _, err := s.AddFull(Margin, "soft", 0, Upper, Soft, 10, 1, 1e-6); err != nil {
		t.Fatal(err)
	}
	violated, err := s.AnyHardViolation([]float64{1000})
	if err != nil {
		t.Fatal(err)
	}
	if violated {
		t.Fatal("a soft-only surface must never report a hard violation")
	}
	if _, err := s.AddFull(Regulatory, "hard", 0, Upper, Hard, 10, 0, 1e-6); err != nil {
		t.Fatal(err)
	}
	violated, err = s.AnyHardViolation([]float64{1000})
	if err != nil {
		t.Fatal(err)
	}
	if !violated {
		t.Fatal("expected the hard regulatory constraint to be violated")
	}
}

func TestCustomCallbackConstraint(t *testing.T) {
	s := New()
	norm := func(point []float64, user interface{}) (float64, error) {
		var sum float64
		for _, v := range point {
			sum += v * v
		}
		return math.Sqrt(sum), nil
	}
	if _, err := s.AddCustom("radius_limit", norm, nil, Upper, 5.0, Hard); err != nil {
		t.Fatal(err)
	}
	violated, err := s.Check([]float64{3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if violated {
		t.Fatal("point exactly at radius 5 must not be violated (boundary is admissible)")
	}
	violated, err = s.Check([]float64{4, 4})
	if err != nil {
		t.Fatal(err)
	}
	if !violated {
		t.Fatal("point beyond radius 5 must be violated")
	}
}

func TestSurfaceRejectsBeyondCapacity(t *testing.T) {
	s := New()
	for i := 0; i < CMax; i++ {
		if _, err := s.Add(Custom, "c", 0, 1); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Add(Custom, "overflow", 0, 1); err == nil {
		t.Fatal("expected an error once the surface holds CMax constraints")
	}
}
