package inp

import (
	"testing"

	"github.com/cpmech/gosl/fun/dbf"
)

func TestQuadraticBowlBuilder(t *testing.T) {
	pd := PricerData{Name: "quadratic_bowl"}
	fn, err := pd.Get()
	if err != nil {
		t.Fatal(err)
	}
	v, err := fn([]float64{2, 3}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v != 13 {
		t.Fatalf("quadratic_bowl(2,3) = %v, want 13", v)
	}
}

func TestButterflyBuilderWithParams(t *testing.T) {
	pd := PricerData{Name: "butterfly", Prms: dbf.Params{
		&dbf.P{N: "strike", V: 100},
		&dbf.P{N: "width", V: 5},
	}}
	fn, err := pd.Get()
	if err != nil {
		t.Fatal(err)
	}
	atStrike, err := fn([]float64{100}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if atStrike != 5 {
		t.Fatalf("butterfly at strike = %v, want 5 (full width)", atStrike)
	}
	farAway, err := fn([]float64{200}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if farAway != 0 {
		t.Fatalf("butterfly far from strike = %v, want 0", farAway)
	}
}

func TestUnknownPricerNameFails(t *testing.T) {
	pd := PricerData{Name: "does_not_exist"}
	if _, err := pd.Get(); err == nil {
		t.Fatal("expected an error for an unregistered pricer name")
	}
}

func TestSaddleRejectsTooFewDimensions(t *testing.T) {
	pd := PricerData{Name: "saddle"}
	fn, err := pd.Get()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fn([]float64{1}, nil); err == nil {
		t.Fatal("expected a DimensionMismatch error for a 1-D point")
	}
}
