package persist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tembolo1284/georisk/fragility"
	"github.com/tembolo1284/georisk/grid"
)

func computedMap(t *testing.T) *fragility.Map {
	t.Helper()
	s := grid.NewStateSpace()
	dx, err := grid.NewDimension(grid.KindSpot, "x", -5, 5, 11)
	require.NoError(t, err)
	dy, err := grid.NewDimension(grid.KindVol, "y", -5, 5, 11)
	require.NoError(t, err)
	require.NoError(t, s.AddDimension(dx))
	require.NoError(t, s.AddDimension(dy))
	f := func(coords []float64, user interface{}) (float64, error) {
		return coords[0]*coords[0] + coords[1]*coords[1], nil
	}
	require.NoError(t, s.MapPrices(f, nil))

	cfg := fragility.DefaultConfig()
	cfg.FragilityThreshold = 0.0
	m, err := fragility.New(s, nil, cfg)
	require.NoError(t, err)
	require.NoError(t, m.Compute())
	return m
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	m := computedMap(t)
	id, err := store.Save("scenario-6", m)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	snap, err := store.Load(id)
	require.NoError(t, err)
	require.Equal(t, "scenario-6", snap.Label)
	require.Equal(t, m.Stats.Max, snap.Stats.Max)
	require.Equal(t, m.Stats.Mean, snap.Stats.Mean)
	require.Len(t, snap.Scores, len(m.Scores))
	require.Len(t, snap.Regions, m.NumFragileRegions())
}

func TestSaveRejectsUncomputedMap(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	s := grid.NewStateSpace()
	dx, err := grid.NewDimension(grid.KindSpot, "x", 0, 1, 2)
	require.NoError(t, err)
	require.NoError(t, s.AddDimension(dx))
	m, err := fragility.New(s, nil, fragility.DefaultConfig())
	require.NoError(t, err)

	_, err = store.Save("uncomputed", m)
	require.Error(t, err)
}

func TestLoadUnknownIDFails(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load("does-not-exist")
	require.Error(t, err)
}
