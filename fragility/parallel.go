package fragility

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tembolo1284/georisk"
	"github.com/tembolo1284/georisk/constraint"
	"github.com/tembolo1284/georisk/grid"
)

// ParallelCompute runs one Compute per independent state-space clone
// concurrently, per spec.md §5's requirement that a caller wishing to
// parallelise the fragility sweep must own multiple independent state-space
// clones (the differentiator mutates a scratch vector per call, so sharing
// one StateSpace across goroutines is a programmer error, not supported
// here). Each clone may carry its own constraint surface (surfaces[i] may
// be nil); all clones share the same Config.
func ParallelCompute(ctx context.Context, spaces []*grid.StateSpace, surfaces []*constraint.Surface, cfg Config) ([]*Map, error) {
	if len(surfaces) != 0 && len(surfaces) != len(spaces) {
		return nil, risk.Errf(risk.InvalidArgument, "parallel compute: %d surfaces given for %d state spaces", len(surfaces), len(spaces))
	}
	maps := make([]*Map, len(spaces))
	g, _ := errgroup.WithContext(ctx)
	for i, space := range spaces {
		i, space := i, space
		var surface *constraint.Surface
		if len(surfaces) != 0 {
			surface = surfaces[i]
		}
		g.Go(func() error {
			m, err := New(space, surface, cfg)
			if err != nil {
				return err
			}
			if err := m.Compute(); err != nil {
				return err
			}
			maps[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return maps, nil
}
