package txstatus

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ResolveAll resolves every request concurrently and returns one Resolution per request, in
// request order. A failing resolution does not affect the others.
func (r *Resolver) ResolveAll(ctx context.Context, reqs []Request) []Resolution {
	out := make([]Resolution, len(reqs))

	var g errgroup.Group
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}

	for i, req := range reqs {
		g.Go(func() error {
			out[i] = r.ResolveDetailed(ctx, req)
			return nil
		})
	}

	// Resolutions report failures in their own Err field.
	_ = g.Wait()

	return out
}
