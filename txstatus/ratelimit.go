package txstatus

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited wraps client so every call first waits on limiter. A call that cannot get a token
// before its context ends fails with a context error, which classifies as KindNetworkUnavailable.
func RateLimited(client ChainStatusClient, limiter *rate.Limiter) ChainStatusClient {
	if limiter == nil {
		return client
	}

	return &rateLimitedClient{next: client, limiter: limiter}
}

type rateLimitedClient struct {
	next    ChainStatusClient
	limiter *rate.Limiter
}

func (c *rateLimitedClient) LookupTransaction(ctx context.Context, hash, sender string) (Lookup, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Lookup{}, waitError(ctx, err)
	}

	return c.next.LookupTransaction(ctx, hash, sender)
}

func (c *rateLimitedClient) LatestHeight(ctx context.Context) (uint64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, waitError(ctx, err)
	}

	return c.next.LatestHeight(ctx)
}

// waitError maps a limiter failure onto the context error it anticipates, so it classifies as a
// transport failure.
func waitError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
}

// Unwrap returns the client behind the limiter.
func (c *rateLimitedClient) Unwrap() ChainStatusClient {
	return c.next
}

// Underlying returns the innermost client of a chain of wrappers such as RateLimited.
func Underlying(client ChainStatusClient) ChainStatusClient {
	for {
		w, ok := client.(interface{ Unwrap() ChainStatusClient })
		if !ok {
			return client
		}
		client = w.Unwrap()
	}
}
