// Package poll re-resolves a transaction until its status stops changing.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/smartcontractkit/chainlink-wallet-core/pkg/logger"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

// ErrStillPending is returned when the attempts run out while the transaction is still pending.
var ErrStillPending = errors.New("transaction still pending")

const (
	defaultInterval = 2 * time.Second
	defaultAttempts = 30
)

// Resolver resolves a single transaction status request.
type Resolver interface {
	Resolve(ctx context.Context, req txstatus.Request) (txstatus.Result, error)
}

type config struct {
	interval time.Duration
	attempts uint
	lggr     logger.Logger
}

// Option configures UntilTerminal.
type Option func(*config)

// WithInterval sets the fixed delay between attempts.
func WithInterval(d time.Duration) Option {
	return func(c *config) {
		c.interval = d
	}
}

// WithAttempts sets the maximum number of resolutions. Zero polls until the context ends.
func WithAttempts(n uint) Option {
	return func(c *config) {
		c.attempts = n
	}
}

// WithLogger logs every retried attempt.
func WithLogger(lggr logger.Logger) Option {
	return func(c *config) {
		c.lggr = lggr
	}
}

// UntilTerminal resolves req repeatedly until it no longer reports Pending.
//
// Pending results and service unavailable errors are retried. Confirmed, Reverted, NotFound and
// Failed results stop polling and are returned, as do any other errors. When the attempts run
// out on a Pending result, UntilTerminal returns Pending together with ErrStillPending.
func UntilTerminal(ctx context.Context, r Resolver, req txstatus.Request, opts ...Option) (txstatus.Result, error) {
	cfg := config{
		interval: defaultInterval,
		attempts: defaultAttempts,
		lggr:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var last txstatus.Result

	res, err := retry.DoWithData(func() (txstatus.Result, error) {
		res, err := r.Resolve(ctx, req)
		if err != nil {
			if txstatus.IsServiceUnavailable(err) {
				return nil, err
			}

			return nil, retry.Unrecoverable(err)
		}

		last = res
		if res.Status() == txstatus.StatusPending {
			return res, ErrStillPending
		}

		return res, nil
	},
		retry.Context(ctx),
		retry.Attempts(cfg.attempts),
		retry.Delay(cfg.interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			cfg.lggr.Debugw("Transaction not final yet, retrying",
				"chain", req.Chain.String(), "hash", req.Hash, "attempt", attempt+1, "reason", err,
			)
		}),
	)
	if err != nil {
		if last != nil && last.Status() == txstatus.StatusPending {
			return last, fmt.Errorf("poll %s: %w", req, errors.Join(ErrStillPending, err))
		}

		return nil, fmt.Errorf("poll %s: %w", req, err)
	}

	return res, nil
}
