// Package txstatus resolves the on-chain status of submitted transactions into one chain
// independent result model, and classifies the failures met along the way.
package txstatus

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/logger"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/metrics"
)

// Metric names emitted by the resolver.
const (
	MetricLookupLatency = "lookup"
	MetricHeightLatency = "latest_height"
	MetricResult        = "result_"
	MetricFailure       = "failure_"
)

// Resolution is the outcome of one Resolve call together with its instrumentation.
type Resolution struct {
	Request Request
	// Result is nil when Err is set.
	Result Result
	// Latency is the duration of the transaction lookup call.
	Latency time.Duration
	// Class is the classification behind Err, a Failed result or a NotFound result. It is the
	// zero value otherwise.
	Class Classification
	Err   error
}

// Resolver turns a Request into a Result using the chain client registered for the request's
// chain. It holds no mutable state of its own apart from the optional terminal cache, so a single
// Resolver serves concurrent resolutions.
type Resolver struct {
	registry *chain.Registry[ChainStatusClient]
	depths   map[chain.ID]uint64
	lggr     logger.Logger
	recorder metrics.Recorder
	now      func() time.Time
	terminal *cache.Cache
	limit    int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithNotFoundDepths overrides the not-found depth of the given chains.
func WithNotFoundDepths(depths map[chain.ID]uint64) Option {
	return func(r *Resolver) {
		maps.Copy(r.depths, depths)
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(lggr logger.Logger) Option {
	return func(r *Resolver) {
		r.lggr = lggr
	}
}

// WithMetrics sets the metrics recorder. Defaults to a no-op recorder.
func WithMetrics(recorder metrics.Recorder) Option {
	return func(r *Resolver) {
		r.recorder = recorder
	}
}

// WithClock sets the clock used to measure lookup latency.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithTerminalCache makes the resolver remember terminal results. Once a request resolves to
// Confirmed or Reverted, later resolutions of the same transaction are answered from c.
func WithTerminalCache(c *cache.Cache) Option {
	return func(r *Resolver) {
		r.terminal = c
	}
}

// WithConcurrency bounds the number of concurrent lookups issued by ResolveAll. Zero or less
// means unbounded.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		r.limit = n
	}
}

// NewResolver returns a Resolver reading clients from registry.
func NewResolver(registry *chain.Registry[ChainStatusClient], opts ...Option) *Resolver {
	r := &Resolver{
		registry: registry,
		depths:   make(map[chain.ID]uint64),
		lggr:     logger.Nop(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve returns the status of the transaction described by req.
//
// The returned error is an *ResolveError matching ErrServiceUnavailable when the chain could not
// be reached, or wraps ErrInvalidRequest when req is unusable. Decoding failures and chain
// rejections are not errors: they resolve to Failed.
//
// Resolve panics if no client is registered for req.Chain.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Result, error) {
	res := r.ResolveDetailed(ctx, req)

	return res.Result, res.Err
}

// ResolveDetailed is Resolve returning the lookup latency and failure classification as well.
func (r *Resolver) ResolveDetailed(ctx context.Context, req Request) Resolution {
	res := Resolution{Request: req}

	if err := req.Validate(); err != nil {
		res.Err = err
		return res
	}

	if cached, ok := r.cached(req); ok {
		res.Result = cached
		return res
	}

	client := r.registry.Resolve(req.Chain)

	lggr := r.lggr.With(
		"chain", req.Chain.String(),
		"hash", req.Hash,
		"resolutionID", uuid.NewString(),
	)
	labels := map[string]string{metrics.LabelChain: req.Chain.String()}

	res = r.resolve(ctx, lggr, client, req, labels)
	r.record(lggr, res, labels)

	if r.terminal != nil && res.Err == nil && cacheable(res.Result) {
		r.terminal.SetDefault(cacheKey(req), res.Result)
	}

	return res
}

func (r *Resolver) resolve(
	ctx context.Context, lggr logger.Logger, client ChainStatusClient, req Request, labels map[string]string,
) Resolution {
	res := Resolution{Request: req}

	sent := r.now()
	lookup, err := client.LookupTransaction(ctx, req.Hash, req.Sender)
	res.Latency = Latency(sent.UnixMilli(), r.now().UnixMilli())
	r.recorder.ObserveLatency(MetricLookupLatency, res.Latency, labels)

	if err != nil {
		res.Class = Classify(err)
		switch {
		case res.Class.Retryable():
			res.Err = &ResolveError{Chain: req.Chain, Hash: req.Hash, Class: res.Class, Err: err}
			return res
		case res.Class.Kind == KindNotFoundOnChain:
			lggr.Debugw("Transaction lookup reported not found", "code", res.Class.Code)
			return r.checkHeight(ctx, lggr, client, req, res, labels)
		default:
			lggr.Debugw("Transaction lookup failed", "class", res.Class.String(), "error", err)
			res.Result = Failed{Err: res.Class}

			return res
		}
	}

	switch lookup.Kind {
	case LookupNotFound:
		return r.checkHeight(ctx, lggr, client, req, res, labels)
	case LookupPending:
		res.Result = Pending{}
	case LookupIncluded:
		if lookup.Receipt.Success {
			res.Result = Confirmed{BlockHeight: lookup.Receipt.BlockHeight, Fee: lookup.Receipt.Fee}
		} else {
			res.Result = Reverted{Reason: lookup.Receipt.RevertReason}
		}
	default:
		res.Class = Classification{Kind: KindMalformedResponse}
		res.Result = Failed{Err: res.Class}
	}

	return res
}

// checkHeight decides between Pending and NotFound for a transaction the chain does not know,
// based on how far the chain has advanced since the reference block.
func (r *Resolver) checkHeight(
	ctx context.Context, lggr logger.Logger, client ChainStatusClient, req Request, res Resolution, labels map[string]string,
) Resolution {
	// Validate already checked the reference block.
	reference, _ := req.referenceHeight()

	sent := r.now()
	latest, err := client.LatestHeight(ctx)
	r.recorder.ObserveLatency(MetricHeightLatency, Latency(sent.UnixMilli(), r.now().UnixMilli()), labels)

	if err != nil {
		res.Class = Classify(err)
		if res.Class.Retryable() {
			res.Err = &ResolveError{
				Chain: req.Chain,
				Hash:  req.Hash,
				Class: res.Class,
				Err:   fmt.Errorf("latest height: %w", err),
			}

			return res
		}
		res.Result = Failed{Err: res.Class}

		return res
	}

	depth := DepthFor(r.depths, req.Chain)
	if withinDepth(latest, reference, depth) {
		res.Result = Pending{}
		res.Class = Classification{}
	} else {
		res.Result = NotFound{}
		res.Class = Classification{Kind: KindNotFoundOnChain, Code: res.Class.Code}
	}
	lggr.Debugw("Compared chain height with reference block",
		"latest", latest, "reference", reference, "depth", depth, "status", res.Result.Status().String(),
	)

	return res
}

func (r *Resolver) record(lggr logger.Logger, res Resolution, labels map[string]string) {
	if res.Err != nil {
		r.recorder.IncCounter(MetricFailure+res.Class.Kind.String(), labels)
		lggr.Infow("Transaction status unavailable", "class", res.Class.String(), "error", res.Err)

		return
	}

	r.recorder.IncCounter(MetricResult+res.Result.Status().String(), labels)

	if f, ok := res.Result.(Failed); ok {
		r.recorder.IncCounter(MetricFailure+f.Err.Kind.String(), labels)
		if f.Err.Kind == KindMalformedResponse || f.Err.Kind == KindUnknown {
			lggr.Warnw("Transaction status could not be determined", "class", f.Err.String())
			return
		}
	}

	lggr.Debugw("Resolved transaction status",
		"status", res.Result.Status().String(), "latency", res.Latency.String(),
	)
}

func (r *Resolver) cached(req Request) (Result, bool) {
	if r.terminal == nil {
		return nil, false
	}

	v, ok := r.terminal.Get(cacheKey(req))
	if !ok {
		return nil, false
	}

	result, ok := v.(Result)

	return result, ok
}

// cacheable reports whether a result is a definitive answer from the chain. Failed is terminal
// too but reflects the response rather than the transaction, so it is not remembered.
func cacheable(res Result) bool {
	switch res.(type) {
	case Confirmed, Reverted:
		return true
	default:
		return false
	}
}

// cacheKey includes the sender since lookups on account-scoped chains depend on it.
func cacheKey(req Request) string {
	return req.Chain.String() + "/" + req.Hash + "/" + req.Sender
}

// IsServiceUnavailable reports whether err is a transient resolution failure worth retrying.
func IsServiceUnavailable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}
