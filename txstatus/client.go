package txstatus

import "context"

// ChainStatusClient is the capability a chain client must provide to have its transactions
// resolved. Implementations decode chain-native payloads into a Lookup and report transport
// or RPC failures as errors. A client with several endpoints may retry a failed call against
// them (the EVM multiclient does), but a lookup never waits for the transaction to change state;
// polling is left to the caller.
type ChainStatusClient interface {
	// LookupTransaction fetches the transaction identified by hash. sender is only used by
	// chains whose lookups are scoped to an account and may be empty otherwise.
	LookupTransaction(ctx context.Context, hash, sender string) (Lookup, error)
	// LatestHeight returns the chain's current height in the same unit the reference block of a
	// Request is expressed in (slot, block number, ledger version, checkpoint, ...).
	LatestHeight(ctx context.Context) (uint64, error)
}

// LookupKind describes what the chain said about a transaction.
type LookupKind uint8

const (
	// LookupNotFound means the chain has no record of the transaction.
	LookupNotFound LookupKind = iota
	// LookupPending means the chain knows the transaction but has not included it yet.
	LookupPending
	// LookupIncluded means the transaction was executed and Receipt is populated.
	LookupIncluded
)

func (k LookupKind) String() string {
	switch k {
	case LookupNotFound:
		return "not_found"
	case LookupPending:
		return "pending"
	case LookupIncluded:
		return "included"
	default:
		return "unknown"
	}
}

// Lookup is the decoded answer of a chain to a transaction lookup.
type Lookup struct {
	Kind    LookupKind
	Receipt Receipt
}

// Receipt carries the execution outcome of an included transaction.
type Receipt struct {
	Hash        string
	Success     bool
	BlockHeight uint64
	// Fee is the fee paid, formatted in the chain's display unit.
	Fee          string
	RevertReason string
}

// NotFoundLookup returns a Lookup reporting that the chain has no record of the transaction.
func NotFoundLookup() Lookup { return Lookup{Kind: LookupNotFound} }

// PendingLookup returns a Lookup reporting a known but not yet included transaction.
func PendingLookup() Lookup { return Lookup{Kind: LookupPending} }

// IncludedLookup returns a Lookup for an executed transaction.
func IncludedLookup(r Receipt) Lookup { return Lookup{Kind: LookupIncluded, Receipt: r} }

// ChainStatusClientFunc adapts a pair of functions to a ChainStatusClient.
type ChainStatusClientFunc struct {
	LookupFn func(ctx context.Context, hash, sender string) (Lookup, error)
	HeightFn func(ctx context.Context) (uint64, error)
}

func (f ChainStatusClientFunc) LookupTransaction(ctx context.Context, hash, sender string) (Lookup, error) {
	return f.LookupFn(ctx, hash, sender)
}

func (f ChainStatusClientFunc) LatestHeight(ctx context.Context) (uint64, error) {
	return f.HeightFn(ctx)
}
