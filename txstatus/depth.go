package txstatus

import "github.com/smartcontractkit/chainlink-wallet-core/chain"

// DefaultNotFoundDepths is how far, in the chain's height unit, a chain must advance past the
// reference block before a transaction it does not know about is reported as NotFound rather
// than Pending.
var DefaultNotFoundDepths = map[chain.ID]uint64{
	// ~150 slots is the lifetime of a recent blockhash.
	chain.Solana: 150,
	// Ledger versions, not blocks. Aptos advances thousands of versions per second.
	chain.Aptos:    100_000,
	chain.Stellar:  60,
	chain.Sui:      100,
	chain.Tron:     20,
	chain.Cosmos:   50,
	chain.Near:     200,
	chain.Ton:      100,
	chain.Cardano:  100,
	chain.Algorand: 1000,
	chain.BNBChain: 50,
	chain.Ethereum: 64,
}

const fallbackNotFoundDepth = 1

// DepthFor returns the configured not-found depth of id, falling back to the default table.
func DepthFor(depths map[chain.ID]uint64, id chain.ID) uint64 {
	if d, ok := depths[id]; ok && d > 0 {
		return d
	}
	if d, ok := DefaultNotFoundDepths[id]; ok {
		return d
	}

	return fallbackNotFoundDepth
}

// withinDepth reports whether latest is still inside the window [reference, reference+depth).
func withinDepth(latest, reference, depth uint64) bool {
	if latest < reference {
		return true
	}

	return latest-reference < depth
}
